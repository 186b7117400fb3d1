// Package cmd implements the CLI for the targetrules package
package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Sunrmmy/GridTactics/pkg"
	"github.com/Sunrmmy/GridTactics/pkg/config"
	"github.com/Sunrmmy/GridTactics/pkg/storage"
	"github.com/Sunrmmy/GridTactics/pkg/targetrules"
)

var TargetCmd = &cobra.Command{
	Use:   "target",
	Short: "Resolves build-target rules",
	Long: `This command discovers the *.target.star and *.target.hcl files below the project's Source
directory and resolves them into target descriptors for the build orchestrator.`,
	SilenceUsage: true,
}

// environment bundles everything the subcommands share
type environment struct {
	ctx         context.Context
	cfg         *config.Config
	logger      zerolog.Logger
	projectRoot string
}

func setup(cmd *cobra.Command) (*environment, error) {
	configFile, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	var files []string
	if configFile != "" {
		files = []string{configFile}
	}

	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}

	var out io.Writer = NewConsoleWriter(cmd.ErrOrStderr(), os.Getenv("NO_COLOR") != "")
	if cfg.Log.JSON {
		out = cmd.ErrOrStderr()
	}

	env := &environment{
		cfg:    cfg,
		logger: zerolog.New(out).Level(cfg.LogLevel()),
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env.ctx = targetrules.WithLogger(ctx, &env.logger)

	if cfg.ProjectRoot == "." {
		env.projectRoot, err = pkg.FindProjectRoot(".")
	} else {
		env.projectRoot, err = filepath.Abs(cfg.ProjectRoot)
	}
	if err != nil {
		return nil, err
	}

	return env, nil
}

func (e *environment) projectPath(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(e.projectRoot, path)
}

// loadRegistry discovers the rules files and loads them, from the cache if it's still fresh.
func (e *environment) loadRegistry(options map[string]string) (*targetrules.Registry, error) {
	sources, err := targetrules.Discover(e.ctx, e.projectRoot, e.cfg.Patterns)
	if err != nil {
		return nil, err
	}

	if len(sources) == 0 {
		return nil, eris.Errorf("no rules files found in %s", e.projectRoot)
	}

	cacheFile := e.projectPath(e.cfg.Cache)
	if cacheFile != "" && targetrules.CacheFresh(e.ctx, cacheFile, options, sources) {
		_, _, rules, err := targetrules.ReadCache(cacheFile)
		if err == nil {
			e.logger.Debug().Str("path", cacheFile).Msg("Using cached rules")

			registry := targetrules.NewRegistry()
			if err = registry.RegisterAll(rules); err != nil {
				return nil, err
			}
			return registry, nil
		}

		e.logger.Warn().Err(err).Msg("Failed to read the rules cache")
	}

	registry, inputs, err := targetrules.LoadProject(e.ctx, e.projectRoot, sources, options)
	if err != nil {
		return nil, err
	}

	if cacheFile != "" {
		if !inputs.Cacheable() {
			e.logger.Debug().Strs("sources", inputs.Uncacheable).Msg("Not caching rules that call execute()")
			if err := os.Remove(cacheFile); err != nil && !os.IsNotExist(err) {
				e.logger.Warn().Err(err).Msg("Failed to remove the rules cache")
			}
		} else if err := targetrules.WriteCache(cacheFile, options, sources, inputs, registry.Rules()); err != nil {
			e.logger.Warn().Err(err).Msg("Failed to write the rules cache")
		}
	}

	return registry, nil
}

func (e *environment) openStore() (*storage.Store, error) {
	return storage.Open(e.ctx, e.projectPath(e.cfg.StateDB))
}

// splitArgs separates key=value options for the rules files from positional arguments.
func splitArgs(args []string) ([]string, map[string]string) {
	positional := make([]string, 0, len(args))
	options := make(map[string]string)

	for _, part := range args {
		pos := strings.Index(part, "=")
		if pos > -1 {
			options[part[:pos]] = part[pos+1:]
		} else {
			positional = append(positional, part)
		}
	}

	return positional, options
}

// targetInfo builds the TargetInfo from the --platform, --configuration and --arch flags.
func (e *environment) targetInfo(cmd *cobra.Command, name string) (targetrules.TargetInfo, error) {
	info := targetrules.TargetInfo{Name: name}

	platform, err := cmd.Flags().GetString("platform")
	if err != nil {
		return info, err
	}

	info.Platform, err = targetrules.ParsePlatform(platform)
	if err != nil {
		return info, err
	}

	configuration, err := cmd.Flags().GetString("configuration")
	if err != nil {
		return info, err
	}

	info.Configuration, err = targetrules.ParseConfiguration(configuration)
	if err != nil {
		return info, err
	}

	info.Architecture, err = cmd.Flags().GetString("arch")
	if err != nil {
		return info, err
	}

	projects, err := filepath.Glob(filepath.Join(e.projectRoot, "*.uproject"))
	if err == nil && len(projects) > 0 {
		info.ProjectFile = projects[0]
	}

	return info, nil
}

func addTargetInfoFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("platform", "p", string(targetrules.Win64), "platform to build for")
	cmd.Flags().StringP("configuration", "c", string(targetrules.Development), "build configuration")
	cmd.Flags().String("arch", "", "target architecture (empty for the platform default)")
}

func init() {
	TargetCmd.PersistentFlags().String("config", "", "config file (defaults to targets.toml in the working directory)")

	TargetCmd.AddCommand(listCmd)
	TargetCmd.AddCommand(resolveCmd)
	TargetCmd.AddCommand(statusCmd)
	TargetCmd.AddCommand(historyCmd)
}
