package cmd

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Sunrmmy/GridTactics/pkg/targetrules"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve target [option=value...]",
	Short: "Resolves a target into the descriptor for the build orchestrator",
	Long: `Resolves the named target for the selected platform and configuration and prints the
descriptor. Arguments of the form key=value are passed to the rules files' option() calls.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, options := splitArgs(args)
		if len(names) != 1 {
			return eris.New("Expected exactly one target name!")
		}

		env, err := setup(cmd)
		if err != nil {
			return err
		}

		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		if format == "" {
			format = env.cfg.Format
		}

		record, err := cmd.Flags().GetBool("record")
		if err != nil {
			return err
		}

		engine, err := cmd.Flags().GetString("engine")
		if err != nil {
			return err
		}
		if engine == "" {
			engine = env.cfg.Engine
		}

		info, err := env.targetInfo(cmd, names[0])
		if err != nil {
			return err
		}

		registry, err := env.loadRegistry(options)
		if err != nil {
			return err
		}

		desc, err := registry.Resolve(info)
		if err != nil {
			return err
		}

		if err = targetrules.CheckEngine(info.Name, desc, engine); err != nil {
			return err
		}

		manifest := targetrules.NewManifest(info, desc)
		if record {
			store, err := env.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			changed, err := store.Save(env.ctx, manifest)
			if err != nil {
				return err
			}

			if changed {
				env.logger.Warn().Str("target", info.Name).Msgf("descriptor changed for %s", manifest.Key())
			} else {
				env.logger.Info().Str("target", info.Name).Msgf("descriptor unchanged for %s", manifest.Key())
			}
		}

		return targetrules.Render(cmd.OutOrStdout(), manifest, format)
	},
}

func init() {
	addTargetInfoFlags(resolveCmd)
	resolveCmd.Flags().StringP("format", "o", "", "output format (json, yaml or toml; defaults to the configured format)")
	resolveCmd.Flags().StringP("engine", "e", "", "engine release to check the descriptor against (defaults to the configured engine)")
	resolveCmd.Flags().BoolP("record", "r", false, "record the descriptor in the resolution history")
}
