package config

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigtoml"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/Sunrmmy/GridTactics/pkg/targetrules"
)

// Config describes all configuration options
type Config struct {
	ProjectRoot string   `toml:"project_root" default:"." usage:"Directory containing the Source folder"`
	Patterns    []string `toml:"patterns" usage:"Glob patterns used to find rules files (defaults to targetrules.DefaultPatterns)"`
	Cache       string   `toml:"cache" default:".targetrules.cache" usage:"Rules cache file (relative to the project root, empty to disable)"`
	StateDB     string   `toml:"state_db" default:".targetrules.db" usage:"Resolution history database (relative to the project root)"`
	Engine      string   `toml:"engine" default:"5.5.0" usage:"Engine release the targets are built with"`
	Format      string   `toml:"format" default:"json" usage:"Output format for resolved descriptors (json, yaml or toml)"`
	Log         struct {
		Level string `toml:"level" default:"info"`
		JSON  bool   `toml:"json" default:"false" usage:"Output JSON lines instead of coloured console messages"`
	} `toml:"log"`
}

var logLevels = map[string]zerolog.Level{
	"debug":   zerolog.DebugLevel,
	"info":    zerolog.InfoLevel,
	"warn":    zerolog.WarnLevel,
	"warning": zerolog.WarnLevel,
	"error":   zerolog.ErrorLevel,
	"fatal":   zerolog.FatalLevel,
}

// Loader initializes an empty config object and returns a new Loader for this object. Values are
// read from targets.toml and GT_* environment variables; flags are handled by the CLI.
// Explicitly passed files have to exist, the default targets.toml is optional. Unknown GT_*
// variables are allowed since GT_DEBUG is read by the console writer.
func Loader(files ...string) (*Config, *aconfig.Loader) {
	explicit := len(files) > 0
	if !explicit {
		files = []string{"targets.toml"}
	}

	cfg := Config{}
	return &cfg, aconfig.LoaderFor(&cfg, aconfig.Config{
		SkipFlags:          true,
		FailOnFileNotFound: explicit,
		AllowUnknownEnvs:   true,
		EnvPrefix:          "GT",
		Files:              files,
		FileDecoders: map[string]aconfig.FileDecoder{
			".toml": aconfigtoml.New(),
		},
	})
}

// Load reads the configuration and validates it.
func Load(files ...string) (*Config, error) {
	cfg, loader := Loader(files...)
	if err := loader.Load(); err != nil {
		return nil, eris.Wrap(err, "failed to load config")
	}

	if len(cfg.Patterns) == 0 {
		cfg.Patterns = append([]string(nil), targetrules.DefaultPatterns...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate verifies that all config fields have valid values
func (cfg *Config) Validate() error {
	if _, ok := logLevels[strings.ToLower(cfg.Log.Level)]; !ok {
		return eris.Errorf(`Invalid value for log.level: %s`, cfg.Log.Level)
	}

	switch strings.ToLower(cfg.Format) {
	case "json", "yaml", "yml", "toml":
	default:
		return eris.Errorf(`Invalid value for format: %s (must be one of json, yaml or toml)`, cfg.Format)
	}

	if _, err := semver.NewVersion(cfg.Engine); err != nil {
		return eris.Wrapf(err, `Invalid value for engine: %s`, cfg.Engine)
	}

	if len(cfg.Patterns) == 0 {
		return eris.New(`patterns can't be empty`)
	}

	return nil
}

// LogLevel converts the .Log.Level field to a zerolog.Level
func (cfg *Config) LogLevel() zerolog.Level {
	return logLevels[strings.ToLower(cfg.Log.Level)]
}
