package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Sunrmmy/GridTactics/pkg/targetrules"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	file := filepath.Join(t.TempDir(), "targets.toml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0o644))
	return file
}

func TestLoad(t *testing.T) {
	file := writeConfig(t, `
engine = "5.4.2"
format = "yaml"
`)

	cfg, err := Load(file)
	require.NoError(t, err)
	require.Equal(t, "5.4.2", cfg.Engine)
	require.Equal(t, "yaml", cfg.Format)
	require.Equal(t, ".", cfg.ProjectRoot)
	require.Equal(t, ".targetrules.cache", cfg.Cache)
	require.Equal(t, ".targetrules.db", cfg.StateDB)
	require.Equal(t, targetrules.DefaultPatterns, cfg.Patterns)
	require.Equal(t, zerolog.InfoLevel, cfg.LogLevel())
}

func TestLoadEnvironment(t *testing.T) {
	file := writeConfig(t, `engine = "5.4.2"`)
	t.Setenv("GT_ENGINE", "5.5.1")

	cfg, err := Load(file)
	require.NoError(t, err)
	require.Equal(t, "5.5.1", cfg.Engine)
}

func TestLoadInvalid(t *testing.T) {
	file := writeConfig(t, `format = "xml"`)

	_, err := Load(file)
	require.Error(t, err)
	require.Contains(t, err.Error(), "format")
}

func validConfig() Config {
	cfg := Config{
		ProjectRoot: ".",
		Patterns:    []string{"Source/*.target.star"},
		Engine:      "5.5.0",
		Format:      "json",
	}
	cfg.Log.Level = "info"
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	require.NoError(t, cfg.Validate())

	cases := map[string]func(*Config){
		"log level":      func(cfg *Config) { cfg.Log.Level = "loud" },
		"format":         func(cfg *Config) { cfg.Format = "xml" },
		"engine":         func(cfg *Config) { cfg.Engine = "five" },
		"empty patterns": func(cfg *Config) { cfg.Patterns = nil },
	}

	for name, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		require.Error(t, cfg.Validate(), name)
	}
}

func TestLogLevel(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	for level, expected := range map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARNING": zerolog.WarnLevel,
		"Error":   zerolog.ErrorLevel,
	} {
		cfg.Log.Level = level
		require.NoError(t, cfg.Validate())
		require.Equal(t, expected, cfg.LogLevel())
	}
}

func TestLoadPatterns(t *testing.T) {
	file := writeConfig(t, `patterns = ["Targets/*.target.hcl"]`)

	cfg, err := Load(file)
	require.NoError(t, err)
	require.Equal(t, []string{"Targets/*.target.hcl"}, cfg.Patterns)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestLoadDefaultFileIsOptional(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "5.5.0", cfg.Engine)
	require.Equal(t, "json", cfg.Format)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
