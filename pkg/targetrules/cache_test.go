package targetrules

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCacheRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cacheFile := filepath.Join(dir, "rules.cache")
	rules := RuleSet{
		"GridTactics": GridTacticsRules(),
		"GridTacticsEditor": &TargetRules{
			Name:          "GridTacticsEditor",
			TargetType:    Editor,
			BuildSettings: V4,
			IncludeOrder:  Unreal5_4,
			ExtraModules:  []string{"GridTactics", "GridTacticsEditor"},
			Source:        "//Source/GridTacticsEditor.target.star",
		},
	}
	options := map[string]string{"primary_module": "GridTactics"}
	sources := []string{"/project/Source/GridTactics.target.star"}

	require.NoError(t, WriteCache(cacheFile, options, sources, nil, rules))

	cachedOptions, cachedSources, cachedRules, err := ReadCache(cacheFile)
	require.NoError(t, err)
	require.Equal(t, options, cachedOptions)
	require.Equal(t, sources, cachedSources)
	require.Equal(t, rules, cachedRules)
}

func TestCacheFresh(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t)
	root := t.TempDir()
	source := writeFile(t, root, "Source/GridTactics.target.star", gridTacticsScript)
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(source, past, past))

	cacheFile := filepath.Join(root, "rules.cache")
	sources := []string{source}
	options := map[string]string{"primary_module": "GridTactics"}

	require.False(t, CacheFresh(ctx, cacheFile, options, sources))

	rules, _, err := LoadScript(ctx, source, root, options)
	require.NoError(t, err)
	require.NoError(t, WriteCache(cacheFile, options, sources, NewInputs(), rules))

	require.True(t, CacheFresh(ctx, cacheFile, options, sources))
	require.False(t, CacheFresh(ctx, cacheFile, map[string]string{"primary_module": "Other"}, sources))
	require.False(t, CacheFresh(ctx, cacheFile, nil, sources))
	require.False(t, CacheFresh(ctx, cacheFile, options, append(sources, filepath.Join(root, "Source/New.target.hcl"))))

	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(source, future, future))
	require.False(t, CacheFresh(ctx, cacheFile, options, sources))
}

func TestReadCacheGarbage(t *testing.T) {
	t.Parallel()

	cacheFile := filepath.Join(t.TempDir(), "rules.cache")
	require.NoError(t, os.WriteFile(cacheFile, []byte("not a cache"), 0o644))

	_, _, _, err := ReadCache(cacheFile)
	require.Error(t, err)
}

// loadCached loads the project, writes the cache and moves the sources into the past so only the
// recorded inputs decide whether the cache is fresh.
func loadCached(t *testing.T, root string, sources []string) (string, *Registry) {
	t.Helper()

	ctx, _ := testContext(t)
	past := time.Now().Add(-time.Hour)
	for _, source := range sources {
		require.NoError(t, os.Chtimes(source, past, past))
	}

	registry, inputs, err := LoadProject(ctx, root, sources, nil)
	require.NoError(t, err)

	cacheFile := filepath.Join(root, ".targetrules.cache")
	require.NoError(t, WriteCache(cacheFile, nil, sources, inputs, registry.Rules()))
	require.True(t, CacheFresh(ctx, cacheFile, nil, sources))
	return cacheFile, registry
}

func TestCacheTracksEnvironment(t *testing.T) {
	ctx, _ := testContext(t)
	root := t.TempDir()
	source := writeFile(t, root, "Source/G.target.star", `
target(name = "G", extra_modules = [getenv("GT_TEST_CACHE_MODULE", "GridTactics")])
`)
	sources := []string{source}

	t.Setenv("GT_TEST_CACHE_MODULE", "A")
	cacheFile, registry := loadCached(t, root, sources)
	rules, _ := registry.Lookup("G")
	require.Equal(t, []string{"A"}, rules.ExtraModules)

	t.Setenv("GT_TEST_CACHE_MODULE", "B")
	require.False(t, CacheFresh(ctx, cacheFile, nil, sources))

	t.Setenv("GT_TEST_CACHE_MODULE", "A")
	require.True(t, CacheFresh(ctx, cacheFile, nil, sources))

	require.NoError(t, os.Unsetenv("GT_TEST_CACHE_MODULE"))
	require.False(t, CacheFresh(ctx, cacheFile, nil, sources))
}

func TestCacheTracksUnsetEnvironment(t *testing.T) {
	ctx, _ := testContext(t)
	root := t.TempDir()
	source := writeFile(t, root, "Source/G.target.star", `
target(name = "G", extra_modules = [getenv("GT_TEST_CACHE_UNSET", "GridTactics")])
`)
	sources := []string{source}

	cacheFile, _ := loadCached(t, root, sources)

	t.Setenv("GT_TEST_CACHE_UNSET", "GridTactics")
	require.False(t, CacheFresh(ctx, cacheFile, nil, sources))
}

func TestCacheTracksYamlFiles(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t)
	root := t.TempDir()
	config := writeFile(t, root, "Config/modules.yml", "primary: GridTactics\n")
	source := writeFile(t, root, "Source/G.target.star", `
target(name = "G", extra_modules = [read_yaml("//Config/modules.yml", "primary")])
`)
	sources := []string{source}

	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(config, past, past))

	cacheFile, _ := loadCached(t, root, sources)

	require.NoError(t, os.WriteFile(config, []byte("primary: Tactics\n"), 0o644))
	require.False(t, CacheFresh(ctx, cacheFile, nil, sources))

	require.NoError(t, os.Chtimes(config, past, past))
	require.True(t, CacheFresh(ctx, cacheFile, nil, sources))

	require.NoError(t, os.Remove(config))
	require.False(t, CacheFresh(ctx, cacheFile, nil, sources))
}

func TestCacheRefusesExecute(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t)
	root := t.TempDir()
	source := writeFile(t, root, "Source/G.target.star", `
target(name = "G", extra_modules = [execute("echo GridTactics").strip()])
`)
	sources := []string{source}

	registry, inputs, err := LoadProject(ctx, root, sources, nil)
	require.NoError(t, err)
	require.False(t, inputs.Cacheable())
	require.Equal(t, []string{source}, inputs.Uncacheable)

	cacheFile := filepath.Join(root, ".targetrules.cache")
	require.Error(t, WriteCache(cacheFile, nil, sources, inputs, registry.Rules()))
	require.False(t, CacheFresh(ctx, cacheFile, nil, sources))
}
