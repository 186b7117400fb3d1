package targetrules

import (
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"
)

func TestLoadHCL(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t)
	root := t.TempDir()
	file := writeFile(t, root, "Source/GridTactics.target.hcl", `
target "GridTactics" {
  type           = "Game"
  build_settings = build_settings.latest
  include_order  = "Unreal5_5"
  extra_modules  = ["GridTactics"]
}

target "GridTacticsServer" {
  type          = "Server"
  include_order = include_order.oldest
  extra_modules = ["GridTactics", "GridTacticsServer"]
}

target "Minimal" {}
`)

	rules, err := LoadHCL(ctx, file, root)
	require.NoError(t, err)
	require.Len(t, rules, 3)

	gt := rules["GridTactics"]
	require.Equal(t, "//Source/GridTactics.target.hcl", gt.Source)
	require.True(t, GridTacticsRules().Create(TargetInfo{}).Equal(gt.Create(TargetInfo{Platform: Win64})))

	server := rules["GridTacticsServer"]
	require.Equal(t, Server, server.TargetType)
	require.Equal(t, BuildSettingsLatest, server.BuildSettings)
	require.Equal(t, Unreal5_0, server.IncludeOrder)
	require.Equal(t, []string{"GridTactics", "GridTacticsServer"}, server.ExtraModules)

	minimal := rules["Minimal"]
	require.Equal(t, Game, minimal.TargetType)
	require.Equal(t, IncludeOrderLatest, minimal.IncludeOrder)
	require.Empty(t, minimal.ExtraModules)
}

func TestLoadHCLErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"syntax":        `target "X" {`,
		"unknown type":  `target "X" { type = "Toaster" }`,
		"unknown order": `target "X" { include_order = "Unreal4_27" }`,
		"unknown var":   `target "X" { build_settings = build_settings.oldest }`,
		"empty module":  `target "X" { extra_modules = [""] }`,
		"missing label": `target { }`,
		"unknown field": `target "X" { color = "blue" }`,
	}

	for name, content := range cases {
		content := content
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctx, _ := testContext(t)
			root := t.TempDir()
			file := writeFile(t, root, "Source/X.target.hcl", content)

			_, err := LoadHCL(ctx, file, root)
			require.Error(t, err)
		})
	}
}

func TestLoadHCLDuplicate(t *testing.T) {
	t.Parallel()

	ctx, _ := testContext(t)
	root := t.TempDir()
	file := writeFile(t, root, "Source/X.target.hcl", "target \"X\" {}\ntarget \"X\" {}\n")

	_, err := LoadHCL(ctx, file, root)
	require.True(t, eris.Is(err, ErrDuplicateTarget))
}

func TestLoadHCLUnknownContent(t *testing.T) {
	t.Parallel()

	ctx, logs := testContext(t)
	root := t.TempDir()
	file := writeFile(t, root, "Source/GridTactics.target.hcl", `
owner = "tactics-team"

plugin "GridMovement" {}

target "GridTactics" {
  extra_modules = ["GridTactics"]
}
`)

	rules, err := LoadHCL(ctx, file, root)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	require.Contains(t, logs.String(), "ignoring unknown content")
	require.Contains(t, logs.String(), "owner")
	require.Contains(t, logs.String(), "plugin")

	ctx, logs = testContext(t)
	file = writeFile(t, root, "Source/Clean.target.hcl", `target "Clean" {}`)
	_, err = LoadHCL(ctx, file, root)
	require.NoError(t, err)
	require.NotContains(t, logs.String(), "ignoring")
}
