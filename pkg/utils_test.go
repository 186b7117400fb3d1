package pkg

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindProjectRoot(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	nested := filepath.Join(root, "Source", "GridTactics", "Private")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	found, err := FindProjectRoot(nested)
	require.NoError(t, err)
	require.Equal(t, root, found)

	// a .uproject wins over a Source directory further up
	project := filepath.Join(root, "Games", "Sandbox")
	require.NoError(t, os.MkdirAll(filepath.Join(project, "Config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(project, "Sandbox.uproject"), []byte("{}"), 0o644))

	found, err = FindProjectRoot(filepath.Join(project, "Config"))
	require.NoError(t, err)
	require.Equal(t, project, found)
}

func TestPrintHelpers(t *testing.T) {
	t.Parallel()

	buf := new(bytes.Buffer)
	PrintTask(buf, "Resolving")
	PrintSubtask(buf, "GridTactics")
	PrintError(buf, "GridTacticsEditor")

	require.Contains(t, buf.String(), "==>")
	require.Contains(t, buf.String(), "Resolving")
	require.Contains(t, buf.String(), "  ->")
	require.Contains(t, buf.String(), "GridTacticsEditor")
}

func TestPrintHelpersNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	buf := new(bytes.Buffer)
	PrintTask(buf, "Checking targets")
	PrintSubtask(buf, "GridTactics/Win64/Development unchanged")
	PrintError(buf, "GridTactics/Linux/Development changed")

	require.Equal(t, "==> Checking targets\n"+
		"  -> GridTactics/Win64/Development unchanged\n"+
		"  -> GridTactics/Linux/Development changed\n", buf.String())
}
