package pkg

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/colorstring"
	"github.com/rotisserie/eris"
)

// FindProjectRoot walks up from start until it finds a directory that contains a *.uproject file
// or a Source directory.
func FindProjectRoot(start string) (string, error) {
	path, err := filepath.Abs(start)
	if err != nil {
		return "", eris.Wrap(err, "Failed to determine the absolute path")
	}

	for {
		projects, err := filepath.Glob(filepath.Join(path, "*.uproject"))
		if err != nil {
			return "", eris.Wrap(err, "Error ocurred while searching for project root")
		}
		if len(projects) > 0 {
			return path, nil
		}

		info, err := os.Stat(filepath.Join(path, "Source"))
		if err == nil && info.IsDir() {
			return path, nil
		}

		if err != nil && !eris.Is(err, os.ErrNotExist) {
			return "", eris.Wrap(err, "Error ocurred while searching for project root")
		}

		parent := filepath.Dir(path)
		if parent == path {
			break
		}
		path = parent
	}

	return "", eris.New("Project root not found")
}

func colorize() *colorstring.Colorize {
	return &colorstring.Colorize{
		Colors:  colorstring.DefaultColors,
		Disable: os.Getenv("NO_COLOR") != "",
		Reset:   true,
	}
}

func PrintTask(out io.Writer, msg string) {
	fmt.Fprintf(out, colorize().Color("[blue][bold]==>[default] %s\n"), msg)
}

func PrintSubtask(out io.Writer, msg string) {
	fmt.Fprintf(out, colorize().Color("[green][bold]  ->[reset] %s\n"), msg)
}

func PrintError(out io.Writer, msg string) {
	fmt.Fprintf(out, colorize().Color("[red][bold]  ->[reset] %s\n"), msg)
}
