package targetrules

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// DefaultPatterns are the glob patterns (relative to the project root) used to find rules files.
var DefaultPatterns = []string{
	"Source/*.target.star",
	"Source/*.target.hcl",
	"Source/**/*.target.star",
	"Source/**/*.target.hcl",
}

func shellReadDir(path string) ([]os.FileInfo, error) {
	if path == "" {
		path = "."
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	infos := make([]os.FileInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Discover expands the given patterns (** matches any number of directories) relative to
// projectRoot and returns the sorted list of matching files.
func Discover(ctx context.Context, projectRoot string, patterns []string) ([]string, error) {
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := expand.Config{
		ReadDir:  shellReadDir,
		GlobStar: true,
	}
	parser := syntax.NewParser()

	seen := map[string]bool{}
	result := []string{}
	for _, pattern := range patterns {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		item := pattern
		if !filepath.IsAbs(item) {
			item = filepath.Join(projectRoot, item)
		}
		item = filepath.ToSlash(item)

		words := make([]*syntax.Word, 0)
		err := parser.Words(strings.NewReader(item), func(w *syntax.Word) bool {
			words = append(words, w)
			return true
		})
		if err != nil {
			return nil, eris.Wrapf(err, "failed to parse pattern %s", pattern)
		}

		matches, err := expand.Fields(&cfg, words...)
		if err != nil {
			return nil, eris.Wrapf(err, "failed to resolve pattern %s", pattern)
		}

		for _, match := range matches {
			// patterns without matches are returned unchanged
			if strings.ContainsAny(match, "*?[") {
				continue
			}

			match = filepath.FromSlash(match)
			if !seen[match] && isFile(match) {
				seen[match] = true
				result = append(result, match)
			}
		}
	}

	sort.Strings(result)
	log(ctx).Debug().Int("count", len(result)).Msg("Discovered rules files")
	return result, nil
}

// LoadFile loads a single rules file based on its extension (.star or .hcl) and returns the
// outside inputs it read.
func LoadFile(ctx context.Context, filename, projectRoot string, options map[string]string) (RuleSet, *Inputs, error) {
	inputs := NewInputs()

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".star":
		rules, _, err := loadScript(ctx, filename, projectRoot, options, inputs)
		return rules, inputs, err
	case ".hcl":
		rules, err := LoadHCL(ctx, filename, projectRoot)
		return rules, inputs, err
	default:
		return nil, nil, eris.Errorf("don't know how to load %s (expected a .star or .hcl file)", filename)
	}
}

// LoadProject loads every file in sources into a single registry.
func LoadProject(ctx context.Context, projectRoot string, sources []string, options map[string]string) (*Registry, *Inputs, error) {
	registry := NewRegistry()
	inputs := NewInputs()

	for _, source := range sources {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}

		rules, fileInputs, err := LoadFile(ctx, source, projectRoot, options)
		if err != nil {
			return nil, nil, err
		}
		inputs.Merge(fileInputs)

		err = registry.RegisterAll(rules)
		if err != nil {
			return nil, nil, err
		}
	}

	return registry, inputs, nil
}
