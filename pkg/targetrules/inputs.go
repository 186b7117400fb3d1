package targetrules

import (
	"context"
	"os"
	"time"
)

// EnvRead is the state of an environment variable when a rules file read it.
type EnvRead struct {
	Value string
	Set   bool
}

// Inputs lists what the rules files read besides themselves. Rules loaded from files that ran
// execute() depend on arbitrary commands and can't be reused.
type Inputs struct {
	Env         map[string]EnvRead
	Files       map[string]time.Time
	Uncacheable []string
}

func NewInputs() *Inputs {
	return &Inputs{
		Env:   make(map[string]EnvRead),
		Files: make(map[string]time.Time),
	}
}

func (i *Inputs) recordEnv(key string, value string, set bool) {
	i.Env[key] = EnvRead{Value: value, Set: set}
}

func (i *Inputs) recordFile(path string) {
	if _, ok := i.Files[path]; ok {
		return
	}

	info, err := os.Stat(path)
	if err == nil {
		i.Files[path] = info.ModTime()
	} else {
		// a zero time never matches, the next check treats the rules as outdated
		i.Files[path] = time.Time{}
	}
}

func (i *Inputs) markUncacheable(source string) {
	for _, item := range i.Uncacheable {
		if item == source {
			return
		}
	}
	i.Uncacheable = append(i.Uncacheable, source)
}

// Merge adds the inputs recorded in other.
func (i *Inputs) Merge(other *Inputs) {
	if other == nil {
		return
	}

	for key, read := range other.Env {
		i.Env[key] = read
	}
	for path, modTime := range other.Files {
		if _, ok := i.Files[path]; !ok {
			i.Files[path] = modTime
		}
	}
	for _, source := range other.Uncacheable {
		i.markUncacheable(source)
	}
}

// Cacheable reports whether rules loaded with these inputs may be written to the cache.
func (i *Inputs) Cacheable() bool {
	return len(i.Uncacheable) == 0
}

// Unchanged compares the recorded inputs with the current environment and file system.
func (i *Inputs) Unchanged(ctx context.Context) bool {
	if !i.Cacheable() {
		log(ctx).Debug().Strs("sources", i.Uncacheable).Msg("rules call execute() and can't be cached")
		return false
	}

	for key, read := range i.Env {
		value, set := os.LookupEnv(key)
		if set != read.Set || value != read.Value {
			log(ctx).Debug().Str("env", key).Msg("cache is outdated")
			return false
		}
	}

	for path, modTime := range i.Files {
		info, err := os.Stat(path)
		if err != nil || modTime.IsZero() || !info.ModTime().Equal(modTime) {
			log(ctx).Debug().Str("path", path).Msg("cache is outdated")
			return false
		}
	}

	return true
}
