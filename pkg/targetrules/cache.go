package targetrules

import (
	"context"
	"encoding/gob"
	"os"
	"strings"

	"github.com/rotisserie/eris"
)

func init() {
	gob.Register(RuleSet{})
	gob.Register(TargetRules{})
}

type cacheHeader struct {
	Options map[string]string
	Sources []string
	Inputs  Inputs
}

// WriteCache stores the loaded rules together with the options, the rules files they were
// loaded from and the outside inputs those files read. Rules that ran execute() are refused.
func WriteCache(file string, options map[string]string, sources []string, inputs *Inputs, rules RuleSet) error {
	if inputs == nil {
		inputs = NewInputs()
	}

	if !inputs.Cacheable() {
		return eris.Errorf("can't cache rules from %s since they call execute()", strings.Join(inputs.Uncacheable, ", "))
	}

	handle, err := os.Create(file)
	if err != nil {
		return eris.Wrapf(err, "failed to create cache %s", file)
	}
	defer handle.Close()

	encoder := gob.NewEncoder(handle)
	err = encoder.Encode(cacheHeader{Options: options, Sources: sources, Inputs: *inputs})
	if err != nil {
		return eris.Wrap(err, "failed to write cache header")
	}

	err = encoder.Encode(rules)
	if err != nil {
		return eris.Wrap(err, "failed to write cached rules")
	}
	return nil
}

func readCache(file string, withRules bool) (*cacheHeader, RuleSet, error) {
	handle, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	defer handle.Close()

	decoder := gob.NewDecoder(handle)

	var header cacheHeader
	err = decoder.Decode(&header)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "failed to read cache header from %s", file)
	}

	if !withRules {
		return &header, nil, nil
	}

	var result RuleSet
	err = decoder.Decode(&result)
	if err != nil {
		return &header, nil, eris.Wrapf(err, "failed to read cached rules from %s", file)
	}

	return &header, result, nil
}

// ReadCache reads a cache written by WriteCache.
func ReadCache(file string) (map[string]string, []string, RuleSet, error) {
	header, rules, err := readCache(file, true)
	if header == nil {
		return nil, nil, nil, err
	}
	return header.Options, header.Sources, rules, err
}

// CacheFresh reports whether the cache file can be used instead of loading sources again: it has to
// be newer than every source, has to have been written for the same options and sources and the
// environment variables and files read by the rules have to be unchanged.
func CacheFresh(ctx context.Context, file string, options map[string]string, sources []string) bool {
	info, err := os.Stat(file)
	if err != nil {
		return false
	}
	cacheTime := info.ModTime()

	header, _, err := readCache(file, false)
	if err != nil {
		log(ctx).Debug().Err(err).Msg("ignoring unreadable cache")
		return false
	}
	cachedOptions, cachedSources := header.Options, header.Sources

	if !sameStrings(cachedSources, sources) || len(cachedOptions) != len(options) {
		return false
	}

	for name, value := range options {
		cached, ok := cachedOptions[name]
		if !ok || cached != value {
			return false
		}
	}

	for _, source := range sources {
		info, err := os.Stat(source)
		if err != nil {
			return false
		}

		if info.ModTime().Sub(cacheTime) >= 0 {
			log(ctx).Debug().Str("path", source).Msg("cache is outdated")
			return false
		}
	}

	return header.Inputs.Unchanged(ctx)
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for idx := range a {
		if a[idx] != b[idx] {
			return false
		}
	}
	return true
}
