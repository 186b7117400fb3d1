package targetrules

import (
	"sort"

	"github.com/rotisserie/eris"
)

// Registry holds every known target. It's filled while loading the rules files and only read
// afterwards, so concurrent Resolve calls are fine once loading is done.
type Registry struct {
	rules RuleSet
}

func NewRegistry() *Registry {
	return &Registry{rules: RuleSet{}}
}

// Register adds the rules of a target. Names have to be unique across all rules files.
func (r *Registry) Register(rules *TargetRules) error {
	if rules == nil || rules.Name == "" {
		return eris.New("can't register a target without a name")
	}

	if existing, ok := r.rules[rules.Name]; ok {
		return eris.Wrapf(ErrDuplicateTarget, "%s is declared in %s and %s", rules.Name, existing.Source, rules.Source)
	}

	r.rules[rules.Name] = rules
	return nil
}

// RegisterAll registers every entry of the given set in name order so duplicate errors are stable.
func (r *Registry) RegisterAll(set RuleSet) error {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := r.Register(set[name]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Registry) Lookup(name string) (*TargetRules, bool) {
	rules, ok := r.rules[name]
	return rules, ok
}

// Names returns the sorted names of all registered targets
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.rules))
	for name := range r.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Rules returns a copy of the registered rule set
func (r *Registry) Rules() RuleSet {
	result := make(RuleSet, len(r.rules))
	for name, rules := range r.rules {
		result[name] = rules
	}
	return result
}

// Resolve looks up the rules for info.Name and creates the descriptor.
func (r *Registry) Resolve(info TargetInfo) (TargetDescriptor, error) {
	rules, ok := r.rules[info.Name]
	if !ok {
		return TargetDescriptor{}, TargetNotFound{Name: info.Name}
	}

	return rules.Create(info), nil
}
