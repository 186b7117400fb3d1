package targetrules

import (
	"fmt"

	"github.com/rotisserie/eris"
	"go.starlark.net/starlark"
)

// Factory turns the orchestrator's TargetInfo into a descriptor. Implementations must not fail,
// block or touch the file system; anything that can go wrong happens while loading the rules.
type Factory interface {
	Create(info TargetInfo) TargetDescriptor
}

// TargetRules contains the processed values passed to target() by a rules file. It's the
// factory for the target's descriptor.
type TargetRules struct {
	Name          string
	TargetType    TargetType
	BuildSettings BuildSettingsVersion
	IncludeOrder  IncludeOrderVersion
	ExtraModules  []string
	// Source is the rules file that declared the target ("builtin" for rules defined in Go).
	Source string
}

var _ Factory = (*TargetRules)(nil)

// RuleSet maps target names to their rules
type RuleSet map[string]*TargetRules

// Create copies the rules into a new descriptor. info is accepted for the orchestrator's benefit
// only; none of the fields depend on it.
func (r *TargetRules) Create(info TargetInfo) TargetDescriptor {
	return NewTargetDescriptor(r.TargetType, r.BuildSettings, r.IncludeOrder, r.ExtraModules...)
}

// GameRules returns the rules of a game target that registers primaryModule as its only extra module.
func GameRules(name, primaryModule string) *TargetRules {
	return &TargetRules{
		Name:          name,
		TargetType:    Game,
		BuildSettings: BuildSettingsLatest,
		IncludeOrder:  Unreal5_5,
		ExtraModules:  []string{primaryModule},
		Source:        "builtin",
	}
}

// GridTacticsRules returns the rules of the GridTactics game target.
func GridTacticsRules() *TargetRules {
	return GameRules("GridTactics", "GridTactics")
}

// Implement starlark.Value for *TargetRules

// String returns a string representation of the rules
func (r *TargetRules) String() string {
	return fmt.Sprintf("<Target %s: %s>", r.Name, r.TargetType)
}

// Type always returns "target" to indicate this type
func (r *TargetRules) Type() string {
	return "target"
}

func (r *TargetRules) Freeze() {}

func (r *TargetRules) Truth() starlark.Bool {
	return starlark.True
}

func (r *TargetRules) Hash() (uint32, error) {
	return 0, eris.New("target is not a hashable type")
}
