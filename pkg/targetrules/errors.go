package targetrules

import (
	"fmt"

	"github.com/rotisserie/eris"
)

var (
	ErrUnknownValue    = eris.New("unknown value")
	ErrDuplicateTarget = eris.New("target declared more than once")
	ErrUnknownFormat   = eris.New("unknown output format")
)

type TargetNotFound struct {
	Name string
}

var _ error = (*TargetNotFound)(nil)

func (e TargetNotFound) Error() string {
	return fmt.Sprintf("The target %s is not declared by any rules file.", e.Name)
}

// IncompatibleEngine is returned by CheckEngine if a descriptor requires a newer engine release.
type IncompatibleEngine struct {
	Target       string
	IncludeOrder IncludeOrderVersion
	Engine       string
}

var _ error = (*IncompatibleEngine)(nil)

func (e IncompatibleEngine) Error() string {
	return fmt.Sprintf("The target %s uses the include order %s which needs engine %s or newer but the engine is %s.",
		e.Target, e.IncludeOrder, e.IncludeOrder.EngineVersion(), e.Engine)
}
