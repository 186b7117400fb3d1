package targetrules

import (
	"github.com/Masterminds/semver/v3"
	"github.com/rotisserie/eris"
)

// CheckEngine verifies that the engine release can build a target with the given descriptor.
// Only the include order is tied to a release; build settings bundles are supported by every
// UE5 release.
func CheckEngine(target string, desc TargetDescriptor, engine string) error {
	engineVersion, err := semver.NewVersion(engine)
	if err != nil {
		return eris.Wrapf(err, "invalid engine version %s", engine)
	}

	required := desc.IncludeOrderVersion().EngineVersion()
	if required == nil {
		return eris.Wrapf(ErrUnknownValue, "include order %s", desc.IncludeOrderVersion())
	}

	// pre-releases of the required version are good enough
	constraint, err := semver.NewConstraint(">= " + required.String() + "-0")
	if err != nil {
		return eris.Wrap(err, "failed to build version constraint")
	}

	if !constraint.Check(engineVersion) {
		return IncompatibleEngine{
			Target:       target,
			IncludeOrder: desc.IncludeOrderVersion(),
			Engine:       engineVersion.String(),
		}
	}
	return nil
}
