package targetrules

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/rotisserie/eris"
)

// TargetType selects the kind of artifact a target produces.
type TargetType int

const (
	Game TargetType = iota
	Editor
	Client
	Server
	Program
)

var targetTypeNames = []string{"Game", "Editor", "Client", "Server", "Program"}

func (t TargetType) String() string {
	if t < 0 || int(t) >= len(targetTypeNames) {
		return "TargetType(" + strconv.Itoa(int(t)) + ")"
	}
	return targetTypeNames[t]
}

// ParseTargetType converts a type name (case-insensitive) into a TargetType
func ParseTargetType(name string) (TargetType, error) {
	idx, err := lookupName(targetTypeNames, name, "target type")
	return TargetType(idx), err
}

func (t TargetType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(targetTypeNames) {
		return nil, eris.Wrapf(ErrUnknownValue, "target type %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *TargetType) UnmarshalText(text []byte) error {
	value, err := ParseTargetType(string(text))
	if err != nil {
		return err
	}
	*t = value
	return nil
}

// BuildSettingsVersion selects a bundle of default compilation conventions.
type BuildSettingsVersion int

const (
	V1 BuildSettingsVersion = iota + 1
	V2
	V3
	V4
	V5

	// BuildSettingsLatest is the newest bundle this tool knows about.
	BuildSettingsLatest = V5
)

var buildSettingsNames = []string{"V1", "V2", "V3", "V4", "V5"}

func (v BuildSettingsVersion) String() string {
	if v < V1 || v > BuildSettingsLatest {
		return "BuildSettingsVersion(" + strconv.Itoa(int(v)) + ")"
	}
	return buildSettingsNames[v-V1]
}

// ParseBuildSettingsVersion accepts "V5", "v5" and the alias "Latest".
func ParseBuildSettingsVersion(name string) (BuildSettingsVersion, error) {
	if strings.EqualFold(name, "latest") {
		return BuildSettingsLatest, nil
	}

	idx, err := lookupName(buildSettingsNames, name, "build settings version")
	return V1 + BuildSettingsVersion(idx), err
}

func (v BuildSettingsVersion) MarshalText() ([]byte, error) {
	if v < V1 || v > BuildSettingsLatest {
		return nil, eris.Wrapf(ErrUnknownValue, "build settings version %d", int(v))
	}
	return []byte(v.String()), nil
}

func (v *BuildSettingsVersion) UnmarshalText(text []byte) error {
	value, err := ParseBuildSettingsVersion(string(text))
	if err != nil {
		return err
	}
	*v = value
	return nil
}

// IncludeOrderVersion selects the header inclusion order of a specific engine release.
type IncludeOrderVersion int

const (
	Unreal5_0 IncludeOrderVersion = iota
	Unreal5_1
	Unreal5_2
	Unreal5_3
	Unreal5_4
	Unreal5_5

	IncludeOrderOldest = Unreal5_0
	IncludeOrderLatest = Unreal5_5
)

var includeOrderNames = []string{"Unreal5_0", "Unreal5_1", "Unreal5_2", "Unreal5_3", "Unreal5_4", "Unreal5_5"}

func (v IncludeOrderVersion) String() string {
	if v < IncludeOrderOldest || v > IncludeOrderLatest {
		return "IncludeOrderVersion(" + strconv.Itoa(int(v)) + ")"
	}
	return includeOrderNames[v]
}

// ParseIncludeOrderVersion accepts the release names ("Unreal5_5") as well as "Latest" and "Oldest".
func ParseIncludeOrderVersion(name string) (IncludeOrderVersion, error) {
	switch strings.ToLower(name) {
	case "latest":
		return IncludeOrderLatest, nil
	case "oldest":
		return IncludeOrderOldest, nil
	}

	idx, err := lookupName(includeOrderNames, name, "include order version")
	return IncludeOrderVersion(idx), err
}

// EngineVersion returns the engine release that introduced this include order.
func (v IncludeOrderVersion) EngineVersion() *semver.Version {
	if v < IncludeOrderOldest || v > IncludeOrderLatest {
		return nil
	}
	return semver.MustParse("5." + strconv.Itoa(int(v)) + ".0")
}

func (v IncludeOrderVersion) MarshalText() ([]byte, error) {
	if v < IncludeOrderOldest || v > IncludeOrderLatest {
		return nil, eris.Wrapf(ErrUnknownValue, "include order version %d", int(v))
	}
	return []byte(v.String()), nil
}

func (v *IncludeOrderVersion) UnmarshalText(text []byte) error {
	value, err := ParseIncludeOrderVersion(string(text))
	if err != nil {
		return err
	}
	*v = value
	return nil
}

func lookupName(names []string, name, kind string) (int, error) {
	for idx, candidate := range names {
		if strings.EqualFold(candidate, name) {
			return idx, nil
		}
	}

	return 0, eris.Wrapf(ErrUnknownValue, "%s %q (expected one of %s)", kind, name, strings.Join(names, ", "))
}
