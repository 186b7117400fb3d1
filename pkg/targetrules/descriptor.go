package targetrules

// TargetDescriptor is the resolved configuration of a single target. It's created once per build
// invocation and can't be modified afterwards; all accessors return copies.
type TargetDescriptor struct {
	targetType           TargetType
	buildSettingsVersion BuildSettingsVersion
	includeOrderVersion  IncludeOrderVersion
	extraModules         []string
}

// NewTargetDescriptor builds a descriptor. The module list is copied, order and duplicates are kept.
func NewTargetDescriptor(targetType TargetType, buildSettings BuildSettingsVersion, includeOrder IncludeOrderVersion, extraModules ...string) TargetDescriptor {
	modules := make([]string, len(extraModules))
	copy(modules, extraModules)

	return TargetDescriptor{
		targetType:           targetType,
		buildSettingsVersion: buildSettings,
		includeOrderVersion:  includeOrder,
		extraModules:         modules,
	}
}

func (d TargetDescriptor) Type() TargetType {
	return d.targetType
}

func (d TargetDescriptor) BuildSettingsVersion() BuildSettingsVersion {
	return d.buildSettingsVersion
}

func (d TargetDescriptor) IncludeOrderVersion() IncludeOrderVersion {
	return d.includeOrderVersion
}

func (d TargetDescriptor) ExtraModules() []string {
	modules := make([]string, len(d.extraModules))
	copy(modules, d.extraModules)
	return modules
}

// Equal reports whether both descriptors have the same fields (module order matters).
func (d TargetDescriptor) Equal(other TargetDescriptor) bool {
	if d.targetType != other.targetType ||
		d.buildSettingsVersion != other.buildSettingsVersion ||
		d.includeOrderVersion != other.includeOrderVersion ||
		len(d.extraModules) != len(other.extraModules) {
		return false
	}

	for idx, name := range d.extraModules {
		if other.extraModules[idx] != name {
			return false
		}
	}
	return true
}

// Record returns the serialisable form of the descriptor.
func (d TargetDescriptor) Record() DescriptorRecord {
	return DescriptorRecord{
		TargetType:           d.targetType.String(),
		BuildSettingsVersion: d.buildSettingsVersion.String(),
		IncludeOrderVersion:  d.includeOrderVersion.String(),
		ExtraModules:         d.ExtraModules(),
	}
}

// DescriptorRecord is the plain data form of a TargetDescriptor that gets handed to the
// orchestrator and stored in the resolution history.
type DescriptorRecord struct {
	TargetType           string   `json:"targetType" yaml:"targetType" toml:"targetType"`
	BuildSettingsVersion string   `json:"buildSettingsVersion" yaml:"buildSettingsVersion" toml:"buildSettingsVersion"`
	IncludeOrderVersion  string   `json:"includeOrderVersion" yaml:"includeOrderVersion" toml:"includeOrderVersion"`
	ExtraModules         []string `json:"extraModules" yaml:"extraModules" toml:"extraModules"`
}

// Descriptor parses the record back into a TargetDescriptor.
func (r DescriptorRecord) Descriptor() (TargetDescriptor, error) {
	targetType, err := ParseTargetType(r.TargetType)
	if err != nil {
		return TargetDescriptor{}, err
	}

	buildSettings, err := ParseBuildSettingsVersion(r.BuildSettingsVersion)
	if err != nil {
		return TargetDescriptor{}, err
	}

	includeOrder, err := ParseIncludeOrderVersion(r.IncludeOrderVersion)
	if err != nil {
		return TargetDescriptor{}, err
	}

	return NewTargetDescriptor(targetType, buildSettings, includeOrder, r.ExtraModules...), nil
}

// Manifest is a resolved descriptor together with the build it was resolved for.
type Manifest struct {
	Target        string           `json:"target" yaml:"target" toml:"target"`
	Platform      Platform         `json:"platform" yaml:"platform" toml:"platform"`
	Configuration Configuration    `json:"configuration" yaml:"configuration" toml:"configuration"`
	Architecture  string           `json:"architecture,omitempty" yaml:"architecture,omitempty" toml:"architecture,omitempty"`
	Descriptor    DescriptorRecord `json:"descriptor" yaml:"descriptor" toml:"descriptor"`
}

func NewManifest(info TargetInfo, desc TargetDescriptor) Manifest {
	return Manifest{
		Target:        info.Name,
		Platform:      info.Platform,
		Configuration: info.Configuration,
		Architecture:  info.Architecture,
		Descriptor:    desc.Record(),
	}
}

// Key matches TargetInfo.Key for the build this manifest was resolved for.
func (m Manifest) Key() string {
	return m.Target + "/" + string(m.Platform) + "/" + string(m.Configuration)
}
