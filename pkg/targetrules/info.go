package targetrules

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Platform names the platform a target is built for.
type Platform string

const (
	Win64      Platform = "Win64"
	Mac        Platform = "Mac"
	Linux      Platform = "Linux"
	LinuxArm64 Platform = "LinuxArm64"
	Android    Platform = "Android"
	IOS        Platform = "IOS"
)

// Platforms lists every platform ParsePlatform accepts
var Platforms = []Platform{Win64, Mac, Linux, LinuxArm64, Android, IOS}

// Configuration names the build configuration (optimisation level and checks).
type Configuration string

const (
	Debug       Configuration = "Debug"
	DebugGame   Configuration = "DebugGame"
	Development Configuration = "Development"
	Test        Configuration = "Test"
	Shipping    Configuration = "Shipping"
)

// Configurations lists every configuration ParseConfiguration accepts
var Configurations = []Configuration{Debug, DebugGame, Development, Test, Shipping}

// TargetInfo is the build context the orchestrator hands to the rules. Rules never validate it;
// the CLI does that with ParsePlatform and ParseConfiguration before resolving anything.
type TargetInfo struct {
	Name          string
	Platform      Platform
	Configuration Configuration
	Architecture  string
	ProjectFile   string
}

// Key identifies the build a TargetInfo describes (target/platform/configuration).
func (i TargetInfo) Key() string {
	return i.Name + "/" + string(i.Platform) + "/" + string(i.Configuration)
}

func ParsePlatform(name string) (Platform, error) {
	for _, p := range Platforms {
		if strings.EqualFold(string(p), name) {
			return p, nil
		}
	}

	return "", eris.Wrapf(ErrUnknownValue, "platform %q", name)
}

func ParseConfiguration(name string) (Configuration, error) {
	for _, c := range Configurations {
		if strings.EqualFold(string(c), name) {
			return c, nil
		}
	}

	return "", eris.Wrapf(ErrUnknownValue, "configuration %q", name)
}
