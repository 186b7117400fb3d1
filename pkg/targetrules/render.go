package targetrules

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Formats lists the formats Render supports
var Formats = []string{"json", "yaml", "toml"}

// Render writes the manifest in the given format (json, yaml or toml) to w.
func Render(w io.Writer, manifest Manifest, format string) error {
	var err error

	switch strings.ToLower(format) {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(manifest)
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		err = encoder.Encode(manifest)
		if err == nil {
			err = encoder.Close()
		}
	case "toml":
		err = toml.NewEncoder(w).Encode(manifest)
	default:
		return eris.Wrapf(ErrUnknownFormat, "%s (expected one of %s)", format, strings.Join(Formats, ", "))
	}

	if err != nil {
		return eris.Wrapf(err, "failed to render %s", format)
	}
	return nil
}

// ParseManifest decodes a manifest previously written by Render.
func ParseManifest(data []byte, format string) (Manifest, error) {
	var manifest Manifest
	var err error

	switch strings.ToLower(format) {
	case "json":
		err = json.Unmarshal(data, &manifest)
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &manifest)
	case "toml":
		err = toml.Unmarshal(data, &manifest)
	default:
		return manifest, eris.Wrapf(ErrUnknownFormat, "%s", format)
	}

	if err != nil {
		return manifest, eris.Wrapf(err, "failed to parse %s manifest", format)
	}
	return manifest, nil
}
