// Package manifest loads the project-level configuration record.
package manifest

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/moxide/internal/foundation/errors"
)

// DefaultFilename is the manifest file created for new projects.
const DefaultFilename = "manifest.toml"

// Manifest is the site-level configuration loaded once per build.
type Manifest struct {
	Site        string   `toml:"site" yaml:"site"`
	Description string   `toml:"description" yaml:"description"`
	Theme       string   `toml:"theme,omitempty" yaml:"theme,omitempty"`
	Renders     []string `toml:"renders,omitempty" yaml:"renders,omitempty"`
}

// Load reads the manifest at path. The format is chosen by extension:
// .yaml/.yml use YAML, anything else is TOML.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryIO, "read manifest").
			Fatal().
			WithContext("path", path).
			Build()
	}

	var m *Manifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		m, err = ParseYAML(data)
	default:
		m, err = ParseTOML(data)
	}
	if err != nil {
		if classified, ok := ferrors.AsClassified(err); ok {
			return nil, classified.WithContext("path", path)
		}
		return nil, err
	}
	return m, nil
}

// ParseTOML decodes a TOML manifest and validates it.
func ParseTOML(data []byte) (*Manifest, error) {
	var m Manifest
	meta, err := toml.Decode(string(data), &m)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse manifest").Fatal().Build()
	}
	if !meta.IsDefined("site") {
		return nil, ferrors.ConfigError("manifest missing required key `site`").Build()
	}
	return m.normalize()
}

// ParseYAML decodes a YAML manifest and validates it.
func ParseYAML(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "parse manifest").Fatal().Build()
	}
	return m.normalize()
}

func (m Manifest) normalize() (*Manifest, error) {
	m.Site = strings.TrimSpace(m.Site)
	if m.Site == "" {
		return nil, ferrors.ConfigError("manifest `site` must not be empty").Build()
	}
	renders := make([]string, 0, len(m.Renders))
	for _, r := range m.Renders {
		if r = strings.TrimSpace(r); r != "" {
			renders = append(renders, r)
		}
	}
	m.Renders = renders
	return &m, nil
}

// EncodeTOML serializes the manifest in the form written by project scaffolding.
func (m *Manifest) EncodeTOML() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(m); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "encode manifest").Build()
	}
	return buf.Bytes(), nil
}
