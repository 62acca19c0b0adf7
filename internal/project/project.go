// Package project locates a site on disk and scaffolds new sites and pages.
//
// A project is a directory holding a manifest and a src/ tree of entries:
//
//	<base>/manifest.toml
//	<base>/src/<page>/index.md
//	<base>/output/            (default build output)
package project

import (
	"path/filepath"

	"git.home.luguber.info/inful/moxide/internal/manifest"
)

// Directory names relative to the project base.
const (
	SourceDirName = "src"
	OutputDirName = "output"
)

// Project is a loaded site.
type Project struct {
	Manifest *manifest.Manifest
	Base     string
	output   string
}

// Load reads the manifest at manifestPath; its directory becomes the project base.
func Load(manifestPath string) (*Project, error) {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	base, err := filepath.Abs(filepath.Dir(manifestPath))
	if err != nil {
		base = filepath.Dir(manifestPath)
	}
	return &Project{Manifest: m, Base: base}, nil
}

// SourceDir is the root walked for entries.
func (p *Project) SourceDir() string {
	return filepath.Join(p.Base, SourceDirName)
}

// SetOutput overrides the build output directory.
func (p *Project) SetOutput(dir string) {
	p.output = dir
}

// OutputDir is the build output root, <base>/output unless overridden.
func (p *Project) OutputDir() string {
	if p.output != "" {
		return p.output
	}
	return filepath.Join(p.Base, OutputDirName)
}

// ManifestPath returns the default manifest location for the project.
func (p *Project) ManifestPath() string {
	return filepath.Join(p.Base, manifest.DefaultFilename)
}
