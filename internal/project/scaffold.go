package project

import (
	"errors"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/moxide/internal/entry"
	ferrors "git.home.luguber.info/inful/moxide/internal/foundation/errors"
	"git.home.luguber.info/inful/moxide/internal/logfields"
	"git.home.luguber.info/inful/moxide/internal/manifest"
)

// Scaffold defaults.
const (
	DefaultDescription = "Hello,World!"
	SeedPageName       = "hello world"
	PageGreeting       = "Hello,World! This is the index markdown of your page!"
)

// ErrExists is returned when scaffolding would overwrite an existing file.
var ErrExists = errors.New("already exists")

// EncodeName turns a user-supplied name into a single safe path segment.
func EncodeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "", ferrors.ValidationError("name must not be empty, `.` or `..`").
			WithContext("name", name).
			Build()
	}
	return url.PathEscape(name), nil
}

// Title converts a page name to its display title.
func Title(name string) string {
	return cases.Title(language.English).String(strings.TrimSpace(name))
}

// Create scaffolds a new project named name below parent: a manifest with the
// site set to name and a seed page. Existing manifests are never overwritten.
func Create(parent, name string, now time.Time) (*Project, error) {
	dirName, err := EncodeName(name)
	if err != nil {
		return nil, err
	}
	base := filepath.Join(parent, dirName)
	if err := os.MkdirAll(base, 0o750); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryIO, "create project directory").
			WithContext("path", base).
			Build()
	}

	m := &manifest.Manifest{Site: strings.TrimSpace(name), Description: DefaultDescription}
	data, err := m.EncodeTOML()
	if err != nil {
		return nil, err
	}
	manifestPath := filepath.Join(base, manifest.DefaultFilename)
	if err := createNew(manifestPath, data); err != nil {
		return nil, err
	}
	slog.Info("Created project", logfields.Path(base))

	p, err := Load(manifestPath)
	if err != nil {
		return nil, err
	}
	if _, err := p.CreatePage(SeedPageName, now); err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePage writes src/<encoded name>/index.md with a title derived from
// name, date now and a greeting description. It returns the page directory.
func (p *Project) CreatePage(name string, now time.Time) (string, error) {
	dirName, err := EncodeName(name)
	if err != nil {
		return "", err
	}
	pageDir := filepath.Join(p.SourceDir(), dirName)
	if err := os.MkdirAll(pageDir, 0o750); err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryIO, "create page directory").
			WithContext("path", pageDir).
			Build()
	}

	e := entry.New(entry.Metadata{Title: Title(name), Date: now}, PageGreeting)
	doc, err := e.Document()
	if err != nil {
		return "", err
	}
	if err := createNew(filepath.Join(pageDir, entry.Filename), []byte(doc)); err != nil {
		return "", err
	}
	slog.Info("Created page", logfields.Path(pageDir), logfields.Entry(e.Metadata.Title))
	return pageDir, nil
}

// createNew writes data to path, failing if path already exists.
func createNew(path string, data []byte) error {
	// #nosec G304 -- scaffold paths are derived from escaped names
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return ferrors.WrapError(ErrExists, ferrors.CategoryValidation, "refusing to overwrite "+path).
				WithContext("path", path).
				Build()
		}
		return ferrors.WrapError(err, ferrors.CategoryIO, "create file").WithContext("path", path).Build()
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return ferrors.WrapError(err, ferrors.CategoryIO, "write file").WithContext("path", path).Build()
	}
	if err := f.Close(); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryIO, "close file").WithContext("path", path).Build()
	}
	return nil
}
