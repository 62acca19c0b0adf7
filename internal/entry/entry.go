// Package entry models a single content document: its decoded metadata, the
// description preceding the excerpt marker, and the body that follows it.
package entry

import (
	stderrors "errors"
	"os"
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/moxide/internal/foundation/errors"
	"git.home.luguber.info/inful/moxide/internal/frontmatter"
)

// Filename is the name of the file that marks a content entry directory.
const Filename = "index.md"

// ErrMarkerInDescription is returned by Document when the description itself
// contains the excerpt marker and could not be split back out.
var ErrMarkerInDescription = stderrors.New("description contains the excerpt marker")

// Entry is the in-memory form of one source document.
type Entry struct {
	Metadata    Metadata
	Description string
	Body        string
}

// New creates an entry with the given metadata and description and an empty body.
func New(meta Metadata, description string) *Entry {
	return &Entry{Metadata: meta.normalized(), Description: description}
}

// FromText parses a raw document. Documents without a metadata block are rejected.
func FromText(raw string) (*Entry, error) {
	block, rest, err := frontmatter.Split(raw)
	if err != nil {
		return nil, err
	}
	meta, err := decodeMetadata(block)
	if err != nil {
		return nil, err
	}
	description, body := frontmatter.SplitDescription(rest)
	return &Entry{Metadata: meta, Description: description, Body: body}, nil
}

// FromPath reads and parses the document at path.
func FromPath(path string) (*Entry, error) {
	// #nosec G304 -- path comes from the content walk
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryIO, "read entry").
			WithContext("source", path).
			Build()
	}
	e, err := FromText(string(data))
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return nil, classified.WithContext("source", path)
		}
		return nil, err
	}
	return e, nil
}

// Document reserializes the entry. The excerpt marker is always written so the
// result parses back to the same description and body.
func (e *Entry) Document() (string, error) {
	if strings.Contains(e.Description, frontmatter.ExcerptMarker) {
		return "", errors.WrapError(ErrMarkerInDescription, errors.CategoryMetadataEncode, "serialize entry").
			WithContext("entry", e.Metadata.Title).
			Build()
	}
	block, err := e.Metadata.Encode()
	if err != nil {
		return "", err
	}
	return frontmatter.Join(block, e.Description, e.Body), nil
}

// Fingerprint returns a content fingerprint over the canonical metadata block
// and text. Unchanged entries keep their fingerprint across builds.
func (e *Entry) Fingerprint() (string, error) {
	block, err := e.Metadata.Encode()
	if err != nil {
		return "", err
	}
	text := e.Description + "\n" + frontmatter.ExcerptMarker + "\n\n" + e.Body
	return mdfp.CalculateFingerprintFromParts(block, text), nil
}
