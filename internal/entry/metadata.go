package entry

import (
	"slices"
	"strings"
	"time"

	"git.home.luguber.info/inful/moxide/internal/foundation/errors"
	"git.home.luguber.info/inful/moxide/internal/frontmatter"
)

// DefaultRenderer is used when an entry does not name a renderer.
const DefaultRenderer = "page"

// Metadata is the decoded front matter of an entry.
type Metadata struct {
	Title    string    `toml:"title"`
	Date     time.Time `toml:"date"`
	Tags     []string  `toml:"tag,omitempty"`
	Renderer string    `toml:"renderer,omitempty"`
}

// zones BurntSushi/toml assigns to date-times written without an offset.
var localZones = []string{"datetime-local", "date-local", "time-local"}

// ParseMetadata extracts and decodes the metadata block of a raw document.
func ParseMetadata(raw string) (Metadata, error) {
	block, _, err := frontmatter.Split(raw)
	if err != nil {
		return Metadata{}, err
	}
	return decodeMetadata(block)
}

func decodeMetadata(block string) (Metadata, error) {
	var m Metadata
	meta, err := frontmatter.Decode(block, &m)
	if err != nil {
		return Metadata{}, err
	}
	for _, key := range []string{"title", "date"} {
		if !meta.IsDefined(key) {
			return Metadata{}, errors.MetadataDecodeError("metadata block missing required key `" + key + "`").
				WithContext("key", key).
				Build()
		}
	}
	if slices.Contains(localZones, m.Date.Location().String()) {
		return Metadata{}, errors.MetadataDecodeError("metadata `date` must carry a timezone offset").
			WithContext("key", "date").
			Build()
	}
	return m.normalized(), nil
}

func (m Metadata) normalized() Metadata {
	if strings.TrimSpace(m.Renderer) == "" {
		m.Renderer = DefaultRenderer
	}
	m.Tags = normalizeTags(m.Tags)
	return m
}

// normalizeTags treats tags as a set: trimmed, deduplicated, sorted.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}

// HasTag reports whether tag is in the entry's tag set.
func (m Metadata) HasTag(tag string) bool {
	return slices.Contains(m.Tags, tag)
}

// Equal compares metadata semantically: same instant, same tag set.
func (m Metadata) Equal(other Metadata) bool {
	a, b := m.normalized(), other.normalized()
	return a.Title == b.Title &&
		a.Date.Equal(b.Date) &&
		a.Renderer == b.Renderer &&
		slices.Equal(a.Tags, b.Tags)
}

// Encode serializes the metadata as a TOML block without delimiters.
func (m Metadata) Encode() (string, error) {
	return frontmatter.Encode(m.normalized())
}
