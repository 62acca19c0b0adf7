package entry

import (
	"net/url"
	"path/filepath"
	"time"
)

// ContentsDir is the output subdirectory holding rendered entries.
const ContentsDir = "contents"

// Context binds a parsed entry to its source file and output location.
type Context struct {
	Source string
	Output string
	Entry  *Entry
}

// NewContext parses the entry at source and derives its output location below outputRoot.
func NewContext(source, outputRoot string) (*Context, error) {
	e, err := FromPath(source)
	if err != nil {
		return nil, err
	}
	return &Context{
		Source: source,
		Output: OutputPath(outputRoot, e.Metadata.Date),
		Entry:  e,
	}, nil
}

// OutputPath returns <outputRoot>/contents/<encoded date>.
func OutputPath(outputRoot string, date time.Time) string {
	return filepath.Join(outputRoot, ContentsDir, EncodeDate(date))
}

// EncodeDate renders date as RFC 3339 with its own offset and query-escapes it
// so the result is a single URL-safe path segment. Entries sharing the exact
// same date and offset map to the same segment.
func EncodeDate(date time.Time) string {
	return url.QueryEscape(date.Format(time.RFC3339Nano))
}
