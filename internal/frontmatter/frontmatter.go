// Package frontmatter extracts and rebuilds the `+++` delimited TOML block at
// the top of a content document, and splits the remaining text at the excerpt
// marker.
package frontmatter

import (
	"errors"
	"regexp"
	"strings"

	ferrors "git.home.luguber.info/inful/moxide/internal/foundation/errors"
)

const (
	// Delimiter opens and closes the metadata block, each on its own line.
	Delimiter = "+++"
	// ExcerptMarker separates an entry's description from the rest of its body.
	ExcerptMarker = "<!-- more -->"
)

// ErrInvalidDataBlock indicates a document without a well-formed metadata block.
var ErrInvalidDataBlock = errors.New("invalid data block")

var (
	// openPattern matches an opening delimiter line at the start of the text.
	openPattern = regexp.MustCompile(`\A\+\+\+[ \t]*\r?\n`)
	// blockPattern matches a delimited region starting at the start of the text.
	blockPattern = regexp.MustCompile(`(?ms)\A\+\+\+[ \t]*\r?\n(.*?)^[ \t]*\+\+\+[ \t]*\r?$`)
	// regionPattern matches the first delimited region anywhere in the text.
	regionPattern = regexp.MustCompile(`(?ms)^[ \t]*\+\+\+[ \t]*\r?\n(.*?)^[ \t]*\+\+\+[ \t]*\r?$`)
)

// Split separates the metadata block from the rest of the document.
//
// The trimmed input must start with the delimiter, and the block must be closed
// by a second delimiter line; otherwise Split fails with ErrInvalidDataBlock.
// block is the raw text between the delimiter lines; rest is the document with
// the whole delimited region removed and everything else left untouched.
func Split(raw string) (block, rest string, err error) {
	start := len(raw) - len(strings.TrimLeft(raw, " \t\r\n"))
	text := raw[start:]
	if !strings.HasPrefix(text, Delimiter) {
		return "", "", invalidDataBlock("document does not start with `+++`")
	}
	if !openPattern.MatchString(text) {
		return "", "", invalidDataBlock("opening `+++` must be alone on its line")
	}

	loc := blockPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", "", invalidDataBlock("metadata block is not closed by a `+++` line")
	}

	return text[loc[2]:loc[3]], raw[:start] + text[loc[1]:], nil
}

// Strip removes the first delimited metadata region from raw. Input without a
// well-formed block is returned unchanged.
func Strip(raw string) string {
	loc := regionPattern.FindStringIndex(raw)
	if loc == nil {
		return raw
	}
	return raw[:loc[0]] + raw[loc[1]:]
}

// SplitDescription splits a stripped body at the first excerpt marker.
//
// description is the trimmed text before the marker. rest is the text after it
// with at most two leading line breaks removed, which is exactly the separator
// Join writes. Without a marker the whole trimmed body is the description and
// rest is empty; Join always writes the marker back.
func SplitDescription(body string) (description, rest string) {
	idx := strings.Index(body, ExcerptMarker)
	if idx < 0 {
		return strings.TrimSpace(body), ""
	}
	rest = body[idx+len(ExcerptMarker):]
	for range 2 {
		var ok bool
		if rest, ok = cutLineBreak(rest); !ok {
			break
		}
	}
	return strings.TrimSpace(body[:idx]), rest
}

func cutLineBreak(s string) (string, bool) {
	if after, ok := strings.CutPrefix(s, "\r\n"); ok {
		return after, true
	}
	return strings.CutPrefix(s, "\n")
}

// Join reassembles a document from an encoded metadata block, a description
// and the body that follows the excerpt marker. For a trimmed description
// without the marker, the result is accepted by Split and yields the same
// description/body pair through SplitDescription.
func Join(block, description, body string) string {
	var b strings.Builder
	b.Grow(len(block) + len(description) + len(body) + 32)
	b.WriteString(Delimiter)
	b.WriteByte('\n')
	if block = strings.TrimSpace(block); block != "" {
		b.WriteString(block)
		b.WriteByte('\n')
	}
	b.WriteString(Delimiter)
	b.WriteString("\n\n")
	b.WriteString(description)
	b.WriteByte('\n')
	b.WriteString(ExcerptMarker)
	b.WriteString("\n\n")
	b.WriteString(body)
	return b.String()
}

func invalidDataBlock(message string) error {
	return ferrors.WrapError(ErrInvalidDataBlock, ferrors.CategoryInvalidDataBlock, message).Build()
}
