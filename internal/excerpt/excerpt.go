// Package excerpt turns an entry description into a short plain-text summary
// for build reports and notifications.
package excerpt

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
)

// DefaultLimit is the rune budget used by the build report.
const DefaultLimit = 160

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Plain renders markdown to HTML and returns its visible text with whitespace
// collapsed, truncated to at most limit runes. A limit <= 0 disables truncation.
func Plain(markdown string, limit int) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	text, err := visibleText(&buf)
	if err != nil {
		return "", err
	}
	return Truncate(text, limit), nil
}

func visibleText(r io.Reader) (string, error) {
	z := html.NewTokenizer(r)
	var b strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", err
			}
			return strings.Join(strings.Fields(b.String()), " "), nil
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}

// Truncate cuts s to limit runes, ending in an ellipsis when shortened.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := strings.TrimRight(string(runes[:limit-1]), " ")
	return cut + "…"
}
