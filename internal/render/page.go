package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	ferrors "git.home.luguber.info/inful/moxide/internal/foundation/errors"
	"git.home.luguber.info/inful/moxide/internal/entry"
)

// PageFilename is the artifact written by the page renderer.
const PageFilename = "index.html"

// PageRenderer converts an entry's description and body to an HTML fragment
// and writes it to <output>/index.html.
type PageRenderer struct {
	md goldmark.Markdown
}

// NewPageRenderer returns a page renderer using GitHub flavored Markdown.
func NewPageRenderer() *PageRenderer {
	return &PageRenderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render implements Renderer.
func (p *PageRenderer) Render(ctx context.Context, ec *entry.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var src bytes.Buffer
	src.WriteString(ec.Entry.Description)
	if ec.Entry.Body != "" {
		src.WriteString("\n\n")
		src.WriteString(ec.Entry.Body)
	}

	var out bytes.Buffer
	if err := p.md.Convert(src.Bytes(), &out); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "convert markdown").Build()
	}

	if err := os.MkdirAll(ec.Output, 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryIO, "create output directory").
			WithContext("path", ec.Output).
			Build()
	}
	target := filepath.Join(ec.Output, PageFilename)
	// #nosec G306 -- rendered pages are public artifacts
	if err := os.WriteFile(target, out.Bytes(), 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryIO, "write page").
			WithContext("path", target).
			Build()
	}
	return nil
}
