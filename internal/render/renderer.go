// Package render maps renderer names to implementations and dispatches entry
// contexts to them.
package render

import (
	"context"

	"git.home.luguber.info/inful/moxide/internal/entry"
)

// Renderer writes one entry below its output path.
//
// Implementations must confine their side effects to ec.Output and must be
// safe for concurrent use; the build runs several renders at once.
type Renderer interface {
	Render(ctx context.Context, ec *entry.Context) error
}

// RendererFunc adapts a plain function to the Renderer interface.
type RendererFunc func(ctx context.Context, ec *entry.Context) error

// Render calls f(ctx, ec).
func (f RendererFunc) Render(ctx context.Context, ec *entry.Context) error {
	return f(ctx, ec)
}

// Built-in renderer names.
const (
	PageName   = "page"
	BundleName = "bundle"
)
