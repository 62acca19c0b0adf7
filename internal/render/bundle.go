package render

import (
	"context"
	"errors"

	"git.home.luguber.info/inful/moxide/internal/entry"
)

// ErrBundleNotSupported is returned by the bundle renderer for every entry.
var ErrBundleNotSupported = errors.New("bundle rendering is not yet supported")

// BundleRenderer is reserved for entries that group co-located resources.
// Selecting it fails the entry rather than silently producing nothing.
type BundleRenderer struct{}

// Render implements Renderer.
func (BundleRenderer) Render(context.Context, *entry.Context) error {
	return ErrBundleNotSupported
}
