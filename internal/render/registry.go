package render

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	ferrors "git.home.luguber.info/inful/moxide/internal/foundation/errors"
	"git.home.luguber.info/inful/moxide/internal/entry"
	"git.home.luguber.info/inful/moxide/internal/logfields"
)

// Registry is a concurrency-safe table of renderers keyed by name.
//
// Reads only hold the lock for the lookup, never for the duration of a render.
// sync.RWMutex blocks new readers once a writer is waiting, so registration is
// not starved by a busy build.
type Registry struct {
	mu        sync.RWMutex
	renderers map[string]Renderer
}

// NewRegistry creates a registry holding the built-in page and bundle renderers.
func NewRegistry() *Registry {
	return &Registry{
		renderers: map[string]Renderer{
			PageName:   NewPageRenderer(),
			BundleName: BundleRenderer{},
		},
	}
}

// Register inserts renderer under name, replacing any existing one.
func (r *Registry) Register(name string, renderer Renderer) error {
	if strings.TrimSpace(name) == "" {
		return ferrors.ValidationError("renderer name must not be empty").Build()
	}
	if renderer == nil {
		return ferrors.ValidationError("cannot register nil renderer").
			WithContext("renderer", name).
			Build()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.renderers[name]; exists {
		slog.Debug("Replacing registered renderer", logfields.Renderer(name))
	}
	r.renderers[name] = renderer
	return nil
}

// Fetch returns the renderer registered under exactly name.
func (r *Registry) Fetch(name string) (Renderer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	renderer, ok := r.renderers[name]
	return renderer, ok
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Fetch(name)
	return ok
}

// Names returns the registered renderer names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.renderers))
	for name := range r.renderers {
		names = append(names, name)
	}
	r.mu.RUnlock()

	slices.Sort(names)
	return names
}

// Dispatch renders ec with the renderer named by its metadata.
//
// An unknown name yields a render_not_found error and a renderer failure is
// wrapped as render_failed; both carry the entry source for reporting.
func (r *Registry) Dispatch(ctx context.Context, ec *entry.Context) error {
	name := ec.Entry.Metadata.Renderer
	renderer, ok := r.Fetch(name)
	if !ok {
		return ferrors.RenderNotFoundError(name).
			WithContext("source", ec.Source).
			Build()
	}

	slog.Debug("Rendering entry",
		logfields.Entry(ec.Entry.Metadata.Title),
		logfields.Renderer(name),
		logfields.Output(ec.Output))

	if err := renderer.Render(ctx, ec); err != nil {
		return ferrors.RenderFailedError(name, err).
			WithContext("source", ec.Source).
			Build()
	}
	return nil
}
