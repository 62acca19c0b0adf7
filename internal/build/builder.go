package build

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/moxide/internal/entry"
	"git.home.luguber.info/inful/moxide/internal/excerpt"
	ferrors "git.home.luguber.info/inful/moxide/internal/foundation/errors"
	"git.home.luguber.info/inful/moxide/internal/logfields"
	"git.home.luguber.info/inful/moxide/internal/manifest"
	"git.home.luguber.info/inful/moxide/internal/metrics"
	"git.home.luguber.info/inful/moxide/internal/observability"
	"git.home.luguber.info/inful/moxide/internal/render"
)

// MaxDepth bounds discovery: the source root is depth 0, so entries may live
// directly in it or one directory below.
const MaxDepth = 2

// Stage names used for logging and metrics.
const (
	StagePrepare  = "prepare"
	StageDiscover = "discover"
	StageParse    = "parse"
	StageRender   = "render"
)

// Options configures a Builder.
type Options struct {
	SourceDir string
	OutputDir string
	// Registry defaults to render.NewRegistry().
	Registry *render.Registry
	// Workers bounds concurrent renders; <= 0 means runtime.GOMAXPROCS(0).
	Workers int
	// Manifest is optional; its renders list is checked against the registry.
	Manifest *manifest.Manifest
	// Recorder defaults to metrics.NoopRecorder.
	Recorder  metrics.Recorder
	Observers []Observer
	// Revision is stamped into the report (for example a git commit).
	Revision string
}

// Builder runs builds for one source/output pair.
type Builder struct {
	opts      Options
	registry  *render.Registry
	recorder  metrics.Recorder
	observers []Observer
	mu        sync.Mutex
}

// New creates a Builder, filling in defaults.
func New(opts Options) *Builder {
	if opts.Registry == nil {
		opts.Registry = render.NewRegistry()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	observers := append([]Observer{recorderObserver{rec: opts.Recorder}}, opts.Observers...)
	return &Builder{
		opts:      opts,
		registry:  opts.Registry,
		recorder:  opts.Recorder,
		observers: observers,
	}
}

// Registry returns the registry used for dispatch.
func (b *Builder) Registry() *render.Registry { return b.registry }

// Build runs the pipeline once. The returned error is non-nil only when the
// output root cannot be prepared or the source root cannot be walked; per-entry
// failures are reported in the Report.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	report := newReport(uuid.NewString())
	report.SourceDir = b.opts.SourceDir
	report.OutputDir = b.opts.OutputDir
	report.Workers = b.opts.Workers
	report.Revision = b.opts.Revision
	if b.opts.Manifest != nil {
		report.Site = b.opts.Manifest.Site
		report.Warnings = append(report.Warnings, b.undeclaredRenderers()...)
	}

	ctx = observability.WithBuildID(ctx, report.ID)
	observability.InfoContext(ctx, "Starting build",
		logfields.Source(b.opts.SourceDir),
		logfields.Output(b.opts.OutputDir),
		logfields.Workers(b.opts.Workers))

	if err := b.stage(ctx, report, StagePrepare, func(context.Context) error {
		if err := checkOutputRoot(b.opts.SourceDir, b.opts.OutputDir); err != nil {
			return err
		}
		return prepareOutput(b.opts.OutputDir)
	}); err != nil {
		return nil, err
	}

	var sources []string
	if err := b.stage(ctx, report, StageDiscover, func(context.Context) error {
		var err error
		sources, err = discover(b.opts.SourceDir)
		return err
	}); err != nil {
		return nil, err
	}
	report.Discovered = len(sources)

	results := make([]EntryResult, len(sources))
	var contexts []*entry.Context
	var slots []int
	_ = b.stage(ctx, report, StageParse, func(ctx context.Context) error {
		claimed := make(map[string]string, len(sources))
		for i, src := range sources {
			ec, err := entry.NewContext(src, b.opts.OutputDir)
			if err != nil {
				results[i] = failure(EntryResult{Source: src}, err)
				b.entryDone(ctx, results[i])
				continue
			}
			if first, taken := claimed[ec.Output]; taken {
				err := ferrors.NewError(ferrors.CategoryOutputCollision,
					fmt.Sprintf("output path already claimed by %s", first)).
					WithContext("source", src).
					WithContext("output", ec.Output).
					Build()
				results[i] = failure(describe(ec), err)
				b.entryDone(ctx, results[i])
				continue
			}
			claimed[ec.Output] = src
			contexts = append(contexts, ec)
			slots = append(slots, i)
		}
		return nil
	})

	_ = b.stage(ctx, report, StageRender, func(ctx context.Context) error {
		b.recorder.SetRenderConcurrency(min(b.opts.Workers, len(contexts)))
		rendered := runOrdered(ctx, contexts, b.opts.Workers, b.renderOne)
		for j, res := range rendered {
			i := slots[j]
			if res.Err != nil {
				// canceled before the unit started
				results[i] = failure(describe(contexts[j]), res.Err)
				b.entryDone(ctx, results[i])
				continue
			}
			results[i] = res.Value
		}
		return nil
	})

	for _, r := range results {
		report.add(r)
	}
	report.finish()

	if err := report.Persist(b.opts.OutputDir); err != nil {
		observability.WarnContext(ctx, "Failed to persist build report", logfields.Error(err))
	}

	b.mu.Lock()
	for _, o := range b.observers {
		o.OnBuildComplete(report)
	}
	b.mu.Unlock()

	observability.InfoContext(ctx, "Build complete",
		logfields.Count(report.Discovered),
		logfields.Duration(report.End.Sub(report.Start)),
		logfields.Kind(string(report.Outcome)))
	return report, nil
}

func (b *Builder) stage(ctx context.Context, report *Report, name string, fn func(context.Context) error) error {
	ctx = observability.WithStage(ctx, name)
	start := time.Now()
	err := fn(ctx)
	d := time.Since(start)
	report.StageDurations[name] = d
	b.recorder.ObserveStageDuration(name, d)
	if err != nil {
		b.recorder.IncStageResult(name, metrics.ResultFatal)
		observability.ErrorContext(ctx, "Build stage failed", logfields.Error(err))
		return err
	}
	b.recorder.IncStageResult(name, metrics.ResultSuccess)
	observability.DebugContext(ctx, "Build stage complete", logfields.Duration(d))
	return nil
}

// renderOne is the unit of work run on the pool. Render failures are part of
// the returned result, so the error is always nil.
func (b *Builder) renderOne(ctx context.Context, ec *entry.Context) (EntryResult, error) {
	start := time.Now()
	err := b.registry.Dispatch(ctx, ec)
	b.recorder.ObserveRenderDuration(ec.Entry.Metadata.Renderer, time.Since(start), err == nil)

	result := describe(ec)
	if err != nil {
		result = failure(result, err)
	} else if fp, fpErr := ec.Entry.Fingerprint(); fpErr == nil {
		result.Fingerprint = fp
	}
	b.entryDone(ctx, result)
	return result, nil
}

func (b *Builder) entryDone(ctx context.Context, result EntryResult) {
	if result.OK() {
		observability.DebugContext(ctx, "Entry rendered",
			logfields.Source(result.Source),
			logfields.Output(result.Output))
	} else {
		observability.WarnContext(ctx, "Entry failed",
			logfields.Source(result.Source),
			logfields.Kind(result.Kind),
			slog.String("message", result.Message))
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.observers {
		o.OnEntryComplete(result)
	}
}

func (b *Builder) undeclaredRenderers() []string {
	var warnings []string
	for _, name := range b.opts.Manifest.Renders {
		if !b.registry.Has(name) {
			warnings = append(warnings, fmt.Sprintf("manifest declares renderer `%s` which is not registered", name))
		}
	}
	return warnings
}

// describe fills the success-independent fields of an entry result.
func describe(ec *entry.Context) EntryResult {
	r := EntryResult{
		Source:   ec.Source,
		Title:    ec.Entry.Metadata.Title,
		Renderer: ec.Entry.Metadata.Renderer,
		Output:   ec.Output,
	}
	if text, err := excerpt.Plain(ec.Entry.Description, excerpt.DefaultLimit); err == nil {
		r.Excerpt = text
	}
	return r
}

func failure(r EntryResult, err error) EntryResult {
	r.Kind = string(kindOf(err))
	r.Message = err.Error()
	return r
}

func kindOf(err error) ferrors.ErrorCategory {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ferrors.CategoryCanceled
	}
	return ferrors.GetCategory(err)
}

// checkOutputRoot refuses an output root that is the source root or one of its
// ancestors, since preparing it would delete the content being built.
func checkOutputRoot(source, output string) error {
	src, err := filepath.Abs(source)
	if err != nil {
		return nil
	}
	out, err := filepath.Abs(output)
	if err != nil {
		return nil
	}
	rel, err := filepath.Rel(out, src)
	if err != nil {
		return nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil
	}
	return ferrors.ConfigError("output directory must not contain the source directory").
		WithContext("path", output).
		WithContext("source", source).
		Build()
}

// prepareOutput removes the output root if present and recreates it empty.
func prepareOutput(root string) error {
	if strings.TrimSpace(root) == "" {
		return ferrors.ConfigError("output directory must not be empty").Build()
	}
	if err := os.RemoveAll(root); err != nil {
		return ferrors.WrapError(fmt.Errorf("%w: %w", ErrPrepare, err), ferrors.CategoryIO, "clear output directory").
			Fatal().
			WithContext("path", root).
			Build()
	}
	if err := os.MkdirAll(root, 0o750); err != nil {
		return ferrors.WrapError(fmt.Errorf("%w: %w", ErrPrepare, err), ferrors.CategoryIO, "create output directory").
			Fatal().
			WithContext("path", root).
			Build()
	}
	return nil
}

// discover returns every index.md at most MaxDepth levels below root, in
// lexical walk order.
func discover(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("%s is not a directory", root)
	}
	if err != nil {
		return nil, ferrors.WrapError(fmt.Errorf("%w: %w", ErrDiscovery, err), ferrors.CategoryIO, "read source directory").
			Fatal().
			WithContext("path", root).
			Build()
	}

	var found []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		depth := 0
		if rel, relErr := filepath.Rel(root, path); relErr == nil && rel != "." {
			depth = strings.Count(filepath.ToSlash(rel), "/") + 1
		}
		if d.IsDir() {
			if depth >= MaxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type().IsRegular() && d.Name() == entry.Filename {
			found = append(found, path)
		}
		return nil
	})
	if walkErr != nil {
		return nil, ferrors.WrapError(fmt.Errorf("%w: %w", ErrDiscovery, walkErr), ferrors.CategoryIO, "walk source directory").
			Fatal().
			WithContext("path", root).
			Build()
	}
	return found, nil
}
