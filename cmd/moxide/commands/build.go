package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/moxide/internal/build"
	"git.home.luguber.info/inful/moxide/internal/eventstore"
	ferrors "git.home.luguber.info/inful/moxide/internal/foundation/errors"
	"git.home.luguber.info/inful/moxide/internal/logfields"
	"git.home.luguber.info/inful/moxide/internal/manifest"
	"git.home.luguber.info/inful/moxide/internal/metrics"
	"git.home.luguber.info/inful/moxide/internal/notify"
	"git.home.luguber.info/inful/moxide/internal/project"
	"git.home.luguber.info/inful/moxide/internal/retry"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Manifest    string `short:"m" help:"Manifest file of the project" default:"manifest.toml" env:"MOXIDE_MANIFEST"`
	Out         string `short:"o" help:"Output directory (defaults to <project>/output)" env:"MOXIDE_OUT"`
	Workers     int    `short:"w" help:"Concurrent renders; 0 uses GOMAXPROCS" env:"MOXIDE_WORKERS"`
	Strict      bool   `help:"Exit non-zero when any entry fails" env:"MOXIDE_STRICT"`
	History     string `help:"SQLite database to record the build in" env:"MOXIDE_HISTORY"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this file after the build" env:"MOXIDE_METRICS_FILE"`
	NATSURL     string `name:"nats-url" help:"Publish a build-completed event to this NATS server" env:"MOXIDE_NATS_URL"`
	NATSSubject string `name:"nats-subject" help:"Subject for build-completed events" default:"moxide.builds" env:"MOXIDE_NATS_SUBJECT"`
}

func (b *BuildCmd) Run(g *Global, _ *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	_, err := b.Execute(ctx, g.out())
	return err
}

// Execute runs one build and prints its report to out. The report is returned
// even when the outcome turns into an error.
func (b *BuildCmd) Execute(ctx context.Context, out io.Writer) (*build.Report, error) {
	manifestPath := b.Manifest
	if manifestPath == "" {
		manifestPath = manifest.DefaultFilename
	}
	p, err := project.Load(manifestPath)
	if err != nil {
		return nil, err
	}
	if b.Out != "" {
		p.SetOutput(b.Out)
	}

	revision, err := project.Revision(p.Base)
	if err != nil {
		slog.Warn("Failed to resolve source revision", logfields.Path(p.Base), logfields.Error(err))
	}

	registry := prom.NewRegistry()
	opts := build.Options{
		SourceDir: p.SourceDir(),
		OutputDir: p.OutputDir(),
		Workers:   b.Workers,
		Manifest:  p.Manifest,
		Recorder:  metrics.NewPrometheusRecorder(registry),
		Revision:  revision,
	}

	var history *eventstore.HistoryObserver
	if b.History != "" {
		store, err := eventstore.NewSQLiteStore(b.History)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "open history database").
				WithContext("path", b.History).
				Build()
		}
		defer func() { _ = store.Close() }()
		history = eventstore.NewHistoryObserver(store)
		opts.Observers = append(opts.Observers, history)
	}

	var notifier *notify.Notifier
	if b.NATSURL != "" {
		conn, err := notify.Connect(b.NATSURL)
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "connect to NATS").
				WithContext("url", b.NATSURL).
				Build()
		}
		defer conn.Close()
		notifier = notify.NewNotifier(conn, b.NATSSubject).
			WithRetry(retry.NewPolicy(retry.BackoffExponential, 200*time.Millisecond, 2*time.Second, 3))
		opts.Observers = append(opts.Observers, notifier)
	}

	report, err := build.New(opts).Build(ctx)
	if err != nil {
		return nil, err
	}
	_, _ = fmt.Fprint(out, report.Text())

	if b.MetricsFile != "" {
		if err := metrics.WriteTextfile(b.MetricsFile, registry); err != nil {
			slog.Warn("Failed to write metrics file", logfields.Path(b.MetricsFile), logfields.Error(err))
		}
	}
	if history != nil && history.Err() != nil {
		slog.Warn("Build was not recorded in history", logfields.Path(b.History), logfields.Error(history.Err()))
	}
	if notifier != nil && notifier.Err() != nil {
		slog.Warn("Build event was not published", logfields.Error(notifier.Err()))
	}

	return report, outcomeError(report, b.Strict)
}

// outcomeError turns a failed build, or a partial one under strict, into an
// error carrying the build id. A build whose only failures are canceled
// entries was interrupted and reports as canceled.
func outcomeError(report *build.Report, strict bool) error {
	if interrupted(report) {
		return ferrors.NewError(ferrors.CategoryCanceled,
			fmt.Sprintf("build interrupted: %d of %d entries canceled", len(report.Failed), report.Discovered)).
			WithContext("build_id", report.ID).
			Build()
	}
	switch {
	case report.Outcome == build.OutcomeFailed:
	case report.Outcome == build.OutcomePartial && strict:
	default:
		return nil
	}
	return ferrors.NewError(ferrors.CategoryRenderFailed,
		fmt.Sprintf("build %s: %d of %d entries failed", report.Outcome, len(report.Failed), report.Discovered)).
		WithContext("build_id", report.ID).
		Build()
}

func interrupted(report *build.Report) bool {
	if len(report.Failed) == 0 {
		return false
	}
	for _, f := range report.Failed {
		if f.Kind != string(ferrors.CategoryCanceled) {
			return false
		}
	}
	return true
}
