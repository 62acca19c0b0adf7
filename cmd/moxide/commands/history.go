package commands

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/moxide/internal/eventstore"
	ferrors "git.home.luguber.info/inful/moxide/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	DB    string        `help:"SQLite history database written by 'build --history'" required:"" env:"MOXIDE_HISTORY"`
	Limit int           `short:"n" help:"Number of builds to list; <= 0 lists all" default:"10"`
	Since time.Duration `help:"Only list builds recorded within this duration (e.g. 24h)"`
	Build string        `help:"Show the per-entry results of one build id instead"`
}

func (h *HistoryCmd) Run(g *Global, _ *CLI) error {
	store, err := eventstore.NewSQLiteStore(h.DB)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "open history database").
			WithContext("path", h.DB).
			Build()
	}
	defer func() { _ = store.Close() }()
	return h.Execute(context.Background(), store, g.out())
}

// Execute prints either the recent builds or the entries of one build.
func (h *HistoryCmd) Execute(ctx context.Context, store eventstore.Store, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	if h.Build != "" {
		entries, err := eventstore.BuildEntries(ctx, store, h.Build)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryIO, "read build entries").
				WithContext("build_id", h.Build).
				Build()
		}
		_, _ = fmt.Fprintln(tw, "SOURCE\tRENDERER\tRESULT\tOUTPUT")
		for _, e := range entries {
			result := "ok"
			if !e.OK() {
				result = e.Kind + ": " + e.Message
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Source, e.Renderer, result, e.Output)
		}
		return tw.Flush()
	}

	builds, err := h.builds(ctx, store)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryIO, "list builds").Build()
	}
	_, _ = fmt.Fprintln(tw, "BUILD\tSTARTED\tOUTCOME\tENTRIES\tFAILED\tDURATION")
	for _, b := range builds {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			b.BuildID, b.StartedAt.Format(time.RFC3339), b.Outcome, b.Discovered, b.Failed,
			b.Duration.Truncate(time.Millisecond))
	}
	return tw.Flush()
}

func (h *HistoryCmd) builds(ctx context.Context, store eventstore.Store) ([]eventstore.BuildSummary, error) {
	if h.Since <= 0 {
		limit := h.Limit
		if limit <= 0 {
			limit = -1
		}
		return eventstore.ListBuilds(ctx, store, limit)
	}
	builds, err := eventstore.ListBuildsSince(ctx, store, time.Now().Add(-h.Since))
	if err != nil {
		return nil, err
	}
	if h.Limit > 0 && len(builds) > h.Limit {
		builds = builds[:h.Limit]
	}
	return builds, nil
}
