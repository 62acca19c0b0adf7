package eventstore

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/moxide/internal/build"
	"git.home.luguber.info/inful/moxide/internal/logfields"
)

// HistoryObserver records every completed build in a Store.
type HistoryObserver struct {
	build.NoopObserver
	store   Store
	timeout time.Duration
	err     error
}

// NewHistoryObserver returns an observer writing to store.
func NewHistoryObserver(store Store) *HistoryObserver {
	return &HistoryObserver{store: store, timeout: 10 * time.Second}
}

// OnBuildComplete implements build.Observer.
func (h *HistoryObserver) OnBuildComplete(report *build.Report) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	if err := RecordReport(ctx, h.store, report); err != nil {
		h.err = err
		slog.Warn("Failed to record build history", logfields.BuildID(report.ID), logfields.Error(err))
	}
}

// Err returns the last recording error, if any.
func (h *HistoryObserver) Err() error { return h.err }
