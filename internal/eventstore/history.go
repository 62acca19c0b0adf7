package eventstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"git.home.luguber.info/inful/moxide/internal/build"
)

// BuildSummary is the read model for one completed build.
type BuildSummary struct {
	BuildID     string        `json:"build_id"`
	Site        string        `json:"site,omitempty"`
	Revision    string        `json:"revision,omitempty"`
	Outcome     build.Outcome `json:"outcome"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt time.Time     `json:"completed_at"`
	Duration    time.Duration `json:"duration"`
	Discovered  int           `json:"discovered"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	Warnings    int           `json:"warnings"`
}

// SummaryFromReport projects a build report into its summary.
func SummaryFromReport(r *build.Report) BuildSummary {
	return BuildSummary{
		BuildID:     r.ID,
		Site:        r.Site,
		Revision:    r.Revision,
		Outcome:     r.Outcome,
		StartedAt:   r.Start,
		CompletedAt: r.End,
		Duration:    r.End.Sub(r.Start),
		Discovered:  r.Discovered,
		Succeeded:   len(r.Succeeded),
		Failed:      len(r.Failed),
		Warnings:    len(r.Warnings),
	}
}

// RecordReport appends one EntryCompleted event per entry followed by a
// BuildCompleted summary event, all in one transaction.
func RecordReport(ctx context.Context, store Store, r *build.Report) error {
	entries := make([]build.EntryResult, 0, len(r.Succeeded)+len(r.Failed))
	entries = append(entries, r.Succeeded...)
	entries = append(entries, r.Failed...)
	records := make([]Record, 0, len(entries)+1)
	for _, e := range entries {
		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal entry event: %w", err)
		}
		meta := map[string]string{"source": e.Source}
		if !e.OK() {
			meta["kind"] = e.Kind
		}
		records = append(records, Record{BuildID: r.ID, Type: TypeEntryCompleted, Payload: payload, Metadata: meta})
	}

	payload, err := json.Marshal(SummaryFromReport(r))
	if err != nil {
		return fmt.Errorf("marshal build event: %w", err)
	}
	records = append(records, Record{
		BuildID:  r.ID,
		Type:     TypeBuildCompleted,
		Payload:  payload,
		Metadata: map[string]string{"outcome": string(r.Outcome)},
	})
	return store.AppendAll(ctx, records)
}

// ListBuilds returns up to limit build summaries, newest first.
func ListBuilds(ctx context.Context, store Store, limit int) ([]BuildSummary, error) {
	events, err := store.Latest(ctx, TypeBuildCompleted, limit)
	if err != nil {
		return nil, err
	}
	return decodeSummaries(events)
}

// ListBuildsSince returns the builds recorded at or after since, newest first.
func ListBuildsSince(ctx context.Context, store Store, since time.Time) ([]BuildSummary, error) {
	events, err := store.GetRange(ctx, since, time.Now())
	if err != nil {
		return nil, err
	}
	completed := make([]Event, 0, len(events))
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type() == TypeBuildCompleted {
			completed = append(completed, events[i])
		}
	}
	return decodeSummaries(completed)
}

func decodeSummaries(events []Event) ([]BuildSummary, error) {
	out := make([]BuildSummary, 0, len(events))
	for _, ev := range events {
		var s BuildSummary
		if err := json.Unmarshal(ev.Payload(), &s); err != nil {
			return nil, fmt.Errorf("decode build %s: %w", ev.BuildID(), err)
		}
		out = append(out, s)
	}
	return out, nil
}

// BuildEntries returns the per-entry results recorded for buildID in walk order.
func BuildEntries(ctx context.Context, store Store, buildID string) ([]build.EntryResult, error) {
	events, err := store.GetByBuildID(ctx, buildID)
	if err != nil {
		return nil, err
	}
	var out []build.EntryResult
	for _, ev := range events {
		if ev.Type() != TypeEntryCompleted {
			continue
		}
		var e build.EntryResult
		if err := json.Unmarshal(ev.Payload(), &e); err != nil {
			return nil, fmt.Errorf("decode entry event %d: %w", ev.ID(), err)
		}
		out = append(out, e)
	}
	return out, nil
}
