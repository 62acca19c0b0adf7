package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/moxide/internal/build"
)

func sampleReport(id string, outcome build.Outcome) *build.Report {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return &build.Report{
		ID:         id,
		Site:       "Demo",
		Revision:   "abc123",
		Start:      start,
		End:        start.Add(1500 * time.Millisecond),
		Discovered: 2,
		Succeeded:  []build.EntryResult{{Source: "src/a/index.md", Output: "out/contents/a"}},
		Failed:     []build.EntryResult{{Source: "src/b/index.md", Kind: "render_not_found", Message: "renderer `x` not found"}},
		Warnings:   []string{"w"},
		Outcome:    outcome,
	}
}

func TestRecordReport_ListBuilds(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	require.NoError(t, RecordReport(ctx, store, sampleReport("first", build.OutcomePartial)))
	require.NoError(t, RecordReport(ctx, store, sampleReport("second", build.OutcomeSuccess)))

	builds, err := ListBuilds(ctx, store, 10)
	require.NoError(t, err)
	require.Len(t, builds, 2)
	require.Equal(t, "second", builds[0].BuildID)

	got := builds[1]
	require.Equal(t, "first", got.BuildID)
	require.Equal(t, build.OutcomePartial, got.Outcome)
	require.Equal(t, "Demo", got.Site)
	require.Equal(t, "abc123", got.Revision)
	require.Equal(t, 1500*time.Millisecond, got.Duration)
	require.Equal(t, 2, got.Discovered)
	require.Equal(t, 1, got.Succeeded)
	require.Equal(t, 1, got.Failed)
	require.Equal(t, 1, got.Warnings)
}

func TestBuildEntries(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	require.NoError(t, RecordReport(ctx, store, sampleReport("b", build.OutcomePartial)))

	entries, err := BuildEntries(ctx, store, "b")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.True(t, entries[0].OK())
	require.Equal(t, "render_not_found", entries[1].Kind)

	none, err := BuildEntries(ctx, store, "missing")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestHistoryObserver(t *testing.T) {
	store := newStore(t)
	obs := NewHistoryObserver(store)

	obs.OnEntryComplete(build.EntryResult{Source: "ignored"})
	obs.OnBuildComplete(sampleReport("obs", build.OutcomeSuccess))
	require.NoError(t, obs.Err())

	builds, err := ListBuilds(t.Context(), store, 1)
	require.NoError(t, err)
	require.Len(t, builds, 1)
	require.Equal(t, "obs", builds[0].BuildID)
}

func TestHistoryObserver_RecordsError(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Close())

	obs := NewHistoryObserver(store)
	obs.OnBuildComplete(sampleReport("closed", build.OutcomeSuccess))
	require.Error(t, obs.Err())
}

func TestListBuildsSince(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	since := time.Now().Add(-time.Minute)

	require.NoError(t, RecordReport(ctx, store, sampleReport("first", build.OutcomePartial)))
	require.NoError(t, RecordReport(ctx, store, sampleReport("second", build.OutcomeSuccess)))

	builds, err := ListBuildsSince(ctx, store, since)
	require.NoError(t, err)
	require.Len(t, builds, 2)
	require.Equal(t, "second", builds[0].BuildID)
	require.Equal(t, "first", builds[1].BuildID)

	none, err := ListBuildsSince(ctx, store, time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.Empty(t, none)
}
