package eventstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_AppendAndGetByBuildID(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	require.NoError(t, store.Append(ctx, "b1", "First", []byte(`{"n":1}`), map[string]string{"key": "value"}))
	require.NoError(t, store.Append(ctx, "b2", "Other", []byte(`{}`), nil))
	require.NoError(t, store.Append(ctx, "b1", "Second", []byte(`{"n":2}`), nil))

	events, err := store.GetByBuildID(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "First", events[0].Type())
	require.Equal(t, "Second", events[1].Type())
	require.Equal(t, "b1", events[0].BuildID())
	require.JSONEq(t, `{"n":1}`, string(events[0].Payload()))
	require.Equal(t, "value", events[0].Metadata()["key"])
	require.Nil(t, events[1].Metadata())
	require.Less(t, events[0].ID(), events[1].ID())
}

func TestSQLiteStore_GetRange(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	before := time.Now().Add(-time.Second)

	require.NoError(t, store.Append(ctx, "b1", "E", []byte(`{}`), nil))

	events, err := store.GetRange(ctx, before, time.Now().Add(time.Second))
	require.NoError(t, err)
	require.Len(t, events, 1)

	events, err = store.GetRange(ctx, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestSQLiteStore_Latest(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Append(ctx, id, TypeBuildCompleted, []byte(`{}`), nil))
		require.NoError(t, store.Append(ctx, id, TypeEntryCompleted, []byte(`{}`), nil))
	}

	events, err := store.Latest(ctx, TypeBuildCompleted, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, "c", events[0].BuildID())
	require.Equal(t, "b", events[1].BuildID())

	all, err := store.Latest(ctx, TypeBuildCompleted, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestSQLiteStore_PersistsToFile(t *testing.T) {
	path := t.TempDir() + "/history.db"
	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(t.Context(), "b1", "E", []byte(`{}`), nil))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()
	events, err := reopened.GetByBuildID(t.Context(), "b1")
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestSQLiteStore_AppendAllIsAtomic(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()

	err := store.AppendAll(ctx, []Record{
		{BuildID: "b1", Type: TypeEntryCompleted, Payload: []byte(`{}`)},
		{BuildID: "b1", Type: TypeEntryCompleted, Payload: []byte(`{}`)},
		{BuildID: "b1", Type: "", Payload: []byte(`{}`)},
	})
	require.Error(t, err)

	events, err := store.GetByBuildID(ctx, "b1")
	require.NoError(t, err)
	require.Empty(t, events)

	require.NoError(t, store.AppendAll(ctx, []Record{
		{BuildID: "b1", Type: TypeEntryCompleted, Payload: []byte(`{}`)},
		{BuildID: "b1", Type: TypeBuildCompleted, Payload: []byte(`{}`), Metadata: map[string]string{"outcome": "success"}},
	}))
	events, err = store.GetByBuildID(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, TypeBuildCompleted, events[1].Type())
}
