package notify

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/moxide/internal/build"
	"git.home.luguber.info/inful/moxide/internal/retry"
)

type message struct {
	subject string
	data    []byte
}

type fakePublisher struct {
	messages []message
	err      error
	failures int
	calls    int
	flushed  int
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if f.calls <= f.failures {
		return errors.New("transient")
	}
	f.messages = append(f.messages, message{subject: subject, data: data})
	return nil
}

func (f *fakePublisher) FlushTimeout(time.Duration) error {
	f.flushed++
	return nil
}

// *nats.Conn must keep satisfying Publisher.
var _ Publisher = (*nats.Conn)(nil)

func report() *build.Report {
	return &build.Report{
		ID:         "b-42",
		Site:       "Demo",
		Outcome:    build.OutcomePartial,
		Discovered: 2,
		Succeeded:  []build.EntryResult{{Source: "a"}},
		Failed:     []build.EntryResult{{Source: "b", Kind: "render_not_found"}},
		End:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestNotifier_PublishesBuildEvent(t *testing.T) {
	pub := &fakePublisher{}
	n := NewNotifier(pub, "")
	require.Equal(t, DefaultSubject, n.Subject())

	n.OnEntryComplete(build.EntryResult{Source: "a"})
	require.Empty(t, pub.messages)

	n.OnBuildComplete(report())
	require.NoError(t, n.Err())
	require.Len(t, pub.messages, 1)
	require.Equal(t, DefaultSubject, pub.messages[0].subject)
	require.Equal(t, 1, pub.flushed)

	var ev BuildEvent
	require.NoError(t, json.Unmarshal(pub.messages[0].data, &ev))
	require.Equal(t, "b-42", ev.BuildID)
	require.Equal(t, build.OutcomePartial, ev.Outcome)
	require.Equal(t, 1, ev.Succeeded)
	require.Len(t, ev.Failures, 1)
	require.Equal(t, "render_not_found", ev.Failures[0].Kind)
}

func TestNotifier_CustomSubject(t *testing.T) {
	pub := &fakePublisher{}
	NewNotifier(pub, "site.builds").OnBuildComplete(report())
	require.Equal(t, "site.builds", pub.messages[0].subject)
}

func TestNotifier_PublishErrorIsKept(t *testing.T) {
	pub := &fakePublisher{err: errors.New("down")}
	n := NewNotifier(pub, "")
	n.OnBuildComplete(report())
	require.ErrorContains(t, n.Err(), "down")
	require.Zero(t, pub.flushed)
	require.Equal(t, 1, pub.calls)
}

func TestNotifier_RetriesTransientPublishErrors(t *testing.T) {
	pub := &fakePublisher{failures: 2}
	n := NewNotifier(pub, "").WithRetry(retry.NewPolicy(retry.BackoffFixed, time.Millisecond, time.Millisecond, 3))
	n.OnBuildComplete(report())
	require.NoError(t, n.Err())
	require.Equal(t, 3, pub.calls)
	require.Len(t, pub.messages, 1)
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1")
	require.Error(t, err)
}
