// Package notify publishes build-completed events to NATS.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/moxide/internal/build"
	"git.home.luguber.info/inful/moxide/internal/logfields"
	"git.home.luguber.info/inful/moxide/internal/retry"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "moxide.builds"

// Publisher is the subset of *nats.Conn the notifier needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

type flusher interface {
	FlushTimeout(timeout time.Duration) error
}

// BuildEvent is the JSON payload published once per build.
type BuildEvent struct {
	BuildID    string              `json:"build_id"`
	Site       string              `json:"site,omitempty"`
	Revision   string              `json:"revision,omitempty"`
	Outcome    build.Outcome       `json:"outcome"`
	Discovered int                 `json:"discovered"`
	Succeeded  int                 `json:"succeeded"`
	Failures   []build.EntryResult `json:"failures,omitempty"`
	Timestamp  time.Time           `json:"timestamp"`
}

// NewBuildEvent projects a report into its published form.
func NewBuildEvent(r *build.Report) BuildEvent {
	return BuildEvent{
		BuildID:    r.ID,
		Site:       r.Site,
		Revision:   r.Revision,
		Outcome:    r.Outcome,
		Discovered: r.Discovered,
		Succeeded:  len(r.Succeeded),
		Failures:   r.Failed,
		Timestamp:  r.End,
	}
}

// Notifier is a build.Observer publishing a BuildEvent when a build completes.
type Notifier struct {
	build.NoopObserver
	pub     Publisher
	subject string
	policy  retry.Policy
	err     error
}

// NewNotifier creates a notifier. An empty subject selects DefaultSubject.
func NewNotifier(pub Publisher, subject string) *Notifier {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Notifier{pub: pub, subject: subject, policy: retry.None()}
}

// WithRetry sets the backoff used when publishing fails.
func (n *Notifier) WithRetry(p retry.Policy) *Notifier {
	n.policy = p
	return n
}

// Subject returns the subject events are published on.
func (n *Notifier) Subject() string { return n.subject }

// OnBuildComplete implements build.Observer.
func (n *Notifier) OnBuildComplete(report *build.Report) {
	if err := n.publish(report); err != nil {
		n.err = err
		slog.Warn("Failed to publish build event",
			logfields.BuildID(report.ID),
			slog.String("subject", n.subject),
			logfields.Error(err))
		return
	}
	slog.Debug("Published build event", logfields.BuildID(report.ID), slog.String("subject", n.subject))
}

func (n *Notifier) publish(report *build.Report) error {
	data, err := json.Marshal(NewBuildEvent(report))
	if err != nil {
		return fmt.Errorf("marshal build event: %w", err)
	}
	err = n.policy.Do(context.Background(), func(attempt int) error {
		if attempt > 0 {
			slog.Debug("Retrying build event publish", logfields.BuildID(report.ID), slog.Int("attempt", attempt))
		}
		return n.pub.Publish(n.subject, data)
	})
	if err != nil {
		return fmt.Errorf("publish build event: %w", err)
	}
	if f, ok := n.pub.(flusher); ok {
		if err := f.FlushTimeout(5 * time.Second); err != nil {
			return fmt.Errorf("flush build event: %w", err)
		}
	}
	return nil
}

// Err returns the last publish error, if any.
func (n *Notifier) Err() error { return n.err }

// Connect dials the NATS server at url.
func Connect(url string) (*nats.Conn, error) {
	conn, err := nats.Connect(url,
		nats.Name("moxide"),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Info("NATS connection established", "url", conn.ConnectedUrl())
	return conn, nil
}
