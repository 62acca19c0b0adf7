package eventstore

import (
	"context"
	"time"
)

// Record is one event to be appended.
type Record struct {
	BuildID  string
	Type     string
	Payload  []byte
	Metadata map[string]string
}

// Store defines the interface for persisting and retrieving events.
type Store interface {
	// Append adds a new event to the store.
	Append(ctx context.Context, buildID, eventType string, payload []byte, metadata map[string]string) error

	// AppendAll adds records atomically: either all of them are stored or none.
	AppendAll(ctx context.Context, records []Record) error

	// GetByBuildID retrieves all events for a specific build in insertion order.
	GetByBuildID(ctx context.Context, buildID string) ([]Event, error)

	// GetRange retrieves events within a time range.
	GetRange(ctx context.Context, start, end time.Time) ([]Event, error)

	// Latest retrieves up to limit events of eventType, newest first.
	Latest(ctx context.Context, eventType string, limit int) ([]Event, error)

	// Close closes the store and releases resources.
	Close() error
}
