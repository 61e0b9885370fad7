package events

import (
	"context"
	"time"
)

// Event is something that happened to a study set and is worth announcing.
type Event interface {
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
	// DedupKey identifies the fact the event reports; the same key means the same fact.
	// Empty disables deduplication.
	DedupKey() string
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

type BaseEvent struct {
	Type       string
	Key        string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string               { return e.Type }
func (e BaseEvent) Payload() map[string]interface{} { return e.Data }
func (e BaseEvent) Timestamp() time.Time            { return e.OccurredAt }

func (e BaseEvent) DedupKey() string {
	if e.Key == "" {
		return ""
	}
	return e.Type + ":" + e.Key
}
