package events

import (
	"time"
)

// Event is one recorded state change. StreamID is the id of the plan, job
// card or dispatch entry that changed; Version counts from 1 per stream and
// is assigned by the store.
type Event struct {
	Type       string      `json:"type"`
	StreamID   string      `json:"streamId"`
	Version    int         `json:"version"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// Handler receives events of the types it subscribed to
type Handler func(Event) error

// EventStore is an append-only log of domain events
type EventStore interface {
	Append(event Event) (Event, error)
	Stream(streamID string, fromVersion int) []Event
	All(fromPosition int) []Event
	Subscribe(handler Handler, eventTypes ...string) (cancel func())
}

// NewEvent builds an unversioned event stamped with the current time
func NewEvent(eventType, streamID string, data interface{}) Event {
	return Event{
		Type:       eventType,
		StreamID:   streamID,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}
