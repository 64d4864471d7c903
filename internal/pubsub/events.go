// Package pubsub fans typed events out to any number of subscribers and
// bridges subscriptions into the Bubble Tea update loop.
package pubsub

import "time"

// EventType names what happened to the payload.
type EventType string

const (
	AddedEvent   EventType = "added"
	RemovedEvent EventType = "removed"
	LineEvent    EventType = "line"
	ChangedEvent EventType = "changed"
)

// Event is a published payload stamped with its type and publish time.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}
