package pubsub

import "context"

const (
	// CreatedEvent announces a new payload
	CreatedEvent EventType = "created"
	// UpdatedEvent replaces a previously announced payload
	UpdatedEvent EventType = "updated"
	// DeletedEvent withdraws payloads
	DeletedEvent EventType = "deleted"
	// FinishedEvent marks the end of a run
	FinishedEvent EventType = "finished"
)

// Subscriber hands out event channels that close with their context
type Subscriber[T any] interface {
	Subscribe(context.Context) <-chan Event[T]
}

type (
	// EventType identifies what happened to a payload
	EventType string

	// Event carries one payload through the broker
	Event[T any] struct {
		Type    EventType
		Payload T
	}

	// Publisher sends events to every subscriber
	Publisher[T any] interface {
		Publish(EventType, T)
		PublishWait(context.Context, EventType, T) error
	}
)
