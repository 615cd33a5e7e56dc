package shared

import (
	"fmt"
	"time"
)

// DomainEvent is a fact recorded by an aggregate. Concrete events are plain
// structs with exported, json-tagged fields so the outbox can serialize them.
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string
}

// EventRecorder collects events on an aggregate until the unit of work pulls them.
type EventRecorder struct {
	events []DomainEvent
}

// Record appends an event.
func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// PullEvents returns recorded events and clears the list.
func (r *EventRecorder) PullEvents() []DomainEvent {
	events := r.events
	r.events = nil
	if events == nil {
		return []DomainEvent{}
	}
	return events
}

// PendingEvents returns a copy without clearing.
func (r *EventRecorder) PendingEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return fmt.Errorf("event cannot be nil")
	}

	if event.EventName() == "" {
		return fmt.Errorf("event name cannot be empty")
	}

	if event.GetAggregateID() == "" {
		return fmt.Errorf("aggregate ID cannot be empty")
	}

	if event.OccurredOn().IsZero() {
		return fmt.Errorf("occurred on time cannot be zero")
	}

	return nil
}
