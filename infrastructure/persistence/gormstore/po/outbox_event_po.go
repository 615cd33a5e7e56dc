package po

import (
	"time"

	"pizzeria/infrastructure/messaging"
)

// OutboxEventPO Outbox event persistence object
// Implements transactional outbox pattern for reliable event publishing
type OutboxEventPO struct {
	ID          string    `gorm:"primaryKey;size:64"`
	AggregateID string    `gorm:"size:64;index;not null"`
	EventType   string    `gorm:"size:100;index;not null"`          // e.g., "order.placed", "order.cancelled"
	Payload     string    `gorm:"type:text;not null"`               // JSON serialized event data
	Status      string    `gorm:"size:20;default:PENDING;not null"` // PENDING, PROCESSING, PUBLISHED, FAILED
	RetryCount  int       `gorm:"default:0;not null"`
	OccurredOn  time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"index;not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName Specify table name
func (OutboxEventPO) TableName() string {
	return "outbox_events"
}

// EventStatus Outbox event status enum
type EventStatus string

const (
	EventStatusPending    EventStatus = "PENDING"
	EventStatusProcessing EventStatus = "PROCESSING"
	EventStatusPublished  EventStatus = "PUBLISHED"
	EventStatusFailed     EventStatus = "FAILED"
)

// FromMessage Convert serialized event to outbox persistence object
func FromMessage(msg messaging.Message) *OutboxEventPO {
	now := time.Now().UTC()
	return &OutboxEventPO{
		ID:          msg.ID,
		AggregateID: msg.AggregateID,
		EventType:   msg.EventType,
		Payload:     string(msg.Payload),
		Status:      string(EventStatusPending),
		RetryCount:  0,
		OccurredOn:  msg.OccurredOn.UTC(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// ToMessage rebuilds the message handed to publishers.
func (po *OutboxEventPO) ToMessage() messaging.Message {
	return messaging.Message{
		ID:          po.ID,
		AggregateID: po.AggregateID,
		EventType:   po.EventType,
		Payload:     []byte(po.Payload),
		OccurredOn:  po.OccurredOn,
	}
}
