/*
Package messaging 定义领域事件离开进程时的消息格式与发布端口。
*/
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pizzeria/domain/shared"
	"pizzeria/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Message is a serialized domain event.
type Message struct {
	ID          string
	AggregateID string
	EventType   string
	Payload     []byte
	OccurredOn  time.Time
}

// Publisher delivers messages to a broker. Publish must be safe to call again
// with the same message after a failure.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// FromEvent serializes the exported fields of a domain event as JSON.
func FromEvent(event shared.DomainEvent) (Message, error) {
	if err := shared.ValidateEvent(event); err != nil {
		return Message{}, fmt.Errorf("invalid domain event: %w", err)
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return Message{}, fmt.Errorf("failed to serialize event %s: %w", event.EventName(), err)
	}
	return Message{
		ID:          uuid.Must(uuid.NewV7()).String(),
		AggregateID: event.GetAggregateID(),
		EventType:   event.EventName(),
		Payload:     payload,
		OccurredOn:  event.OccurredOn(),
	}, nil
}

// LoggingPublisher writes messages to the application log. Used when no broker is configured.
type LoggingPublisher struct{}

func (p *LoggingPublisher) Publish(ctx context.Context, msg Message) error {
	logger.FromContext(ctx).Info("Outbox event published",
		zap.String("event_id", msg.ID),
		zap.String("event_type", msg.EventType),
		zap.String("aggregate_id", msg.AggregateID),
		zap.ByteString("payload", msg.Payload),
	)
	return nil
}

var _ Publisher = (*LoggingPublisher)(nil)
