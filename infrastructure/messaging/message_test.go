package messaging

import (
	"context"
	"encoding/json"
	"testing"

	"pizzeria/domain/order"
	"pizzeria/domain/shared"
	"pizzeria/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func placedOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := order.NewItem("p1", "Margherita", 2, shared.MustParseMoney("45.90"))
	require.NoError(t, err)
	o, err := order.NewOrder("c1", "", []*order.Item{item})
	require.NoError(t, err)
	return o
}

func TestFromEvent(t *testing.T) {
	o := placedOrder(t)
	events := o.PullEvents()
	require.Len(t, events, 1)

	msg, err := FromEvent(events[0])
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, o.ID(), msg.AggregateID)
	assert.Equal(t, "order.placed", msg.EventType)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	assert.Equal(t, o.ID(), payload["order_id"])
	assert.Equal(t, "91.80", payload["total_amount"])
	assert.EqualValues(t, 1, payload["item_count"])
}

func TestFromEventRejectsInvalid(t *testing.T) {
	_, err := FromEvent(&order.OrderDeletedEvent{})
	assert.Error(t, err)
}

func TestLoggingPublisher(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	defer logger.SetForTest(zap.New(core))()

	p := &LoggingPublisher{}
	require.NoError(t, p.Publish(context.Background(), Message{ID: "e1", EventType: "order.placed", AggregateID: "o1"}))

	entries := logs.FilterMessage("Outbox event published").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "order.placed", entries[0].ContextMap()["event_type"])
}
