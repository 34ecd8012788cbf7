package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/danilshap/go-order-fulfilment/pkg/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func orderPlacedEvent() domain.OrderPlacedIntegrationEvent {
	return domain.OrderPlacedIntegrationEvent{
		EventID:    uuid.New(),
		OrderID:    uuid.New(),
		CustomerID: uuid.New(),
		PlacedAt:   time.Now().UTC(),
		Lines: []domain.OrderLineDTO{
			{ProductID: uuid.New(), Quantity: 2, UnitPrice: 149.99},
		},
	}
}

func TestPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("routes to the queue mapped to the event type", func(t *testing.T) {
		fake := &fakeAPI{}
		publisher := NewPublisher(fake, map[string]string{
			domain.EventTypeOrderPlaced:   "https://sqs.local/order-placed",
			domain.EventTypeStockReserved: "https://sqs.local/stock-reserved",
		}, zap.NewNop())

		event := orderPlacedEvent()
		require.NoError(t, publisher.Publish(ctx, event))

		sent := fake.sentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "https://sqs.local/order-placed", aws.ToString(sent[0].QueueUrl))
	})

	t.Run("attaches the event type attribute", func(t *testing.T) {
		fake := &fakeAPI{}
		publisher := NewPublisher(fake, map[string]string{
			domain.EventTypeOrderPlaced: "https://sqs.local/order-placed",
		}, zap.NewNop())

		require.NoError(t, publisher.Publish(ctx, orderPlacedEvent()))

		sent := fake.sentMessages()
		require.Len(t, sent, 1)

		attr, ok := sent[0].MessageAttributes["EventType"]
		require.True(t, ok)
		assert.Equal(t, "String", aws.ToString(attr.DataType))
		assert.Equal(t, domain.EventTypeOrderPlaced, aws.ToString(attr.StringValue))
	})

	t.Run("serializes the body with lower-camel-case fields", func(t *testing.T) {
		fake := &fakeAPI{}
		publisher := NewPublisher(fake, map[string]string{
			domain.EventTypeOrderPlaced: "https://sqs.local/order-placed",
		}, zap.NewNop())

		event := orderPlacedEvent()
		require.NoError(t, publisher.Publish(ctx, event))

		var body map[string]any
		require.NoError(t, json.Unmarshal([]byte(aws.ToString(fake.sentMessages()[0].MessageBody)), &body))

		for _, key := range []string{"eventId", "orderId", "customerId", "placedAt", "lines"} {
			assert.Contains(t, body, key)
		}

		lines := body["lines"].([]any)
		require.Len(t, lines, 1)
		line := lines[0].(map[string]any)
		assert.Contains(t, line, "productId")
		assert.Contains(t, line, "quantity")
		assert.Contains(t, line, "unitPrice")
	})

	t.Run("unmapped event type is a configuration error", func(t *testing.T) {
		fake := &fakeAPI{}
		publisher := NewPublisher(fake, map[string]string{
			domain.EventTypeOrderPlaced: "https://sqs.local/order-placed",
		}, zap.NewNop())

		err := publisher.Publish(ctx, domain.StockReservedIntegrationEvent{EventID: uuid.New()})
		require.ErrorIs(t, err, ErrNoQueueForEvent)
		assert.Empty(t, fake.sentMessages())
	})

	t.Run("send failure propagates", func(t *testing.T) {
		fake := &fakeAPI{sendErr: errors.New("queue unreachable")}
		publisher := NewPublisher(fake, map[string]string{
			domain.EventTypeOrderPlaced: "https://sqs.local/order-placed",
		}, zap.NewNop())

		err := publisher.Publish(ctx, orderPlacedEvent())
		require.Error(t, err)
	})
}
