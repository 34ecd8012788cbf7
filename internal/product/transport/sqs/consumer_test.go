package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/danilshap/go-order-fulfilment/internal/product/service"
	generalDomain "github.com/danilshap/go-order-fulfilment/pkg/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProductService struct {
	service.ProductService

	handled []*generalDomain.OrderPlacedIntegrationEvent
	err     error
}

func (s *stubProductService) HandleOrderPlaced(_ context.Context, event *generalDomain.OrderPlacedIntegrationEvent) error {
	if s.err != nil {
		return s.err
	}

	s.handled = append(s.handled, event)
	return nil
}

func orderPlacedMessage(t *testing.T, event generalDomain.OrderPlacedIntegrationEvent) types.Message {
	t.Helper()

	body, err := json.Marshal(event)
	require.NoError(t, err)

	return types.Message{
		Body: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"EventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(generalDomain.EventTypeOrderPlaced),
			},
		},
	}
}

func TestProcessMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("routes an order placed message to the service", func(t *testing.T) {
		stub := &stubProductService{}
		consumer := NewConsumer(stub, zap.NewNop())

		event := generalDomain.OrderPlacedIntegrationEvent{
			EventID:    uuid.New(),
			OrderID:    uuid.New(),
			CustomerID: uuid.New(),
			PlacedAt:   time.Now().UTC().Truncate(time.Second),
			Lines: []generalDomain.OrderLineDTO{
				{ProductID: uuid.New(), Quantity: 2, UnitPrice: 149.99},
			},
		}

		require.NoError(t, consumer.processMessage(ctx, orderPlacedMessage(t, event)))

		require.Len(t, stub.handled, 1)
		assert.Equal(t, event.OrderID, stub.handled[0].OrderID)
		assert.Equal(t, event.Lines, stub.handled[0].Lines)
	})

	t.Run("malformed body of a known type is an error", func(t *testing.T) {
		stub := &stubProductService{}
		consumer := NewConsumer(stub, zap.NewNop())

		msg := orderPlacedMessage(t, generalDomain.OrderPlacedIntegrationEvent{})
		msg.Body = aws.String(`{"orderId": not-json`)

		require.Error(t, consumer.processMessage(ctx, msg))
		assert.Empty(t, stub.handled)
	})

	t.Run("service failure propagates so the message stays queued", func(t *testing.T) {
		stub := &stubProductService{err: errors.New("insufficient stock")}
		consumer := NewConsumer(stub, zap.NewNop())

		err := consumer.processMessage(ctx, orderPlacedMessage(t, generalDomain.OrderPlacedIntegrationEvent{
			OrderID: uuid.New(),
		}))
		require.Error(t, err)
	})

	t.Run("unknown event type is ignored without error", func(t *testing.T) {
		stub := &stubProductService{}
		consumer := NewConsumer(stub, zap.NewNop())

		msg := types.Message{
			Body: aws.String(`{}`),
			MessageAttributes: map[string]types.MessageAttributeValue{
				"EventType": {
					DataType:    aws.String("String"),
					StringValue: aws.String("SomethingElseEntirely"),
				},
			},
		}

		require.NoError(t, consumer.processMessage(ctx, msg))
		assert.Empty(t, stub.handled)
	})

	t.Run("missing event type attribute is ignored without error", func(t *testing.T) {
		stub := &stubProductService{}
		consumer := NewConsumer(stub, zap.NewNop())

		require.NoError(t, consumer.processMessage(ctx, types.Message{Body: aws.String(`{}`)}))
		assert.Empty(t, stub.handled)
	})
}
