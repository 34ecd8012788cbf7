package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/danilshap/go-order-fulfilment/internal/product/service"
	generalDomain "github.com/danilshap/go-order-fulfilment/pkg/domain"
	"github.com/danilshap/go-order-fulfilment/pkg/mylogger"
	pkgsqs "github.com/danilshap/go-order-fulfilment/pkg/sqs"
	"go.uber.org/zap"
)

// Consumer adapts inbound queue messages to product service use cases,
// routing by the EventType message attribute.
type Consumer struct {
	service service.ProductService
	logger  *zap.Logger
}

func NewConsumer(productService service.ProductService, logger *zap.Logger) *Consumer {
	return &Consumer{
		service: productService,
		logger:  logger,
	}
}

// Start blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context, client pkgsqs.API, cfg pkgsqs.ConsumerConfig) {
	consumer := pkgsqs.NewConsumer(client, cfg, c.processMessage, c.logger)
	consumer.Run(ctx)
}

// processMessage returns nil only when the message is fully handled (or
// intentionally ignored); anything else leaves it on the queue for
// redelivery.
func (c *Consumer) processMessage(ctx context.Context, msg types.Message) error {
	eventType := messageAttribute(msg, "EventType")

	switch eventType {
	case generalDomain.EventTypeOrderPlaced:
		var event generalDomain.OrderPlacedIntegrationEvent
		if err := json.Unmarshal([]byte(aws.ToString(msg.Body)), &event); err != nil {
			mylogger.Error(ctx, c.logger, "Failed to unmarshal order placed event", zap.Error(err))
			return fmt.Errorf("error unmarshalling %s: %w", eventType, err)
		}

		return c.service.HandleOrderPlaced(ctx, &event)
	default:
		mylogger.Warn(ctx, c.logger, "Ignored event type", zap.String("event_type", eventType))
		return nil
	}
}

func messageAttribute(msg types.Message, name string) string {
	attr, ok := msg.MessageAttributes[name]
	if !ok || attr.StringValue == nil {
		return ""
	}

	return *attr.StringValue
}
