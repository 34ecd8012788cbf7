package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/danilshap/go-order-fulfilment/pkg/domain"
	"github.com/danilshap/go-order-fulfilment/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// ErrNoQueueForEvent means the routing table has no queue URL for the
// event's type. That is a wiring mistake, not a transient failure.
var ErrNoQueueForEvent = errors.New("no queue configured for event type")

const eventTypeAttribute = "EventType"

// Publisher sends one message per event to the queue mapped to the event's
// type. Fire-and-forget: it neither waits for nor tracks consumption.
type Publisher struct {
	client API
	routes map[string]string
	logger *zap.Logger
}

// NewPublisher wires an explicit event-name → queue-URL routing table.
// Routing is resolved per publish; an unmapped event type fails the call.
func NewPublisher(client API, routes map[string]string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client: client,
		routes: routes,
		logger: logger,
	}
}

func (p *Publisher) Publish(ctx context.Context, event domain.IntegrationEvent) error {
	queueURL, ok := p.routes[event.EventName()]
	if !ok || queueURL == "" {
		return fmt.Errorf("%w: %s", ErrNoQueueForEvent, event.EventName())
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("error marshalling event %s: %w", event.EventName(), err)
	}

	attributes := map[string]types.MessageAttributeValue{
		eventTypeAttribute: {
			DataType:    aws.String("String"),
			StringValue: aws.String(event.EventName()),
		},
	}

	// Trace context rides along as message attributes so the consumer can
	// continue the trace, the same way the kafka transports do with headers.
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for key, value := range carrier {
		attributes[key] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(value),
		}
	}

	_, err = p.client.SendMessage(ctx, &awssqs.SendMessageInput{
		QueueUrl:          aws.String(queueURL),
		MessageBody:       aws.String(string(body)),
		MessageAttributes: attributes,
	})
	if err != nil {
		return fmt.Errorf("error sending %s to queue: %w", event.EventName(), err)
	}

	mylogger.Debug(
		ctx,
		p.logger,
		"Published integration event",
		zap.String("event", event.EventName()),
		zap.String("queue_url", queueURL),
	)

	return nil
}
