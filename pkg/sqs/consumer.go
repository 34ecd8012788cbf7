package sqs

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssqs "github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/danilshap/go-order-fulfilment/pkg/mylogger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type HandlerFunc func(ctx context.Context, msg types.Message) error

// ConsumerConfig is injected at construction; the consumer holds no
// ambient state.
type ConsumerConfig struct {
	QueueURL    string
	WaitTime    time.Duration
	MaxMessages int32
	RetryDelay  time.Duration
}

// Consumer long-polls one inbound queue and hands each message to the
// handler, one at a time in received order. A message is deleted only after
// its handler returns nil; on error it stays on the queue for redelivery,
// so handlers must tolerate duplicates. Cancellation is cooperative:
// checked between polls and between messages, never mid-message.
type Consumer struct {
	client  API
	cfg     ConsumerConfig
	handler HandlerFunc
	logger  *zap.Logger
}

func NewConsumer(client API, cfg ConsumerConfig, handler HandlerFunc, logger *zap.Logger) *Consumer {
	if cfg.WaitTime == 0 {
		cfg.WaitTime = 20 * time.Second
	}
	if cfg.MaxMessages == 0 {
		cfg.MaxMessages = 10
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 5 * time.Second
	}

	return &Consumer{
		client:  client,
		cfg:     cfg,
		handler: handler,
		logger:  logger,
	}
}

func (c *Consumer) Run(ctx context.Context) {
	mylogger.Info(
		ctx,
		c.logger,
		"Starting SQS consumer",
		zap.String("queue_url", c.cfg.QueueURL),
	)

	for {
		if ctx.Err() != nil {
			mylogger.Info(ctx, c.logger, "Context cancelled, shutting down consumer")
			return
		}

		out, err := c.client.ReceiveMessage(ctx, &awssqs.ReceiveMessageInput{
			QueueUrl:              aws.String(c.cfg.QueueURL),
			MaxNumberOfMessages:   c.cfg.MaxMessages,
			WaitTimeSeconds:       int32(c.cfg.WaitTime / time.Second),
			MessageAttributeNames: []string{"All"},
		})
		if err != nil {
			if ctx.Err() != nil {
				mylogger.Info(ctx, c.logger, "Context cancelled, shutting down consumer")
				return
			}

			mylogger.Error(ctx, c.logger, "Error receiving messages", zap.Error(err))

			select {
			case <-ctx.Done():
				return
			case <-time.After(c.cfg.RetryDelay):
			}
			continue
		}

		c.processBatch(ctx, out.Messages)
	}
}

func (c *Consumer) processBatch(ctx context.Context, messages []types.Message) {
	for _, msg := range messages {
		if ctx.Err() != nil {
			// Remaining messages stay undeleted and will be redelivered.
			return
		}

		msgCtx, span := c.extractTracing(ctx, msg)

		if err := c.handler(msgCtx, msg); err != nil {
			mylogger.Error(
				msgCtx,
				c.logger,
				"Failed to process message",
				zap.String("message_id", aws.ToString(msg.MessageId)),
				zap.Error(err),
			)

			span.End()
			continue
		}

		if _, err := c.client.DeleteMessage(msgCtx, &awssqs.DeleteMessageInput{
			QueueUrl:      aws.String(c.cfg.QueueURL),
			ReceiptHandle: msg.ReceiptHandle,
		}); err != nil {
			// The work is done but the message stays visible; it will come
			// back and the handler runs again.
			mylogger.Error(
				msgCtx,
				c.logger,
				"Failed to delete processed message",
				zap.String("message_id", aws.ToString(msg.MessageId)),
				zap.Error(err),
			)
		}

		span.End()
	}
}

func (c *Consumer) extractTracing(ctx context.Context, msg types.Message) (context.Context, trace.Span) {
	carrier := propagation.MapCarrier{}
	for key, attr := range msg.MessageAttributes {
		if attr.StringValue != nil {
			carrier[key] = *attr.StringValue
		}
	}

	ctx = otel.GetTextMapPropagator().Extract(ctx, carrier)

	tracer := otel.Tracer("pkg/sqs/consumer")
	return tracer.Start(ctx, "sqs_process",
		trace.WithSpanKind(trace.SpanKindConsumer),
	)
}
