package service

import (
	"context"
	"fmt"

	"github.com/danilshap/go-order-fulfilment/internal/order/domain"
	"github.com/danilshap/go-order-fulfilment/pkg/dispatcher"
	"github.com/danilshap/go-order-fulfilment/pkg/mylogger"
	"go.uber.org/zap"
)

// NewDispatcher builds the ordering service's handler table. One handler
// per event tag, bound at startup.
func NewDispatcher(logger *zap.Logger) *dispatcher.Dispatcher {
	d := dispatcher.New(logger)

	d.Register(domain.EventOrderPlaced, func(ctx context.Context, event dispatcher.Event) error {
		placed, ok := event.(domain.OrderPlacedEvent)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", event.EventName())
		}

		// Internal concerns only: audit trail today, fraud checks or
		// loyalty points tomorrow.
		mylogger.Info(
			ctx,
			logger,
			"Order placed",
			zap.String("order_id", placed.OrderID.String()),
			zap.String("customer_id", placed.CustomerID.String()),
			zap.Int("line_count", len(placed.Lines)),
		)

		return nil
	})

	return d
}
