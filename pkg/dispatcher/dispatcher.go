// Package dispatcher routes domain events to in-process handlers. The
// handler table is closed: it is built once at startup and dispatch is a
// map lookup plus a direct call, no reflection.
package dispatcher

import (
	"context"

	"github.com/danilshap/go-order-fulfilment/pkg/mylogger"
	"go.uber.org/zap"
)

// Event is a fact about a state change inside one aggregate. Domain events
// never leave the process; integration events do.
type Event interface {
	EventName() string
}

type HandlerFunc func(ctx context.Context, event Event) error

type Dispatcher struct {
	handlers map[string][]HandlerFunc
	logger   *zap.Logger
}

func New(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]HandlerFunc),
		logger:   logger,
	}
}

// Register binds a handler to an event name. Handlers for the same name run
// in registration order. Register is meant for startup wiring and is not
// safe to call concurrently with Dispatch.
func (d *Dispatcher) Register(eventName string, handler HandlerFunc) {
	d.handlers[eventName] = append(d.handlers[eventName], handler)
}

// Dispatch delivers events one at a time, each handler awaited before the
// next. Events without a registered handler are skipped. The first handler
// error aborts the batch: later events are not delivered, and the caller's
// use case fails with that error.
func (d *Dispatcher) Dispatch(ctx context.Context, events []Event) error {
	for _, event := range events {
		handlers, ok := d.handlers[event.EventName()]
		if !ok {
			mylogger.Debug(
				ctx,
				d.logger,
				"No handler registered for domain event",
				zap.String("event", event.EventName()),
			)

			continue
		}

		for _, handler := range handlers {
			if err := handler(ctx, event); err != nil {
				return err
			}
		}
	}

	return nil
}
