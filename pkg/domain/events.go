// Package domain holds the integration events shared between the ordering
// and product services. They cross the service boundary through the queue,
// so they are self-contained: the receiver never has to query the sender.
package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeOrderPlaced   = "OrderPlacedIntegrationEvent"
	EventTypeStockReserved = "StockReservedIntegrationEvent"
)

// IntegrationEvent is implemented by every event that leaves the process.
// The name doubles as the routing key: it selects the outbound queue on
// publish and the handler on consume.
type IntegrationEvent interface {
	EventName() string
}

type OrderPlacedIntegrationEvent struct {
	EventID    uuid.UUID      `json:"eventId"`
	OrderID    uuid.UUID      `json:"orderId"`
	CustomerID uuid.UUID      `json:"customerId"`
	PlacedAt   time.Time      `json:"placedAt"`
	Lines      []OrderLineDTO `json:"lines"`
}

type OrderLineDTO struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
}

func (OrderPlacedIntegrationEvent) EventName() string { return EventTypeOrderPlaced }

type StockReservedIntegrationEvent struct {
	EventID          uuid.UUID `json:"eventId"`
	ProductID        uuid.UUID `json:"productId"`
	ProductName      string    `json:"productName"`
	OrderID          uuid.UUID `json:"orderId"`
	QuantityReserved int       `json:"quantityReserved"`
	RemainingStock   int       `json:"remainingStock"`
	OccurredAt       time.Time `json:"occurredAt"`
}

func (StockReservedIntegrationEvent) EventName() string { return EventTypeStockReserved }
