package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "Placed"
	OrderStatusConfirmed OrderStatus = "Confirmed"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusDelivered OrderStatus = "Delivered"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

var (
	ErrEmptyOrder      = errors.New("an order must have at least one line")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrInvalidPrice    = errors.New("unit price must not be negative")
)

// OrderLine snapshots the unit price at order time; later catalogue price
// changes never affect a placed order.
type OrderLine struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unitPrice"`
}

func NewOrderLine(productID uuid.UUID, quantity int, unitPrice float64) (OrderLine, error) {
	if quantity <= 0 {
		return OrderLine{}, ErrInvalidQuantity
	}
	if unitPrice < 0 {
		return OrderLine{}, ErrInvalidPrice
	}

	return OrderLine{
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}, nil
}

func (l OrderLine) LineTotal() float64 {
	return float64(l.Quantity) * l.UnitPrice
}

// Order is created once by Place and never mutated afterwards.
type Order struct {
	ID         uuid.UUID   `json:"id"`
	CustomerID uuid.UUID   `json:"customerId"`
	Status     OrderStatus `json:"status"`
	PlacedAt   time.Time   `json:"placedAt"`
	Lines      []OrderLine `json:"lines"`
}

const EventOrderPlaced = "OrderPlaced"

type OrderPlacedEvent struct {
	OrderID    uuid.UUID
	CustomerID uuid.UUID
	PlacedAt   time.Time
	Lines      []OrderLine
}

func (OrderPlacedEvent) EventName() string { return EventOrderPlaced }

// Place is the only way to construct an Order. The emitted domain event is
// returned alongside the aggregate; the caller owns dispatching it.
func Place(customerID uuid.UUID, lines []OrderLine) (*Order, OrderPlacedEvent, error) {
	if len(lines) == 0 {
		return nil, OrderPlacedEvent{}, ErrEmptyOrder
	}

	order := &Order{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     OrderStatusPlaced,
		PlacedAt:   time.Now().UTC(),
		Lines:      lines,
	}

	event := OrderPlacedEvent{
		OrderID:    order.ID,
		CustomerID: customerID,
		PlacedAt:   order.PlacedAt,
		Lines:      lines,
	}

	return order, event, nil
}
