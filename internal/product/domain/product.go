package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyName       = errors.New("product name must not be empty")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidStock    = errors.New("stock quantity must not be negative")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// InsufficientStockError carries what was available against what was asked
// for, so the failure is actionable without another lookup.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock. available: %d, requested: %d", e.Available, e.Requested)
}

type Product struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Price         float64
	StockQuantity int
}

func NewProduct(id uuid.UUID, name, description string, price float64, stockQuantity int) (*Product, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if price < 0 {
		return nil, ErrInvalidPrice
	}
	if stockQuantity < 0 {
		return nil, ErrInvalidStock
	}

	return &Product{
		ID:            id,
		Name:          name,
		Description:   description,
		Price:         price,
		StockQuantity: stockQuantity,
	}, nil
}

func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

const EventStockReserved = "StockReserved"

type StockReservedEvent struct {
	ProductID        uuid.UUID
	QuantityReserved int
	RemainingStock   int
	OccurredAt       time.Time
}

func (StockReservedEvent) EventName() string { return EventStockReserved }

// ReserveStock decrements the stock and returns the resulting domain
// event. Stock never goes negative: a request beyond the current quantity
// fails with InsufficientStockError and leaves the product untouched.
func (p *Product) ReserveStock(quantity int) (StockReservedEvent, error) {
	if quantity <= 0 {
		return StockReservedEvent{}, ErrInvalidQuantity
	}

	if quantity > p.StockQuantity {
		return StockReservedEvent{}, &InsufficientStockError{
			Available: p.StockQuantity,
			Requested: quantity,
		}
	}

	p.StockQuantity -= quantity

	return StockReservedEvent{
		ProductID:        p.ID,
		QuantityReserved: quantity,
		RemainingStock:   p.StockQuantity,
		OccurredAt:       time.Now().UTC(),
	}, nil
}
