package repository

import (
	"context"
	"sync"

	"github.com/danilshap/go-order-fulfilment/internal/order/domain"
	"github.com/google/uuid"
)

type OrderRepository interface {
	Save(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

// inMemoryOrderRepository stores orders by value so callers never share
// mutable state with the store.
type inMemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]domain.Order
}

func NewInMemoryOrderRepository() OrderRepository {
	return &inMemoryOrderRepository{
		orders: make(map[uuid.UUID]domain.Order),
	}
}

func (r *inMemoryOrderRepository) Save(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *order
	stored.Lines = append([]domain.OrderLine(nil), order.Lines...)
	r.orders[order.ID] = stored

	return nil
}

func (r *inMemoryOrderRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, ErrOrderNotFound
	}

	order.Lines = append([]domain.OrderLine(nil), order.Lines...)
	return &order, nil
}
