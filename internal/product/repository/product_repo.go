package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/danilshap/go-order-fulfilment/internal/product/domain"
	"github.com/google/uuid"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Save(ctx context.Context, product *domain.Product) error
}

// inMemoryProductRepository keeps products by value and hands out copies,
// so a caller's read-modify-write only becomes visible through Save.
type inMemoryProductRepository struct {
	mu    sync.RWMutex
	store map[uuid.UUID]domain.Product
}

// NewInMemoryProductRepository returns a store seeded with the demo
// catalogue. The USB-C Hub is deliberately out of stock.
func NewInMemoryProductRepository() ProductRepository {
	r := &inMemoryProductRepository{
		store: make(map[uuid.UUID]domain.Product),
	}
	r.seed()
	return r
}

func (r *inMemoryProductRepository) FindByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.store[id]
	if !ok {
		return nil, ErrProductNotFound
	}

	return &product, nil
}

func (r *inMemoryProductRepository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, 0, len(r.store))
	for _, product := range r.store {
		products = append(products, product)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})

	return products, nil
}

func (r *inMemoryProductRepository) Save(_ context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[product.ID] = *product
	return nil
}

func (r *inMemoryProductRepository) seed() {
	products := []domain.Product{
		{
			ID:            uuid.MustParse("3fa85f64-5717-4562-b3fc-2c963f66afa1"),
			Name:          "Wireless Headphones",
			Description:   "Premium noise-cancelling wireless headphones",
			Price:         149.99,
			StockQuantity: 50,
		},
		{
			ID:            uuid.MustParse("4fb96f75-6828-5673-b4fc-3d074f77afa2"),
			Name:          "Mechanical Keyboard",
			Description:   "Compact TKL mechanical keyboard with RGB",
			Price:         89.99,
			StockQuantity: 30,
		},
		{
			ID:            uuid.MustParse("5fc07a86-7939-6784-c5ad-4e185a88bac3"),
			Name:          "USB-C Hub",
			Description:   "7-in-1 USB-C hub with 4K HDMI",
			Price:         49.99,
			StockQuantity: 0,
		},
	}

	for _, product := range products {
		r.store[product.ID] = product
	}
}
