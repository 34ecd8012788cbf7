package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/danilshap/go-order-fulfilment/internal/product/domain"
	"github.com/danilshap/go-order-fulfilment/internal/product/repository"
	generalDomain "github.com/danilshap/go-order-fulfilment/pkg/domain"
	"github.com/danilshap/go-order-fulfilment/pkg/dispatcher"
	"github.com/danilshap/go-order-fulfilment/pkg/mylogger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ProductDto struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	InStock       bool      `json:"inStock"`
	StockQuantity int       `json:"stockQuantity"`
}

type ReserveStockCommand struct {
	ProductID uuid.UUID
	OrderID   uuid.UUID
	Quantity  int
}

// EventPublisher sends integration events to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, event generalDomain.IntegrationEvent) error
}

type ProductService interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductDto, error)
	List(ctx context.Context) ([]ProductDto, error)
	ReserveStock(ctx context.Context, cmd ReserveStockCommand) error
	HandleOrderPlaced(ctx context.Context, event *generalDomain.OrderPlacedIntegrationEvent) error
}

type productService struct {
	productRepo repository.ProductRepository
	dispatcher  *dispatcher.Dispatcher
	publisher   EventPublisher
	logger      *zap.Logger
	tracer      trace.Tracer

	// Serializes read-modify-write on the stock so concurrent reservations
	// against the same product cannot lose updates.
	mu sync.Mutex
}

func NewProductService(
	productRepo repository.ProductRepository,
	eventDispatcher *dispatcher.Dispatcher,
	publisher EventPublisher,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo: productRepo,
		dispatcher:  eventDispatcher,
		publisher:   publisher,
		logger:      logger,
		tracer:      otel.Tracer("product_service"),
	}
}

func (s *productService) FindByID(ctx context.Context, id uuid.UUID) (*ProductDto, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}

		mylogger.Error(ctx, s.logger, "Failed to load product", zap.Error(err))
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	dto := toDto(product)
	return &dto, nil
}

func (s *productService) List(ctx context.Context) ([]ProductDto, error) {
	products, err := s.productRepo.List(ctx)
	if err != nil {
		mylogger.Error(ctx, s.logger, "Failed to list products", zap.Error(err))
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	dtos := make([]ProductDto, len(products))
	for i := range products {
		dtos[i] = toDto(&products[i])
	}

	return dtos, nil
}

// ReserveStock looks up the product, decrements its stock, persists the
// change, and only then notifies: local handlers first, then the
// StockReserved integration event. There is no reservation TTL and no
// compensating release path.
func (s *productService) ReserveStock(ctx context.Context, cmd ReserveStockCommand) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.ReserveStock")
	defer span.End()

	span.SetAttributes(
		attribute.String("product_id", cmd.ProductID.String()),
		attribute.String("order_id", cmd.OrderID.String()),
		attribute.Int("quantity", cmd.Quantity),
	)

	product, event, err := s.reserve(ctx, cmd)
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := s.dispatcher.Dispatch(ctx, []dispatcher.Event{event}); err != nil {
		mylogger.Error(ctx, s.logger, "Domain event handler failed", zap.Error(err))
		return fmt.Errorf("failed to dispatch stock reserved event: %w", err)
	}

	if err := s.publisher.Publish(ctx, generalDomain.StockReservedIntegrationEvent{
		EventID:          uuid.New(),
		ProductID:        product.ID,
		ProductName:      product.Name,
		OrderID:          cmd.OrderID,
		QuantityReserved: cmd.Quantity,
		RemainingStock:   product.StockQuantity,
		OccurredAt:       time.Now().UTC(),
	}); err != nil {
		mylogger.Error(ctx, s.logger, "Failed to publish stock reserved event", zap.Error(err))
		return fmt.Errorf("failed to publish stock reserved event: %w", err)
	}

	mylogger.Info(
		ctx,
		s.logger,
		"Stock reserved",
		zap.String("product_id", product.ID.String()),
		zap.Int("quantity", cmd.Quantity),
		zap.Int("remaining", product.StockQuantity),
	)

	return nil
}

// reserve is the synchronized read-modify-write. The write lands in the
// store before any event leaves this method.
func (s *productService) reserve(ctx context.Context, cmd ReserveStockCommand) (*domain.Product, domain.StockReservedEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.productRepo.FindByID(ctx, cmd.ProductID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			mylogger.Warn(
				ctx,
				s.logger,
				"Product not found",
				zap.String("product_id", cmd.ProductID.String()),
			)

			return nil, domain.StockReservedEvent{}, fmt.Errorf("product %s: %w", cmd.ProductID, err)
		}

		return nil, domain.StockReservedEvent{}, fmt.Errorf("failed to load product: %w", err)
	}

	event, err := product.ReserveStock(cmd.Quantity)
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			mylogger.Warn(
				ctx,
				s.logger,
				"Insufficient stock",
				zap.String("product_id", cmd.ProductID.String()),
				zap.Int("available", insufficient.Available),
				zap.Int("requested", insufficient.Requested),
			)
		}

		return nil, domain.StockReservedEvent{}, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, domain.StockReservedEvent{}, fmt.Errorf("failed to save product: %w", err)
	}

	return product, event, nil
}

// HandleOrderPlaced reserves stock once per line, sequentially, in line
// order. Any line failing fails the whole message; redelivery re-runs all
// lines (no dedup by event id).
func (s *productService) HandleOrderPlaced(ctx context.Context, event *generalDomain.OrderPlacedIntegrationEvent) error {
	ctx, span := s.tracer.Start(ctx, "ProductService.HandleOrderPlaced")
	defer span.End()

	mylogger.Info(
		ctx,
		s.logger,
		"Processing order placed event",
		zap.String("order_id", event.OrderID.String()),
		zap.Int("line_count", len(event.Lines)),
	)

	for _, line := range event.Lines {
		cmd := ReserveStockCommand{
			ProductID: line.ProductID,
			OrderID:   event.OrderID,
			Quantity:  line.Quantity,
		}

		if err := s.ReserveStock(ctx, cmd); err != nil {
			return fmt.Errorf("failed to reserve stock for product %s: %w", line.ProductID, err)
		}
	}

	return nil
}

func toDto(product *domain.Product) ProductDto {
	return ProductDto{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		InStock:       product.InStock(),
		StockQuantity: product.StockQuantity,
	}
}
