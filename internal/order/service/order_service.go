package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danilshap/go-order-fulfilment/internal/order/catalogue"
	"github.com/danilshap/go-order-fulfilment/internal/order/domain"
	"github.com/danilshap/go-order-fulfilment/internal/order/repository"
	generalDomain "github.com/danilshap/go-order-fulfilment/pkg/domain"
	"github.com/danilshap/go-order-fulfilment/pkg/dispatcher"
	"github.com/danilshap/go-order-fulfilment/pkg/mylogger"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type PlaceOrderCommand struct {
	CustomerID uuid.UUID
	Lines      []OrderLineCommand
}

type OrderLineCommand struct {
	ProductID uuid.UUID
	Quantity  int
}

type OrderDto struct {
	OrderID  uuid.UUID `json:"orderId"`
	Status   string    `json:"status"`
	PlacedAt time.Time `json:"placedAt"`
}

// OutOfStockError is the point-in-time availability failure. The check is
// deliberately racy against concurrent reservations: no hold is taken.
type OutOfStockError struct {
	Name string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("product '%s' is out of stock", e.Name)
}

// EventPublisher sends integration events to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, event generalDomain.IntegrationEvent) error
}

type OrderService interface {
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*OrderDto, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
}

type orderService struct {
	catalogue  catalogue.Service
	orderRepo  repository.OrderRepository
	dispatcher *dispatcher.Dispatcher
	publisher  EventPublisher
	logger     *zap.Logger
	tracer     trace.Tracer
}

func NewOrderService(
	catalogueService catalogue.Service,
	orderRepo repository.OrderRepository,
	eventDispatcher *dispatcher.Dispatcher,
	publisher EventPublisher,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		catalogue:  catalogueService,
		orderRepo:  orderRepo,
		dispatcher: eventDispatcher,
		publisher:  publisher,
		logger:     logger,
		tracer:     otel.Tracer("order_service"),
	}
}

// PlaceOrder validates and prices every line against the catalogue, builds
// the order, stores it, fires local handlers, and only then publishes the
// OrderPlaced integration event. Store write and queue publish are two
// independent calls: a crash between them loses the event.
func (s *orderService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*OrderDto, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder")
	defer span.End()

	span.SetAttributes(
		attribute.String("customer_id", cmd.CustomerID.String()),
		attribute.Int("line_count", len(cmd.Lines)),
	)

	lines := make([]domain.OrderLine, 0, len(cmd.Lines))
	for _, lineCmd := range cmd.Lines {
		product, err := s.catalogue.GetProduct(ctx, lineCmd.ProductID)
		if err != nil {
			if errors.Is(err, catalogue.ErrProductNotFound) {
				mylogger.Warn(
					ctx,
					s.logger,
					"Unknown product in order",
					zap.String("product_id", lineCmd.ProductID.String()),
				)

				return nil, err
			}

			mylogger.Error(ctx, s.logger, "Catalogue lookup failed", zap.Error(err))
			return nil, fmt.Errorf("failed to resolve product %s: %w", lineCmd.ProductID, err)
		}

		if !product.InStock {
			mylogger.Warn(
				ctx,
				s.logger,
				"Product out of stock",
				zap.String("product_id", product.ID.String()),
				zap.String("name", product.Name),
			)

			return nil, &OutOfStockError{Name: product.Name}
		}

		line, err := domain.NewOrderLine(lineCmd.ProductID, lineCmd.Quantity, product.Price)
		if err != nil {
			return nil, err
		}

		lines = append(lines, line)
	}

	order, placedEvent, err := domain.Place(cmd.CustomerID, lines)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.Save(ctx, order); err != nil {
		mylogger.Error(ctx, s.logger, "Failed to save order", zap.Error(err))
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	// Local handlers see the event before any external party does.
	if err := s.dispatcher.Dispatch(ctx, []dispatcher.Event{placedEvent}); err != nil {
		mylogger.Error(ctx, s.logger, "Domain event handler failed", zap.Error(err))
		return nil, fmt.Errorf("failed to dispatch order placed event: %w", err)
	}

	integrationLines := make([]generalDomain.OrderLineDTO, len(order.Lines))
	for i, line := range order.Lines {
		integrationLines[i] = generalDomain.OrderLineDTO{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	if err := s.publisher.Publish(ctx, generalDomain.OrderPlacedIntegrationEvent{
		EventID:    uuid.New(),
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		PlacedAt:   order.PlacedAt,
		Lines:      integrationLines,
	}); err != nil {
		mylogger.Error(ctx, s.logger, "Failed to publish order placed event", zap.Error(err))
		return nil, fmt.Errorf("failed to publish order placed event: %w", err)
	}

	return &OrderDto{
		OrderID:  order.ID,
		Status:   string(order.Status),
		PlacedAt: order.PlacedAt,
	}, nil
}

func (s *orderService) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}
