package service

import (
	"context"
	"fmt"

	"github.com/danilshap/go-order-fulfilment/internal/product/domain"
	"github.com/danilshap/go-order-fulfilment/internal/product/repository"
	"github.com/danilshap/go-order-fulfilment/pkg/dispatcher"
	"github.com/danilshap/go-order-fulfilment/pkg/mylogger"
	"go.uber.org/zap"
)

const reorderThreshold = 10

// NewDispatcher builds the product service's handler table. The
// StockReserved handler is internal bookkeeping: it flags products running
// low so a reorder workflow could pick them up.
func NewDispatcher(productRepo repository.ProductRepository, logger *zap.Logger) *dispatcher.Dispatcher {
	d := dispatcher.New(logger)

	d.Register(domain.EventStockReserved, func(ctx context.Context, event dispatcher.Event) error {
		reserved, ok := event.(domain.StockReservedEvent)
		if !ok {
			return fmt.Errorf("unexpected event payload for %s", event.EventName())
		}

		mylogger.Info(
			ctx,
			logger,
			"Stock reserved for product",
			zap.String("product_id", reserved.ProductID.String()),
			zap.Int("quantity_reserved", reserved.QuantityReserved),
			zap.Int("remaining_stock", reserved.RemainingStock),
		)

		product, err := productRepo.FindByID(ctx, reserved.ProductID)
		if err != nil {
			return err
		}

		if product.StockQuantity < reorderThreshold {
			mylogger.Warn(
				ctx,
				logger,
				"Product below reorder threshold",
				zap.String("product_id", reserved.ProductID.String()),
				zap.Int("remaining_stock", product.StockQuantity),
			)
		}

		return nil
	})

	return d
}
