package http

import (
	"errors"

	"github.com/danilshap/go-order-fulfilment/internal/order/catalogue"
	"github.com/danilshap/go-order-fulfilment/internal/order/domain"
	"github.com/danilshap/go-order-fulfilment/internal/order/repository"
	"github.com/danilshap/go-order-fulfilment/internal/order/service"
	"github.com/danilshap/go-order-fulfilment/pkg/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderHandler struct {
	service  service.OrderService
	logger   *zap.Logger
	validate *validator.Validate
}

func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		service:  orderService,
		logger:   logger,
		validate: validator.New(),
	}
}

type placeOrderRequest struct {
	CustomerID uuid.UUID          `json:"customerId" validate:"required"`
	Items      []orderItemRequest `json:"items" validate:"dive"`
}

type orderItemRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var req placeOrderRequest

	if err := c.BodyParser(&req); err != nil {
		h.logger.Warn("failed to parse place order body", zap.Error(err))

		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "error parsing body",
		})
	}

	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": utils.FormatValidationError(err),
		})
	}

	lines := make([]service.OrderLineCommand, len(req.Items))
	for i, item := range req.Items {
		lines[i] = service.OrderLineCommand{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	dto, err := h.service.PlaceOrder(c.UserContext(), service.PlaceOrderCommand{
		CustomerID: req.CustomerID,
		Lines:      lines,
	})
	if err != nil {
		return h.mapPlaceOrderError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto)
}

func (h *OrderHandler) FindByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid order id",
		})
	}

	order, err := h.service.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}

		h.logger.Error("failed to load order", zap.Error(err))
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(order)
}

// Synchronous-path failures surface as a 400 with a readable message; the
// caller resubmits, nothing retries automatically.
func (h *OrderHandler) mapPlaceOrderError(c *fiber.Ctx, err error) error {
	var outOfStock *service.OutOfStockError

	switch {
	case errors.Is(err, domain.ErrEmptyOrder),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, catalogue.ErrProductNotFound),
		errors.As(err, &outOfStock):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		h.logger.Error("place order failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}
