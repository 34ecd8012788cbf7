package http

import (
	"errors"

	"github.com/danilshap/go-order-fulfilment/internal/product/repository"
	"github.com/danilshap/go-order-fulfilment/internal/product/service"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductHandler struct {
	service service.ProductService
	logger  *zap.Logger
}

func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: productService,
		logger:  logger,
	}
}

func (h *ProductHandler) FindByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid product id",
		})
	}

	product, err := h.service.FindByID(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}

		h.logger.Error("failed to load product", zap.Error(err))
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(product)
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.service.List(c.UserContext())
	if err != nil {
		h.logger.Error("failed to list products", zap.Error(err))
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.JSON(products)
}
