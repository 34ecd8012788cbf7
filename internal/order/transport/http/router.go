package http

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, h *OrderHandler) {
	orders := app.Group("/api/v1/orders")

	orders.Post("", h.Create)
	orders.Get("/:id", h.FindByID)
}
