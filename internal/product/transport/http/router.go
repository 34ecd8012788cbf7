package http

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, h *ProductHandler) {
	products := app.Group("/api/v1/products")

	products.Get("", h.List)
	products.Get("/:id", h.FindByID)
}
