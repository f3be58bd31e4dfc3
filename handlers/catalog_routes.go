// handlers/catalog_routes.go
package handlers

import (
	"camo-tracker/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCatalogRoutes(app *fiber.App, catalog *services.CatalogService) {
	app.Get("/catalog/classes", func(c *fiber.Ctx) error {
		classes, err := catalog.ListClasses(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(classes)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
