// handlers/profile_routes.go
package handlers

import (
	"camo-tracker/middleware"
	"camo-tracker/services"

	"github.com/gofiber/fiber/v2"
)

func SetupProfileRoutes(app *fiber.App, profiles *services.ProfileService) {
	secured := app.Group("/profile", middleware.UserContextMiddleware(), middleware.RequireUser())

	secured.Get("/", func(c *fiber.Ctx) error {
		view, err := profiles.Get(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(view)
	})

	// Signup
	secured.Post("/", func(c *fiber.Ctx) error {
		var in services.SignupInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid request body")
		}
		view, err := profiles.Create(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(view)
	})

	// Account settings
	secured.Put("/", func(c *fiber.Ctx) error {
		var in services.AccountInput
		if err := c.BodyParser(&in); err != nil {
			return badRequest(c, "invalid request body")
		}
		view, err := profiles.UpdateAccount(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(view)
	})
}
