// handlers/auth_routes.go
package handlers

import (
	"camo-tracker/services"

	"github.com/gofiber/fiber/v2"
)

type checkUsernameRequest struct {
	Username      string `json:"username"`
	ExcludeUserID string `json:"exclude_user_id"`
}

type resolveUsernameRequest struct {
	Identifier string `json:"identifier"`
}

// SetupAuthRoutes registers the username helpers used by the signup and login forms.
func SetupAuthRoutes(app *fiber.App, profiles *services.ProfileService) {
	group := app.Group("/auth")

	group.Post("/check-username", func(c *fiber.Ctx) error {
		var req checkUsernameRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		available, err := profiles.UsernameAvailable(c.UserContext(), req.Username, req.ExcludeUserID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"available": available})
	})

	group.Post("/resolve-username", func(c *fiber.Ctx) error {
		var req resolveUsernameRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		email, err := profiles.ResolveUsername(c.UserContext(), req.Identifier)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"email": email})
	})
}
