// handlers/log_routes.go
package handlers

import (
	"camo-tracker/middleware"
	"camo-tracker/services"

	"github.com/gofiber/fiber/v2"
)

// SetupLogRoutes exposes the client audit log endpoint. Inserts are synchronous.
func SetupLogRoutes(app *fiber.App, audit *services.AuditService) {
	app.Post("/logs", middleware.UserContextMiddleware(), func(c *fiber.Ctx) error {
		var entry services.AuditEntry
		if err := c.BodyParser(&entry); err != nil {
			return badRequest(c, "invalid request body")
		}
		// The gateway identity wins over a client-supplied user_id.
		if uid := middleware.UserID(c); uid != "" {
			entry.UserID = uid
		}
		if err := audit.Record(c.UserContext(), entry); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"ok": true})
	})
}
