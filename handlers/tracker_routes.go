// handlers/tracker_routes.go
package handlers

import (
	"camo-tracker/cascade"
	"camo-tracker/middleware"
	"camo-tracker/models"
	"camo-tracker/services"

	"github.com/gofiber/fiber/v2"
)

type toggleRequest struct {
	Mode    string `json:"mode"`
	ItemID  string `json:"item_id"`
	Checked bool   `json:"checked"`
}

type checkAllRequest struct {
	Mode    string   `json:"mode"`
	ItemIDs []string `json:"item_ids"`
}

func SetupTrackerRoutes(app *fiber.App, tracker *services.TrackerService) {
	// Boards are readable anonymously; writes need a user.
	group := app.Group("/tracker", middleware.UserContextMiddleware())

	group.Get("/:family", func(c *fiber.Ctx) error {
		family, mode, err := familyAndMode(c, c.Query("mode"))
		if err != nil {
			return respondError(c, err)
		}
		view, err := tracker.Snapshot(c.UserContext(), middleware.UserID(c), family, mode)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(view)
	})

	group.Post("/:family/toggle", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var req toggleRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		if req.ItemID == "" {
			return badRequest(c, "item_id is required")
		}
		family, mode, err := familyAndMode(c, req.Mode)
		if err != nil {
			return respondError(c, err)
		}
		res, err := tracker.Toggle(c.UserContext(), middleware.UserID(c), family, mode, req.ItemID, req.Checked)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	})

	group.Post("/:family/check-all", middleware.RequireUser(), func(c *fiber.Ctx) error {
		var req checkAllRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
		family, mode, err := familyAndMode(c, req.Mode)
		if err != nil {
			return respondError(c, err)
		}
		res, err := tracker.CheckAll(c.UserContext(), middleware.UserID(c), family, mode, req.ItemIDs)
		if err != nil {
			return respondError(c, err)
		}
		status := fiber.StatusOK
		if len(res.Failed) > 0 {
			status = fiber.StatusMultiStatus
		}
		return c.Status(status).JSON(res)
	})
}

func familyAndMode(c *fiber.Ctx, rawMode string) (cascade.Family, models.Gamemode, error) {
	family, err := cascade.ParseFamily(c.Params("family"))
	if err != nil {
		return "", "", err
	}
	mode, err := models.ParseGamemode(rawMode)
	if err != nil {
		return "", "", err
	}
	return family, mode, nil
}
