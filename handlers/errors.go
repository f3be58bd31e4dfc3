// handlers/errors.go
package handlers

import (
	"errors"

	"camo-tracker/cascade"
	"camo-tracker/logger"
	"camo-tracker/models"
	"camo-tracker/utils"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service errors onto the status codes the UI understands.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		return c.Status(appErr.Code).JSON(fiber.Map{"error": appErr.Message})
	case errors.Is(err, cascade.ErrNotAuthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "log in required"})
	case errors.Is(err, cascade.ErrStaleReference):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "item not found", "cause": err.Error()})
	case errors.Is(err, cascade.ErrPersistence):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "failed to save progress", "cause": err.Error()})
	case errors.Is(err, cascade.ErrUnknownFamily), errors.Is(err, models.ErrUnknownGamemode):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	logger.Error().Err(err).Str("path", c.Path()).Msg("❌ request failed")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error", "cause": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
