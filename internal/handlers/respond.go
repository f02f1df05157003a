package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/skillpilot/internal/models"
)

// writeError maps pipeline errors to HTTP. Only invalid input reaches the
// caller as a client error; anything else is unexpected.
func writeError(c *fiber.Ctx, err error) error {
	if errors.Is(err, models.ErrInvalidInput) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}
