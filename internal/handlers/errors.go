package handlers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"bistro/internal/repositories"
	"bistro/internal/services"
)

// respondError maps service errors onto status codes and the {"message", "error"} body.
func respondError(c *fiber.Ctx, err error) error {
	var (
		validationErr *services.ValidationError
		parseErr      *services.ParseError
		fileErr       *services.FileError
		filterErr     *services.FilterError
	)
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   validationErr.Error(),
			"errors":  validationErr.Violations.Map(),
		})
	case errors.As(err, &parseErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not parse CSV file",
			"error":   parseErr.Error(),
		})
	case errors.As(err, &fileErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid file",
			"error":   fileErr.Error(),
		})
	case errors.As(err, &filterErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid filters",
			"error":   filterErr.Error(),
			"errors":  filterErr.Problems,
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Resource not found",
			"error":   err.Error(),
		})
	case errors.Is(err, repositories.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Resource already exists",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
		"error":   err.Error(),
	})
}

func badRequest(c *fiber.Ctx, message string, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": message,
		"error":   err.Error(),
	})
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("id %q must be a positive integer", c.Params("id"))
	}
	return uint(id), nil
}

// guarded prepends the gate middleware to a route handler.
func guarded(gate []fiber.Handler, h fiber.Handler) []fiber.Handler {
	return append(append(make([]fiber.Handler, 0, len(gate)+1), gate...), h)
}
