package handlers

import (
	"context"
	"errors"

	"github.com/fenilmodi00/lotto-backend/shared"
	"github.com/gofiber/fiber/v2"
)

// statusForError maps the error taxonomy to an HTTP status
func statusForError(err error) int {
	switch shared.CategoryOf(err) {
	case shared.ErrorCategoryValidation:
		return fiber.StatusBadRequest
	case shared.ErrorCategoryStorageUnavailable, shared.ErrorCategoryTransientRemote:
		return fiber.StatusServiceUnavailable
	case shared.ErrorCategoryPermanentRemote:
		return fiber.StatusBadGateway
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fiber.StatusGatewayTimeout
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	body := fiber.Map{
		"success": false,
		"error":   err.Error(),
	}
	var serviceErr *shared.ServiceError
	if errors.As(err, &serviceErr) {
		body["error"] = serviceErr.Message
		body["category"] = serviceErr.Category
	}
	return c.Status(statusForError(err)).JSON(body)
}

func respondData(c *fiber.Ctx, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}
