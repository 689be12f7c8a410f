package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"bfhl/internal/http/middleware"
	"bfhl/internal/model"
)

const (
	msgRouteNotFound   = "Route not found"
	msgBodyTooLarge    = "Request body too large"
	msgBadRequest      = "Bad request"
	msgInternalFailure = "Internal server error"
)

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if s, ok := c.Locals(middleware.RequestIDLocalKey).(string); ok {
		return s
	}
	return ""
}

// writeError writes the failure envelope with the given status.
func writeError(c *fiber.Ctx, status int, identity, message string) error {
	return c.Status(status).JSON(model.Failure(identity, message))
}

// ErrorHandler returns a Fiber global error handler that renders framework errors in the envelope.
// Unknown paths and unsupported methods both report "Route not found".
func ErrorHandler(identity string) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			return writeError(c, fiber.StatusNotFound, identity, msgRouteNotFound)
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, identity, msgBodyTooLarge)
		case fiber.StatusBadRequest:
			return writeError(c, status, identity, msgBadRequest)
		default:
			return writeError(c, fiber.StatusInternalServerError, identity, msgInternalFailure)
		}
	}
}
