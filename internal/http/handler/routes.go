package handler

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"bfhl/internal/model"
	"bfhl/internal/service"
)

// RegisterRoutes attaches the public API routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, svc service.BFHLService, identity string, log *zap.Logger) {
	app.Get("/health", Health(identity))
	app.Post("/bfhl", Compute(svc, identity, log))
}

// Health reports liveness.
//
// @Summary Health check
// @Tags    health
// @Produce json
// @Success 200 {object} model.Response
// @Router  /health [get]
func Health(identity string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(model.Success(identity, nil))
	}
}

// Compute runs the single operation named by the request body's only key.
// Every operation failure, including AI configuration and upstream errors, is a 400.
//
// @Summary Run one operation
// @Tags    bfhl
// @Accept  json
// @Produce json
// @Param   body body    object         true "exactly one of fibonacci, prime, lcm, hcf, AI"
// @Success 200  {object} model.Response
// @Failure 400  {object} model.Response
// @Router  /bfhl [post]
func Compute(svc service.BFHLService, identity string, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := svc.Process(c.UserContext(), c.Body())
		if err != nil {
			log.Warn("bfhl_failed",
				zap.String("request_id", requestIDFromCtx(c)),
				zap.String("error_kind", service.ErrorKind(err)),
				zap.Error(err),
			)
			return writeError(c, fiber.StatusBadRequest, identity, err.Error())
		}
		return c.Status(fiber.StatusOK).JSON(model.Success(identity, data))
	}
}
