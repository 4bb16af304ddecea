package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/buildingops/maintenance-service/internal/observability"
	apperrors "github.com/buildingops/maintenance-service/pkg/util"
)

// ErrorHandler converts errors bubbling out of handlers into the uniform
// JSON error envelope. DomainError carries its own HTTP status; anything
// else becomes a 500 with the original error logged, never echoed.
func ErrorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "HTTP_ERROR",
					"message": fiberErr.Message,
				},
			})
		}

		domainErr := apperrors.ToDomainError(err)
		if domainErr.HTTPStatus >= 500 {
			logger.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
		}

		body := fiber.Map{
			"code":    domainErr.Code,
			"message": domainErr.Message,
		}
		if len(domainErr.Details) > 0 {
			body["details"] = domainErr.Details
		}
		return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": body})
	}
}

// RequestTimeout bounds each request with a deadline propagated through
// c.UserContext so repository calls observe cancellation.
func RequestTimeout(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if timeout <= 0 {
			return c.Next()
		}
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}
