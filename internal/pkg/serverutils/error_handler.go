package serverutils

import (
	"errors"

	"subscription-tracker-be/internal/pkg/logger"
	"subscription-tracker-be/internal/service"
	"subscription-tracker-be/pkg/subscription"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware is the fiber ErrorHandler. Handlers return errors as-is and
// the HTTP status is decided here.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var verrs subscription.ValidationErrors
		if errors.As(err, &verrs) {
			return ctx.Status(fiber.StatusBadRequest).JSON(ValidationErrorResponse(verrs))
		}

		code := fiber.StatusInternalServerError
		message := "Internal server error"

		var fiberErr *fiber.Error
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound), errors.Is(err, service.ErrUserNotFound):
			code, message = fiber.StatusNotFound, err.Error()
		case errors.Is(err, service.ErrEmailTaken):
			code, message = fiber.StatusConflict, err.Error()
		case errors.As(err, &fiberErr):
			code, message = fiberErr.Code, fiberErr.Message
		}

		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"error":  err,
			})
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
