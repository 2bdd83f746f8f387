package serverutils

import (
	"errors"

	"feature-catalog-be/internal/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error onto an HTTP status
func StatusFor(err error) int {
	var fe *fiber.Error
	var ve *apperror.ValidationError
	var nf *apperror.NotFoundError
	var bs *apperror.BackingStoreError

	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.As(err, &ve):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &nf):
		return fiber.StatusNotFound
	case errors.As(err, &bs) && bs.Transient:
		return fiber.StatusServiceUnavailable
	}
	return fiber.StatusInternalServerError
}

// ErrorHandlerMiddleware turns handler errors into the JSON error envelope
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var ve *apperror.ValidationError
		if errors.As(err, &ve) {
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(ValidationErrorResponse(ve.Fields))
		}

		code := StatusFor(err)
		message := err.Error()
		if code == fiber.StatusInternalServerError {
			message = "Internal server error"
		}
		if code == fiber.StatusServiceUnavailable {
			ctx.Set(fiber.HeaderRetryAfter, "1")
			message = "Service temporarily unavailable, retry later"
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
