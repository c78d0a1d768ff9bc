package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorMapping binds a sentinel error to an HTTP status.
type ErrorMapping struct {
	Err  error
	Code int
}

// ErrorHandlerMiddleware turns errors returned by later handlers into a
// BaseResponse. Sentinels are matched with errors.Is in the given order;
// anything unmatched is a 500.
func ErrorHandlerMiddleware(mappings ...ErrorMapping) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := Classify(err, mappings)
		if code == fiber.StatusBadRequest {
			var verr *ValidationError
			if errors.As(err, &verr) {
				return ctx.Status(code).JSON(BaseResponse[map[string]string]{
					Success: false,
					Code:    code,
					Message: "Validation failed",
					Data:    verr.Fields,
				})
			}
		}
		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

// Classify resolves the status and client-facing message for err.
func Classify(err error, mappings []ErrorMapping) (int, string) {
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return ferr.Code, ferr.Message
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return fiber.StatusBadRequest, verr.Error()
	}

	for _, m := range mappings {
		if errors.Is(err, m.Err) {
			return m.Code, err.Error()
		}
	}
	return fiber.StatusInternalServerError, "Internal server error"
}
