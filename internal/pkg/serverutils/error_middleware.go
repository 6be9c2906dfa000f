package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"docs-assistant-be/pkg/rag/session"
)

// ErrorHandlerMiddleware maps errors bubbling out of controllers onto the
// JSON envelope with an appropriate status code.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			code = fe.Code
		case errors.Is(err, session.ErrNotFound):
			code = fiber.StatusNotFound
		case errors.Is(err, session.ErrBusy):
			code = fiber.StatusConflict
		case errors.Is(err, session.ErrCapacity):
			code = fiber.StatusServiceUnavailable
		}

		return ctx.Status(code).JSON(ErrorResponse(err.Error()))
	}
}
