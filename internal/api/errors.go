package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/muhammadolammi/hireflow/internal/apperr"
)

func statusFor(err error) (int, apperr.Payload) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := apperr.CodeInternal
		switch fe.Code {
		case fiber.StatusNotFound:
			code = apperr.CodeNotFound
		case fiber.StatusUnauthorized:
			code = apperr.CodeUnauthorized
		case fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge, fiber.StatusMethodNotAllowed:
			code = apperr.CodeValidation
		}
		return fe.Code, apperr.Payload{Message: fe.Message, Code: code}
	}
	return apperr.Map(err)
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, payload := statusFor(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Int("status", status),
				zap.Error(err),
			)
		}
		return c.Status(status).JSON(payload)
	}
}
