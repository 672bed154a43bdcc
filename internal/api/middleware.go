package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/muhammadolammi/hireflow/internal/apperr"
	"github.com/muhammadolammi/hireflow/internal/auth"
)

const identityKey = "identity"

// requireIdentity rejects requests without a verifiable bearer token and
// stores the caller's identity in the request locals.
func requireIdentity(v auth.Verifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if v == nil {
			return &apperr.UnauthorizedError{Message: "authentication is not configured"}
		}
		token := auth.BearerToken(c.Get(fiber.HeaderAuthorization))
		if token == "" {
			return &apperr.UnauthorizedError{Message: "missing Authorization header"}
		}
		id, err := v.Verify(token)
		if err != nil {
			msg := "invalid or expired token"
			if errors.Is(err, auth.ErrMissingToken) {
				msg = "missing Authorization header"
			}
			return &apperr.UnauthorizedError{Message: msg}
		}
		c.Locals(identityKey, id)
		return c.Next()
	}
}

// identity returns the verified caller of the request.
func identity(c *fiber.Ctx) (auth.Identity, bool) {
	id, ok := c.Locals(identityKey).(auth.Identity)
	return id, ok
}
