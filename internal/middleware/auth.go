package middleware

import (
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/leads-backend/internal/owner"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected verifies the HS256 bearer token and stores it under owner.TokenKey.
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ContextKey: owner.TokenKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return unauthorized(c)
		},
	})
}

// RequireOwner rejects requests whose verified token carries no owner id.
// It must run after JWTProtected.
func RequireOwner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := owner.FromContext(c); err != nil {
			return unauthorized(c)
		}
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Message: "Unauthorized",
	})
}
