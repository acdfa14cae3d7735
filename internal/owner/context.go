package owner

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKey is the fiber.Ctx local the JWT middleware stores the parsed token under.
const TokenKey = "user"

var ErrNoOwner = errors.New("no authenticated owner in context")

// FromContext extracts the owner UUID from the `sub` claim of the verified JWT.
// Client-supplied owner fields are never consulted.
func FromContext(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals(TokenKey).(*jwt.Token)
	if !ok || token == nil {
		return uuid.Nil, ErrNoOwner
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, errors.New("missing sub claim")
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, err
	}
	if id == uuid.Nil {
		return uuid.Nil, ErrNoOwner
	}
	return id, nil
}
