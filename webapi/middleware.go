package webapi

import (
	"errors"

	"github.com/fidelys/loyalty/config"
	"github.com/fidelys/loyalty/pkg/repository"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JwtProtected verifies the bearer token and leaves the parsed token in the
// request locals under "user".
func JwtProtected(cfg config.JwtConfig) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.Secret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return Fail(c, fiber.StatusUnauthorized, "TokenExpiredError")
			}
			return Fail(c, fiber.StatusUnauthorized, "Invalid or missing token")
		},
	})
}

// principalID pulls the numeric id claim out of the verified token.
func principalID(c *fiber.Ctx) (uint, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return 0, errors.New("no verified token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errors.New("unexpected claims type")
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, errors.New("missing id claim")
	}
	return uint(id), nil
}

const localPrincipalID = "principalID"

// PrincipalID returns the authenticated principal id set by one of the
// Require* middlewares.
func PrincipalID(c *fiber.Ctx) uint {
	id, _ := c.Locals(localPrincipalID).(uint)
	return id
}

// RequireUser checks that the token's id belongs to an existing customer
// account and stores it for the handler.
func RequireUser(uow repository.UnitOfWork) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := principalID(c)
		if err != nil {
			return Fail(c, fiber.StatusUnauthorized, "Invalid or missing token")
		}
		if _, err := uow.Users().Get(c.Context(), id); err != nil {
			return Fail(c, fiber.StatusUnauthorized, "Unknown user")
		}
		c.Locals(localPrincipalID, id)
		return c.Next()
	}
}

// RequireCaisse checks that the token's id belongs to an existing till.
func RequireCaisse(uow repository.UnitOfWork) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := principalID(c)
		if err != nil {
			return Fail(c, fiber.StatusUnauthorized, "Invalid or missing token")
		}
		if _, err := uow.Caisses().Get(c.Context(), id); err != nil {
			return Fail(c, fiber.StatusUnauthorized, "Unknown caisse")
		}
		c.Locals(localPrincipalID, id)
		return c.Next()
	}
}

// RequireAdmin checks that the token's id belongs to an existing back-office
// account.
func RequireAdmin(uow repository.UnitOfWork) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := principalID(c)
		if err != nil {
			return Fail(c, fiber.StatusUnauthorized, "Invalid or missing token")
		}
		if _, err := uow.Admins().Get(c.Context(), id); err != nil {
			return Fail(c, fiber.StatusUnauthorized, "Unknown admin")
		}
		c.Locals(localPrincipalID, id)
		return c.Next()
	}
}
