package authrole

import (
	"github.com/gofiber/fiber/v2"

	"github.com/qolzam/bookcatalog/internal/types"
)

// Config names the roles allowed through.
type Config struct {
	UserCtxName string
	Roles       []string
}

// New rejects requests without a user context (401) or whose role is not
// listed (403).
func New(config Config) fiber.Handler {
	userKey := config.UserCtxName
	if userKey == "" {
		userKey = types.UserCtxName
	}
	return func(c *fiber.Ctx) error {
		user, ok := c.Locals(userKey).(types.UserContext)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"code":    "UNAUTHORIZED",
				"message": "missing user context",
			})
		}
		if !user.HasRole(config.Roles...) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"code":    "FORBIDDEN",
				"message": "insufficient role",
			})
		}
		return c.Next()
	}
}

// RequireRole is New with the default user context key.
func RequireRole(roles ...string) fiber.Handler {
	return New(Config{Roles: roles})
}
