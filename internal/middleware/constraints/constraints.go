package constraints

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// RequireID ensures a path parameter is a positive integer id. Anything
// else answers 404 so the route behaves as if it did not match.
func RequireID(param string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		value := c.Params(param)
		if value == "" {
			return c.Next()
		}
		if id, err := strconv.ParseInt(value, 10, 64); err != nil || id <= 0 {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.Next()
	}
}
