package middlewares

import "github.com/gofiber/fiber/v2"

// BodyLimit rejects request bodies larger than max bytes with 413. The server
// wide fiber.Config.BodyLimit is sized for the largest route; this narrows it
// for the JSON API.
func BodyLimit(max int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if max > 0 && len(c.Request().Body()) > max {
			return fiber.ErrRequestEntityTooLarge
		}
		return c.Next()
	}
}
