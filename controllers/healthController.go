package controllers

import (
	"github.com/gofiber/fiber/v2"

	"procurement-backend/logging"
)

func (ctl *Controller) Healthz(c *fiber.Ctx) error {
	if ctl.ping != nil {
		if err := ctl.ping(c.UserContext()); err != nil {
			logging.Log.WithError(err).Warn("health check failed")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable"})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
