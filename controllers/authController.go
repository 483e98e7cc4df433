package controllers

import (
	"github.com/gofiber/fiber/v2"

	"procurement-backend/logging"
	"procurement-backend/middlewares"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (ctl *Controller) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := ctl.users.FindUserByEmail(c.UserContext(), req.Email)
	if err != nil || user.ComparePassword(req.Password) != nil {
		if err != nil {
			logging.Log.WithError(err).Debug("login lookup failed")
		}
		return fiber.NewError(fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := ctl.auth.GenerateJWT(user.Id, user.Email)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"token": token,
		"user": fiber.Map{
			"id":    user.Id,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}
