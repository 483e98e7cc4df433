package controllers

import (
	"github.com/gofiber/fiber/v2"

	"procurement-backend/middlewares"
	"procurement-backend/utils"
)

type createVendorRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type updateVendorRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=1"`
	Email *string `json:"email" validate:"omitempty,email"`
}

func (ctl *Controller) GetVendors(c *fiber.Ctx) error {
	vendors, err := ctl.svc.ListVendors(c.UserContext())
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{"vendors": vendors})
}

func (ctl *Controller) CreateVendor(c *fiber.Ctx) error {
	var req createVendorRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}
	vendor, err := ctl.svc.CreateVendor(c.UserContext(), req.Name, req.Email)
	if err != nil {
		return serviceError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(vendor)
}

// UpdateVendor applies a partial update; omitted fields are left unchanged.
func (ctl *Controller) UpdateVendor(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}

	var req updateVendorRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizePtrDTO(&req)
	if err := middlewares.ValidateStruct(&req); err != nil {
		return err
	}

	updates := utils.UpdatesFromPtrDTO(&req, nil)
	if len(updates) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no fields to update")
	}

	vendor, err := ctl.svc.UpdateVendor(c.UserContext(), id, updates)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(vendor)
}
