package controllers

import (
	"github.com/gofiber/fiber/v2"

	"procurement-backend/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type structuredRequest struct {
	UserText string `json:"userText"`
}

// CreateStructuredResponse turns free text into a stored, structured RFP.
func (ctl *Controller) CreateStructuredResponse(c *fiber.Ctx) error {
	var req structuredRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "userText must be a string")
	}

	created, err := ctl.svc.CreateRfp(c.UserContext(), req.UserText)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(created)
}

func (ctl *Controller) GetRfps(c *fiber.Ctx) error {
	limit := utils.ParseIntDefault(c.Query("limit"), defaultPageSize)
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	rfps, err := ctl.svc.ListRfps(c.UserContext(), limit, offset)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{
		"rfps":   rfps,
		"limit":  limit,
		"offset": offset,
	})
}

func (ctl *Controller) GetRfp(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	rfp, err := ctl.svc.GetRfp(c.UserContext(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(rfp)
}

// GetComparison renders the vendor comparison for an RFP.
func (ctl *Controller) GetComparison(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	cmp, err := ctl.svc.CompareVendors(c.UserContext(), id)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(cmp)
}
