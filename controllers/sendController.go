package controllers

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"procurement-backend/middlewares"
)

// EmailList accepts either one address or a list of addresses.
type EmailList []string

func (l *EmailList) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*l = nil
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*l = EmailList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return errors.New("email must be a string or a list of strings")
	}
	*l = many
	return nil
}

type sendRequest struct {
	RfpID uint      `json:"rfpId" validate:"required"`
	Email EmailList `json:"email" validate:"required"`
}

// SendRfp emails the RFP to every listed vendor and reports per-vendor results.
func (ctl *Controller) SendRfp(c *fiber.Ctx) error {
	var req sendRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	results, err := ctl.svc.SendRfp(c.UserContext(), req.RfpID, req.Email)
	if err != nil {
		return serviceError(err)
	}
	return c.JSON(fiber.Map{
		"rfpId":   req.RfpID,
		"results": results,
	})
}
