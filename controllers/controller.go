package controllers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"procurement-backend/inbound"
	"procurement-backend/middlewares"
	"procurement-backend/models"
	"procurement-backend/services"
)

// Procurement is the part of services.Service the HTTP layer calls.
type Procurement interface {
	CreateRfp(ctx context.Context, userText string) (*services.CreatedRfp, error)
	GetRfp(ctx context.Context, id uint) (*models.Rfp, error)
	ListRfps(ctx context.Context, limit, offset int) ([]models.Rfp, error)
	SendRfp(ctx context.Context, rfpID uint, vendorEmails []string) ([]services.SendResult, error)
	ProcessInboundReply(ctx context.Context, email inbound.Email) (*models.Reply, error)
	CompareVendors(ctx context.Context, rfpID uint) (*services.Comparison, error)
	ListVendors(ctx context.Context) ([]models.Vendor, error)
	CreateVendor(ctx context.Context, name, email string) (*models.Vendor, error)
	UpdateVendor(ctx context.Context, id uint, updates map[string]any) (*models.Vendor, error)
}

// SignatureVerifier checks Mailgun webhook signatures.
type SignatureVerifier interface {
	SignatureConfigured() bool
	VerifySignature(timestamp, token, signature string) (bool, error)
}

// UserFinder loads operators for login.
type UserFinder interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Deps struct {
	Service Procurement
	Auth    *middlewares.Auth
	Users   UserFinder
	Webhook SignatureVerifier // nil disables signature checks
	Ping    func(ctx context.Context) error
}

// Controller holds the HTTP handlers.
type Controller struct {
	svc     Procurement
	auth    *middlewares.Auth
	users   UserFinder
	webhook SignatureVerifier
	ping    func(ctx context.Context) error
}

func New(d Deps) *Controller {
	return &Controller{
		svc:     d.Service,
		auth:    d.Auth,
		users:   d.Users,
		webhook: d.Webhook,
		ping:    d.Ping,
	}
}

// serviceError maps service sentinels onto HTTP errors; anything else becomes a 500.
func serviceError(err error) error {
	switch {
	case errors.Is(err, services.ErrUserTextRequired), errors.Is(err, services.ErrNoRecipients):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrRfpNotFound), errors.Is(err, services.ErrVendorNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fiber.NewError(fiber.StatusConflict, "already exists")
	}
	return err
}

// paramID reads a positive numeric route parameter.
func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}
