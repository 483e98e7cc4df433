package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"

	"procurement-backend/config"
	"procurement-backend/controllers"
	"procurement-backend/metrics"
	"procurement-backend/middlewares"
)

const (
	// InboundPath is the Mailgun route webhook. Mailgun must always get a 200,
	// so it bypasses the rate limiter and the API body limit.
	InboundPath = "/mailgun/inbound"

	// InboundBodyLimitBytes covers Mailgun's 25 MB message cap plus form overhead.
	InboundBodyLimitBytes = 32 * 1024 * 1024
)

// NewApp builds the Fiber app with global middleware and all routes.
func NewApp(cfg *config.Config, ctl *controllers.Controller, auth *middlewares.Auth, db *gorm.DB) *fiber.App {
	// ---- Fiber app with global error handler + body limit
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    max(cfg.BodyLimitBytes, InboundBodyLimitBytes),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middlewares.Metrics())

	// ---- CORS
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: false, // using Bearer tokens, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// ---- Global rate limiter (every route except the webhook; tune via env)
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == InboundPath
		},
	}))

	Register(app, ctl, auth, db, cfg.BodyLimitBytes)
	return app
}

// Register wires all HTTP routes. Guards are attached per route so unknown
// paths still answer 404.
func Register(app *fiber.App, ctl *controllers.Controller, auth *middlewares.Auth, db *gorm.DB, apiBodyLimit int) {
	// Public endpoints
	app.Get("/healthz", ctl.Healthz)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	app.Post("/login", middlewares.BodyLimit(apiBodyLimit), ctl.Login)
	app.Post(InboundPath, ctl.MailgunInbound)

	// Protected endpoints (JWT auth when AUTH_REQUIRED=true)
	guard := []fiber.Handler{
		middlewares.BodyLimit(apiBodyLimit),
		auth.IsAuthenticatedHeader(),
		middlewares.Idempotency(db),
	}
	protected := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, guard...), h)
	}

	// RFPs
	app.Post("/structured-response", protected(ctl.CreateStructuredResponse)...)
	app.Get("/rfps", protected(ctl.GetRfps)...)
	app.Get("/rfp/:id", protected(ctl.GetRfp)...)
	app.Get("/rfp/:id/comparison", protected(ctl.GetComparison)...)
	app.Post("/send-rfp", protected(ctl.SendRfp)...)

	// Vendors
	app.Get("/vendors", protected(ctl.GetVendors)...)
	app.Post("/vendors", protected(ctl.CreateVendor)...)
	app.Put("/vendors/:id", protected(ctl.UpdateVendor)...)
}
