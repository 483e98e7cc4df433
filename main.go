package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"procurement-backend/config"
	"procurement-backend/controllers"
	"procurement-backend/database"
	"procurement-backend/inbox"
	"procurement-backend/llm"
	"procurement-backend/logging"
	"procurement-backend/mailer"
	"procurement-backend/middlewares"
	"procurement-backend/routes"
	"procurement-backend/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Log.WithError(err).Fatal("invalid configuration")
	}
	logging.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Database
	if err := database.Connect(cfg.DB); err != nil {
		logging.Log.WithError(err).Fatal("database connection failed")
	}
	if err := database.AutoMigrate(database.DB); err != nil {
		logging.Log.WithError(err).Fatal("database migration failed")
	}

	// ---- External services
	gemini, err := llm.NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logging.Log.WithError(err).Fatal("gemini client")
	}
	mg, err := mailer.NewMailgun(cfg.Mailgun)
	if err != nil {
		logging.Log.WithError(err).Fatal("mailgun client")
	}

	store := database.NewStore(database.DB)
	svc := services.New(store, gemini, mg, services.Sender{
		Name:      cfg.SenderName,
		Company:   cfg.SenderCompany,
		FromEmail: cfg.Mailgun.FromEmail,
	}, services.WithSendRate(cfg.SendRatePerSecond))

	auth, err := middlewares.NewAuth(cfg.JWTSecret, cfg.AuthRequired)
	if err != nil {
		logging.Log.WithError(err).Fatal("auth setup")
	}

	ctl := controllers.New(controllers.Deps{
		Service: svc,
		Auth:    auth,
		Users:   store,
		Webhook: mg,
		Ping: func(ctx context.Context) error {
			sqlDB, err := database.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	})

	app := routes.NewApp(cfg, ctl, auth, database.DB)

	// ---- Optional IMAP inbox
	if cfg.IMAP.Enabled() {
		go inbox.NewPoller(cfg.IMAP, svc).Run(ctx)
	}

	go func() {
		<-ctx.Done()
		logging.Log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logging.Log.WithError(err).Error("shutdown")
		}
	}()

	logging.Log.WithField("port", cfg.Port).Info("API server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logging.Log.WithError(err).Fatal("server stopped")
	}
}
