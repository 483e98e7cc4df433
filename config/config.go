package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"procurement-backend/logging"
)

type Config struct {
	Port            string
	BodyLimitBytes  int
	AllowedOrigins  string
	RateLimitMax    int
	RateLimitWindow time.Duration

	DB DBConfig

	GeminiAPIKey string
	GeminiModel  string

	Mailgun MailgunConfig

	SenderName        string
	SenderCompany     string
	SendRatePerSecond float64

	AuthRequired bool
	JWTSecret    string

	IMAP IMAPConfig

	LogLevel string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the postgres connection string understood by gorm.io/driver/postgres.
func (d DBConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type MailgunConfig struct {
	Domain     string
	APIKey     string
	APIBase    string
	SigningKey string
	FromEmail  string
}

type IMAPConfig struct {
	Addr         string
	User         string
	Password     string
	Mailbox      string
	PollInterval time.Duration
}

// Enabled reports whether the mailbox poller should run.
func (c IMAPConfig) Enabled() bool {
	return strings.TrimSpace(c.Addr) != ""
}

// envInt reads an int env var with a default fallback.
func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envString(def string, keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return def
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logging.Log.Warn("no .env file loaded, using process environment only")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	// Fiber default BodyLimit is 4 MiB; BODY_LIMIT_BYTES wins over BODY_LIMIT_MB.
	bodyLimit := envInt("BODY_LIMIT_BYTES", 0)
	if bodyLimit <= 0 {
		bodyLimit = envInt("BODY_LIMIT_MB", 4) * 1024 * 1024
	}

	cfg := &Config{
		Port:            envString("8080", "PORT"),
		BodyLimitBytes:  bodyLimit,
		AllowedOrigins:  envString("*", "ALLOWED_ORIGINS"),
		RateLimitMax:    envInt("RATE_LIMIT_MAX", 60),
		RateLimitWindow: time.Duration(envInt("RATE_LIMIT_WINDOW_SECONDS", 60)) * time.Second,
		DB: DBConfig{
			Host:     envString("db", "DB_HOST"),
			Port:     envInt("DB_PORT", 5432),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Name:     os.Getenv("DB_NAME"),
			SSLMode:  envString("disable", "DB_SSLMODE"),
		},
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envString("gemini-2.5-flash", "GEMINI_MODEL"),
		Mailgun: MailgunConfig{
			Domain:     envString("", "MAILGUN_DOMAIN", "MAILGUN"),
			APIKey:     envString("", "MAILGUN_API_KEY", "API_KEY"),
			APIBase:    os.Getenv("MAILGUN_API_BASE"),
			SigningKey: os.Getenv("MAILGUN_WEBHOOK_SIGNING_KEY"),
			FromEmail:  os.Getenv("FROM_EMAIL"),
		},
		SenderName:        os.Getenv("SENDER_NAME"),
		SenderCompany:     os.Getenv("SENDER_COMPANY"),
		SendRatePerSecond: envFloat("SEND_RATE_PER_SECOND", 0),
		AuthRequired:      envBool("AUTH_REQUIRED", false),
		JWTSecret:         envString("", "JWT_SECRET_KEY", "JWT_SECRET"),
		IMAP: IMAPConfig{
			Addr:         os.Getenv("IMAP_ADDR"),
			User:         os.Getenv("IMAP_USER"),
			Password:     os.Getenv("IMAP_PASSWORD"),
			Mailbox:      envString("INBOX", "IMAP_MAILBOX"),
			PollInterval: time.Duration(envInt("IMAP_POLL_SECONDS", 60)) * time.Second,
		},
		LogLevel: envString("info", "LOG_LEVEL"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.AuthRequired && c.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_REQUIRED is set but JWT_SECRET_KEY is empty"))
	}
	if c.IMAP.Enabled() && (c.IMAP.User == "" || c.IMAP.Password == "") {
		errs = append(errs, errors.New("IMAP_ADDR is set but IMAP_USER/IMAP_PASSWORD are missing"))
	}
	if c.IMAP.PollInterval <= 0 {
		errs = append(errs, errors.New("IMAP_POLL_SECONDS must be positive"))
	}
	if c.SendRatePerSecond < 0 {
		errs = append(errs, errors.New("SEND_RATE_PER_SECOND must not be negative"))
	}
	return errors.Join(errs...)
}
