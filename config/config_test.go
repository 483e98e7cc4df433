package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BODY_LIMIT_BYTES", "")
	t.Setenv("BODY_LIMIT_MB", "")
	t.Setenv("AUTH_REQUIRED", "")
	t.Setenv("IMAP_ADDR", "")
	t.Setenv("GEMINI_MODEL", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 4*1024*1024, cfg.BodyLimitBytes)
	assert.Equal(t, "*", cfg.AllowedOrigins)
	assert.Equal(t, 60*time.Second, cfg.RateLimitWindow)
	assert.Equal(t, "gemini-2.5-flash", cfg.GeminiModel)
	assert.Equal(t, "INBOX", cfg.IMAP.Mailbox)
	assert.False(t, cfg.IMAP.Enabled())
}

func TestFromEnvLegacyMailgunKeys(t *testing.T) {
	t.Setenv("MAILGUN_DOMAIN", "")
	t.Setenv("MAILGUN_API_KEY", "")
	t.Setenv("MAILGUN", "mg.example.com")
	t.Setenv("API_KEY", "key-123")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "mg.example.com", cfg.Mailgun.Domain)
	assert.Equal(t, "key-123", cfg.Mailgun.APIKey)
}

func TestFromEnvBodyLimitBytesWins(t *testing.T) {
	t.Setenv("BODY_LIMIT_BYTES", "1024")
	t.Setenv("BODY_LIMIT_MB", "9")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.BodyLimitBytes)
}

func TestFromEnvRejectsInconsistentSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "auth without secret",
			env:  map[string]string{"AUTH_REQUIRED": "true", "JWT_SECRET_KEY": "", "JWT_SECRET": ""},
		},
		{
			name: "imap without credentials",
			env:  map[string]string{"IMAP_ADDR": "imap.example.com:993", "IMAP_USER": "", "IMAP_PASSWORD": ""},
		},
		{
			name: "negative send rate",
			env:  map[string]string{"SEND_RATE_PER_SECOND": "-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestDSN(t *testing.T) {
	d := DBConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "procurement", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=procurement port=5432 sslmode=disable TimeZone=UTC", d.DSN())
}
