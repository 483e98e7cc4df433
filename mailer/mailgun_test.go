package mailer

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-backend/config"
)

func TestNormalizeMessageID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "abc", want: "abc"},
		{in: "<20240101.1234@mg.example.com>", want: "20240101.1234@mg.example.com"},
		{in: "  <abc@mg>  ", want: "abc@mg"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeMessageID(tt.in), tt.in)
	}
}

func TestNewMailgunRequiresCredentials(t *testing.T) {
	_, err := NewMailgun(config.MailgunConfig{Domain: "mg.example.com"})
	assert.Error(t, err)
}

func sign(key, timestamp, token string) string {
	h := hmac.New(sha256.New, []byte(key))
	h.Write([]byte(timestamp + token))
	return hex.EncodeToString(h.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	m, err := NewMailgun(config.MailgunConfig{Domain: "mg.example.com", APIKey: "api-key", SigningKey: "signing-key"})
	require.NoError(t, err)
	require.True(t, m.SignatureConfigured())

	timestamp, token := "1700000000", "random-token"
	good := sign("signing-key", timestamp, token)

	ok, err := m.VerifySignature(timestamp, token, good)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = m.VerifySignature(timestamp, "other-token", good)
	assert.False(t, ok)

	// signed with the sending API key instead of the webhook signing key
	ok, err = m.VerifySignature(timestamp, token, sign("api-key", timestamp, token))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifySignatureWithoutKey(t *testing.T) {
	m, err := NewMailgun(config.MailgunConfig{Domain: "mg.example.com", APIKey: "key"})
	require.NoError(t, err)

	_, err = m.VerifySignature("1", "t", "s")
	assert.ErrorIs(t, err, ErrSignatureKeyMissing)
}
