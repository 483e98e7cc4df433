package mailer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"procurement-backend/config"
	"procurement-backend/metrics"
)

var ErrSignatureKeyMissing = errors.New("mailgun webhook signing key not configured")

// Message is a plain-text outbound email.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
}

// Mailgun sends mail through the Mailgun HTTP API.
type Mailgun struct {
	mg *mailgun.MailgunImpl

	// verifier is keyed with the webhook signing key; VerifyWebhookSignature
	// HMACs with the client's key, which is not the sending API key.
	verifier *mailgun.MailgunImpl
	timeout  time.Duration
}

func NewMailgun(cfg config.MailgunConfig) (*Mailgun, error) {
	if strings.TrimSpace(cfg.Domain) == "" || strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("mailgun domain/api key not configured")
	}
	mg := mailgun.NewMailgun(cfg.Domain, cfg.APIKey)
	if cfg.APIBase != "" {
		mg.SetAPIBase(cfg.APIBase)
	}
	m := &Mailgun{mg: mg, timeout: 30 * time.Second}
	if key := strings.TrimSpace(cfg.SigningKey); key != "" {
		m.verifier = mailgun.NewMailgun(cfg.Domain, key)
	}
	return m, nil
}

// Send delivers msg and returns the provider message id, normalized for correlation.
func (m *Mailgun) Send(ctx context.Context, msg Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	out := m.mg.NewMessage(msg.From, msg.Subject, msg.Text, msg.To)
	_, id, err := m.mg.Send(ctx, out)
	metrics.RecordEmailSent(err)
	if err != nil {
		return "", fmt.Errorf("mailgun send to %s: %w", msg.To, err)
	}

	id = NormalizeMessageID(id)
	if id == "" {
		return "", fmt.Errorf("mailgun send to %s: empty message id", msg.To)
	}
	return id, nil
}

// SignatureConfigured reports whether inbound webhooks should be verified.
func (m *Mailgun) SignatureConfigured() bool {
	return m.verifier != nil
}

// VerifySignature checks the timestamp/token/signature triple Mailgun attaches to webhooks.
func (m *Mailgun) VerifySignature(timestamp, token, signature string) (bool, error) {
	if !m.SignatureConfigured() {
		return false, ErrSignatureKeyMissing
	}
	return m.verifier.VerifyWebhookSignature(mailgun.Signature{
		TimeStamp: timestamp,
		Token:     token,
		Signature: signature,
	})
}

// NormalizeMessageID strips whitespace and the angle brackets RFC 5322 puts
// around message ids, so "<abc@mg>" and "abc@mg" compare equal.
func NormalizeMessageID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "<")
	id = strings.TrimSuffix(id, ">")
	return strings.TrimSpace(id)
}
