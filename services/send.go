package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"procurement-backend/llm"
	"procurement-backend/logging"
	"procurement-backend/mailer"
	"procurement-backend/models"
	"procurement-backend/utils"
)

// EmailDraft is the model-rendered RFQ email.
type EmailDraft struct {
	Subject string `json:"subject" validate:"required"`
	Body    string `json:"body" validate:"required"`
}

// SendResult is the outcome for one vendor.
type SendResult struct {
	VendorEmail       string `json:"vendorEmail"`
	ProviderMessageID string `json:"providerMessageId,omitempty"`
	Success           bool   `json:"success"`
	Error             string `json:"error,omitempty"`
}

// SendRfp renders the RFP as an email once and sends it to every vendor in
// order. Each vendor is independent: a failure is reported in its result and
// never undoes earlier sends.
func (s *Service) SendRfp(ctx context.Context, rfpID uint, vendorEmails []string) ([]SendResult, error) {
	recipients := cleanRecipients(vendorEmails)
	if len(recipients) == 0 {
		return nil, ErrNoRecipients
	}

	rfp, err := s.store.FindRfp(ctx, rfpID)
	if err != nil {
		return nil, err
	}

	draft, err := s.renderEmail(ctx, rfp)
	if err != nil {
		return nil, err
	}

	results := make([]SendResult, 0, len(recipients))
	for _, vendorEmail := range recipients {
		results = append(results, s.sendOne(ctx, rfp.ID, vendorEmail, draft))
	}
	return results, nil
}

func (s *Service) sendOne(ctx context.Context, rfpID uint, vendorEmail string, draft *EmailDraft) SendResult {
	log := logging.Log.WithFields(logrus.Fields{"rfp_id": rfpID, "vendor": vendorEmail})

	fail := func(err error) SendResult {
		log.WithError(err).Error("failed to send RFP to vendor")
		return SendResult{VendorEmail: vendorEmail, Success: false, Error: err.Error()}
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fail(err)
	}

	messageID, err := s.mail.Send(ctx, mailer.Message{
		From:    s.sender.FromEmail,
		To:      vendorEmail,
		Subject: draft.Subject,
		Text:    draft.Body,
	})
	if err != nil {
		return fail(err)
	}

	sent := models.SentRfp{
		RfpID:             rfpID,
		VendorEmail:       vendorEmail,
		ProviderMessageID: mailer.NormalizeMessageID(messageID),
	}
	if err := s.store.CreateSentRfp(ctx, &sent); err != nil {
		return fail(fmt.Errorf("record sent rfp: %w", err))
	}

	log.WithField("message_id", sent.ProviderMessageID).Info("rfp sent")
	return SendResult{VendorEmail: vendorEmail, ProviderMessageID: sent.ProviderMessageID, Success: true}
}

func (s *Service) renderEmail(ctx context.Context, rfp *models.Rfp) (*EmailDraft, error) {
	prompt, err := buildEmailPrompt(rfp.Structured.Data(), s.sender)
	if err != nil {
		return nil, fmt.Errorf("build email prompt: %w", err)
	}

	raw, err := s.llm.Generate(ctx, llm.Request{
		Purpose: "email",
		Prompt:  prompt,
		JSON:    true,
		Schema:  llm.EmailSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("render rfq email: %w", err)
	}

	var draft EmailDraft
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEmailDraft, err)
	}
	draft.Subject = strings.TrimSpace(draft.Subject)
	draft.Body = strings.TrimSpace(draft.Body)
	if err := utils.Validate.Struct(&draft); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEmailDraft, err)
	}
	return &draft, nil
}

// cleanRecipients trims addresses and drops blanks and case-insensitive
// duplicates, keeping the caller's order.
func cleanRecipients(emails []string) []string {
	seen := make(map[string]bool, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		key := strings.ToLower(e)
		if e == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
