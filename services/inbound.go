package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"procurement-backend/inbound"
	"procurement-backend/llm"
	"procurement-backend/logging"
	"procurement-backend/models"
)

// ProcessInboundReply correlates a vendor email to the SentRfp it answers,
// summarizes its commercial terms and stores the result. Unmatched emails are
// rejected with ErrNoMatchingSentRfp before the model is called, and nothing is stored.
func (s *Service) ProcessInboundReply(ctx context.Context, email inbound.Email) (*models.Reply, error) {
	identifier := email.Identifier()
	log := logging.Log.WithFields(logrus.Fields{
		"trace_id":   uuid.NewString(),
		"from":       email.From,
		"message_id": identifier,
	})
	log.Info("processing inbound email")

	if identifier == "" {
		return nil, fmt.Errorf("%w: email has neither In-Reply-To nor Message-Id", ErrNoMatchingSentRfp)
	}

	sent, err := s.store.FindSentRfpByMessageID(ctx, identifier)
	if err != nil {
		return nil, err
	}

	summary, err := s.llm.Generate(ctx, llm.Request{
		Purpose: "summary",
		Prompt:  buildSummaryPrompt(email.From, email.Subject, email.Text()),
	})
	if err != nil {
		return nil, fmt.Errorf("summarize reply: %w", err)
	}

	reply := models.Reply{
		SentRfpID: sent.ID,
		EmailID:   identifier,
		From:      email.From,
		Subject:   email.Subject,
		EmailBody: email.RawBody(),
		Parsed:    strings.TrimSpace(summary),
	}
	if err := s.store.CreateReply(ctx, &reply); err != nil {
		return nil, fmt.Errorf("save reply: %w", err)
	}

	log.WithFields(logrus.Fields{
		"reply_id":    reply.ID,
		"sent_rfp_id": sent.ID,
		"rfp_id":      sent.RfpID,
	}).Info("vendor reply stored")
	return &reply, nil
}
