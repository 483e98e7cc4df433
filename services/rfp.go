package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"procurement-backend/llm"
	"procurement-backend/logging"
	"procurement-backend/models"
)

// CreatedRfp is the result of turning free text into a stored RFP.
type CreatedRfp struct {
	RfpID uint                      `json:"rfpId"`
	Data  models.ProcurementRequest `json:"data"`
}

// CreateRfp asks the model to structure userText, validates the answer and persists it.
func (s *Service) CreateRfp(ctx context.Context, userText string) (*CreatedRfp, error) {
	if strings.TrimSpace(userText) == "" {
		return nil, ErrUserTextRequired
	}

	raw, err := s.llm.Generate(ctx, llm.Request{
		Purpose: "structure",
		Prompt:  buildStructurePrompt(userText),
		JSON:    true,
		Schema:  llm.ProcurementSchema(),
	})
	if err != nil {
		return nil, fmt.Errorf("structure rfp: %w", err)
	}

	var structured models.ProcurementRequest
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &structured); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStructuredRfp, err)
	}
	if strings.TrimSpace(structured.OriginalText) == "" {
		structured.OriginalText = userText
	}
	structured.Normalize()
	if err := structured.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStructuredRfp, err)
	}

	rfp := models.Rfp{
		OriginalText: userText,
		Structured:   datatypes.NewJSONType(structured),
	}
	if err := s.store.CreateRfp(ctx, &rfp); err != nil {
		return nil, fmt.Errorf("save rfp: %w", err)
	}

	logging.Log.WithFields(logrus.Fields{
		"rfp_id": rfp.ID,
		"items":  len(structured.Items),
	}).Info("rfp created")

	return &CreatedRfp{RfpID: rfp.ID, Data: structured}, nil
}

// GetRfp returns an RFP with everything sent and received for it.
func (s *Service) GetRfp(ctx context.Context, id uint) (*models.Rfp, error) {
	return s.store.FindRfpWithReplies(ctx, id)
}

func (s *Service) ListRfps(ctx context.Context, limit, offset int) ([]models.Rfp, error) {
	return s.store.ListRfps(ctx, limit, offset)
}
