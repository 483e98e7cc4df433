package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"procurement-backend/utils"
)

// ProcurementRequest is the structured extraction of a free-text purchase request.
type ProcurementRequest struct {
	OriginalText   string  `json:"originalText" validate:"required"`
	Budget         *Budget `json:"budget"`
	DeliveryDays   *int    `json:"deliveryDays" validate:"omitempty,gte=0"`
	Items          []Item  `json:"items" validate:"required,dive"`
	PaymentTerms   *string `json:"paymentTerms"`
	WarrantyMonths *int    `json:"warrantyMonths" validate:"omitempty,gte=0"`
}

type Budget struct {
	Amount   float64 `json:"amount" validate:"gte=0"`
	Currency string  `json:"currency" validate:"required"`
}

type Item struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Specs    Specs  `json:"specs,omitempty"`
}

// Specs holds optional technical details. Values are strings, numbers or booleans.
type Specs map[string]any

// UnmarshalJSON accepts either a plain object or a list of {"key","value"} pairs,
// which is how the model is asked to emit free-form details.
func (s *Specs) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}

	if trimmed[0] == '[' {
		var pairs []struct {
			Key   string `json:"key"`
			Value any    `json:"value"`
		}
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return err
		}
		out := make(Specs, len(pairs))
		for _, p := range pairs {
			key := strings.TrimSpace(p.Key)
			if key == "" {
				continue
			}
			out[key] = p.Value
		}
		*s = out
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return err
	}
	*s = m
	return nil
}

// Normalize trims text fields and rounds the budget amount to cents.
func (p *ProcurementRequest) Normalize() {
	p.OriginalText = strings.TrimSpace(p.OriginalText)
	if p.Budget != nil {
		utils.NormalizeDTO(p.Budget)
		p.Budget.Currency = strings.ToUpper(p.Budget.Currency)
	}
	if p.PaymentTerms != nil {
		terms := strings.TrimSpace(*p.PaymentTerms)
		if terms == "" {
			p.PaymentTerms = nil
		} else {
			p.PaymentTerms = &terms
		}
	}
	for i := range p.Items {
		p.Items[i].Name = strings.TrimSpace(p.Items[i].Name)
		p.Items[i].Category = strings.TrimSpace(p.Items[i].Category)
	}
}

// Validate checks struct tags and the allowed spec value types.
func (p *ProcurementRequest) Validate() error {
	if err := utils.Validate.Struct(p); err != nil {
		return err
	}
	for i, item := range p.Items {
		for k, v := range item.Specs {
			switch v.(type) {
			case string, float64, bool:
			default:
				return fmt.Errorf("items[%d].specs[%q]: unsupported value type %T", i, k, v)
			}
		}
	}
	return nil
}
