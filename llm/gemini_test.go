package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/genai"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "plain", content: ` {"subject":"s","body":"b"} `, want: `{"subject":"s","body":"b"}`},
		{name: "json fence", content: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "bare fence", content: "Here you go:\n```\n[1,2]\n```\nthanks", want: `[1,2]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractJSON(tt.content))
		})
	}
}

func TestProcurementSchema(t *testing.T) {
	s := ProcurementSchema()

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.ElementsMatch(t, []string{"originalText", "items"}, s.Required)

	for _, field := range []string{"budget", "deliveryDays", "paymentTerms", "warrantyMonths"} {
		prop, ok := s.Properties[field]
		if assert.True(t, ok, field) {
			assert.NotNil(t, prop.Nullable, field)
			assert.True(t, *prop.Nullable, field)
		}
	}

	items := s.Properties["items"]
	assert.Equal(t, genai.TypeArray, items.Type)
	assert.ElementsMatch(t, []string{"name", "category", "quantity"}, items.Items.Required)
}

func TestEmailSchema(t *testing.T) {
	s := EmailSchema()
	assert.ElementsMatch(t, []string{"subject", "body"}, s.Required)
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), " ", "gemini-2.5-flash")
	assert.Error(t, err)
}
