package llm

import "google.golang.org/genai"

func nullable(s *genai.Schema) *genai.Schema {
	s.Nullable = genai.Ptr(true)
	return s
}

// ProcurementSchema constrains the structured RFP extraction. Item specs are a
// list of key/value pairs because the API cannot express free-form maps.
func ProcurementSchema() *genai.Schema {
	item := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"name": {
				Type:        genai.TypeString,
				Description: "Short descriptive name, e.g. 'Managed switch (48-port)'.",
			},
			"category": {
				Type:        genai.TypeString,
				Description: "High-level category, e.g. 'network_switch', 'wireless_access_point', 'cabling', 'laptop', 'monitor'.",
			},
			"quantity": {
				Type:        genai.TypeInteger,
				Description: "Quantity of the item. Use numeric amount; use specs for units such as meters.",
			},
			"specs": {
				Type:        genai.TypeArray,
				Description: "Optional technical details like ports, Wi-Fi version, cable length unit.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"key":   {Type: genai.TypeString},
						"value": {Type: genai.TypeString},
					},
					Required: []string{"key", "value"},
				},
			},
		},
		Required: []string{"name", "category", "quantity"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"originalText": {
				Type:        genai.TypeString,
				Description: "Exactly the original user text.",
			},
			"budget": nullable(&genai.Schema{
				Type:        genai.TypeObject,
				Description: "Total budget if specified, otherwise null.",
				Properties: map[string]*genai.Schema{
					"amount":   {Type: genai.TypeNumber, Description: "Budget amount as a number."},
					"currency": {Type: genai.TypeString, Description: "Currency code like USD, EUR, INR."},
				},
				Required: []string{"amount", "currency"},
			}),
			"deliveryDays": nullable(&genai.Schema{
				Type:        genai.TypeInteger,
				Description: "Required delivery/installation timeline in days, or null.",
			}),
			"items": {
				Type:        genai.TypeArray,
				Description: "List of distinct items requested in the text.",
				Items:       item,
			},
			"paymentTerms": nullable(&genai.Schema{
				Type:        genai.TypeString,
				Description: "Payment terms as text, e.g. 'net-30', or null.",
			}),
			"warrantyMonths": nullable(&genai.Schema{
				Type:        genai.TypeInteger,
				Description: "Warranty duration in months, or null.",
			}),
		},
		Required: []string{"originalText", "items"},
	}
}

// EmailSchema constrains the RFQ email rendering to {subject, body}.
func EmailSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"subject": {Type: genai.TypeString},
			"body":    {Type: genai.TypeString},
		},
		Required: []string{"subject", "body"},
	}
}
