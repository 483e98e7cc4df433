package llm

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"google.golang.org/genai"

	"procurement-backend/metrics"
)

var ErrEmptyResponse = errors.New("empty response from AI model")

// Request is a single prompt sent to the model. When JSON is set the model is
// asked for application/json output, constrained by Schema if non-nil.
type Request struct {
	Purpose string // metrics label: "structure", "email", "summary", "comparison"
	Prompt  string
	JSON    bool
	Schema  *genai.Schema
}

// Gemini wraps the Google Gen AI client for the handful of prompts this service sends.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("GEMINI_API_KEY not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Generate sends the prompt and returns the model's text output.
func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	start := time.Now()
	text, err := g.generate(ctx, req)
	metrics.ObserveLLMCall(req.Purpose, err, time.Since(start))
	return text, err
}

func (g *Gemini) generate(ctx context.Context, req Request) (string, error) {
	var cfg *genai.GenerateContentConfig
	if req.JSON {
		cfg = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   req.Schema,
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// ExtractJSON returns the JSON payload of a model answer, unwrapping a markdown
// code fence if the model added one despite the JSON mime type.
func ExtractJSON(content string) string {
	content = strings.TrimSpace(content)
	if m := fencedJSON.FindStringSubmatch(content); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return content
}
