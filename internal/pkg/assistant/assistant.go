// Package assistant wraps the Gemini API behind a one-method interface so
// services can be tested with a canned implementation.
package assistant

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/openclep/clepfinder/internal/pkg/apperrors"
)

// Assistant generates a text completion for a prompt.
type Assistant interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiAssistant is the production Assistant backed by the Gemini API.
type GeminiAssistant struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini-backed assistant. The model name comes from
// configuration; temperature is kept low since both callers want
// deterministic, data-grounded output.
func NewGemini(ctx context.Context, apiKey, modelName string) (*GeminiAssistant, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("assistant API key is not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("error initializing Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	temp := float32(0.2)
	model.Temperature = &temp

	return &GeminiAssistant{client: client, model: model}, nil
}

// Unavailable stands in when no API key is configured. Every call fails
// with ErrAssistantUnavailable so handlers answer 503 instead of panicking.
type Unavailable struct{}

// Generate always reports the assistant as unavailable.
func (Unavailable) Generate(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: no API key configured", apperrors.ErrAssistantUnavailable)
}

// Generate sends the prompt and returns the first text candidate.
func (a *GeminiAssistant) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := a.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrAssistantUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no response candidates", apperrors.ErrAssistantUnavailable)
	}
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text), nil
		}
	}
	return "", fmt.Errorf("%w: no text in response", apperrors.ErrAssistantUnavailable)
}

// Close releases the underlying client.
func (a *GeminiAssistant) Close() error {
	return a.client.Close()
}
