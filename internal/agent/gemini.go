// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/pdiddy/startup-scout/pkg/types"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiBackend calls the Gemini API through the official genai SDK.
type GeminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiBackend creates a Gemini backend from the agent config.
func NewGeminiBackend(ctx context.Context, cfg types.AgentConfig) (*GeminiBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}

	return &GeminiBackend{client: client, model: model}, nil
}

// Complete sends the prompt and returns the response text.
func (g *GeminiBackend) Complete(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}

	text := result.Text()
	if text == "" {
		return "", fmt.Errorf("Gemini API returned empty content")
	}
	return text, nil
}
