// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package agent provides the LLM runtime shared by the pipeline stages:
// provider backends, retry, lenient JSON extraction from model output,
// and per-run execution tracking.
package agent

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/startup-scout/pkg/types"
)

// Backend completes a single prompt against an LLM provider. Each
// provider (Claude, Gemini) implements this interface per the Strategy
// pattern so stages and tests can swap providers freely.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// NewBackend builds the configured provider backend. The config must have
// passed Validate; NewBackend still rejects a missing key so no network
// call can ever be attempted without one.
func NewBackend(ctx context.Context, cfg types.AgentConfig, client *http.Client) (Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case types.ProviderClaude:
		return &ClaudeBackend{APIKey: cfg.APIKey, Model: cfg.Model, Client: client}, nil
	case types.ProviderGemini:
		return NewGeminiBackend(ctx, cfg)
	}
	return nil, fmt.Errorf("unknown agent provider %q", cfg.Provider)
}
