// Package gemini provides a text-generation adapter using the Google
// Gemini Developer API via the google.golang.org/genai SDK.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/contextiq-labs/contextiq/internal/core/domain"
	"github.com/contextiq-labs/contextiq/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.Generator = (*Generator)(nil)

// DefaultModel matches the current Gemini Developer API naming. Accounts
// exposing a different model can override it in the config file.
const DefaultModel = "gemini-2.5-flash"

// Config holds configuration for the Gemini generator.
type Config struct {
	// APIKey is the Gemini API key (required).
	APIKey string

	// Model is the generation model to use (default: gemini-2.5-flash).
	Model string
}

// Generator produces answers using the Gemini API.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Gemini generator.
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &Generator{
		client: client,
		model:  cfg.Model,
	}, nil
}

// Generate produces a completion for prompt under an optional system prompt.
func (g *Generator) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0)),
	}
	if systemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt}},
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		// The SDK does not distinguish transport from backend failures
		// for us; treat any error as the provider being unavailable so
		// callers can retry or surface "service unavailable".
		return "", fmt.Errorf("gemini: generate: %v: %w", err, domain.ErrProviderUnavailable)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: empty response: %w", domain.ErrGenerationFailed)
	}

	return strings.TrimSpace(text), nil
}

// ModelName returns the name of the generation model being used.
func (g *Generator) ModelName() string {
	return g.model
}

// Ping validates the API key with a minimal one-token generation.
func (g *Generator) Ping(ctx context.Context) error {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: 1,
	}
	if _, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text("ping"), config); err != nil {
		return fmt.Errorf("gemini: ping failed: %v: %w", err, domain.ErrProviderUnavailable)
	}
	return nil
}

// Close releases resources.
func (g *Generator) Close() error {
	// The genai client holds no connections that need explicit cleanup.
	return nil
}
