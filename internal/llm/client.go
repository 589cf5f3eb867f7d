package llm

import (
	"context"
)

// GenerateParams carries per-call sampling settings. Zero values leave the
// provider's own defaults in place.
type GenerateParams struct {
	Temperature float32
	MaxTokens   int
}

type LLMClient interface {
	Generate(ctx context.Context, prompt string, params GenerateParams) (string, error)
}

type EmbedderClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Backend pairs a configured client with the name it is addressed by, so
// callers can log failures and pin a specific backend.
type Backend struct {
	Name   string
	Client LLMClient
}
