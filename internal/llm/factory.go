package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/matchmaker/internal/config"
)

// NewChain builds the ordered list of generation backends the reasoner
// tries. Mode "auto" (or empty) keeps every configured backend in order,
// "none" disables generation entirely, and any other value pins the chain
// to the named backend.
func NewChain(ctx context.Context, cfg config.LLMConfig) ([]Backend, error) {
	mode := strings.ToLower(cfg.Backend)
	if mode == "" {
		mode = "auto"
	}
	if mode == "none" {
		return nil, nil
	}

	if mode == "auto" {
		backends := make([]Backend, 0, len(cfg.Backends))
		for _, bc := range cfg.Backends {
			client, err := newBackendClient(ctx, bc)
			if err != nil {
				return nil, err
			}
			backends = append(backends, Backend{Name: bc.Name, Client: client})
		}
		return backends, nil
	}

	for _, bc := range cfg.Backends {
		if !strings.EqualFold(bc.Name, mode) {
			continue
		}
		client, err := newBackendClient(ctx, bc)
		if err != nil {
			return nil, err
		}
		return []Backend{{Name: bc.Name, Client: client}}, nil
	}
	return nil, fmt.Errorf("unknown llm backend: %s", mode)
}

func newBackendClient(ctx context.Context, bc config.BackendConfig) (LLMClient, error) {
	switch strings.ToLower(bc.Provider) {
	case "ollama":
		return NewOllamaClient(bc.BaseURL, bc.Model), nil

	case "huggingface":
		return NewHuggingFaceClient(bc.APIKey, bc.Model, bc.BaseURL), nil

	case "openai":
		return NewOpenAIClient(bc.APIKey, bc.Model, "", bc.BaseURL), nil

	case "gemini":
		return NewGeminiClient(ctx, bc.APIKey, bc.Model, "")

	case "claude":
		return NewClaudeClient(bc.APIKey, bc.Model, bc.BaseURL), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", bc.Provider)
	}
}

// NewEmbedder builds the embedding client semantic retrieval runs on.
func NewEmbedder(ctx context.Context, cfg config.RetrievalConfig) (EmbedderClient, error) {
	switch strings.ToLower(cfg.Provider) {
	case "ollama":
		return NewOllamaClient(cfg.BaseURL, cfg.Model), nil

	case "openai":
		return NewOpenAIClient(cfg.APIKey, "", cfg.Model, cfg.BaseURL), nil

	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, "", cfg.Model)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
