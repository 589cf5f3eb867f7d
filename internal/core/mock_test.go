package core

import (
	"context"
	"sync"

	"github.com/agenthands/matchmaker/internal/core/model"
	"github.com/agenthands/matchmaker/internal/llm"
	"github.com/agenthands/matchmaker/internal/retrieval"
)

type MockRetriever struct {
	Scored map[string]retrieval.Result
	Err    error
	Calls  int
}

func (m *MockRetriever) Scores(ctx context.Context, profile model.UserProfile, objective model.UserObjective, candidates []model.NetworkProfile) (map[string]retrieval.Result, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Scored, nil
}

// MockLLM is safe for the concurrent reason fan-out.
type MockLLM struct {
	Response string
	Err      error

	mu      sync.Mutex
	calls   int
	prompts []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string, params llm.GenerateParams) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockLLM) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
