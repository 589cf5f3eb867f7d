package reason

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/agenthands/matchmaker/internal/core/model"
	"github.com/agenthands/matchmaker/internal/llm"
)

type stubLLM struct {
	response string
	err      error
	delay    time.Duration
	calls    int
	prompts  []string
}

func (s *stubLLM) Generate(ctx context.Context, prompt string, params llm.GenerateParams) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func testInput() Input {
	return Input{
		Profile: model.UserProfile{
			CurrentRole: model.Role{Title: "CTO", Company: "Acme"},
			TopSkills:   []model.SkillEntry{{Skill: "Python"}, {Skill: "SQL"}},
		},
		Objective: model.UserObjective{
			PersonID:    "u-1",
			PrimaryGoal: "Hire a senior data scientist",
			TargetProfiles: []model.TargetProfile{
				{Type: "hire", Titles: []string{"Data Scientist", "ML Engineer"}, Why: "team buildout"},
			},
			SuccessSignals: []string{"python"},
		},
		Candidate: model.NetworkProfile{
			ProfileID: "p-1",
			Name:      "Dana",
			Title:     "Data Scientist",
			Skills:    []string{"Python", "Statistics"},
		},
		Signals:  []string{"Shared skill: Python", "Title match: Data Scientist"},
		KGScore:  80,
		SimScore: 60.5,
	}
}

func TestGenerateFirstBackendWins(t *testing.T) {
	first := &stubLLM{response: " A perfect fit. \n"}
	second := &stubLLM{response: "should not be used"}
	r := NewReasoner([]llm.Backend{
		{Name: "ollama", Client: first},
		{Name: "huggingface", Client: second},
	}, 0, llm.GenerateParams{}, zap.NewNop())

	got := r.Generate(context.Background(), testInput())

	assert.Equal(t, "A perfect fit.", got)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls)
}

func TestGenerateAdvancesOnError(t *testing.T) {
	first := &stubLLM{err: errors.New("connection refused")}
	second := &stubLLM{response: "Backup answer."}
	r := NewReasoner([]llm.Backend{
		{Name: "ollama", Client: first},
		{Name: "huggingface", Client: second},
	}, 0, llm.GenerateParams{}, zap.NewNop())

	got := r.Generate(context.Background(), testInput())

	assert.Equal(t, "Backup answer.", got)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestGenerateAdvancesOnEmptyCompletion(t *testing.T) {
	first := &stubLLM{response: "  \n\t "}
	second := &stubLLM{response: "Backup answer."}
	r := NewReasoner([]llm.Backend{
		{Name: "ollama", Client: first},
		{Name: "huggingface", Client: second},
	}, 0, llm.GenerateParams{}, zap.NewNop())

	got := r.Generate(context.Background(), testInput())

	assert.Equal(t, "Backup answer.", got)
}

func TestGenerateTimeoutAdvances(t *testing.T) {
	slow := &stubLLM{response: "too late", delay: 500 * time.Millisecond}
	fast := &stubLLM{response: "Quick answer."}
	r := NewReasoner([]llm.Backend{
		{Name: "ollama", Client: slow},
		{Name: "huggingface", Client: fast},
	}, 20*time.Millisecond, llm.GenerateParams{}, zap.NewNop())

	got := r.Generate(context.Background(), testInput())

	assert.Equal(t, "Quick answer.", got)
}

func TestGenerateFallbackWithSignals(t *testing.T) {
	r := NewReasoner([]llm.Backend{
		{Name: "ollama", Client: &stubLLM{err: errors.New("down")}},
	}, 0, llm.GenerateParams{}, zap.NewNop())

	got := r.Generate(context.Background(), testInput())

	assert.Equal(t, "Strong match based on shared skill: python with a combined alignment score of 70/100.", got)
}

func TestGenerateFallbackWithoutSignals(t *testing.T) {
	in := testInput()
	in.Signals = nil
	r := NewReasoner(nil, 0, llm.GenerateParams{}, zap.NewNop())

	got := r.Generate(context.Background(), in)

	assert.Equal(t, "Candidate aligns semantically with the target profile.", got)
}

func TestGenerateEmptyChainUsesFallback(t *testing.T) {
	r := NewReasoner(nil, 0, llm.GenerateParams{}, zap.NewNop())

	got := r.Generate(context.Background(), testInput())

	assert.Equal(t, "Strong match based on shared skill: python with a combined alignment score of 70/100.", got)
}

func TestBuildPromptSections(t *testing.T) {
	stub := &stubLLM{response: "ok"}
	r := NewReasoner([]llm.Backend{{Name: "ollama", Client: stub}}, 0, llm.GenerateParams{}, zap.NewNop())

	r.Generate(context.Background(), testInput())

	assert.Len(t, stub.prompts, 1)
	prompt := stub.prompts[0]
	assert.Contains(t, prompt, "Goal: Hire a senior data scientist")
	assert.Contains(t, prompt, "Seeking: Data Scientist, ML Engineer")
	assert.Contains(t, prompt, "User skills: Python, SQL")
	assert.Contains(t, prompt, "Success signals: python")
	assert.Contains(t, prompt, "Title: Data Scientist")
	assert.Contains(t, prompt, "Company: N/A")
	assert.Contains(t, prompt, "Industry: N/A")
	assert.Contains(t, prompt, "MATCH SIGNALS (from knowledge graph): Shared skill: Python; Title match: Data Scientist")
	assert.Contains(t, prompt, "KG Score: 80.0/100   Semantic Score: 60.5/100")
	assert.Contains(t, prompt, "Respond with ONLY the reason sentence, nothing else.")
}

func TestBuildPromptNoSignals(t *testing.T) {
	stub := &stubLLM{response: "ok"}
	r := NewReasoner([]llm.Backend{{Name: "ollama", Client: stub}}, 0, llm.GenerateParams{}, zap.NewNop())

	in := testInput()
	in.Signals = nil
	r.Generate(context.Background(), in)

	assert.Contains(t, stub.prompts[0], "MATCH SIGNALS (from knowledge graph): none")
}
