// Package reason produces the one-sentence explanation attached to each
// scored candidate. It walks an ordered chain of LLM backends and falls back
// to a deterministic summary when none of them answers, so reason generation
// never fails the matching pipeline.
package reason

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/matchmaker/internal/core/common"
	"github.com/agenthands/matchmaker/internal/core/model"
	"github.com/agenthands/matchmaker/internal/llm"
)

type Reasoner struct {
	Chain   []llm.Backend
	Timeout time.Duration
	Params  llm.GenerateParams
	Log     *zap.Logger
}

func NewReasoner(chain []llm.Backend, timeout time.Duration, params llm.GenerateParams, log *zap.Logger) *Reasoner {
	return &Reasoner{
		Chain:   chain,
		Timeout: timeout,
		Params:  params,
		Log:     log,
	}
}

// Input carries everything the prompt needs about one candidate.
type Input struct {
	Profile   model.UserProfile
	Objective model.UserObjective
	Candidate model.NetworkProfile
	Signals   []string
	KGScore   float64
	SimScore  float64
}

// Generate returns a match reason for the candidate. Backends are tried in
// chain order; a failure or empty completion moves on to the next one, and
// the deterministic fallback covers an exhausted (or empty) chain.
func (r *Reasoner) Generate(ctx context.Context, in Input) string {
	prompt := buildPrompt(in)

	for _, b := range r.Chain {
		text, err := r.attempt(ctx, b, prompt)
		if err != nil {
			r.Log.Warn("reason backend failed",
				zap.String("backend", b.Name),
				zap.Error(err))
			continue
		}
		return text
	}

	return fallbackReason(in.Signals, in.KGScore, in.SimScore)
}

func (r *Reasoner) attempt(ctx context.Context, b llm.Backend, prompt string) (string, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	raw, err := b.Client.Generate(ctx, prompt, r.Params)
	if err != nil {
		return "", err
	}
	text := common.CleanSentence(raw)
	if text == "" {
		return "", errors.New("empty completion")
	}
	return text, nil
}

func buildPrompt(in Input) string {
	skills := make([]string, 0, len(in.Profile.TopSkills))
	for _, sk := range in.Profile.TopSkills {
		skills = append(skills, sk.Skill)
	}
	var titles []string
	for _, tp := range in.Objective.TargetProfiles {
		titles = append(titles, tp.Titles...)
	}
	signalsText := "none"
	if len(in.Signals) > 0 {
		signalsText = strings.Join(in.Signals, "; ")
	}

	return fmt.Sprintf(`You are an AI recruitment assistant. Given the context below, write a single concise sentence
(max 25 words) explaining why this candidate is a good match for the user's objective.
Be specific. Do not repeat the candidate's name in the reason.

USER CONTEXT
  Goal: %s
  Seeking: %s
  User skills: %s
  Success signals: %s

CANDIDATE
  Title: %s
  Company: %s
  Industry: %s
  Skills: %s
  Summary: %s

MATCH SIGNALS (from knowledge graph): %s
KG Score: %.1f/100   Semantic Score: %.1f/100

Respond with ONLY the reason sentence, nothing else.`,
		in.Objective.PrimaryGoal,
		strings.Join(titles, ", "),
		strings.Join(skills, ", "),
		strings.Join(in.Objective.SuccessSignals, ", "),
		in.Candidate.Title,
		orNA(in.Candidate.Company),
		orNA(in.Candidate.Industry),
		strings.Join(in.Candidate.Skills, ", "),
		orNA(in.Candidate.Summary),
		signalsText,
		in.KGScore,
		in.SimScore,
	)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func fallbackReason(signals []string, kgScore, simScore float64) string {
	if len(signals) > 0 {
		return fmt.Sprintf("Strong match based on %s with a combined alignment score of %.0f/100.",
			strings.ToLower(signals[0]), (kgScore+simScore)/2)
	}
	return "Candidate aligns semantically with the target profile."
}
