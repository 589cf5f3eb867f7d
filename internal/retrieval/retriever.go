// Package retrieval scores candidates by semantic similarity between an
// embedded query document (built from the user's objective) and embedded
// candidate documents.
package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/agenthands/matchmaker/internal/core/model"
	"github.com/agenthands/matchmaker/internal/llm"
)

const defaultTopK = 5

// Result is one candidate's retrieval outcome: a 0-100 similarity score and
// its 1-based rank among the top-k.
type Result struct {
	Similarity float64
	Rank       int
}

type Retriever interface {
	// Scores returns retrieval results keyed by profile ID. Only the top-k
	// candidates get an entry.
	Scores(ctx context.Context, profile model.UserProfile, objective model.UserObjective, candidates []model.NetworkProfile) (map[string]Result, error)
}

type VectorRetriever struct {
	Embedder llm.EmbedderClient
	TopK     int
	Log      *zap.Logger

	ready atomic.Bool
}

func NewVectorRetriever(embedder llm.EmbedderClient, topK int, log *zap.Logger) *VectorRetriever {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &VectorRetriever{
		Embedder: embedder,
		TopK:     topK,
		Log:      log,
	}
}

// Warmup primes the embedding backend so the first request does not pay the
// model load cost. The service is marked ready even if the warm-up call
// fails; retrieval degrades per request instead of blocking startup.
func (r *VectorRetriever) Warmup(ctx context.Context) {
	if _, err := r.Embedder.Embed(ctx, "warm-up"); err != nil {
		r.Log.Warn("embedding warm-up failed", zap.Error(err))
	} else {
		r.Log.Info("embedding backend ready")
	}
	r.ready.Store(true)
}

func (r *VectorRetriever) Ready() bool {
	return r.ready.Load()
}

func (r *VectorRetriever) Scores(ctx context.Context, profile model.UserProfile, objective model.UserObjective, candidates []model.NetworkProfile) (map[string]Result, error) {
	if len(candidates) == 0 {
		return map[string]Result{}, nil
	}

	queryVec, err := r.Embedder.Embed(ctx, buildQueryDocument(profile, objective))
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	type scored struct {
		profileID  string
		similarity float64
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		vec, err := r.Embedder.Embed(ctx, buildCandidateDocument(c))
		if err != nil {
			return nil, fmt.Errorf("embedding candidate %s: %w", c.ProfileID, err)
		}
		ranked = append(ranked, scored{
			profileID:  c.ProfileID,
			similarity: cosineSimilarity(queryVec, vec),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].similarity > ranked[j].similarity
	})

	k := r.TopK
	if k > len(ranked) {
		k = len(ranked)
	}
	out := make(map[string]Result, k)
	for i := 0; i < k; i++ {
		sim := round4(ranked[i].similarity * 100)
		if sim < 0 {
			sim = 0
		} else if sim > 100 {
			sim = 100
		}
		out[ranked[i].profileID] = Result{Similarity: sim, Rank: i + 1}
	}
	return out, nil
}

func buildCandidateDocument(c model.NetworkProfile) string {
	parts := []string{
		"Name: " + c.Name,
		"Title: " + c.Title,
	}
	if c.Company != "" {
		parts = append(parts, "Company: "+c.Company)
	}
	if c.Industry != "" {
		parts = append(parts, "Industry: "+c.Industry)
	}
	if len(c.Skills) > 0 {
		parts = append(parts, "Skills: "+strings.Join(c.Skills, ", "))
	}
	if c.Summary != "" {
		parts = append(parts, "Summary: "+c.Summary)
	}
	return strings.Join(parts, ". ")
}

func buildQueryDocument(profile model.UserProfile, objective model.UserObjective) string {
	parts := []string{
		"Goal: " + objective.PrimaryGoal,
	}
	for _, tp := range objective.TargetProfiles {
		parts = append(parts, fmt.Sprintf("Seeking: %s — %s", strings.Join(tp.Titles, ", "), tp.Why))
	}
	if len(objective.SuccessSignals) > 0 {
		parts = append(parts, "Success signals: "+strings.Join(objective.SuccessSignals, ", "))
	}
	if len(profile.TopSkills) > 0 {
		skills := make([]string, 0, len(profile.TopSkills))
		for _, sk := range profile.TopSkills {
			skills = append(skills, sk.Skill)
		}
		parts = append(parts, "User skills: "+strings.Join(skills, ", "))
	}
	if len(profile.SolutionsOffered) > 0 {
		parts = append(parts, "Solutions offered: "+strings.Join(profile.SolutionsOffered, ", "))
	}
	return strings.Join(parts, ". ")
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
