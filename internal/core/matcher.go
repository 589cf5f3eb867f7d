// Package core runs the candidate matching pipeline: structural scoring on
// a per-request knowledge graph, semantic retrieval, reason generation and
// the final blended ranking.
package core

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agenthands/matchmaker/internal/config"
	"github.com/agenthands/matchmaker/internal/core/graph"
	"github.com/agenthands/matchmaker/internal/core/model"
	"github.com/agenthands/matchmaker/internal/core/reason"
	"github.com/agenthands/matchmaker/internal/retrieval"
)

type Matcher struct {
	Retriever     retrieval.Retriever
	Reasoner      *reason.Reasoner
	KGWeight      float64
	SimWeight     float64
	MinScore      float64
	MaxConcurrent int
	Log           *zap.Logger
}

func NewMatcher(retriever retrieval.Retriever, reasoner *reason.Reasoner, cfg config.MatchingConfig, log *zap.Logger) *Matcher {
	return &Matcher{
		Retriever:     retriever,
		Reasoner:      reasoner,
		KGWeight:      cfg.KGWeight,
		SimWeight:     cfg.SimWeight,
		MinScore:      cfg.MinScore,
		MaxConcurrent: cfg.MaxConcurrent,
		Log:           log,
	}
}

// Match scores every candidate in the request and returns them ranked by
// blended score, highest first. Candidates below the minimum score are
// dropped. Retrieval failures degrade to structural scoring only; reason
// generation never fails.
func (m *Matcher) Match(ctx context.Context, req model.MatchRequest) ([]model.MatchResult, error) {
	candidates := req.NetworkProfiles
	if len(candidates) == 0 {
		return []model.MatchResult{}, nil
	}

	m.Log.Info("stage 1: knowledge graph scoring", zap.Int("candidates", len(candidates)))
	g := graph.Build(req.UserProfile, req.UserObjective, candidates)
	m.Log.Debug("knowledge graph built",
		zap.Int("nodes", g.NodeCount()),
		zap.Int("edges", g.EdgeCount()))

	m.Log.Info("stage 2: semantic retrieval")
	retrieved, err := m.Retriever.Scores(ctx, req.UserProfile, req.UserObjective, candidates)
	if err != nil {
		m.Log.Warn("retrieval failed, continuing with structural scores only", zap.Error(err))
		retrieved = nil
	}

	m.Log.Info("stage 3: generating reasons")
	userID := graph.UserID(req.UserObjective.PersonID)
	results := make([]model.MatchResult, len(candidates))

	eg, egCtx := errgroup.WithContext(ctx)
	if m.MaxConcurrent > 0 {
		eg.SetLimit(m.MaxConcurrent)
	}
	for i, c := range candidates {
		eg.Go(func() error {
			kgScore, signals := graph.Score(g, userID, graph.CandidateID(c.ProfileID))

			simScore := 0.0
			var rank *int
			if r, ok := retrieved[c.ProfileID]; ok {
				simScore = r.Similarity
				if r.Rank > 0 {
					n := r.Rank
					rank = &n
				}
			}

			final := round2(m.KGWeight*kgScore + m.SimWeight*simScore)
			reasonText := m.Reasoner.Generate(egCtx, reason.Input{
				Profile:   req.UserProfile,
				Objective: req.UserObjective,
				Candidate: c,
				Signals:   signals,
				KGScore:   kgScore,
				SimScore:  simScore,
			})

			results[i] = model.MatchResult{
				ProfileID:     c.ProfileID,
				Name:          c.Name,
				Score:         final,
				Reason:        reasonText,
				KGSignals:     signals,
				RetrievalRank: rank,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	ranked := make([]model.MatchResult, 0, len(results))
	for _, r := range results {
		if r.Score >= m.MinScore {
			ranked = append(ranked, r)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	m.Log.Info("matching complete", zap.Int("scored", len(ranked)))
	return ranked, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
