package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agenthands/matchmaker/internal/config"
	"github.com/agenthands/matchmaker/internal/core"
	"github.com/agenthands/matchmaker/internal/core/model"
	"github.com/agenthands/matchmaker/internal/core/reason"
	"github.com/agenthands/matchmaker/internal/llm"
	"github.com/agenthands/matchmaker/internal/retrieval"
)

type Server struct {
	Matcher   *core.Matcher
	Retriever *retrieval.VectorRetriever
	Log       *zap.Logger
}

func NewServer(cfg *config.Config, log *zap.Logger) (*Server, error) {
	ctx := context.Background()

	chain, err := llm.NewChain(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("initializing llm backends: %w", err)
	}

	embedder, err := llm.NewEmbedder(ctx, cfg.Retrieval)
	if err != nil {
		return nil, fmt.Errorf("initializing embedder: %w", err)
	}

	reasoner := reason.NewReasoner(chain, cfg.LLM.Timeout(), llm.GenerateParams{
		Temperature: float32(cfg.LLM.Temperature),
		MaxTokens:   cfg.LLM.MaxTokens,
	}, log.Named("reason"))

	retriever := retrieval.NewVectorRetriever(embedder, cfg.Retrieval.TopK, log.Named("retrieval"))
	matcher := core.NewMatcher(retriever, reasoner, cfg.Matching, log.Named("matcher"))

	return &Server{
		Matcher:   matcher,
		Retriever: retriever,
		Log:       log,
	}, nil
}

// Warmup primes the embedding backend in the background and flips the
// readiness probe when done.
func (s *Server) Warmup(ctx context.Context) {
	s.Retriever.Warmup(ctx)
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()
	r.Use(RequestID(), Timing(), CORS())

	r.POST("/match", s.Match)
	r.GET("/health", s.Health)
	r.GET("/ready", s.Ready)

	return r
}

func (s *Server) Match(c *gin.Context) {
	var req model.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if len(req.NetworkProfiles) == 0 {
		c.JSON(http.StatusOK, []model.MatchResult{})
		return
	}

	results, err := s.Matcher.Match(c.Request.Context(), req)
	if err != nil {
		s.Log.Error("matching pipeline error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Matching failed: %v", err)})
		return
	}

	c.JSON(http.StatusOK, results)
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) Ready(c *gin.Context) {
	if !s.Retriever.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service not ready yet"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
