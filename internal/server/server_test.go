package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/matchmaker/internal/config"
	"github.com/agenthands/matchmaker/internal/core"
	"github.com/agenthands/matchmaker/internal/core/model"
	"github.com/agenthands/matchmaker/internal/core/reason"
	"github.com/agenthands/matchmaker/internal/llm"
	"github.com/agenthands/matchmaker/internal/retrieval"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	for marker, vec := range s.vectors {
		if strings.Contains(text, marker) {
			return vec, nil
		}
	}
	return []float32{0, 0, 1}, nil
}

// newTestServer wires a server around a deterministic embedder and no LLM
// chain, so reasons come from the deterministic fallback.
func newTestServer(topK int) *Server {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"Goal:": {1, 0, 0},
		"Dana":  {1, 0, 0},
		"Jo":    {0, 1, 0},
	}}
	retriever := retrieval.NewVectorRetriever(emb, topK, zap.NewNop())
	reasoner := reason.NewReasoner(nil, 0, llm.GenerateParams{}, zap.NewNop())
	matcher := core.NewMatcher(retriever, reasoner, config.MatchingConfig{
		KGWeight: 0.45, SimWeight: 0.55,
	}, zap.NewNop())

	return &Server{Matcher: matcher, Retriever: retriever, Log: zap.NewNop()}
}

func doRequest(srv *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.SetupRouter().ServeHTTP(w, req)
	return w
}

const matchBody = `{
	"user_profile": {
		"current_role": {"title": "CTO", "company": "Acme"},
		"top_skills": [{"skill": "Python", "applied_in": "Acme"}]
	},
	"user_objective": {
		"person_id": "u-1",
		"primary_goal": "Hire a senior data scientist",
		"target_profiles": [{"type": "hire", "titles": ["Data Scientist"], "why": "team buildout"}],
		"success_signals": ["python"]
	},
	"network_profiles": [
		{"profile_id": "p-1", "name": "Dana", "title": "Data Scientist", "skills": ["Python"]},
		{"profile_id": "p-2", "name": "Jo", "title": "Chef"}
	]
}`

func TestMatchEndpoint(t *testing.T) {
	w := doRequest(newTestServer(5), http.MethodPost, "/match", matchBody, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var results []model.MatchResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 2)

	// Dana: kg 45 (skill + exact title + goal), sim 100 -> 0.45*45 + 0.55*100.
	assert.Equal(t, "p-1", results[0].ProfileID)
	assert.Equal(t, 75.25, results[0].Score)
	assert.Equal(t, []string{
		"Shared skill: Python",
		"Title match: Data Scientist",
		"Goal signal match: python",
	}, results[0].KGSignals)
	assert.Equal(t, "Strong match based on shared skill: python with a combined alignment score of 72/100.", results[0].Reason)
	require.NotNil(t, results[0].RetrievalRank)
	assert.Equal(t, 1, *results[0].RetrievalRank)

	assert.Equal(t, "p-2", results[1].ProfileID)
	assert.Equal(t, 0.0, results[1].Score)
	assert.NotNil(t, results[1].KGSignals)
	assert.Empty(t, results[1].KGSignals)
	assert.Equal(t, "Candidate aligns semantically with the target profile.", results[1].Reason)
}

func TestMatchEndpointHeaders(t *testing.T) {
	w := doRequest(newTestServer(5), http.MethodPost, "/match", matchBody, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	ms, err := strconv.ParseFloat(w.Header().Get("X-Process-Time-Ms"), 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ms, 0.0)
}

func TestMatchEndpointRequestIDPassthrough(t *testing.T) {
	w := doRequest(newTestServer(5), http.MethodPost, "/match", matchBody, map[string]string{
		"X-Request-ID": "req-abc-123",
	})

	assert.Equal(t, "req-abc-123", w.Header().Get("X-Request-ID"))
}

func TestMatchEndpointRankNullOutsideTopK(t *testing.T) {
	w := doRequest(newTestServer(1), http.MethodPost, "/match", matchBody, nil)

	require.Equal(t, http.StatusOK, w.Code)

	var raw []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw, 2)
	assert.Nil(t, raw[1]["retrieval_rank"])
	assert.Contains(t, w.Body.String(), `"retrieval_rank":null`)
}

func TestMatchEndpointEmptyCandidates(t *testing.T) {
	body := `{
		"user_profile": {"current_role": {"title": "CTO"}},
		"user_objective": {"person_id": "u-1", "primary_goal": "hire"},
		"network_profiles": []
	}`
	w := doRequest(newTestServer(5), http.MethodPost, "/match", body, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestMatchEndpointInvalidJSON(t *testing.T) {
	w := doRequest(newTestServer(5), http.MethodPost, "/match", "{oops", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "Invalid request"}`, w.Body.String())
}

func TestMatchEndpointMissingProfile(t *testing.T) {
	body := `{
		"user_objective": {"person_id": "u-1", "primary_goal": "hire"},
		"network_profiles": []
	}`
	w := doRequest(newTestServer(5), http.MethodPost, "/match", body, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	w := doRequest(newTestServer(5), http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ok"}`, w.Body.String())
}

func TestReadyEndpoint(t *testing.T) {
	srv := newTestServer(5)

	w := doRequest(srv, http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"error": "Service not ready yet"}`, w.Body.String())

	srv.Warmup(context.Background())

	w = doRequest(srv, http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "ready"}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	w := doRequest(newTestServer(5), http.MethodOptions, "/match", "", nil)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}
