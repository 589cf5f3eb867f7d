package model

// MatchResult is one ranked candidate. RetrievalRank is nil for candidates
// that fell outside the retrieval top-k.
type MatchResult struct {
	ProfileID     string   `json:"profile_id"`
	Name          string   `json:"name"`
	Score         float64  `json:"score"`
	Reason        string   `json:"reason"`
	KGSignals     []string `json:"kg_signals"`
	RetrievalRank *int     `json:"retrieval_rank"`
}
