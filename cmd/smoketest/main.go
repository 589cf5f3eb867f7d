package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/agenthands/matchmaker/internal/core/model"
)

func main() {
	baseURL := os.Getenv("MATCHMAKER_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Printf("Starting smoke test against %s...\n", baseURL)

	fmt.Println("1. Checking health...")
	if !checkHealth(baseURL) {
		fmt.Println("FAILED: Health check")
		os.Exit(1)
	}
	fmt.Println("PASSED: Health check")

	fmt.Println("2. Requesting matches...")
	results, ok := runMatch(baseURL)
	if !ok {
		fmt.Println("FAILED: Match request")
		os.Exit(1)
	}
	fmt.Println("PASSED: Match request")

	fmt.Println("3. Validating ranking...")
	if !validateResults(results) {
		fmt.Println("FAILED: Ranking validation")
		os.Exit(1)
	}
	fmt.Println("PASSED: Ranking validation")

	for i, r := range results {
		rank := "-"
		if r.RetrievalRank != nil {
			rank = fmt.Sprintf("%d", *r.RetrievalRank)
		}
		fmt.Printf("%d. %s  score=%.2f  retrieval_rank=%s\n   %s\n", i+1, r.Name, r.Score, rank, r.Reason)
	}
}

func checkHealth(baseURL string) bool {
	resp, err := http.Get(baseURL + "/health")
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func runMatch(baseURL string) ([]model.MatchResult, bool) {
	req := model.MatchRequest{
		UserProfile: model.UserProfile{
			CurrentRole: model.Role{Title: "CTO", Company: "Acme Robotics"},
			TopSkills: []model.SkillEntry{
				{Skill: "Python", AppliedIn: "Acme Robotics"},
				{Skill: "Machine Learning"},
			},
		},
		UserObjective: model.UserObjective{
			PersonID:    "smoke-user",
			PrimaryGoal: "Hire a senior data scientist for the forecasting team",
			TargetProfiles: []model.TargetProfile{
				{Type: "hire", Titles: []string{"Data Scientist", "ML Engineer"}, Why: "team buildout"},
			},
			SuccessSignals: []string{"python", "forecasting"},
		},
		NetworkProfiles: []model.NetworkProfile{
			{ProfileID: "p-1", Name: "Dana Miles", Title: "Data Scientist", Company: "DataCorp",
				Industry: "Analytics", Skills: []string{"Python", "Forecasting", "SQL"},
				Summary: "Built demand forecasting models for retail."},
			{ProfileID: "p-2", Name: "Bob Reed", Title: "Account Executive", Company: "SalesCo",
				Skills: []string{"Negotiation"}},
			{ProfileID: "p-3", Name: "Carol Yu", Title: "ML Engineer", Company: "VisionAI",
				Industry: "Computer Vision", Skills: []string{"Python", "PyTorch"}},
		},
	}

	body, _ := json.Marshal(req)
	resp, err := http.Post(baseURL+"/match", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}

	var results []model.MatchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		fmt.Printf("Error decoding response: %v\n", err)
		return nil, false
	}
	return results, true
}

func validateResults(results []model.MatchResult) bool {
	if len(results) == 0 {
		fmt.Println("No candidates returned")
		return false
	}
	for i, r := range results {
		if r.Reason == "" {
			fmt.Printf("Candidate %s has an empty reason\n", r.ProfileID)
			return false
		}
		if r.KGSignals == nil {
			fmt.Printf("Candidate %s has null kg_signals\n", r.ProfileID)
			return false
		}
		if i > 0 && r.Score > results[i-1].Score {
			fmt.Printf("Ranking out of order at position %d\n", i)
			return false
		}
	}
	return true
}
