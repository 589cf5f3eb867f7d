package graph

import (
	"fmt"
	"math"
	"strings"
)

// Match weights per structural signal.
const (
	sharedSkillPoints  = 15.0
	exactTitlePoints   = 20.0
	partialTitlePoints = 10.0
	goalSignalPoints   = 10.0

	maxScore = 100.0
)

// Score computes the structural overlap between the user's intent nodes and
// one candidate's nodes. It returns a score in [0, 100] and one human-readable
// signal per awarded match, in the order the matches were found. Unknown node
// IDs contribute nothing.
func Score(g *Graph, userID, candidateID string) (float64, []string) {
	signals := make([]string, 0, 4)
	if !g.HasNode(userID) || !g.HasNode(candidateID) {
		return 0, signals
	}

	var score float64

	userSkills := g.Successors(userID, HasSkill)
	candSkills := g.Successors(candidateID, HasSkill)
	candSkillSet := toSet(candSkills)
	for _, id := range userSkills {
		if _, ok := candSkillSet[id]; !ok {
			continue
		}
		signals = append(signals, "Shared skill: "+g.Label(id))
		score += sharedSkillPoints
	}

	userTitles := g.Successors(userID, SeeksTitle)
	candTitles := g.Successors(candidateID, HasTitle)
	candTitleSet := toSet(candTitles)
	matched := make(map[string]struct{})
	for _, id := range userTitles {
		if _, ok := candTitleSet[id]; !ok {
			continue
		}
		signals = append(signals, "Title match: "+g.Label(id))
		score += exactTitlePoints
		matched[id] = struct{}{}
	}

	// Token-level containment for sought titles without an exact hit. Each
	// sought title is awarded at most once.
	for _, ut := range userTitles {
		if _, ok := matched[ut]; ok {
			continue
		}
		utLabel := strings.ToLower(g.Label(ut))
		for _, ct := range candTitles {
			ctLabel := strings.ToLower(g.Label(ct))
			if strings.Contains(ctLabel, utLabel) || strings.Contains(utLabel, ctLabel) {
				signals = append(signals, fmt.Sprintf("Partial title match: %s ↔ %s", utLabel, ctLabel))
				score += partialTitlePoints
				matched[ut] = struct{}{}
				break
			}
		}
	}

	// Goals hit on any candidate skill or title keyword; first hit per goal.
	candTerms := make([]string, 0, len(candSkills)+len(candTitles))
	candTerms = append(candTerms, candSkills...)
	candTerms = append(candTerms, candTitles...)
	for _, gid := range g.Successors(userID, HasGoal) {
		goalLabel := strings.ToLower(g.Label(gid))
		for _, cn := range candTerms {
			cnLabel := strings.ToLower(g.Label(cn))
			if strings.Contains(cnLabel, goalLabel) || strings.Contains(goalLabel, cnLabel) {
				signals = append(signals, "Goal signal match: "+goalLabel)
				score += goalSignalPoints
				break
			}
		}
	}

	return math.Min(score, maxScore), signals
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
