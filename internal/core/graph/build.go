package graph

import (
	"strings"
	"unicode/utf8"

	"github.com/agenthands/matchmaker/internal/core/model"
)

// Build constructs the request-scoped graph: one USER node wired to the
// user's skills, sought titles and success signals, plus one CANDIDATE node
// per network profile wired to its skills, title keywords and industry.
func Build(profile model.UserProfile, objective model.UserObjective, candidates []model.NetworkProfile) *Graph {
	g := New()

	userID := UserID(objective.PersonID)
	g.AddNode(Node{ID: userID, Type: NodeUser, Label: profile.CurrentRole.Title})

	for _, sk := range profile.TopSkills {
		id := skillID(sk.Skill)
		g.AddNode(Node{ID: id, Type: NodeSkill, Label: sk.Skill})
		g.AddEdge(Edge{From: userID, To: id, Rel: HasSkill})
	}

	for _, tp := range objective.TargetProfiles {
		for _, title := range tp.Titles {
			id := titleID(title)
			g.AddNode(Node{ID: id, Type: NodeTitle, Label: title})
			g.AddEdge(Edge{From: userID, To: id, Rel: SeeksTitle, Attrs: map[string]string{"why": tp.Why}})
		}
	}

	for _, sig := range objective.SuccessSignals {
		id := goalID(sig)
		g.AddNode(Node{ID: id, Type: NodeGoal, Label: sig})
		g.AddEdge(Edge{From: userID, To: id, Rel: HasGoal})
	}

	for _, c := range candidates {
		addCandidate(g, c)
	}

	return g
}

func addCandidate(g *Graph, c model.NetworkProfile) {
	cid := CandidateID(c.ProfileID)
	g.AddNode(Node{
		ID:    cid,
		Type:  NodeCandidate,
		Label: c.Name,
		Attrs: map[string]string{
			"title":    c.Title,
			"company":  c.Company,
			"industry": c.Industry,
		},
	})

	for _, sk := range c.Skills {
		id := skillID(sk)
		g.AddNode(Node{ID: id, Type: NodeSkill, Label: sk})
		g.AddEdge(Edge{From: cid, To: id, Rel: HasSkill})
	}

	// Each title word is a possible title match on its own; tokens of three
	// characters or fewer are noise.
	for _, word := range strings.Fields(c.Title) {
		if utf8.RuneCountInString(word) <= 3 {
			continue
		}
		id := titleID(word)
		g.AddNode(Node{ID: id, Type: NodeTitle, Label: word})
		g.AddEdge(Edge{From: cid, To: id, Rel: HasTitle})
	}

	// The full title is a match target too.
	fullID := titleID(c.Title)
	g.AddNode(Node{ID: fullID, Type: NodeTitle, Label: c.Title})
	g.AddEdge(Edge{From: cid, To: fullID, Rel: HasTitle})

	if c.Industry != "" {
		id := industryID(c.Industry)
		g.AddNode(Node{ID: id, Type: NodeIndustry, Label: c.Industry})
		g.AddEdge(Edge{From: cid, To: id, Rel: InIndustry})
	}
}
