// Package graph builds a typed property graph over one user's intent and a
// batch of candidate profiles, then scores structural overlap between them.
//
// Nodes: USER, CANDIDATE, SKILL, TITLE, INDUSTRY, GOAL.
// Edges: USER -[HAS_SKILL|SEEKS_TITLE|HAS_GOAL]-> and
// CANDIDATE -[HAS_SKILL|HAS_TITLE|IN_INDUSTRY]->.
//
// The graph lives for a single request and is discarded afterwards.
package graph

import (
	"regexp"
	"strings"
)

type NodeType string

const (
	NodeUser      NodeType = "USER"
	NodeCandidate NodeType = "CANDIDATE"
	NodeSkill     NodeType = "SKILL"
	NodeTitle     NodeType = "TITLE"
	NodeIndustry  NodeType = "INDUSTRY"
	NodeGoal      NodeType = "GOAL"
)

type Relation string

const (
	HasSkill   Relation = "HAS_SKILL"
	SeeksTitle Relation = "SEEKS_TITLE"
	HasGoal    Relation = "HAS_GOAL"
	HasTitle   Relation = "HAS_TITLE"
	InIndustry Relation = "IN_INDUSTRY"
)

type Node struct {
	ID    string
	Type  NodeType
	Label string
	Attrs map[string]string
}

type Edge struct {
	From  string
	To    string
	Rel   Relation
	Attrs map[string]string
}

type edgeKey struct {
	from, to string
	rel      Relation
}

// Graph is a directed graph with string node identifiers. Adjacency lists
// keep edge insertion order so scoring output is deterministic.
type Graph struct {
	nodes map[string]Node
	out   map[string][]Edge
	seen  map[edgeKey]struct{}
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]Node),
		out:   make(map[string][]Edge),
		seen:  make(map[edgeKey]struct{}),
	}
}

// AddNode inserts a node. Re-adding an existing ID is a no-op, so the first
// label and attributes stick.
func (g *Graph) AddNode(n Node) {
	if _, ok := g.nodes[n.ID]; ok {
		return
	}
	g.nodes[n.ID] = n
}

func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

func (g *Graph) Node(id string) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Label returns the node's label, falling back to the ID itself when the
// node is unknown.
func (g *Graph) Label(id string) string {
	if n, ok := g.nodes[id]; ok {
		return n.Label
	}
	return id
}

// AddEdge inserts a directed edge. Edge identity is (from, to, relation);
// re-adding an existing edge is a no-op.
func (g *Graph) AddEdge(e Edge) {
	key := edgeKey{from: e.From, to: e.To, rel: e.Rel}
	if _, ok := g.seen[key]; ok {
		return
	}
	g.seen[key] = struct{}{}
	g.out[e.From] = append(g.out[e.From], e)
}

// Successors returns the target IDs of all outgoing edges of the given
// relation, in insertion order.
func (g *Graph) Successors(id string, rel Relation) []string {
	var targets []string
	for _, e := range g.out[id] {
		if e.Rel == rel {
			targets = append(targets, e.To)
		}
	}
	return targets
}

func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

func (g *Graph) EdgeCount() int {
	return len(g.seen)
}

// UserID returns the node identifier for the requesting user. Person and
// profile IDs are opaque keys and are embedded verbatim.
func UserID(personID string) string {
	return "user::" + personID
}

// CandidateID returns the node identifier for a network profile.
func CandidateID(profileID string) string {
	return "candidate::" + profileID
}

func skillID(label string) string {
	return "skill::" + Normalize(label)
}

func titleID(label string) string {
	return "title::" + Normalize(label)
}

func goalID(label string) string {
	return "goal::" + Normalize(label)
}

func industryID(label string) string {
	return "industry::" + Normalize(label)
}

var whitespace = regexp.MustCompile(`\s+`)

// Normalize lower-cases a label, trims it, and collapses internal whitespace
// runs to single underscores. Labels that normalize identically share a node.
func Normalize(text string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "_")
}
