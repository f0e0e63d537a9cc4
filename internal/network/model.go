// Package network builds the node/edge model drawn by the visualization
// engine from an analysis response.
package network

import (
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"fraudnet/internal/risk"
)

// Node is one flagged account. Kinematic state lives in the layout
// simulation, keyed by the node's index in Model.Nodes.
type Node struct {
	ID               string
	RiskScore        float64
	RingID           string
	DetectedPatterns []string
	InDegree         int
	OutDegree        int
}

func (n Node) Radius() float64       { return risk.Radius(n.RiskScore) }
func (n Node) Tier() risk.Tier       { return risk.Classify(n.RiskScore) }
func (n Node) Color() colorful.Color { return risk.Color(n.RiskScore) }
func (n Node) InRing() bool          { return n.RingID != "" }

// Edge relates two nodes by id. TxnCount is display-only.
type Edge struct {
	SourceID string
	TargetID string
	Amount   float64
	TxnCount int
}

// RingGroup is derived from Node.RingID on demand, never stored.
type RingGroup struct {
	ID      string
	Members []int
}

// Model is one built dataset. It is replaced wholesale on every rebuild.
type Model struct {
	Nodes []Node
	Edges []Edge

	index map[string]int
}

func newModel(nodes []Node, edges []Edge) *Model {
	m := &Model{Nodes: nodes, Edges: edges, index: make(map[string]int, len(nodes))}
	for i, n := range nodes {
		m.index[n.ID] = i
	}
	return m
}

func (m *Model) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Nodes)
}

func (m *Model) Empty() bool { return m.Len() == 0 }

// Index resolves a node id to its stable index.
func (m *Model) Index(id string) (int, bool) {
	if m == nil {
		return 0, false
	}
	i, ok := m.index[id]
	return i, ok
}

// Node looks up a node by id.
func (m *Model) Node(id string) (Node, bool) {
	i, ok := m.Index(id)
	if !ok {
		return Node{}, false
	}
	return m.Nodes[i], true
}

// Rings groups nodes by non-empty ring id, ordered by ring id.
func (m *Model) Rings() []RingGroup {
	if m == nil {
		return nil
	}
	byID := make(map[string][]int)
	for i, n := range m.Nodes {
		if n.InRing() {
			byID[n.RingID] = append(byID[n.RingID], i)
		}
	}
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	groups := make([]RingGroup, 0, len(ids))
	for _, id := range ids {
		groups = append(groups, RingGroup{ID: id, Members: byID[id]})
	}
	return groups
}

// EdgesOf returns the edges touching the node with the given id.
func (m *Model) EdgesOf(id string) (in, out []Edge) {
	if m == nil {
		return nil, nil
	}
	for _, e := range m.Edges {
		if e.TargetID == id {
			in = append(in, e)
		}
		if e.SourceID == id {
			out = append(out, e)
		}
	}
	return in, out
}
