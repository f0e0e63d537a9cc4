package interact

import (
	"strings"

	"fraudnet/internal/layout"
	"fraudnet/internal/network"
)

// HitFactor widens the clickable disc beyond the drawn radius.
const HitFactor = 1.2

// State is the interaction state. Nodes are referenced by id so a rebuilt
// model can never leave a dangling reference.
type State struct {
	SelectedID string
	HoveredID  string
	Search     string
	Filter     RiskFilter
}

// Visible reports whether n passes both the search and the risk filter.
func (s State) Visible(n network.Node) bool {
	return MatchSearch(n.ID, s.Search) && s.Filter.Matches(n.RiskScore)
}

// MatchSearch is a case-insensitive substring match; an empty query matches.
func MatchSearch(id, query string) bool {
	if query == "" {
		return true
	}
	return strings.Contains(strings.ToLower(id), strings.ToLower(query))
}

// VisibleFunc adapts Visible to the index form the renderer uses.
func (s State) VisibleFunc(m *network.Model) func(int) bool {
	return func(i int) bool { return s.Visible(m.Nodes[i]) }
}

// RadiusFunc reports the drawn radius of node i.
type RadiusFunc func(i int) float64

// HitTest returns the id of the nearest visible node whose center lies
// strictly within HitFactor times its drawn radius of (x, y). A nil radius
// uses the base node radius.
func HitTest(m *network.Model, pos layout.Reader, s State, x, y float64, radius RadiusFunc) (string, bool) {
	if m == nil || pos == nil || pos.Len() != m.Len() {
		return "", false
	}
	p := layout.Vec{X: x, Y: y}
	best, bestDist := -1, 0.0
	for i, n := range m.Nodes {
		if !s.Visible(n) {
			continue
		}
		r := n.Radius()
		if radius != nil {
			r = radius(i)
		}
		d := pos.Position(i).Dist(p)
		if d >= HitFactor*r {
			continue
		}
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	if best < 0 {
		return "", false
	}
	return m.Nodes[best].ID, true
}

// PointerMove updates the hovered id.
func (s *State) PointerMove(m *network.Model, pos layout.Reader, x, y float64, radius RadiusFunc) {
	id, _ := HitTest(m, pos, *s, x, y, radius)
	s.HoveredID = id
}

// Click toggles selection of the node under the pointer. Clicking the
// selected node or empty space clears the selection.
func (s *State) Click(m *network.Model, pos layout.Reader, x, y float64, radius RadiusFunc) {
	id, ok := HitTest(m, pos, *s, x, y, radius)
	if !ok || id == s.SelectedID {
		s.SelectedID = ""
		return
	}
	s.SelectedID = id
}

func (s *State) SetSearch(m *network.Model, q string) {
	s.Search = q
	s.Prune(m)
}

func (s *State) SetFilter(m *network.Model, f RiskFilter) {
	s.Filter = f
	s.Prune(m)
}

// Reset drops every id reference, keeping search and filter.
func (s *State) Reset() {
	s.SelectedID = ""
	s.HoveredID = ""
}

// Prune clears hovered and selected ids that are hidden or no longer in m.
func (s *State) Prune(m *network.Model) {
	if !s.shown(m, s.SelectedID) {
		s.SelectedID = ""
	}
	if !s.shown(m, s.HoveredID) {
		s.HoveredID = ""
	}
}

func (s State) shown(m *network.Model, id string) bool {
	if id == "" || m == nil {
		return false
	}
	n, ok := m.Node(id)
	return ok && s.Visible(n)
}

// VisibleCount counts nodes passing the current search and filter.
func (s State) VisibleCount(m *network.Model) int {
	if m == nil {
		return 0
	}
	n := 0
	for _, node := range m.Nodes {
		if s.Visible(node) {
			n++
		}
	}
	return n
}
