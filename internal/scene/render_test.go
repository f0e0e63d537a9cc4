package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudnet/internal/dataset"
	"fraudnet/internal/layout"
	"fraudnet/internal/network"
	"fraudnet/internal/risk"
)

type fixed []layout.Vec

func (f fixed) Len() int                  { return len(f) }
func (f fixed) Position(i int) layout.Vec { return f[i] }
func (f fixed) Velocity(int) layout.Vec   { return layout.Vec{} }
func (f fixed) Bounds() layout.Bounds     { return layout.Bounds{Width: 800, Height: 550, Margin: 30} }

func ringID(id string) *string { return &id }

func cycle() (*network.Model, fixed) {
	r := ringID("RING_001")
	m := network.Build(&dataset.Analysis{
		SuspiciousAccounts: []dataset.Account{
			{AccountID: "A", SuspicionScore: 85, RingID: r},
			{AccountID: "B", SuspicionScore: 55, RingID: r},
			{AccountID: "C", SuspicionScore: 20, RingID: r},
		},
		GraphData: &dataset.GraphData{Links: []dataset.Link{
			{Source: "A", Target: "B", Amount: 100},
			{Source: "B", Target: "C", Amount: 100},
			{Source: "C", Target: "A", Amount: 100},
		}},
	})
	return m, fixed{{200, 200}, {400, 200}, {300, 380}}
}

func only(ids ...string) func(*network.Model) func(int) bool {
	return func(m *network.Model) func(int) bool {
		keep := map[string]bool{}
		for _, id := range ids {
			keep[id] = true
		}
		return func(i int) bool { return keep[m.Nodes[i].ID] }
	}
}

func TestDrawCycleScenario(t *testing.T) {
	m, pos := cycle()
	rec := &Recorder{}
	Draw(rec, Frame{Model: m, Positions: pos})

	require.NotEmpty(t, rec.Commands)
	assert.Equal(t, OpClear, rec.Commands[0].Op)
	assert.Equal(t, 3, rec.Count(OpCircle))
	assert.Equal(t, 3, rec.Count(OpArrow))
	assert.Equal(t, 1+3, rec.Count(OpGradient), "one halo plus one glow per node")
	assert.Contains(t, rec.Texts(), "RING_001")

	colors := map[string]string{}
	for _, c := range rec.Commands {
		if c.Op == OpCircle {
			colors[c.Color.Hex()] = ""
		}
	}
	assert.Contains(t, colors, risk.Red.Hex())
	assert.Contains(t, colors, risk.Orange.Hex())
	assert.Contains(t, colors, risk.Green.Hex())
}

func TestDrawOrder(t *testing.T) {
	m, pos := cycle()
	rec := &Recorder{}
	Draw(rec, Frame{Model: m, Positions: pos})

	lastHalo, firstArrow, lastArrow, firstCircle := -1, -1, -1, -1
	for i, c := range rec.Commands {
		switch c.Op {
		case OpGradient:
			if firstArrow < 0 {
				lastHalo = i
			}
		case OpArrow:
			if firstArrow < 0 {
				firstArrow = i
			}
			lastArrow = i
		case OpCircle:
			if firstCircle < 0 {
				firstCircle = i
			}
		}
	}
	assert.Less(t, lastHalo, firstArrow)
	assert.Less(t, lastArrow, firstCircle)
}

func TestHaloNeedsTwoVisibleMembers(t *testing.T) {
	m, pos := cycle()

	tests := []struct {
		name  string
		ids   []string
		halos int
	}{
		{"all visible", []string{"A", "B", "C"}, 1},
		{"two visible", []string{"A", "B"}, 1},
		{"one visible", []string{"A"}, 0},
		{"none visible", nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &Recorder{}
			Draw(rec, Frame{Model: m, Positions: pos, Visible: only(tt.ids...)(m)})
			labels := 0
			for _, s := range rec.Texts() {
				if s == "RING_001" {
					labels++
				}
			}
			assert.Equal(t, tt.halos, labels)
			assert.Equal(t, len(tt.ids), rec.Count(OpCircle))
		})
	}
}

func TestEdgesNeedBothEndpointsVisible(t *testing.T) {
	m, pos := cycle()
	rec := &Recorder{}
	Draw(rec, Frame{Model: m, Positions: pos, Visible: only("A", "B")(m)})
	require.Equal(t, 1, rec.Count(OpArrow))

	for _, c := range rec.Commands {
		if c.Op != OpArrow {
			continue
		}
		assert.Equal(t, risk.Orange.Hex(), c.Color.Hex(), "edge takes the target's tint")
		b := pos[1]
		assert.InDelta(t, m.Nodes[1].Radius(), c.To.Dist(b), 1e-9, "arrow stops at the target rim")
	}
}

func TestSelectionDimsOthers(t *testing.T) {
	m, pos := cycle()
	rec := &Recorder{}
	Draw(rec, Frame{Model: m, Positions: pos, Selected: "A"})

	for _, c := range rec.Commands {
		if c.Op != OpCircle {
			continue
		}
		if c.Color.Hex() == risk.Red.Hex() {
			assert.Equal(t, 1.0, c.Alpha)
		} else {
			assert.Equal(t, DimAlpha, c.Alpha)
		}
	}
}

func TestEmphasisScalesRadius(t *testing.T) {
	m, pos := cycle()
	rec := &Recorder{}
	Draw(rec, Frame{Model: m, Positions: pos, Emphasis: func(i int) float64 {
		if i == 0 {
			return 1.5
		}
		return 1
	}})
	for _, c := range rec.Commands {
		if c.Op == OpCircle && c.At == pos[0] {
			assert.InDelta(t, m.Nodes[0].Radius()*1.5, c.Radius, 1e-9)
		}
	}
}

func circleAt(rec *Recorder, at layout.Vec) (Command, bool) {
	for _, c := range rec.Commands {
		if c.Op == OpCircle && c.At == at {
			return c, true
		}
	}
	return Command{}, false
}

func TestSelectedAndHoveredNodesEnlarge(t *testing.T) {
	m, pos := cycle()
	rec := &Recorder{}
	Draw(rec, Frame{Model: m, Positions: pos, Selected: "A", Hovered: "B"})

	a, ok := circleAt(rec, pos[0])
	require.True(t, ok)
	assert.InDelta(t, m.Nodes[0].Radius()*SelectedScale, a.Radius, 1e-9)

	b, ok := circleAt(rec, pos[1])
	require.True(t, ok)
	assert.InDelta(t, m.Nodes[1].Radius()*HoverScale, b.Radius, 1e-9)

	c, ok := circleAt(rec, pos[2])
	require.True(t, ok)
	assert.InDelta(t, m.Nodes[2].Radius(), c.Radius, 1e-9)

	for _, cmd := range rec.Commands {
		if cmd.Op == OpArrow && cmd.Color.Hex() == risk.Orange.Hex() {
			assert.InDelta(t, m.Nodes[1].Radius()*HoverScale, cmd.To.Dist(pos[1]), 1e-9, "arrow stops at the enlarged rim")
		}
	}
}

func TestSelectionOutranksHover(t *testing.T) {
	m, pos := cycle()
	f := Frame{Model: m, Positions: pos, Selected: "A", Hovered: "A", Emphasis: func(int) float64 { return 0.8 }}
	assert.InDelta(t, m.Nodes[0].Radius()*SelectedScale*0.8, f.DrawnRadius(0), 1e-9)
}

func TestDrawEmptyAndMismatched(t *testing.T) {
	rec := &Recorder{}
	Draw(rec, Frame{Model: network.Build(nil), Positions: fixed{}})
	assert.Len(t, rec.Commands, 1)

	m, _ := cycle()
	Draw(rec, Frame{Model: m, Positions: fixed{{1, 1}}})
	assert.Len(t, rec.Commands, 1, "stale kinematics are never drawn")
}

func TestPlaceholder(t *testing.T) {
	rec := &Recorder{}
	Placeholder(rec, layout.Bounds{Width: 800, Height: 550}, "nothing here")
	assert.Equal(t, []string{"nothing here"}, rec.Texts())
	assert.Equal(t, layout.Vec{X: 400, Y: 275}, rec.Commands[1].At)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "ACC_00012…", Truncate("ACC_000123456", 10))
	assert.Equal(t, "x", Truncate("x", 0))
}

func TestLegend(t *testing.T) {
	entries := Legend()
	require.Len(t, entries, 4)
	assert.Equal(t, "Critical", entries[0].Label)
	assert.Equal(t, risk.Red, entries[0].Color)
	assert.Equal(t, 0.0, entries[3].Min)
	for _, e := range entries {
		assert.Equal(t, e.Label, risk.Label(e.Min))
	}
}
