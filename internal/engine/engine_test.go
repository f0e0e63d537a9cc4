package engine

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudnet/internal/dataset"
	"fraudnet/internal/interact"
	"fraudnet/internal/layout"
	"fraudnet/internal/risk"
	"fraudnet/internal/scene"
)

func params() layout.Params {
	p := layout.DefaultParams()
	p.Seed = 7
	return p
}

func loadCycle(t *testing.T) *dataset.Analysis {
	t.Helper()
	a, err := dataset.NewFileSource(filepath.Join("..", "dataset", "testdata", "cycle.json")).Load(context.Background())
	require.NoError(t, err)
	return a
}

func TestThreeNodeCycleScenario(t *testing.T) {
	e := New(params())
	e.Load(loadCycle(t))
	require.True(t, e.Active())

	rec := &scene.Recorder{}
	for i := 0; i < 120; i++ {
		e.Frame(rec)
	}

	assert.Equal(t, 3, rec.Count(scene.OpCircle))
	assert.Equal(t, 3, rec.Count(scene.OpArrow))
	assert.Contains(t, rec.Texts(), "RING_001 · cycle", "halo label carries the ring pattern")

	b := e.Bounds()
	pos := e.Positions()
	for i := 0; i < pos.Len(); i++ {
		assert.True(t, b.Contains(pos.Position(i)))
	}
}

func TestFilterToCriticalScenario(t *testing.T) {
	e := New(params())
	e.Load(loadCycle(t))

	e.SetFilter(interact.FilterCritical)
	rec := &scene.Recorder{}
	e.Frame(rec)

	require.Equal(t, 1, rec.Count(scene.OpCircle))
	assert.Zero(t, rec.Count(scene.OpArrow))
	assert.NotContains(t, rec.Texts(), "RING_001 · cycle", "a lone visible member gets no halo")
	for _, c := range rec.Commands {
		if c.Op == scene.OpCircle {
			assert.Equal(t, risk.Red.Hex(), c.Color.Hex())
		}
	}
	assert.Equal(t, 1, e.VisibleCount())
}

func TestNullDatasetScenario(t *testing.T) {
	a, err := dataset.Decode(strings.NewReader("null"))
	require.NoError(t, err)

	e := New(params())
	e.Load(a)
	assert.False(t, e.Active())
	assert.Nil(t, e.Positions())
	assert.Zero(t, e.KineticEnergy())

	rec := &scene.Recorder{}
	e.Frame(rec)
	assert.Equal(t, []string{EmptyMessage}, rec.Texts())

	e.Click(10, 10)
	e.PointerMove(10, 10)
	assert.Equal(t, interact.State{}, e.State())
}

func TestLoadReplacesDataset(t *testing.T) {
	e := New(params())
	e.Load(loadCycle(t))

	pos := e.Positions()
	a := pos.Position(0)
	e.Click(a.X, a.Y)
	selected := e.State().SelectedID
	require.NotEmpty(t, selected)

	e.Load(&dataset.Analysis{SuspiciousAccounts: []dataset.Account{{AccountID: "other", SuspicionScore: 12}}})
	assert.Empty(t, e.State().SelectedID, "selection of a vanished id is dropped")
	assert.Equal(t, 1, e.Positions().Len())

	e.Load(nil)
	assert.False(t, e.Active())
}

func TestClickSelectsAndDetails(t *testing.T) {
	e := New(params())
	e.Load(loadCycle(t))

	idx, ok := e.Model().Index("A")
	require.True(t, ok)
	p := e.Positions().Position(idx)
	e.Click(p.X, p.Y)

	d, ok := e.Selected()
	require.True(t, ok)
	assert.Equal(t, "A", d.Node.ID)
	assert.True(t, d.HasRing)
	assert.Equal(t, "cycle", d.Ring.PatternType)
	assert.Len(t, d.Incoming, 1)
	assert.Len(t, d.Outgoing, 1)

	rec := &scene.Recorder{}
	e.Draw(rec)
	dimmed := 0
	for _, c := range rec.Commands {
		if c.Op == scene.OpCircle && c.Alpha < 1 {
			dimmed++
		}
	}
	assert.Equal(t, 2, dimmed)
}

func drawnRadiusOf(t *testing.T, e *Engine, idx int) float64 {
	t.Helper()
	at := e.Positions().Position(idx)
	rec := &scene.Recorder{}
	e.Draw(rec)
	for _, c := range rec.Commands {
		if c.Op == scene.OpCircle && c.At == at {
			return c.Radius
		}
	}
	t.Fatalf("no circle drawn for node %d", idx)
	return 0
}

func TestHoverAndSelectionEnlargeNode(t *testing.T) {
	e := New(params())
	e.Load(loadCycle(t))

	idx, ok := e.Model().Index("A")
	require.True(t, ok)
	base := e.Model().Nodes[idx].Radius()
	p := e.Positions().Position(idx)

	assert.InDelta(t, base, drawnRadiusOf(t, e, idx), 1e-9)

	e.PointerMove(p.X, p.Y)
	require.Equal(t, "A", e.State().HoveredID)
	assert.InDelta(t, base*scene.HoverScale, drawnRadiusOf(t, e, idx), 1e-9)

	e.Click(p.X, p.Y)
	require.Equal(t, "A", e.State().SelectedID)
	assert.InDelta(t, base*scene.SelectedScale, drawnRadiusOf(t, e, idx), 1e-9)
	assert.InDelta(t, base*scene.SelectedScale, e.DrawnRadius(idx), 1e-9)
}

func TestClickReachesEnlargedRim(t *testing.T) {
	e := New(params())
	e.Load(&dataset.Analysis{SuspiciousAccounts: []dataset.Account{{AccountID: "solo", SuspicionScore: 40}}})

	center := e.Positions().Position(0)
	base := e.Model().Nodes[0].Radius()
	e.Click(center.X, center.Y)
	require.Equal(t, "solo", e.State().SelectedID)

	// Beyond the base hit disc but inside the selected one.
	x := center.X + interact.HitFactor*base*1.1
	e.PointerMove(x, center.Y)
	assert.Equal(t, "solo", e.State().HoveredID)
}

func TestEmphasisAndResize(t *testing.T) {
	e := New(params())
	e.Load(loadCycle(t))

	e.SetEmphasis("A", 10)
	idx, _ := e.Model().Index("A")
	assert.Equal(t, 2.0, e.emphasisOf(idx))

	e.Resize(200, 100)
	assert.Equal(t, 200.0, e.Bounds().Width)
	pos := e.Positions()
	for i := 0; i < pos.Len(); i++ {
		assert.True(t, e.Bounds().Contains(pos.Position(i)))
	}
}
