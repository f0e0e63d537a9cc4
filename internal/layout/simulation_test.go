package layout

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraudnet/internal/dataset"
	"fraudnet/internal/network"
)

func ringID(id string) *string { return &id }

func cycleModel() *network.Model {
	r := ringID("RING_001")
	return network.Build(&dataset.Analysis{
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
}

func seeded() Params {
	p := DefaultParams()
	p.Seed = 42
	return p
}

func TestNewColdReset(t *testing.T) {
	sim := New(cycleModel(), seeded())
	require.Equal(t, 3, sim.Len())
	b := sim.Bounds()
	for i := 0; i < sim.Len(); i++ {
		assert.True(t, b.Contains(sim.Position(i)), "body %d starts outside the margins", i)
		assert.Equal(t, Vec{}, sim.Velocity(i))
	}
	assert.Zero(t, sim.KineticEnergy())
}

func TestNewEmptyModel(t *testing.T) {
	sim := New(network.Build(nil), seeded())
	assert.Zero(t, sim.Len())
	sim.Step()
	assert.Zero(t, sim.Steps(), "empty simulations do no work")
}

func TestSeedIsDeterministic(t *testing.T) {
	a := New(cycleModel(), seeded())
	b := New(cycleModel(), seeded())
	for i := 0; i < 50; i++ {
		a.Step()
		b.Step()
	}
	for i := 0; i < a.Len(); i++ {
		assert.Equal(t, a.Position(i), b.Position(i))
	}
}

func TestStepIsSynchronous(t *testing.T) {
	// Two mirrored nodes must move by mirrored amounts; an in-place update
	// would let the first node's new position leak into the second's force.
	m := network.Build(&dataset.Analysis{SuspiciousAccounts: []dataset.Account{
		{AccountID: "L", SuspicionScore: 10},
		{AccountID: "R", SuspicionScore: 10},
	}})
	sim := New(m, seeded())
	c := sim.Bounds().Center()
	sim.bodies[0].Pos = Vec{c.X - 50, c.Y}
	sim.bodies[1].Pos = Vec{c.X + 50, c.Y}

	sim.Step()

	left := c.Sub(sim.Position(0))
	right := sim.Position(1).Sub(c)
	assert.InDelta(t, left.X, right.X, 1e-9)
	assert.InDelta(t, 0, sim.Position(0).Y-c.Y, 1e-9)
	assert.InDelta(t, 0, sim.Position(1).Y-c.Y, 1e-9)
}

func TestCoincidentNodesSeparate(t *testing.T) {
	m := network.Build(&dataset.Analysis{SuspiciousAccounts: []dataset.Account{
		{AccountID: "P", SuspicionScore: 40},
		{AccountID: "Q", SuspicionScore: 40},
	}})
	sim := New(m, seeded())
	c := sim.Bounds().Center()
	sim.bodies[0].Pos = c
	sim.bodies[1].Pos = c

	sim.Step()

	assert.Greater(t, sim.Position(0).Dist(sim.Position(1)), 0.0)
	for i := 0; i < 2; i++ {
		assert.True(t, sim.Position(i).IsFinite())
	}
}

func TestSpringPullsDistantEndpoints(t *testing.T) {
	m := network.Build(&dataset.Analysis{
		SuspiciousAccounts: []dataset.Account{
			{AccountID: "S", SuspicionScore: 60},
			{AccountID: "T", SuspicionScore: 60},
		},
		GraphData: &dataset.GraphData{Links: []dataset.Link{{Source: "S", Target: "T", Amount: 1}}},
	})
	p := seeded()
	p.Repulsion = 0
	p.Gravity = 0
	sim := New(m, p)
	sim.bodies[0].Pos = Vec{100, 275}
	sim.bodies[1].Pos = Vec{700, 275}

	before := sim.Position(0).Dist(sim.Position(1))
	sim.Step()
	assert.Less(t, sim.Position(0).Dist(sim.Position(1)), before)
}

func TestTinyCanvasCollapsesToCenter(t *testing.T) {
	p := seeded()
	p.Width, p.Height, p.Margin = 40, 40, 30
	sim := New(cycleModel(), p)
	for i := 0; i < 10; i++ {
		sim.Step()
	}
	for i := 0; i < sim.Len(); i++ {
		assert.Equal(t, Vec{20, 20}, sim.Position(i))
	}
}

func TestResizeRescalesAndClamps(t *testing.T) {
	sim := New(cycleModel(), seeded())
	sim.Resize(400, 275)
	b := sim.Bounds()
	assert.Equal(t, 400.0, b.Width)
	for i := 0; i < sim.Len(); i++ {
		assert.True(t, b.Contains(sim.Position(i)))
	}

	sim.Resize(0, 100)
	assert.Equal(t, 400.0, sim.Bounds().Width, "degenerate sizes are ignored")
}

func TestViewIsReadOnly(t *testing.T) {
	sim := New(cycleModel(), seeded())
	r := sim.View()
	_, isSim := r.(*Simulation)
	assert.False(t, isSim)
	assert.Equal(t, sim.Len(), r.Len())
	assert.Equal(t, sim.Position(1), r.Position(1))
}

func TestBoundedForever(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 40
	properties := gopter.NewProperties(params)

	properties.Property("positions stay inside margins and speeds stay capped", prop.ForAll(
		func(n int, seed uint64, repulsion float64) bool {
			accounts := make([]dataset.Account, n)
			var links []dataset.Link
			for i := range accounts {
				id := string(rune('a'+i%26)) + string(rune('0'+i/26))
				accounts[i] = dataset.Account{AccountID: id, SuspicionScore: float64(i * 7 % 101)}
				if i%3 == 0 {
					accounts[i].RingID = ringID("R")
				}
				if i > 0 {
					links = append(links, dataset.Link{Source: accounts[i-1].AccountID, Target: id, Amount: 1})
				}
			}
			m := network.Build(&dataset.Analysis{SuspiciousAccounts: accounts, GraphData: &dataset.GraphData{Links: links}})

			p := DefaultParams()
			p.Seed = seed | 1
			p.Repulsion = repulsion
			sim := New(m, p)
			b := sim.Bounds()
			for step := 0; step < 200; step++ {
				sim.Step()
				for i := 0; i < sim.Len(); i++ {
					if !b.Contains(sim.Position(i)) {
						return false
					}
					if sim.Velocity(i).Len() > p.MaxSpeed+1e-9 {
						return false
					}
				}
			}
			return !math.IsNaN(sim.KineticEnergy())
		},
		gen.IntRange(1, 40),
		gen.UInt64(),
		gen.Float64Range(0, 1e6),
	))

	properties.TestingRun(t)
}
