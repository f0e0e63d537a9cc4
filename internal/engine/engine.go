// Package engine owns one built dataset and runs (step, draw) pairs over it.
package engine

import (
	"log/slog"
	"math"

	"fraudnet/internal/dataset"
	"fraudnet/internal/interact"
	"fraudnet/internal/layout"
	"fraudnet/internal/network"
	"fraudnet/internal/scene"
)

// EmptyMessage is drawn in place of the network when no dataset is loaded.
const EmptyMessage = "Upload an analysis to visualize the fraud network"

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// Engine is not safe for concurrent use; the host drives it from a single
// goroutine.
type Engine struct {
	params   layout.Params
	analysis *dataset.Analysis
	model    *network.Model
	stats    network.BuildStats
	sim      *layout.Simulation
	state    interact.State
	log      *slog.Logger

	emphasisID string
	emphasis   float64
}

func New(p layout.Params, opts ...Option) *Engine {
	e := &Engine{
		params: p,
		model:  network.Build(nil),
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load rebuilds the model and cold-resets kinematics. A nil analysis, or
// one without accounts, leaves the engine inactive.
func (e *Engine) Load(a *dataset.Analysis) {
	e.analysis = a
	e.model, e.stats = network.BuildWithStats(a)
	e.sim = nil
	if !e.model.Empty() {
		e.sim = layout.New(e.model, e.params)
	}
	e.state.Prune(e.model)
	e.log.Debug("dataset loaded",
		"nodes", e.model.Len(),
		"edges", len(e.model.Edges),
		"rings", len(e.model.Rings()),
		"skipped_accounts", e.stats.SkippedAccounts,
		"dropped_edges", e.stats.DroppedEdges,
		"merged_edges", e.stats.MergedEdges,
	)
}

// Active reports whether there is anything to simulate.
func (e *Engine) Active() bool {
	return e.sim != nil
}

// Frame runs one simulation step and redraws s. Without a dataset it only
// draws the placeholder.
func (e *Engine) Frame(s scene.Surface) {
	if s == nil {
		return
	}
	if !e.Active() {
		scene.Placeholder(s, e.params.Bounds(), EmptyMessage)
		return
	}
	e.sim.Step()
	e.Draw(s)
}

// Draw redraws without stepping.
func (e *Engine) Draw(s scene.Surface) {
	if !e.Active() {
		scene.Placeholder(s, e.params.Bounds(), EmptyMessage)
		return
	}
	scene.Draw(s, e.frame())
}

func (e *Engine) frame() scene.Frame {
	return scene.Frame{
		Model:     e.model,
		Positions: e.sim.View(),
		Selected:  e.state.SelectedID,
		Hovered:   e.state.HoveredID,
		Visible:   e.state.VisibleFunc(e.model),
		Emphasis:  e.emphasisOf,
		RingLabel: e.ringLabel,
	}
}

// DrawnRadius is node i's on-screen radius, including selection, hover and
// emphasis. Pointer hits are measured against it.
func (e *Engine) DrawnRadius(i int) float64 {
	if !e.Active() || i < 0 || i >= e.model.Len() {
		return 0
	}
	return e.frame().DrawnRadius(i)
}

func (e *Engine) emphasisOf(i int) float64 {
	if e.emphasisID == "" || e.model.Nodes[i].ID != e.emphasisID {
		return 1
	}
	return e.emphasis
}

func (e *Engine) ringLabel(id string) string {
	if r, ok := e.analysis.RingByID(id); ok && r.PatternType != "" {
		return id + " · " + r.PatternType
	}
	return id
}

// SetEmphasis multiplies the drawn radius of one node on top of its
// selected or hovered size. Scale is bounded to [0.5, 2]; an empty id
// clears it.
func (e *Engine) SetEmphasis(id string, scale float64) {
	e.emphasisID = id
	e.emphasis = math.Min(math.Max(scale, 0.5), 2)
}

// Resize changes the logical canvas. It applies to the running simulation
// and to any later Load.
func (e *Engine) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	e.params.Width, e.params.Height = width, height
	if e.sim != nil {
		e.sim.Resize(width, height)
	}
}

func (e *Engine) PointerMove(x, y float64) {
	if !e.Active() {
		return
	}
	e.state.PointerMove(e.model, e.sim.View(), x, y, e.DrawnRadius)
}

func (e *Engine) Click(x, y float64) {
	if !e.Active() {
		return
	}
	e.state.Click(e.model, e.sim.View(), x, y, e.DrawnRadius)
}

func (e *Engine) SetSearch(q string) {
	e.state.SetSearch(e.model, q)
}

func (e *Engine) SetFilter(f interact.RiskFilter) {
	e.state.SetFilter(e.model, f)
}

func (e *Engine) State() interact.State       { return e.state }
func (e *Engine) Model() *network.Model       { return e.model }
func (e *Engine) Stats() network.BuildStats   { return e.stats }
func (e *Engine) Analysis() *dataset.Analysis { return e.analysis }
func (e *Engine) Bounds() layout.Bounds       { return e.params.Bounds() }
func (e *Engine) VisibleCount() int           { return e.state.VisibleCount(e.model) }

// Positions returns the read-only kinematics, or nil when inactive.
func (e *Engine) Positions() layout.Reader {
	if e.sim == nil {
		return nil
	}
	return e.sim.View()
}

func (e *Engine) KineticEnergy() float64 {
	if e.sim == nil {
		return 0
	}
	return e.sim.KineticEnergy()
}
