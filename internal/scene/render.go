package scene

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"fraudnet/internal/layout"
	"fraudnet/internal/network"
	"fraudnet/internal/risk"
)

var (
	Background = colorful.Color{R: 0x0b / 255.0, G: 0x11 / 255.0, B: 0x20 / 255.0}
	TextColor  = colorful.Color{R: 1, G: 1, B: 1}
	LabelColor = colorful.Color{R: 0x94 / 255.0, G: 0xa3 / 255.0, B: 0xb8 / 255.0}
)

const (
	HaloMargin  = 24.0
	ArrowHead   = 6.0
	EdgeAlpha   = 0.45
	GlowScale   = 1.8
	GlowAlpha   = 0.35
	HaloAlpha   = 0.14
	DimAlpha    = 0.25
	IDMaxRunes  = 10
	labelOffset = 10.0

	// SelectedScale and HoverScale enlarge the selected and hovered nodes.
	SelectedScale = 1.35
	HoverScale    = 1.15
)

// Frame is everything one redraw reads. Nothing in it is mutated.
type Frame struct {
	Model     *network.Model
	Positions layout.Reader
	Selected  string
	Hovered   string
	// Visible reports whether node i passes the search and risk filter.
	Visible func(i int) bool
	// Emphasis multiplies node i's drawn radius, e.g. to animate a
	// selection; nil means 1.
	Emphasis func(i int) float64
	// RingLabel decorates a ring halo label; nil uses the ring id.
	RingLabel func(ringID string) string
}

func (f Frame) visible(i int) bool {
	return f.Visible == nil || f.Visible(i)
}

func (f Frame) emphasis(i int) float64 {
	if f.Emphasis == nil {
		return 1
	}
	return f.Emphasis(i)
}

// DrawnRadius is node i's radius on screen: the tier radius, enlarged when
// selected or hovered, times any emphasis.
func (f Frame) DrawnRadius(i int) float64 {
	n := f.Model.Nodes[i]
	scale := 1.0
	switch {
	case f.Selected != "" && n.ID == f.Selected:
		scale = SelectedScale
	case f.Hovered != "" && n.ID == f.Hovered:
		scale = HoverScale
	}
	return n.Radius() * scale * f.emphasis(i)
}

// Draw performs a full redraw of f onto s: background, ring halos, edges,
// then nodes.
func Draw(s Surface, f Frame) {
	s.Clear(Background)
	if f.Model == nil || f.Positions == nil || f.Model.Empty() || f.Positions.Len() != f.Model.Len() {
		return
	}
	drawHalos(s, f)
	drawEdges(s, f)
	drawNodes(s, f)
}

// Placeholder draws the empty-dataset message centered in b.
func Placeholder(s Surface, b layout.Bounds, msg string) {
	s.Clear(Background)
	s.Text(b.Center(), msg, LabelColor, 1, AlignCenter, false)
}

func drawHalos(s Surface, f Frame) {
	for _, g := range f.Model.Rings() {
		var members []int
		for _, i := range g.Members {
			if f.visible(i) {
				members = append(members, i)
			}
		}
		if len(members) < 2 {
			continue
		}

		var centroid layout.Vec
		top := 0.0
		for _, i := range members {
			centroid = centroid.Add(f.Positions.Position(i))
			top = math.Max(top, f.Model.Nodes[i].RiskScore)
		}
		centroid = centroid.Scale(1 / float64(len(members)))

		radius := 0.0
		for _, i := range members {
			radius = math.Max(radius, centroid.Dist(f.Positions.Position(i))+f.Model.Nodes[i].Radius())
		}
		radius += HaloMargin

		s.RadialGradient(centroid, radius, risk.Color(top), HaloAlpha)
		label := g.ID
		if f.RingLabel != nil {
			label = f.RingLabel(g.ID)
		}
		s.Text(layout.Vec{X: centroid.X, Y: centroid.Y - radius - labelOffset}, label, LabelColor, 1, AlignCenter, true)
	}
}

func drawEdges(s Surface, f Frame) {
	for _, e := range f.Model.Edges {
		src, okS := f.Model.Index(e.SourceID)
		dst, okD := f.Model.Index(e.TargetID)
		if !okS || !okD || !f.visible(src) || !f.visible(dst) {
			continue
		}
		from, to := f.Positions.Position(src), f.Positions.Position(dst)
		d := to.Sub(from)
		dist := d.Len()
		if dist == 0 {
			continue
		}
		rim := f.DrawnRadius(dst)
		if rim >= dist {
			continue
		}
		tip := to.Sub(d.Scale(rim / dist))
		alpha := EdgeAlpha
		if f.Selected != "" && e.SourceID != f.Selected && e.TargetID != f.Selected {
			alpha *= DimAlpha
		}
		s.Arrow(from, tip, ArrowHead, f.Model.Nodes[dst].Color(), alpha)
	}
}

func drawNodes(s Surface, f Frame) {
	for i, n := range f.Model.Nodes {
		if !f.visible(i) {
			continue
		}
		pos := f.Positions.Position(i)
		r := f.DrawnRadius(i)
		alpha := 1.0
		if f.Selected != "" && n.ID != f.Selected {
			alpha = DimAlpha
		}
		glow := GlowAlpha * alpha
		if n.ID == f.Hovered || n.ID == f.Selected {
			glow = math.Min(1, glow*1.5)
		}
		s.RadialGradient(pos, r*GlowScale, n.Color(), glow)
		s.FillCircle(pos, r, n.Color(), alpha)
		s.Text(pos, fmt.Sprintf("%d", int(math.Round(n.RiskScore))), TextColor, alpha, AlignCenter, true)
		s.Text(layout.Vec{X: pos.X, Y: pos.Y + r + labelOffset}, Truncate(n.ID, IDMaxRunes), LabelColor, alpha, AlignCenter, false)
	}
}

// Truncate shortens s to at most max runes, marking the cut with "…".
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max || max < 1 {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// LegendEntry is one row of the tier legend.
type LegendEntry struct {
	Label string
	Color colorful.Color
	Min   float64
}

// Legend lists tiers from most to least severe.
func Legend() []LegendEntry {
	out := make([]LegendEntry, 0, len(risk.Tiers))
	for _, t := range risk.Tiers {
		out = append(out, LegendEntry{Label: t.String(), Color: t.Color(), Min: t.Min()})
	}
	return out
}
