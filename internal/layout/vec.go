package layout

import "math"

// Vec is a 2D vector in logical canvas units.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec       { return Vec{v.X + o.X, v.Y + o.Y} }
func (v Vec) Sub(o Vec) Vec       { return Vec{v.X - o.X, v.Y - o.Y} }
func (v Vec) Scale(k float64) Vec { return Vec{v.X * k, v.Y * k} }
func (v Vec) Len2() float64       { return v.X*v.X + v.Y*v.Y }
func (v Vec) Len() float64        { return math.Sqrt(v.Len2()) }
func (v Vec) Dist(o Vec) float64  { return v.Sub(o).Len() }
func (v Vec) IsFinite() bool      { return !math.IsNaN(v.X+v.Y) && !math.IsInf(v.X+v.Y, 0) }

// Unit returns v normalized, or the zero vector when v has no length.
func (v Vec) Unit() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return v.Scale(1 / l)
}

// Bounds is the canvas the simulation lays nodes out in.
type Bounds struct {
	Width, Height, Margin float64
}

func (b Bounds) Center() Vec {
	return Vec{b.Width / 2, b.Height / 2}
}

// Clamp keeps p inside the margins. A canvas narrower than twice the margin
// collapses that axis onto its center line.
func (b Bounds) Clamp(p Vec) Vec {
	return Vec{clampAxis(p.X, b.Width, b.Margin), clampAxis(p.Y, b.Height, b.Margin)}
}

func (b Bounds) Contains(p Vec) bool {
	return b.Clamp(p) == p
}

func clampAxis(v, size, margin float64) float64 {
	lo, hi := margin, size-margin
	if lo > hi {
		return size / 2
	}
	return math.Min(math.Max(v, lo), hi)
}
