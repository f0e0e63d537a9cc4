// Package layout runs the force-directed layout of the fraud network.
package layout

import (
	"math"
	"math/rand/v2"

	"fraudnet/internal/network"
)

// Params tunes the force model. Defaults suit a logical 800x550 canvas.
type Params struct {
	Width        float64
	Height       float64
	Margin       float64
	Repulsion    float64
	RingCohesion float64
	SpringK      float64
	RestLength   float64
	Gravity      float64
	Damping      float64
	MaxSpeed     float64
	Seed         uint64 // 0 picks a random seed
}

func DefaultParams() Params {
	return Params{
		Width:        800,
		Height:       550,
		Margin:       30,
		Repulsion:    2500,
		RingCohesion: 0.15,
		SpringK:      0.004,
		RestLength:   110,
		Gravity:      0.0015,
		Damping:      0.85,
		MaxSpeed:     6,
	}
}

func (p Params) Bounds() Bounds {
	return Bounds{Width: p.Width, Height: p.Height, Margin: p.Margin}
}

// Body is the kinematic state of one node.
type Body struct {
	Pos Vec
	Vel Vec
}

// Reader is the read-only view of the kinematics handed to the renderer and
// the hit-tester. Indices match network.Model.Nodes.
type Reader interface {
	Len() int
	Position(i int) Vec
	Velocity(i int) Vec
	Bounds() Bounds
}

type spring struct {
	src, dst int
}

// Simulation is the single writer of kinematic state.
type Simulation struct {
	params Params
	bodies []Body
	force  []Vec
	edges  []spring
	rings  [][]int
	steps  uint64
}

// New cold-resets kinematics for the model: random positions inside the
// margins and zero velocity.
func New(m *network.Model, p Params) *Simulation {
	s := &Simulation{params: p}
	n := m.Len()
	if n == 0 {
		return s
	}

	seed := p.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	b := p.Bounds()
	s.bodies = make([]Body, n)
	s.force = make([]Vec, n)
	for i := range s.bodies {
		s.bodies[i].Pos = b.Clamp(Vec{
			X: b.Margin + rng.Float64()*(b.Width-2*b.Margin),
			Y: b.Margin + rng.Float64()*(b.Height-2*b.Margin),
		})
	}

	for _, e := range m.Edges {
		src, okS := m.Index(e.SourceID)
		dst, okD := m.Index(e.TargetID)
		if okS && okD && src != dst {
			s.edges = append(s.edges, spring{src: src, dst: dst})
		}
	}
	for _, g := range m.Rings() {
		if len(g.Members) > 1 {
			s.rings = append(s.rings, g.Members)
		}
	}
	return s
}

// Step advances every body by one tick. Forces are computed from the
// previous tick's positions only, then all bodies are integrated.
func (s *Simulation) Step() {
	n := len(s.bodies)
	if n == 0 {
		return
	}
	p := s.params
	for i := range s.force {
		s.force[i] = Vec{}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := s.bodies[i].Pos.Sub(s.bodies[j].Pos)
			dist2 := d.Len2()
			dir := d.Unit()
			if dist2 == 0 {
				dir = separation(i, j)
			}
			f := dir.Scale(p.Repulsion / math.Max(dist2, 1))
			s.force[i] = s.force[i].Add(f)
			s.force[j] = s.force[j].Sub(f)
		}
	}

	for _, members := range s.rings {
		for a := 0; a < len(members); a++ {
			for b := a + 1; b < len(members); b++ {
				i, j := members[a], members[b]
				dir := s.bodies[j].Pos.Sub(s.bodies[i].Pos).Unit()
				f := dir.Scale(p.RingCohesion)
				s.force[i] = s.force[i].Add(f)
				s.force[j] = s.force[j].Sub(f)
			}
		}
	}

	for _, e := range s.edges {
		d := s.bodies[e.dst].Pos.Sub(s.bodies[e.src].Pos)
		dist := d.Len()
		if dist == 0 {
			continue
		}
		f := d.Scale(p.SpringK * (dist - p.RestLength) / dist)
		s.force[e.src] = s.force[e.src].Add(f)
		s.force[e.dst] = s.force[e.dst].Sub(f)
	}

	b := p.Bounds()
	center := b.Center()
	for i := range s.bodies {
		s.force[i] = s.force[i].Add(center.Sub(s.bodies[i].Pos).Scale(p.Gravity))
	}

	for i := range s.bodies {
		body := &s.bodies[i]
		v := body.Vel.Add(s.force[i]).Scale(p.Damping)
		if !v.IsFinite() {
			v = Vec{}
		}
		if speed := v.Len(); speed > p.MaxSpeed {
			v = v.Scale(p.MaxSpeed / speed)
		}
		body.Vel = v
		pos := body.Pos.Add(v)
		if !pos.IsFinite() {
			pos = center
		}
		body.Pos = b.Clamp(pos)
	}
	s.steps++
}

// separation picks a fixed direction for a pair of coincident nodes.
func separation(i, j int) Vec {
	angle := float64(i*31+j*17) * 2.399963229728653
	return Vec{math.Cos(angle), math.Sin(angle)}
}

// Resize moves the canvas edges, scaling positions proportionally.
func (s *Simulation) Resize(width, height float64) {
	if width <= 0 || height <= 0 {
		return
	}
	old := s.params.Bounds()
	s.params.Width, s.params.Height = width, height
	b := s.params.Bounds()
	for i := range s.bodies {
		pos := s.bodies[i].Pos
		if old.Width > 0 && old.Height > 0 {
			pos = Vec{pos.X * width / old.Width, pos.Y * height / old.Height}
		}
		s.bodies[i].Pos = b.Clamp(pos)
	}
}

func (s *Simulation) Len() int           { return len(s.bodies) }
func (s *Simulation) Position(i int) Vec { return s.bodies[i].Pos }
func (s *Simulation) Velocity(i int) Vec { return s.bodies[i].Vel }
func (s *Simulation) Bounds() Bounds     { return s.params.Bounds() }
func (s *Simulation) Params() Params     { return s.params }
func (s *Simulation) Steps() uint64      { return s.steps }

// KineticEnergy sums ½|v|² over all bodies.
func (s *Simulation) KineticEnergy() float64 {
	var e float64
	for _, b := range s.bodies {
		e += 0.5 * b.Vel.Len2()
	}
	return e
}

// View hides the mutating methods from readers.
func (s *Simulation) View() Reader {
	return view{s: s}
}

type view struct {
	s *Simulation
}

func (v view) Len() int           { return v.s.Len() }
func (v view) Position(i int) Vec { return v.s.Position(i) }
func (v view) Velocity(i int) Vec { return v.s.Velocity(i) }
func (v view) Bounds() Bounds     { return v.s.Bounds() }
