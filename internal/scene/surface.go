// Package scene turns a network model, its kinematics and the interaction
// state into draw commands on an abstract surface.
package scene

import (
	"github.com/lucasb-eyer/go-colorful"

	"fraudnet/internal/layout"
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
)

// Surface is the minimal command set the renderer needs. Coordinates are
// logical canvas units; alpha is in [0,1].
type Surface interface {
	Clear(bg colorful.Color)
	FillCircle(center layout.Vec, r float64, c colorful.Color, alpha float64)
	// Arrow draws a line ending in a triangular head of size head at to.
	Arrow(from, to layout.Vec, head float64, c colorful.Color, alpha float64)
	// RadialGradient fades from innerAlpha at center to transparent at r.
	RadialGradient(center layout.Vec, r float64, c colorful.Color, innerAlpha float64)
	Text(pos layout.Vec, s string, c colorful.Color, alpha float64, align Align, bold bool)
}

// Op names a recorded command.
type Op string

const (
	OpClear    Op = "clear"
	OpCircle   Op = "circle"
	OpArrow    Op = "arrow"
	OpGradient Op = "gradient"
	OpText     Op = "text"
)

// Command is one recorded draw call.
type Command struct {
	Op     Op
	At     layout.Vec
	To     layout.Vec
	Radius float64
	Color  colorful.Color
	Alpha  float64
	Text   string
	Align  Align
	Bold   bool
}

// Recorder is a Surface that keeps every command it receives.
type Recorder struct {
	Commands []Command
}

func (r *Recorder) Clear(bg colorful.Color) {
	r.Commands = append(r.Commands[:0], Command{Op: OpClear, Color: bg, Alpha: 1})
}

func (r *Recorder) FillCircle(center layout.Vec, radius float64, c colorful.Color, alpha float64) {
	r.Commands = append(r.Commands, Command{Op: OpCircle, At: center, Radius: radius, Color: c, Alpha: alpha})
}

func (r *Recorder) Arrow(from, to layout.Vec, head float64, c colorful.Color, alpha float64) {
	r.Commands = append(r.Commands, Command{Op: OpArrow, At: from, To: to, Radius: head, Color: c, Alpha: alpha})
}

func (r *Recorder) RadialGradient(center layout.Vec, radius float64, c colorful.Color, innerAlpha float64) {
	r.Commands = append(r.Commands, Command{Op: OpGradient, At: center, Radius: radius, Color: c, Alpha: innerAlpha})
}

func (r *Recorder) Text(pos layout.Vec, s string, c colorful.Color, alpha float64, align Align, bold bool) {
	r.Commands = append(r.Commands, Command{Op: OpText, At: pos, Text: s, Color: c, Alpha: alpha, Align: align, Bold: bold})
}

// Count returns how many commands of op were recorded.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Commands {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Texts returns the recorded text strings in draw order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, c := range r.Commands {
		if c.Op == OpText {
			out = append(out, c.Text)
		}
	}
	return out
}
