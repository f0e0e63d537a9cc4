// Package surface draws scene commands into a terminal cell grid backed by
// an ntcharts canvas. Alpha is emulated by blending toward whatever is
// already painted in the cell.
package surface

import (
	"math"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"fraudnet/internal/layout"
	"fraudnet/internal/scene"
)

// Logical units covered by one terminal cell. Cells are roughly twice as
// tall as they are wide.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// Cell is one painted terminal cell.
type Cell struct {
	Rune rune
	FG   colorful.Color
	BG   colorful.Color
	Bold bool
}

type styleKey struct {
	fg, bg string
	bold   bool
}

// Terminal implements scene.Surface.
type Terminal struct {
	cols, rows int
	cells      []Cell
	bg         colorful.Color
	cv         canvas.Model
	dirty      bool
	styles     map[styleKey]lipgloss.Style
}

var _ scene.Surface = (*Terminal)(nil)

func New(cols, rows int) *Terminal {
	t := &Terminal{bg: scene.Background, styles: map[styleKey]lipgloss.Style{}}
	t.Resize(cols, rows)
	return t
}

// Resize changes the grid size. Non-positive sizes collapse to 1x1.
func (t *Terminal) Resize(cols, rows int) {
	cols, rows = max(cols, 1), max(rows, 1)
	if cols == t.cols && rows == t.rows {
		return
	}
	t.cols, t.rows = cols, rows
	t.cells = make([]Cell, cols*rows)
	t.cv = canvas.New(cols, rows)
	t.Clear(t.bg)
}

func (t *Terminal) Size() (cols, rows int) { return t.cols, t.rows }

// Bounds returns the logical canvas size this grid displays.
func (t *Terminal) Bounds() (width, height float64) {
	return float64(t.cols) * CellWidth, float64(t.rows) * CellHeight
}

// Logical maps a cell to the logical point at its center.
func (t *Terminal) Logical(col, row int) layout.Vec {
	return layout.Vec{X: (float64(col) + 0.5) * CellWidth, Y: (float64(row) + 0.5) * CellHeight}
}

// CellAt maps a logical point to the cell containing it.
func (t *Terminal) CellAt(p layout.Vec) (col, row int, ok bool) {
	col = int(math.Floor(p.X / CellWidth))
	row = int(math.Floor(p.Y / CellHeight))
	return col, row, t.inside(col, row)
}

// At returns the cell at col,row.
func (t *Terminal) At(col, row int) Cell {
	if !t.inside(col, row) {
		return Cell{}
	}
	return t.cells[row*t.cols+col]
}

func (t *Terminal) inside(col, row int) bool {
	return col >= 0 && row >= 0 && col < t.cols && row < t.rows
}

func (t *Terminal) cell(col, row int) *Cell {
	if !t.inside(col, row) {
		return nil
	}
	return &t.cells[row*t.cols+col]
}

func (t *Terminal) Clear(bg colorful.Color) {
	t.bg = bg
	for i := range t.cells {
		t.cells[i] = Cell{Rune: ' ', FG: bg, BG: bg}
	}
	t.dirty = true
}

// FillCircle paints the background of every cell whose center lies in the
// circle. A circle smaller than a cell still paints the cell under its
// center.
func (t *Terminal) FillCircle(center layout.Vec, r float64, c colorful.Color, alpha float64) {
	t.eachCellIn(center, r, func(cell *Cell, _ float64) {
		cell.BG = blend(cell.BG, c, alpha)
	})
}

// RadialGradient fades linearly from innerAlpha at center to zero at r.
func (t *Terminal) RadialGradient(center layout.Vec, r float64, c colorful.Color, innerAlpha float64) {
	if r <= 0 {
		return
	}
	t.eachCellIn(center, r, func(cell *Cell, d float64) {
		cell.BG = blend(cell.BG, c, innerAlpha*(1-d/r))
	})
}

func (t *Terminal) eachCellIn(center layout.Vec, r float64, fn func(*Cell, float64)) {
	if !center.IsFinite() || r < 0 {
		return
	}
	c0, r0 := int(math.Floor((center.X-r)/CellWidth)), int(math.Floor((center.Y-r)/CellHeight))
	c1, r1 := int(math.Floor((center.X+r)/CellWidth)), int(math.Floor((center.Y+r)/CellHeight))
	painted := false
	for row := max(r0, 0); row <= min(r1, t.rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, t.cols-1); col++ {
			d := t.Logical(col, row).Dist(center)
			if d > r {
				continue
			}
			fn(t.cell(col, row), d)
			painted = true
		}
	}
	if !painted {
		if col, row, ok := t.CellAt(center); ok {
			fn(t.cell(col, row), 0)
		}
	}
	t.dirty = true
}

// Arrow draws a cell line from->to with a direction glyph at the tip.
func (t *Terminal) Arrow(from, to layout.Vec, head float64, c colorful.Color, alpha float64) {
	if !from.IsFinite() || !to.IsFinite() {
		return
	}
	x0, y0, _ := t.CellAt(from)
	x1, y1, _ := t.CellAt(to)
	line := lineGlyph(to.Sub(from))
	tip := headGlyph(to.Sub(from))

	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		if cell := t.cell(x0, y0); cell != nil {
			glyph := line
			if x0 == x1 && y0 == y1 && head > 0 {
				glyph = tip
			}
			cell.Rune = glyph
			cell.FG = blend(cell.BG, c, alpha)
			cell.Bold = false
		}
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
	t.dirty = true
}

func (t *Terminal) Text(pos layout.Vec, s string, c colorful.Color, alpha float64, align scene.Align, bold bool) {
	if !pos.IsFinite() || s == "" {
		return
	}
	runes := []rune(s)
	col, row, _ := t.CellAt(pos)
	if align == scene.AlignCenter {
		col -= len(runes) / 2
	}
	for i, r := range runes {
		cell := t.cell(col+i, row)
		if cell == nil {
			continue
		}
		cell.Rune = r
		cell.FG = blend(cell.BG, c, alpha)
		cell.Bold = bold
	}
	t.dirty = true
}

// View renders the grid.
func (t *Terminal) View() string {
	if t.dirty {
		t.flush()
	}
	return t.cv.View()
}

func (t *Terminal) flush() {
	t.cv.Clear()
	for row := 0; row < t.rows; row++ {
		for col := 0; col < t.cols; col++ {
			cell := t.cells[row*t.cols+col]
			t.cv.SetCell(canvas.Point{X: col, Y: row}, canvas.Cell{Rune: cell.Rune, Style: t.style(cell)})
		}
	}
	t.dirty = false
}

func (t *Terminal) style(c Cell) lipgloss.Style {
	key := styleKey{fg: c.FG.Clamped().Hex(), bg: c.BG.Clamped().Hex(), bold: c.Bold}
	if st, ok := t.styles[key]; ok {
		return st
	}
	st := lipgloss.NewStyle().
		Foreground(lipgloss.Color(key.fg)).
		Background(lipgloss.Color(key.bg)).
		Bold(key.bold)
	if len(t.styles) > 4096 {
		clear(t.styles)
	}
	t.styles[key] = st
	return st
}

func blend(under, over colorful.Color, alpha float64) colorful.Color {
	switch {
	case alpha <= 0 || alpha != alpha:
		return under
	case alpha >= 1:
		return over
	}
	return under.BlendRgb(over, alpha)
}

// lineGlyph picks a box-drawing rune for a direction. Y grows downward.
func lineGlyph(d layout.Vec) rune {
	// Compare in cell units so slopes look right on screen.
	cx, cy := d.X/CellWidth, d.Y/CellHeight
	ax, ay := math.Abs(cx), math.Abs(cy)
	switch {
	case ay < ax/2:
		return '─'
	case ax < ay/2:
		return '│'
	case (cx > 0) == (cy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func headGlyph(d layout.Vec) rune {
	cx, cy := d.X/CellWidth, d.Y/CellHeight
	if math.Abs(cx) >= math.Abs(cy) {
		if cx >= 0 {
			return '▶'
		}
		return '◀'
	}
	if cy >= 0 {
		return '▼'
	}
	return '▲'
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
