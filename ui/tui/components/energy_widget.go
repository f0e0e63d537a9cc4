package components

import (
	"fmt"

	"fraudnet/ui/tui/styles"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// EnergyWidget charts the layout's kinetic energy. A flat line near zero
// means the layout has settled.
type EnergyWidget struct {
	Chart    linechart.Model
	History  []float64
	Capacity int
	Width    int
	Height   int
}

func NewEnergyWidget(width, height, capacity int) *EnergyWidget {
	capacity = max(capacity, 2)
	// width, height, minX, maxX, minY, maxY
	lc := linechart.New(width, height, 0, float64(capacity-1), 0, 1)
	return &EnergyWidget{
		Chart:    lc,
		History:  make([]float64, 0, capacity),
		Capacity: capacity,
		Width:    width,
		Height:   height,
	}
}

func (w *EnergyWidget) Init() tea.Cmd {
	return nil
}

func (w *EnergyWidget) Push(value float64) {
	if value != value || value < 0 {
		value = 0
	}
	w.History = append(w.History, value)
	if len(w.History) > w.Capacity {
		w.History = w.History[1:]
	}
}

// Reset drops the history, e.g. after a new dataset cold-starts the layout.
func (w *EnergyWidget) Reset() {
	w.History = w.History[:0]
}

// Peak returns the largest value in the window.
func (w *EnergyWidget) Peak() float64 {
	peak := 0.0
	for _, v := range w.History {
		peak = max(peak, v)
	}
	return peak
}

func (w *EnergyWidget) Last() float64 {
	if len(w.History) == 0 {
		return 0
	}
	return w.History[len(w.History)-1]
}

func (w *EnergyWidget) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return w, nil
}

func (w *EnergyWidget) Resize(width, height int) {
	w.Width = width
	w.Height = height
	w.Chart.Resize(width, height)
}

func (w *EnergyWidget) View() string {
	// Rescale Y to the window peak so a settling layout stays readable.
	peak := w.Peak()
	if peak <= 0 {
		peak = 1
	}
	w.Chart = linechart.New(w.Width, w.Height, 0, float64(w.Capacity-1), 0, peak)
	for i := 0; i < len(w.History)-1; i++ {
		w.Chart.DrawBrailleLine(
			canvas.Float64Point{X: float64(i), Y: w.History[i]},
			canvas.Float64Point{X: float64(i + 1), Y: w.History[i+1]},
		)
	}
	w.Chart.DrawXYAxisAndLabel()

	return styles.CardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Layout Energy  %.2f", w.Last())),
			w.Chart.View(),
		),
	)
}
