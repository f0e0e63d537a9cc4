package components

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Widget is a side-panel element. It renders inside the panel width it
// was last resized to and accepts per-frame samples.
type Widget interface {
	tea.Model
	Resize(width, height int)
	Push(value float64)
	Reset()
}

var _ Widget = (*EnergyWidget)(nil)
