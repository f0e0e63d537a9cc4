package views

import (
	"fraudnet/internal/engine"
	"fraudnet/internal/interact"
	"fraudnet/internal/output"
	"fraudnet/ui/tui/state"
)

// ViewProps contains UI-specific properties provided by the Controller.
type ViewProps struct {
	Width, Height int

	// Component States
	Filter       interact.RiskFilter
	FilterCursor float64 // animated position of the filter highlight
	SearchView   string
	SpinnerView  string
	CanvasView   string
	EnergyView   string
	ScrollY      int

	// Network state
	Details      engine.Details
	HasDetails   bool
	Visible      int
	Total        int
	Report       output.ReportView
	PanelWidth   int
	CanvasHeight int
}

// View defines the contract for any renderable page in the TUI.
type View interface {
	Render(s state.AppState, props ViewProps) string
}
