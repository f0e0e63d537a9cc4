package views

import (
	"fmt"

	"fraudnet/internal/engine"
	"fraudnet/ui/tui/state"
	"fraudnet/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

// CanvasZone is the bubblezone id of the graph canvas.
const CanvasZone = "canvas"

type NetworkView struct{}

func (v NetworkView) Render(s state.AppState, props ViewProps) string {
	header := RenderHeader(s, props)
	filters := RenderFilterBar(props)

	canvas := zone.Mark(CanvasZone, props.CanvasView)

	side := []string{RenderDetails(props), RenderLegend()}
	if props.EnergyView != "" {
		side = append(side, props.EnergyView)
	}
	panel := lipgloss.NewStyle().Width(props.PanelWidth).MaxHeight(props.CanvasHeight).
		Render(lipgloss.JoinVertical(lipgloss.Left, side...))

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvas, panel)

	return zone.Scan(lipgloss.JoinVertical(lipgloss.Left,
		header,
		filters,
		body,
		RenderStatusBar(s, props),
	))
}

// RenderHeader is the title line shared by all pages.
func RenderHeader(s state.AppState, props ViewProps) string {
	spin := " "
	if s.Loading {
		spin = props.SpinnerView
	}
	source := s.Source
	if source == "" {
		source = "no source"
	}
	tabs := ""
	for _, p := range state.Pages {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(styles.MutedColor)
		if p == s.CurrentPage {
			style = style.Bold(true).Foreground(lipgloss.Color("#FFF")).Background(styles.BrandColor)
		}
		tabs += style.Render(p.String())
	}
	title := lipgloss.JoinHorizontal(lipgloss.Center,
		spin,
		styles.TitleStyle.Render("FRAUDNET"),
		tabs,
		lipgloss.NewStyle().Foreground(styles.MutedColor).PaddingLeft(2).Render(source),
	)
	return styles.HeaderStyle.Width(props.Width).Render(title)
}

// RenderStatusBar shows counts, refresh time, errors and perf.
func RenderStatusBar(s state.AppState, props ViewProps) string {
	text := fmt.Sprintf("%d/%d accounts shown", props.Visible, props.Total)
	if !s.LastUpdate.IsZero() {
		text += " · updated " + s.LastUpdate.Format("15:04:05")
	}
	if s.HasPerf {
		text += " · " + s.Perf.String()
	}
	if s.Err != nil {
		text += " · " + ColorForStatus(engine.StatusCritical).Render(s.Err.Error())
	}
	text += " · [/] search [1-5] filter [tab] page [q] quit"
	return styles.StatusBarStyle.Width(props.Width).MaxHeight(1).Render(text)
}
