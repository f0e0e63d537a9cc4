package views

import (
	"fmt"

	"fraudnet/internal/engine"
	"fraudnet/internal/output"
	"fraudnet/ui/tui/state"
	"fraudnet/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

type ReportView struct{}

func (v ReportView) Render(s state.AppState, props ViewProps) string {
	header := RenderHeader(s, props)
	report := props.Report

	if report.Accounts == 0 {
		empty := lipgloss.Place(props.Width, max(props.Height-2, 1), lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(styles.MutedColor).Render(engine.EmptyMessage))
		return lipgloss.JoinVertical(lipgloss.Left, header, empty)
	}

	summary := fmt.Sprintf("Analysis %s · %d accounts · %d transfers · %d rings",
		report.AnalysisID, report.Accounts, report.Edges, report.Rings)

	card := func(id string) string {
		sec := report.SectionByID(id)
		if sec == nil || len(sec.Items) == 0 {
			return ""
		}
		return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(sec.Title),
			RenderSection(sec),
		))
	}

	row1 := lipgloss.JoinHorizontal(lipgloss.Top, card(output.SectionHealth), card(output.SectionTiers))
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, card(output.SectionRings), card(output.SectionTop))

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Padding(0, 1).Render(summary),
		row1,
		row2,
		RenderStatusBar(s, props),
	)
}
