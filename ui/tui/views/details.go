package views

import (
	"fmt"
	"strings"

	"fraudnet/internal/network"
	"fraudnet/internal/risk"
	"fraudnet/internal/scene"
	"fraudnet/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

const maxListedTransfers = 5

// RenderDetails shows the selected account, or a hint when none is.
func RenderDetails(props ViewProps) string {
	width := max(props.PanelWidth-4, 10)
	title := lipgloss.NewStyle().Bold(true).Render("Account")

	if !props.HasDetails {
		hint := lipgloss.NewStyle().Foreground(styles.MutedColor).Width(width).
			Render("Click a node to inspect it.")
		return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, hint))
	}

	d := props.Details
	n := d.Node
	tierColor := styles.TierColor(n.Tier())

	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(tierColor).Render(scene.Truncate(n.ID, width)),
		fmt.Sprintf("Score %5.1f %s", n.RiskScore, bar(n.RiskScore, risk.MaxScore, max(width-12, 4), tierColor)),
		fmt.Sprintf("Tier  %s", lipgloss.NewStyle().Foreground(tierColor).Render(n.Tier().String())),
		fmt.Sprintf("Degree in %d / out %d", n.InDegree, n.OutDegree),
	}

	if n.InRing() {
		ring := n.RingID
		if d.HasRing {
			ring = fmt.Sprintf("%s (%s, risk %.1f)", n.RingID, d.Ring.PatternType, d.Ring.RiskScore)
		}
		lines = append(lines, "Ring  "+ring)
	}
	if len(n.DetectedPatterns) > 0 {
		lines = append(lines, "Patterns "+strings.Join(n.DetectedPatterns, ", "))
	}

	lines = append(lines, "",
		fmt.Sprintf("Inflow  %10.2f  (%d)", d.Inflow, len(d.Incoming)),
		fmt.Sprintf("Outflow %10.2f  (%d)", d.Outflow, len(d.Outgoing)),
	)
	lines = append(lines, transferLines("←", d.Incoming, true)...)
	lines = append(lines, transferLines("→", d.Outgoing, false)...)

	body := lipgloss.NewStyle().Width(width).Render(strings.Join(lines, "\n"))
	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func transferLines(arrow string, edges []network.Edge, incoming bool) []string {
	var out []string
	for i, e := range edges {
		if i == maxListedTransfers {
			out = append(out, fmt.Sprintf("  … %d more", len(edges)-i))
			break
		}
		peer := e.TargetID
		if incoming {
			peer = e.SourceID
		}
		out = append(out, fmt.Sprintf("  %s %-10s %9.2f ×%d", arrow, scene.Truncate(peer, 10), e.Amount, e.TxnCount))
	}
	return out
}

// RenderLegend lists the tier colors and thresholds.
func RenderLegend() string {
	rows := []string{lipgloss.NewStyle().Bold(true).Render("Risk")}
	for _, entry := range scene.Legend() {
		swatch := lipgloss.NewStyle().Foreground(styles.Color(entry.Color)).Render("●")
		rows = append(rows, fmt.Sprintf("%s %-8s ≥ %.0f", swatch, entry.Label, entry.Min))
	}
	return styles.CardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
