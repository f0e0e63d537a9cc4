package views

import (
	"fmt"
	"strings"

	"fraudnet/internal/engine"
	"fraudnet/internal/output"
	"fraudnet/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// RenderSection renders one report section as aligned label/value rows.
func RenderSection(sec *output.Section) string {
	var b strings.Builder
	for _, item := range sec.Items {
		valStr := fmt.Sprintf("%.1f%s", item.Value, item.Unit)
		if item.Status != "" {
			valStr = ColorForStatus(item.Status).Render(fmt.Sprintf("%s [%s]", valStr, item.Status))
		}
		line := fmt.Sprintf("%-22s : %s", item.Label, valStr)
		if item.Note != "" {
			line += lipgloss.NewStyle().Foreground(styles.MutedColor).Render("  " + item.Note)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func ColorForStatus(status string) lipgloss.Style {
	sStyle := styles.StatusStyle
	if status == engine.StatusWarning {
		return sStyle.Foreground(lipgloss.Color("220")) // Gold
	} else if status == engine.StatusCritical {
		return sStyle.Foreground(lipgloss.Color("196")) // Red
	}
	return sStyle.Foreground(lipgloss.Color("46")) // Green
}

// bar renders a fixed-width meter for value out of full.
func bar(value, full float64, width int, color lipgloss.Color) string {
	filled := 0
	if full > 0 {
		filled = int(float64(width) * value / full)
	}
	filled = min(max(filled, 0), width)
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(styles.BaseColor).Render(strings.Repeat("░", width-filled))
}
