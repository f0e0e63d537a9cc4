package views

import (
	"fmt"
	"math"

	"fraudnet/internal/interact"
	"fraudnet/internal/risk"
	"fraudnet/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

// FilterZone is the bubblezone id of the i-th filter chip.
func FilterZone(i int) string {
	return fmt.Sprintf("filter_%d", i)
}

// RenderFilterBar draws one chip per risk filter followed by the search box.
// The chip nearest the animated cursor gets the highlight.
func RenderFilterBar(props ViewProps) string {
	chips := make([]string, 0, len(interact.Filters)+1)
	for i, f := range interact.Filters {
		dist := math.Abs(float64(i) - props.FilterCursor)
		strength := 0.0
		if dist < 1.0 {
			strength = 1.0 - dist
		}

		color := styles.BaseColor
		if t, ok := tierOf(f); ok {
			color = styles.TierColor(t)
		}

		style := styles.ChipStyle
		if strength > 0.5 || f == props.Filter {
			style = style.BorderForeground(color).Foreground(lipgloss.Color("#FFF"))
		}
		if f == props.Filter {
			style = style.Bold(true)
		}

		label := fmt.Sprintf("%d %s", i+1, f)
		chips = append(chips, zone.Mark(FilterZone(i), style.Render(label)))
	}

	search := styles.ChipStyle.Width(max(props.Width/4, 20)).Render(props.SearchView)
	chips = append(chips, search)

	return lipgloss.JoinHorizontal(lipgloss.Top, chips...)
}

func tierOf(f interact.RiskFilter) (risk.Tier, bool) {
	switch f {
	case interact.FilterCritical:
		return risk.Critical, true
	case interact.FilterHigh:
		return risk.High, true
	case interact.FilterMedium:
		return risk.Medium, true
	case interact.FilterLow:
		return risk.Low, true
	}
	return risk.Low, false
}
