package views

import (
	"fmt"
	"strings"

	"fraudnet/ui/tui/state"
	"fraudnet/ui/tui/styles"

	"github.com/charmbracelet/lipgloss"
)

// EventsView is a scrollable log of loads, refreshes and errors.
type EventsView struct{}

func (v EventsView) Render(s state.AppState, props ViewProps) string {
	header := RenderHeader(s, props)

	availableHeight := props.Height - lipgloss.Height(header) - 3
	if availableHeight < 1 {
		availableHeight = 1
	}

	lines := s.Events
	if len(lines) == 0 {
		lines = []string{"No events yet."}
	}
	totalLines := len(lines)

	scrollY := ClampScroll(props.ScrollY, totalLines, availableHeight)
	end := min(scrollY+availableHeight, totalLines)

	box := lipgloss.NewStyle().
		Width(max(props.Width-4, 1)).
		Height(availableHeight).
		Padding(0, 1).
		Render(strings.Join(lines[scrollY:end], "\n"))

	footerText := fmt.Sprintf("Scroll: %d/%d • [tab] next page", scrollY, totalLines)
	if totalLines > availableHeight {
		footerText += " • Use ↑/↓ to scroll"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Padding(1, 1, 0, 1).Render(box),
		lipgloss.NewStyle().PaddingLeft(2).Foreground(styles.BaseColor).Render(footerText),
	)
}

// ClampScroll keeps a scroll offset inside [0, total-visible].
func ClampScroll(scrollY, total, visible int) int {
	if scrollY > total-visible {
		scrollY = total - visible
	}
	if scrollY < 0 {
		scrollY = 0
	}
	return scrollY
}
