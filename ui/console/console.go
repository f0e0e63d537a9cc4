package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/lucasb-eyer/go-colorful"

	"fraudnet/internal/output"
)

var (
	Heading = color.New(color.FgCyan, color.Bold)
	Leader  = color.New(color.FgCyan)
	Subtle  = color.New(color.FgHiBlack)
	Good    = color.New(color.FgGreen)
	Warn    = color.New(color.FgYellow)
	Bad     = color.New(color.FgRed)
)

const (
	labelWidth = 20
	noteWidth  = 28
)

// Print renders the report view to the writer in a compact format.
func Print(w io.Writer, view output.ReportView) {
	title := "FRAUDNET REPORT"
	if view.AnalysisID != "" {
		title += " " + view.AnalysisID
	}
	Heading.Fprintf(w, "■ %s\n", title)

	for _, sec := range view.Sections {
		if len(sec.Items) == 0 {
			continue
		}
		Heading.Fprintf(w, "─ %s\n", sec.Title)

		for _, it := range sec.Items {
			label := truncate(it.Label, labelWidth)

			valStr := ""
			switch {
			case it.Unit != "":
				valStr = fmt.Sprintf("%.1f%s", it.Value, it.Unit)
			case it.Value != 0 || it.Status != "":
				valStr = fmt.Sprintf("%.0f", it.Value)
			}

			note := ""
			if it.Note != "" {
				note = " " + noteFor(sec.ID, it.Note)
			}

			dots := strings.Repeat("·", labelWidth+2-len([]rune(label)))
			fmt.Fprintf(w, "  %s%s %10s%s%s\n", label, Leader.Sprint(dots), valStr, statusMarker(it.Status), note)
		}
	}

	Heading.Fprint(w, "─ Summary")
	fmt.Fprintf(w, ": %d accounts | %d transfers | %d rings\n\n", view.Accounts, view.Edges, view.Rings)
}

// noteFor renders tier notes (hex colors) as a colored swatch.
func noteFor(section, note string) string {
	if section == output.SectionTiers {
		if c, err := colorful.Hex(note); err == nil {
			r, g, b := c.RGB255()
			return color.RGB(int(r), int(g), int(b)).Sprint("●")
		}
	}
	return Subtle.Sprint(truncate(note, noteWidth))
}

func statusMarker(status string) string {
	switch status {
	case "OK":
		return " " + colorFor(status).Sprint("✓")
	case "WARN":
		return " " + colorFor(status).Sprint("!")
	case "CRIT":
		return " " + colorFor(status).Sprint("X")
	default:
		return ""
	}
}

func colorFor(status string) *color.Color {
	switch status {
	case "WARN":
		return Warn
	case "CRIT":
		return Bad
	default:
		return Good
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
