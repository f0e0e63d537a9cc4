package views

import (
	"fraudnet/ui/tui/state"
)

func RenderNetwork(s state.AppState, props ViewProps) string {
	return NetworkView{}.Render(s, props)
}

func RenderReport(s state.AppState, props ViewProps) string {
	return ReportView{}.Render(s, props)
}

func RenderEvents(s state.AppState, props ViewProps) string {
	return EventsView{}.Render(s, props)
}
