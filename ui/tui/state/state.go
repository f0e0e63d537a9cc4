package state

import (
	"time"

	"fraudnet/internal/engine"
	"fraudnet/internal/perf"
)

type Page int

const (
	PageNetwork Page = iota // live graph
	PageReport              // health checks and summary sections
	PageEvents              // load and refresh log
)

// Pages lists the pages in tab order.
var Pages = []Page{PageNetwork, PageReport, PageEvents}

func (p Page) String() string {
	switch p {
	case PageReport:
		return "Report"
	case PageEvents:
		return "Events"
	default:
		return "Network"
	}
}

// Next returns the following page, wrapping around.
func (p Page) Next() Page {
	return Pages[(int(p)+1)%len(Pages)]
}

// AppState holds what the views render besides the engine itself.
type AppState struct {
	Source      string
	Loading     bool
	LastUpdate  time.Time
	Err         error
	Checks      []engine.CheckResult
	Perf        perf.Sample
	HasPerf     bool
	Events      []string
	CurrentPage Page
}

// MaxEvents bounds the event log.
const MaxEvents = 100

// Log appends a timestamped line to the event log.
func (s *AppState) Log(at time.Time, line string) {
	s.Events = append(s.Events, "["+at.Format("15:04:05")+"] "+line)
	if len(s.Events) > MaxEvents {
		s.Events = s.Events[len(s.Events)-MaxEvents:]
	}
}
