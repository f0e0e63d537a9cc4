package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FrameMsg is one animation tick. Gen identifies the loop run that armed it.
type FrameMsg struct {
	Gen uint64
	At  time.Time
}

// FrameLoop is a cancellable repeating tick. Every Start or Stop bumps the
// generation, so ticks armed by an earlier run are rejected by Accept and
// never re-armed.
type FrameLoop struct {
	Interval time.Duration
	gen      uint64
	running  bool
}

func NewFrameLoop(interval time.Duration) *FrameLoop {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return &FrameLoop{Interval: interval}
}

// Start begins a new run, superseding any run in progress.
func (l *FrameLoop) Start() tea.Cmd {
	l.gen++
	l.running = true
	return l.tick()
}

func (l *FrameLoop) Stop() {
	if l.running {
		l.gen++
	}
	l.running = false
}

func (l *FrameLoop) Running() bool { return l.running }

func (l *FrameLoop) Generation() uint64 { return l.gen }

// Accept reports whether msg belongs to the current run.
func (l *FrameLoop) Accept(msg FrameMsg) bool {
	return l.running && msg.Gen == l.gen
}

// Next arms the following tick of the current run.
func (l *FrameLoop) Next() tea.Cmd {
	if !l.running {
		return nil
	}
	return l.tick()
}

func (l *FrameLoop) tick() tea.Cmd {
	gen := l.gen
	return tea.Tick(l.Interval, func(t time.Time) tea.Msg {
		return FrameMsg{Gen: gen, At: t}
	})
}
