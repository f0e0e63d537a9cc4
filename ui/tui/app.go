package tui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fraudnet/internal/config"
	"fraudnet/internal/database"
	"fraudnet/internal/dataset"
	"fraudnet/internal/engine"
	"fraudnet/internal/interact"
	"fraudnet/internal/output"
	"fraudnet/internal/perf"
	"fraudnet/internal/scene"
	"fraudnet/ui/tui/components"
	"fraudnet/ui/tui/state"
	"fraudnet/ui/tui/surface"
	"fraudnet/ui/tui/views"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
)

const (
	headerHeight    = 1
	filterBarHeight = 3
	statusHeight    = 1
	maxPanelWidth   = 38
	energyHeight    = 6
)

// MainModel is the Bubble Tea Model acting as the Controller
type MainModel struct {
	cfg       config.Config
	log       *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	refresher *database.Refresher
	sampler   *perf.Sampler

	engine  *engine.Engine
	surface *surface.Terminal
	loop    *FrameLoop
	state   state.AppState

	spinner    spinner.Model
	search     textinput.Model
	energy     components.Widget
	showEnergy bool

	filterSpring harmonica.Spring
	filterPos    float64
	filterVel    float64

	emphSpring harmonica.Spring
	emphID     string
	emph       float64
	emphVel    float64

	scrollY    int
	width      int
	height     int
	panelWidth int
	quitting   bool
}

// Messages
type TickMsg time.Time

type PerfSampledMsg struct {
	Sample perf.Sample
	Err    error
}

// UpdateMsg carries a refresher update. Watched updates re-arm the wait.
// Unchanged reports a manual load that found nothing new; Update is empty.
type UpdateMsg struct {
	Update    database.Update
	Watched   bool
	Unchanged bool
}

// InitialModel wires the engine to src. A nil src shows the placeholder
// until the program exits.
func InitialModel(cfg config.Config, src dataset.Source, log *slog.Logger, ropts ...database.Option) (MainModel, error) {
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.Placeholder = "search account id"
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := MainModel{
		cfg:        cfg,
		log:        log,
		ctx:        ctx,
		cancel:     cancel,
		engine:     engine.New(cfg.Params(), engine.WithLogger(log)),
		surface:    surface.New(1, 1),
		loop:       NewFrameLoop(cfg.View.FrameInterval),
		spinner:    s,
		search:     ti,
		energy:     components.NewEnergyWidget(30, energyHeight, cfg.View.EnergyHistory),
		showEnergy: cfg.View.ShowEnergy,
		// Increased frequency for snappy response; damping below 1 gives a small overshoot.
		filterSpring: harmonica.NewSpring(harmonica.FPS(60), 12.0, 0.9),
		emphSpring:   harmonica.NewSpring(harmonica.FPS(60), 8.0, 0.4),
		emph:         1,
		state:        state.AppState{CurrentPage: state.PageNetwork},
	}

	if f, err := interact.ParseRiskFilter(cfg.View.Filter); err == nil {
		m.engine.SetFilter(f)
		m.filterPos = float64(f)
	}

	if src != nil {
		opts := append([]database.Option{
			database.WithInterval(cfg.Sources.RefreshInterval),
			database.WithLoadTimeout(cfg.Sources.LoadTimeout),
			database.WithLogger(log),
		}, ropts...)
		r, err := database.NewRefresher(src, opts...)
		if err != nil {
			cancel()
			return MainModel{}, fmt.Errorf("create refresher: %w", err)
		}
		m.refresher = r
		m.state.Source = src.Name()
	}

	if cfg.View.ShowPerf {
		sampler, err := perf.NewSampler(ctx)
		if err != nil {
			log.Warn("perf sampler unavailable", "err", err)
		} else {
			m.sampler = sampler
		}
	}
	return m, nil
}

func (m *MainModel) Init() tea.Cmd {
	zone.NewGlobal()
	cmds := []tea.Cmd{m.spinner.Tick}
	if m.refresher != nil {
		m.state.Loading = true
		cmds = append(cmds, m.startSource())
	}
	if m.sampler != nil {
		cmds = append(cmds, tickCmd(m.cfg.View.PerfInterval))
	}
	return tea.Batch(cmds...)
}

// Commands
func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func samplePerfCmd(ctx context.Context, s *perf.Sampler) tea.Cmd {
	return func() tea.Msg {
		sample, err := s.Collect(ctx)
		return PerfSampledMsg{Sample: sample, Err: err}
	}
}

func (m *MainModel) startSource() tea.Cmd {
	if m.cfg.Sources.RefreshInterval > 0 {
		if err := m.refresher.Start(m.ctx); err != nil {
			m.log.Warn("refresher start failed", "err", err)
		}
		return waitForUpdateCmd(m.ctx, m.refresher)
	}
	return loadOnceCmd(m.ctx, m.refresher)
}

func waitForUpdateCmd(ctx context.Context, r *database.Refresher) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case u := <-r.Updates():
			return UpdateMsg{Update: u, Watched: true}
		}
	}
}

func loadOnceCmd(ctx context.Context, r *database.Refresher) tea.Cmd {
	return func() tea.Msg {
		_, _ = r.PullOnce(ctx)
		select {
		case u := <-r.Updates():
			return UpdateMsg{Update: u}
		default:
			return UpdateMsg{Unchanged: true}
		}
	}
}

func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case FrameMsg:
		return m.handleFrameMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case UpdateMsg:
		return m.handleUpdateMsg(msg)

	case TickMsg:
		return m.handleTickMsg(msg)

	case PerfSampledMsg:
		return m.handlePerfSampledMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)
	}

	return m, nil
}

func (m *MainModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	if m.search.Focused() {
		switch msg.String() {
		case "esc":
			m.search.Blur()
			m.clearSearch()
			return m, nil
		case "enter":
			m.search.Blur()
			return m, nil
		case "ctrl+u":
			m.clearSearch()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.engine.SetSearch(m.search.Value())
		m.redrawIfIdle()
		return m, cmd
	}

	switch msg.String() {
	case "q":
		return m.quit()
	case "/":
		m.state.CurrentPage = state.PageNetwork
		return m, m.search.Focus()
	case "esc", "ctrl+u":
		m.clearSearch()
	case "tab":
		m.state.CurrentPage = m.state.CurrentPage.Next()
		m.scrollY = 0
	case "1", "2", "3", "4", "5":
		m.setFilter(interact.Filters[int(msg.String()[0]-'1')])
	case "f", "right":
		m.setFilter(m.engine.State().Filter.Next())
	case "F", "left":
		m.setFilter(m.engine.State().Filter.Prev())
	case "e":
		m.showEnergy = !m.showEnergy
	case "r":
		if m.refresher != nil {
			m.state.Loading = true
			return m, loadOnceCmd(m.ctx, m.refresher)
		}
	case "up", "k":
		if m.scrollY > 0 {
			m.scrollY--
		}
	case "down", "j":
		m.scrollY++
	}
	return m, nil
}

func (m *MainModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.Shutdown()
	return m, tea.Quit
}

// Shutdown stops the frame loop and background work. Safe to call twice.
func (m *MainModel) Shutdown() {
	m.loop.Stop()
	m.cancel()
	if m.refresher != nil {
		m.refresher.Stop()
	}
}

func (m *MainModel) clearSearch() {
	m.search.SetValue("")
	m.engine.SetSearch("")
	m.redrawIfIdle()
}

func (m *MainModel) setFilter(f interact.RiskFilter) {
	m.engine.SetFilter(f)
	if !m.loop.Running() {
		m.filterPos, m.filterVel = float64(f), 0
	}
	m.redrawIfIdle()
}

// redrawIfIdle repaints when no frame loop will do it.
func (m *MainModel) redrawIfIdle() {
	if !m.loop.Running() {
		m.engine.Draw(m.surface)
	}
}

func (m *MainModel) handleFrameMsg(msg FrameMsg) (tea.Model, tea.Cmd) {
	if !m.loop.Accept(msg) {
		return m, nil
	}

	m.filterPos, m.filterVel = m.filterSpring.Update(m.filterPos, m.filterVel, float64(m.engine.State().Filter))

	// A fresh selection starts at its unselected size and springs out to
	// the full selected scale.
	selected := m.engine.State().SelectedID
	if selected != m.emphID {
		m.emphID, m.emph, m.emphVel = selected, 1/scene.SelectedScale, 0
	}
	m.emph, m.emphVel = m.emphSpring.Update(m.emph, m.emphVel, 1)
	m.engine.SetEmphasis(selected, m.emph)

	m.engine.Frame(m.surface)
	m.energy.Push(m.engine.KineticEnergy())
	return m, m.loop.Next()
}

func (m *MainModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.panelWidth = min(maxPanelWidth, msg.Width/3)

	cols := msg.Width - m.panelWidth
	rows := msg.Height - headerHeight - filterBarHeight - statusHeight
	m.surface.Resize(cols, rows)
	m.engine.Resize(m.surface.Bounds())

	if w := m.panelWidth - 6; w > 10 {
		m.energy.Resize(w, energyHeight)
	}
	return m, m.syncLoop()
}

// syncLoop runs the frame loop exactly when there is a dataset and a
// surface to draw it on.
func (m *MainModel) syncLoop() tea.Cmd {
	attached := m.width > 0 && m.height > 0
	if m.engine.Active() && attached {
		if !m.loop.Running() {
			return m.loop.Start()
		}
		return nil
	}
	m.loop.Stop()
	m.engine.Draw(m.surface)
	return nil
}

func (m *MainModel) handleUpdateMsg(msg UpdateMsg) (tea.Model, tea.Cmd) {
	var next tea.Cmd
	if msg.Watched {
		next = waitForUpdateCmd(m.ctx, m.refresher)
	}
	m.state.Loading = false
	if msg.Unchanged {
		return m, next
	}

	u := msg.Update
	if u.Err != nil {
		m.state.Err = u.Err
		m.state.Log(time.Now(), "refresh failed: "+u.Err.Error())
		return m, next
	}

	m.state.Err = nil
	m.state.Source = u.Source
	m.state.LastUpdate = u.LoadedAt

	// A new dataset cold-starts the layout, so the old run must not tick on.
	m.loop.Stop()
	m.engine.Load(u.Analysis)
	m.energy.Reset()
	m.emphID, m.emph, m.emphVel = "", 1, 0
	m.engine.SetEmphasis("", 1)
	m.state.Checks = engine.Evaluate(m.engine.Model(), m.engine.Stats())

	model, stats := m.engine.Model(), m.engine.Stats()
	m.state.Log(u.LoadedAt, fmt.Sprintf("loaded %s: %d accounts, %d transfers, %d rings, %d dropped edges",
		u.Source, model.Len(), len(model.Edges), len(model.Rings()), stats.DroppedEdges))

	return m, tea.Batch(next, m.syncLoop())
}

func (m *MainModel) handleTickMsg(msg TickMsg) (tea.Model, tea.Cmd) {
	if m.sampler == nil {
		return m, nil
	}
	return m, tea.Batch(
		samplePerfCmd(m.ctx, m.sampler),
		tickCmd(m.cfg.View.PerfInterval),
	)
}

func (m *MainModel) handlePerfSampledMsg(msg PerfSampledMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.log.Debug("perf sample failed", "err", msg.Err)
		return m, nil
	}
	m.state.Perf = msg.Sample
	m.state.HasPerf = true
	return m, nil
}

func (m *MainModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	press := msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft

	if press {
		for i, f := range interact.Filters {
			if z := zone.Get(views.FilterZone(i)); z != nil && z.InBounds(msg) {
				m.setFilter(f)
				return m, nil
			}
		}
	}

	if m.state.CurrentPage != state.PageNetwork {
		return m, nil
	}

	z := zone.Get(views.CanvasZone)
	if z == nil || !z.InBounds(msg) {
		m.engine.PointerMove(offCanvas, offCanvas)
		return m, nil
	}
	col, row := z.Pos(msg)
	p := m.surface.Logical(col, row)
	m.engine.PointerMove(p.X, p.Y)
	if press {
		m.engine.Click(p.X, p.Y)
	}
	m.redrawIfIdle()
	return m, nil
}

// offCanvas is a logical coordinate no node can be near.
const offCanvas = -1e6

func (m *MainModel) props() views.ViewProps {
	cols, rows := m.surface.Size()
	props := views.ViewProps{
		Width:        m.width,
		Height:       m.height,
		Filter:       m.engine.State().Filter,
		FilterCursor: m.filterPos,
		SearchView:   m.search.View(),
		SpinnerView:  m.spinner.View(),
		CanvasView:   m.surface.View(),
		ScrollY:      m.scrollY,
		Visible:      m.engine.VisibleCount(),
		Total:        m.engine.Model().Len(),
		PanelWidth:   max(m.width-cols, 0),
		CanvasHeight: rows,
	}
	if m.showEnergy && m.engine.Active() {
		props.EnergyView = m.energy.View()
	}
	if d, ok := m.engine.Selected(); ok {
		props.Details, props.HasDetails = d, true
	} else if d, ok := m.engine.Hovered(); ok {
		props.Details, props.HasDetails = d, true
	}
	return props
}

func (m *MainModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}
	if m.width == 0 {
		return m.spinner.View() + " starting…"
	}

	props := m.props()
	switch m.state.CurrentPage {
	case state.PageReport:
		props.Report = output.BuildReport(m.state.Checks, m.engine.Model(), m.engine.Analysis(), output.DefaultTopN)
		return views.RenderReport(m.state, props)
	case state.PageEvents:
		return views.RenderEvents(m.state, props)
	default:
		return views.RenderNetwork(m.state, props)
	}
}

// Start runs the TUI until the user quits.
func Start(cfg config.Config, src dataset.Source, log *slog.Logger, ropts ...database.Option) error {
	m, err := InitialModel(cfg, src, log, ropts...)
	if err != nil {
		return err
	}
	defer m.Shutdown()

	p := tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	_, err = p.Run()
	return err
}
