package tui

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	zone "github.com/lrstanley/bubblezone"

	"chatprofile/internal/config"
	"chatprofile/internal/database/relational"
	"chatprofile/internal/logger"
	"chatprofile/internal/pages"
	"chatprofile/internal/peer"
	"chatprofile/internal/rows"
	"chatprofile/internal/screen"
	"chatprofile/ui/tui/components"
	"chatprofile/ui/tui/state"
	"chatprofile/ui/tui/views"
)

const (
	fps          = 60
	wheelStep    = 3
	slowModeStep = 30
)

// Source answers the count and capability queries of a screen.
type Source interface {
	FetchCount(ctx context.Context, peerID int64, c pages.Category) (int, error)
	FetchCapabilities(ctx context.Context, peerID int64) (peer.Capabilities, error)
}

// Refresher is the periodic background count refresh.
type Refresher interface {
	SetCategories(cats []pages.Category)
	Start(ctx context.Context) error
	Stop()
}

// Deps are the collaborators of the TUI. Worker and Host are optional.
type Deps struct {
	Store  relational.ProfileStore
	Source Source
	Config config.Config
	PeerID int64
	Worker Refresher
	Host   *Host
	Logger *slog.Logger
}

// MainModel is the Bubble Tea Model acting as the Controller
type MainModel struct {
	deps  Deps
	ctx   context.Context
	log   *slog.Logger
	keys  keyMap
	state state.AppState

	scr      *screen.Screen
	mode     peer.Mode
	loaded   map[pages.Category]bool
	selected map[rows.ID]bool
	// ops holds the completion callbacks of edit writes in flight.
	ops map[string]func(error)

	spinner      spinner.Model
	chart        *components.ActivityChart
	fling        *components.Fling
	spring       harmonica.Spring
	headerExpand float64
	headerVel    float64
	zones        *zone.Manager

	prompt    textinput.Model
	promptRow rows.ID

	press          *pointer
	pendingTab     int
	consoleScrollY int
	mouseX         int
	mouseY         int
	quitting       bool
	width          int
	height         int
}

func InitialModel(deps Deps) MainModel {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	ti := textinput.New()
	ti.CharLimit = 255

	friction := deps.Config.Gesture.FlingFriction
	if friction <= 0 {
		friction = config.Default().Gesture.FlingFriction
	}

	return MainModel{
		deps:    deps,
		ctx:     context.Background(),
		log:     log,
		keys:    defaultKeyMap(),
		spinner: s,
		chart:   components.NewActivityChart(views.SidePanelWidth-4, 10),
		fling:   components.NewFling(fps, friction),
		// Header expansion follows the top of the list with a stiff spring.
		spring:     harmonica.NewSpring(harmonica.FPS(fps), 12.0, 0.9),
		zones:      zone.New(),
		prompt:     ti,
		pendingTab: -1,
		ops:        make(map[string]func(error)),
		state: state.AppState{
			CurrentPage: state.PageProfile,
		},
	}
}

func (m *MainModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		animateCmd(),
		loadPeerCmd(m.ctx, m.deps.Store, m.deps.Source, m.deps.PeerID),
		activityCmd(m.ctx, m.deps.Store, m.deps.PeerID),
	)
}

// Update handles msg and then reconciles page loading with whatever the
// screen shows now.
func (m *MainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := m.update(msg)
	return model, tea.Batch(cmd, m.syncPages())
}

func (m *MainModel) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case AnimateMsg:
		return m.handleAnimateMsg(msg)

	case tea.WindowSizeMsg:
		return m.handleWindowSizeMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case PeerLoadedMsg:
		return m.handlePeerLoadedMsg(msg)

	case CountMsg:
		return m.handleCountMsg(msg)

	case PageContentMsg:
		return m.handlePageContentMsg(msg)

	case ActivityMsg:
		return m.handleActivityMsg(msg)

	case EditDoneMsg:
		return m.handleEditDoneMsg(msg)

	case DeletedMsg:
		return m.handleDeletedMsg(msg)

	case PayloadMsg:
		return m.handlePayloadMsg(msg)

	case InjectCountMsg:
		if m.scr != nil {
			m.scr.OnCountReported(msg.Category, msg.Count)
			m.state.Log(fmt.Sprintf("injected %s count %d", msg.Category, msg.Count))
		}
		return m, nil

	case RefreshMsg:
		return m, m.refreshCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// alive reports whether results for screenID may still be applied.
func (m *MainModel) alive(screenID string) bool {
	return m.scr != nil && m.scr.ID() == screenID && m.scr.IsAlive()
}

// ============================================================================
// Screen lifecycle
// ============================================================================

func (m *MainModel) handlePeerLoadedMsg(msg PeerLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.state.Err = msg.Err
		m.state.Log("load failed: " + msg.Err.Error())
		m.log.Error("peer load failed", "peer", m.deps.PeerID, "error", msg.Err)
		return m, nil
	}
	if m.scr != nil {
		m.scr.Close()
	}

	opts := m.deps.Config.ScreenOptions()
	opts.Measurer = views.NewMeasurer()
	opts.Logger = m.log
	m.scr = screen.New(msg.Peer, msg.Caps, opts, m.surfaces())
	m.mode = m.scr.Mode()
	m.loaded = make(map[pages.Category]bool)
	m.selected = make(map[rows.ID]bool)
	clear(m.ops)

	m.state.Peer = msg.Peer
	m.state.Loaded = true
	m.state.Err = nil
	m.state.Log(fmt.Sprintf("opened %s %q with %d capabilities", msg.Peer.Kind, msg.Peer.Title, len(msg.Caps)))
	m.layout()

	if m.deps.Host != nil {
		m.deps.Host.show(m.scr)
	}
	if w := m.deps.Worker; w != nil {
		w.SetCategories(m.scr.Pages().Tracked())
		if err := w.Start(m.ctx); err != nil {
			m.log.Debug("refresh worker not started", "error", err)
		}
	}
	return m, m.refreshCmd()
}

// refreshCmd queries every tracked count of the shown screen.
func (m *MainModel) refreshCmd() tea.Cmd {
	if m.scr == nil {
		return nil
	}
	var cmds []tea.Cmd
	id, peerID := m.scr.ID(), m.scr.Peer().ID
	m.scr.RefreshCounts(func(c pages.Category) {
		cmds = append(cmds, countCmd(m.ctx, m.deps.Source, id, peerID, c))
	})
	return tea.Batch(cmds...)
}

// syncPages starts loading the current page when it has no content yet.
// A mode switch rebuilds every page and a removed page comes back empty, so
// both forget what was loaded.
func (m *MainModel) syncPages() tea.Cmd {
	if m.scr == nil || !m.scr.IsAlive() {
		return nil
	}
	if mode := m.scr.Mode(); mode != m.mode {
		m.mode = mode
		clear(m.loaded)
		clear(m.selected)
		m.layout()
	}
	for c := range m.loaded {
		if m.scr.Pages().IndexOf(c) < 0 {
			delete(m.loaded, c)
		}
	}
	p := m.scr.Pages().CurrentPage()
	if p == nil || m.loaded[p.Category] {
		return nil
	}
	m.loaded[p.Category] = true
	return pageContentCmd(m.ctx, m.deps.Store, m.scr.ID(), m.scr.Peer().ID, p.Category)
}

// layout sizes the screen to the profile column.
func (m *MainModel) layout() {
	if m.width == 0 || m.height == 0 {
		return
	}
	profileWidth, _ := views.ProfileColumns(m.width)
	bodyHeight := m.height - 1
	if m.state.Prompt != "" {
		bodyHeight--
	}
	if m.scr != nil {
		m.scr.SetViewport(profileWidth, max(bodyHeight, 0))
	}
}

func (m *MainModel) resizeChart() {
	if m.state.CurrentPage == state.PageActivity {
		m.chart.Resize(max(m.width-10, 10), max(m.height-10, 5))
		return
	}
	m.chart.Resize(views.SidePanelWidth-4, max(min(10, m.height-4), 3))
}

// ============================================================================
// Async results
// ============================================================================

func (m *MainModel) handleCountMsg(msg CountMsg) (tea.Model, tea.Cmd) {
	if !m.alive(msg.ScreenID) {
		m.log.Debug("stale count dropped", "category", msg.Category)
		return m, nil
	}
	if msg.Err != nil {
		m.log.Warn("count failed", "category", msg.Category, "error", msg.Err)
		m.state.Log(fmt.Sprintf("%s count failed: %v", msg.Category, msg.Err))
		return m, nil
	}
	m.scr.OnCountReported(msg.Category, msg.Count)
	return m, nil
}

func (m *MainModel) handlePageContentMsg(msg PageContentMsg) (tea.Model, tea.Cmd) {
	if !m.alive(msg.ScreenID) {
		return m, nil
	}
	if msg.Err != nil {
		m.loaded[msg.Category] = false
		m.log.Warn("page content failed", "category", msg.Category, "error", msg.Err)
		m.state.Log(fmt.Sprintf("%s page failed: %v", msg.Category, msg.Err))
		return m, nil
	}
	m.scr.OnPageContent(msg.Category, msg.Rows)
	return m, nil
}

func (m *MainModel) handleActivityMsg(msg ActivityMsg) (tea.Model, tea.Cmd) {
	if msg.PeerID != m.deps.PeerID {
		return m, nil
	}
	if msg.Err != nil {
		m.log.Warn("activity failed", "error", msg.Err)
		return m, nil
	}
	m.state.Activity = msg.Days
	m.chart.SetData(msg.Days)
	return m, nil
}

func (m *MainModel) handleEditDoneMsg(msg EditDoneMsg) (tea.Model, tea.Cmd) {
	done, ok := m.ops[msg.OpID]
	if !ok || !m.alive(msg.ScreenID) {
		return m, nil
	}
	delete(m.ops, msg.OpID)
	done(msg.Err)
	return m, nil
}

func (m *MainModel) handleDeletedMsg(msg DeletedMsg) (tea.Model, tea.Cmd) {
	if !m.alive(msg.ScreenID) {
		return m, nil
	}
	if msg.Err != nil {
		m.state.Err = msg.Err
		m.log.Error("delete failed", "category", msg.Category, "error", msg.Err)
		return m, nil
	}
	m.state.Log(fmt.Sprintf("deleted %d %s items", msg.Removed, msg.Category))
	m.loaded[msg.Category] = false
	clear(m.selected)
	m.scr.SetSelecting(false)
	return m, m.refreshCmd()
}

func (m *MainModel) handlePayloadMsg(msg PayloadMsg) (tea.Model, tea.Cmd) {
	if m.scr == nil || msg.Payload == nil {
		return m, nil
	}
	if !msg.Payload.ApplyTo(m.scr) {
		m.log.Debug("stale refresh dropped", "peer", msg.Payload.PeerID)
		return m, nil
	}
	m.state.LastRefresh = msg.Payload.CollectedAt
	if w := m.deps.Worker; w != nil {
		w.SetCategories(m.scr.Pages().Tracked())
	}
	return m, nil
}

// ============================================================================
// Edits
// ============================================================================

// save writes every pending edit. The screen leaves edit mode once all of
// them succeed.
func (m *MainModel) save() tea.Cmd {
	var cmds []tea.Cmd
	id, peerID := m.scr.ID(), m.scr.Peer().ID
	m.scr.Save(func(e screen.Edit, done func(error)) {
		op := uuid.NewString()
		m.ops[op] = done
		cmds = append(cmds, applyEditCmd(m.ctx, m.deps.Store, id, op, peerID, e.Field, e.Value))
	}, func(b screen.Batch) {
		if b.Failed > 0 {
			m.state.Err = fmt.Errorf("%d of %d edits failed", b.Failed, b.Total)
			return
		}
		m.state.Err = nil
		m.state.Peer = m.scr.Peer()
		m.state.Log(fmt.Sprintf("saved %d edits", b.Total))
	})
	return tea.Batch(cmds...)
}

// pendingPublic is the public flag the edit rows currently show.
func (m *MainModel) pendingPublic() bool {
	for _, e := range m.scr.PendingEdits() {
		if e.Field == "public" {
			return e.Value == "true"
		}
	}
	return m.scr.Peer().Public
}

func (m *MainModel) openPrompt(id rows.ID) {
	label, value := "Title", m.scr.Peer().Title
	if id == screen.RowEditAbout {
		label, value = "About", m.scr.Peer().About
	}
	for _, e := range m.scr.PendingEdits() {
		if (id == screen.RowEditTitle && e.Field == "title") || (id == screen.RowEditAbout && e.Field == "about") {
			value = e.Value
		}
	}
	m.promptRow = id
	m.prompt.Prompt = label + ": "
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	m.prompt.Focus()
	m.state.Prompt = label
	m.layout()
}

func (m *MainModel) closePrompt(commit bool) {
	if commit && m.scr != nil {
		m.scr.SetEditText(m.promptRow, m.prompt.Value())
	}
	m.prompt.Blur()
	m.state.Prompt = ""
	m.layout()
}

// ============================================================================
// Keys
// ============================================================================

func (m *MainModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state.Prompt != "" {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.closePrompt(true)
			return m, nil
		case msg.String() == "esc":
			m.closePrompt(false)
			return m, nil
		}
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.state.CurrentPage {
	case state.PageConsole:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.consoleScrollY = max(m.consoleScrollY-1, 0)
		case key.Matches(msg, m.keys.Down):
			m.consoleScrollY++
		case key.Matches(msg, m.keys.Back):
			m.state.CurrentPage = state.PageProfile
			m.consoleScrollY = 0
		}
		return m, nil
	case state.PageActivity:
		if key.Matches(msg, m.keys.Back) {
			m.state.CurrentPage = state.PageProfile
			m.resizeChart()
		}
		return m, nil
	}

	if m.scr == nil {
		return m, nil
	}
	return m.handleProfileKey(msg)
}

func (m *MainModel) handleProfileKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	editing := m.scr.Mode() == peer.ModeEdit
	half := max(m.scr.PageViewportHeight()/2, 1)

	switch {
	case key.Matches(msg, m.keys.Up):
		m.scrollBy(-1)
	case key.Matches(msg, m.keys.Down):
		m.scrollBy(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scrollBy(-half)
	case key.Matches(msg, m.keys.PageDown):
		m.scrollBy(half)
	case key.Matches(msg, m.keys.NextTab):
		m.scr.SelectPage(m.scr.CurrentPageIndex() + 1)
	case key.Matches(msg, m.keys.PrevTab):
		m.scr.SelectPage(m.scr.CurrentPageIndex() - 1)
	case key.Matches(msg, m.keys.Back):
		switch {
		case m.selecting():
			clear(m.selected)
			m.scr.SetSelecting(false)
		case editing:
			m.scr.SetMode(peer.ModeView)
		}
	case key.Matches(msg, m.keys.Activity):
		m.state.CurrentPage = state.PageActivity
		m.resizeChart()
	case key.Matches(msg, m.keys.Console):
		m.state.CurrentPage = state.PageConsole
	case key.Matches(msg, m.keys.Refresh):
		return m, m.refreshCmd()
	case editing:
		return m.handleEditKey(msg)
	case key.Matches(msg, m.keys.Edit):
		m.scr.SetMode(peer.ModeEdit)
	case key.Matches(msg, m.keys.Select):
		if p := m.scr.Pages().CurrentPage(); p != nil && p.Category.IsMedia() {
			clear(m.selected)
			m.scr.SetSelecting(!p.Selecting())
		}
	case key.Matches(msg, m.keys.Delete):
		if p := m.scr.Pages().CurrentPage(); p != nil && p.Selecting() {
			return m, deleteMediaCmd(m.ctx, m.deps.Store, m.scr.ID(), m.scr.Peer().ID, p.Category)
		}
	}
	return m, nil
}

func (m *MainModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Save):
		return m, m.save()
	case key.Matches(msg, m.keys.Public):
		m.scr.SetPublic(!m.pendingPublic())
	case key.Matches(msg, m.keys.SlowUp):
		m.scr.AdjustSlowMode(slowModeStep)
	case key.Matches(msg, m.keys.SlowDown):
		m.scr.AdjustSlowMode(-slowModeStep)
	case key.Matches(msg, m.keys.Title):
		m.openPrompt(screen.RowEditTitle)
	case key.Matches(msg, m.keys.About):
		m.openPrompt(screen.RowEditAbout)
	}
	return m, nil
}

func (m *MainModel) scrollBy(delta int) {
	m.fling.Stop()
	m.scr.ScrollBy(delta)
}

func (m *MainModel) selecting() bool {
	p := m.scr.Pages().CurrentPage()
	return p != nil && p.Selecting()
}

// ============================================================================
// Animation and layout
// ============================================================================

func (m *MainModel) handleAnimateMsg(msg AnimateMsg) (tea.Model, tea.Cmd) {
	if m.scr == nil {
		return m, animateCmd()
	}
	if m.fling.Active() {
		if d := m.fling.Step(); d != 0 && m.scr.ScrollBy(d) != 0 {
			m.fling.Stop()
		}
	}

	target := 0.0
	if m.scr.CurrentPrimaryOffset() == 0 {
		target = 1.0
	}
	m.headerExpand, m.headerVel = m.spring.Update(m.headerExpand, m.headerVel, target)
	return m, animateCmd()
}

func (m *MainModel) handleWindowSizeMsg(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.prompt.Width = max(msg.Width-12, 10)
	m.resizeChart()
	m.layout()
	return m, nil
}

func (m *MainModel) View() string {
	if m.quitting {
		return "Bye!\n"
	}

	props := views.ViewProps{
		Width:        m.width,
		Height:       m.height,
		MouseX:       m.mouseX,
		MouseY:       m.mouseY,
		SpinnerView:  m.spinner.View(),
		HeaderExpand: m.headerExpand,
		Zones:        m.zones,
	}

	switch m.state.CurrentPage {
	case state.PageConsole:
		var snap *screen.Snapshot
		if m.scr != nil {
			snap = m.scr.Snapshot()
		}
		props.ScrollY = m.consoleScrollY
		return views.ConsoleView{Content: views.ConsoleContent(snap, m.state.ConsoleLogs)}.Render(m.state, props)
	case state.PageActivity:
		props.ChartView = m.chart.View()
		return views.ActivityView{}.Render(m.state, props)
	}

	if m.scr == nil {
		msg := m.spinner.View() + " Loading profile..."
		if m.state.Err != nil {
			msg = "Could not load profile: " + m.state.Err.Error() + "\n\nPress 'q' to quit"
		}
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, msg)
	}

	if _, side := views.ProfileColumns(m.width); side && len(m.state.Activity) > 0 {
		props.ChartView = m.chart.View()
	}
	if m.state.Prompt != "" {
		props.PromptView = m.prompt.View()
	}
	return m.zones.Scan(views.ProfileView{Screen: m.scr, Selected: m.selected}.Render(m.state, props))
}

// Start runs the TUI until the user quits or ctx is cancelled.
func Start(ctx context.Context, deps Deps) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := InitialModel(deps)
	m.ctx = ctx
	p := tea.NewProgram(
		&m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if deps.Host != nil {
		deps.Host.Attach(p.Send)
	}
	_, err := p.Run()

	if deps.Worker != nil {
		deps.Worker.Stop()
	}
	if m.scr != nil {
		m.scr.Close()
	}
	m.zones.Close()
	return err
}
