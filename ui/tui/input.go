package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"chatprofile/internal/gesture"
	"chatprofile/internal/pages"
	"chatprofile/internal/peer"
	"chatprofile/internal/rows"
	"chatprofile/internal/screen"
	"chatprofile/internal/section"
	"chatprofile/ui/tui/state"
	"chatprofile/ui/tui/views"
)

// tapSlop is how far, in cells, a press may travel and still count as a tap.
const tapSlop = 1

// pointer is the position of the left button press in progress.
type pointer struct {
	x, y int
}

// surfaces wires the screen's routed pointer events back into the model.
// The lists and pages move through the screen itself; the tab strip picks a
// tab when a press is released over it.
func (m *MainModel) surfaces() screen.Surfaces {
	accept := gesture.SurfaceFunc(func(gesture.Event) bool { return true })
	downY := 0
	return screen.Surfaces{
		Primary:   accept,
		Paged:     accept,
		Secondary: accept,
		TabStrip: gesture.SurfaceFunc(func(ev gesture.Event) bool {
			switch ev.Phase {
			case gesture.PhaseDown:
				downY = ev.Y
			case gesture.PhaseMove:
				return abs(ev.Y-downY) <= tapSlop
			case gesture.PhaseUp:
				m.pendingTab = m.tabAt(ev.X, ev.Y)
			}
			return true
		}),
		Fling: m.fling,
	}
}

func (m *MainModel) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.mouseX = msg.X
	m.mouseY = msg.Y

	if m.state.CurrentPage != state.PageProfile || m.scr == nil || m.state.Prompt != "" {
		return m, nil
	}
	if profileWidth, _ := views.ProfileColumns(m.width); msg.X >= profileWidth && m.press == nil {
		return m, nil
	}

	ev := gesture.Event{X: msg.X, Y: msg.Y, Time: time.Now()}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.scr.Wheel(msg.X, msg.Y, -wheelStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.scr.Wheel(msg.X, msg.Y, wheelStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.press = &pointer{x: msg.X, y: msg.Y}
		m.pendingTab = -1
		ev.Phase = gesture.PhaseDown
		m.scr.HandlePointer(ev)
	case msg.Action == tea.MouseActionMotion && m.press != nil:
		ev.Phase = gesture.PhaseMove
		m.scr.HandlePointer(ev)
	case msg.Action == tea.MouseActionRelease && m.press != nil:
		press := *m.press
		m.press = nil
		// Read the layout before the release moves anything.
		geo := m.scr.Geometry()
		ev.Phase = gesture.PhaseUp
		m.scr.HandlePointer(ev)
		if m.pendingTab >= 0 {
			m.scr.SelectPage(m.pendingTab)
			m.pendingTab = -1
			return m, nil
		}
		if abs(msg.X-press.x) <= tapSlop && abs(msg.Y-press.y) <= tapSlop {
			m.tap(geo, msg.Y)
		}
	}
	return m, nil
}

// tabAt returns the tab under (x, y), or -1.
func (m *MainModel) tabAt(x, y int) int {
	probe := tea.MouseMsg{X: x, Y: y}
	for i := range m.scr.Pages().Len() {
		if z := m.zones.Get(views.TabZoneID(i)); z != nil && z.InBounds(probe) {
			return i
		}
	}
	return -1
}

// tap handles a click on a row of the list or the current page.
func (m *MainModel) tap(geo gesture.Geometry, y int) {
	width, _ := views.ProfileColumns(m.width)
	if y < geo.ListBottom {
		if r, ok := rowAt(m.scr.List(), width, m.scr.CurrentPrimaryOffset()+y); ok {
			m.tapPrimary(r)
		}
		return
	}
	pageTop := geo.TabStripTop + geo.TabStripHeight
	p := m.scr.Pages().CurrentPage()
	if y < pageTop || p == nil || !p.Selecting() {
		return
	}
	if r, ok := rowAt(p.Content, width, p.ScrollY()+y-pageTop); ok && r.Kind == rows.KindMedia {
		if m.selected[r.ID] {
			delete(m.selected, r.ID)
		} else {
			m.selected[r.ID] = true
		}
	}
}

func (m *MainModel) tapPrimary(r rows.Row) {
	if m.scr.Mode() == peer.ModeEdit {
		switch r.ID {
		case screen.RowEditPublic:
			m.scr.SetPublic(true)
		case screen.RowEditPrivate:
			m.scr.SetPublic(false)
		case screen.RowEditTitle, screen.RowEditAbout:
			m.openPrompt(r.ID)
		}
		return
	}
	if r.ID == screen.RowMembers && r.Kind == rows.KindSetting {
		if i := m.scr.Pages().IndexOf(pages.CategoryMembers); i >= 0 {
			m.scr.SelectPage(i)
		}
	}
}

// rowAt returns the row covering content line y of m.
func rowAt(m *section.Model, width, y int) (rows.Row, bool) {
	if y < 0 {
		return rows.Row{}, false
	}
	top := 0
	for i, r := range m.Rows() {
		h := m.RowHeight(i, width)
		if y < top+h {
			return r, true
		}
		top += h
	}
	return rows.Row{}, false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
