package tui

import (
	"errors"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"chatprofile/internal/output"
	"chatprofile/internal/pages"
	"chatprofile/internal/screen"
)

// ErrNoScreen is returned by Host calls made before a screen is shown.
var ErrNoScreen = errors.New("no screen shown")

// Host lets the debug server read the shown screen from other goroutines
// and post changes back to the UI loop.
type Host struct {
	scr  atomic.Pointer[screen.Screen]
	send atomic.Pointer[func(tea.Msg)]
}

func NewHost() *Host {
	return &Host{}
}

// Attach sets the function messages are posted with, usually Program.Send.
func (h *Host) Attach(send func(tea.Msg)) {
	h.send.Store(&send)
}

func (h *Host) show(s *screen.Screen) {
	h.scr.Store(s)
}

// Snapshot returns the shown screen's last published state.
func (h *Host) Snapshot() *screen.Snapshot {
	s := h.scr.Load()
	if s == nil {
		return nil
	}
	return s.Snapshot()
}

func (h *Host) post(msg tea.Msg) error {
	if h.scr.Load() == nil {
		return ErrNoScreen
	}
	send := h.send.Load()
	if send == nil {
		return ErrNoScreen
	}
	(*send)(msg)
	return nil
}

func (h *Host) InjectCount(c pages.Category, count int) error {
	return h.post(InjectCountMsg{Category: c, Count: count})
}

func (h *Host) Refresh() error {
	return h.post(RefreshMsg{})
}

// Deliver posts a background refresh result. Results that arrive before the
// program is attached are dropped.
func (h *Host) Deliver(p *output.PipelinePayload) {
	if send := h.send.Load(); send != nil {
		(*send)(PayloadMsg{Payload: p})
	}
}
