package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chatprofile/internal/peer"
	"chatprofile/internal/rows"
	"chatprofile/internal/screen"
	"chatprofile/ui/tui/state"
	"chatprofile/ui/tui/styles"
)

// ProfileView draws the combined scroll surface of a screen: the visible
// part of the primary list, the tab strip below it and the current page.
// Screen cell (x, y) is terminal cell (x, y).
type ProfileView struct {
	Screen *screen.Screen
	// Selected marks rows picked on the current page in multi-select.
	Selected map[rows.ID]bool
}

// Body renders exactly height lines of width cells.
func (v ProfileView) Body(props ViewProps, width, height int) []string {
	scr := v.Screen
	o := RowOptions{Spinner: props.SpinnerView, HeaderExpand: props.HeaderExpand}
	out := make([]string, 0, height)

	geo := scr.Geometry()
	primary := max(0, min(geo.ListBottom, height))
	out = append(out, ModelLines(scr.List(), width, scr.CurrentPrimaryOffset(), primary, o, nil)...)
	for len(out) < primary {
		out = append(out, "")
	}

	if geo.TabStripHeight > 0 && len(out) < height {
		out = append(out, RenderTabs(scr.Pages(), props.Zones, width))
		for i := 1; i < geo.TabStripHeight && len(out) < height; i++ {
			out = append(out, "")
		}
	}

	if p := scr.Pages().CurrentPage(); p != nil && len(out) < height {
		var sel func(rows.Row) bool
		if p.Selecting() {
			sel = func(r rows.Row) bool { return v.Selected[r.ID] }
		}
		out = append(out, ModelLines(p.Content, width, p.ScrollY(), height-len(out), o, sel)...)
	}
	return fit(out, width, height)
}

// Footer is the one-line key help and position readout.
func (v ProfileView) Footer(s state.AppState, width int) string {
	scr := v.Screen
	help := "j/k scroll · tab page · e edit · r refresh · a activity · c console · q quit"
	if scr.Mode() == peer.ModeEdit {
		help = "t title · o about · p public · +/- slow mode · s save · esc cancel"
	}
	if p := scr.Pages().CurrentPage(); p != nil && p.Selecting() {
		help = "click to pick · x delete · m done"
	}
	if s.Prompt != "" {
		help = "enter save · esc cancel"
	}
	pos := fmt.Sprintf("%d/%d · %s", scr.CurrentPrimaryOffset(), scr.MaxPrimaryOffset(), scr.Owner())
	if s.Err != nil {
		pos = styles.DestructiveStyle.Render(s.Err.Error())
	}
	gap := max(1, width-lipgloss.Width(help)-lipgloss.Width(pos))
	return styles.FooterStyle.Render(help + strings.Repeat(" ", gap) + pos)
}

// Render composes body, optional prompt and footer.
func (v ProfileView) Render(s state.AppState, props ViewProps) string {
	width, side := ProfileColumns(props.Width)
	side = side && props.ChartView != ""
	if !side {
		width = props.Width
	}
	bodyHeight := max(props.Height-1, 0)
	if props.PromptView != "" {
		bodyHeight--
	}

	body := strings.Join(v.Body(props, width, bodyHeight), "\n")
	if side {
		body = lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(width).Render(body), props.ChartView)
	}
	parts := []string{body}
	if props.PromptView != "" {
		parts = append(parts, props.PromptView)
	}
	parts = append(parts, v.Footer(s, props.Width))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
