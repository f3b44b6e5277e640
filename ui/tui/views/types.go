package views

import (
	zone "github.com/lrstanley/bubblezone"

	"chatprofile/ui/tui/state"
)

// ViewProps contains UI-specific properties provided by the Controller.
type ViewProps struct {
	Width, Height  int
	MouseX, MouseY int

	// Component States
	SpinnerView  string
	ChartView    string
	PromptView   string
	ScrollY      int
	HeaderExpand float64
	Zones        *zone.Manager
}

// View defines the contract for any renderable page in the TUI.
type View interface {
	Render(s state.AppState, props ViewProps) string
}

const (
	// SidePanelWidth is the width of the activity panel beside the profile.
	SidePanelWidth  = 40
	minProfileWidth = 48
)

// ProfileColumns splits the terminal width between the profile and the
// activity side panel. side is false when the terminal is too narrow.
func ProfileColumns(width int) (profile int, side bool) {
	if width-SidePanelWidth < minProfileWidth {
		return width, false
	}
	return width - SidePanelWidth, true
}
