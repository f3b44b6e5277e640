package views

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"chatprofile/ui/tui/state"
	"chatprofile/ui/tui/styles"
)

// ActivityView shows the message volume chart full size.
type ActivityView struct{}

func (ActivityView) Render(s state.AppState, props ViewProps) string {
	header := HeaderBarStyle.Width(props.Width).Render("Activity · " + s.Peer.Title)

	total := 0.0
	for _, v := range s.Activity {
		total += v
	}
	summary := "No messages recorded"
	if len(s.Activity) > 0 {
		summary = fmt.Sprintf("%.0f messages over %d days · %.1f per day", total, len(s.Activity), total/float64(len(s.Activity)))
	}
	if !s.LastRefresh.IsZero() {
		summary += " · counts refreshed " + s.LastRefresh.Format("15:04:05")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Padding(1, 2).Render(props.ChartView),
		lipgloss.NewStyle().PaddingLeft(2).Render(styles.SubtitleStyle.Render(summary)),
		styles.FooterStyle.PaddingLeft(2).Render("Press 'b' to go back"),
	)
}
