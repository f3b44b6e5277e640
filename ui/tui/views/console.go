package views

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chatprofile/internal/output"
	"chatprofile/internal/screen"
	"chatprofile/ui/console"
	"chatprofile/ui/tui/state"
	"chatprofile/ui/tui/styles"
)

// HeaderBarStyle is the full-width title bar of the secondary pages.
var HeaderBarStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FFF")).
	Background(styles.Highlight).
	Padding(0, 1)

type ConsoleView struct {
	Content string
}

// ConsoleContent is the text dump of the screen followed by the event log.
func ConsoleContent(snap *screen.Snapshot, logs []string) string {
	var buf bytes.Buffer
	if snap != nil {
		console.Print(&buf, output.BuildProfileView(snap))
	}
	buf.WriteString("\n")
	for _, l := range logs {
		buf.WriteString(l)
		buf.WriteString("\n")
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (v ConsoleView) Render(s state.AppState, props ViewProps) string {
	header := HeaderBarStyle.Width(props.Width).Render("Screen Console")

	availableHeight := max(props.Height-lipgloss.Height(header)-4, 1)

	lines := strings.Split(v.Content, "\n")
	totalLines := len(lines)

	scrollY := max(0, min(props.ScrollY, totalLines-availableHeight))
	end := min(scrollY+availableHeight, totalLines)

	box := lipgloss.NewStyle().
		Width(max(props.Width-4, 1)).
		Height(availableHeight).
		Padding(0, 1).
		Render(strings.Join(lines[scrollY:end], "\n"))

	footerText := fmt.Sprintf("Scroll: %d/%d • %d events • Press 'b' to go back", scrollY, totalLines, len(s.ConsoleLogs))
	if totalLines > availableHeight {
		footerText += " • Use ↑/↓ to scroll"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.NewStyle().Padding(1, 2).Render(box),
		styles.FooterStyle.PaddingLeft(2).Render(footerText),
	)
}
