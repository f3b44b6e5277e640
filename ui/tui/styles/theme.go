package styles

import "github.com/charmbracelet/lipgloss"

var (
	Subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	Highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	Special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	Danger    = lipgloss.AdaptiveColor{Light: "#D7263D", Dark: "#FF5F6D"}
	Muted     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Highlight)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(Muted)

	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Highlight).
			Padding(0, 1)

	StatusStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFF"))

	// Rows

	LabelStyle       = lipgloss.NewStyle()
	ValueStyle       = lipgloss.NewStyle().Foreground(Muted)
	AccentStyle      = lipgloss.NewStyle().Foreground(Highlight)
	DestructiveStyle = lipgloss.NewStyle().Foreground(Danger)
	SectionStyle     = lipgloss.NewStyle().Bold(true).Foreground(Highlight)
	SeparatorStyle   = lipgloss.NewStyle().Foreground(Subtle)
	ShadowStyle      = lipgloss.NewStyle().Foreground(Subtle).Faint(true)
	SelectedStyle    = lipgloss.NewStyle().Reverse(true)

	// Tabs

	TabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(Muted)

	ActiveTabStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Bold(true).
			Foreground(Special).
			Underline(true)

	FooterStyle = lipgloss.NewStyle().
			Foreground(Muted)
)
