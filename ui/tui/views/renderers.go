package views

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chatprofile/internal/rows"
	"chatprofile/internal/section"
	"chatprofile/ui/tui/styles"
)

const indent = 2

// ContentHeight measures the content-dependent row kinds the way
// RenderRow draws them: one label line plus the value wrapped by lipgloss.
func ContentHeight(kind rows.Kind, width int, p rows.Payload) int {
	if kind == rows.KindSlider {
		return 2
	}
	return 1 + wrappedHeight(rows.DisplayOf(p), width-indent)
}

// NewMeasurer returns the row measurer the TUI lays out with.
func NewMeasurer() *section.Measurer {
	return section.NewMeasurer(ContentHeight)
}

func wrappedHeight(text string, width int) int {
	if text == "" {
		return 1
	}
	return lipgloss.Height(wrap(text, width))
}

func wrap(text string, width int) string {
	return lipgloss.NewStyle().Width(max(width, 1)).Render(text)
}

// RowOptions carries the per-frame state rows render with.
type RowOptions struct {
	Spinner      string
	HeaderExpand float64
	Selected     bool
}

// RenderRow draws r as exactly height lines of at most width cells.
func RenderRow(r rows.Row, width, height int, o RowOptions) []string {
	var lines []string
	value := rows.DisplayOf(r.Payload)
	if r.Has(rows.FlagLoading) {
		value = o.Spinner
	}

	switch r.Kind {
	case rows.KindHeader:
		pad := strings.Repeat(" ", int(math.Round(o.HeaderExpand*indent)))
		lines = []string{
			pad + styles.TitleStyle.Render(r.Title),
			pad + styles.SubtitleStyle.Render(value),
		}
	case rows.KindSeparator:
		lines = []string{strings.Repeat(" ", indent) + styles.SeparatorStyle.Render(strings.Repeat("─", max(width-indent, 0)))}
	case rows.KindSeparatorFull:
		lines = []string{styles.SeparatorStyle.Render(strings.Repeat("━", width))}
	case rows.KindShadowTop:
		lines = []string{styles.ShadowStyle.Render(strings.Repeat("▔", width))}
	case rows.KindShadowBottom:
		lines = []string{styles.ShadowStyle.Render(strings.Repeat("▁", width))}
	case rows.KindSectionTitle:
		lines = []string{styles.SectionStyle.Render(r.Title)}
	case rows.KindText, rows.KindEditText:
		label := r.Title
		if r.Kind == rows.KindEditText {
			label = "✎ " + label
		}
		lines = append([]string{styles.ValueStyle.Render(label)}, indentLines(wrap(value, width-indent))...)
	case rows.KindSlider:
		bar := ""
		if sl, ok := r.Payload.(rows.Slider); ok {
			barWidth := max(width-indent-1, 1)
			filled := int(float64(barWidth) * sl.Fraction())
			bar = styles.AccentStyle.Render(strings.Repeat("█", filled)) + styles.SeparatorStyle.Render(strings.Repeat("░", barWidth-filled))
		}
		lines = []string{justify(title(r), styles.ValueStyle.Render(value), width), strings.Repeat(" ", indent) + bar}
	case rows.KindRadio:
		lines = []string{styles.AccentStyle.Render(value) + " " + title(r)}
	case rows.KindMember:
		lines = []string{title(r), strings.Repeat(" ", indent) + styles.ValueStyle.Render(value)}
	case rows.KindPlaceholder:
		lines = []string{lipgloss.PlaceHorizontal(width, lipgloss.Center, styles.ValueStyle.Render(r.Title))}
	case rows.KindLoading:
		lines = []string{o.Spinner + " " + styles.ValueStyle.Render(r.Title)}
	default:
		lines = []string{justify(title(r), styles.ValueStyle.Render(value), width)}
	}

	if o.Selected {
		for i := range lines {
			lines[i] = styles.SelectedStyle.Render(lines[i])
		}
	}
	return fit(lines, width, height)
}

func title(r rows.Row) string {
	switch {
	case r.Has(rows.FlagDestructive):
		return styles.DestructiveStyle.Render(r.Title)
	case r.Has(rows.FlagAccent):
		return styles.AccentStyle.Render(r.Title)
	}
	return styles.LabelStyle.Render(r.Title)
}

// justify puts left and right on one line separated by at least one space.
func justify(left, right string, width int) string {
	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func indentLines(s string) []string {
	ls := strings.Split(s, "\n")
	for i := range ls {
		ls[i] = strings.Repeat(" ", indent) + ls[i]
	}
	return ls
}

// fit cuts or pads lines to exactly height lines no wider than width.
func fit(lines []string, width, height int) []string {
	out := make([]string, height)
	clip := lipgloss.NewStyle().MaxWidth(max(width, 0))
	for i := range out {
		if i < len(lines) {
			out[i] = clip.Render(lines[i])
		}
	}
	return out
}

// ModelLines renders the part of m between from and from+count as lines.
func ModelLines(m *section.Model, width, from, count int, o RowOptions, selected func(rows.Row) bool) []string {
	out := make([]string, 0, count)
	y := 0
	for i, r := range m.Rows() {
		if y >= from+count {
			break
		}
		h := m.RowHeight(i, width)
		if y+h <= from {
			y += h
			continue
		}
		ro := o
		ro.Selected = selected != nil && selected(r)
		for j, l := range RenderRow(r, width, h, ro) {
			if y+j >= from && y+j < from+count {
				out = append(out, l)
			}
		}
		y += h
	}
	return out
}
