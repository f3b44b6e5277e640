package views

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"chatprofile/internal/output"
	"chatprofile/internal/pages"
	"chatprofile/ui/tui/styles"
)

// TabZoneID names the mouse zone of tab i.
func TabZoneID(i int) string {
	return fmt.Sprintf("tab_%d", i)
}

// tabLabel is the visible caption of a page tab.
func tabLabel(p *pages.Page) string {
	label := p.Category.Title()
	if n, ok := p.Count(); ok {
		label += " " + output.CountLabel(n)
	}
	return label
}

// RenderTabs draws the tab strip on one line. The highlighted tab follows
// the swipe in progress. Tabs are dropped from the left until the
// highlighted one fits.
func RenderTabs(reg *pages.Registry, zm *zone.Manager, width int) string {
	ps := reg.Pages()
	if len(ps) == 0 {
		return ""
	}
	active := int(math.Round(float64(reg.Current()) + reg.Fraction()))
	active = max(0, min(len(ps)-1, active))

	labels := make([]string, len(ps))
	widths := make([]int, len(ps))
	for i, p := range ps {
		style := styles.TabStyle
		if i == active {
			style = styles.ActiveTabStyle
		}
		labels[i] = style.Render(tabLabel(p))
		widths[i] = lipgloss.Width(labels[i])
	}

	first, used := 0, 0
	for i := 0; i <= active; i++ {
		used += widths[i] + 1
	}
	for used > width && first < active {
		used -= widths[first] + 1
		first++
	}

	var b strings.Builder
	used = 0
	for i := first; i < len(ps); i++ {
		if used+widths[i] > width && i > active {
			break
		}
		if i > first {
			b.WriteString(styles.SeparatorStyle.Render("│"))
		}
		if zm != nil {
			b.WriteString(zm.Mark(TabZoneID(i), labels[i]))
		} else {
			b.WriteString(labels[i])
		}
		used += widths[i] + 1
	}
	return b.String()
}
