package components

import (
	"fmt"
	"slices"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/NimbleMarkets/ntcharts/linechart"
	"github.com/charmbracelet/lipgloss"

	"chatprofile/ui/tui/styles"
)

// ActivityChart draws messages per day as a braille line.
type ActivityChart struct {
	Chart   linechart.Model
	History []float64
	Width   int
	Height  int
}

func NewActivityChart(width, height int) *ActivityChart {
	return &ActivityChart{
		// width, height, minX, maxX, minY, maxY
		Chart:  linechart.New(width, height, 0, 1, 0, 1),
		Width:  width,
		Height: height,
	}
}

// SetData replaces the series. The chart is rebuilt so the axes fit it.
func (c *ActivityChart) SetData(days []float64) {
	c.History = slices.Clone(days)
	c.rebuild()
}

func (c *ActivityChart) rebuild() {
	maxX := float64(max(len(c.History)-1, 1))
	maxY := 1.0
	for _, v := range c.History {
		maxY = max(maxY, v)
	}
	c.Chart = linechart.New(c.Width, c.Height, 0, maxX, 0, maxY)
}

// Peak returns the busiest day's volume.
func (c *ActivityChart) Peak() float64 {
	if len(c.History) == 0 {
		return 0
	}
	return slices.Max(c.History)
}

func (c *ActivityChart) Resize(w, h int) {
	if w == c.Width && h == c.Height {
		return
	}
	c.Width = w
	c.Height = h
	c.rebuild()
}

func (c *ActivityChart) View() string {
	c.Chart.Clear()
	for i := 0; i < len(c.History)-1; i++ {
		c.Chart.DrawBrailleLine(
			canvas.Float64Point{X: float64(i), Y: c.History[i]},
			canvas.Float64Point{X: float64(i + 1), Y: c.History[i+1]},
		)
	}
	c.Chart.DrawXYAxisAndLabel()

	title := "Activity"
	if len(c.History) > 0 {
		title = fmt.Sprintf("Activity · %d days · peak %.0f", len(c.History), c.Peak())
	}
	return styles.CardStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.NewStyle().Bold(true).Render(title),
			c.Chart.View(),
		),
	)
}
