package components

import (
	"strings"
	"testing"
)

func TestFlingGlidesToTarget(t *testing.T) {
	f := NewFling(60, 1.0)
	f.Fling(100)
	if !f.Active() {
		t.Fatal("Expected fling to be active")
	}

	total := 0
	for i := 0; i < 1000 && f.Active(); i++ {
		total += f.Step()
	}
	if f.Active() {
		t.Fatal("Expected fling to come to rest")
	}
	if total != 25 {
		t.Errorf("Expected glide of 25 cells, got %d", total)
	}
	if d := f.Step(); d != 0 {
		t.Errorf("Expected no motion at rest, got %d", d)
	}
}

func TestFlingUpward(t *testing.T) {
	f := NewFling(60, 0.6)
	f.Fling(-40)
	total := 0
	for i := 0; i < 1000 && f.Active(); i++ {
		total += f.Step()
	}
	if total != -10 {
		t.Errorf("Expected glide of -10 cells, got %d", total)
	}
}

func TestFlingSlowReleaseDoesNotGlide(t *testing.T) {
	f := NewFling(60, 0.6)
	f.Fling(3)
	if f.Active() {
		t.Error("Expected slow release to be ignored")
	}
}

func TestFlingStop(t *testing.T) {
	f := NewFling(60, 0.6)
	f.Fling(200)
	f.Step()
	f.Stop()
	if f.Active() || f.Step() != 0 {
		t.Error("Expected Stop to end the glide")
	}
}

func TestActivityChart(t *testing.T) {
	c := NewActivityChart(30, 8)
	c.SetData([]float64{3, 9, 4, 12, 7})
	if c.Peak() != 12 {
		t.Errorf("Expected peak 12, got %f", c.Peak())
	}
	out := c.View()
	if !strings.Contains(out, "5 days") {
		t.Errorf("Expected title with day count, got:\n%s", out)
	}

	c.Resize(40, 10)
	if c.Width != 40 || c.Height != 10 {
		t.Errorf("Expected resized chart, got %dx%d", c.Width, c.Height)
	}
}

func TestActivityChartEmpty(t *testing.T) {
	c := NewActivityChart(20, 5)
	if c.Peak() != 0 {
		t.Errorf("Expected zero peak, got %f", c.Peak())
	}
	if c.View() == "" {
		t.Error("Expected a rendered empty chart")
	}
}
