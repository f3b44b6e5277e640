package views

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"chatprofile/internal/pages"
	"chatprofile/internal/peer"
	"chatprofile/internal/rows"
	"chatprofile/internal/screen"
	"chatprofile/ui/tui/state"
)

func TestContentHeight(t *testing.T) {
	tests := []struct {
		name    string
		kind    rows.Kind
		width   int
		payload rows.Payload
		want    int
	}{
		{"empty text", rows.KindText, 40, rows.Text(""), 2},
		{"short text", rows.KindText, 40, rows.Text("hello"), 2},
		{"wrapped text", rows.KindText, 12, rows.Text("aaaa bbbb cccc dddd"), 3},
		{"two paragraphs", rows.KindEditText, 40, rows.Text("one\ntwo"), 3},
		{"slider", rows.KindSlider, 40, rows.Slider{Value: 10, Max: 60}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContentHeight(tt.kind, tt.width, tt.payload); got != tt.want {
				t.Errorf("Expected height %d, got %d", tt.want, got)
			}
		})
	}
}

func TestRenderRowMatchesMeasuredHeight(t *testing.T) {
	m := NewMeasurer()
	rs := []rows.Row{
		{Kind: rows.KindHeader, Title: "Gophers", Payload: rows.Entity{Label: "12 members"}},
		{Kind: rows.KindText, Title: "about", Payload: rows.Text("a long description that has to wrap over several lines")},
		{Kind: rows.KindSlider, Title: "Slow mode", Payload: rows.Slider{Value: 30, Max: 3600}},
		{Kind: rows.KindSetting, Title: "Members", Payload: rows.Count{Value: 3, Loaded: true}},
		{Kind: rows.KindSeparator},
		{Kind: rows.KindMember, Title: "Ann", Payload: rows.Entity{Label: "owner"}},
		{Kind: rows.KindLoading, Title: "Loading Photos"},
	}
	for _, r := range rs {
		h := m.RowHeight(r, 30)
		lines := RenderRow(r, 30, h, RowOptions{Spinner: "*"})
		if len(lines) != h {
			t.Errorf("%s: expected %d lines, got %d", r.Kind, h, len(lines))
		}
		for _, l := range lines {
			if w := lipgloss.Width(l); w > 30 {
				t.Errorf("%s: line wider than 30 cells: %d", r.Kind, w)
			}
		}
	}
}

func TestRenderRowLoadingShowsSpinner(t *testing.T) {
	r := rows.Row{Kind: rows.KindSetting, Title: "Members", Flags: rows.FlagLoading}
	lines := RenderRow(r, 30, 1, RowOptions{Spinner: "@"})
	if !strings.Contains(lines[0], "@") {
		t.Errorf("Expected spinner in loading row, got %q", lines[0])
	}
}

func TestProfileColumns(t *testing.T) {
	if w, side := ProfileColumns(60); side || w != 60 {
		t.Errorf("Expected no side panel at 60, got %d %v", w, side)
	}
	if w, side := ProfileColumns(120); !side || w != 120-SidePanelWidth {
		t.Errorf("Expected side panel at 120, got %d %v", w, side)
	}
}

func testScreen(t *testing.T) *screen.Screen {
	t.Helper()
	opts := screen.DefaultOptions()
	opts.Measurer = NewMeasurer()
	s := screen.New(peer.Peer{ID: 7, Kind: peer.KindGroup, Title: "Gophers", About: "Go talk"},
		peer.Capabilities{peer.CapMembers: true}, opts, screen.Surfaces{})
	s.SetViewport(60, 20)
	return s
}

func TestProfileBodyHeight(t *testing.T) {
	s := testScreen(t)
	s.OnCountReported(pages.CategoryPhoto, 4)
	v := ProfileView{Screen: s}

	body := v.Body(ViewProps{SpinnerView: "*"}, 60, 20)
	if len(body) != 20 {
		t.Fatalf("Expected 20 lines, got %d", len(body))
	}
	joined := strings.Join(body, "\n")
	if !strings.Contains(joined, "Gophers") {
		t.Error("Expected header in body")
	}
	if !strings.Contains(joined, "Photos 4") {
		t.Errorf("Expected tab strip with photo count, got:\n%s", joined)
	}
}

func TestProfileBodyScrolled(t *testing.T) {
	s := testScreen(t)
	s.ScrollBy(s.MaxPrimaryOffset())
	body := ProfileView{Screen: s}.Body(ViewProps{}, 60, 20)

	geo := s.Geometry()
	if !strings.Contains(body[geo.TabStripTop], "Members") {
		t.Errorf("Expected tab strip at line %d, got %q", geo.TabStripTop, body[geo.TabStripTop])
	}
	if strings.Contains(strings.Join(body, "\n"), "Go talk") {
		t.Error("Expected about row scrolled out of view")
	}
}

func TestRenderTabsKeepsActiveVisible(t *testing.T) {
	s := testScreen(t)
	for _, c := range pages.MediaCategories {
		s.OnCountReported(c, 1200)
	}
	last := s.Pages().Len() - 1
	s.SelectPage(last)

	out := RenderTabs(s.Pages(), nil, 30)
	if !strings.Contains(out, "GIFs 1.2K") {
		t.Errorf("Expected active last tab in strip, got %q", out)
	}
	if strings.Contains(out, "Members") {
		t.Errorf("Expected leading tabs dropped, got %q", out)
	}
}

func TestProfileFooter(t *testing.T) {
	s := testScreen(t)
	v := ProfileView{Screen: s}
	if out := v.Footer(state.AppState{}, 120); !strings.Contains(out, "e edit") {
		t.Errorf("Expected view help, got %q", out)
	}
	s.SetMode(peer.ModeEdit)
	if out := v.Footer(state.AppState{}, 120); !strings.Contains(out, "s save") {
		t.Errorf("Expected edit help, got %q", out)
	}
}

func TestConsoleContent(t *testing.T) {
	s := testScreen(t)
	out := ConsoleContent(s.Snapshot(), []string{"12:00:00 opened"})
	if !strings.Contains(out, "GOPHERS") || !strings.Contains(out, "opened") {
		t.Errorf("Expected dump and log, got:\n%s", out)
	}
	if ConsoleContent(nil, nil) != "" {
		t.Error("Expected empty content without a screen")
	}
}
