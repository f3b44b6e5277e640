package gesture

import (
	"testing"
	"time"

	"chatprofile/internal/pages"
	"chatprofile/internal/peer"
	"chatprofile/internal/rows"
	"chatprofile/internal/scroll"
	"chatprofile/internal/section"
)

// recorder is a Surface that keeps every event it receives.
type recorder struct {
	events []Event
	accept func(Event) bool
}

func (r *recorder) Dispatch(ev Event) bool {
	r.events = append(r.events, ev)
	if r.accept != nil {
		return r.accept(ev)
	}
	return true
}

func (r *recorder) phases() []Phase {
	out := make([]Phase, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Phase
	}
	return out
}

type mockFling struct {
	flung   []float64
	stopped int
}

func (m *mockFling) Fling(v float64) { m.flung = append(m.flung, v) }
func (m *mockFling) Stop()           { m.stopped++ }

type fixture struct {
	router    *Router
	sync      *scroll.Synchronizer
	reg       *pages.Registry
	primary   *recorder
	paged     *recorder
	secondary *recorder
	tabs      *recorder
	fling     *mockFling
	selecting bool
}

// newFixture builds a 21-line primary list (max offset 17) over two pages
// of 40 rows each, on a 24-line screen with the tab strip under the list.
func newFixture(cfg Config) *fixture {
	list := section.New()
	var content []rows.Row
	for i := 0; i < 10; i++ {
		content = append(content, rows.Setting(rows.ID(i+1), "row", nil))
	}
	list.Replace(section.NewBuilder().Group(section.GroupSettings, content...).Layout())

	reg := pages.NewRegistry(pages.TemplateFor(peer.KindUser, peer.ModeView), nil,
		pages.WithContentFactory(func(pages.Category) *section.Model {
			m := section.New()
			var media []rows.Row
			for i := 0; i < 40; i++ {
				media = append(media, rows.Row{Kind: rows.KindMedia, ID: rows.ID(i + 1)})
			}
			m.Replace(section.NewBuilder().Add(media...).Layout())
			return m
		}))
	reg.SetViewport(40, 10)
	reg.ReportCount(pages.CategoryPhoto, 1)
	reg.ReportCount(pages.CategoryVideo, 1)

	f := &fixture{
		reg:       reg,
		primary:   &recorder{},
		paged:     &recorder{},
		secondary: &recorder{},
		tabs:      &recorder{},
		fling:     &mockFling{},
	}
	f.sync = scroll.New(list, reg, scroll.Config{BottomShadowHeight: 1, AnchorHeight: 3}, nil)
	f.sync.SetWidth(40)
	f.router = NewRouter(cfg, Deps{
		Scroll: f.sync,
		Pager:  reg,
		Geometry: func() Geometry {
			bottom := f.sync.ListHeight() - f.sync.Offset()
			return Geometry{ListBottom: bottom, TabStripTop: bottom, TabStripHeight: 1, PageWidth: 40}
		},
		Primary:   f.primary,
		Paged:     f.paged,
		Secondary: f.secondary,
		TabStrip:  f.tabs,
		Fling:     f.fling,
		Exclusive: func() bool { return f.selecting },
	})
	return f
}

func (f *fixture) send(phase Phase, x, y int) {
	f.router.Handle(Event{Phase: phase, X: x, Y: y})
}

func TestDownDecidesOwner(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		y      int
		want   Owner
	}{
		{"over list", 0, 5, OwnerPrimaryList},
		{"on tab strip", 0, 21, OwnerTabStrip},
		{"below tab strip", 0, 23, OwnerPagedContent},
		{"list at max", 17, 1, OwnerPagedContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(DefaultConfig())
			f.sync.ClampedScrollTo(tt.offset)
			f.send(PhaseDown, 3, tt.y)
			if got := f.router.Owner(); got != tt.want {
				t.Errorf("Expected owner %s, got %s", tt.want, got)
			}
			f.send(PhaseUp, 3, tt.y)
			if got := f.router.Owner(); got != OwnerNone {
				t.Errorf("Expected owner reset after up, got %s", got)
			}
		})
	}
}

func TestDownDuringSwipeGoesToPagedContent(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.reg.Drag(-10, 40)

	f.send(PhaseDown, 3, 5)
	if got := f.router.Owner(); got != OwnerPagedContent {
		t.Errorf("Expected paged content while pages move, got %s", got)
	}
}

func TestPromotionToSecondaryList(t *testing.T) {
	f := newFixture(Config{PromotionSlop: 1, PagingSlop: 2})
	max := f.sync.MaxPrimaryOffset()
	f.sync.ClampedScrollTo(max - 2)

	f.send(PhaseDown, 5, 5)
	if f.router.Owner() != OwnerPrimaryList {
		t.Fatalf("Expected primary list, got %s", f.router.Owner())
	}
	f.send(PhaseMove, 5, 1)

	if got := f.router.Owner(); got != OwnerSecondaryList {
		t.Fatalf("Expected promotion to secondary list, got %s", got)
	}
	if f.sync.Offset() != max {
		t.Errorf("Expected primary pinned at %d, got %d", max, f.sync.Offset())
	}
	page := f.reg.CurrentPage()
	if page.ScrollY() != 2 {
		t.Errorf("Expected the overflow of 2 carried to the page, got %d", page.ScrollY())
	}
	last := f.primary.events[len(f.primary.events)-1]
	if last.Phase != PhaseCancel || !last.Synthetic {
		t.Errorf("Expected synthetic cancel to primary, got %v", last)
	}
	if f.fling.stopped == 0 {
		t.Error("Expected fling stopped on promotion")
	}
	if got := f.secondary.phases(); len(got) == 0 || got[0] != PhaseDown {
		t.Errorf("Expected secondary to start with down, got %v", got)
	}

	// The rest of the gesture moves only the page.
	f.send(PhaseMove, 5, 0)
	if page.ScrollY() != 3 {
		t.Errorf("Expected page scroll 3, got %d", page.ScrollY())
	}
	f.send(PhaseMove, 5, 2)
	if f.sync.Offset() != max {
		t.Errorf("Expected primary still pinned at %d, got %d", max, f.sync.Offset())
	}
	if page.ScrollY() != 1 {
		t.Errorf("Expected page scroll 1, got %d", page.ScrollY())
	}
	primaryEvents := len(f.primary.events)
	f.send(PhaseUp, 5, 2)
	if len(f.primary.events) != primaryEvents {
		t.Error("Expected no events to primary after promotion")
	}
	if f.router.Owner() != OwnerNone {
		t.Errorf("Expected owner reset, got %s", f.router.Owner())
	}
}

func TestPromotionRespectsSlop(t *testing.T) {
	f := newFixture(Config{PromotionSlop: 3})
	f.sync.ClampedScrollTo(f.sync.MaxPrimaryOffset() - 1)

	f.send(PhaseDown, 5, 4)
	f.send(PhaseMove, 5, 2)
	if f.router.Owner() != OwnerPrimaryList {
		t.Errorf("Expected no promotion below slop, got %s", f.router.Owner())
	}
	f.send(PhaseMove, 5, 0)
	if f.router.Owner() != OwnerSecondaryList {
		t.Errorf("Expected promotion after slop, got %s", f.router.Owner())
	}
}

func TestDoubledEvents(t *testing.T) {
	tests := []struct {
		name      string
		double    bool
		selecting bool
		want      bool
	}{
		{"enabled", true, false, true},
		{"feature off", false, false, false},
		{"multi-select", true, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(Config{DoubleEvents: tt.double, PromotionSlop: 1})
			f.selecting = tt.selecting

			f.send(PhaseDown, 5, 5)
			f.send(PhaseMove, 5, 4)
			f.send(PhaseUp, 5, 4)

			if got := len(f.secondary.events) > 0; got != tt.want {
				t.Errorf("Expected mirrored=%v, got %v (%v)", tt.want, got, f.secondary.phases())
			}
			if tt.want && len(f.secondary.events) != len(f.primary.events) {
				t.Errorf("Expected every primary event mirrored, got %d vs %d", len(f.secondary.events), len(f.primary.events))
			}
		})
	}
}

func TestTabStripDemotion(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.tabs.accept = func(ev Event) bool { return ev.Phase != PhaseMove }

	f.send(PhaseDown, 3, 21)
	if f.router.Owner() != OwnerTabStrip {
		t.Fatalf("Expected tab strip, got %s", f.router.Owner())
	}
	f.send(PhaseMove, 3, 20)

	if f.router.Owner() != OwnerPagedContent {
		t.Errorf("Expected demotion to paged content, got %s", f.router.Owner())
	}
	last := f.tabs.events[len(f.tabs.events)-1]
	if last.Phase != PhaseCancel || !last.Synthetic {
		t.Errorf("Expected synthetic cancel to tab strip, got %v", last)
	}
	if got := f.paged.phases(); len(got) == 0 || got[0] != PhaseDown {
		t.Errorf("Expected paged content to receive a down, got %v", got)
	}
}

func TestTabStripDeclinesDown(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.tabs.accept = func(Event) bool { return false }

	f.send(PhaseDown, 3, 21)
	if f.router.Owner() != OwnerPagedContent {
		t.Errorf("Expected immediate demotion, got %s", f.router.Owner())
	}
}

func TestPagedContentAxisLock(t *testing.T) {
	t.Run("horizontal swipes pages", func(t *testing.T) {
		f := newFixture(DefaultConfig())
		f.send(PhaseDown, 30, 23)
		f.send(PhaseMove, 29, 23)
		if !f.reg.AtRest() {
			t.Error("Expected no paging inside slop")
		}
		f.send(PhaseMove, 5, 23)
		if f.reg.Fraction() <= 0.5 {
			t.Errorf("Expected swipe past half a page, got %v", f.reg.Fraction())
		}
		f.send(PhaseUp, 5, 23)
		if f.reg.Current() != 1 {
			t.Errorf("Expected settle on page 1, got %d", f.reg.Current())
		}
	})

	t.Run("vertical scrolls list then page", func(t *testing.T) {
		f := newFixture(DefaultConfig())
		f.send(PhaseDown, 5, 23)
		f.send(PhaseMove, 5, 3)
		if f.sync.Offset() != f.sync.MaxPrimaryOffset() {
			t.Errorf("Expected primary at max, got %d", f.sync.Offset())
		}
		if f.reg.CurrentPage().ScrollY() != 3 {
			t.Errorf("Expected page scroll 3, got %d", f.reg.CurrentPage().ScrollY())
		}
	})
}

func TestReleaseFlingsPrimary(t *testing.T) {
	f := newFixture(DefaultConfig())
	now := time.Now()
	f.router.Handle(Event{Phase: PhaseDown, X: 5, Y: 10, Time: now})
	f.router.Handle(Event{Phase: PhaseMove, X: 5, Y: 8, Time: now.Add(100 * time.Millisecond)})
	f.router.Handle(Event{Phase: PhaseUp, X: 5, Y: 8, Time: now.Add(110 * time.Millisecond)})

	if len(f.fling.flung) != 1 {
		t.Fatalf("Expected one fling, got %v", f.fling.flung)
	}
	if v := f.fling.flung[0]; v <= 0 {
		t.Errorf("Expected positive fling velocity, got %v", v)
	}
}

func TestWheel(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.router.Wheel(5, 5, 3)
	if f.sync.Offset() != 3 {
		t.Errorf("Expected wheel to scroll 3, got %d", f.sync.Offset())
	}
	if f.router.Owner() != OwnerNone {
		t.Errorf("Expected no gesture left open, got %s", f.router.Owner())
	}
}

func TestWheelOverPagedContentIgnoresSlop(t *testing.T) {
	for _, slop := range []int{2, 8} {
		cfg := DefaultConfig()
		cfg.PagingSlop = slop
		f := newFixture(cfg)

		f.router.Wheel(5, 23, 3)
		if f.sync.Offset() != 3 {
			t.Errorf("slop %d: expected wheel over pages to scroll 3, got %d", slop, f.sync.Offset())
		}
		if !f.reg.AtRest() {
			t.Errorf("slop %d: expected the pager to stay at rest", slop)
		}
		if f.router.Owner() != OwnerNone {
			t.Errorf("slop %d: expected no gesture left open, got %s", slop, f.router.Owner())
		}
	}
}

func TestStrayEventsIgnored(t *testing.T) {
	f := newFixture(DefaultConfig())
	f.send(PhaseMove, 5, 5)
	f.send(PhaseUp, 5, 5)
	if len(f.primary.events)+len(f.paged.events) != 0 {
		t.Error("Expected events without a down to be dropped")
	}
}
