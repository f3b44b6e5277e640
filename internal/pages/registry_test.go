package pages

import (
	"math/rand"
	"reflect"
	"testing"

	"chatprofile/internal/peer"
	"chatprofile/internal/rows"
	"chatprofile/internal/section"
)

func groupCaps() peer.Capabilities {
	return peer.Capabilities{peer.CapMembers: true}
}

func TestTemplateFor(t *testing.T) {
	tests := []struct {
		name  string
		kind  peer.Kind
		mode  peer.Mode
		first Category
		size  int
	}{
		{"user", peer.KindUser, peer.ModeView, CategoryPhoto, 8},
		{"group", peer.KindGroup, peer.ModeView, CategoryMembers, 8},
		{"channel", peer.KindChannel, peer.ModeView, CategoryMembers, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := TemplateFor(tt.kind, tt.mode)
			if len(tpl) != tt.size {
				t.Errorf("Expected %d entries, got %d", tt.size, len(tpl))
			}
			if tpl[0].Category != tt.first {
				t.Errorf("Expected first entry %s, got %s", tt.first, tpl[0].Category)
			}
		})
	}

	if tpl := TemplateFor(peer.KindGroup, peer.ModeEdit); len(tpl) != 0 {
		t.Errorf("Expected no pages in edit mode, got %d", len(tpl))
	}
}

func TestSyncPagesBuiltLazily(t *testing.T) {
	built := 0
	r := NewRegistry(TemplateFor(peer.KindGroup, peer.ModeView), groupCaps(),
		WithContentFactory(func(c Category) *section.Model {
			built++
			return section.New()
		}))
	if built != 0 {
		t.Errorf("Expected no pages before first access, got %d", built)
	}
	if got := r.Categories(); !reflect.DeepEqual(got, []Category{CategoryMembers}) {
		t.Errorf("Expected [members], got %v", got)
	}
	if built != 1 {
		t.Errorf("Expected one page built, got %d", built)
	}
}

func TestReportCountScenario(t *testing.T) {
	r := NewRegistry(TemplateFor(peer.KindUser, peer.ModeView), nil)

	r.ReportCount(CategoryPhoto, 3)
	r.ReportCount(CategoryURL, 2)
	r.ReportCount(CategoryVideo, 0)

	want := []Category{CategoryPhoto, CategoryURL}
	if got := r.Categories(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
	if r.IndexOf(CategoryVideo) != -1 {
		t.Error("Expected video page absent")
	}
}

func TestReportCountOrderIndependent(t *testing.T) {
	tpl := TemplateFor(peer.KindGroup, peer.ModeView)
	type report struct {
		c Category
		n int
	}
	reports := []report{
		{CategoryGIF, 1},
		{CategoryPhoto, 4},
		{CategoryVoice, 0},
		{CategoryFile, 2},
		{CategoryAudio, 7},
		{CategoryURL, 1},
		{CategoryVideo, 0},
		{CategoryFile, 0},
	}

	// Reference: the same reports in template order.
	ref := NewRegistry(tpl, groupCaps())
	for _, e := range tpl {
		for _, rep := range reports {
			if rep.c == e.Category {
				ref.ReportCount(rep.c, rep.n)
			}
		}
	}
	want := ref.Categories()

	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 200; trial++ {
		shuffled := append([]report(nil), reports...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		r := NewRegistry(tpl, groupCaps())
		for _, rep := range shuffled {
			r.ReportCount(rep.c, rep.n)
		}
		if got := r.Categories(); !reflect.DeepEqual(got, want) {
			t.Fatalf("trial %d: order %v gave %v, want %v", trial, shuffled, got, want)
		}
	}
}

func TestCountDropKeepsPage(t *testing.T) {
	r := NewRegistry(TemplateFor(peer.KindUser, peer.ModeView), nil)
	r.ReportCount(CategoryFile, 5)
	r.ReportCount(CategoryFile, 0)

	i := r.IndexOf(CategoryFile)
	if i < 0 {
		t.Fatal("Expected file page to persist")
	}
	if sub := r.Page(i).Subtitle(); sub != "" {
		t.Errorf("Expected cleared subtitle, got %q", sub)
	}
}

func TestReportCountIgnoresUnknown(t *testing.T) {
	r := NewRegistry(TemplateFor(peer.KindUser, peer.ModeView), nil)

	if i := r.ReportCount(CategoryMembers, 10); i != -1 {
		t.Errorf("Expected members outside user template to be ignored, got %d", i)
	}
	if i := r.ReportCount(CategoryPhoto, -1); i != -1 {
		t.Errorf("Expected unknown count to be ignored, got %d", i)
	}
	if r.Len() != 0 {
		t.Errorf("Expected no pages, got %v", r.Categories())
	}
}

func TestCapabilityLossRemovesPage(t *testing.T) {
	tests := []struct {
		name          string
		allowReinsert bool
		wantBack      bool
	}{
		{"reinsert refused", false, false},
		{"reinsert allowed", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(TemplateFor(peer.KindGroup, peer.ModeView), groupCaps(),
				WithAllowReinsert(tt.allowReinsert))
			r.ReportCount(CategoryPhoto, 1)
			r.ReportCount(CategoryVideo, 1)
			r.SelectPage(2, false)

			if !r.SetCapability(peer.CapMembers, false) {
				t.Fatal("Expected capability loss to change pages")
			}
			if r.IndexOf(CategoryMembers) != -1 {
				t.Error("Expected members page removed")
			}
			if r.Current() != 1 || r.CurrentPage().Category != CategoryVideo {
				t.Errorf("Expected current page to stay on video at 1, got %d", r.Current())
			}

			r.SetCapability(peer.CapMembers, true)
			if back := r.IndexOf(CategoryMembers) == 0; back != tt.wantBack {
				t.Errorf("Expected members back=%v, got %v", tt.wantBack, back)
			}
		})
	}
}

func TestInsertBeforeCurrentKeepsDisplayedPage(t *testing.T) {
	r := NewRegistry(TemplateFor(peer.KindUser, peer.ModeView), nil)
	r.ReportCount(CategoryURL, 1)
	r.ReportCount(CategoryPhoto, 1)

	if r.CurrentPage().Category != CategoryURL {
		t.Errorf("Expected url page to stay current, got %s", r.CurrentPage().Category)
	}
}

func TestRefreshCounts(t *testing.T) {
	r := NewRegistry(TemplateFor(peer.KindGroup, peer.ModeView), nil)
	var issued []Category
	r.RefreshCounts(func(c Category) { issued = append(issued, c) })

	if len(issued) != len(MediaCategories) {
		t.Errorf("Expected %d categories without members capability, got %v", len(MediaCategories), issued)
	}
	for _, c := range issued {
		if c == CategoryMembers {
			t.Error("Expected members not tracked without capability")
		}
	}
}

// ============================================================================
// Pager
// ============================================================================

func pagesWithContent(n int) *Registry {
	r := NewRegistry(TemplateFor(peer.KindUser, peer.ModeView), nil,
		WithContentFactory(func(c Category) *section.Model {
			m := section.New()
			var content []rows.Row
			for i := 0; i < n; i++ {
				content = append(content, rows.Row{Kind: rows.KindMedia, ID: rows.ID(i + 1)})
			}
			m.Replace(section.NewBuilder().Add(content...).Layout())
			return m
		}))
	r.SetViewport(40, 10)
	return r
}

func TestDragAndSettle(t *testing.T) {
	r := pagesWithContent(5)
	r.ReportCount(CategoryPhoto, 1)
	r.ReportCount(CategoryVideo, 1)

	r.Drag(10, 40)
	if r.Fraction() != 0 {
		t.Errorf("Expected drag before first page absorbed, got %v", r.Fraction())
	}

	r.Drag(-30, 40)
	if r.AtRest() {
		t.Error("Expected transition in progress")
	}
	if got := r.Settle(0, false); got != 1 {
		t.Errorf("Expected settle on page 1, got %d", got)
	}

	r.Drag(10, 40)
	if got := r.Settle(0, false); got != 1 {
		t.Errorf("Expected short drag to settle back on 1, got %d", got)
	}

	r.Drag(5, 40)
	if got := r.Settle(100, false); got != 0 {
		t.Errorf("Expected fling back to page 0, got %d", got)
	}
	if !r.AtRest() {
		t.Error("Expected pager at rest after settle")
	}
}

func TestSelectPageCarriesInnerScroll(t *testing.T) {
	r := pagesWithContent(30)
	r.ReportCount(CategoryPhoto, 1)
	r.ReportCount(CategoryVideo, 1)

	r.Page(0).SetScrollY(12)
	r.SelectPage(1, true)
	if got := r.Page(1).ScrollY(); got != 12 {
		t.Errorf("Expected inner scroll 12 carried over, got %d", got)
	}

	r.Page(1).SetScrollY(12)
	r.SelectPage(0, false)
	if got := r.Page(0).ScrollY(); got != 0 {
		t.Errorf("Expected new page at top when primary not at max, got %d", got)
	}
}

func TestEnsureMaxScrollY(t *testing.T) {
	r := pagesWithContent(30)
	r.ReportCount(CategoryPhoto, 1)
	p := r.Page(0)

	p.SetScrollY(100)
	if p.ScrollY() != 20 {
		t.Errorf("Expected clamp to content max 20, got %d", p.ScrollY())
	}
	p.EnsureMaxScrollY(4, 0)
	if p.ScrollY() != 0 {
		t.Errorf("Expected ceiling 0 to pin page, got %d", p.ScrollY())
	}
	p.SetScrollY(15)
	p.EnsureMaxScrollY(6, Unbounded)
	if p.ScrollY() != 15 {
		t.Errorf("Expected unbounded ceiling to keep 15, got %d", p.ScrollY())
	}
	if p.PrimaryOffset() != 6 {
		t.Errorf("Expected recorded primary offset 6, got %d", p.PrimaryOffset())
	}
}
