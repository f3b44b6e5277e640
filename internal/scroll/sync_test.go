package scroll

import (
	"math/rand"
	"testing"

	"chatprofile/internal/pages"
	"chatprofile/internal/peer"
	"chatprofile/internal/rows"
	"chatprofile/internal/section"
)

func listOf(n int) *section.Model {
	m := section.New()
	var content []rows.Row
	for i := 0; i < n; i++ {
		content = append(content, rows.Setting(rows.ID(i+1), "row", nil))
	}
	m.Replace(section.NewBuilder().Group(section.GroupSettings, content...).Layout())
	return m
}

func registryWithPages(pageRows int) *pages.Registry {
	r := pages.NewRegistry(pages.TemplateFor(peer.KindUser, peer.ModeView), nil,
		pages.WithContentFactory(func(pages.Category) *section.Model {
			m := section.New()
			var content []rows.Row
			for i := 0; i < pageRows; i++ {
				content = append(content, rows.Row{Kind: rows.KindMedia, ID: rows.ID(i + 1)})
			}
			m.Replace(section.NewBuilder().Add(content...).Layout())
			return m
		}))
	r.SetViewport(40, 10)
	r.ReportCount(pages.CategoryPhoto, 1)
	r.ReportCount(pages.CategoryVideo, 1)
	return r
}

func TestMaxPrimaryOffset(t *testing.T) {
	// 10 content rows + 9 separators + 2 shadows = 21 lines.
	s := New(listOf(10), registryWithPages(0), Config{BottomShadowHeight: 1, AnchorHeight: 3}, nil)
	s.SetWidth(40)

	if got := s.MaxPrimaryOffset(); got != 17 {
		t.Errorf("Expected max offset 17, got %d", got)
	}

	short := New(listOf(1), registryWithPages(0), Config{BottomShadowHeight: 5, AnchorHeight: 5}, nil)
	if got := short.MaxPrimaryOffset(); got != 0 {
		t.Errorf("Expected max offset floored at 0, got %d", got)
	}
}

func TestClampedScrollToNotifiesOnlyOnChange(t *testing.T) {
	s := New(listOf(10), registryWithPages(0), Config{BottomShadowHeight: 1, AnchorHeight: 3}, nil)
	s.SetWidth(40)
	var deltas []int
	s.OnScroll = func(d int) { deltas = append(deltas, d) }

	s.ClampedScrollTo(5)
	s.ClampedScrollTo(5)
	s.ClampedScrollTo(-4)
	s.ClampedScrollTo(100)

	want := []int{5, -5, 17}
	if len(deltas) != len(want) {
		t.Fatalf("Expected deltas %v, got %v", want, deltas)
	}
	for i := range want {
		if deltas[i] != want[i] {
			t.Errorf("Expected delta %d at %d, got %d", want[i], i, deltas[i])
		}
	}
}

func TestOffsetStaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	list := listOf(12)
	s := New(list, registryWithPages(40), Config{BottomShadowHeight: 1, AnchorHeight: 2}, nil)
	s.SetWidth(40)

	for step := 0; step < 1000; step++ {
		switch rng.Intn(5) {
		case 0:
			s.ClampedScrollTo(rng.Intn(80) - 40)
		case 1:
			s.ScrollBy(rng.Intn(30) - 15)
		case 2:
			s.ScrollContent(rng.Intn(30) - 15)
		case 3:
			// Structural edits shrink and grow the list under the offset.
			if list.GroupCount(section.GroupSettings) > 1 && rng.Intn(2) == 0 {
				rs := list.GroupRows(section.GroupSettings)
				list.RemoveByID(section.GroupSettings, rs[rng.Intn(len(rs))].ID)
			} else {
				list.InsertRow(section.GroupSettings, 0, rows.Setting(rows.ID(1000+step), "new", nil))
			}
			s.Reclamp()
		case 4:
			s.SetWidth(20 + rng.Intn(40))
		}
		if off := s.Offset(); off < 0 || off > s.MaxPrimaryOffset() {
			t.Fatalf("step %d: offset %d outside [0, %d]", step, off, s.MaxPrimaryOffset())
		}
	}
}

func TestScrollContentHandsOffToPage(t *testing.T) {
	s := New(listOf(10), registryWithPages(40), Config{BottomShadowHeight: 1, AnchorHeight: 3}, nil)
	s.SetWidth(40)

	if rest := s.ScrollContent(25); rest != 0 {
		t.Errorf("Expected the page to absorb the rest, got %d", rest)
	}
	if s.Offset() != 17 {
		t.Errorf("Expected primary pinned at 17, got %d", s.Offset())
	}
	page := s.pages.CurrentPage()
	if page.ScrollY() != 8 {
		t.Errorf("Expected page scroll 8, got %d", page.ScrollY())
	}

	s.ScrollContent(-10)
	if page.ScrollY() != 0 || s.Offset() != 15 {
		t.Errorf("Expected page unwound first, got page=%d primary=%d", page.ScrollY(), s.Offset())
	}
}

func TestSyncActivePageCeiling(t *testing.T) {
	s := New(listOf(10), registryWithPages(40), Config{BottomShadowHeight: 1, AnchorHeight: 3}, nil)
	s.SetWidth(40)
	page := s.pages.CurrentPage()

	page.SetScrollY(9)
	s.ClampedScrollTo(4)
	s.SyncActivePage()
	if page.ScrollY() != 0 {
		t.Errorf("Expected page held at 0 below max, got %d", page.ScrollY())
	}

	s.ClampedScrollTo(s.MaxPrimaryOffset())
	page.SetScrollY(9)
	s.SyncActivePage()
	if page.ScrollY() != 9 {
		t.Errorf("Expected page free at max, got %d", page.ScrollY())
	}
}

func TestPageSwapIsContinuous(t *testing.T) {
	reg := registryWithPages(40)
	s := New(listOf(10), reg, Config{BottomShadowHeight: 1, AnchorHeight: 3}, nil)
	s.SetWidth(40)

	s.ScrollContent(30)
	before := s.ContentOffset()
	reg.SelectPage(1, s.AtMax())
	s.SyncActivePage()
	if after := s.ContentOffset(); after != before {
		t.Errorf("Expected combined offset %d after swap, got %d", before, after)
	}
}
