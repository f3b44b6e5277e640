package pages

import (
	"strconv"

	"chatprofile/internal/section"
)

// Unbounded is the ceiling that leaves a page's inner scroll limited only by
// its own content.
const Unbounded = -1

// Page is one content tab. It owns its row list and inner scroll offset.
type Page struct {
	Category Category
	Content  *section.Model

	count    int
	hasCount bool
	scrollY  int
	width    int
	height   int
	// primaryOffset is the primary list offset seen at the last clamp.
	primaryOffset int
	selecting     bool
}

func newPage(c Category, content *section.Model) *Page {
	if content == nil {
		content = section.New()
	}
	return &Page{Category: c, Content: content}
}

// Count returns the last reported count and whether it should be shown.
func (p *Page) Count() (int, bool) { return p.count, p.hasCount }

// SetCount stores a reported count. Non-positive counts clear the subtitle.
func (p *Page) SetCount(n int) {
	p.count = max(n, 0)
	p.hasCount = n > 0
}

// Subtitle is the tab caption, empty when no count is shown.
func (p *Page) Subtitle() string {
	if !p.hasCount {
		return ""
	}
	return strconv.Itoa(p.count)
}

// SetViewport sets the visible size of the page content.
func (p *Page) SetViewport(width, height int) {
	p.width, p.height = width, max(height, 0)
	p.scrollY = min(p.scrollY, p.MaxScrollY())
}

// Viewport returns the visible size of the page content.
func (p *Page) Viewport() (int, int) { return p.width, p.height }

// ContentHeight is the measured height of the page rows.
func (p *Page) ContentHeight() int { return p.Content.Measure(p.width) }

// MaxScrollY is the largest inner scroll offset the content allows.
func (p *Page) MaxScrollY() int {
	return max(0, p.ContentHeight()-p.height)
}

// ScrollY returns the inner scroll offset.
func (p *Page) ScrollY() int { return p.scrollY }

// SetScrollY clamps y to the content and stores it.
func (p *Page) SetScrollY(y int) {
	p.scrollY = max(0, min(y, p.MaxScrollY()))
}

// ScrollBy moves the inner list by delta and returns how much was consumed.
func (p *Page) ScrollBy(delta int) int {
	before := p.scrollY
	p.SetScrollY(p.scrollY + delta)
	return p.scrollY - before
}

// EnsureMaxScrollY clamps the inner offset to ceiling (or the content limit
// when ceiling is Unbounded) for the given primary list offset.
func (p *Page) EnsureMaxScrollY(primaryOffset, ceiling int) {
	p.primaryOffset = primaryOffset
	limit := p.MaxScrollY()
	if ceiling != Unbounded && ceiling < limit {
		limit = max(ceiling, 0)
	}
	p.scrollY = max(0, min(p.scrollY, limit))
}

// PrimaryOffset returns the primary offset recorded by the last clamp.
func (p *Page) PrimaryOffset() int { return p.primaryOffset }

// Selecting reports whether multi-select is active on this page.
func (p *Page) Selecting() bool { return p.selecting }

// SetSelecting toggles multi-select.
func (p *Page) SetSelecting(on bool) { p.selecting = on }
