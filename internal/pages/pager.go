package pages

import "math"

// Current returns the index of the settled page.
func (r *Registry) Current() int { return r.current }

// CurrentPage returns the settled page, or nil when there are none.
func (r *Registry) CurrentPage() *Page { return r.Page(r.current) }

// Fraction is the swipe progress away from the current page, in (-1, 1).
// Positive values move toward the next page.
func (r *Registry) Fraction() float64 { return r.fraction }

// AtRest reports whether no horizontal transition is in progress.
func (r *Registry) AtRest() bool { return r.fraction == 0 }

// Drag moves the swipe by dx cells across a page of width pageWidth. Drags
// past the first or last page are absorbed.
func (r *Registry) Drag(dx, pageWidth float64) {
	if pageWidth <= 0 || r.Len() == 0 {
		return
	}
	f := r.fraction - dx/pageWidth
	lo, hi := -1.0, 1.0
	if r.current == 0 {
		lo = 0
	}
	if r.current >= len(r.pages)-1 {
		hi = 0
	}
	r.fraction = math.Max(lo, math.Min(hi, f))
}

// Settle ends a swipe. The neighbouring page wins when the drag passed the
// settle threshold or a fling points toward it. It returns the page index
// after settling.
func (r *Registry) Settle(velocity float64, primaryAtMax bool) int {
	target := r.current
	switch {
	case r.fraction >= r.settleThreshold || (r.fraction > 0 && velocity < -flingVelocity):
		target++
	case r.fraction <= -r.settleThreshold || (r.fraction < 0 && velocity > flingVelocity):
		target--
	}
	r.fraction = 0
	r.SelectPage(target, primaryAtMax)
	return r.current
}

// flingVelocity is the horizontal speed, in cells per second, that settles a
// short swipe on the neighbouring page.
const flingVelocity = 40.0

// SelectPage switches to page i. When the primary list sits at its maximum
// offset the new page takes over the inner scroll of the old one, clamped to
// its own content, so the visible boundary does not jump. Otherwise the new
// page starts at the top.
func (r *Registry) SelectPage(i int, primaryAtMax bool) bool {
	r.ensureBuilt()
	if i < 0 || i >= len(r.pages) {
		return false
	}
	r.fraction = 0
	if i == r.current {
		return false
	}
	from, to := r.pages[r.current], r.pages[i]
	if primaryAtMax {
		to.SetScrollY(from.ScrollY())
	} else {
		to.SetScrollY(0)
	}
	r.current = i
	return true
}
