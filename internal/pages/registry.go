package pages

import (
	"io"
	"log/slog"
	"slices"

	"chatprofile/internal/peer"
	"chatprofile/internal/section"
)

// ContentFactory builds the row list for a newly created page.
type ContentFactory func(Category) *section.Model

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithAllowReinsert lets a page removed on capability loss come back when
// the capability or a positive count returns.
func WithAllowReinsert(allow bool) Option {
	return func(r *Registry) { r.allowReinsert = allow }
}

// WithContentFactory sets the page content builder.
func WithContentFactory(f ContentFactory) Option {
	return func(r *Registry) { r.factory = f }
}

// WithSettleThreshold sets the swipe fraction past which a released drag
// moves to the neighbouring page.
func WithSettleThreshold(f float64) Option {
	return func(r *Registry) {
		if f > 0 && f < 1 {
			r.settleThreshold = f
		}
	}
}

// Registry is the ordered page list plus paging state. It is used from the
// UI loop only.
type Registry struct {
	template      Template
	caps          peer.Capabilities
	pages         []*Page
	built         bool
	removed       map[Category]bool
	allowReinsert bool
	factory       ContentFactory
	log           *slog.Logger

	width, height int

	current         int
	fraction        float64
	settleThreshold float64
}

// NewRegistry returns a registry for template. Pages are built on first use.
func NewRegistry(t Template, caps peer.Capabilities, opts ...Option) *Registry {
	r := &Registry{
		template:        t,
		caps:            caps.Clone(),
		removed:         make(map[Category]bool),
		log:             slog.New(slog.NewTextHandler(io.Discard, nil)),
		settleThreshold: 0.5,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Template returns the template the registry orders pages by.
func (r *Registry) Template() Template { return r.template }

// Pages returns the ordered pages, building the synchronous ones first.
func (r *Registry) Pages() []*Page {
	r.ensureBuilt()
	return slices.Clone(r.pages)
}

// Len returns the number of pages.
func (r *Registry) Len() int {
	r.ensureBuilt()
	return len(r.pages)
}

// Page returns the page at i, or nil.
func (r *Registry) Page(i int) *Page {
	r.ensureBuilt()
	if i < 0 || i >= len(r.pages) {
		return nil
	}
	return r.pages[i]
}

// IndexOf returns the index of the page for c, or -1.
func (r *Registry) IndexOf(c Category) int {
	r.ensureBuilt()
	return slices.IndexFunc(r.pages, func(p *Page) bool { return p.Category == c })
}

// Categories returns the page categories in display order.
func (r *Registry) Categories() []Category {
	r.ensureBuilt()
	out := make([]Category, len(r.pages))
	for i, p := range r.pages {
		out[i] = p.Category
	}
	return out
}

// SetViewport sizes every page.
func (r *Registry) SetViewport(width, height int) {
	r.width, r.height = width, height
	for _, p := range r.pages {
		p.SetViewport(width, height)
	}
}

func (r *Registry) ensureBuilt() {
	if r.built {
		return
	}
	r.built = true
	for _, e := range r.template {
		if e.Sync && r.caps.Has(e.Requires) {
			r.pages = append(r.pages, r.newPage(e.Category))
		}
	}
}

func (r *Registry) newPage(c Category) *Page {
	var content *section.Model
	if r.factory != nil {
		content = r.factory(c)
	}
	p := newPage(c, content)
	p.SetViewport(r.width, r.height)
	return p
}

// ReportCount applies an asynchronous count for c. A positive count creates
// the page if it is missing; a non-positive count only clears the shown
// count. It returns the index of a newly inserted page, or -1.
func (r *Registry) ReportCount(c Category, count int) int {
	r.ensureBuilt()
	pos := r.template.position(c)
	if pos < 0 {
		r.log.Debug("count for category outside template", "category", c, "count", count)
		return -1
	}
	if count < 0 {
		r.log.Debug("unknown count ignored", "category", c)
		return -1
	}
	if i := r.IndexOf(c); i >= 0 {
		r.pages[i].SetCount(count)
		return -1
	}
	if count == 0 {
		return -1
	}
	e := r.template[pos]
	if !r.caps.Has(e.Requires) {
		r.log.Debug("count for page without capability", "category", c, "requires", e.Requires)
		return -1
	}
	if r.removed[c] && !r.allowReinsert {
		r.log.Debug("reinsert of removed page refused", "category", c)
		return -1
	}

	i := r.insertIndex(pos)
	p := r.newPage(c)
	p.SetCount(count)
	r.insertAt(i, p)
	delete(r.removed, c)
	return i
}

// insertIndex scans from the first media page and returns the slot before
// the first page that sorts after template position pos.
func (r *Registry) insertIndex(pos int) int {
	start := slices.IndexFunc(r.pages, func(p *Page) bool { return p.Category.IsMedia() })
	if start < 0 {
		start = 0
	}
	for i := start; i < len(r.pages); i++ {
		if r.template.position(r.pages[i].Category) > pos {
			return i
		}
	}
	return len(r.pages)
}

func (r *Registry) insertAt(i int, p *Page) {
	r.pages = slices.Insert(r.pages, i, p)
	if len(r.pages) > 1 && i <= r.current {
		r.current++
	}
}

// RemoveCategory drops the page for c. The current index shifts so the
// displayed page stays the same where possible.
func (r *Registry) RemoveCategory(c Category) bool {
	i := r.IndexOf(c)
	if i < 0 {
		return false
	}
	r.pages = slices.Delete(r.pages, i, i+1)
	r.removed[c] = true
	switch {
	case i < r.current:
		r.current--
	case r.current >= len(r.pages):
		r.current = max(0, len(r.pages)-1)
	}
	r.fraction = 0
	return true
}

// SetCapability updates one capability. Losing it removes the pages that
// require it; gaining it restores synchronous pages that require it.
func (r *Registry) SetCapability(c peer.Capability, enabled bool) bool {
	r.ensureBuilt()
	if enabled {
		r.caps[c] = true
	} else {
		delete(r.caps, c)
	}
	changed := false
	for pos, e := range r.template {
		if e.Requires != c {
			continue
		}
		if !enabled {
			changed = r.RemoveCategory(e.Category) || changed
			continue
		}
		if !e.Sync || r.IndexOf(e.Category) >= 0 {
			continue
		}
		if r.removed[e.Category] && !r.allowReinsert {
			r.log.Debug("reinsert of removed page refused", "category", e.Category)
			continue
		}
		r.insertAt(r.syncInsertIndex(pos), r.newPage(e.Category))
		delete(r.removed, e.Category)
		changed = true
	}
	return changed
}

func (r *Registry) syncInsertIndex(pos int) int {
	for i, p := range r.pages {
		if r.template.position(p.Category) > pos {
			return i
		}
	}
	return len(r.pages)
}

// Tracked returns the categories whose counts are queried: every template
// entry the current capabilities allow.
func (r *Registry) Tracked() []Category {
	var out []Category
	for _, e := range r.template {
		if r.caps.Has(e.Requires) {
			out = append(out, e.Category)
		}
	}
	return out
}

// RefreshCounts calls issue for every tracked category.
func (r *Registry) RefreshCounts(issue func(Category)) {
	for _, c := range r.Tracked() {
		issue(c)
	}
}
