// Package screen coordinates one profile screen: its section list, pages,
// scroll synchronizer and gesture router. Every method runs on the UI loop;
// results produced elsewhere must check IsAlive before calling in.
package screen

import (
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"chatprofile/internal/gesture"
	"chatprofile/internal/pages"
	"chatprofile/internal/peer"
	"chatprofile/internal/rows"
	"chatprofile/internal/scroll"
	"chatprofile/internal/section"
)

// Options configures a Screen.
type Options struct {
	Gesture         gesture.Config
	Scroll          scroll.Config
	TabStripHeight  int
	AllowReinsert   bool
	SettleThreshold float64
	Settings        Settings
	// Measurer measures rows of the primary list and every page.
	Measurer *section.Measurer
	Logger   *slog.Logger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Gesture:         gesture.DefaultConfig(),
		Scroll:          scroll.Config{BottomShadowHeight: 1, AnchorHeight: 3},
		TabStripHeight:  1,
		SettleThreshold: 0.5,
		Settings:        DefaultSettings(),
	}
}

// Surfaces are the host's receivers for routed pointer events.
type Surfaces struct {
	Primary   gesture.Surface
	Paged     gesture.Surface
	Secondary gesture.Surface
	TabStrip  gesture.Surface
	Fling     gesture.Flinger
}

// Screen is one live profile screen.
type Screen struct {
	id    uuid.UUID
	alive atomic.Bool

	peer     peer.Peer
	caps     peer.Capabilities
	mode     peer.Mode
	opts     Options
	surfaces Surfaces

	list   *section.Model
	pages  *pages.Registry
	sync   *scroll.Synchronizer
	router *gesture.Router

	width, height int
	counts        map[pages.Category]int
	edits         map[rows.ID]rows.Payload

	snapshot atomic.Pointer[Snapshot]
	log      *slog.Logger
}

// New builds a screen for p in view mode.
func New(p peer.Peer, caps peer.Capabilities, opts Options, surfaces Surfaces) *Screen {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Measurer == nil {
		opts.Measurer = section.NewMeasurer(nil)
	}
	s := &Screen{
		id:       uuid.New(),
		peer:     p,
		caps:     caps.Clone(),
		mode:     peer.ModeView,
		opts:     opts,
		surfaces: surfaces,
		counts:   make(map[pages.Category]int),
		edits:    make(map[rows.ID]rows.Payload),
	}
	s.log = log.With("screen", s.id.String()[:8], "peer", p.ID)
	s.alive.Store(true)
	s.list = section.New(section.WithLogger(s.log), section.WithMeasurer(opts.Measurer))
	s.build()
	return s
}

// build rebuilds the list, pages, synchronizer and router for the current
// mode. Known counts are replayed into the new registry.
func (s *Screen) build() {
	mustReplace(s.list, "build", BuildLayout(s.peer, s.caps, s.mode, s.opts.Settings))
	s.pages = pages.NewRegistry(pages.TemplateFor(s.peer.Kind, s.mode), s.caps,
		pages.WithLogger(s.log),
		pages.WithAllowReinsert(s.opts.AllowReinsert),
		pages.WithSettleThreshold(s.opts.SettleThreshold),
		pages.WithContentFactory(s.newPageContent),
	)
	s.sync = scroll.New(s.list, s.pages, s.opts.Scroll, s.log)
	s.router = gesture.NewRouter(s.opts.Gesture, gesture.Deps{
		Scroll:    s.sync,
		Pager:     s.pages,
		Geometry:  s.Geometry,
		Primary:   s.surfaces.Primary,
		Paged:     s.surfaces.Paged,
		Secondary: s.surfaces.Secondary,
		TabStrip:  s.surfaces.TabStrip,
		Fling:     s.surfaces.Fling,
		Exclusive: s.selecting,
		Logger:    s.log,
	})
	s.layout()
	for c, n := range s.counts {
		s.pages.ReportCount(c, n)
	}
	s.applyMemberCount()
	s.sync.Reclamp()
	s.publish()
}

func (s *Screen) newPageContent(c pages.Category) *section.Model {
	m := section.New(section.WithLogger(s.log), section.WithMeasurer(s.opts.Measurer))
	mustReplace(m, "page content", section.NewBuilder().Add(rows.Row{Kind: rows.KindLoading, ID: 1, Title: "Loading " + c.Title()}).Layout())
	return m
}

// mustReplace installs a layout the screen built itself. A rejected layout
// is a programming error.
func mustReplace(m *section.Model, op string, l section.Layout) {
	if err := m.Replace(l); err != nil {
		panic(&section.InvariantError{Op: op, Detail: err.Error()})
	}
}

func (s *Screen) selecting() bool {
	p := s.pages.CurrentPage()
	return p != nil && p.Selecting()
}

// ============================================================================
// Collaborator entry points
// ============================================================================

// ID returns the screen instance id.
func (s *Screen) ID() string { return s.id.String() }

// IsAlive reports whether results may still be applied.
func (s *Screen) IsAlive() bool { return s.alive.Load() }

// Close marks the screen as torn down. Late results are dropped.
func (s *Screen) Close() {
	if s.alive.CompareAndSwap(true, false) {
		s.log.Debug("screen closed")
		s.publish()
	}
}

// RebuildAll replaces the whole section list.
func (s *Screen) RebuildAll(l section.Layout) error {
	if err := s.list.Replace(l); err != nil {
		return err
	}
	s.sync.Reclamp()
	s.publish()
	return nil
}

// SetMode switches between view and edit presentation.
func (s *Screen) SetMode(m peer.Mode) {
	if m == s.mode {
		return
	}
	s.mode = m
	clear(s.edits)
	s.build()
}

// SetPeer replaces the peer, for example after a save, and rebuilds.
func (s *Screen) SetPeer(p peer.Peer) {
	s.peer = p
	s.build()
}

// OnCapabilityChanged inserts or removes the row and pages governed by c
// without rebuilding the list.
func (s *Screen) OnCapabilityChanged(c peer.Capability, enabled bool) {
	if !s.IsAlive() {
		s.log.Debug("stale capability dropped", "capability", c)
		return
	}
	if enabled {
		s.caps[c] = true
	} else {
		delete(s.caps, c)
	}
	s.pages.SetCapability(c, enabled)
	if s.mode == peer.ModeView {
		s.applyCapabilityRow(c, enabled)
	}
	s.sync.Reclamp()
	s.publish()
}

func (s *Screen) applyCapabilityRow(c peer.Capability, enabled bool) {
	spec, ok := specFor(c)
	if !ok || !applies(spec, s.peer) {
		return
	}
	present := s.list.IndexIn(spec.group, spec.id) != section.NotFound

	if !enabled {
		if !present {
			return
		}
		// Dependent rows go first so their anchor is still there.
		for _, dep := range capabilityRows {
			if dep.anchor == spec.id {
				s.list.RemoveByID(dep.group, dep.id)
			}
		}
		s.list.RemoveByID(spec.group, spec.id)
		return
	}
	if present {
		return
	}
	if spec.anchor != rows.NoID {
		if !s.caps.Has(anchorCap(spec.anchor)) {
			s.log.Debug("row waits for anchor capability", "capability", c, "anchor", spec.anchor)
			return
		}
		s.list.MustIndexIn(string(c), spec.group, spec.anchor)
	}
	at := logicalIndex(spec.group, spec.id, s.list.GroupRows(spec.group))
	s.list.InsertRow(spec.group, at, spec.build(s.peer, s.opts.Settings))
	if c == peer.CapMembers {
		s.applyMemberCount()
	}
	// A granted anchor pulls in dependents that were waiting for it.
	for _, dep := range capabilityRows {
		if dep.anchor == spec.id && s.caps.Has(dep.cap) {
			s.applyCapabilityRow(dep.cap, true)
		}
	}
}

// OnCountReported feeds a category count to the pages and the rows that
// show it.
func (s *Screen) OnCountReported(c pages.Category, count int) {
	if !s.IsAlive() {
		s.log.Debug("stale count dropped", "category", c, "count", count)
		return
	}
	if count >= 0 {
		s.counts[c] = count
	}
	s.pages.ReportCount(c, count)
	if c == pages.CategoryMembers {
		s.applyMemberCount()
	}
	s.sync.Reclamp()
	s.publish()
}

func (s *Screen) applyMemberCount() {
	p := s.list.IndexIn(section.GroupSettings, RowMembers)
	if p == section.NotFound {
		return
	}
	n, ok := s.counts[pages.CategoryMembers]
	if !ok {
		return
	}
	s.list.SetPayload(p, rows.Count{Value: n, Loaded: true}, false)
	s.list.SetFlags(p, rows.FlagNone)
}

// OnPageContent replaces the rows of the page for c once they are loaded.
func (s *Screen) OnPageContent(c pages.Category, content []rows.Row) {
	if !s.IsAlive() {
		return
	}
	i := s.pages.IndexOf(c)
	if i < 0 {
		return
	}
	page := s.pages.Page(i)
	if len(content) == 0 {
		content = []rows.Row{{Kind: rows.KindPlaceholder, ID: 1, Title: "Nothing here yet"}}
	}
	page.Content.Replace(section.NewBuilder().Add(content...).Layout())
	page.SetScrollY(page.ScrollY())
	s.sync.Reclamp()
	s.publish()
}

// RefreshCounts calls issue for every tracked category.
func (s *Screen) RefreshCounts(issue func(pages.Category)) {
	s.pages.RefreshCounts(issue)
}

// ============================================================================
// Pointer input and layout
// ============================================================================

// SetViewport sizes the screen in cells.
func (s *Screen) SetViewport(width, height int) {
	s.width, s.height = width, height
	s.layout()
	s.sync.Reclamp()
	s.publish()
}

func (s *Screen) layout() {
	s.sync.SetWidth(s.width)
	s.pages.SetViewport(s.width, s.PageViewportHeight())
}

// PageViewportHeight is the height available to a page once the primary
// list is fully scrolled.
func (s *Screen) PageViewportHeight() int {
	return max(0, s.height-s.opts.Scroll.BottomShadowHeight-s.opts.Scroll.AnchorHeight-s.opts.TabStripHeight)
}

// Geometry reports where the list, tab strip and pages sit on screen.
func (s *Screen) Geometry() gesture.Geometry {
	bottom := s.sync.ListHeight() - s.sync.Offset()
	return gesture.Geometry{
		ListBottom:     bottom,
		TabStripTop:    bottom,
		TabStripHeight: s.tabStripHeight(),
		PageWidth:      s.width,
	}
}

func (s *Screen) tabStripHeight() int {
	if s.pages.Len() == 0 {
		return 0
	}
	return s.opts.TabStripHeight
}

// HandlePointer routes one pointer event.
func (s *Screen) HandlePointer(ev gesture.Event) {
	s.router.Handle(ev)
	s.publish()
}

// Wheel routes a wheel notch at (x, y).
func (s *Screen) Wheel(x, y, delta int) {
	s.router.Wheel(x, y, delta)
	s.publish()
}

// ScrollBy moves the combined surface, used for keyboard and fling motion.
// It returns the part that could not be applied.
func (s *Screen) ScrollBy(delta int) int {
	rest := s.sync.ScrollContent(delta)
	s.publish()
	return rest
}

// SelectPage switches to page i.
func (s *Screen) SelectPage(i int) bool {
	ok := s.pages.SelectPage(i, s.sync.AtMax())
	s.sync.SyncActivePage()
	s.publish()
	return ok
}

// SetSelecting toggles multi-select on the current page.
func (s *Screen) SetSelecting(on bool) {
	if p := s.pages.CurrentPage(); p != nil {
		p.SetSelecting(on)
		s.publish()
	}
}

// SetDoubleEvents toggles event doubling.
func (s *Screen) SetDoubleEvents(on bool) {
	s.opts.Gesture.DoubleEvents = on
	s.router.SetDoubleEvents(on)
}

// ============================================================================
// Reads
// ============================================================================

// CurrentPrimaryOffset returns the primary list offset.
func (s *Screen) CurrentPrimaryOffset() int { return s.sync.Offset() }

// MaxPrimaryOffset returns the largest primary list offset.
func (s *Screen) MaxPrimaryOffset() int { return s.sync.MaxPrimaryOffset() }

// CurrentPageIndex returns the settled page index.
func (s *Screen) CurrentPageIndex() int { return s.pages.Current() }

// Owner returns the owner of the gesture in progress.
func (s *Screen) Owner() gesture.Owner { return s.router.Owner() }

// List returns the primary section list.
func (s *Screen) List() *section.Model { return s.list }

// Pages returns the page registry.
func (s *Screen) Pages() *pages.Registry { return s.pages }

// Peer returns the peer shown.
func (s *Screen) Peer() peer.Peer { return s.peer }

// Mode returns the presentation mode.
func (s *Screen) Mode() peer.Mode { return s.mode }

// Capabilities returns a copy of the current capabilities.
func (s *Screen) Capabilities() peer.Capabilities { return s.caps.Clone() }

// Measurer returns the row measurer.
func (s *Screen) Measurer() *section.Measurer { return s.opts.Measurer }
