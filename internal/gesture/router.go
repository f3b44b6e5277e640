package gesture

import (
	"io"
	"log/slog"
	"time"
)

// Config holds the thresholds the router decides with, in cells.
type Config struct {
	// PromotionSlop is the continued downward travel at the primary list's
	// maximum offset before the gesture moves to the page's inner list.
	PromotionSlop int
	// TabStripSlop widens the tab strip band on both sides.
	TabStripSlop int
	// PagingSlop is the travel needed to lock a paged-content drag to an axis.
	PagingSlop int
	// DoubleEvents mirrors primary-list gestures to the page's inner list.
	DoubleEvents bool
}

// DefaultConfig returns the thresholds used when none are configured.
func DefaultConfig() Config {
	return Config{
		PromotionSlop: 1,
		TabStripSlop:  0,
		PagingSlop:    2,
		DoubleEvents:  true,
	}
}

// Scroller moves the primary list and the active page.
type Scroller interface {
	AtMax() bool
	ScrollBy(delta int) (consumed, rest int)
	ScrollPage(delta int) int
	ScrollContent(delta int) int
	SyncActivePage()
}

// Pager is the horizontal paging state.
type Pager interface {
	AtRest() bool
	Drag(dx, pageWidth float64)
	Settle(velocity float64, primaryAtMax bool) int
}

// Flinger runs residual motion of the primary list after release.
type Flinger interface {
	Fling(velocity float64)
	Stop()
}

// Geometry is the screen layout the router hit-tests against.
type Geometry struct {
	// ListBottom is the first row below the visible primary list.
	ListBottom int
	// TabStripTop and TabStripHeight place the tab strip band.
	TabStripTop    int
	TabStripHeight int
	// PageWidth is the width of one page, used to scale swipes.
	PageWidth int
}

// Deps are the router's collaborators. Nil surfaces accept every event.
type Deps struct {
	Scroll    Scroller
	Pager     Pager
	Geometry  func() Geometry
	Primary   Surface
	Paged     Surface
	Secondary Surface
	TabStrip  Surface
	Fling     Flinger
	// Exclusive reports a mode, such as multi-select, that suppresses
	// doubled events.
	Exclusive func() bool
	Logger    *slog.Logger
}

type axis int

const (
	axisNone axis = iota
	axisVertical
	axisHorizontal
)

// Router is the gesture owner state machine. It runs on the UI loop.
type Router struct {
	cfg  Config
	deps Deps
	log  *slog.Logger

	owner   Owner
	doubled bool
	axis    axis
	startX  int
	startY  int
	lastX   int
	lastY   int
	last    time.Time
	vx, vy  float64
	// pending is downward travel past the primary maximum not yet promoted.
	pending int
}

// NewRouter returns a router with no gesture in progress.
func NewRouter(cfg Config, deps Deps) *Router {
	if deps.Primary == nil {
		deps.Primary = nopSurface{}
	}
	if deps.Paged == nil {
		deps.Paged = nopSurface{}
	}
	if deps.Secondary == nil {
		deps.Secondary = nopSurface{}
	}
	if deps.TabStrip == nil {
		deps.TabStrip = nopSurface{}
	}
	if deps.Geometry == nil {
		deps.Geometry = func() Geometry { return Geometry{} }
	}
	log := deps.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Router{cfg: cfg, deps: deps, log: log}
}

// Owner returns the owner of the gesture in progress.
func (r *Router) Owner() Owner { return r.owner }

// Doubled reports whether the current gesture is mirrored to the inner list.
func (r *Router) Doubled() bool { return r.doubled }

// SetDoubleEvents toggles event doubling for future gestures.
func (r *Router) SetDoubleEvents(on bool) { r.cfg.DoubleEvents = on }

// Handle routes one event.
func (r *Router) Handle(ev Event) {
	switch ev.Phase {
	case PhaseDown:
		if r.owner != OwnerNone {
			// A down without an up: close the stale gesture first.
			r.finish(ev.derive(PhaseCancel))
		}
		r.begin(ev)
	case PhaseMove:
		if r.owner == OwnerNone {
			return
		}
		r.move(ev)
	case PhaseUp, PhaseCancel:
		if r.owner == OwnerNone {
			return
		}
		r.finish(ev)
	}
}

// Wheel turns one wheel notch into a short synthetic drag at (x, y). delta
// is the scroll amount, positive toward the end of the content.
func (r *Router) Wheel(x, y, delta int) {
	if r.owner != OwnerNone || delta == 0 {
		return
	}
	now := time.Now()
	r.Handle(Event{Phase: PhaseDown, X: x, Y: y, Time: now, Synthetic: true})
	if r.owner == OwnerPagedContent {
		// A notch is shorter than the paging slop may be.
		r.axis = axisVertical
	}
	r.Handle(Event{Phase: PhaseMove, X: x, Y: y - delta, Time: now, Synthetic: true})
	r.Handle(Event{Phase: PhaseUp, X: x, Y: y - delta, Time: now, Synthetic: true})
}

func (r *Router) begin(ev Event) {
	r.doubled, r.axis, r.pending = false, axisNone, 0
	r.vx, r.vy = 0, 0
	r.startX, r.startY = ev.X, ev.Y
	r.lastX, r.lastY, r.last = ev.X, ev.Y, ev.Time
	if r.deps.Fling != nil {
		r.deps.Fling.Stop()
	}

	g := r.deps.Geometry()
	top := g.TabStripTop - r.cfg.TabStripSlop
	bottom := g.TabStripTop + g.TabStripHeight + r.cfg.TabStripSlop
	switch {
	case g.TabStripHeight > 0 && ev.Y >= top && ev.Y < bottom:
		r.owner = OwnerTabStrip
		if !r.deps.TabStrip.Dispatch(ev) {
			r.demoteTabStrip(ev)
		}
	case r.pagerAtRest() && ev.Y < g.ListBottom && !r.deps.Scroll.AtMax():
		r.owner = OwnerPrimaryList
		r.deps.Primary.Dispatch(ev)
		if r.shouldDouble() {
			r.doubled = true
			r.deps.Secondary.Dispatch(ev)
		}
	default:
		r.owner = OwnerPagedContent
		r.deps.Paged.Dispatch(ev)
	}
	r.log.Debug("gesture begin", "owner", r.owner, "x", ev.X, "y", ev.Y, "doubled", r.doubled)
}

func (r *Router) move(ev Event) {
	dx, dy := ev.X-r.lastX, ev.Y-r.lastY
	r.track(ev)

	switch r.owner {
	case OwnerTabStrip:
		if !r.deps.TabStrip.Dispatch(ev) {
			r.demoteTabStrip(ev)
		}
	case OwnerPrimaryList:
		r.movePrimary(ev, -dy)
	case OwnerSecondaryList:
		r.deps.Scroll.ScrollPage(-dy)
		r.deps.Secondary.Dispatch(ev)
	case OwnerPagedContent:
		r.movePaged(ev, dx, dy)
	}
}

// movePrimary scrolls the primary list by delta and promotes the gesture to
// the inner list once it keeps pushing past the maximum.
func (r *Router) movePrimary(ev Event, delta int) {
	_, rest := r.deps.Scroll.ScrollBy(delta)
	r.deps.Scroll.SyncActivePage()
	r.deps.Primary.Dispatch(ev)
	if r.doubled {
		r.deps.Secondary.Dispatch(ev)
	}

	if delta <= 0 || !r.deps.Scroll.AtMax() {
		r.pending = 0
		return
	}
	r.pending += rest
	if rest > 0 && r.pending >= r.cfg.PromotionSlop {
		r.promote(ev)
	}
}

func (r *Router) promote(ev Event) {
	r.deps.Primary.Dispatch(ev.derive(PhaseCancel))
	if r.deps.Fling != nil {
		r.deps.Fling.Stop()
	}
	r.owner = OwnerSecondaryList
	if !r.doubled {
		r.deps.Secondary.Dispatch(ev.derive(PhaseDown))
	}
	r.deps.Scroll.ScrollPage(r.pending)
	r.log.Debug("gesture promoted", "owner", r.owner, "carried", r.pending)
	r.pending = 0
}

func (r *Router) movePaged(ev Event, dx, dy int) {
	if r.axis == axisNone {
		tx, ty := abs(ev.X-r.startX), abs(ev.Y-r.startY)
		if max(tx, ty) < r.cfg.PagingSlop {
			r.deps.Paged.Dispatch(ev)
			return
		}
		r.axis = axisVertical
		if tx > ty {
			r.axis = axisHorizontal
		}
		// Apply the travel accumulated while the axis was undecided.
		dx, dy = ev.X-r.startX, ev.Y-r.startY
	}
	switch {
	case r.axis == axisHorizontal && r.deps.Pager != nil:
		r.deps.Pager.Drag(float64(dx), float64(r.deps.Geometry().PageWidth))
	case r.axis == axisVertical:
		r.deps.Scroll.ScrollContent(-dy)
	}
	r.deps.Paged.Dispatch(ev)
}

func (r *Router) demoteTabStrip(ev Event) {
	r.deps.TabStrip.Dispatch(ev.derive(PhaseCancel))
	r.owner = OwnerPagedContent
	r.startX, r.startY = ev.X, ev.Y
	r.deps.Paged.Dispatch(ev.derive(PhaseDown))
	r.log.Debug("tab strip declined gesture", "x", ev.X, "y", ev.Y)
}

func (r *Router) finish(ev Event) {
	switch r.owner {
	case OwnerTabStrip:
		r.deps.TabStrip.Dispatch(ev)
	case OwnerPrimaryList:
		r.deps.Primary.Dispatch(ev)
		if r.doubled {
			r.deps.Secondary.Dispatch(ev)
		}
		if ev.Phase == PhaseUp && r.deps.Fling != nil {
			r.deps.Fling.Fling(-r.vy)
		}
	case OwnerSecondaryList:
		r.deps.Secondary.Dispatch(ev)
	case OwnerPagedContent:
		if r.axis == axisHorizontal && r.deps.Pager != nil {
			r.deps.Pager.Settle(r.vx, r.deps.Scroll.AtMax())
			r.deps.Scroll.SyncActivePage()
		}
		r.deps.Paged.Dispatch(ev)
	}
	r.log.Debug("gesture end", "owner", r.owner, "phase", ev.Phase)
	r.owner = OwnerNone
	r.doubled = false
	r.axis = axisNone
	r.pending = 0
}

// track updates the pointer position and velocity in cells per second.
func (r *Router) track(ev Event) {
	if !ev.Time.IsZero() && !r.last.IsZero() {
		if dt := ev.Time.Sub(r.last).Seconds(); dt > 0 {
			r.vx = float64(ev.X-r.lastX) / dt
			r.vy = float64(ev.Y-r.lastY) / dt
		}
	}
	r.lastX, r.lastY, r.last = ev.X, ev.Y, ev.Time
}

func (r *Router) shouldDouble() bool {
	if !r.cfg.DoubleEvents {
		return false
	}
	return r.deps.Exclusive == nil || !r.deps.Exclusive()
}

func (r *Router) pagerAtRest() bool {
	return r.deps.Pager == nil || r.deps.Pager.AtRest()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
