// Package scroll keeps the primary list offset clamped against the list and
// the active page, and holds the page's inner scroll to what the primary
// list has revealed.
package scroll

import (
	"io"
	"log/slog"

	"chatprofile/internal/pages"
	"chatprofile/internal/section"
)

// Config holds the layout constants the clamp depends on, in lines.
type Config struct {
	// BottomShadowHeight is the height of the shadow drawn under the list.
	BottomShadowHeight int
	// AnchorHeight is the part of the list that stays visible above the
	// paged area when the list is fully scrolled.
	AnchorHeight int
}

// Synchronizer owns the primary list offset.
type Synchronizer struct {
	list   *section.Model
	pages  *pages.Registry
	cfg    Config
	width  int
	offset int

	// OnScroll receives every non-zero change of the primary offset.
	OnScroll func(delta int)

	log *slog.Logger
}

// New returns a synchronizer for list and pages.
func New(list *section.Model, reg *pages.Registry, cfg Config, log *slog.Logger) *Synchronizer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Synchronizer{list: list, pages: reg, cfg: cfg, log: log}
}

// SetWidth sets the width the list is measured at and re-clamps.
func (s *Synchronizer) SetWidth(width int) {
	if width == s.width {
		return
	}
	s.width = width
	s.Reclamp()
}

// Width returns the measuring width.
func (s *Synchronizer) Width() int { return s.width }

// Offset returns the primary list offset.
func (s *Synchronizer) Offset() int { return s.offset }

// ListHeight returns the measured height of the primary list.
func (s *Synchronizer) ListHeight() int { return s.list.Measure(s.width) }

// MaxPrimaryOffset is the list height minus the bottom shadow and the anchor.
func (s *Synchronizer) MaxPrimaryOffset() int {
	return max(0, s.ListHeight()-s.cfg.BottomShadowHeight-s.cfg.AnchorHeight)
}

// AtMax reports whether the primary list is fully scrolled.
func (s *Synchronizer) AtMax() bool {
	return s.offset >= s.MaxPrimaryOffset()
}

// ClampedScrollTo moves the primary list to target clamped into
// [0, MaxPrimaryOffset] and returns the applied delta. OnScroll only fires
// for a non-zero delta.
func (s *Synchronizer) ClampedScrollTo(target int) int {
	next := max(0, min(target, s.MaxPrimaryOffset()))
	delta := next - s.offset
	if delta == 0 {
		return 0
	}
	s.offset = next
	if s.OnScroll != nil {
		s.OnScroll(delta)
	}
	return delta
}

// ScrollBy moves the primary list by delta and returns the consumed part and
// the remainder the list could not absorb.
func (s *Synchronizer) ScrollBy(delta int) (consumed, rest int) {
	consumed = s.ClampedScrollTo(s.offset + delta)
	return consumed, delta - consumed
}

// SyncActivePage clamps the active page's inner scroll. Until the primary
// list reaches its maximum the page cannot scroll at all.
func (s *Synchronizer) SyncActivePage() {
	p := s.pages.CurrentPage()
	if p == nil {
		return
	}
	ceiling := 0
	if s.AtMax() {
		ceiling = pages.Unbounded
	}
	p.EnsureMaxScrollY(s.offset, ceiling)
}

// Reclamp re-applies the clamp after the list or its width changed.
func (s *Synchronizer) Reclamp() {
	before := s.offset
	s.ClampedScrollTo(s.offset)
	if before != s.offset {
		s.log.Debug("primary offset reclamped", "from", before, "to", s.offset, "max", s.MaxPrimaryOffset())
	}
	s.SyncActivePage()
}

// ContentOffset is the combined scroll position of the primary list and the
// active page's inner list.
func (s *Synchronizer) ContentOffset() int {
	p := s.pages.CurrentPage()
	if p == nil {
		return s.offset
	}
	return s.offset + p.ScrollY()
}

// ScrollPage scrolls only the active page's inner list and returns the
// consumed amount. The page cannot move until the primary list is at max.
func (s *Synchronizer) ScrollPage(delta int) int {
	p := s.pages.CurrentPage()
	if p == nil || !s.AtMax() {
		return 0
	}
	return p.ScrollBy(delta)
}

// ScrollContent applies a vertical delta to the combined surface: the
// primary list absorbs it first, then the active page. It returns the part
// neither could take.
func (s *Synchronizer) ScrollContent(delta int) int {
	if delta < 0 {
		// Upward: unwind the page before the list.
		if p := s.pages.CurrentPage(); p != nil && p.ScrollY() > 0 {
			delta -= p.ScrollBy(delta)
		}
		_, rest := s.ScrollBy(delta)
		s.SyncActivePage()
		return rest
	}
	_, rest := s.ScrollBy(delta)
	s.SyncActivePage()
	if rest != 0 && s.AtMax() {
		if p := s.pages.CurrentPage(); p != nil {
			rest -= p.ScrollBy(rest)
		}
	}
	return rest
}
