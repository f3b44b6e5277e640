// Package section maintains an ordered, grouped row list with separator and
// shadow bookkeeping and a cached aggregate height.
package section

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"chatprofile/internal/rows"
)

// GroupKind names a bracketed group of content rows.
type GroupKind int

const (
	// GroupInfo is the informational header group at the top of the list.
	GroupInfo GroupKind = iota
	// GroupSettings holds the settings and actions rows.
	GroupSettings
)

func (k GroupKind) String() string {
	switch k {
	case GroupInfo:
		return "info"
	case GroupSettings:
		return "settings"
	default:
		return fmt.Sprintf("group(%d)", int(k))
	}
}

// GroupSpan places a group inside a flat row slice. An empty group has
// Count 0 and Start marks the position its first row will take.
type GroupSpan struct {
	Kind  GroupKind
	Start int
	Count int
}

// Span returns the number of physical rows the group occupies.
func (g GroupSpan) Span() int {
	if g.Count == 0 {
		return 0
	}
	// content rows, separators between them, shadow-bottom, shadow-top
	return 2*g.Count + 1
}

// Layout is a complete row list with its group placements.
type Layout struct {
	Rows   []rows.Row
	Groups []GroupSpan
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.log = l
		}
	}
}

// WithMeasurer sets the row measurer used by Measure.
func WithMeasurer(ms *Measurer) Option {
	return func(m *Model) {
		if ms != nil {
			m.measurer = ms
		}
	}
}

// Model is the section list. It is not safe for concurrent use; all calls
// happen on the UI loop.
type Model struct {
	rows     []rows.Row
	groups   []*GroupSpan
	cache    *HeightCache
	measurer *Measurer
	log      *slog.Logger
}

// New returns an empty model.
func New(opts ...Option) *Model {
	m := &Model{
		cache:    newHeightCache(),
		measurer: NewMeasurer(nil),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ============================================================================
// Reads
// ============================================================================

// Len returns the number of physical rows.
func (m *Model) Len() int { return len(m.rows) }

// Row returns the row at physical index i.
func (m *Model) Row(i int) (rows.Row, bool) {
	if i < 0 || i >= len(m.rows) {
		return rows.Row{}, false
	}
	return m.rows[i], true
}

// Rows returns a copy of the physical rows.
func (m *Model) Rows() []rows.Row {
	return slices.Clone(m.rows)
}

// Layout returns a copy of the rows and group placements.
func (m *Model) Layout() Layout {
	l := Layout{Rows: m.Rows(), Groups: make([]GroupSpan, len(m.groups))}
	for i, g := range m.groups {
		l.Groups[i] = *g
	}
	return l
}

// GroupCount returns the header count of a group, or 0 if it is not defined.
func (m *Model) GroupCount(kind GroupKind) int {
	if g := m.group(kind); g != nil {
		return g.Count
	}
	return 0
}

// GroupRows returns the content rows of a group in order.
func (m *Model) GroupRows(kind GroupKind) []rows.Row {
	g := m.group(kind)
	if g == nil {
		return nil
	}
	out := make([]rows.Row, 0, g.Count)
	for i := 0; i < g.Count; i++ {
		out = append(out, m.rows[g.Start+2*i])
	}
	return out
}

// IndexOf returns the physical index of the first content row with id, or
// NotFound.
func (m *Model) IndexOf(id rows.ID) int {
	for i, r := range m.rows {
		if !r.Kind.IsDecoration() && r.ID == id {
			return i
		}
	}
	return NotFound
}

// IndexIn returns the physical index of the row with id inside a group, or
// NotFound.
func (m *Model) IndexIn(kind GroupKind, id rows.ID) int {
	g := m.group(kind)
	if g == nil {
		return NotFound
	}
	for i := 0; i < g.Count; i++ {
		if m.rows[g.Start+2*i].ID == id {
			return g.Start + 2*i
		}
	}
	return NotFound
}

// LogicalIndex returns the logical position of id within a group, or NotFound.
func (m *Model) LogicalIndex(kind GroupKind, id rows.ID) int {
	g := m.group(kind)
	p := m.IndexIn(kind, id)
	if p == NotFound {
		return NotFound
	}
	return (p - g.Start) / 2
}

// Measure returns the total height of the list at width.
func (m *Model) Measure(width int) int {
	return m.cache.Measure(width, m.rows, m.measurer)
}

// RowHeight measures a single row at width.
func (m *Model) RowHeight(i, width int) int {
	r, ok := m.Row(i)
	if !ok {
		return 0
	}
	return m.measurer.RowHeight(r, width)
}

// Invalidate drops the cached height.
func (m *Model) Invalidate() { m.cache.Invalidate() }

// ============================================================================
// Structural edits
// ============================================================================

// Replace swaps in a whole layout. It validates group placements and is
// idempotent for equal input.
func (m *Model) Replace(l Layout) error {
	groups := make([]*GroupSpan, 0, len(l.Groups))
	for _, g := range l.Groups {
		g := g
		groups = append(groups, &g)
	}
	slices.SortStableFunc(groups, func(a, b *GroupSpan) int { return a.Start - b.Start })
	if err := checkLayout(l.Rows, groups); err != nil {
		return err
	}
	m.rows = slices.Clone(l.Rows)
	m.groups = groups
	m.cache.Invalidate()
	return nil
}

// InsertRow inserts row at logical position index of group kind and returns
// its physical index. index is clamped to the group size.
func (m *Model) InsertRow(kind GroupKind, index int, row rows.Row) int {
	g := m.group(kind)
	if g == nil {
		m.log.Debug("insert into undefined group", "group", kind, "row", row)
		return NotFound
	}
	if row.Kind.IsDecoration() {
		m.log.Debug("refusing to insert decoration row", "group", kind, "row", row)
		return NotFound
	}
	index = max(0, min(index, g.Count))

	var at, rowAt int
	var ins []rows.Row
	switch {
	case g.Count == 0:
		at, rowAt = g.Start, g.Start
		ins = []rows.Row{row, rows.ShadowBottom(), rows.ShadowTop()}
	case index == 0:
		at, rowAt = g.Start, g.Start
		next := m.rows[g.Start]
		ins = []rows.Row{row, rows.Separator(rows.SeparatorFor(row.Kind, next.Kind))}
	default:
		at = g.Start + 2*index - 1
		rowAt = at + 1
		prev := m.rows[at-1]
		ins = []rows.Row{rows.Separator(rows.SeparatorFor(prev.Kind, row.Kind)), row}
	}

	m.rows = slices.Insert(m.rows, at, ins...)
	g.Count++
	m.shiftGroupsAfter(g, len(ins))
	m.restyle(g)
	m.cache.Invalidate()
	return rowAt
}

// RemoveRow removes the content row at physical index p along with its
// separator, and the shadow pair when the group empties. Unknown indexes and
// decoration rows are ignored.
func (m *Model) RemoveRow(p int) bool {
	if p < 0 || p >= len(m.rows) {
		m.log.Debug("remove of unknown row ignored", "index", p)
		return false
	}
	g, logical := m.locate(p)
	if g == nil {
		if m.rows[p].Kind.IsDecoration() {
			m.log.Debug("remove of decoration row ignored", "index", p)
			return false
		}
		m.rows = slices.Delete(m.rows, p, p+1)
		m.shiftGroupsFrom(p+1, -1)
		m.cache.Invalidate()
		return true
	}
	if logical == NotFound {
		m.log.Debug("remove of decoration row ignored", "index", p, "group", g.Kind)
		return false
	}

	var from, to int
	switch {
	case g.Count == 1:
		from, to = p, p+3
	case logical < g.Count-1:
		from, to = p, p+2
	default:
		from, to = p-1, p+1
	}
	m.rows = slices.Delete(m.rows, from, to)
	g.Count--
	m.shiftGroupsAfter(g, from-to)
	m.restyle(g)
	m.cache.Invalidate()
	return true
}

// RemoveByID resolves id inside a group and removes it.
func (m *Model) RemoveByID(kind GroupKind, id rows.ID) bool {
	p := m.IndexIn(kind, id)
	if p == NotFound {
		m.log.Debug("remove of unknown id ignored", "group", kind, "id", id)
		return false
	}
	return m.RemoveRow(p)
}

// InsertRange inserts ungrouped rows at physical index p. Inserting inside a
// non-empty group is refused.
func (m *Model) InsertRange(p int, rs []rows.Row) bool {
	if p < 0 || p > len(m.rows) {
		m.log.Debug("insert range out of bounds", "index", p, "len", len(m.rows))
		return false
	}
	for _, g := range m.groups {
		if g.Count > 0 && p > g.Start && p < g.Start+g.Span() {
			m.log.Debug("insert range inside group refused", "index", p, "group", g.Kind)
			return false
		}
	}
	if len(rs) == 0 {
		return true
	}
	m.rows = slices.Insert(m.rows, p, rs...)
	m.shiftGroupsFrom(p, len(rs))
	m.cache.Invalidate()
	return true
}

// RemoveRange deletes n physical rows from p. A range that cuts a group is
// refused; groups covered entirely become empty.
func (m *Model) RemoveRange(p, n int) bool {
	if n <= 0 || p < 0 || p+n > len(m.rows) {
		m.log.Debug("remove range out of bounds", "index", p, "count", n, "len", len(m.rows))
		return false
	}
	end := p + n
	for _, g := range m.groups {
		if g.Count == 0 {
			continue
		}
		gEnd := g.Start + g.Span()
		inside := g.Start >= p && gEnd <= end
		disjoint := gEnd <= p || g.Start >= end
		if !inside && !disjoint {
			m.log.Debug("remove range cuts group", "index", p, "count", n, "group", g.Kind)
			return false
		}
	}
	m.rows = slices.Delete(m.rows, p, end)
	for _, g := range m.groups {
		switch {
		case g.Start >= end:
			g.Start -= n
		case g.Start >= p:
			g.Start = p
			g.Count = 0
		}
	}
	m.cache.Invalidate()
	return true
}

// SetPayload replaces the payload of the row at p. Pass affectsHeight when the
// new payload may change the row's measured height.
func (m *Model) SetPayload(p int, payload rows.Payload, affectsHeight bool) bool {
	if p < 0 || p >= len(m.rows) || m.rows[p].Kind.IsDecoration() {
		m.log.Debug("payload update of unknown row ignored", "index", p)
		return false
	}
	m.rows[p].Payload = payload
	if affectsHeight {
		m.cache.Invalidate()
	}
	return true
}

// SetFlags replaces the flags of the row at p.
func (m *Model) SetFlags(p int, flags rows.Flag) bool {
	if p < 0 || p >= len(m.rows) || m.rows[p].Kind.IsDecoration() {
		return false
	}
	m.rows[p].Flags = flags
	return true
}

// MustIndexIn resolves an anchor row that has to exist. A missing anchor means
// the list was built inconsistently and panics with an InvariantError.
func (m *Model) MustIndexIn(op string, kind GroupKind, id rows.ID) int {
	p := m.IndexIn(kind, id)
	if p == NotFound {
		panic(&InvariantError{Op: op, Detail: fmt.Sprintf("anchor row %d missing from %s group", id, kind)})
	}
	return p
}

// Check verifies the group bookkeeping of the current rows.
func (m *Model) Check() error {
	return checkLayout(m.rows, m.groups)
}

// ============================================================================
// Bookkeeping
// ============================================================================

func (m *Model) group(kind GroupKind) *GroupSpan {
	for _, g := range m.groups {
		if g.Kind == kind {
			return g
		}
	}
	return nil
}

// locate returns the group holding physical index p and the logical index of
// the content row there, or NotFound for a decoration row.
func (m *Model) locate(p int) (*GroupSpan, int) {
	for _, g := range m.groups {
		if g.Count == 0 || p < g.Start || p >= g.Start+g.Span() {
			continue
		}
		off := p - g.Start
		if off < 2*g.Count-1 && off%2 == 0 {
			return g, off / 2
		}
		return g, NotFound
	}
	return nil, NotFound
}

// shiftGroupsAfter moves every group ordered after g. Groups are kept sorted
// by start, so empty groups sharing an anchor keep their relative order.
func (m *Model) shiftGroupsAfter(g *GroupSpan, delta int) {
	after := false
	for _, other := range m.groups {
		if after {
			other.Start += delta
		}
		if other == g {
			after = true
		}
	}
}

func (m *Model) shiftGroupsFrom(p, delta int) {
	for _, g := range m.groups {
		if g.Start >= p {
			g.Start += delta
		}
	}
}

// restyle rewrites separator kinds in place to match their neighbors.
func (m *Model) restyle(g *GroupSpan) {
	for i := 1; i < g.Count; i++ {
		sep := g.Start + 2*i - 1
		want := rows.SeparatorFor(m.rows[sep-1].Kind, m.rows[sep+1].Kind)
		if m.rows[sep].Kind != want {
			m.rows[sep].Kind = want
		}
	}
}

func checkLayout(rs []rows.Row, groups []*GroupSpan) error {
	prevEnd := 0
	seen := make(map[GroupKind]bool, len(groups))
	for _, g := range groups {
		if seen[g.Kind] {
			return fmt.Errorf("group %s defined twice", g.Kind)
		}
		seen[g.Kind] = true
		if g.Count < 0 || g.Start < prevEnd || g.Start+g.Span() > len(rs) {
			return fmt.Errorf("group %s out of range: start=%d count=%d len=%d", g.Kind, g.Start, g.Count, len(rs))
		}
		for i := 0; i < g.Count; i++ {
			if k := rs[g.Start+2*i].Kind; k.IsDecoration() {
				return fmt.Errorf("group %s: expected content at %d, got %s", g.Kind, g.Start+2*i, k)
			}
			if i > 0 {
				if k := rs[g.Start+2*i-1].Kind; !k.IsSeparator() {
					return fmt.Errorf("group %s: expected separator at %d, got %s", g.Kind, g.Start+2*i-1, k)
				}
			}
		}
		if g.Count > 0 {
			end := g.Start + 2*g.Count - 1
			if rs[end].Kind != rows.KindShadowBottom || rs[end+1].Kind != rows.KindShadowTop {
				return fmt.Errorf("group %s: missing shadow pair at %d", g.Kind, end)
			}
		}
		prevEnd = g.Start + g.Span()
	}
	return nil
}
