package section

import (
	"strings"
	"unicode/utf8"

	"chatprofile/internal/rows"
)

// HeightFunc measures one row of the given kind at the given width.
type HeightFunc func(kind rows.Kind, width int, payload rows.Payload) int

// Fixed returns a HeightFunc that always reports h.
func Fixed(h int) HeightFunc {
	return func(rows.Kind, int, rows.Payload) int { return h }
}

// Measurer dispatches row measurement by kind. Kinds missing from the table
// fall back to the content delegate.
type Measurer struct {
	table   map[rows.Kind]HeightFunc
	content HeightFunc
}

// NewMeasurer returns a measurer with the default fixed heights. content
// measures the content-dependent kinds (text, slider, edit-text); nil uses
// a plain rune-count wrapper.
func NewMeasurer(content HeightFunc) *Measurer {
	if content == nil {
		content = WrappedLines
	}
	return &Measurer{
		table: map[rows.Kind]HeightFunc{
			rows.KindSetting:       Fixed(1),
			rows.KindSeparator:     Fixed(1),
			rows.KindSeparatorFull: Fixed(1),
			rows.KindShadowTop:     Fixed(1),
			rows.KindShadowBottom:  Fixed(1),
			rows.KindHeader:        Fixed(2),
			rows.KindPlaceholder:   Fixed(1),
			rows.KindRadio:         Fixed(1),
			rows.KindSectionTitle:  Fixed(1),
			rows.KindMember:        Fixed(2),
			rows.KindMedia:         Fixed(1),
			rows.KindLoading:       Fixed(1),
		},
		content: content,
	}
}

// With returns a copy of m that measures kind with fn.
func (m *Measurer) With(kind rows.Kind, fn HeightFunc) *Measurer {
	table := make(map[rows.Kind]HeightFunc, len(m.table)+1)
	for k, v := range m.table {
		table[k] = v
	}
	table[kind] = fn
	return &Measurer{table: table, content: m.content}
}

// RowHeight returns the height of r at width.
func (m *Measurer) RowHeight(r rows.Row, width int) int {
	fn, ok := m.table[r.Kind]
	if !ok {
		fn = m.content
	}
	h := fn(r.Kind, width, r.Payload)
	if h < 0 {
		return 0
	}
	return h
}

// Sum measures rs from scratch.
func (m *Measurer) Sum(rs []rows.Row, width int) int {
	total := 0
	for _, r := range rs {
		total += m.RowHeight(r, width)
	}
	return total
}

// WrappedLines counts the lines the payload text occupies when hard-wrapped at
// width, plus one line for the row title.
func WrappedLines(_ rows.Kind, width int, payload rows.Payload) int {
	text := rows.DisplayOf(payload)
	if width <= 0 {
		return 1 + strings.Count(text, "\n") + 1
	}
	lines := 0
	for _, line := range strings.Split(text, "\n") {
		n := utf8.RuneCountInString(line)
		if n == 0 {
			lines++
			continue
		}
		lines += (n + width - 1) / width
	}
	return 1 + lines
}

const invalidHeight = -1

// HeightCache memoizes the total height of a row list for one width.
type HeightCache struct {
	width int
	total int
}

func newHeightCache() *HeightCache {
	return &HeightCache{total: invalidHeight}
}

// Invalidate forces recomputation on the next Measure.
func (c *HeightCache) Invalidate() {
	c.total = invalidHeight
}

// Valid reports whether a cached total exists for width.
func (c *HeightCache) Valid(width int) bool {
	return c.total != invalidHeight && c.width == width
}

// Measure returns the cached total for width, recomputing it if needed.
func (c *HeightCache) Measure(width int, rs []rows.Row, m *Measurer) int {
	if c.Valid(width) {
		return c.total
	}
	c.width = width
	c.total = m.Sum(rs, width)
	return c.total
}
