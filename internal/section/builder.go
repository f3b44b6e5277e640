package section

import "chatprofile/internal/rows"

// Builder assembles a Layout in visual order. Group emits the separator and
// shadow bookkeeping so callers only list content rows.
type Builder struct {
	layout Layout
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends ungrouped rows.
func (b *Builder) Add(rs ...rows.Row) *Builder {
	b.layout.Rows = append(b.layout.Rows, rs...)
	return b
}

// Group appends a bracketed group. Decoration rows in content are skipped.
// An empty group still records its anchor position.
func (b *Builder) Group(kind GroupKind, content ...rows.Row) *Builder {
	span := GroupSpan{Kind: kind, Start: len(b.layout.Rows)}
	var prev rows.Row
	for _, r := range content {
		if r.Kind.IsDecoration() {
			continue
		}
		if span.Count > 0 {
			b.layout.Rows = append(b.layout.Rows, rows.Separator(rows.SeparatorFor(prev.Kind, r.Kind)))
		}
		b.layout.Rows = append(b.layout.Rows, r)
		prev = r
		span.Count++
	}
	if span.Count > 0 {
		b.layout.Rows = append(b.layout.Rows, rows.ShadowBottom(), rows.ShadowTop())
	}
	b.layout.Groups = append(b.layout.Groups, span)
	return b
}

// Layout returns the assembled layout.
func (b *Builder) Layout() Layout {
	return b.layout
}
