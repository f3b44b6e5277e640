package relational

import (
	"fmt"

	"chatprofile/internal/rows"
)

// =============================================================================
// ADAPTER FUNCTIONS
// =============================================================================

// MemberRows converts members into page rows.
func MemberRows(ms []Member) []rows.Row {
	out := make([]rows.Row, 0, len(ms))
	for _, m := range ms {
		r := rows.Row{
			Kind:    rows.KindMember,
			ID:      rows.ID(m.UserID),
			Title:   m.Name,
			Payload: rows.Entity{Kind: rows.EntityUser, ID: m.UserID, Label: m.Role},
		}
		if m.Role == "owner" || m.Role == "admin" {
			r.Flags |= rows.FlagAccent
		}
		out = append(out, r)
	}
	return out
}

// MediaRows converts shared items into page rows. Items without a caption
// are labelled by date.
func MediaRows(ms []MediaItem) []rows.Row {
	out := make([]rows.Row, 0, len(ms))
	for _, m := range ms {
		title := m.Caption
		if title == "" {
			title = fmt.Sprintf("%s from %s", m.Category, m.SentAt.Format("Jan 2"))
		}
		out = append(out, rows.Row{
			Kind:    rows.KindMedia,
			ID:      rows.ID(m.ID),
			Title:   title,
			Payload: rows.Entity{Kind: rows.EntityMessage, ID: m.ID, Label: m.SentAt.Format("2006-01-02 15:04")},
		})
	}
	return out
}

// GroupRows converts common groups into page rows.
func GroupRows(ps []PeerSummary) []rows.Row {
	out := make([]rows.Row, 0, len(ps))
	for _, p := range ps {
		out = append(out, rows.Row{
			Kind:    rows.KindMember,
			ID:      rows.ID(p.ID),
			Title:   p.Title,
			Payload: rows.Entity{Kind: rows.EntityChat, ID: p.ID, Label: p.Kind},
		})
	}
	return out
}
