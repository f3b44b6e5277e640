package screen

import (
	"time"

	"chatprofile/internal/rows"
)

// Snapshot is an immutable copy of the screen state, safe to read from any
// goroutine.
type Snapshot struct {
	ScreenID     string     `json:"screen_id"`
	PeerID       int64      `json:"peer_id"`
	PeerKind     string     `json:"peer_kind"`
	Title        string     `json:"title"`
	Mode         string     `json:"mode"`
	Alive        bool       `json:"alive"`
	Offset       int        `json:"offset"`
	MaxOffset    int        `json:"max_offset"`
	ListHeight   int        `json:"list_height"`
	Width        int        `json:"width"`
	Height       int        `json:"height"`
	PageIndex    int        `json:"page_index"`
	PageFraction float64    `json:"page_fraction"`
	Owner        string     `json:"owner"`
	Capabilities []string   `json:"capabilities"`
	Rows         []RowView  `json:"rows"`
	Pages        []PageView `json:"pages"`
	TakenAt      time.Time  `json:"taken_at"`
}

// RowView is one row of a snapshot.
type RowView struct {
	Index int    `json:"index"`
	Kind  string `json:"kind"`
	ID    int64  `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	Value string `json:"value,omitempty"`
}

// PageView is one page of a snapshot.
type PageView struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Count    int    `json:"count"`
	HasCount bool   `json:"has_count"`
	ScrollY  int    `json:"scroll_y"`
	Rows     int    `json:"rows"`
}

// Snapshot returns the last published snapshot.
func (s *Screen) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

func (s *Screen) publish() {
	snap := &Snapshot{
		ScreenID:     s.id.String(),
		PeerID:       s.peer.ID,
		PeerKind:     string(s.peer.Kind),
		Title:        s.peer.Title,
		Mode:         s.mode.String(),
		Alive:        s.IsAlive(),
		Offset:       s.sync.Offset(),
		MaxOffset:    s.sync.MaxPrimaryOffset(),
		ListHeight:   s.sync.ListHeight(),
		Width:        s.width,
		Height:       s.height,
		PageIndex:    s.pages.Current(),
		PageFraction: s.pages.Fraction(),
		Owner:        s.router.Owner().String(),
		TakenAt:      time.Now(),
	}
	for _, c := range s.caps.List() {
		snap.Capabilities = append(snap.Capabilities, string(c))
	}
	for i, r := range s.list.Rows() {
		snap.Rows = append(snap.Rows, rowView(i, r))
	}
	for _, p := range s.pages.Pages() {
		n, has := p.Count()
		snap.Pages = append(snap.Pages, PageView{
			Category: p.Category.String(),
			Title:    p.Category.Title(),
			Count:    n,
			HasCount: has,
			ScrollY:  p.ScrollY(),
			Rows:     p.Content.Len(),
		})
	}
	s.snapshot.Store(snap)
}

func rowView(i int, r rows.Row) RowView {
	return RowView{
		Index: i,
		Kind:  r.Kind.String(),
		ID:    int64(r.ID),
		Title: r.Title,
		Value: rows.DisplayOf(r.Payload),
	}
}
