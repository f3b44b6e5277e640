package output

import (
	"fmt"
	"strings"

	"chatprofile/internal/screen"
)

// Row kind names as they appear in snapshots.
const (
	kindSectionTitle = "section-title"
	kindShadowTop    = "shadow-top"
	kindShadowBottom = "shadow-bottom"
	kindHeader       = "header"
	kindLoading      = "loading"
)

// UI/view-model types (no printing here)
type Item struct {
	Index int
	Kind  string
	Label string
	Value string
}

type Section struct {
	Title string
	Items []Item
}

type Tab struct {
	Title    string
	Subtitle string
	Active   bool
	Rows     int
}

type ProfileView struct {
	Title    string
	Kind     string
	Mode     string
	Header   string
	Sections []Section
	Tabs     []Tab
	Status   string
}

// BuildProfileView groups a snapshot's rows into sections. Separators and
// shadows end a section; a section title starts a new one.
func BuildProfileView(snap *screen.Snapshot) ProfileView {
	if snap == nil {
		return ProfileView{}
	}
	v := ProfileView{
		Title: snap.Title,
		Kind:  snap.PeerKind,
		Mode:  snap.Mode,
	}

	cur := Section{}
	flush := func() {
		if len(cur.Items) > 0 || cur.Title != "" {
			v.Sections = append(v.Sections, cur)
		}
		cur = Section{}
	}

	for _, r := range snap.Rows {
		switch {
		case r.Kind == kindHeader:
			v.Header = r.Title
		case r.Kind == kindSectionTitle:
			flush()
			cur.Title = r.Title
		case strings.HasPrefix(r.Kind, "separator"), r.Kind == kindShadowTop, r.Kind == kindShadowBottom:
			flush()
		default:
			label := r.Title
			if r.Kind == kindLoading {
				label = "Loading..."
			}
			cur.Items = append(cur.Items, Item{Index: r.Index, Kind: r.Kind, Label: label, Value: r.Value})
		}
	}
	flush()

	for i, p := range snap.Pages {
		t := Tab{Title: p.Title, Active: i == snap.PageIndex, Rows: p.Rows}
		if p.HasCount {
			t.Subtitle = CountLabel(p.Count)
		}
		v.Tabs = append(v.Tabs, t)
	}

	v.Status = fmt.Sprintf("offset %d/%d  owner %s", snap.Offset, snap.MaxOffset, snap.Owner)
	if !snap.Alive {
		v.Status += "  (closed)"
	}
	return v
}

// CountLabel formats a page count the way tab subtitles show it.
func CountLabel(n int) string {
	switch {
	case n < 0:
		return ""
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 10_000:
		return fmt.Sprintf("%dK", n/1000)
	case n >= 1000:
		return fmt.Sprintf("%.1fK", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}
