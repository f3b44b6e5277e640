package screen

import (
	"slices"
	"strconv"

	"chatprofile/internal/peer"
	"chatprofile/internal/rows"
	"chatprofile/internal/section"
)

// Edit is one pending change made in edit mode.
type Edit struct {
	Field string
	Value string
}

var editFields = map[rows.ID]string{
	RowEditTitle:    "title",
	RowEditAbout:    "about",
	RowEditPublic:   "public",
	RowEditSlowMode: "slow_mode",
}

// SetEditText replaces the text of an editable row.
func (s *Screen) SetEditText(id rows.ID, text string) bool {
	if s.mode != peer.ModeEdit {
		return false
	}
	p := s.list.IndexIn(section.GroupInfo, id)
	if p == section.NotFound {
		return false
	}
	s.list.SetPayload(p, rows.Text(text), true)
	s.edits[id] = rows.Text(text)
	s.sync.Reclamp()
	s.publish()
	return true
}

// SetPublic selects the public or private radio row.
func (s *Screen) SetPublic(public bool) bool {
	if s.mode != peer.ModeEdit {
		return false
	}
	pub := s.list.IndexIn(section.GroupSettings, RowEditPublic)
	priv := s.list.IndexIn(section.GroupSettings, RowEditPrivate)
	if pub == section.NotFound || priv == section.NotFound {
		return false
	}
	s.list.SetPayload(pub, radio(public), false)
	s.list.SetPayload(priv, radio(!public), false)
	if public == s.peer.Public {
		delete(s.edits, RowEditPublic)
	} else {
		s.edits[RowEditPublic] = rows.Text(strconv.FormatBool(public))
	}
	s.publish()
	return true
}

// AdjustSlowMode moves the slow-mode slider by delta seconds.
func (s *Screen) AdjustSlowMode(delta int) bool {
	if s.mode != peer.ModeEdit {
		return false
	}
	p := s.list.IndexIn(section.GroupSettings, RowEditSlowMode)
	if p == section.NotFound {
		return false
	}
	r, _ := s.list.Row(p)
	sl, ok := r.Payload.(rows.Slider)
	if !ok {
		return false
	}
	sl.Value = max(sl.Min, min(sl.Max, sl.Value+delta))
	s.list.SetPayload(p, sl, true)
	s.edits[RowEditSlowMode] = rows.Text(strconv.Itoa(sl.Value))
	s.publish()
	return true
}

// PendingEdits returns the unsaved edits ordered by field name.
func (s *Screen) PendingEdits() []Edit {
	out := make([]Edit, 0, len(s.edits))
	for id, v := range s.edits {
		field, ok := editFields[id]
		if !ok {
			continue
		}
		out = append(out, Edit{Field: field, Value: rows.DisplayOf(v)})
	}
	slices.SortFunc(out, func(a, b Edit) int {
		switch {
		case a.Field < b.Field:
			return -1
		case a.Field > b.Field:
			return 1
		}
		return 0
	})
	return out
}

// Save hands every pending edit to write and returns the batch tracking
// them. When all writes succeed the edits are applied to the peer and the
// screen returns to view mode. write must report back on the UI loop.
func (s *Screen) Save(write func(e Edit, done func(error)), after func(Batch)) *Batch {
	edits := s.PendingEdits()
	b := NewBatch(len(edits), func(b Batch) {
		if b.Failed == 0 && s.IsAlive() {
			s.peer = applyEdits(s.peer, edits)
			s.SetMode(peer.ModeView)
		} else {
			s.log.Warn("save finished with failures", "total", b.Total, "failed", b.Failed)
		}
		if after != nil {
			after(b)
		}
	})
	for _, e := range edits {
		write(e, b.Finish)
	}
	return b
}

func applyEdits(p peer.Peer, edits []Edit) peer.Peer {
	for _, e := range edits {
		switch e.Field {
		case "title":
			p.Title = e.Value
		case "about":
			p.About = e.Value
		case "public":
			p.Public = e.Value == "true"
		case "slow_mode":
			if n, err := strconv.Atoi(e.Value); err == nil {
				p.SlowMode = n
			}
		}
	}
	return p
}
