package rows

import "strconv"

// Payload is the data attached to a row. The concrete types below are the
// only implementations.
type Payload interface {
	payload()
	// Display returns the value shown on the trailing side or body of the row.
	Display() string
}

// Text is a textual payload.
type Text string

func (Text) payload()          {}
func (t Text) Display() string { return string(t) }

// Count is a numeric payload that may still be loading.
type Count struct {
	Value  int
	Loaded bool
}

func (Count) payload() {}

func (c Count) Display() string {
	if !c.Loaded {
		return "…"
	}
	return strconv.Itoa(c.Value)
}

// EntityKind names the kind of external entity a row points at.
type EntityKind string

const (
	EntityUser    EntityKind = "user"
	EntityChat    EntityKind = "chat"
	EntityMessage EntityKind = "message"
)

// Entity references an external entity by kind and id.
type Entity struct {
	Kind  EntityKind
	ID    int64
	Label string
}

func (Entity) payload()          {}
func (e Entity) Display() string { return e.Label }

// Slider is a bounded integer value.
type Slider struct {
	Value int
	Min   int
	Max   int
}

func (Slider) payload() {}

func (s Slider) Display() string {
	return strconv.Itoa(s.Value) + "/" + strconv.Itoa(s.Max)
}

// Fraction returns the slider position in [0, 1].
func (s Slider) Fraction() float64 {
	span := s.Max - s.Min
	if span <= 0 {
		return 0
	}
	f := float64(s.Value-s.Min) / float64(span)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// DisplayOf returns p.Display() or "" for a nil payload.
func DisplayOf(p Payload) string {
	if p == nil {
		return ""
	}
	return p.Display()
}
