// Package gesture routes pointer gestures to the one surface that owns them
// and mirrors them to a second surface when both have to move together.
package gesture

import (
	"fmt"
	"time"
)

// Phase is the stage of a pointer event.
type Phase int

const (
	PhaseDown Phase = iota
	PhaseMove
	PhaseUp
	PhaseCancel
)

func (p Phase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseMove:
		return "move"
	case PhaseUp:
		return "up"
	case PhaseCancel:
		return "cancel"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Event is one pointer event in screen cells.
type Event struct {
	Phase Phase
	X, Y  int
	Time  time.Time
	// Synthetic marks events the router generated itself.
	Synthetic bool
}

// Ends reports whether the event finishes a gesture.
func (e Event) Ends() bool {
	return e.Phase == PhaseUp || e.Phase == PhaseCancel
}

func (e Event) derive(phase Phase) Event {
	return Event{Phase: phase, X: e.X, Y: e.Y, Time: e.Time, Synthetic: true}
}

// Owner is the surface that owns the current gesture.
type Owner int

const (
	OwnerNone Owner = iota
	OwnerPrimaryList
	OwnerPagedContent
	OwnerTabStrip
	OwnerSecondaryList
)

var ownerNames = map[Owner]string{
	OwnerNone:          "none",
	OwnerPrimaryList:   "primary-list",
	OwnerPagedContent:  "paged-content",
	OwnerTabStrip:      "tab-strip",
	OwnerSecondaryList: "secondary-list",
}

func (o Owner) String() string {
	if name, ok := ownerNames[o]; ok {
		return name
	}
	return fmt.Sprintf("owner(%d)", int(o))
}

// Surface receives routed events. Dispatch returns false when the surface
// declines the event.
type Surface interface {
	Dispatch(ev Event) bool
}

// SurfaceFunc adapts a function to Surface.
type SurfaceFunc func(ev Event) bool

func (f SurfaceFunc) Dispatch(ev Event) bool { return f(ev) }

type nopSurface struct{}

func (nopSurface) Dispatch(Event) bool { return true }
