package components

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

const (
	// minFlingVelocity is the release speed, in cells per second, below
	// which a release does not glide.
	minFlingVelocity = 8.0
	// glide is how far a release carries, in seconds of release speed.
	glide = 0.25
)

// Fling animates the residual motion of the primary list after a release.
// The spring pulls a position toward the projected landing point; Step
// reports the whole cells moved since the previous frame.
type Fling struct {
	spring  harmonica.Spring
	pos     float64
	vel     float64
	target  float64
	applied int
	active  bool
}

// NewFling returns a fling animator running at fps frames per second.
// damping is the spring's damping ratio.
func NewFling(fps int, damping float64) *Fling {
	return &Fling{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, damping)}
}

// Fling starts a glide at velocity cells per second, positive toward the
// end of the content.
func (f *Fling) Fling(velocity float64) {
	if math.Abs(velocity) < minFlingVelocity {
		f.Stop()
		return
	}
	f.pos, f.vel, f.applied = 0, velocity, 0
	f.target = velocity * glide
	f.active = true
}

// Stop ends the glide where it is.
func (f *Fling) Stop() {
	f.active = false
	f.vel = 0
}

// Active reports whether a glide is in progress.
func (f *Fling) Active() bool { return f.active }

// Step advances one frame and returns the cells to scroll.
func (f *Fling) Step() int {
	if !f.active {
		return 0
	}
	f.pos, f.vel = f.spring.Update(f.pos, f.vel, f.target)
	if math.Abs(f.target-f.pos) < 0.5 && math.Abs(f.vel) < 1 {
		f.pos = f.target
		f.active = false
	}
	d := int(math.Round(f.pos)) - f.applied
	f.applied += d
	return d
}
