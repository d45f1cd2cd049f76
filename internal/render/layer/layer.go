package layer

import "time"

// Completion reports how an animation ended. finished is false when the
// animation was removed or superseded before reaching its target.
type Completion func(finished bool)

// Animation is a declarative rotation animation descriptor. It is built,
// submitted to a Layer once, and discarded after completion or removal.
// Angles are absolute degrees and intentionally unnormalized: 360 and 720
// are different values even though they are congruent mod 360.
type Animation struct {
	From     float64       // starting angle, degrees
	To       float64       // target angle, degrees (ignored when Repeats)
	Duration time.Duration // total duration; for repeating animations, the period of one revolution
	Curve    Curve         // progress easing; nil means linear
	Repeats  bool          // constant-velocity rotation with no end
	Done     Completion    // optional completion callback
}

// Layer is the abstract rendering surface the rotation core drives.
// It allows plugging in a real renderer (terminal, GIF) or a mock for
// tests. The model rotation angle is the single shared resource; only
// the animator mutates it.
type Layer interface {
	// Rotation returns the current model rotation angle in degrees.
	Rotation() float64
	// SetRotation sets the model rotation angle in degrees.
	SetRotation(deg float64)
	// Add submits an animation. Implementations interpolate it over time
	// and invoke Done(true) exactly once when it reaches its target.
	Add(a Animation)
	// RemoveAll cancels every in-flight animation, invoking each pending
	// Done with finished=false. The model angle is left at the value the
	// rotation had visibly reached. Idempotent.
	RemoveAll()
}
