package animator

import (
	"time"

	"github.com/M-I-N/fortunewheel/internal/debug"
	"github.com/M-I-N/fortunewheel/internal/render/layer"
	"github.com/M-I-N/fortunewheel/internal/wheel/geometry"
)

// Defaults for the indefinite-spin-then-stop transition.
const (
	DefaultFullRotations = 13
	DefaultSpinDuration  = 5 * time.Second

	// indefinitePeriod is how long one revolution takes while spinning
	// with no predetermined stop.
	indefinitePeriod = time.Second
)

// State is the animator's lifecycle state.
type State int

const (
	Idle State = iota
	SpinningIndefinite
	SpinningToTarget
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case SpinningIndefinite:
		return "spinning-indefinite"
	case SpinningToTarget:
		return "spinning-to-target"
	default:
		return "unknown"
	}
}

// Scheduler schedules a callback after a wall-clock delay on the wheel's
// event loop. The returned function cancels the delivery.
type Scheduler interface {
	After(d time.Duration, fn func()) func()
}

// Animator is the sole mutator of the wheel layer's rotation angle. It
// translates high-level spin intents into animation descriptors and
// guarantees at most one animation is active at a time: starting any
// animation first cancels whatever is in flight.
//
// All methods must be called on the wheel's event loop; completion
// callbacks are delivered there as well.
type Animator struct {
	layer layer.Layer
	sched Scheduler

	state State
	// cancelPending stops a scheduled indefinite→stop transition.
	cancelPending func()
}

// New creates an animator driving the given layer.
func New(l layer.Layer, s Scheduler) *Animator {
	return &Animator{
		layer: l,
		sched: s,
	}
}

// CurrentRotation returns the wheel's current absolute rotation angle in
// degrees. The value accumulates across full rotations and is never
// normalized into [0, 360).
func (a *Animator) CurrentRotation() float64 {
	return a.layer.Rotation()
}

// State returns the animator's current state.
func (a *Animator) State() State {
	return a.state
}

// RotateTo rotates directly from the current angle to target over d,
// without easing. Exact equality with the current angle is a silent
// no-op: no animation is submitted and nothing is cancelled. Angles that
// are merely congruent mod 360 are not equal, so "same position, more
// turns" still animates.
func (a *Animator) RotateTo(target float64, d time.Duration) {
	from := a.layer.Rotation()
	if target == from {
		debug.Verbose("animator: rotate to %.2f° is a no-op", target)
		return
	}

	a.cancel()
	debug.Rotate(from, target, d)

	a.state = SpinningToTarget
	a.layer.SetRotation(target)
	a.layer.Add(layer.Animation{
		From:     from,
		To:       target,
		Duration: d,
		Curve:    layer.Linear,
		Done: func(finished bool) {
			a.state = Idle
		},
	})
}

// SpinIndefinitely starts a constant-velocity rotation with no stop
// angle and no completion. It keeps spinning until another operation
// replaces it or Stop is called.
func (a *Animator) SpinIndefinitely() {
	a.cancel()
	debug.Live("animator: indefinite spin from %.2f°", a.layer.Rotation())

	a.state = SpinningIndefinite
	a.layer.Add(layer.Animation{
		From:     a.layer.Rotation(),
		Duration: indefinitePeriod,
		Repeats:  true,
	})
}

// SpinThenStop performs fullRotations complete revolutions plus the
// delta to target, decelerating into the final angle over d. done is
// invoked with finished=true when the wheel lands on target, or
// finished=false if the animation is cancelled or superseded first.
//
// The final model angle is fullRotations*360 + target, animated from the
// current angle, so repeated spins with growing rotation counts keep
// accumulating angle instead of snapping back.
func (a *Animator) SpinThenStop(target float64, fullRotations int, d time.Duration, done layer.Completion) {
	a.cancel()

	from := a.layer.Rotation()
	final := float64(fullRotations)*geometry.FullCircleDegree + target
	debug.Spin(from, final, fullRotations, d)

	a.state = SpinningToTarget
	a.layer.SetRotation(final)
	a.layer.Add(layer.Animation{
		From:     from,
		To:       final,
		Duration: d,
		Curve:    layer.EaseOutCubic,
		Done: func(finished bool) {
			a.state = Idle
			if done != nil {
				done(finished)
			}
		},
	})
}

// SpinIndefinitelyThenStopAfter spins with no predetermined stop for the
// given wall-clock delay, then transitions into SpinThenStop toward
// target using the default rotation count and duration, forwarding its
// completion.
func (a *Animator) SpinIndefinitelyThenStopAfter(delay time.Duration, target float64, done layer.Completion) {
	a.SpinIndefinitely()
	a.cancelPending = a.sched.After(delay, func() {
		a.cancelPending = nil
		a.SpinThenStop(target, DefaultFullRotations, DefaultSpinDuration, done)
	})
}

// Stop cancels any in-flight animation immediately, leaving the wheel at
// whatever angle it had reached. Pending completions fire with
// finished=false. Idempotent.
func (a *Animator) Stop() {
	debug.Verbose("animator: stop (state=%s)", a.state)
	a.cancel()
}

// cancel tears down any in-flight animation and pending transition,
// forcing the state machine back to Idle before a new animation starts.
func (a *Animator) cancel() {
	if a.cancelPending != nil {
		a.cancelPending()
		a.cancelPending = nil
	}
	a.layer.RemoveAll()
	a.state = Idle
}
