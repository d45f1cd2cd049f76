package wheel

import (
	"time"

	"github.com/M-I-N/fortunewheel/internal/debug"
	"github.com/M-I-N/fortunewheel/internal/render/layer"
	"github.com/M-I-N/fortunewheel/internal/wheel/animator"
	"github.com/M-I-N/fortunewheel/internal/wheel/geometry"
)

// Slice is one wedge of the wheel: what it says and how it looks.
// Rendering of the style is up to the renderer; the rotation core only
// ever needs the slice count.
type Slice struct {
	Label string
	Color string
}

// Wheel is the composition root of the control: it owns the slice list,
// the angle resolver and the rotation animator, and translates
// index-based public requests into angle-based animator calls.
//
// All methods must be called on the wheel's event loop. The slice list
// must contain at least one slice before any index-based operation; this
// is a hard precondition, enforced at configuration load.
type Wheel struct {
	slices   []Slice
	resolver *geometry.Resolver
	anim     *animator.Animator

	// invalidate asks the renderer to redraw after slice mutations.
	invalidate func()
}

// New creates a wheel control over the given layer and scheduler.
func New(slices []Slice, l layer.Layer, s animator.Scheduler) *Wheel {
	return &Wheel{
		slices:   slices,
		resolver: geometry.NewResolver(),
		anim:     animator.New(l, s),
	}
}

// OnInvalidate registers the renderer's redraw hook.
func (w *Wheel) OnInvalidate(fn func()) {
	w.invalidate = fn
}

// Slices returns the current slice list.
func (w *Wheel) Slices() []Slice {
	return w.slices
}

// SliceCount returns the number of slices.
func (w *Wheel) SliceCount() int {
	return len(w.slices)
}

// SetSlices replaces the slice list and requests a redraw. In-flight
// rotation is not affected.
func (w *Wheel) SetSlices(slices []Slice) {
	w.slices = slices
	debug.Verbose("wheel: slice list replaced, %d slices", len(slices))
	if w.invalidate != nil {
		w.invalidate()
	}
}

// CurrentRotation returns the wheel's absolute rotation angle in degrees.
func (w *Wheel) CurrentRotation() float64 {
	return w.anim.CurrentRotation()
}

// CurrentIndex returns the slice currently under the pointer.
func (w *Wheel) CurrentIndex() int {
	return w.resolver.IndexAtRotation(w.anim.CurrentRotation(), len(w.slices))
}

// State returns the animator's state.
func (w *Wheel) State() animator.State {
	return w.anim.State()
}

// RotateToIndex rotates directly to bring the given slice under the
// pointer, over d, without easing. Out-of-range indices clamp to the
// last slice.
func (w *Wheel) RotateToIndex(index int, d time.Duration) {
	w.anim.RotateTo(w.resolver.RotationToIndex(index, len(w.slices)), d)
}

// RotateToAngle rotates directly to the given absolute angle over d.
func (w *Wheel) RotateToAngle(deg float64, d time.Duration) {
	w.anim.RotateTo(deg, d)
}

// AnimateToAngle spins rotations full revolutions and decelerates into
// the given absolute angle over d.
func (w *Wheel) AnimateToAngle(deg float64, rotations int, d time.Duration, done layer.Completion) {
	w.anim.SpinThenStop(deg, rotations, d, done)
}

// AnimateToIndex spins rotations full revolutions and decelerates until
// the given slice rests under the pointer.
func (w *Wheel) AnimateToIndex(index, rotations int, d time.Duration, done layer.Completion) {
	w.anim.SpinThenStop(w.resolver.RotationToIndex(index, len(w.slices)), rotations, d, done)
}

// AnimateToIndexOffset behaves like AnimateToIndex with an extra angular
// offset added to the resolved target, letting callers land off-center
// within the slice.
func (w *Wheel) AnimateToIndexOffset(index int, offsetDeg float64, rotations int, d time.Duration, done layer.Completion) {
	target := w.resolver.RotationToIndex(index, len(w.slices)) + offsetDeg
	w.anim.SpinThenStop(target, rotations, d, done)
}

// AnimateIndefiniteThenFinish spins with no predetermined stop for the
// given delay, then decelerates until finishIndex rests under the
// pointer, using the default rotation count and spin duration.
func (w *Wheel) AnimateIndefiniteThenFinish(delay time.Duration, finishIndex int, done layer.Completion) {
	target := w.resolver.RotationToIndex(finishIndex, len(w.slices))
	w.anim.SpinIndefinitelyThenStopAfter(delay, target, done)
}

// StartIndefinite begins an indefinite constant-velocity spin.
func (w *Wheel) StartIndefinite() {
	w.anim.SpinIndefinitely()
}

// Stop cancels any in-flight animation, leaving the wheel where it is.
func (w *Wheel) Stop() {
	w.anim.Stop()
}
