package runloop

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/M-I-N/fortunewheel/internal/debug"
)

// Loop is a single-goroutine event loop. Everything that touches the
// wheel's rotation state runs on it: public wheel operations, animation
// frame updates and completion callbacks. This replaces the implicit
// "main/UI thread" of GUI frameworks with an explicit executor handle.
type Loop struct {
	interval time.Duration
	ops      chan func()
	frame    func(now time.Time)
	done     chan struct{}
}

// New creates a loop ticking at the given frame interval.
// If interval is <= 0, a 33ms default (~30 fps) is used.
func New(interval time.Duration) *Loop {
	if interval <= 0 {
		interval = 33 * time.Millisecond
	}
	return &Loop{
		interval: interval,
		ops:      make(chan func(), 64),
		done:     make(chan struct{}),
	}
}

// OnFrame registers the per-tick callback (typically the renderer's
// update+draw). Must be called before Run.
func (l *Loop) OnFrame(fn func(now time.Time)) {
	l.frame = fn
}

// Post schedules fn to run on the loop goroutine. Safe to call from any
// goroutine. Posts after the loop has stopped are dropped.
func (l *Loop) Post(fn func()) {
	select {
	case l.ops <- fn:
	case <-l.done:
		debug.Verbose("runloop: dropping op posted after stop")
	}
}

// After schedules fn to run on the loop goroutine once d has elapsed.
// The returned cancel function stops the delivery if fn has not run yet;
// calling it more than once is harmless. Stopping the timer alone is not
// enough: the timer may already have posted fn into the ops queue, so
// the posted wrapper re-checks cancellation on the loop goroutine.
func (l *Loop) After(d time.Duration, fn func()) func() {
	var cancelled atomic.Bool
	t := time.AfterFunc(d, func() {
		l.Post(func() {
			if cancelled.Load() {
				return
			}
			fn()
		})
	})
	return func() {
		cancelled.Store(true)
		t.Stop()
	}
}

// Run executes the loop until ctx is cancelled, draining posted ops and
// invoking the frame callback on every tick.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.ops:
			fn()
		case now := <-ticker.C:
			// Ops queued before this tick run first so a cancel posted in
			// the same tick is never outrun by a frame update.
			for {
				select {
				case fn := <-l.ops:
					fn()
					continue
				default:
				}
				break
			}
			if l.frame != nil {
				l.frame(now)
			}
		}
	}
}
