package layer

import "time"

type timedAnim struct {
	Animation
	start time.Time
}

// Timed is a clock-driven Layer. Animations submitted to it are
// interpolated against wall time by Advance, which the owning event
// loop calls once per frame. It draws nothing itself: renderers embed
// one and paint its Presentation angle, and headless setups use it
// directly.
type Timed struct {
	model        float64
	presentation float64
	anims        []timedAnim
}

// NewTimed returns a layer at rest at angle zero.
func NewTimed() *Timed {
	return &Timed{}
}

func (l *Timed) Rotation() float64 {
	return l.model
}

func (l *Timed) SetRotation(deg float64) {
	l.model = deg
}

func (l *Timed) Add(a Animation) {
	l.anims = append(l.anims, timedAnim{Animation: a, start: time.Now()})
}

// RemoveAll cancels in-flight animations, freezing the model at the
// angle currently presented and firing each Done with finished=false.
func (l *Timed) RemoveAll() {
	if len(l.anims) == 0 {
		return
	}
	l.model = l.presentation
	pending := l.anims
	l.anims = nil
	for _, a := range pending {
		if a.Done != nil {
			a.Done(false)
		}
	}
}

// Active returns the number of in-flight animations.
func (l *Timed) Active() int {
	return len(l.anims)
}

// Presentation returns the angle currently shown: the interpolated
// value while animating, the model angle at rest.
func (l *Timed) Presentation() float64 {
	return l.presentation
}

// Advance moves the presentation to now, completing animations whose
// duration has elapsed (their Done fires with finished=true). Reports
// whether the presentation changed.
func (l *Timed) Advance(now time.Time) bool {
	if len(l.anims) == 0 {
		if l.presentation != l.model {
			l.presentation = l.model
			return true
		}
		return false
	}

	var finished []timedAnim
	var still []timedAnim
	for _, a := range l.anims {
		elapsed := now.Sub(a.start)

		if a.Repeats {
			// Constant velocity: one revolution per period, forever.
			turns := elapsed.Seconds() / a.Duration.Seconds()
			l.presentation = a.From + turns*360
			still = append(still, a)
			continue
		}

		progress := 1.0
		if a.Duration > 0 {
			progress = float64(elapsed) / float64(a.Duration)
		}
		if progress >= 1 {
			l.presentation = a.To
			finished = append(finished, a)
			continue
		}
		curve := a.Curve
		if curve == nil {
			curve = Linear
		}
		l.presentation = a.From + (a.To-a.From)*curve(progress)
		still = append(still, a)
	}
	l.anims = still

	for _, a := range finished {
		if a.Done != nil {
			a.Done(true)
		}
	}
	return true
}
