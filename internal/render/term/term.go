package term

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/M-I-N/fortunewheel/internal/config"
	"github.com/M-I-N/fortunewheel/internal/debug"
	"github.com/M-I-N/fortunewheel/internal/render/layer"
	"github.com/M-I-N/fortunewheel/internal/wheel"
	"github.com/M-I-N/fortunewheel/internal/wheel/geometry"
)

// Clicker plays the slice-edge click. Satisfied by audio.Clicker; nil
// means silent.
type Clicker interface {
	Click()
}

// Renderer draws the wheel into a tcell screen and implements
// layer.Layer by delegating the clock-driven interpolation to an
// embedded layer.Timed. The model angle is what the animator reads and
// writes; the presentation angle is what the user currently sees.
//
// All methods must be called on the wheel's event loop except
// WatchInput, which runs its own goroutine and hands results back
// through the provided post function.
type Renderer struct {
	screen tcell.Screen

	slices  []wheel.Slice
	pin     *config.PinConfig
	clicker Clicker

	timed     *layer.Timed
	resolver  *geometry.Resolver
	lastIndex int
	dirty     bool
}

// NewRenderer creates a renderer over an initialized screen.
func NewRenderer(screen tcell.Screen, slices []wheel.Slice, pin *config.PinConfig, clicker Clicker) *Renderer {
	return &Renderer{
		screen:   screen,
		slices:   slices,
		pin:      pin,
		clicker:  clicker,
		timed:    layer.NewTimed(),
		resolver: geometry.NewResolver(),
		dirty:    true,
	}
}

// --- layer.Layer ---

func (r *Renderer) Rotation() float64 {
	return r.timed.Rotation()
}

func (r *Renderer) SetRotation(deg float64) {
	debug.Layer("SetRotation", deg)
	r.timed.SetRotation(deg)
	r.dirty = true
}

func (r *Renderer) Add(a layer.Animation) {
	debug.Layer("Add", fmt.Sprintf("from=%.2f to=%.2f repeats=%v", a.From, a.To, a.Repeats))
	r.timed.Add(a)
}

func (r *Renderer) RemoveAll() {
	if n := r.timed.Active(); n > 0 {
		debug.Layer("RemoveAll", n)
	}
	r.timed.RemoveAll()
	r.dirty = true
}

// --- rendering ---

// SetSlices replaces the drawn slice list (redraw hook for the wheel).
func (r *Renderer) SetSlices(slices []wheel.Slice) {
	r.slices = slices
	r.dirty = true
}

// Update advances in-flight animations to now and redraws when anything
// changed. Called once per event-loop tick.
func (r *Renderer) Update(now time.Time) {
	if r.timed.Advance(now) {
		r.dirty = true
		r.clickOnEdge()
	}
	if r.dirty {
		r.draw()
		r.dirty = false
	}
}

// clickOnEdge fires the clicker whenever the pointer crosses into a
// different slice while the wheel moves.
func (r *Renderer) clickOnEdge() {
	if len(r.slices) == 0 {
		return
	}
	index := r.resolver.IndexAtRotation(r.timed.Presentation(), len(r.slices))
	if index != r.lastIndex {
		r.lastIndex = index
		if r.clicker != nil {
			r.clicker.Click()
		}
	}
}

func (r *Renderer) draw() {
	s := r.screen
	s.Clear()

	w, h := s.Size()
	cx, cy := w/2, h/2
	rotation := r.timed.Presentation()

	// Characters are roughly twice as tall as wide; scale x by half to
	// get a round wheel on screen.
	maxR := float64(cy - 2)
	if rx := float64(cx-2) * 0.5; rx < maxR {
		maxR = rx
	}
	if maxR < 2 || len(r.slices) == 0 {
		s.Show()
		return
	}

	sector := r.resolver.SectorDegree(len(r.slices))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := float64(x-cx) * 0.5
			dy := float64(y - cy)
			dist := math.Hypot(dx, dy)
			if dist > maxR {
				continue
			}
			if dist < 0.75 {
				s.SetContent(x, y, '●', nil, tcell.StyleDefault)
				continue
			}
			// Screen angle clockwise from 12 o'clock, minus the wheel
			// rotation, gives the wheel-local angle of this cell.
			screenDeg := math.Atan2(dx, -dy) * 180 / math.Pi
			local := math.Mod(screenDeg-rotation, geometry.FullCircleDegree)
			if local < 0 {
				local += geometry.FullCircleDegree
			}
			index := int(local / sector)
			if index >= len(r.slices) {
				index = len(r.slices) - 1
			}
			style := tcell.StyleDefault.Background(sliceColor(r.slices[index].Color, index))
			s.SetContent(x, y, ' ', nil, style)
		}
	}

	r.drawPin(cx, cy, maxR)
	r.drawLegend(w, h)
	s.Show()
}

func (r *Renderer) drawPin(cx, cy int, maxR float64) {
	if r.pin == nil {
		return
	}
	glyph := '▼'
	if r.pin.Symbol != "" {
		glyph = []rune(r.pin.Symbol)[0]
	}
	style := tcell.StyleDefault
	if r.pin.Color != "" {
		style = style.Foreground(tcell.GetColor(r.pin.Color))
	}
	r.screen.SetContent(cx, cy-int(maxR)-1, glyph, nil, style)
}

// drawLegend lists the slices down the left edge, marking the one under
// the pointer.
func (r *Renderer) drawLegend(w, h int) {
	current := r.resolver.IndexAtRotation(r.timed.Presentation(), len(r.slices))
	for i, sl := range r.slices {
		if i+1 >= h {
			break
		}
		marker := "  "
		if i == current {
			marker = "▶ "
		}
		style := tcell.StyleDefault.Foreground(sliceColor(sl.Color, i))
		drawText(r.screen, 1, i+1, marker+sl.Label, style)
	}
	drawText(r.screen, 1, h-1, "space: spin  q: quit", tcell.StyleDefault.Dim(true))
}

func drawText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	for i, ch := range []rune(text) {
		s.SetContent(x+i, y, ch, nil, style)
	}
}

// fallbackColors keeps adjacent slices distinguishable when the config
// gives no colors.
var fallbackColors = []tcell.Color{
	tcell.ColorRed, tcell.ColorBlue, tcell.ColorGreen, tcell.ColorYellow,
	tcell.ColorPurple, tcell.ColorTeal, tcell.ColorMaroon, tcell.ColorNavy,
}

func sliceColor(name string, index int) tcell.Color {
	if name != "" {
		if c := tcell.GetColor(name); c != tcell.ColorDefault {
			return c
		}
	}
	return fallbackColors[index%len(fallbackColors)]
}

// WatchInput polls terminal events on its own goroutine, handing
// reactions back to the event loop through post. Space presses call
// onSpin, q/Esc/Ctrl-C call onQuit. Returns when the screen is finalized.
func (r *Renderer) WatchInput(post func(func()), onSpin, onQuit func()) {
	for {
		ev := r.screen.PollEvent()
		if ev == nil {
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC:
				post(onQuit)
			case ev.Key() == tcell.KeyRune && ev.Rune() == ' ':
				debug.Trigger("keyboard")
				post(onSpin)
			case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
				post(onQuit)
			}
		case *tcell.EventResize:
			r.screen.Sync()
			post(func() { r.dirty = true })
		}
	}
}
