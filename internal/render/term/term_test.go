package term

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/M-I-N/fortunewheel/internal/render/layer"
	"github.com/M-I-N/fortunewheel/internal/wheel"
)

type countClicker struct {
	n int
}

func (c *countClicker) Click() { c.n++ }

func testSlices() []wheel.Slice {
	return []wheel.Slice{
		{Label: "100", Color: "red"},
		{Label: "200", Color: "blue"},
		{Label: "500", Color: "green"},
		{Label: "0", Color: "yellow"},
	}
}

func newTestRenderer(t *testing.T, clicker Clicker) (*Renderer, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	s.SetSize(40, 20)
	t.Cleanup(s.Fini)
	return NewRenderer(s, testSlices(), nil, clicker), s
}

func TestRenderer_DrawsHub(t *testing.T) {
	r, s := newTestRenderer(t, nil)

	r.Update(time.Now())

	ch, _, _, _ := s.GetContent(20, 10)
	if ch != '●' {
		t.Fatalf("center cell = %q, want hub glyph", ch)
	}
}

func TestRenderer_ModelRoundTrip(t *testing.T) {
	r, _ := newTestRenderer(t, nil)

	r.SetRotation(123.5)
	if got := r.Rotation(); got != 123.5 {
		t.Fatalf("Rotation = %v, want 123.5", got)
	}
}

func TestRenderer_CompletionFiresAfterDuration(t *testing.T) {
	r, _ := newTestRenderer(t, nil)

	var finished *bool
	r.Add(layer.Animation{From: 0, To: 90, Duration: 10 * time.Millisecond, Done: func(f bool) {
		finished = &f
	}})
	r.SetRotation(90)

	r.Update(time.Now().Add(50 * time.Millisecond))

	if finished == nil || !*finished {
		t.Fatal("Done should fire with finished=true once the duration elapses")
	}
}

func TestRenderer_RemoveAllInterrupts(t *testing.T) {
	r, _ := newTestRenderer(t, nil)

	var finished *bool
	r.Add(layer.Animation{From: 0, To: 360, Duration: time.Hour, Curve: layer.Linear, Done: func(f bool) {
		finished = &f
	}})
	r.SetRotation(360)

	r.RemoveAll()

	if finished == nil || *finished {
		t.Fatal("Done should fire with finished=false on interruption")
	}
}

func TestRenderer_ClicksOnSliceEdge(t *testing.T) {
	clicker := &countClicker{}
	r, _ := newTestRenderer(t, clicker)

	// 0° → 90° crosses into another slice on a 4-slice wheel.
	r.Add(layer.Animation{From: 0, To: 90, Duration: 10 * time.Millisecond, Curve: layer.Linear})
	r.SetRotation(90)

	r.Update(time.Now().Add(50 * time.Millisecond))

	if clicker.n == 0 {
		t.Fatal("expected a click when the pointer crossed a slice edge")
	}
}

func TestRenderer_WatchInputSpaceSpins(t *testing.T) {
	r, s := newTestRenderer(t, nil)

	posted := make(chan func(), 4)
	spun := make(chan struct{}, 1)
	go r.WatchInput(
		func(fn func()) { posted <- fn },
		func() { spun <- struct{}{} },
		func() {},
	)

	s.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)

	select {
	case fn := <-posted:
		fn()
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for input event")
	}

	select {
	case <-spun:
	case <-time.After(time.Second):
		t.Fatal("space did not trigger a spin")
	}
}
