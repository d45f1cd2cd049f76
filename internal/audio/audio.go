package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/M-I-N/fortunewheel/internal/debug"
)

const (
	sampleRate = beep.SampleRate(48000)

	// clickDuration is the length of one slice-edge click.
	clickDuration = 40 * time.Millisecond
)

// Clicker plays a short mechanical click each time the wheel pointer
// crosses a slice edge. Clicks are synthesized, there are no asset
// files to ship.
type Clicker struct {
	volume float64
	mixer  *beep.Mixer
}

// NewClicker opens the speaker and starts the shared mixer. volume is
// in (0, 1].
func NewClicker(volume float64) (*Clicker, error) {
	debug.Info("Initializing audio (%.0f%% volume)", volume*100)

	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("failed to open speaker: %w", err)
	}

	c := &Clicker{
		volume: volume,
		mixer:  &beep.Mixer{},
	}
	speaker.Play(c.mixer)
	return c, nil
}

// Click queues one click. Safe to call from the event loop; the mixer
// drops finished streamers on its own.
func (c *Clicker) Click() {
	if c == nil {
		return
	}
	s := beep.Take(sampleRate.N(clickDuration), NewClickGenerator(sampleRate, c.volume))
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// Close shuts the speaker down.
func (c *Clicker) Close() error {
	if c == nil {
		return nil
	}
	debug.Trace("Audio Close")
	speaker.Close()
	return nil
}

// ClickGenerator synthesizes a decaying sine burst with a touch of
// noise, which reads as the pin snapping off a peg.
type ClickGenerator struct {
	sr     beep.SampleRate
	volume float64
	pos    int
	seed   int64
}

// NewClickGenerator creates a click generator at the given volume.
func NewClickGenerator(sr beep.SampleRate, volume float64) *ClickGenerator {
	return &ClickGenerator{
		sr:     sr,
		volume: volume,
		seed:   time.Now().UnixNano(),
	}
}

func (g *ClickGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)

		// Sharp attack, fast exponential decay
		envelope := math.Exp(-t * 90)

		tone := math.Sin(2 * math.Pi * 1800 * t)

		g.seed = (g.seed*1103515245 + 12345) & 0x7fffffff
		noise := float64(g.seed)/float64(0x7fffffff)*2 - 1

		sample := g.volume * envelope * (0.8*tone + 0.2*noise)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ClickGenerator) Err() error {
	return nil
}
