package main

import (
	"testing"
	"time"

	"github.com/M-I-N/fortunewheel/internal/config"
	"github.com/M-I-N/fortunewheel/internal/render/layer"
	"github.com/M-I-N/fortunewheel/internal/web"
)

func newTestConfig() *config.Config {
	return &config.Config{
		Slices: []config.SliceConfig{
			{Label: "100", Color: "red"},
			{Label: "200", Color: "blue"},
		},
		Defaults: config.DefaultsConfig{
			FullRotations: 13,
			SpinDurationS: 5,
			FrameRate:     30,
			MockGPIO:      true,
		},
	}
}

// ---------- webPortFlag ----------

func TestWebPortFlag_EmptyString(t *testing.T) {
	w := &webPortFlag{defaultPort: 8080}
	if err := w.Set(""); err != nil {
		t.Fatalf("Set(\"\") error: %v", err)
	}
	if w.port() != 8080 {
		t.Errorf("expected default port 8080, got %d", w.port())
	}
}

func TestWebPortFlag_ValidPorts(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"8080", 8080},
		{"1", 1},
		{"65535", 65535},
		{"3000", 3000},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			w := &webPortFlag{defaultPort: 8080}
			if err := w.Set(tc.input); err != nil {
				t.Fatalf("Set(%q) error: %v", tc.input, err)
			}
			if w.port() != tc.want {
				t.Errorf("port() = %d, want %d", w.port(), tc.want)
			}
		})
	}
}

func TestWebPortFlag_InvalidPorts(t *testing.T) {
	cases := []string{"0", "65536", "-1", "abc", "8080.5"}
	for _, input := range cases {
		t.Run(input, func(t *testing.T) {
			w := &webPortFlag{defaultPort: 8080}
			if err := w.Set(input); err == nil {
				t.Errorf("Set(%q) should fail, got nil", input)
			}
		})
	}
}

func TestWebPortFlag_String(t *testing.T) {
	w := &webPortFlag{val: 0}
	if s := w.String(); s != "0" {
		t.Errorf("String() = %q, want \"0\"", s)
	}
	w.val = 9090
	if s := w.String(); s != "9090" {
		t.Errorf("String() = %q, want \"9090\"", s)
	}
}

// ---------- resolveWebPort ----------

func TestResolveWebPort_FlagWins(t *testing.T) {
	cfg := newTestConfig()
	cfg.Web = &config.WebConfig{Port: 9000}
	if got := resolveWebPort(8080, cfg); got != 8080 {
		t.Errorf("resolveWebPort = %d, want 8080", got)
	}
}

func TestResolveWebPort_ConfigFallback(t *testing.T) {
	cfg := newTestConfig()
	cfg.Web = &config.WebConfig{Port: 9000}
	if got := resolveWebPort(0, cfg); got != 9000 {
		t.Errorf("resolveWebPort = %d, want 9000", got)
	}
}

func TestResolveWebPort_Disabled(t *testing.T) {
	cfg := newTestConfig()
	if got := resolveWebPort(0, cfg); got != 0 {
		t.Errorf("resolveWebPort = %d, want 0 (disabled)", got)
	}
}

// ---------- headlessFrame ----------

type countClicker struct {
	n int
}

func (c *countClicker) Click() { c.n++ }

func TestHeadlessFrame_ClicksOnSliceEdge(t *testing.T) {
	timed := layer.NewTimed()
	clicker := &countClicker{}
	frame := headlessFrame(timed, clicker, 4)

	// 0° → 90° crosses into another slice on a 4-slice wheel.
	timed.Add(layer.Animation{From: 0, To: 90, Duration: 10 * time.Millisecond, Curve: layer.Linear})
	timed.SetRotation(90)

	frame(time.Now().Add(50 * time.Millisecond))

	if clicker.n == 0 {
		t.Fatal("expected a click when the pointer crossed a slice edge")
	}
}

func TestHeadlessFrame_NilClickerStillAdvances(t *testing.T) {
	timed := layer.NewTimed()
	frame := headlessFrame(timed, nil, 4)

	timed.Add(layer.Animation{From: 0, To: 90, Duration: 10 * time.Millisecond, Curve: layer.Linear})
	timed.SetRotation(90)

	frame(time.Now().Add(50 * time.Millisecond)) // must not panic

	if timed.Presentation() != 90 {
		t.Fatalf("presentation = %v, want 90", timed.Presentation())
	}
}

// ---------- spinParams ----------

func TestSpinParams_Defaults(t *testing.T) {
	cfg := newTestConfig()
	rotations, duration := spinParams(web.SpinRequest{FinishIndex: 1}, cfg)
	if rotations != 13 {
		t.Errorf("rotations = %d, want 13", rotations)
	}
	if duration != 5*time.Second {
		t.Errorf("duration = %v, want 5s", duration)
	}
}

func TestSpinParams_Overrides(t *testing.T) {
	cfg := newTestConfig()
	rotations, duration := spinParams(web.SpinRequest{
		FinishIndex:   1,
		FullRotations: 3,
		DurationS:     1.5,
	}, cfg)
	if rotations != 3 {
		t.Errorf("rotations = %d, want 3", rotations)
	}
	if duration != 1500*time.Millisecond {
		t.Errorf("duration = %v, want 1.5s", duration)
	}
}

func TestSpinParams_PartialOverride(t *testing.T) {
	cfg := newTestConfig()
	rotations, duration := spinParams(web.SpinRequest{FinishIndex: 0, FullRotations: 2}, cfg)
	if rotations != 2 {
		t.Errorf("rotations = %d, want 2", rotations)
	}
	if duration != 5*time.Second {
		t.Errorf("duration = %v, want config default 5s", duration)
	}
}
