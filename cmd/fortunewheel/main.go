package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/M-I-N/fortunewheel/internal/audio"
	"github.com/M-I-N/fortunewheel/internal/config"
	"github.com/M-I-N/fortunewheel/internal/debug"
	"github.com/M-I-N/fortunewheel/internal/hw/gpio"
	"github.com/M-I-N/fortunewheel/internal/render/layer"
	"github.com/M-I-N/fortunewheel/internal/render/term"
	"github.com/M-I-N/fortunewheel/internal/runloop"
	"github.com/M-I-N/fortunewheel/internal/trigger"
	"github.com/M-I-N/fortunewheel/internal/web"
	"github.com/M-I-N/fortunewheel/internal/wheel"
	"github.com/M-I-N/fortunewheel/internal/wheel/animator"
	"github.com/M-I-N/fortunewheel/internal/wheel/geometry"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web server on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	headless := flag.Bool("headless", false, "run without the terminal UI (web control only)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)
	debug.Value("Slices", len(cfg.Slices))

	port := resolveWebPort(webPort.port(), cfg)
	var broadcaster *web.StatusBroadcaster
	if port > 0 {
		broadcaster = web.NewStatusBroadcaster()
	}
	routeDebugOutput(broadcaster, *headless)

	slices := make([]wheel.Slice, len(cfg.Slices))
	for i, s := range cfg.Slices {
		slices[i] = wheel.Slice{Label: s.Label, Color: s.Color}
	}

	// Audio is best-effort: a kiosk without a sound device still spins.
	var clicker *audio.Clicker
	if cfg.Sound != nil {
		clicker, err = audio.NewClicker(cfg.Sound.Volume)
		if err != nil {
			debug.Error(fmt.Errorf("audio disabled: %w", err))
			clicker = nil
		} else {
			defer clicker.Close()
		}
	}

	// Physical spin button
	var presses <-chan struct{}
	if cfg.SpinButton != nil {
		debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)
		gpioDriver, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
		if err != nil {
			log.Fatalf("init GPIO failed: %v", err)
		}
		defer func() {
			if err := gpioDriver.Close(); err != nil {
				debug.Error(err)
			}
		}()

		button, err := trigger.NewButton(gpioDriver, cfg.SpinButton.GPIOPin, cfg.SpinButton.PullUp, cfg.SpinButton.Debounce())
		if err != nil {
			log.Fatalf("init spin button failed: %v", err)
		}
		defer button.Close()
		presses = button.Presses()
	}

	loop := runloop.New(cfg.FrameInterval())

	// The layer is either the terminal renderer or a bare clock-driven
	// layer when running headless.
	var wheelLayer layer.Layer
	var renderer *term.Renderer
	if *headless {
		timed := layer.NewTimed()
		var c term.Clicker
		if clicker != nil {
			c = clicker
		}
		loop.OnFrame(headlessFrame(timed, c, len(slices)))
		wheelLayer = timed
	} else {
		screen, err := tcell.NewScreen()
		if err != nil {
			log.Fatalf("create screen failed: %v", err)
		}
		if err := screen.Init(); err != nil {
			log.Fatalf("init screen failed: %v", err)
		}
		defer screen.Fini()

		var c term.Clicker
		if clicker != nil {
			c = clicker
		}
		renderer = term.NewRenderer(screen, slices, cfg.Pin, c)
		loop.OnFrame(renderer.Update)
		wheelLayer = renderer
	}

	w := wheel.New(slices, wheelLayer, loop)
	if renderer != nil {
		w.OnInvalidate(func() { renderer.SetSlices(w.Slices()) })
	}

	// spin is the button/keyboard action: spin freely for a while, then
	// settle on a random slice. Pressing again while spinning stops the
	// wheel where it is.
	spin := func() {
		if w.State() != animator.Idle {
			w.Stop()
			return
		}
		finish := rand.IntN(w.SliceCount())
		w.AnimateIndefiniteThenFinish(cfg.IndefiniteSpinDelay(), finish, func(finished bool) {
			if !finished {
				return
			}
			index := w.CurrentIndex()
			label := w.Slices()[index].Label
			debug.Result(index, label)
			if broadcaster != nil {
				broadcaster.BroadcastResult(index, label)
			}
		})
	}

	if presses != nil {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case <-presses:
					loop.Post(spin)
				}
			}
		}()
	}

	if port > 0 {
		info := web.WheelInfo{
			FullRotations: cfg.Defaults.FullRotations,
			SpinDurationS: cfg.Defaults.SpinDurationS,
		}
		for _, s := range cfg.Slices {
			info.Slices = append(info.Slices, web.SliceInfo{Label: s.Label, Color: s.Color})
		}

		srv := web.NewServer(fmt.Sprintf(":%d", port), broadcaster, runSpinOnLoop(loop, w, cfg), info)
		go func() {
			if err := srv.Run(ctx); err != nil {
				debug.Error(err)
				cancel()
			}
		}()
	}

	if renderer != nil {
		go renderer.WatchInput(loop.Post, spin, cancel)
	}

	debug.Section("Ready")
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		debug.Error(err)
	}
}

// headlessFrame is the per-tick callback when no terminal is attached:
// it advances the clock-driven layer and plays the edge click whenever
// the pointer crosses into a different slice, mirroring the terminal
// renderer's behavior.
func headlessFrame(timed *layer.Timed, clicker term.Clicker, sliceCount int) func(now time.Time) {
	resolver := geometry.NewResolver()
	lastIndex := 0
	return func(now time.Time) {
		if !timed.Advance(now) {
			return
		}
		index := resolver.IndexAtRotation(timed.Presentation(), sliceCount)
		if index != lastIndex {
			lastIndex = index
			if clicker != nil {
				clicker.Click()
			}
		}
	}
}

// runSpinOnLoop adapts a web spin request onto the event loop: it posts
// the animation and blocks until the wheel settles or ctx expires.
func runSpinOnLoop(loop *runloop.Loop, w *wheel.Wheel, cfg *config.Config) web.RunSpinFunc {
	return func(ctx context.Context, req web.SpinRequest) (web.SpinResult, error) {
		type outcome struct {
			res web.SpinResult
			err error
		}
		done := make(chan outcome, 1)

		loop.Post(func() {
			if w.State() != animator.Idle {
				done <- outcome{err: fmt.Errorf("wheel is already spinning")}
				return
			}
			rotations, duration := spinParams(req, cfg)
			w.AnimateToIndex(req.FinishIndex, rotations, duration, func(finished bool) {
				if !finished {
					done <- outcome{err: fmt.Errorf("spin interrupted")}
					return
				}
				index := w.CurrentIndex()
				label := w.Slices()[index].Label
				debug.Result(index, label)
				done <- outcome{res: web.SpinResult{Index: index, Label: label}}
			})
		})

		select {
		case o := <-done:
			return o.res, o.err
		case <-ctx.Done():
			return web.SpinResult{}, ctx.Err()
		}
	}
}

// spinParams merges request overrides with config defaults. Zero values
// in the request mean "use config".
func spinParams(req web.SpinRequest, cfg *config.Config) (rotations int, duration time.Duration) {
	rotations = cfg.Defaults.FullRotations
	if req.FullRotations > 0 {
		rotations = req.FullRotations
	}
	duration = cfg.SpinDuration()
	if req.DurationS > 0 {
		duration = time.Duration(req.DurationS * float64(time.Second))
	}
	return rotations, duration
}

// resolveWebPort picks the web port: the CLI flag wins, then the config
// block, then disabled.
func resolveWebPort(flagPort int, cfg *config.Config) int {
	if flagPort > 0 {
		return flagPort
	}
	if cfg.Web != nil {
		return cfg.Web.Port
	}
	return 0
}

// routeDebugOutput decides where log lines go. With the terminal UI
// running, stdout belongs to the wheel, so logs either mirror to web
// clients or are dropped.
func routeDebugOutput(broadcaster *web.StatusBroadcaster, headless bool) {
	switch {
	case broadcaster != nil && headless:
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))
	case broadcaster != nil:
		debug.SetOutput(web.BroadcastWriter(broadcaster))
	case headless:
		// stdout, the default
	default:
		debug.SetOutput(io.Discard)
	}
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
