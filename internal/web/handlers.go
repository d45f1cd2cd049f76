package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/M-I-N/fortunewheel/internal/debug"
	"github.com/M-I-N/fortunewheel/internal/render/animgif"
	"github.com/M-I-N/fortunewheel/internal/wheel"
)

// MaxBodyBytes caps the request body for POST /spin.
const MaxBodyBytes = 1 << 20

// spinCooldown is the minimum gap between accepted spins, so a held-down
// refresh cannot hammer the wheel.
const spinCooldown = 2 * time.Second

// SpinRequest asks the wheel to spin and decelerate onto finish_index.
// Zero full_rotations or duration_s take the wheel's defaults.
type SpinRequest struct {
	FinishIndex   int     `json:"finish_index"`
	FullRotations int     `json:"full_rotations,omitempty"`
	DurationS     float64 `json:"duration_s,omitempty"`
}

// SpinResult is what the wheel landed on.
type SpinResult struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// RunSpinFunc performs one spin and blocks until the wheel settles.
// It is called from the POST /spin handler in a goroutine.
type RunSpinFunc func(ctx context.Context, req SpinRequest) (SpinResult, error)

// SliceInfo is the JSON shape of one wheel slice.
type SliceInfo struct {
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// WheelInfo describes the wheel to the browser: its slices and the spin
// defaults used when a request leaves them zero.
type WheelInfo struct {
	Slices        []SliceInfo `json:"slices"`
	FullRotations int         `json:"full_rotations"`
	SpinDurationS float64     `json:"spin_duration_s"`
}

// ValidateSpinRequest rejects requests the wheel cannot perform.
func ValidateSpinRequest(req SpinRequest, sliceCount int) error {
	if req.FinishIndex < 0 || req.FinishIndex >= sliceCount {
		return fmt.Errorf("finish_index must be between 0 and %d", sliceCount-1)
	}
	if req.FullRotations < 0 || req.FullRotations > 100 {
		return fmt.Errorf("full_rotations must be between 0 and 100")
	}
	if math.IsNaN(req.DurationS) || math.IsInf(req.DurationS, 0) {
		return fmt.Errorf("duration_s must be a finite number")
	}
	if req.DurationS < 0 || req.DurationS > 60 {
		return fmt.Errorf("duration_s must be between 0 and 60")
	}
	return nil
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	Broadcaster *StatusBroadcaster
	RunSpin     RunSpinFunc
	Info        WheelInfo

	runningMu sync.Mutex
	running   bool
	lastSpin  time.Time

	staticFS fs.FS
}

// NewHandlers creates handlers with the given dependencies.
// If runSpin is nil, POST /spin returns 503 Service Unavailable.
func NewHandlers(broadcaster *StatusBroadcaster, runSpin RunSpinFunc, info WheelInfo, staticFS fs.FS) *Handlers {
	return &Handlers{
		Broadcaster: broadcaster,
		RunSpin:     runSpin,
		Info:        info,
		staticFS:    staticFS,
	}
}

// HandleConfig returns the wheel description as JSON.
func (h *Handlers) HandleConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Info)
}

// ServeIndex serves the main HTML page (root path only).
func (h *Handlers) ServeIndex(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(h.staticFS, "index.html")
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

// HandleSpin handles POST /spin to start a spin.
func (h *Handlers) HandleSpin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SpinRequest
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if err := ValidateSpinRequest(req, len(h.Info.Slices)); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.RunSpin == nil {
		http.Error(w, "spinning not configured", http.StatusServiceUnavailable)
		return
	}

	h.runningMu.Lock()
	if h.running {
		h.runningMu.Unlock()
		http.Error(w, "a spin is already in progress", http.StatusConflict)
		return
	}
	if !h.lastSpin.IsZero() && time.Since(h.lastSpin) < spinCooldown {
		h.runningMu.Unlock()
		http.Error(w, "spinning too fast, slow down", http.StatusTooManyRequests)
		return
	}
	h.running = true
	h.lastSpin = time.Now()
	h.runningMu.Unlock()

	// Spin in a goroutine; clear running when the wheel settles
	go func() {
		defer func() {
			h.runningMu.Lock()
			h.running = false
			h.runningMu.Unlock()
		}()

		result, err := h.RunSpin(context.Background(), req)
		if err != nil {
			h.Broadcaster.Broadcast("error", "Spin failed: "+err.Error())
			debug.Error(err)
			return
		}
		h.Broadcaster.BroadcastResult(result.Index, result.Label)
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]string{"status": "spinning"})
}

// HandleGIF handles GET /wheel.gif. Query parameters: target (slice
// index, random when absent), rotations, duration_s.
func (h *Handlers) HandleGIF(w http.ResponseWriter, r *http.Request) {
	if len(h.Info.Slices) == 0 {
		http.Error(w, "wheel has no slices", http.StatusServiceUnavailable)
		return
	}

	target := rand.IntN(len(h.Info.Slices))
	if v := r.URL.Query().Get("target"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n >= len(h.Info.Slices) {
			http.Error(w, "target must be a valid slice index", http.StatusBadRequest)
			return
		}
		target = n
	}

	opts := animgif.Options{
		FullRotations: h.Info.FullRotations,
		Duration:      time.Duration(h.Info.SpinDurationS * float64(time.Second)),
	}
	if v := r.URL.Query().Get("rotations"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			opts.FullRotations = n
		}
	}
	if v := r.URL.Query().Get("duration_s"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 60 {
			opts.Duration = time.Duration(f * float64(time.Second))
		}
	}

	slices := make([]wheel.Slice, len(h.Info.Slices))
	for i, s := range h.Info.Slices {
		slices[i] = wheel.Slice{Label: s.Label, Color: s.Color}
	}

	w.Header().Set("Content-Type", "image/gif")
	w.Header().Set("Cache-Control", "no-store")
	if err := animgif.Render(w, slices, target, opts); err != nil {
		debug.Error(err)
	}
}

// HandleStatusStream handles GET /status/stream for SSE.
func (h *Handlers) HandleStatusStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx

	ch, unsub := h.Broadcaster.Subscribe()
	defer unsub()

	// Send initial comment to establish connection
	w.Write([]byte(": connected\n\n"))
	flusher.Flush()

	// Heartbeat while idle
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			w.Write([]byte("data: " + msg + "\n\n"))
			flusher.Flush()

		case <-ticker.C:
			w.Write([]byte(": heartbeat\n\n"))
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
