package debug

import (
	"io"
	"log"
	"os"
	"time"
)

// Debug levels
const (
	LevelOff     = 0 // No output
	LevelInfo    = 1 // Important info (wheel setup, spin results)
	LevelLive    = 2 // Live info (spins started, triggers)
	LevelVerbose = 3 // Verbose (angle math, state transitions)
	LevelTrace   = 4 // Trace (layer operations, very low level)
)

var (
	level  int
	logger *log.Logger
)

// Init initializes the debug system with a level (0-4).
// 0 = no output
// 1 = important info (wheel setup, spin results)
// 2 = live info (spins, triggers, stops)
// 3 = verbose (resolved angles, no-ops, state changes)
// 4 = trace (layer submissions, frame-level detail)
func Init(debugLevel int) {
	level = debugLevel
	if level > LevelOff {
		logger = log.New(os.Stdout, "[fortunewheel] ", log.LstdFlags|log.Lmicroseconds)
	}
}

// SetOutput redirects debug output, e.g. to a multi-writer that also
// feeds the web status broadcaster.
func SetOutput(w io.Writer) {
	if logger != nil {
		logger.SetOutput(w)
	}
}

// Level returns the current debug level.
func Level() int {
	return level
}

// IsEnabled returns true if debug level is >= the requested level.
func IsEnabled(minLevel int) bool {
	return level >= minLevel
}

// --- Level 1 functions (Info): important info ---

// Info prints a level 1 message (important info).
func Info(format string, args ...interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO] "+format, args...)
	}
}

// Result prints the slice a spin landed on (level 1).
func Result(index int, label string) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO] Landed on slice %d (%s)", index, label)
	}
}

// Value prints a named value in formatted form (level 1).
func Value(name string, value interface{}) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[INFO]   %s = %v", name, value)
	}
}

// --- Level 2 functions (Live): real-time info ---

// Live prints a level 2 message (live info).
func Live(format string, args ...interface{}) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] "+format, args...)
	}
}

// Rotate prints a direct rotation (level 2).
func Rotate(from, to float64, d time.Duration) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Rotate %.2f° -> %.2f° over %s", from, to, d)
	}
}

// Spin prints a decelerating spin (level 2).
func Spin(from, to float64, rotations int, d time.Duration) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Spin %.2f° -> %.2f° (%d full rotations) over %s", from, to, rotations, d)
	}
}

// Trigger prints a spin trigger event and its source (level 2).
func Trigger(source string) {
	if level >= LevelLive && logger != nil {
		logger.Printf("[LIVE] Spin triggered via %s", source)
	}
}

// --- Level 3 functions (Verbose) ---

// Verbose prints a level 3 message (verbose).
func Verbose(format string, args ...interface{}) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("[VERBOSE] "+format, args...)
	}
}

// Section prints a section separator (level 3).
func Section(name string) {
	if level >= LevelVerbose && logger != nil {
		logger.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		logger.Printf("  %s", name)
		logger.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	}
}

// --- Level 4 functions (Trace): very low level ---

// Trace prints a level 4 message (trace).
func Trace(format string, args ...interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[TRACE] "+format, args...)
	}
}

// Layer prints a layer operation (level 4).
func Layer(operation string, value interface{}) {
	if level >= LevelTrace && logger != nil {
		logger.Printf("[LAYER] %s value=%v", operation, value)
	}
}

// --- General functions ---

// Error prints a debug error (level 1+).
func Error(err error) {
	if level >= LevelInfo && logger != nil {
		logger.Printf("[ERROR] %v", err)
	}
}
