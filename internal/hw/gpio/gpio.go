package gpio

import (
	"sync"

	"github.com/M-I-N/fortunewheel/internal/debug"
)

// Level represents the logical state of a GPIO pin.
type Level bool

const (
	Low  Level = false
	High Level = true
)

// Driver defines the abstract interface for reading GPIOs.
// This allows plugging in a real Raspberry Pi implementation
// or a mock for development on PC. The wheel only ever reads
// pins (the spin button); there is no output path.
type Driver interface {
	SetupInput(pin int, pullUp bool) error
	Read(pin int) (Level, error)
	Close() error
}

// NewDriver creates a GPIO driver based on the chosen mode.
// If mock is true, returns a MockDriver (for dev/test).
// If mock is false, returns a real RPiDriver (for Raspberry Pi).
func NewDriver(mock bool) (Driver, error) {
	if mock {
		debug.Info("Using MOCK GPIO driver (development mode)")
		return NewMockDriver(), nil
	}
	return NewRPiRealDriver()
}

// MockDriver is a test implementation with settable pin levels.
// Used for development on PC or testing; safe for concurrent use
// because the trigger polls from the event-loop side while tests
// flip levels from their own goroutine.
type MockDriver struct {
	mu     sync.Mutex
	levels map[int]Level
}

// NewMockDriver creates a mock driver with all pins reading Low.
func NewMockDriver() *MockDriver {
	return &MockDriver{
		levels: make(map[int]Level),
	}
}

func (m *MockDriver) SetupInput(pin int, pullUp bool) error {
	debug.Layer("SetupInput", pin)
	m.mu.Lock()
	defer m.mu.Unlock()
	if pullUp {
		// Pulled-up pins read High until the button shorts them to ground.
		m.levels[pin] = High
	}
	return nil
}

func (m *MockDriver) Read(pin int) (Level, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.levels[pin], nil
}

// Set forces a pin level, simulating a button press or release.
func (m *MockDriver) Set(pin int, level Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[pin] = level
}

func (m *MockDriver) Close() error {
	debug.Trace("GPIO Close (mock)")
	return nil
}
