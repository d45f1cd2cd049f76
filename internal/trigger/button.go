package trigger

import (
	"time"

	"github.com/M-I-N/fortunewheel/internal/debug"
	"github.com/M-I-N/fortunewheel/internal/hw/gpio"
)

// pollInterval is how often the button pin is sampled.
const pollInterval = 10 * time.Millisecond

// Button is a debounced GPIO push button. With pullUp the pin idles High
// and a press pulls it to ground; without, the wiring is inverted.
type Button struct {
	driver   gpio.Driver
	pin      int
	pressed  gpio.Level
	debounce time.Duration

	presses chan struct{}
	stop    chan struct{}
	done    chan struct{}
}

// NewButton sets up the pin and starts polling for presses.
func NewButton(d gpio.Driver, pin int, pullUp bool, debounce time.Duration) (*Button, error) {
	if err := d.SetupInput(pin, pullUp); err != nil {
		return nil, err
	}

	pressed := gpio.High
	if pullUp {
		pressed = gpio.Low
	}

	b := &Button{
		driver:   d,
		pin:      pin,
		pressed:  pressed,
		debounce: debounce,
		presses:  make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go b.poll()
	return b, nil
}

func (b *Button) Presses() <-chan struct{} {
	return b.presses
}

// Close stops the polling goroutine. The presses channel stays open but
// receives nothing further.
func (b *Button) Close() error {
	close(b.stop)
	<-b.done
	return nil
}

// poll samples the pin and emits one press per idle→pressed edge. After
// an emit it ignores the pin for the debounce window so contact bounce
// cannot double-fire.
func (b *Button) poll() {
	defer close(b.done)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	wasPressed := false
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
		}

		level, err := b.driver.Read(b.pin)
		if err != nil {
			debug.Error(err)
			continue
		}

		isPressed := level == b.pressed
		if isPressed && !wasPressed {
			debug.Trigger("GPIO button")
			select {
			case b.presses <- struct{}{}:
			default:
				// a press is already waiting, drop this one
			}
			// debounce: hold off sampling until contacts settle
			select {
			case <-b.stop:
				return
			case <-time.After(b.debounce):
			}
		}
		wasPressed = isPressed
	}
}
