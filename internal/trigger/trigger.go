package trigger

// Trigger is the abstract spin trigger used by the application: a
// physical button, a key press, or anything else that can ask the
// wheel to spin. Implementations emit one value per activation.
type Trigger interface {
	// Presses returns the channel activations are delivered on.
	Presses() <-chan struct{}
	// Close stops the trigger and releases its resources.
	Close() error
}
