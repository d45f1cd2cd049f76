package layer

// MockLayer is a test implementation that records submitted animations
// and lets tests drive completions by hand. Used by the animator and
// wheel tests instead of a real renderer.
type MockLayer struct {
	rotation float64
	active   []Animation

	AddCalls       int
	RemoveAllCalls int
}

// NewMockLayer creates a mock layer at rotation 0.
func NewMockLayer() *MockLayer {
	return &MockLayer{}
}

func (m *MockLayer) Rotation() float64 {
	return m.rotation
}

func (m *MockLayer) SetRotation(deg float64) {
	m.rotation = deg
}

func (m *MockLayer) Add(a Animation) {
	m.AddCalls++
	m.active = append(m.active, a)
}

func (m *MockLayer) RemoveAll() {
	m.RemoveAllCalls++
	pending := m.active
	m.active = nil
	for _, a := range pending {
		if a.Done != nil {
			a.Done(false)
		}
	}
}

// Active returns the animations currently in flight.
func (m *MockLayer) Active() []Animation {
	return m.active
}

// Finish completes all in-flight animations as if their time elapsed:
// non-repeating animations land the rotation on their target, then every
// pending Done fires with finished=true. Repeating animations never
// finish on their own, so Finish leaves them in place.
func (m *MockLayer) Finish() {
	var still []Animation
	var done []Animation
	for _, a := range m.active {
		if a.Repeats {
			still = append(still, a)
			continue
		}
		m.rotation = a.To
		done = append(done, a)
	}
	m.active = still
	for _, a := range done {
		if a.Done != nil {
			a.Done(true)
		}
	}
}
