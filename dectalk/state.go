package dectalk

// captureState tracks where a synthesis request is in the buffer-capture
// protocol. The fill handler only copies audio while the request is in the
// submitted state; the explicit drain runs in the draining state.
type captureState int

const (
	// captureIdle means no synthesis request is in flight.
	captureIdle captureState = iota
	// captureSubmitted means the pool is armed and text has been (or is
	// being) handed to the engine; fill callbacks are live.
	captureSubmitted
	// captureDraining means the engine reported completion and held
	// buffers are being pulled back explicitly.
	captureDraining
	// captureComplete means all audio has been accumulated into the sink.
	captureComplete
)

// String returns the state name.
func (s captureState) String() string {
	switch s {
	case captureIdle:
		return "idle"
	case captureSubmitted:
		return "submitted"
	case captureDraining:
		return "draining"
	case captureComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// captureMachine validates transitions through the capture protocol. Any
// in-flight state may fall back to idle, which is how errors and Reset
// abandon a request.
type captureMachine struct {
	current     captureState
	transitions map[captureState][]captureState
}

// newCaptureMachine returns a machine in the idle state.
func newCaptureMachine() *captureMachine {
	return &captureMachine{
		current: captureIdle,
		transitions: map[captureState][]captureState{
			captureIdle:      {captureSubmitted},
			captureSubmitted: {captureDraining, captureIdle},
			captureDraining:  {captureComplete, captureIdle},
			captureComplete:  {captureIdle},
		},
	}
}

// transition moves to the given state if the protocol allows it.
func (m *captureMachine) transition(to captureState) bool {
	for _, state := range m.transitions[m.current] {
		if state == to {
			m.current = to
			return true
		}
	}
	return false
}

// state returns the current state.
func (m *captureMachine) state() captureState {
	return m.current
}

// abort returns the machine to idle from any state.
func (m *captureMachine) abort() {
	m.current = captureIdle
}
