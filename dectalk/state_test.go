package dectalk

import "testing"

// TestCaptureStateString tests state names.
func TestCaptureStateString(t *testing.T) {
	tests := []struct {
		state    captureState
		expected string
	}{
		{captureIdle, "idle"},
		{captureSubmitted, "submitted"},
		{captureDraining, "draining"},
		{captureComplete, "complete"},
		{captureState(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.state.String(); got != tt.expected {
				t.Errorf("captureState.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

// TestCaptureMachineTransitions tests protocol transition legality.
func TestCaptureMachineTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    captureState
		to      captureState
		allowed bool
	}{
		{"idle to submitted", captureIdle, captureSubmitted, true},
		{"idle to draining", captureIdle, captureDraining, false},
		{"idle to complete", captureIdle, captureComplete, false},
		{"submitted to draining", captureSubmitted, captureDraining, true},
		{"submitted to idle", captureSubmitted, captureIdle, true},
		{"submitted to complete", captureSubmitted, captureComplete, false},
		{"draining to complete", captureDraining, captureComplete, true},
		{"draining to idle", captureDraining, captureIdle, true},
		{"draining to submitted", captureDraining, captureSubmitted, false},
		{"complete to idle", captureComplete, captureIdle, true},
		{"complete to submitted", captureComplete, captureSubmitted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newCaptureMachine()
			m.current = tt.from
			if got := m.transition(tt.to); got != tt.allowed {
				t.Fatalf("transition(%v -> %v) = %v, want %v", tt.from, tt.to, got, tt.allowed)
			}
			if tt.allowed && m.state() != tt.to {
				t.Errorf("state after transition = %v, want %v", m.state(), tt.to)
			}
			if !tt.allowed && m.state() != tt.from {
				t.Errorf("state after rejected transition = %v, want %v", m.state(), tt.from)
			}
		})
	}
}

// TestCaptureMachineFullCycle tests the normal protocol walk.
func TestCaptureMachineFullCycle(t *testing.T) {
	m := newCaptureMachine()
	for _, to := range []captureState{captureSubmitted, captureDraining, captureComplete, captureIdle} {
		if !m.transition(to) {
			t.Fatalf("transition to %v rejected at state %v", to, m.state())
		}
	}
	if m.state() != captureIdle {
		t.Errorf("state after full cycle = %v, want idle", m.state())
	}
}

// TestCaptureMachineAbort tests that abort returns to idle from any state.
func TestCaptureMachineAbort(t *testing.T) {
	for _, from := range []captureState{captureIdle, captureSubmitted, captureDraining, captureComplete} {
		m := newCaptureMachine()
		m.current = from
		m.abort()
		if m.state() != captureIdle {
			t.Errorf("abort from %v left state %v", from, m.state())
		}
	}
}
