package session

import (
	"testing"
	"time"
)

func TestEmitGate_FirstEmissionAlwaysAllowed(t *testing.T) {
	g := newEmitGate(400 * time.Millisecond)
	if !g.Allow("привет", time.Now()) {
		t.Error("Expected first emission to pass")
	}
}

func TestEmitGate_SameKeySuppressed(t *testing.T) {
	g := newEmitGate(400 * time.Millisecond)
	now := time.Now()

	g.Allow("привет", now)
	if g.Allow("привет", now.Add(time.Second)) {
		t.Error("Expected identical key to be suppressed regardless of spacing")
	}
}

func TestEmitGate_DebounceWindow(t *testing.T) {
	g := newEmitGate(400 * time.Millisecond)
	now := time.Now()

	g.Allow("первый", now)
	if g.Allow("второй", now.Add(100*time.Millisecond)) {
		t.Error("Expected emission within debounce window to be suppressed")
	}
	if !g.Allow("второй", now.Add(500*time.Millisecond)) {
		t.Error("Expected emission after debounce window to pass")
	}
}

func TestEmitGate_SuppressedEmissionDoesNotUpdateState(t *testing.T) {
	g := newEmitGate(400 * time.Millisecond)
	now := time.Now()

	g.Allow("первый", now)
	g.Allow("второй", now.Add(100*time.Millisecond)) // suppressed

	// The suppressed attempt must not have become the "last" key.
	if !g.Allow("второй", now.Add(600*time.Millisecond)) {
		t.Error("Expected key suppressed by debounce to remain emittable")
	}
}

func TestEmitGate_Reset(t *testing.T) {
	g := newEmitGate(400 * time.Millisecond)
	now := time.Now()

	g.Allow("привет", now)
	g.Reset()

	if !g.Allow("привет", now.Add(time.Millisecond)) {
		t.Error("Expected same key to pass after reset")
	}
}
