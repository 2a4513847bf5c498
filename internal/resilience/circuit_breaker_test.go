package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterFailures(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)

	failing := func() error { return errors.New("boom") }
	for i := 0; i < 3; i++ {
		cb.Call(failing)
	}

	if cb.GetState() != StateOpen {
		t.Errorf("Expected circuit open after 3 failures, got state %d", cb.GetState())
	}

	// While open, calls fail fast without invoking the function
	invoked := false
	err := cb.Call(func() error {
		invoked = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen, got %v", err)
	}
	if invoked {
		t.Error("Expected function not to be invoked while circuit is open")
	}
}

func TestCircuitBreaker_StaysClosed_OnSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)

	for i := 0; i < 10; i++ {
		if err := cb.Call(func() error { return nil }); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	if cb.GetState() != StateClosed {
		t.Errorf("Expected circuit to stay closed, got state %d", cb.GetState())
	}
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker("test", 3, time.Minute)

	failing := func() error { return errors.New("boom") }
	cb.Call(failing)
	cb.Call(failing)
	cb.Call(func() error { return nil })
	cb.Call(failing)
	cb.Call(failing)

	if cb.GetState() != StateClosed {
		t.Error("Expected circuit to remain closed when failures are not consecutive")
	}
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, 10*time.Millisecond)

	failing := func() error { return errors.New("boom") }
	cb.Call(failing)
	cb.Call(failing)
	if cb.GetState() != StateOpen {
		t.Fatal("Expected circuit open")
	}

	time.Sleep(20 * time.Millisecond)

	// Enough successful probes close the circuit again
	for i := 0; i < 3; i++ {
		if err := cb.Call(func() error { return nil }); err != nil {
			t.Fatalf("Probe %d failed: %v", i, err)
		}
	}

	if cb.GetState() != StateClosed {
		t.Errorf("Expected circuit closed after successful probes, got state %d", cb.GetState())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, 10*time.Millisecond)

	failing := func() error { return errors.New("boom") }
	cb.Call(failing)
	cb.Call(failing)

	time.Sleep(20 * time.Millisecond)

	cb.Call(failing)
	if cb.GetState() != StateOpen {
		t.Errorf("Expected failure in half-open to re-open circuit, got state %d", cb.GetState())
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, time.Minute)

	cb.Call(func() error { return errors.New("boom") })
	if cb.GetState() != StateOpen {
		t.Fatal("Expected circuit open")
	}

	cb.Reset()
	if cb.GetState() != StateClosed {
		t.Error("Expected circuit closed after Reset")
	}
}
