package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

func TestExecute_ClosedOnSuccess(t *testing.T) {
	cb := New(3, time.Second)

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Errorf("Execute() error = %v, want nil", err)
	}
	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want StateClosed", cb.State())
	}
}

func TestExecute_OpensAfterMaxFailures(t *testing.T) {
	cb := New(3, time.Minute)
	failing := func() error { return errors.New("boom") }

	for i := 0; i < 3; i++ {
		if err := cb.Execute(failing); err == nil {
			t.Fatal("expected failure")
		}
	}

	if cb.State() != StateOpen {
		t.Fatalf("State() = %v, want StateOpen", cb.State())
	}

	if err := cb.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Execute() on open circuit = %v, want ErrCircuitOpen", err)
	}
}

func TestExecute_SuccessResetsFailureCount(t *testing.T) {
	cb := New(3, time.Minute)
	failing := func() error { return errors.New("boom") }

	cb.Execute(failing)
	cb.Execute(failing)
	cb.Execute(func() error { return nil })
	cb.Execute(failing)
	cb.Execute(failing)

	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want StateClosed after interleaved success", cb.State())
	}
}

func TestExecute_HalfOpenRecovery(t *testing.T) {
	cb := New(1, 10*time.Millisecond)

	cb.Execute(func() error { return errors.New("boom") })
	if cb.State() != StateOpen {
		t.Fatalf("State() = %v, want StateOpen", cb.State())
	}

	time.Sleep(20 * time.Millisecond)

	for i := 0; i < halfOpenSuccesses; i++ {
		if err := cb.Execute(func() error { return nil }); err != nil {
			t.Fatalf("Execute() during recovery = %v", err)
		}
	}

	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want StateClosed after recovery", cb.State())
	}
}
