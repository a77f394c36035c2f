package protect

import (
	"errors"
	"testing"
)

// countingProtector records every OS-level call it would perform.
type countingProtector struct {
	calls []bool
	err   error
}

func (c *countingProtector) SetExcluded(excluded bool) error {
	if c.err != nil {
		return c.err
	}
	c.calls = append(c.calls, excluded)
	return nil
}

func TestGuardSkipsRedundantCalls(t *testing.T) {
	inner := &countingProtector{}
	g := NewGuard(inner)

	if err := g.SetExcluded(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.SetExcluded(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(inner.calls) != 1 {
		t.Fatalf("expected 1 OS call, got %d", len(inner.calls))
	}
	if !g.Excluded() {
		t.Fatal("expected guard to report excluded")
	}
}

func TestGuardAppliesEachTransition(t *testing.T) {
	inner := &countingProtector{}
	g := NewGuard(inner)

	for _, v := range []bool{true, false, true} {
		if err := g.SetExcluded(v); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(inner.calls) != 3 {
		t.Fatalf("expected 3 OS calls, got %d", len(inner.calls))
	}
	if inner.calls[0] != true || inner.calls[1] != false || inner.calls[2] != true {
		t.Fatalf("unexpected call sequence: %v", inner.calls)
	}
}

func TestGuardFirstCallAlwaysApplies(t *testing.T) {
	// Even if the requested value matches the zero value, the first call
	// must reach the OS: the window starts with no affinity applied.
	inner := &countingProtector{}
	g := NewGuard(inner)

	if err := g.SetExcluded(false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inner.calls) != 1 {
		t.Fatalf("expected 1 OS call, got %d", len(inner.calls))
	}
}

func TestGuardDoesNotRecordFailedCalls(t *testing.T) {
	inner := &countingProtector{err: errors.New("denied")}
	g := NewGuard(inner)

	if err := g.SetExcluded(true); err == nil {
		t.Fatal("expected error")
	}
	if g.Excluded() {
		t.Fatal("failed call must not update guard state")
	}

	// After the failure clears, the same value must be re-applied.
	inner.err = nil
	if err := g.SetExcluded(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inner.calls) != 1 {
		t.Fatalf("expected 1 OS call after recovery, got %d", len(inner.calls))
	}
}

func TestUnsupportedAlwaysSucceeds(t *testing.T) {
	u := NewUnsupported("x11")
	for i := 0; i < 3; i++ {
		if err := u.SetExcluded(i%2 == 0); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
}
