package memoize

import (
	"testing"
	"time"
)

// fakeClock drives TTL decisions deterministically; cells read it through
// their now field.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func TestTTLCellExpiry(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	m := NewTTL(countingAdd(&calls), 100*time.Millisecond)
	m.now = clock.Now

	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected first call to compute, calls=%d", calls)
	}

	clock.Advance(10 * time.Millisecond)
	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected hit inside window, calls=%d", calls)
	}

	clock.Advance(100 * time.Millisecond)
	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected recompute after expiry, calls=%d", calls)
	}

	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected hit right after recompute, calls=%d", calls)
	}
}

func TestTTLExpiryIgnoresArgumentMatch(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	m := NewTTL(countingAdd(&calls), 50*time.Millisecond)
	m.now = clock.Now

	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	clock.Advance(50 * time.Millisecond)
	// Boundary: elapsed == ttl is already a miss.
	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected identical args to miss after expiry, calls=%d", calls)
	}
}

func TestTTLHitsDoNotExtendWindow(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	m := NewTTL(countingAdd(&calls), 100*time.Millisecond)
	m.now = clock.Now

	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	clock.Advance(60 * time.Millisecond)
	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected hit at 60ms, calls=%d", calls)
	}

	// 110ms after the computation, 50ms after the last hit: expired, because
	// the window runs from the computation, not the last hit.
	clock.Advance(50 * time.Millisecond)
	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected sliding-miss expiry, calls=%d", calls)
	}
}

func TestTTLCellsExpireIndependently(t *testing.T) {
	clock := newFakeClock()
	shortCalls, longCalls := 0, 0
	short := NewTTL(countingAdd(&shortCalls), 50*time.Millisecond)
	long := NewTTL(countingAdd(&longCalls), 200*time.Millisecond)
	short.now = clock.Now
	long.now = clock.Now

	if _, err := short.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if _, err := long.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}

	clock.Advance(75 * time.Millisecond)
	if _, err := short.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if _, err := long.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if shortCalls != 2 || longCalls != 1 {
		t.Fatalf("expected only short window to expire at 75ms: short=%d long=%d", shortCalls, longCalls)
	}

	clock.Advance(150 * time.Millisecond)
	if _, err := short.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if _, err := long.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if shortCalls != 3 || longCalls != 2 {
		t.Fatalf("expected both windows expired at 225ms: short=%d long=%d", shortCalls, longCalls)
	}
}

func TestTTLInvalidateClearsTimestamp(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	m := NewTTL(countingAdd(&calls), time.Hour)
	m.now = clock.Now

	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	m.Invalidate()
	if !m.computedAt.IsZero() {
		t.Fatalf("expected invalidate to clear computedAt")
	}
	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected recompute after invalidate, calls=%d", calls)
	}
}

func TestTTLZeroWindowAlwaysRecomputes(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	m := NewTTL(countingAdd(&calls), 0)
	m.now = clock.Now

	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected zero-width window to always miss, calls=%d", calls)
	}
}

func TestWithTTLOptionMatchesNewTTL(t *testing.T) {
	clock := newFakeClock()
	calls := 0
	m := New(countingAdd(&calls), WithTTL(50*time.Millisecond))
	m.now = clock.Now

	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	clock.Advance(75 * time.Millisecond)
	if _, err := m.Call(1, 2); err != nil {
		t.Fatalf("call failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected option-configured window to expire, calls=%d", calls)
	}
}
