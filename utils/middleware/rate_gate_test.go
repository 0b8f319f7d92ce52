package middleware

import (
	"testing"
	"time"
)

func TestRateGateAdmitWithinLimit(t *testing.T) {
	gate := NewRateGate(RateGateConfig{MaxRequests: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		if !gate.Admit("10.0.0.1") {
			t.Fatalf("request %d should have been admitted", i+1)
		}
	}

	if gate.Admit("10.0.0.1") {
		t.Error("fourth request inside the window should be denied")
	}
}

func TestRateGateWindowSlides(t *testing.T) {
	gate := NewRateGate(RateGateConfig{MaxRequests: 3, Window: time.Minute})

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	gate.now = func() time.Time { return current }

	for i := 0; i < 3; i++ {
		if !gate.Admit("client") {
			t.Fatalf("request %d should have been admitted", i+1)
		}
	}
	if gate.Admit("client") {
		t.Fatal("request over the limit should be denied")
	}

	// Denied attempts do not consume quota; once the window slides past
	// the earlier timestamps, admissions resume.
	current = current.Add(61 * time.Second)
	if !gate.Admit("client") {
		t.Error("request after the window elapsed should be admitted")
	}
}

func TestRateGatePartialWindowSlide(t *testing.T) {
	gate := NewRateGate(RateGateConfig{MaxRequests: 2, Window: time.Minute})

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	gate.now = func() time.Time { return current }

	gate.Admit("client")

	current = current.Add(40 * time.Second)
	gate.Admit("client")

	if gate.Admit("client") {
		t.Fatal("third request with both timestamps in window should be denied")
	}

	// 25s later the first timestamp (65s old) has aged out, the second
	// (25s old) has not.
	current = current.Add(25 * time.Second)
	if !gate.Admit("client") {
		t.Error("request should be admitted after the oldest timestamp aged out")
	}
	if gate.Admit("client") {
		t.Error("window is full again, request should be denied")
	}
}

func TestRateGateEvictsIdleClients(t *testing.T) {
	gate := NewRateGate(RateGateConfig{MaxRequests: 5, Window: time.Minute})

	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	gate.now = func() time.Time { return current }

	gate.Admit("a")
	gate.Admit("b")

	gate.mu.Lock()
	tracked := len(gate.windows)
	gate.mu.Unlock()
	if tracked != 2 {
		t.Fatalf("expected 2 tracked clients, got %d", tracked)
	}

	// Two windows later a and b are idle; the next admission sweeps them out
	current = current.Add(2 * time.Minute)
	gate.Admit("c")

	gate.mu.Lock()
	defer gate.mu.Unlock()
	if len(gate.windows) != 1 {
		t.Errorf("expected idle clients to be evicted, still tracking %d", len(gate.windows))
	}
	if _, ok := gate.windows["c"]; !ok {
		t.Error("active client should remain tracked")
	}
}

func TestRateGateIsolatesClients(t *testing.T) {
	gate := NewRateGate(RateGateConfig{MaxRequests: 1, Window: time.Minute})

	if !gate.Admit("a") {
		t.Fatal("first request for client a should be admitted")
	}
	if gate.Admit("a") {
		t.Error("second request for client a should be denied")
	}
	if !gate.Admit("b") {
		t.Error("client b has its own window and should be admitted")
	}
}
