package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinBudget(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("Fourth request should be rejected")
	}
}

func TestRateLimiterTracksClientsSeparately(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.Allow("10.0.0.1") {
		t.Error("First client's request should be allowed")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("Second client's request should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("First client's second request should be rejected")
	}
}

func TestServiceAvailabilityMaintenanceToggle(t *testing.T) {
	sa := NewServiceAvailability(0)

	if sa.IsMaintenanceMode() {
		t.Error("Expected maintenance mode off by default")
	}

	sa.SetMaintenanceMode(true)
	if !sa.IsMaintenanceMode() {
		t.Error("Expected maintenance mode on after toggle")
	}

	sa.SetMaintenanceMode(false)
	if sa.IsMaintenanceMode() {
		t.Error("Expected maintenance mode off after reset")
	}
}
