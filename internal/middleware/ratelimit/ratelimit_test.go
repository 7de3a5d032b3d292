package ratelimit

import (
	"testing"
	"time"
)

func TestAllowWithinLimit(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 3, WindowDuration: time.Minute})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.allow("client-a") {
			t.Fatalf("request %d denied, want allowed", i+1)
		}
	}

	if rl.allow("client-a") {
		t.Error("request over limit allowed, want denied")
	}
}

func TestAllowIsolatesKeys(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 1, WindowDuration: time.Minute})
	defer rl.Stop()

	if !rl.allow("client-a") {
		t.Fatal("first request for client-a denied")
	}
	if !rl.allow("client-b") {
		t.Error("first request for client-b denied, keys should be independent")
	}
}

func TestWindowReset(t *testing.T) {
	rl := New(Config{MaxRequestsPerMinute: 1, WindowDuration: 10 * time.Millisecond})
	defer rl.Stop()

	if !rl.allow("client-a") {
		t.Fatal("first request denied")
	}
	if rl.allow("client-a") {
		t.Fatal("second request in window allowed, want denied")
	}

	time.Sleep(20 * time.Millisecond)

	if !rl.allow("client-a") {
		t.Error("request after window reset denied, want allowed")
	}
}
