package ratelimit

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestAllow_BurstThenBlock(t *testing.T) {
	rl := New(1, 3)
	defer rl.Stop()

	// The burst covers the first three requests from one client.
	for i := 0; i < 3; i++ {
		if !rl.Allow("203.0.113.7") {
			t.Fatalf("request %d within burst should pass", i+1)
		}
	}
	if rl.Allow("203.0.113.7") {
		t.Error("request beyond burst should be blocked")
	}
}

func TestAllow_ClientsAreIsolated(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	// One client exhausting its bucket must not starve another.
	if !rl.Allow("203.0.113.7") {
		t.Fatal("first client should pass")
	}
	if rl.Allow("203.0.113.7") {
		t.Error("first client should be exhausted")
	}
	if !rl.Allow("198.51.100.23") {
		t.Error("second client should have its own bucket")
	}
}

func TestAllow_ManyClients(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	for i := 0; i < 50; i++ {
		key := fmt.Sprintf("10.0.0.%d", i)
		if !rl.Allow(key) {
			t.Fatalf("fresh client %s should pass", key)
		}
	}
}

func TestWait_RefillsAtConfiguredRate(t *testing.T) {
	rl := New(10, 1)
	defer rl.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "203.0.113.7"); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	// The bucket is empty now; the second request waits one refill
	// interval, 100ms at 10 rps.
	start := time.Now()
	if err := rl.Wait(ctx, "203.0.113.7"); err != nil {
		t.Fatalf("second Wait: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond || elapsed > 200*time.Millisecond {
		t.Errorf("second Wait took %v, want about 100ms", elapsed)
	}
}

func TestWait_HonorsContext(t *testing.T) {
	rl := New(0.1, 1)
	defer rl.Stop()

	rl.Allow("203.0.113.7")

	// At 0.1 rps the next token is ten seconds out; the context expires
	// long before that.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "203.0.113.7"); err == nil {
		t.Error("Wait should fail once the context deadline passes")
	}
}
