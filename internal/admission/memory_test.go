package admission

import (
	"context"
	"testing"
	"time"
)

func TestMemoryGateCooldown(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	gate := NewMemoryGate(30 * time.Second)
	gate.now = func() time.Time { return now }

	ctx := context.Background()
	const user = int64(42)

	if !gate.TryAdmit(ctx, user) {
		t.Fatal("first attempt should be admitted")
	}
	if gate.TryAdmit(ctx, user) {
		t.Error("second attempt within cool-down should be busy")
	}

	// One second before expiry: still busy.
	now = now.Add(29 * time.Second)
	if gate.TryAdmit(ctx, user) {
		t.Error("attempt 29s in should still be busy")
	}

	// Window elapsed: admitted again.
	now = now.Add(2 * time.Second)
	if !gate.TryAdmit(ctx, user) {
		t.Error("attempt after cool-down should be admitted")
	}
}

func TestMemoryGateIsolatesUsers(t *testing.T) {
	gate := NewMemoryGate(30 * time.Second)
	ctx := context.Background()

	if !gate.TryAdmit(ctx, 1) {
		t.Fatal("user 1 should be admitted")
	}
	if !gate.TryAdmit(ctx, 2) {
		t.Error("user 2 must not be throttled by user 1's cool-down")
	}
}
