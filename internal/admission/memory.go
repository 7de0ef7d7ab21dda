package admission

import (
	"context"
	"sync"
	"time"
)

// MemoryGate enforces the cool-down in-process. Used when no external store
// is configured; the contract matches Store for a single bot process.
type MemoryGate struct {
	mu       sync.Mutex
	cooldown time.Duration
	expiry   map[int64]time.Time
	now      func() time.Time
}

func NewMemoryGate(cooldown time.Duration) *MemoryGate {
	return &MemoryGate{
		cooldown: cooldown,
		expiry:   make(map[int64]time.Time),
		now:      time.Now,
	}
}

func (g *MemoryGate) TryAdmit(_ context.Context, userID int64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if until, busy := g.expiry[userID]; busy && now.Before(until) {
		return false
	}
	g.expiry[userID] = now.Add(g.cooldown)
	return true
}
