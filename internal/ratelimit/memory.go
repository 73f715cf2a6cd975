package ratelimit

import (
	"context"
	"hash/maphash"
	"sync"
	"time"
)

const shardCount = 64

type window struct {
	count   int
	resetAt time.Time
}

type shard struct {
	mu      sync.Mutex
	windows map[string]window
}

// MemoryLimiter keeps fixed-window counters in process. Keys are spread
// over shards so unrelated clients rarely contend for one mutex.
//
// Closed windows stay in memory until [MemoryLimiter.Sweep] removes them.
type MemoryLimiter struct {
	shards [shardCount]*shard
	seed   maphash.Seed
	now    func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	l := &MemoryLimiter{
		seed: maphash.MakeSeed(),
		now:  time.Now,
	}
	for i := range l.shards {
		l.shards[i] = &shard{windows: make(map[string]window)}
	}
	return l
}

func (l *MemoryLimiter) Check(ctx context.Context, key string, policy Policy) (Decision, error) {
	if !policy.valid() {
		return Decision{}, ErrInvalidPolicy
	}
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	now := l.now()
	k := counterKey(policy, key)
	s := l.shardFor(k)

	s.mu.Lock()
	w, ok := s.windows[k]
	if !ok || !now.Before(w.resetAt) {
		w = window{resetAt: now.Add(policy.Window)}
	}
	w.count++
	s.windows[k] = w
	s.mu.Unlock()

	return decide(policy, w.count, now, w.resetAt), nil
}

// Sweep drops every window closed at now and returns how many were dropped.
func (l *MemoryLimiter) Sweep(now time.Time) int {
	removed := 0
	for _, s := range l.shards {
		s.mu.Lock()
		for k, w := range s.windows {
			if !now.Before(w.resetAt) {
				delete(s.windows, k)
				removed++
			}
		}
		s.mu.Unlock()
	}
	return removed
}

// Len returns the number of tracked windows.
func (l *MemoryLimiter) Len() int {
	n := 0
	for _, s := range l.shards {
		s.mu.Lock()
		n += len(s.windows)
		s.mu.Unlock()
	}
	return n
}

func (l *MemoryLimiter) shardFor(key string) *shard {
	return l.shards[maphash.String(l.seed, key)%shardCount]
}
