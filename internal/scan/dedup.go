// Package scan turns a stream of decoded tokens into attendance transitions.
package scan

import (
	"sync"
	"time"
)

// Decision is the verdict of the Deduplicator on one observation.
type Decision int

const (
	Admit Decision = iota + 1
	Suppress
)

func (d Decision) String() string {
	if d == Admit {
		return "admit"
	}
	return "suppress"
}

// Deduplicator suppresses a token seen again within window of its last
// admission. It is independent of the engine's own idempotency: it only
// keeps a badge held in front of the camera from flooding the engine.
type Deduplicator struct {
	mu     sync.Mutex
	window time.Duration
	seen   map[string]time.Time
}

func NewDeduplicator(window time.Duration) *Deduplicator {
	return &Deduplicator{
		window: window,
		seen:   make(map[string]time.Time),
	}
}

func (d *Deduplicator) Observe(token string, now time.Time) Decision {
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.seen[token]; ok && now.Sub(last) < d.window {
		return Suppress
	}
	d.seen[token] = now
	return Admit
}

// Evict drops tokens whose window has passed and returns how many it
// removed. Evicted tokens would be admitted anyway, so eviction never
// changes a decision.
func (d *Deduplicator) Evict(now time.Time) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for token, last := range d.seen {
		if now.Sub(last) >= d.window {
			delete(d.seen, token)
			n++
		}
	}
	return n
}

func (d *Deduplicator) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
