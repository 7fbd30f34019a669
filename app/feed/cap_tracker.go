package feed

import "sync"

// UnboundedCap is the limit used for sources with no configured cap.
// An unconfigured source is never dropped, not capped at zero.
const UnboundedCap = 1_000_000_000

// CapTracker bounds how many items survive per originating source.
// Counts are guarded so fetch workers can admit items concurrently;
// the caps map is immutable after construction.
type CapTracker struct {
	caps map[string]int

	mu     sync.Mutex
	counts map[string]int
}

func NewCapTracker(maxPerSource map[string]int) *CapTracker {
	return &CapTracker{
		caps:   maxPerSource,
		counts: make(map[string]int),
	}
}

// Cap resolves the configured limit for a cap key.
func (t *CapTracker) Cap(key string) int {
	if limit, ok := t.caps[key]; ok {
		return limit
	}
	return UnboundedCap
}

// Allow admits the item and increments the source's count when the
// cap has room, in admission order. Whichever entries reach the
// tracker first for a source fill its cap.
func (t *CapTracker) Allow(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.counts[key] >= t.Cap(key) {
		return false
	}
	t.counts[key]++
	return true
}

// Count returns the running total admitted for a cap key.
func (t *CapTracker) Count(key string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[key]
}
