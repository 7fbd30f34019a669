package tasks

import (
	"sync"

	"github.com/g4dge/antifeed/app/feed"
)

// Collector is the append-only accumulator fetch tasks write
// surviving items into. Safe for concurrent use by workers.
type Collector struct {
	mu    sync.Mutex
	items []feed.Item
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Add(item feed.Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, item)
}

// Items returns a copy of everything collected so far.
func (c *Collector) Items() []feed.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]feed.Item, len(c.items))
	copy(out, c.items)
	return out
}
