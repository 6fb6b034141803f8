package keeper

import "sync"

// FeeCell holds the latest priority fee estimate in micro-lamports per compute unit.
// The lock is held only for the copy, never across I/O.
type FeeCell struct {
	mu    sync.Mutex
	value uint64
}

func (c *FeeCell) Load() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

func (c *FeeCell) Store(v uint64) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
}
