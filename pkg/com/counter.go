package com

import (
	"sync"
	"sync/atomic"
)

// Counter counts events between periodic log flushes while keeping a
// running total across resets. Safe for concurrent use.
type Counter struct {
	value uint64
	mu    sync.Mutex // Protects total.
	total uint64
}

// Add adds delta to the current window.
func (c *Counter) Add(delta uint64) {
	atomic.AddUint64(&c.value, delta)
}

// Inc increments the counter by one.
func (c *Counter) Inc() {
	c.Add(1)
}

// Reset returns the count since the previous reset and starts a new window.
// The running total is unaffected.
func (c *Counter) Reset() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := atomic.SwapUint64(&c.value, 0)
	c.total += v

	return v
}

// Total returns the overall count, the current window included.
func (c *Counter) Total() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.total + atomic.LoadUint64(&c.value)
}
