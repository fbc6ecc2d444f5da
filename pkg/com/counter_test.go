package com

import (
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
)

func TestCounter(t *testing.T) {
	var c Counter

	c.Inc()
	c.Add(2)
	require.Equal(t, uint64(3), c.Total())

	require.Equal(t, uint64(3), c.Reset())
	require.Equal(t, uint64(0), c.Reset(), "a reset starts an empty window")
	require.Equal(t, uint64(3), c.Total(), "resets must not erase the total")

	c.Inc()
	require.Equal(t, uint64(4), c.Total(), "the current window counts into the total")
}

func TestCounterConcurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, uint64(8000), c.Total())
}
