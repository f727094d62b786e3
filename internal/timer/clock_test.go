package timer

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickerClock_TicksUntilCancelled(t *testing.T) {
	clock := NewTickerClock(5 * time.Millisecond)
	var ticks atomic.Int32

	clock.OnTick(func() { ticks.Add(1) })
	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)

	clock.Cancel()
	// Let a tick that was mid-delivery finish.
	time.Sleep(20 * time.Millisecond)
	settled := ticks.Load()
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, settled, ticks.Load())
}

func TestTickerClock_OnTickReplacesCallback(t *testing.T) {
	clock := NewTickerClock(5 * time.Millisecond)
	defer clock.Cancel()
	var first, second atomic.Int32

	clock.OnTick(func() { first.Add(1) })
	clock.OnTick(func() { second.Add(1) })
	time.Sleep(20 * time.Millisecond)
	settled := first.Load()

	assert.Eventually(t, func() bool { return second.Load() >= 2 }, time.Second, time.Millisecond)
	assert.Equal(t, settled, first.Load())
}

func TestTickerClock_CancelIdle(t *testing.T) {
	clock := NewTickerClock(0)
	assert.NotPanics(t, func() {
		clock.Cancel()
		clock.Cancel()
	})
}

func TestManualClock(t *testing.T) {
	clock := NewManualClock()
	assert.False(t, clock.Tick())

	n := 0
	clock.OnTick(func() { n++ })
	assert.Equal(t, 3, clock.Advance(3))
	assert.Equal(t, 3, n)

	clock.Cancel()
	assert.Equal(t, 0, clock.Advance(3))
	assert.False(t, clock.Active())
}
