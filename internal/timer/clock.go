package timer

import (
	"sync"
	"time"
)

// Clock delivers ticks to a single callback until cancelled.
// OnTick replaces any previously registered callback.
type Clock interface {
	OnTick(fn func())
	Cancel()
}

// TickerClock ticks from a background goroutine driven by time.Ticker.
type TickerClock struct {
	mu       sync.Mutex
	interval time.Duration
	stopCh   chan struct{}
}

// NewTickerClock creates a clock ticking every interval (one second if zero).
func NewTickerClock(interval time.Duration) *TickerClock {
	if interval <= 0 {
		interval = time.Second
	}
	return &TickerClock{interval: interval}
}

// OnTick starts delivering ticks to fn.
func (c *TickerClock) OnTick(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	stopCh := make(chan struct{})
	c.stopCh = stopCh

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				// Cancel may race with a ready ticker; stop wins.
				select {
				case <-stopCh:
					return
				default:
				}
				fn()
			}
		}
	}()
}

// Cancel stops tick delivery. Safe to call when idle.
func (c *TickerClock) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

func (c *TickerClock) cancelLocked() {
	if c.stopCh != nil {
		close(c.stopCh)
		c.stopCh = nil
	}
}

// ManualClock is a deterministic Clock advanced explicitly by the caller.
type ManualClock struct {
	mu      sync.Mutex
	fn      func()
	starts  int
	cancels int
}

// NewManualClock creates an idle manual clock.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// OnTick registers fn as the tick target.
func (c *ManualClock) OnTick(fn func()) {
	c.mu.Lock()
	c.fn = fn
	c.starts++
	c.mu.Unlock()
}

// Cancel drops the registered callback.
func (c *ManualClock) Cancel() {
	c.mu.Lock()
	c.fn = nil
	c.cancels++
	c.mu.Unlock()
}

// Tick delivers one tick. It reports false when nothing is registered.
func (c *ManualClock) Tick() bool {
	c.mu.Lock()
	fn := c.fn
	c.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Advance delivers up to n ticks and returns how many were delivered.
func (c *ManualClock) Advance(n int) int {
	delivered := 0
	for i := 0; i < n; i++ {
		if !c.Tick() {
			break
		}
		delivered++
	}
	return delivered
}

// Pending returns the registered callback, or nil. Holding on to it and
// calling it later simulates a tick that was already in flight.
func (c *ManualClock) Pending() func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fn
}

// Active reports whether a callback is registered.
func (c *ManualClock) Active() bool {
	return c.Pending() != nil
}

// Starts returns how many times OnTick was called.
func (c *ManualClock) Starts() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.starts
}
