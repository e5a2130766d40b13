package coge

import "time"

// Clock supplies engine time. Now is monotonic time since the clock started.
type Clock interface {
	Now() time.Duration
	Sleep(d time.Duration)
}

// SystemClock reads the wall clock.
type SystemClock struct {
	start time.Time
}

// NewSystemClock creates a clock starting at zero now.
func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

// Now returns the time elapsed since NewSystemClock.
func (c *SystemClock) Now() time.Duration { return time.Since(c.start) }

// Sleep pauses the calling goroutine.
func (c *SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// ManualClock is a deterministic clock for tests and headless replays. Sleep
// advances it instead of blocking.
type ManualClock struct {
	now time.Duration
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Duration { return c.now }

// Sleep advances the clock by d.
func (c *ManualClock) Sleep(d time.Duration) { c.now += d }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.now += d }
