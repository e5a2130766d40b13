package coge

import "time"

// timer is a repeating interval timer driven by engine time.
type timer struct {
	interval time.Duration
	last     time.Duration
	enabled  bool
}

func (t *timer) start(interval, now time.Duration) {
	if interval <= 0 {
		t.stop()
		return
	}
	t.interval = interval
	t.last = now
	t.enabled = true
}

func (t *timer) stop() {
	t.enabled = false
}

// due reports whether the interval elapsed since the last firing and, if so,
// restarts it from now.
func (t *timer) due(now time.Duration) bool {
	if !t.enabled || now-t.last < t.interval {
		return false
	}
	t.last = now
	return true
}
