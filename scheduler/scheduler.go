package scheduler

import (
	"sync"
	"time"
)

type (
	// Scheduler holds at most one deferred action per key. Schedule
	// replaces any action previously scheduled for the key, and the delay
	// is always relative to the time of scheduling. Cancel is a no-op if
	// nothing is scheduled for the key
	Scheduler interface {
		Schedule(key string, d time.Duration, action func())
		Cancel(key string)
	}

	// Timer is a Scheduler backed by the runtime's timers. Actions are
	// performed on their own goroutine
	Timer struct {
		mu     sync.Mutex
		timers map[string]*time.Timer
	}
)

// NewTimer returns a new real-time Scheduler
func NewTimer() *Timer {
	return &Timer{
		timers: map[string]*time.Timer{},
	}
}

// Schedule arranges for action to be performed after d has elapsed
func (t *Timer) Schedule(key string, d time.Duration, action func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if old, ok := t.timers[key]; ok {
		old.Stop()
	}
	var tm *time.Timer
	tm = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.timers[key] != tm {
			t.mu.Unlock()
			return
		}
		delete(t.timers, key)
		t.mu.Unlock()
		action()
	})
	t.timers[key] = tm
}

// Cancel stops the action scheduled for key, if any
func (t *Timer) Cancel(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tm, ok := t.timers[key]; ok {
		tm.Stop()
		delete(t.timers, key)
	}
}

// Pending returns the number of keys with a scheduled action
func (t *Timer) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}
