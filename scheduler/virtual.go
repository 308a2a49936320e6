package scheduler

import (
	"sync"
	"time"
)

type (
	// Virtual is a Scheduler driven by a virtual clock. Nothing happens
	// until Advance is called, at which point due actions are performed
	// synchronously on the calling goroutine in deadline order
	Virtual struct {
		mu      sync.Mutex
		now     time.Duration
		seq     uint64
		pending map[string]*virtualEntry
	}

	virtualEntry struct {
		due    time.Duration
		seq    uint64
		action func()
	}
)

// NewVirtual returns a new Virtual Scheduler whose clock starts at zero
func NewVirtual() *Virtual {
	return &Virtual{
		pending: map[string]*virtualEntry{},
	}
}

// Schedule arranges for action to be performed once the virtual clock has
// advanced by d
func (v *Virtual) Schedule(key string, d time.Duration, action func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	v.pending[key] = &virtualEntry{
		due:    v.now + d,
		seq:    v.seq,
		action: action,
	}
}

// Cancel discards the action scheduled for key, if any
func (v *Virtual) Cancel(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.pending, key)
}

// Advance moves the virtual clock forward by d, performing every action
// that comes due along the way, including those scheduled by the actions
// themselves
func (v *Virtual) Advance(d time.Duration) {
	v.mu.Lock()
	target := v.now + d
	v.mu.Unlock()

	for {
		v.mu.Lock()
		key, e := v.next(target)
		if e == nil {
			v.now = target
			v.mu.Unlock()
			return
		}
		v.now = e.due
		delete(v.pending, key)
		v.mu.Unlock()
		e.action()
	}
}

// Now returns how far the virtual clock has advanced
func (v *Virtual) Now() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Pending returns the number of keys with a scheduled action
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.pending)
}

// IsScheduled returns whether an action is scheduled for key
func (v *Virtual) IsScheduled(key string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.pending[key]
	return ok
}

func (v *Virtual) next(target time.Duration) (string, *virtualEntry) {
	var key string
	var res *virtualEntry
	for k, e := range v.pending {
		if e.due > target {
			continue
		}
		if res == nil || e.due < res.due ||
			(e.due == res.due && e.seq < res.seq) {
			key, res = k, e
		}
	}
	return key, res
}
