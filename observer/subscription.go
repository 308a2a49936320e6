package observer

import "sync"

type (
	// Subscription is the handle returned to a caller whose Observer has
	// been attached to an event stream. Cancel detaches the Observer.
	// Only the first call to Cancel has any effect
	Subscription interface {
		Cancel()
		Done() <-chan struct{}
	}

	subscription struct {
		once     sync.Once
		done     chan struct{}
		onCancel func()
	}
)

// NewSubscription returns a Subscription that invokes onCancel the first
// time it is cancelled. onCancel may be nil
func NewSubscription(onCancel func()) Subscription {
	return &subscription{
		done:     make(chan struct{}),
		onCancel: onCancel,
	}
}

func (s *subscription) Cancel() {
	s.once.Do(func() {
		close(s.done)
		if s.onCancel != nil {
			s.onCancel()
		}
	})
}

func (s *subscription) Done() <-chan struct{} {
	return s.done
}

// IsCancelled returns whether the provided Subscription has been cancelled
func IsCancelled(s Subscription) bool {
	select {
	case <-s.Done():
		return true
	default:
		return false
	}
}
