package executor

import (
	"errors"
	"sync"
	"time"

	"github.com/kode4food/debounce/observer"
)

type retrying[Req, Res any] struct {
	exec    Executor[Req, Res]
	req     Req
	obs     observer.Observer[Res]
	max     int
	backoff time.Duration

	mu        sync.Mutex
	attempts  int
	emitted   bool
	cancelled bool
	current   observer.Subscription
	timer     *time.Timer
}

const backoffMultiplier = 2

var (
	ErrInvalidAttempts = errors.New("max attempts must be at least one")
)

// Retry wraps an Executor so that a failed call is executed again with
// exponential backoff, up until maxAttempts calls have been made. A call is
// only retried if it failed before delivering any data. Otherwise, or once
// attempts are exhausted, the last error is delivered to the Observer
func Retry[Req, Res any](
	e Executor[Req, Res], maxAttempts int, initialBackoff time.Duration,
) (Executor[Req, Res], error) {
	if maxAttempts < 1 {
		return nil, ErrInvalidAttempts
	}
	return Func[Req, Res](
		func(req Req, obs observer.Observer[Res]) observer.Subscription {
			r := &retrying[Req, Res]{
				exec:    e,
				req:     req,
				obs:     obs,
				max:     maxAttempts,
				backoff: initialBackoff,
			}
			sub := observer.NewSubscription(r.stop)
			r.attempt()
			return sub
		},
	), nil
}

func (r *retrying[Req, Res]) attempt() {
	r.mu.Lock()
	if r.cancelled {
		r.mu.Unlock()
		return
	}
	n := r.attempts
	r.mu.Unlock()

	s := r.exec.Execute(r.req, observer.Observer[Res]{
		OnData:     r.data,
		OnError:    r.fail,
		OnComplete: r.complete,
	})

	r.mu.Lock()
	if r.cancelled {
		r.mu.Unlock()
		s.Cancel()
		return
	}
	if r.attempts == n {
		r.current = s
	}
	r.mu.Unlock()
}

func (r *retrying[_, Res]) data(res Res) {
	r.mu.Lock()
	if r.cancelled {
		r.mu.Unlock()
		return
	}
	r.emitted = true
	r.mu.Unlock()
	r.obs.Data(res)
}

func (r *retrying[_, _]) fail(err error) {
	r.mu.Lock()
	if r.cancelled {
		r.mu.Unlock()
		return
	}
	r.attempts++
	if r.emitted || r.attempts >= r.max {
		r.mu.Unlock()
		r.obs.Error(err)
		return
	}
	delay := r.backoff
	r.backoff *= backoffMultiplier
	r.current = nil
	r.timer = time.AfterFunc(delay, r.attempt)
	r.mu.Unlock()
}

func (r *retrying[_, _]) complete() {
	r.mu.Lock()
	if r.cancelled {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	r.obs.Complete()
}

func (r *retrying[_, _]) stop() {
	r.mu.Lock()
	r.cancelled = true
	cur := r.current
	if r.timer != nil {
		r.timer.Stop()
	}
	r.mu.Unlock()
	if cur != nil {
		cur.Cancel()
	}
}
