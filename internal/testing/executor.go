package testing

import (
	"sync"

	"github.com/kode4food/debounce/observer"
)

type (
	// Executor is a simulated downstream Executor. It records every call
	// it receives and leaves each one open until the test drives it with
	// Data, Fail, or Complete. If Respond is set, calls are instead
	// answered synchronously from within Execute
	Executor[Req, Res any] struct {
		Respond func(Req) ([]Res, error)

		mu    sync.Mutex
		calls []*Call[Req, Res]
	}

	// Call is a single call received by the simulated Executor
	Call[Req, Res any] struct {
		Payload Req

		obs  observer.Observer[Res]
		sub  observer.Subscription
		mu   sync.Mutex
		done bool
	}
)

// NewExecutor returns a simulated Executor with no canned responses
func NewExecutor[Req, Res any]() *Executor[Req, Res] {
	return &Executor[Req, Res]{}
}

// Execute records the call and, if Respond is set, answers it immediately
func (e *Executor[Req, Res]) Execute(
	req Req, obs observer.Observer[Res],
) observer.Subscription {
	c := &Call[Req, Res]{
		Payload: req,
		obs:     obs,
	}
	c.sub = observer.NewSubscription(nil)

	e.mu.Lock()
	e.calls = append(e.calls, c)
	respond := e.Respond
	e.mu.Unlock()

	if respond != nil {
		res, err := respond(req)
		for _, r := range res {
			c.Data(r)
		}
		if err != nil {
			c.Fail(err)
		} else {
			c.Complete()
		}
	}
	return c.sub
}

// Calls returns every call received so far, in order
func (e *Executor[Req, Res]) Calls() []*Call[Req, Res] {
	e.mu.Lock()
	defer e.mu.Unlock()
	res := make([]*Call[Req, Res], len(e.calls))
	copy(res, e.calls)
	return res
}

// Payloads returns the payload of every call received so far, in order
func (e *Executor[Req, _]) Payloads() []Req {
	e.mu.Lock()
	defer e.mu.Unlock()
	res := make([]Req, len(e.calls))
	for i, c := range e.calls {
		res[i] = c.Payload
	}
	return res
}

// Last returns the most recently received call
func (e *Executor[Req, Res]) Last() *Call[Req, Res] {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.calls) == 0 {
		return nil
	}
	return e.calls[len(e.calls)-1]
}

// Data emits a data event, unless the call has terminated or was cancelled
func (c *Call[_, Res]) Data(r Res) {
	if !c.live(false) {
		return
	}
	c.obs.Data(r)
}

// Fail emits a terminal error
func (c *Call[_, _]) Fail(err error) {
	if !c.live(true) {
		return
	}
	c.obs.Error(err)
}

// Complete emits terminal completion
func (c *Call[_, _]) Complete() {
	if !c.live(true) {
		return
	}
	c.obs.Complete()
}

// IsCancelled returns whether the caller cancelled this call
func (c *Call[_, _]) IsCancelled() bool {
	return observer.IsCancelled(c.sub)
}

// IsDone returns whether this call has emitted its terminal event
func (c *Call[_, _]) IsDone() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

func (c *Call[_, _]) live(terminal bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done || observer.IsCancelled(c.sub) {
		return false
	}
	if terminal {
		c.done = true
	}
	return true
}
