package executor

import "github.com/kode4food/debounce/observer"

type (
	// Executor performs a request downstream. Execute begins the call and
	// returns immediately. Events of the call are pushed to the provided
	// Observer: zero or more data events, followed by exactly one error or
	// completion. Cancelling the returned Subscription before the call
	// terminates stops any further events
	Executor[Req, Res any] interface {
		Execute(Req, observer.Observer[Res]) observer.Subscription
	}

	// Func adapts a plain function into an Executor
	Func[Req, Res any] func(Req, observer.Observer[Res]) observer.Subscription
)

// Execute calls the underlying function
func (fn Func[Req, Res]) Execute(
	req Req, obs observer.Observer[Res],
) observer.Subscription {
	return fn(req, obs)
}
