package coalesce

import (
	"time"

	"github.com/kode4food/debounce/executor"
	"github.com/kode4food/debounce/observer"
)

type (
	// Coalescer collapses requests that share a key and arrive within a
	// debounce window of one another into a single downstream call, and
	// replays that call's events to every contributing Observer
	Coalescer[Req, Res any] interface {
		// Submit adds a request to the batch accumulating for its key,
		// restarting the key's debounce window. A request without a Key
		// bypasses coalescing and is executed immediately. Each call to
		// Submit is an independent subscription, even when the same
		// Observer value is submitted more than once
		Submit(Request[Req], observer.Observer[Res]) observer.Subscription

		// Groups returns the number of keys that still have pending or
		// running work
		Groups() int
	}

	// Request is a single submission to a Coalescer
	Request[Req any] struct {
		// Key scopes which requests may be coalesced together. An empty
		// Key bypasses coalescing entirely
		Key string

		// Timeout overrides the configured debounce delay when positive
		Timeout time.Duration

		// Payload is forwarded downstream if it is the most recent
		// submission of its batch when the batch flushes
		Payload Req
	}

	// Reducer combines the payload accumulated so far for a batch with a
	// newly submitted one
	Reducer[Req any] func(prev, next Req) Req

	// KeySelector extracts a coalescing key from a payload
	KeySelector[Req any] func(Req) string

	// TimeoutSelector extracts a debounce timeout override from a payload
	TimeoutSelector[Req any] func(Req) time.Duration
)

// Replace is the default Reducer. The most recent payload wins
func Replace[Req any](_, next Req) Req {
	return next
}

// Executor adapts a Coalescer so that it can be composed wherever an
// Executor is expected. Keys and timeouts are derived from each payload.
// The timeout selector may be nil
func Executor[Req, Res any](
	c Coalescer[Req, Res], key KeySelector[Req], timeout TimeoutSelector[Req],
) executor.Executor[Req, Res] {
	return executor.Func[Req, Res](
		func(req Req, obs observer.Observer[Res]) observer.Subscription {
			r := Request[Req]{
				Key:     key(req),
				Payload: req,
			}
			if timeout != nil {
				r.Timeout = timeout(req)
			}
			return c.Submit(r, obs)
		},
	)
}
