package coalesce

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kode4food/debounce/coalesce"
	"github.com/kode4food/debounce/config"
	"github.com/kode4food/debounce/executor"
	"github.com/kode4food/debounce/internal/group"
	"github.com/kode4food/debounce/metrics"
	"github.com/kode4food/debounce/observer"
	"github.com/kode4food/debounce/scheduler"
)

// Coalescer is the internal implementation of a Coalescer. All Group state
// is guarded by a single mutex. Observers, and the downstream Executor, are
// only ever called with the mutex released
type Coalescer[Req, Res any] struct {
	exec    executor.Executor[Req, Res]
	merge   coalesce.Reducer[Req]
	delay   time.Duration
	sched   scheduler.Scheduler
	log     *slog.Logger
	metrics metrics.Collector

	mu     sync.Mutex
	groups *group.Store[Req, Res]
}

// Compile-time assertion that Coalescer implements coalesce.Coalescer
var _ coalesce.Coalescer[any, any] = (*Coalescer[any, any])(nil)

// Make instantiates a new internal Coalescer. The Config must be complete
func Make[Req, Res any](
	exec executor.Executor[Req, Res], merge coalesce.Reducer[Req],
	cfg *config.Config,
) *Coalescer[Req, Res] {
	return &Coalescer[Req, Res]{
		exec:    exec,
		merge:   merge,
		delay:   cfg.Delay,
		sched:   cfg.Scheduler,
		log:     cfg.Logger,
		metrics: cfg.Metrics,
		groups:  group.MakeStore[Req, Res](),
	}
}

// Submit joins the request to the batch accumulating for its key and
// restarts the key's debounce window
func (c *Coalescer[Req, Res]) Submit(
	r coalesce.Request[Req], obs observer.Observer[Res],
) observer.Subscription {
	c.metrics.RecordSubmission()
	if r.Key == "" {
		c.metrics.RecordBypass()
		c.log.Debug("bypassing coalescer for request without key")
		return c.exec.Execute(r.Payload, obs)
	}

	key := r.Key
	e := group.NewEntry(obs)
	delay := c.delayFor(r.Timeout)

	c.mu.Lock()
	g, created := c.groups.GetOrCreate(key)
	if g.AddPending(e) {
		g.Payload = r.Payload
	} else {
		g.Payload = c.merge(g.Payload, r.Payload)
	}
	gen := g.Generation
	if g.DisarmTimer() {
		c.sched.Cancel(key)
	}
	token := g.ArmTimer()
	c.sched.Schedule(key, delay, func() {
		c.flush(key, token)
	})
	if created {
		c.metrics.RecordActiveGroups(c.groups.Len())
	}
	c.mu.Unlock()

	return observer.NewSubscription(func() {
		c.cancel(key, gen, e.ID)
	})
}

// Groups returns the number of keys that still have pending or running work
func (c *Coalescer[_, _]) Groups() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.groups.Len()
}

func (c *Coalescer[_, _]) delayFor(timeout time.Duration) time.Duration {
	if timeout > 0 {
		return timeout
	}
	return c.delay
}

// flush is only performed by the Scheduler. A flush whose token no longer
// identifies the Group's armed timer has been superseded and does nothing
func (c *Coalescer[Req, Res]) flush(key string, token uint64) {
	c.mu.Lock()
	g, ok := c.groups.Get(key)
	if !ok || !g.IsCurrentTimer(token) || len(g.Pending) == 0 {
		c.mu.Unlock()
		return
	}
	gen, run, payload := g.Flush()
	size := len(run.Observers)
	c.mu.Unlock()

	c.metrics.RecordFlush(size)
	c.log.Debug("flushing coalesced batch",
		"key", key, "generation", gen, "observers", size)

	sub := c.exec.Execute(payload, observer.Observer[Res]{
		OnData: func(r Res) {
			c.data(key, gen, run, r)
		},
		OnError: func(err error) {
			c.terminate(key, gen, run, true, func(o observer.Observer[Res]) {
				o.Error(err)
			})
		},
		OnComplete: func() {
			c.terminate(key, gen, run, false,
				observer.Observer[Res].Complete,
			)
		},
	})

	c.mu.Lock()
	abandoned := run.Abandoned
	if !abandoned {
		run.Cancel = sub
	}
	c.mu.Unlock()

	if abandoned {
		c.stopDownstream(key, gen, sub)
	}
}

func (c *Coalescer[Req, Res]) data(
	key string, gen uint64, run *group.Run[Res], r Res,
) {
	c.mu.Lock()
	if !c.isRunning(key, gen, run) || run.Terminated {
		c.mu.Unlock()
		return
	}
	obs := run.Snapshot()
	c.mu.Unlock()

	for _, o := range obs {
		o.Data(r)
	}
}

func (c *Coalescer[Req, Res]) terminate(
	key string, gen uint64, run *group.Run[Res], failed bool,
	deliver func(observer.Observer[Res]),
) {
	c.mu.Lock()
	if !c.isRunning(key, gen, run) || run.Terminated {
		c.mu.Unlock()
		return
	}
	run.Terminated = true
	obs := run.Snapshot()
	c.mu.Unlock()

	c.metrics.RecordTermination(failed)
	for _, o := range obs {
		deliver(o)
	}

	c.mu.Lock()
	removed := c.cleanup(key, gen)
	c.mu.Unlock()
	c.groupRemoved(key, removed)
}

// cancel detaches a single subscription, identified by the generation it
// joined and its entry ID
func (c *Coalescer[_, _]) cancel(key string, gen uint64, id uuid.UUID) {
	c.mu.Lock()
	g, ok := c.groups.Get(key)
	if !ok {
		c.mu.Unlock()
		return
	}

	if gen == g.Generation {
		if !g.RemovePending(id) {
			c.mu.Unlock()
			return
		}
		var removed bool
		if len(g.Pending) == 0 {
			removed = c.cleanup(key, gen)
		}
		c.mu.Unlock()
		c.metrics.RecordCancel(false)
		c.groupRemoved(key, removed)
		return
	}

	run, ok := g.Running[gen]
	if !ok || !run.Remove(id) {
		c.mu.Unlock()
		return
	}
	var stop observer.Subscription
	var removed bool
	if len(run.Observers) == 0 && !run.Terminated {
		if run.Cancel != nil {
			stop = run.Cancel
		} else {
			run.Abandoned = true
		}
		removed = c.cleanup(key, gen)
	}
	c.mu.Unlock()

	c.metrics.RecordCancel(true)
	if stop != nil {
		c.stopDownstream(key, gen, stop)
	}
	c.groupRemoved(key, removed)
}

// cleanup must be called with the mutex held. It forgets the generation's
// bookkeeping, and deletes the Group once it has no remaining obligations.
// It reports whether the Group was deleted
func (c *Coalescer[_, _]) cleanup(key string, gen uint64) bool {
	g, ok := c.groups.Get(key)
	if !ok {
		return false
	}
	delete(g.Running, gen)
	if gen == g.Generation && g.IsArmed() {
		g.DisarmTimer()
		c.sched.Cancel(key)
	}
	if !g.IsIdle() {
		return false
	}
	c.groups.Delete(key)
	c.metrics.RecordActiveGroups(c.groups.Len())
	return true
}

// isRunning must be called with the mutex held. It reports whether run is
// still the record tracked for the key's generation
func (c *Coalescer[_, Res]) isRunning(
	key string, gen uint64, run *group.Run[Res],
) bool {
	g, ok := c.groups.Get(key)
	return ok && g.Running[gen] == run
}

func (c *Coalescer[_, _]) stopDownstream(
	key string, gen uint64, sub observer.Subscription,
) {
	c.metrics.RecordDownstreamCancel()
	c.log.Debug("cancelling downstream call without observers",
		"key", key, "generation", gen)
	sub.Cancel()
}

func (c *Coalescer[_, _]) groupRemoved(key string, removed bool) {
	if removed {
		c.log.Debug("coalescing group idle", "key", key)
	}
}
