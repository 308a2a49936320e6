package group

import (
	"slices"

	"github.com/google/uuid"

	"github.com/kode4food/debounce/observer"
)

type (
	// Group is the coalescing record of a single key. It accumulates the
	// observers and payload of the live generation, and tracks every
	// earlier generation whose downstream call is still running
	Group[Req, Res any] struct {
		Pending    []Entry[Res]
		Payload    Req
		Generation uint64
		Running    map[uint64]*Run[Res]

		timer uint64
		seq   *sequence
	}

	// sequence allocates generations and timer tokens for every Group of a
	// Store. It never resets, so values are never reused across a Group
	// being deleted and recreated
	sequence struct {
		generation uint64
		timer      uint64
	}

	// Entry is a single subscription to a batch
	Entry[Res any] struct {
		ID       uuid.UUID
		Observer observer.Observer[Res]
	}

	// Run tracks a flushed generation whose downstream call has not yet
	// terminated
	Run[Res any] struct {
		Observers []Entry[Res]

		// Cancel stops the downstream call. It is nil until the Executor
		// has returned its Subscription
		Cancel observer.Subscription

		// Abandoned is set when every observer left before Cancel was
		// known. The call must be cancelled as soon as it is
		Abandoned bool

		// Terminated is set once the terminal event is being delivered
		Terminated bool
	}
)

func makeGroup[Req, Res any](seq *sequence) *Group[Req, Res] {
	return &Group[Req, Res]{
		Generation: seq.nextGeneration(),
		Running:    map[uint64]*Run[Res]{},
		seq:        seq,
	}
}

func (s *sequence) nextGeneration() uint64 {
	s.generation++
	return s.generation
}

func (s *sequence) nextTimer() uint64 {
	s.timer++
	return s.timer
}

// NewEntry returns an Entry with a fresh subscription ID
func NewEntry[Res any](o observer.Observer[Res]) Entry[Res] {
	return Entry[Res]{
		ID:       uuid.New(),
		Observer: o,
	}
}

// AddPending joins an Entry to the live generation and returns whether it
// was the first to join
func (g *Group[_, Res]) AddPending(e Entry[Res]) bool {
	g.Pending = append(g.Pending, e)
	return len(g.Pending) == 1
}

// RemovePending removes the Entry with the provided ID from the live
// generation. The accumulated payload is discarded if no entries remain
func (g *Group[Req, _]) RemovePending(id uuid.UUID) bool {
	var removed bool
	g.Pending, removed = removeEntry(g.Pending, id)
	if len(g.Pending) == 0 {
		var zero Req
		g.Payload = zero
	}
	return removed
}

// ArmTimer records that a new flush has been scheduled and returns the
// token that the flush must present
func (g *Group[_, _]) ArmTimer() uint64 {
	g.timer = g.seq.nextTimer()
	return g.timer
}

// DisarmTimer forgets the scheduled flush and returns whether one was armed
func (g *Group[_, _]) DisarmTimer() bool {
	armed := g.timer != 0
	g.timer = 0
	return armed
}

// IsArmed returns whether a flush is scheduled
func (g *Group[_, _]) IsArmed() bool {
	return g.timer != 0
}

// IsCurrentTimer returns whether the token identifies the scheduled flush
func (g *Group[_, _]) IsCurrentTimer(token uint64) bool {
	return token != 0 && g.timer == token
}

// Flush moves the live generation into Running, starting a fresh, empty
// generation. It returns the flushed generation, its Run record, and the
// payload to forward downstream
func (g *Group[Req, Res]) Flush() (uint64, *Run[Res], Req) {
	gen := g.Generation
	run := &Run[Res]{
		Observers: g.Pending,
	}
	g.Running[gen] = run
	payload := g.Payload

	var zero Req
	g.Pending = nil
	g.Payload = zero
	g.timer = 0
	g.Generation = g.seq.nextGeneration()
	return gen, run, payload
}

// IsIdle returns whether the Group has no remaining obligations
func (g *Group[_, _]) IsIdle() bool {
	return len(g.Pending) == 0 && len(g.Running) == 0
}

// Remove detaches the Entry with the provided ID from the Run
func (r *Run[_]) Remove(id uuid.UUID) bool {
	var removed bool
	r.Observers, removed = removeEntry(r.Observers, id)
	return removed
}

// Snapshot returns the Run's current observers in subscription order
func (r *Run[Res]) Snapshot() []observer.Observer[Res] {
	res := make([]observer.Observer[Res], len(r.Observers))
	for i, e := range r.Observers {
		res[i] = e.Observer
	}
	return res
}

func removeEntry[Res any](
	entries []Entry[Res], id uuid.UUID,
) ([]Entry[Res], bool) {
	idx := slices.IndexFunc(entries, func(e Entry[Res]) bool {
		return e.ID == id
	})
	if idx < 0 {
		return entries, false
	}
	return slices.Delete(entries, idx, idx+1), true
}
