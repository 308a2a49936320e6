package testing

import (
	"sync"

	"github.com/kode4food/debounce/observer"
)

type (
	// Recorder captures the event sequence delivered to an Observer
	Recorder[Res any] struct {
		mu     sync.Mutex
		events []Event[Res]
		once   sync.Once
		done   chan struct{}
	}

	// Event is a single captured event
	Event[Res any] struct {
		Kind EventKind
		Data Res
		Err  error
	}

	// EventKind distinguishes data, error, and completion events
	EventKind int
)

// EventKind values
const (
	DataEvent EventKind = iota
	ErrorEvent
	CompleteEvent
)

// NewRecorder returns an empty Recorder
func NewRecorder[Res any]() *Recorder[Res] {
	return &Recorder[Res]{
		done: make(chan struct{}),
	}
}

// Observer returns an Observer that records into this Recorder. Each call
// returns a distinct Observer value backed by the same Recorder
func (r *Recorder[Res]) Observer() observer.Observer[Res] {
	return observer.Observer[Res]{
		OnData: func(d Res) {
			r.add(Event[Res]{Kind: DataEvent, Data: d})
		},
		OnError: func(err error) {
			r.add(Event[Res]{Kind: ErrorEvent, Err: err})
			r.once.Do(func() { close(r.done) })
		},
		OnComplete: func() {
			r.add(Event[Res]{Kind: CompleteEvent})
			r.once.Do(func() { close(r.done) })
		},
	}
}

// Events returns every event recorded so far, in delivery order
func (r *Recorder[Res]) Events() []Event[Res] {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]Event[Res], len(r.events))
	copy(res, r.events)
	return res
}

// Done is closed once a terminal event has been recorded
func (r *Recorder[_]) Done() <-chan struct{} {
	return r.done
}

func (r *Recorder[Res]) add(e Event[Res]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Sequence is a convenience for building expected event sequences: the
// data events followed by completion, or by err if it is non-nil
func Sequence[Res any](err error, data ...Res) []Event[Res] {
	res := make([]Event[Res], 0, len(data)+1)
	for _, d := range data {
		res = append(res, Event[Res]{Kind: DataEvent, Data: d})
	}
	if err != nil {
		return append(res, Event[Res]{Kind: ErrorEvent, Err: err})
	}
	return append(res, Event[Res]{Kind: CompleteEvent})
}
