package observer

type (
	// Observer is the set of callbacks that receives the event stream of a
	// single downstream call. Every callback is optional. A stream consists
	// of zero or more data events followed by exactly one of error or
	// completion
	Observer[Res any] struct {
		OnData     func(Res)
		OnError    func(error)
		OnComplete func()
	}
)

// Data delivers a data event, if the Observer has a handler for it
func (o Observer[Res]) Data(r Res) {
	if o.OnData != nil {
		o.OnData(r)
	}
}

// Error delivers a terminal error, if the Observer has a handler for it
func (o Observer[_]) Error(err error) {
	if o.OnError != nil {
		o.OnError(err)
	}
}

// Complete delivers terminal completion, if the Observer has a handler for
// it
func (o Observer[_]) Complete() {
	if o.OnComplete != nil {
		o.OnComplete()
	}
}
