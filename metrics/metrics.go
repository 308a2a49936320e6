package metrics

type (
	// Collector records operational metrics of a Coalescer. Implementations
	// must be safe for concurrent use and must not block
	Collector interface {
		// RecordSubmission records a call to Submit
		RecordSubmission()

		// RecordBypass records a submission without a key, forwarded
		// directly downstream
		RecordBypass()

		// RecordFlush records a flushed batch and the number of observers
		// that were folded into its single downstream call
		RecordFlush(batchSize int)

		// RecordCancel records an observer detaching, either from a pending
		// batch or from a running downstream call
		RecordCancel(running bool)

		// RecordDownstreamCancel records an in-flight downstream call being
		// cancelled because no observers remained
		RecordDownstreamCancel()

		// RecordTermination records a downstream call reaching its terminal
		// event
		RecordTermination(failed bool)

		// RecordActiveGroups records the number of live coalescing groups
		RecordActiveGroups(n int)
	}

	// NopCollector discards all metrics
	NopCollector struct{}
)

// Compile-time assertion that NopCollector implements Collector
var _ Collector = NopCollector{}

// NewNop returns a Collector that discards all metrics
func NewNop() NopCollector {
	return NopCollector{}
}

func (NopCollector) RecordSubmission() {}
func (NopCollector) RecordBypass() {}
func (NopCollector) RecordFlush(int) {}
func (NopCollector) RecordCancel(bool) {}
func (NopCollector) RecordDownstreamCancel() {}
func (NopCollector) RecordTermination(bool) {}
func (NopCollector) RecordActiveGroups(int) {}
