package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus is a Collector backed by Prometheus instruments
type Prometheus struct {
	submissions      prometheus.Counter
	bypasses         prometheus.Counter
	flushes          prometheus.Counter
	batchSize        prometheus.Histogram
	cancels          *prometheus.CounterVec
	downstreamCancel prometheus.Counter
	terminations     *prometheus.CounterVec
	activeGroups     prometheus.Gauge
}

// DefaultNamespace is used when NewPrometheus is given an empty namespace
const DefaultNamespace = "debounce"

// Compile-time assertion that Prometheus implements Collector
var _ Collector = (*Prometheus)(nil)

// NewPrometheus creates a Prometheus Collector and registers its instruments
// with reg. If reg is nil, prometheus.DefaultRegisterer is used
func NewPrometheus(
	reg prometheus.Registerer, namespace string,
) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	p := &Prometheus{
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Total requests submitted to the coalescer.",
		}),
		bypasses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bypassed_total",
			Help:      "Total un-keyed requests forwarded without coalescing.",
		}),
		flushes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flushes_total",
			Help:      "Total batches flushed as a single downstream call.",
		}),
		batchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of observers folded into each flushed batch.",
			Buckets:   []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),
		cancels: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cancellations_total",
			Help:      "Total observers detached, by batch stage.",
		}, []string{"stage"}),
		downstreamCancel: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "downstream_cancels_total",
			Help:      "Total in-flight downstream calls cancelled.",
		}),
		terminations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "terminations_total",
			Help:      "Total downstream calls terminated, by outcome.",
		}, []string{"outcome"}),
		activeGroups: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_groups",
			Help:      "Number of keys with outstanding coalescing work.",
		}),
	}

	for _, c := range []prometheus.Collector{
		p.submissions, p.bypasses, p.flushes, p.batchSize, p.cancels,
		p.downstreamCancel, p.terminations, p.activeGroups,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) RecordSubmission() {
	p.submissions.Inc()
}

func (p *Prometheus) RecordBypass() {
	p.bypasses.Inc()
}

func (p *Prometheus) RecordFlush(batchSize int) {
	p.flushes.Inc()
	p.batchSize.Observe(float64(batchSize))
}

func (p *Prometheus) RecordCancel(running bool) {
	stage := "pending"
	if running {
		stage = "running"
	}
	p.cancels.WithLabelValues(stage).Inc()
}

func (p *Prometheus) RecordDownstreamCancel() {
	p.downstreamCancel.Inc()
}

func (p *Prometheus) RecordTermination(failed bool) {
	outcome := "complete"
	if failed {
		outcome = "error"
	}
	p.terminations.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) RecordActiveGroups(n int) {
	p.activeGroups.Set(float64(n))
}
