package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kode4food/debounce/metrics"
)

func TestNop(t *testing.T) {
	as := assert.New(t)

	var c metrics.Collector = metrics.NewNop()
	as.NotPanics(func() {
		c.RecordSubmission()
		c.RecordBypass()
		c.RecordFlush(3)
		c.RecordCancel(true)
		c.RecordDownstreamCancel()
		c.RecordTermination(false)
		c.RecordActiveGroups(1)
	})
}

func TestPrometheus(t *testing.T) {
	as := assert.New(t)

	reg := prometheus.NewRegistry()
	p, err := metrics.NewPrometheus(reg, "")
	require.NoError(t, err)

	p.RecordSubmission()
	p.RecordSubmission()
	p.RecordBypass()
	p.RecordFlush(2)
	p.RecordCancel(false)
	p.RecordCancel(true)
	p.RecordCancel(true)
	p.RecordDownstreamCancel()
	p.RecordTermination(true)
	p.RecordActiveGroups(4)

	count, err := testutil.GatherAndCount(reg)
	require.NoError(t, err)
	as.Equal(9, count)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			for _, l := range m.GetLabel() {
				name += "/" + l.GetValue()
			}
			switch {
			case m.Counter != nil:
				values[name] = m.GetCounter().GetValue()
			case m.Gauge != nil:
				values[name] = m.GetGauge().GetValue()
			case m.Histogram != nil:
				values[name] = float64(m.GetHistogram().GetSampleCount())
			}
		}
	}

	as.Equal(2.0, values["debounce_submissions_total"])
	as.Equal(1.0, values["debounce_bypassed_total"])
	as.Equal(1.0, values["debounce_flushes_total"])
	as.Equal(1.0, values["debounce_batch_size"])
	as.Equal(1.0, values["debounce_cancellations_total/pending"])
	as.Equal(2.0, values["debounce_cancellations_total/running"])
	as.Equal(1.0, values["debounce_downstream_cancels_total"])
	as.Equal(1.0, values["debounce_terminations_total/error"])
	as.Equal(4.0, values["debounce_active_groups"])
}

func TestPrometheusDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewPrometheus(reg, "dup")
	require.NoError(t, err)

	_, err = metrics.NewPrometheus(reg, "dup")
	assert.Error(t, err)
}
