package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveJob("predict", "Ok", time.Second)
	m.ObserveJob("predict", "Ok", time.Second)
	m.ObserveJob("monitor", "Timeout", 0)
	m.ObserveUpload("Ok")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.jobs.WithLabelValues("predict", "Ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobs.WithLabelValues("monitor", "Timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.uploads.WithLabelValues("Ok")))

	m.JobStarted()
	m.JobStarted()
	m.JobFinished()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inFlight))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveJob("predict", "Ok", time.Second)
		m.ObserveUpload("Ok")
		m.JobStarted()
		m.JobFinished()
	})
}
