package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSchedule(3, 1)
	m.ObserveSchedule(2, 0)
	m.IncCompleted()
	m.IncCompleted()
	m.IncCompletionConflict()
	m.ObserveHTTP("GET", "/api/v1/duties", 200, 15*time.Millisecond)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.scheduledItems.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scheduledItems.WithLabelValues("error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.completions))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completionConflicts))

	n, err := testutil.GatherAndCount(reg, "duty_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveSchedule(1, 1)
		m.IncCompleted()
		m.IncCompletionConflict()
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
	})
}
