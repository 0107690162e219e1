package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestConciergeMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConciergeMetrics(reg)

	m.ObserveMessage("clarify", true)
	m.ObserveMessage("clarify", false)
	m.ObserveActivation()
	m.ObserveMatch(true, "high")
	m.ObserveMatch(false, "low")
	m.ObserveReview(12)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.messagesTotal.WithLabelValues("clarify")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.guidedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activationTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.matchTotal.WithLabelValues("true", "high")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.reviewSize))
}

func TestConciergeMetricsNilSafe(t *testing.T) {
	var m *ConciergeMetrics
	m.ObserveMessage("discover", false)
	m.ObserveActivation()
	m.ObserveMatch(true, "medium")
	m.ObserveReview(3)
}
