package metrics

import "github.com/prometheus/client_golang/prometheus"

// ConciergeMetrics exposes counters/histograms for the donor conversation
// and matching flows.
type ConciergeMetrics struct {
	messagesTotal   *prometheus.CounterVec
	guidedTotal     prometheus.Counter
	activationTotal prometheus.Counter
	matchTotal      *prometheus.CounterVec
	reviewSize      prometheus.Histogram
}

func NewConciergeMetrics(reg prometheus.Registerer) *ConciergeMetrics {
	m := &ConciergeMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donor",
			Subsystem: "concierge",
			Name:      "messages_total",
			Help:      "Donor messages handled, by resulting vision stage",
		}, []string{"stage"}),
		guidedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "donor",
			Subsystem: "concierge",
			Name:      "guided_prompts_total",
			Help:      "Replies that fell back to a guided multiple-choice prompt",
		}),
		activationTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "donor",
			Subsystem: "concierge",
			Name:      "activations_total",
			Help:      "Impact Visions activated by donor confirmation",
		}),
		matchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "donor",
			Subsystem: "match",
			Name:      "decisions_total",
			Help:      "Opportunity match decisions, by outcome and confidence",
		}, []string{"matched", "confidence"}),
		reviewSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "donor",
			Subsystem: "match",
			Name:      "review_size",
			Help:      "Number of opportunities evaluated per review",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.guidedTotal, m.activationTotal, m.matchTotal, m.reviewSize)
	return m
}

func (m *ConciergeMetrics) ObserveMessage(stage string, guided bool) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(stage).Inc()
	if guided {
		m.guidedTotal.Inc()
	}
}

func (m *ConciergeMetrics) ObserveActivation() {
	if m == nil {
		return
	}
	m.activationTotal.Inc()
}

func (m *ConciergeMetrics) ObserveMatch(matched bool, confidence string) {
	if m == nil {
		return
	}
	label := "false"
	if matched {
		label = "true"
	}
	m.matchTotal.WithLabelValues(label, confidence).Inc()
}

func (m *ConciergeMetrics) ObserveReview(size int) {
	if m == nil {
		return
	}
	m.reviewSize.Observe(float64(size))
}
