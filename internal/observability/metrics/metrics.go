package metrics

import "github.com/prometheus/client_golang/prometheus"

// AssistantMetrics exposes counters/histograms for the conversation flow.
// All Observe methods are nil-safe so callers can skip wiring metrics in
// tests.
type AssistantMetrics struct {
	turnsTotal     *prometheus.CounterVec
	bookingsTotal  *prometheus.CounterVec
	clarifications prometheus.Counter
	turnLatency    *prometheus.HistogramVec
	scoreHist      prometheus.Histogram
}

func NewAssistantMetrics(reg prometheus.Registerer) *AssistantMetrics {
	m := &AssistantMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "conversation",
			Name:      "turns_total",
			Help:      "Total processed conversation turns",
		}, []string{"intent", "outcome"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Total booking operations",
		}, []string{"service", "action"}),
		clarifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "assistant",
			Subsystem: "conversation",
			Name:      "clarifications_total",
			Help:      "Turns answered with a clarifying question",
		}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "assistant",
			Subsystem: "conversation",
			Name:      "turn_latency_seconds",
			Help:      "Latency of turn processing",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		scoreHist: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "assistant",
			Subsystem: "conversation",
			Name:      "extraction_score",
			Help:      "Explainability score of processed turns (0-100)",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.bookingsTotal, m.clarifications, m.turnLatency, m.scoreHist)
	return m
}

func (m *AssistantMetrics) ObserveTurn(intent, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent, outcome).Inc()
	m.turnLatency.WithLabelValues(outcome).Observe(seconds)
}

func (m *AssistantMetrics) ObserveBooking(service, action string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(service, action).Inc()
}

func (m *AssistantMetrics) ObserveClarification() {
	if m == nil {
		return
	}
	m.clarifications.Inc()
}

func (m *AssistantMetrics) ObserveScore(score float64) {
	if m == nil {
		return
	}
	m.scoreHist.Observe(score)
}
