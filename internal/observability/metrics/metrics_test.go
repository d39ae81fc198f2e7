package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestAssistantMetricsObserve(t *testing.T) {
	m := NewAssistantMetrics(nil)
	m.ObserveTurn("book", "booked", 0.02)
	m.ObserveBooking("spa", "create")
	m.ObserveClarification()
	m.ObserveScore(93.75)
}

func TestAssistantMetricsCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewAssistantMetrics(reg)
	m.ObserveTurn("cancel", "cancelled", 0.01)
}

func TestAssistantMetricsNilSafe(t *testing.T) {
	var m *AssistantMetrics
	m.ObserveTurn("book", "booked", 0.1)
	m.ObserveBooking("spa", "create")
	m.ObserveClarification()
	m.ObserveScore(50)
}
