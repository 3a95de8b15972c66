// Package metrics exposes hotel operation counters and occupancy gauges to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/example/hotel-occupancy/internal/application"
)

const namespace = "hotel"

// Metrics implements application.Recorder on a dedicated Prometheus registry.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	durations  *prometheus.HistogramVec
	occupancy  *prometheus.GaugeVec
}

// New registers the hotel collectors together with the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Room operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Time spent applying a room operation, persistence included.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"operation"}),
		occupancy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms",
			Help:      "Rooms by lifecycle state for the current day.",
		}, []string{"state"}),
	}
	m.registry.MustRegister(
		m.operations,
		m.durations,
		m.occupancy,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveOperation counts one finished operation. outcome is "success" or an error kind label.
func (m *Metrics) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.durations.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// SetOccupancy publishes the latest room state counts.
func (m *Metrics) SetOccupancy(o application.Occupancy) {
	if m == nil {
		return
	}
	m.occupancy.WithLabelValues("total").Set(float64(o.Total))
	m.occupancy.WithLabelValues("vacant").Set(float64(o.Vacant))
	m.occupancy.WithLabelValues("reserved").Set(float64(o.Reserved))
	m.occupancy.WithLabelValues("arriving").Set(float64(o.Arriving))
	m.occupancy.WithLabelValues("checked_in").Set(float64(o.CheckedIn))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

var _ application.Recorder = (*Metrics)(nil)
