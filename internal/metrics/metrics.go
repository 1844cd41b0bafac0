// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a private registry with the service collectors.
type Metrics struct {
	Registry        *prometheus.Registry
	PlansGenerated  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	CatalogRecords  prometheus.Gauge
	CatalogReloads  *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		PlansGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gymplan_plans_generated_total",
				Help: "Number of weekly plans generated.",
			},
			[]string{"level", "source"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gymplan_http_request_duration_seconds",
				Help:    "Duration of HTTP requests.",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "route", "status"},
		),
		CatalogRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gymplan_catalog_records",
			Help: "Number of records in the loaded exercise catalog.",
		}),
		CatalogReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gymplan_catalog_reloads_total",
				Help: "Catalog reload attempts by result.",
			},
			[]string{"result"},
		),
	}
	m.Registry.MustRegister(
		m.PlansGenerated,
		m.RequestDuration,
		m.CatalogRecords,
		m.CatalogReloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// PlanGenerated counts a generated plan. Source is "anonymous", "user",
// "mcp" or "cli".
func (m *Metrics) PlanGenerated(level, source string) {
	m.PlansGenerated.WithLabelValues(level, source).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
