// Package metrics provides Prometheus metrics collection for tilegate.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds all Prometheus metrics for the tile proxy.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Tile pipeline metrics
	TilesServed        *prometheus.CounterVec
	ValidationFailures *prometheus.CounterVec

	// Upstream metrics
	UpstreamDuration *prometheus.HistogramVec
	UpstreamErrors   *prometheus.CounterVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
}

// New creates a collector with all metrics registered on reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tilegate",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tilegate",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 15},
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "tilegate",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		TilesServed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tilegate",
				Name:      "tiles_total",
				Help:      "Tile requests by body and outcome",
			},
			[]string{"body", "outcome"},
		),
		ValidationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tilegate",
				Name:      "validation_failures_total",
				Help:      "Rejected tile requests by body and offending field",
			},
			[]string{"body", "field"},
		),
		UpstreamDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "tilegate",
				Name:      "upstream_duration_seconds",
				Help:      "Upstream WMTS fetch duration in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 15},
			},
			[]string{"body"},
		),
		UpstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tilegate",
				Name:      "upstream_errors_total",
				Help:      "Upstream fetch failures by body and kind",
			},
			[]string{"body", "kind"},
		),
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "tilegate",
				Name:      "config_reloads_total",
				Help:      "Successful configuration reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: "tilegate",
				Name:      "config_reload_errors_total",
				Help:      "Configuration reloads that failed and kept the old config",
			},
		),
	}
}

// ObserveRequest records one completed HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	c.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.RequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveTile records the outcome of one tile request.
func (c *Collector) ObserveTile(bodyID, outcome string) {
	c.TilesServed.WithLabelValues(bodyID, outcome).Inc()
}

// ObserveUpstream records one upstream fetch.
func (c *Collector) ObserveUpstream(bodyID string, d time.Duration, errKind string) {
	c.UpstreamDuration.WithLabelValues(bodyID).Observe(d.Seconds())
	if errKind != "" {
		c.UpstreamErrors.WithLabelValues(bodyID, errKind).Inc()
	}
}
