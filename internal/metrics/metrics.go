// Package metrics holds the Prometheus collectors for the HTTP API and the
// generator.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tfgen"

// Collector owns its registry so several instances can coexist in tests.
type Collector struct {
	registry *prometheus.Registry

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	Generations      *prometheus.CounterVec
	ResourcesEmitted *prometheus.CounterVec
	Associations     prometheus.Counter
	Warnings         *prometheus.CounterVec
	Imports          *prometheus.CounterVec
}

func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Generations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Total number of generation requests by outcome",
			},
			[]string{"outcome"},
		),
		ResourcesEmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resources_emitted_total",
				Help:      "Total number of resource fragments generated by kind",
			},
			[]string{"kind"},
		),
		Associations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "associations_emitted_total",
				Help:      "Total number of association fragments generated",
			},
		),
		Warnings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "warnings_total",
				Help:      "Total number of warnings by code",
			},
			[]string{"code"},
		),
		Imports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "imports_total",
				Help:      "Total number of state imports by outcome",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Generations,
		c.ResourcesEmitted,
		c.Associations,
		c.Warnings,
		c.Imports,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordGeneration counts one generation. byKind may be nil for failed
// requests.
func (c *Collector) RecordGeneration(outcome string, byKind map[string]int, associations int, warningCodes []string) {
	c.Generations.WithLabelValues(outcome).Inc()
	for kind, n := range byKind {
		c.ResourcesEmitted.WithLabelValues(kind).Add(float64(n))
	}
	c.Associations.Add(float64(associations))
	for _, code := range warningCodes {
		c.Warnings.WithLabelValues(code).Inc()
	}
}

func (c *Collector) RecordImport(outcome string) {
	c.Imports.WithLabelValues(outcome).Inc()
}
