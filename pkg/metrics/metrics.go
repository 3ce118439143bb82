// Package metrics provides Prometheus collectors for the HTTP surface and
// domain operations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector registered by the service.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	WatchlistChanges    *prometheus.CounterVec
	SentimentUpserts    prometheus.Counter
	ArticlesIngested    *prometheus.CounterVec
}

// New creates and registers the collectors on a private registry.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		WatchlistChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "watchlist_changes_total",
			Help:      "Watchlist mutations by action",
		}, []string{"action"}),
		SentimentUpserts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sentiment_upserts_total",
			Help:      "Article ticker sentiment upserts",
		}),
		ArticlesIngested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "articles_ingested_total",
			Help:      "Feed items processed by outcome",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.WatchlistChanges,
		m.SentimentUpserts,
		m.ArticlesIngested,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records a count and a latency observation for every request,
// labelled by the matched route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// WatchlistChange counts one watchlist mutation.
func (m *Metrics) WatchlistChange(action string) {
	m.WatchlistChanges.WithLabelValues(action).Inc()
}

// SentimentUpsert counts one sentiment write.
func (m *Metrics) SentimentUpsert() {
	m.SentimentUpserts.Inc()
}

// ArticleIngested counts one feed item by outcome (created, skipped, failed).
func (m *Metrics) ArticleIngested(outcome string) {
	m.ArticlesIngested.WithLabelValues(outcome).Inc()
}
