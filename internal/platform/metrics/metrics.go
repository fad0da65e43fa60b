// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics owns the Prometheus collectors exported on /metrics.

Collectors are registered on a private registry created in main and injected
into the components that record them, so tests can build isolated instances.

Exported series:

  - sunday_cache_lookups_total{namespace, result}
  - sunday_search_publish_total{kind, outcome}
  - sunday_http_requests_total{method, route, status}
*/
package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Cache lookup results
const (
	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Publish outcomes
const (
	OutcomePublished = "published"
	OutcomeFailed    = "failed"
	OutcomeDisabled  = "disabled"
)

// Metrics bundles every collector exported by the service.
type Metrics struct {
	registry *prometheus.Registry

	CacheLookups    *prometheus.CounterVec
	SearchPublishes *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
}

// New creates the collectors on a fresh registry, with Go runtime and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	metrics := &Metrics{
		registry: registry,
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sunday_cache_lookups_total",
			Help: "Listing cache lookups by namespace and result",
		}, []string{"namespace", "result"}),
		SearchPublishes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sunday_search_publish_total",
			Help: "Search documents sent to the broker by outcome",
		}, []string{"kind", "outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sunday_http_requests_total",
			Help: "HTTP requests by method, route pattern and status",
		}, []string{"method", "route", "status"}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.CacheLookups,
		metrics.SearchPublishes,
		metrics.HTTPRequests,
	)

	return metrics
}

// Handler serves the registry in the Prometheus exposition format.
func (metrics *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (metrics *Metrics) Registry() *prometheus.Registry {
	return metrics.registry
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (writer *statusWriter) WriteHeader(code int) {
	writer.status = code
	writer.ResponseWriter.WriteHeader(code)
}

// Instrument counts requests by their chi route pattern once the handler returns.
func (metrics *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		recorder := &statusWriter{ResponseWriter: writer, status: http.StatusOK}
		next.ServeHTTP(recorder, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		metrics.HTTPRequests.WithLabelValues(request.Method, route, strconv.Itoa(recorder.status)).Inc()
	})
}
