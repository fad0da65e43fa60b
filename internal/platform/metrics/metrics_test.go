// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/sunday/internal/platform/metrics"
)

/*
TestInstrument records the route pattern rather than the raw path.
*/
func TestInstrument(t *testing.T) {
	m := metrics.New()

	router := chi.NewRouter()
	router.Use(m.Instrument)
	router.Get("/zones/{id}", func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/zones/abc", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/zones/def", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/zones/{id}", "404")))
}

/*
TestHandler exposes the registered series.
*/
func TestHandler(t *testing.T) {
	m := metrics.New()
	m.CacheLookups.WithLabelValues("zones", metrics.ResultHit).Inc()

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `sunday_cache_lookups_total{namespace="zones",result="hit"} 1`)
}
