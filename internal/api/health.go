// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"log/slog"
	"net/http"

	"github.com/taibuivan/sunday/internal/platform/constants"
	"github.com/taibuivan/sunday/internal/platform/respond"
)

// HealthCheck probes one dependency for the /ready endpoint.
type HealthCheck struct {
	Name  string
	Probe func() error
}

// HealthDependencies holds the injectable dependency checkers for the /ready endpoint.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func() error

	// CheckCache pings the Redis client.
	CheckCache func() error

	// CheckBroker reports whether the search broker connection is open. Nil when publishing is disabled.
	CheckBroker func() error
}

func (deps HealthDependencies) checks() []HealthCheck {
	candidates := []HealthCheck{
		{Name: "postgres", Probe: deps.CheckDatabase},
		{Name: "redis", Probe: deps.CheckCache},
		{Name: "broker", Probe: deps.CheckBroker},
	}

	checks := make([]HealthCheck, 0, len(candidates))
	for _, check := range candidates {
		if check.Probe != nil {
			checks = append(checks, check)
		}
	}
	return checks
}

type healthHandler struct {
	checks []HealthCheck
	logger *slog.Logger
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{checks: deps.checks(), logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

// readiness handles GET /ready. Any failing probe turns the answer into 503.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	results := make([]checkResult, 0, len(handler.checks))
	isSystemReady := true

	for _, check := range handler.checks {
		result := checkResult{Name: check.Name, IsOK: true}
		if err := check.Probe(); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", check.Name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	status, httpStatus := "ready", http.StatusOK
	if !isSystemReady {
		status, httpStatus = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, httpStatus, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	}})
}
