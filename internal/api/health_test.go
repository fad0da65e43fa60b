// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type readyBody struct {
	Data struct {
		Status string        `json:"status"`
		Checks []checkResult `json:"checks"`
	} `json:"data"`
}

func ready(t *testing.T, deps HealthDependencies) (int, readyBody) {
	t.Helper()
	_, readiness := NewHealthHandlers(deps, quiet)

	recorder := httptest.NewRecorder()
	readiness(recorder, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var body readyBody
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return recorder.Code, body
}

func TestReadiness(t *testing.T) {
	healthy := func() error { return nil }

	code, body := ready(t, HealthDependencies{CheckDatabase: healthy, CheckCache: healthy})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body.Data.Status)
	assert.Len(t, body.Data.Checks, 2)

	code, body = ready(t, HealthDependencies{
		CheckDatabase: healthy,
		CheckCache:    healthy,
		CheckBroker:   func() error { return errors.New("connection closed") },
	})
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body.Data.Status)
	require.Len(t, body.Data.Checks, 3)
	assert.Equal(t, "broker", body.Data.Checks[2].Name)
	assert.Equal(t, "connection closed", body.Data.Checks[2].Error)
}

func TestLiveness(t *testing.T) {
	liveness, _ := NewHealthHandlers(HealthDependencies{}, quiet)

	recorder := httptest.NewRecorder()
	liveness(recorder, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, recorder.Body.String())
}
