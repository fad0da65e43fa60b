// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/sunday/internal/platform/apperr"
	"github.com/taibuivan/sunday/internal/platform/respond"
)

func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "incompatible",
			err:    apperr.IncompatibleType("climb", "ski"),
			status: http.StatusConflict,
			body:   `"code":"INCOMPATIBLE_TYPE"`,
		},
		{
			name:   "missing",
			err:    apperr.NotFound("Zone"),
			status: http.StatusNotFound,
			body:   `"code":"NOT_FOUND"`,
		},
		{
			name:   "opaque",
			err:    errors.New("pq: connection refused"),
			status: http.StatusInternalServerError,
			body:   `"code":"INTERNAL_ERROR"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/zones", nil), tt.err)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.body)
			assert.NotContains(t, recorder.Body.String(), "connection refused")
		})
	}
}

func TestOK(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Created(recorder, map[string]string{"id": "z-1"})

	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.JSONEq(t, `{"data":{"id":"z-1"}}`, recorder.Body.String())
}
