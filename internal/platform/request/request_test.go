// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sunday/internal/platform/apperr"
)

func TestQueryFloat(t *testing.T) {
	request := httptest.NewRequest("GET", "/zones/nearby?lat=39.25&lng=abc&empty=", nil)

	lat, ok, err := QueryFloat(request, "lat")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 39.25, lat)

	_, ok, err = QueryFloat(request, "empty")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = QueryFloat(request, "lng")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestQueryInt(t *testing.T) {
	request := httptest.NewRequest("GET", "/zones/nearby?count=25&bad=2.5", nil)

	count, err := QueryInt(request, "count", 10)
	require.NoError(t, err)
	assert.Equal(t, 25, count)

	fallback, err := QueryInt(request, "missing", 10)
	require.NoError(t, err)
	assert.Equal(t, 10, fallback)

	_, err = QueryInt(request, "bad", 10)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestID(t *testing.T) {
	const zoneID = "0b6f1c5e-7a61-4c3e-9d2a-3f1f6a1b2c3d"

	routed := func(path string) *http.Request {
		request := httptest.NewRequest("GET", path, nil)
		routes := chi.NewRouteContext()
		routes.URLParams.Add("id", strings.TrimPrefix(path, "/zones/"))
		routes.URLParams.Add("childID", "not-a-uuid")
		return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routes))
	}

	id, err := ID(routed("/zones/"+zoneID), "id")
	require.NoError(t, err)
	assert.Equal(t, zoneID, id)

	_, err = ID(routed("/zones/42"), "id")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	_, err = IDs(routed("/zones/"+zoneID), "id", "childID")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "childID")
}
