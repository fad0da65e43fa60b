// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/sunday/internal/platform/ctxutil"
	"github.com/taibuivan/sunday/internal/platform/middleware"
	"github.com/taibuivan/sunday/internal/platform/sec"
)

var ok = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

type stubVerifier map[string]*sec.AuthClaims

func (verifier stubVerifier) VerifyToken(token string) (*sec.AuthClaims, error) {
	if claims, found := verifier[token]; found {
		return claims, nil
	}
	return nil, errors.New("bad token")
}

func serve(handler http.Handler, request *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	generated := serve(handler, httptest.NewRequest(http.MethodGet, "/zones", nil))
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, generated.Header().Get("X-Request-ID"))

	request := httptest.NewRequest(http.MethodGet, "/zones", nil)
	request.Header.Set("X-Request-ID", "trace-1")
	serve(handler, request)
	assert.Equal(t, "trace-1", seen)
}

/*
TestRateLimit keeps one bucket per client IP.
*/
func TestRateLimit(t *testing.T) {
	context, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	handler := middleware.RateLimit(context, middleware.RateLimitPolicy{RPS: 0.001, Burst: 1})(ok)

	first := httptest.NewRequest(http.MethodGet, "/adventures", nil)
	first.Header.Set("X-Real-IP", "10.0.0.1")
	assert.Equal(t, http.StatusOK, serve(handler, first).Code)
	assert.Equal(t, http.StatusTooManyRequests, serve(handler, first).Code)

	other := httptest.NewRequest(http.MethodGet, "/adventures", nil)
	other.Header.Set("X-Forwarded-For", "10.0.0.2, 172.16.0.1")
	assert.Equal(t, http.StatusOK, serve(handler, other).Code)
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery(nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := serve(handler, httptest.NewRequest(http.MethodGet, "/zones/z-1", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_SERVER_ERROR")
}

type corsConfig struct {
	development bool
	origins     []string
}

func (cfg corsConfig) IsDevelopment() bool      { return cfg.development }
func (cfg corsConfig) AllowedOrigins() []string { return cfg.origins }

func TestCORS(t *testing.T) {
	handler := middleware.CORS(corsConfig{origins: []string{"https://maps.example"}})(ok)

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://sunday.app", true},
		{"https://www.sunday.app", true},
		{"https://maps.example", true},
		{"https://evil.example", false},
	}

	for _, tt := range tests {
		request := httptest.NewRequest(http.MethodOptions, "/api/v1/zones", nil)
		request.Header.Set("Origin", tt.origin)

		recorder := serve(handler, request)
		assert.Equal(t, http.StatusNoContent, recorder.Code, tt.origin)
		if tt.allowed {
			assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
		} else {
			assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
		}
	}
}

/*
TestAuthorization walks the anonymous, member and admin paths.
*/
func TestAuthorization(t *testing.T) {
	verifier := stubVerifier{
		"member": {UserID: "u-1", Role: string(sec.RoleMember)},
		"admin":  {UserID: "u-2", Role: string(sec.RoleAdmin)},
	}
	authed := middleware.Authenticate(verifier)(middleware.RequireAuth(ok))
	admin := middleware.Authenticate(verifier)(middleware.RequireRole(sec.RoleAdmin)(ok))

	withToken := func(header string) *http.Request {
		request := httptest.NewRequest(http.MethodPost, "/adventures", nil)
		if header != "" {
			request.Header.Set("Authorization", header)
		}
		return request
	}

	assert.Equal(t, http.StatusUnauthorized, serve(authed, withToken("")).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(authed, withToken("Token member")).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(authed, withToken("Bearer forged")).Code)
	assert.Equal(t, http.StatusOK, serve(authed, withToken("Bearer member")).Code)

	assert.Equal(t, http.StatusForbidden, serve(admin, withToken("Bearer member")).Code)
	assert.Equal(t, http.StatusOK, serve(admin, withToken("Bearer admin")).Code)
}
