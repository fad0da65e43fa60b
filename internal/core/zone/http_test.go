// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package zone_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/sunday/internal/core/zone"
	"github.com/taibuivan/sunday/internal/platform/ctxutil"
	"github.com/taibuivan/sunday/internal/platform/sec"
)

const tahoeID = "0190f5d2-7c1a-7b3e-9a4f-2d6c8e1b5a60"

/*
TestHandler_MalformedID rejects path and body ids that are not UUIDs with a
400, before the service is reached.
*/
func TestHandler_MalformedID(t *testing.T) {
	f := newFixture(t, true)
	router := zone.NewHandler(f.service).Routes()

	tests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/tahoe", ""},
		{http.MethodGet, "/nearby?type=ski&lat=39&lng=-120&parent=tahoe", ""},
		{http.MethodGet, "/" + tahoeID + "/match/adventures/rose-knob", ""},
		{http.MethodGet, "/tahoe/match/zones/" + tahoeID, ""},
		{http.MethodPatch, "/tahoe", `{"name":"bio","value":"x"}`},
		{http.MethodDelete, "/tahoe", ""},
		{http.MethodPost, "/tahoe/adventures", `{"adventure_id":"` + tahoeID + `"}`},
		{http.MethodPost, "/" + tahoeID + "/adventures", `{"adventure_id":"rose-knob"}`},
		{http.MethodPut, "/" + tahoeID + "/adventures/rose-knob", ""},
		{http.MethodDelete, "/" + tahoeID + "/adventures/rose-knob", ""},
		{http.MethodPost, "/" + tahoeID + "/zones", `{"zone_id":"castle"}`},
		{http.MethodPut, "/tahoe/zones/" + tahoeID, ""},
		{http.MethodDelete, "/" + tahoeID + "/zones/castle", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			request := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "u-1", Role: "user"}))

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, request)

			assert.Equal(t, http.StatusBadRequest, recorder.Code, recorder.Body.String())
		})
	}

	assert.NoError(t, f.mock.ExpectationsWereMet())
}
