// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package adventure_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sunday/internal/core/adventure"
	"github.com/taibuivan/sunday/internal/platform/ctxutil"
	"github.com/taibuivan/sunday/internal/platform/sec"
)

const (
	roseKnobID = "0190f5d2-7c1a-7b3e-9a4f-2d6c8e1b5a70"
	callerID   = "0190f5d2-7c1a-7b3e-9a4f-2d6c8e1b5a71"
)

func serve(t *testing.T, handler *adventure.Handler, method, target, body string, userID string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(method, target, strings.NewReader(body))
	if userID != "" {
		request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: userID, Role: "user"}))
	}

	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, request)
	return recorder
}

/*
TestHandler_MalformedID rejects ids that are not UUIDs before any store call.
*/
func TestHandler_MalformedID(t *testing.T) {
	f := newFixture(t)
	handler := adventure.NewHandler(f.service)

	tests := []struct {
		method string
		target string
		body   string
	}{
		{http.MethodGet, "/rose-knob?type=hike", ""},
		{http.MethodGet, "/42/breadcrumb", ""},
		{http.MethodGet, "/42/completed", ""},
		{http.MethodGet, "/todo?user=ada", ""},
		{http.MethodGet, "/nearby?type=hike&lat=39.2&lng=-119.9&zone=tahoe", ""},
		{http.MethodPatch, "/42", `{"name":"bio","value":"x","adventure_type":"hike"}`},
		{http.MethodPut, "/42/path", `{"adventure_type":"hike"}`},
		{http.MethodPost, "/42/ratings", `{"rating":5,"difficulty":3}`},
		{http.MethodDelete, "/42?type=hike", ""},
		{http.MethodPost, "/42/pictures", `{"url":"images/a.jpg"}`},
		{http.MethodPost, "/42/completed", `{"public":true}`},
		{http.MethodPost, "/42/todo", `{"public":true}`},
		{http.MethodDelete, "/42/todo", ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.target, func(t *testing.T) {
			recorder := serve(t, handler, tt.method, tt.target, tt.body, callerID)
			assert.Equal(t, http.StatusBadRequest, recorder.Code, recorder.Body.String())
		})
	}

	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestHandler_CompleteAdventure(t *testing.T) {
	f := newFixture(t)
	handler := adventure.NewHandler(f.service)

	assert.Equal(t, http.StatusUnauthorized,
		serve(t, handler, http.MethodPost, "/"+roseKnobID+"/completed", `{"public":true}`, "").Code)

	f.mock.ExpectBegin()
	f.mock.ExpectExec(`DELETE FROM todo_adventures`).WithArgs(roseKnobID, callerID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	f.mock.ExpectExec(`INSERT INTO completed_adventures`).WithArgs(pgxmock.AnyArg(), callerID, true, roseKnobID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	f.mock.ExpectQuery(`FROM completed_adventures p`).WithArgs(callerID, roseKnobID).
		WillReturnRows(pgxmock.NewRows(entryColumns).AddRow(
			roseKnobID, "Rose Knob", "hike", "Incline Village", true, createdAt,
			callerID, "Ada Lovelace", "ada@example.com", "",
		))
	f.mock.ExpectCommit()

	recorder := serve(t, handler, http.MethodPost, "/"+roseKnobID+"/completed", `{"public":true}`, callerID)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var envelope struct {
		Data adventure.Progress `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, adventure.ListCompleted, envelope.Data.List)
	assert.Equal(t, callerID, envelope.Data.User.UserID)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

/*
TestHandler_UserList defaults to the caller's own list, private entries
included.
*/
func TestHandler_UserList(t *testing.T) {
	f := newFixture(t)
	handler := adventure.NewHandler(f.service)

	f.mock.ExpectQuery(`FROM completed_adventures p .* WHERE p.user_id = \$1 ORDER BY`).WithArgs(callerID).
		WillReturnRows(pgxmock.NewRows(listedAdventureColumns).
			AddRow(roseKnobID, "Rose Knob", "hike", "Incline Village", false, createdAt))

	recorder := serve(t, handler, http.MethodGet, "/completed", "", callerID)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
	assert.Contains(t, recorder.Body.String(), roseKnobID)

	assert.Equal(t, http.StatusBadRequest, serve(t, handler, http.MethodGet, "/completed", "", "").Code)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
