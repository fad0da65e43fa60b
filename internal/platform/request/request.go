// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/taibuivan/sunday/internal/platform/apperr"
	"github.com/taibuivan/sunday/internal/platform/ctxutil"
	"github.com/taibuivan/sunday/internal/platform/sec"
	"github.com/taibuivan/sunday/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named UUID path parameter.

Returns:
  - string: The parameter as sent
  - error: VALIDATION_ERROR naming the parameter when it is not a UUID
*/
func ID(request *http.Request, name string) (string, error) {
	value := chi.URLParam(request, name)
	if err := (&validate.Validator{}).UUID(name, value).Err(); err != nil {
		return "", err
	}
	return value, nil
}

// IDs retrieves several UUID path parameters in the order named.
func IDs(request *http.Request, names ...string) ([]string, error) {
	values := make([]string, len(names))
	for i, name := range names {
		value, err := ID(request, name)
		if err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

// QueryID reads an optional UUID query parameter. Absent or blank is "".
func QueryID(request *http.Request, name string) (string, error) {
	value := strings.TrimSpace(request.URL.Query().Get(name))
	if value == "" {
		return "", nil
	}
	if err := (&validate.Validator{}).UUID(name, value).Err(); err != nil {
		return "", err
	}
	return value, nil
}

/*
QueryFloat reads an optional numeric query parameter.

Returns:
  - float64: The parsed value
  - bool: false when the parameter is absent or blank
  - error: VALIDATION_ERROR naming the parameter when it is not a number
*/
func QueryFloat(request *http.Request, name string) (float64, bool, error) {
	raw := strings.TrimSpace(request.URL.Query().Get(name))
	if raw == "" {
		return 0, false, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, validate.RequiredError(name, "Must be a number")
	}
	return value, true, nil
}

/*
QueryInt reads an optional whole-number query parameter, falling back to def
when it is absent.
*/
func QueryInt(request *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(request.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, validate.RequiredError(name, "Must be a whole number")
	}
	return value, nil
}

/*
Claims extracts the authenticated user claims from the request context.

Returns nil if the request is not authenticated.
*/
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

/*
RequiredClaims ensures the request is authenticated and returns the user claims.

Returns:
  - *sec.AuthClaims: The authenticated user claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {

	// Get user claims
	claims := ctxutil.GetAuthUser(request.Context())

	// If the user is not authenticated, return an error
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return claims, nil
}

/*
RequiredUserID returns the User ID of the currently logged-in user.

Returns:
  - string: User UUID
  - error: apperr.Unauthorized if not authenticated
*/
func RequiredUserID(request *http.Request) (string, error) {

	// Get user claims
	claims, err := RequiredClaims(request)

	// If the user is not authenticated, return an error
	if err != nil {
		return "", err
	}

	return claims.UserID, nil
}
