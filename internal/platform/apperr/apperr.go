// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the error taxonomy shared by every layer of the service.

Storage failures are classified by the action that failed (query, insertion,
update, deletion). Hierarchy failures have their own kinds (incompatible
adventure types, cycles in the zone graph). Every kind maps to one HTTP status
so handlers never need to inspect the cause.

Every error that leaves the service layer should be an [AppError].
*/
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// # Error Codes

const (
	CodeNotFound         = "NOT_FOUND"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeConflict         = "CONFLICT"
	CodeValidation       = "VALIDATION_ERROR"
	CodeInternal         = "INTERNAL_ERROR"
	CodeQueryFailed      = "QUERY_FAILED"
	CodeInsertionFailed  = "INSERTION_FAILED"
	CodeUpdateFailed     = "UPDATE_FAILED"
	CodeDeletionFailed   = "DELETION_FAILED"
	CodeIncompatibleType = "INCOMPATIBLE_TYPE"
	CodeCycleDetected    = "CYCLE_DETECTED"
)

// AppError is the canonical error type of the service.
//
// It carries an HTTP status code, a machine-readable code, a client-safe
// message, and an optional slice of field-level validation errors.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to clients
// to avoid leaking internal implementation details (e.g., SQL queries).
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND", "CONFLICT").
	Code string `json:"code"`
	// Message is a human-readable description safe to return to the client.
	Message string `json:"error"`
	// HTTPStatus is the HTTP response status code.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR responses.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the JSON field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the client-safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Client Errors (4xx)

// NotFound creates a 404 [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Zone") // Returns "Zone not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// Unauthorized creates a 401 [AppError].
func Unauthorized(msg string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    msg,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// Forbidden creates a 403 [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// Conflict creates a 409 [AppError] for duplicate or unique-constraint violations.
func Conflict(msg string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    msg,
		HTTPStatus: http.StatusConflict,
	}
}

// ValidationError creates a 400 [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Server Errors (5xx)

// Internal creates a 500 [AppError] wrapping an unexpected server-side error.
// The cause is stored for logging but is never sent to the client.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}


// # Storage Errors

// QueryFailed wraps a failed read.
func QueryFailed(action string, cause error) *AppError {
	return storageError(CodeQueryFailed, action, cause)
}

// InsertionFailed wraps a failed insert or upsert.
func InsertionFailed(action string, cause error) *AppError {
	return storageError(CodeInsertionFailed, action, cause)
}

// UpdateFailed wraps a failed update.
func UpdateFailed(action string, cause error) *AppError {
	return storageError(CodeUpdateFailed, action, cause)
}

// DeletionFailed wraps a failed delete.
func DeletionFailed(action string, cause error) *AppError {
	return storageError(CodeDeletionFailed, action, cause)
}

func storageError(code, action string, cause error) *AppError {
	return &AppError{
		Code:       code,
		Message:    fmt.Sprintf("%s: %s", strings.ToLower(strings.ReplaceAll(code, "_", " ")), action),
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Hierarchy Errors

// IncompatibleType creates a 409 [AppError] for a membership edge whose child
// type does not fit the parent zone.
func IncompatibleType(childType, parentType string) *AppError {
	return &AppError{
		Code:       CodeIncompatibleType,
		Message:    fmt.Sprintf("a %s cannot be placed in a %s zone", childType, parentType),
		HTTPStatus: http.StatusConflict,
	}
}

// CycleDetected is returned when walking the parent chain revisits a node or
// exceeds the depth bound.
func CycleDetected(nodeID string) *AppError {
	return &AppError{
		Code:       CodeCycleDetected,
		Message:    "zone hierarchy contains a cycle at " + nodeID,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// Is reports whether err carries an [*AppError] with the given code.
func Is(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}
