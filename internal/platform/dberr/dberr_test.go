// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sunday/internal/platform/apperr"
	"github.com/taibuivan/sunday/internal/platform/dberr"
)

/*
TestClassify checks that each storage helper yields its own error kind.
*/
func TestClassify(t *testing.T) {
	cause := errors.New("connection reset")

	tests := []struct {
		name   string
		wrap   func(error, string) error
		code   string
		status int
	}{
		{"query", dberr.Query, apperr.CodeQueryFailed, 500},
		{"insert", dberr.Insert, apperr.CodeInsertionFailed, 500},
		{"update", dberr.Update, apperr.CodeUpdateFailed, 500},
		{"delete", dberr.Delete, apperr.CodeDeletionFailed, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.wrap(cause, "some_action")

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
			assert.Equal(t, tt.status, ae.HTTPStatus)
			assert.ErrorIs(t, err, cause)
			assert.Contains(t, ae.Message, "some_action")
		})
	}
}

/*
TestClassify_NoRows maps a missing row to NOT_FOUND for every action.
*/
func TestClassify_NoRows(t *testing.T) {
	for _, wrap := range []func(error, string) error{dberr.Query, dberr.Insert, dberr.Update, dberr.Delete} {
		err := wrap(fmt.Errorf("scan: %w", pgx.ErrNoRows), "get_zone")
		assert.True(t, apperr.Is(err, apperr.CodeNotFound))
	}
}

/*
TestClassify_Passthrough keeps nil and already classified errors untouched.
*/
func TestClassify_Passthrough(t *testing.T) {
	assert.NoError(t, dberr.Query(nil, "noop"))

	incompatible := apperr.IncompatibleType("hike", "ski")
	assert.Same(t, incompatible, dberr.Insert(incompatible, "add_edge"))
}

/*
TestClassify_Timeout surfaces an expired store call as the action's kind.
*/
func TestClassify_Timeout(t *testing.T) {
	err := dberr.Delete(context.DeadlineExceeded, "delete_zone")
	assert.True(t, apperr.Is(err, apperr.CodeDeletionFailed))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
