// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// Each helper is named after the storage action that failed so the resulting
// [apperr.AppError] carries the matching kind (QUERY_FAILED, INSERTION_FAILED,
// UPDATE_FAILED, DELETION_FAILED). A missing row is always reported as
// NOT_FOUND regardless of the action.
package dberr

import (
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/sunday/internal/platform/apperr"
)

// Query classifies a failed read.
func Query(err error, action string) error {
	return classify(err, action, apperr.QueryFailed)
}

// Insert classifies a failed insert or upsert.
func Insert(err error, action string) error {
	return classify(err, action, apperr.InsertionFailed)
}

// Update classifies a failed update.
func Update(err error, action string) error {
	return classify(err, action, apperr.UpdateFailed)
}

// Delete classifies a failed delete.
func Delete(err error, action string) error {
	return classify(err, action, apperr.DeletionFailed)
}

func classify(err error, action string, kind func(string, error) *apperr.AppError) error {
	if err == nil {
		return nil
	}

	// 1. Already classified further down (nested helpers, tx callbacks)
	if apperr.IsAppError(err) {
		return err
	}

	// 2. Not Found mapping
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("Resource")
	}

	// 3. Everything else, including deadline expiry, keeps the action's kind
	return kind(action, err)
}
