// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package breadcrumb_test

import (
	"context"
	"errors"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/core/breadcrumb"
	"github.com/taibuivan/sunday/internal/platform/apperr"
)

var columns = []string{"name", "id", "adventure_type", "category_type", "depth"}

/*
TestForAdventure returns root, Z1, Z2 and the adventure in that order.
*/
func TestForAdventure(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`WITH RECURSIVE parents`).
		WithArgs("adv-1", 33).
		WillReturnRows(pgxmock.NewRows(columns).
			AddRow("Sierra", "root", "ski", "zone", 3).
			AddRow("Tahoe", "z1", "ski", "zone", 2).
			AddRow("Alpine Meadows", "z2", "ski", "zone", 1).
			AddRow("Run1", "adv-1", "ski", "adventure", 0))

	builder := breadcrumb.NewBuilder(mock, 32)
	crumbs, err := builder.ForAdventure(context.Background(), "adv-1")
	require.NoError(t, err)

	ids := make([]string, len(crumbs))
	for i, crumb := range crumbs {
		ids[i] = crumb.ID
	}
	assert.Equal(t, []string{"root", "z1", "z2", "adv-1"}, ids)
	assert.Equal(t, breadcrumb.CategoryAdventure, crumbs[3].CategoryType)
	assert.Equal(t, breadcrumb.CategoryZone, crumbs[0].CategoryType)
	assert.Equal(t, activity.Ski, crumbs[0].AdventureType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestForZone_Root returns only the zone itself when it has no parent.
*/
func TestForZone_Root(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`WITH RECURSIVE parents`).
		WithArgs("z1", 33).
		WillReturnRows(pgxmock.NewRows(columns).AddRow("Tahoe", "z1", "ski", "zone", 0))

	crumbs, err := breadcrumb.NewBuilder(mock, 32).ForZone(context.Background(), "z1")
	require.NoError(t, err)
	assert.Len(t, crumbs, 1)
}

/*
TestWalk_Cycle fails when the walk reaches the depth bound or revisits an id.
*/
func TestWalk_Cycle(t *testing.T) {
	tests := []struct {
		name string
		rows *pgxmock.Rows
	}{
		{
			name: "depth_exceeded",
			rows: pgxmock.NewRows(columns).
				AddRow("c", "z3", "ski", "zone", 3).
				AddRow("b", "z2", "ski", "zone", 2).
				AddRow("a", "z1", "ski", "zone", 1).
				AddRow("start", "z0", "ski", "zone", 0),
		},
		{
			name: "repeated_id",
			rows: pgxmock.NewRows(columns).
				AddRow("a", "z1", "ski", "zone", 2).
				AddRow("b", "z2", "ski", "zone", 1).
				AddRow("a", "z1", "ski", "zone", 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectQuery(`WITH RECURSIVE parents`).WithArgs("z0", 3).WillReturnRows(tt.rows)

			_, err = breadcrumb.NewBuilder(mock, 2).ForZone(context.Background(), "z0")
			assert.True(t, apperr.Is(err, apperr.CodeCycleDetected), "got %v", err)
		})
	}
}

/*
TestWalk_Errors maps a missing node and a failed query.
*/
func TestWalk_Errors(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`WITH RECURSIVE parents`).WithArgs("missing", 33).WillReturnRows(pgxmock.NewRows(columns))
	mock.ExpectQuery(`WITH RECURSIVE parents`).WithArgs("adv-1", 33).WillReturnError(errors.New("conn reset"))

	builder := breadcrumb.NewBuilder(mock, 32)

	_, err = builder.ForZone(context.Background(), "missing")
	assert.True(t, apperr.Is(err, apperr.CodeNotFound))

	_, err = builder.ForAdventure(context.Background(), "adv-1")
	assert.True(t, apperr.Is(err, apperr.CodeQueryFailed))
}
