// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/core/search"
	"github.com/taibuivan/sunday/internal/platform/apperr"
	"github.com/taibuivan/sunday/internal/platform/broker"
	"github.com/taibuivan/sunday/internal/platform/metrics"
	"github.com/taibuivan/sunday/pkg/pagination"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

/*
TestNewDocument folds every searchable field into one keyword list.
*/
func TestNewDocument(t *testing.T) {
	document := search.NewDocument(search.KindZone, "z-1", "Crêt du Loup", "Truckee", "Steep loup couloirs")

	assert.Equal(t, []string{"cret", "du", "loup", "truckee", "steep", "couloirs"}, document.Keywords)
	assert.Equal(t, "cret du loup truckee steep couloirs", document.Text())
}

/*
TestUpsert writes into the table matching the document kind.
*/
func TestUpsert(t *testing.T) {
	mock := newMock(t)

	mock.ExpectExec(`INSERT INTO searchable_adventures \(adventure_id, searchable_text\).*ON CONFLICT \(adventure_id\)`).
		WithArgs("a-1", "run1 tahoe").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO searchable_zones \(zone_id, searchable_text\)`).
		WithArgs("z-1", "tahoe").
		WillReturnError(errors.New("connection reset"))

	repo := search.NewPostgresRepository(mock)

	require.NoError(t, repo.Upsert(context.Background(), search.NewDocument(search.KindAdventure, "a-1", "Run1 Tahoe")))

	err := repo.Upsert(context.Background(), search.NewDocument(search.KindZone, "z-1", "Tahoe"))
	assert.True(t, apperr.Is(err, apperr.CodeInsertionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestSearchZones_ExcludingParent hides the parent and its direct children.
*/
func TestSearchZones_ExcludingParent(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`FROM zones z JOIN searchable_zones s ON s.zone_id = z.id LEFT JOIN zone_interactions zi ON zi.zone_child_id = z.id WHERE s.searchable_text ILIKE \$1 AND s.searchable_text ILIKE \$2 AND \(zi.parent_id IS NULL OR zi.parent_id <> \$3\) AND z.id <> \$4 ORDER BY z.zone_name ASC, z.id ASC LIMIT 50`).
		WithArgs("%alpine%", "%tahoe%", "p-1", "p-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "zone_name", "adventure_type", "nearest_city"}).
			AddRow("z-2", "Alpine Bowl", "ski", "Tahoe City"))

	hits, err := search.NewPostgresRepository(mock).SearchZones(context.Background(), search.Query{
		Words:    []string{"alpine", "tahoe"},
		ParentID: "p-1",
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, activity.Ski, hits[0].AdventureType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestService_EmptyText answers without touching the store.
*/
func TestService_EmptyText(t *testing.T) {
	mock := newMock(t)
	service := search.NewService(search.NewPostgresRepository(mock), quiet)

	adventures, err := service.SearchAdventures(context.Background(), "  !! ", "", pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, adventures)
	assert.NotNil(t, adventures)

	zones, err := service.SearchZones(context.Background(), "", "", pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, zones)
	assert.NoError(t, mock.ExpectationsWereMet())
}

/*
TestService_SearchAdventures folds the text before querying.
*/
func TestService_SearchAdventures(t *testing.T) {
	mock := newMock(t)

	mock.ExpectQuery(`FROM adventures a JOIN searchable_adventures s .* LIMIT 10 OFFSET 10`).
		WithArgs("%eglise%").
		WillReturnRows(pgxmock.NewRows([]string{"id", "adventure_name", "adventure_type", "nearest_city"}).
			AddRow("a-1", "Église Couloir", "skiApproach", "Chamonix"))

	hits, err := search.NewService(search.NewPostgresRepository(mock), quiet).SearchAdventures(context.Background(), "ÉGLISE", "", pagination.Params{Page: 2, Limit: 10})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, activity.SkiApproach, hits[0].AdventureType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, any) error { return errors.New("channel closed") }
func (failingPublisher) Close() error                       { return nil }

/*
TestIndexer counts each publish outcome and never fails on the broker.
*/
func TestIndexer(t *testing.T) {
	tests := []struct {
		name      string
		publisher broker.Publisher
		outcome   string
	}{
		{"disabled", broker.Disabled{}, metrics.OutcomeDisabled},
		{"failed", failingPublisher{}, metrics.OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectExec(`INSERT INTO searchable_zones`).
				WithArgs("z-1", "tahoe").
				WillReturnResult(pgxmock.NewResult("INSERT", 1))

			m := metrics.New()
			indexer := search.NewIndexer(search.NewPostgresRepository(mock), tt.publisher, m, quiet)

			require.NoError(t, indexer.Index(context.Background(), search.NewDocument(search.KindZone, "z-1", "Tahoe")))
			assert.Equal(t, 1.0, testutil.ToFloat64(m.SearchPublishes.WithLabelValues("zone", tt.outcome)))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

/*
TestIndexer_UpsertFailure skips the publish when the row cannot be written.
*/
func TestIndexer_UpsertFailure(t *testing.T) {
	mock := newMock(t)
	mock.ExpectExec(`INSERT INTO searchable_adventures`).WillReturnError(errors.New("timeout"))

	m := metrics.New()
	indexer := search.NewIndexer(search.NewPostgresRepository(mock), failingPublisher{}, m, quiet)

	err := indexer.Index(context.Background(), search.NewDocument(search.KindAdventure, "a-1", "Run1"))
	assert.Error(t, err)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SearchPublishes.WithLabelValues("adventure", metrics.OutcomeFailed)))
}
