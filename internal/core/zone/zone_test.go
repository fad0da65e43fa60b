// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package zone_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sunday/internal/core/breadcrumb"
	"github.com/taibuivan/sunday/internal/core/search"
	"github.com/taibuivan/sunday/internal/core/zone"
	"github.com/taibuivan/sunday/internal/platform/apperr"
	"github.com/taibuivan/sunday/internal/platform/cache"
	"github.com/taibuivan/sunday/internal/platform/metrics"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// # Fixtures

type memoryBackend struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryBackend() *memoryBackend {
	return &memoryBackend{entries: make(map[string][]byte)}
}

func (backend *memoryBackend) Get(_ context.Context, key string) ([]byte, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	value, ok := backend.entries[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return value, nil
}

func (backend *memoryBackend) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	backend.entries[key] = value
	return nil
}

func (backend *memoryBackend) Delete(_ context.Context, keys ...string) error {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	for _, key := range keys {
		delete(backend.entries, key)
	}
	return nil
}

func (backend *memoryBackend) Keys(_ context.Context, prefix string) ([]string, error) {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	var keys []string
	for key := range backend.entries {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (backend *memoryBackend) has(key string) bool {
	backend.mu.Lock()
	defer backend.mu.Unlock()
	_, ok := backend.entries[key]
	return ok
}

type recordingIndexer struct {
	documents []search.Document
}

func (indexer *recordingIndexer) Index(_ context.Context, document search.Document) error {
	indexer.documents = append(indexer.documents, document)
	return nil
}

type fixture struct {
	mock    pgxmock.PgxPoolIface
	service *zone.Service
	backend *memoryBackend
	indexer *recordingIndexer
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	backend := newMemoryBackend()
	indexer := &recordingIndexer{}
	listings := cache.NewListings(backend, time.Minute, metrics.New(), quiet)

	service := zone.NewService(
		zone.NewPostgresRepository(mock),
		breadcrumb.NewBuilder(mock, 32),
		listings,
		indexer,
		zone.Options{StrictTypeCheck: strict, MaxDepth: 32, StoreTimeout: time.Second},
		quiet,
	)

	return &fixture{mock: mock, service: service, backend: backend, indexer: indexer}
}

var (
	summaryColumns   = []string{"id", "zone_name", "adventure_type", "coordinates_lat", "coordinates_lng", "public"}
	adventureColumns = []string{"id", "adventure_name", "adventure_type", "coordinates_lat", "coordinates_lng", "public"}
	metadataColumns  = []string{
		"id", "zone_name", "adventure_type", "bio", "approach", "nearest_city",
		"coordinates_lat", "coordinates_lng", "public", "creator_id", "date_created",
		"user_id", "name", "email", "profile_picture_url",
	}
	crumbColumns = []string{"name", "id", "adventure_type", "category_type", "depth"}
)

var metadataTime = time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

func metadataRow(zoneID, name string) *pgxmock.Rows {
	return pgxmock.NewRows(metadataColumns).AddRow(
		zoneID, name, "ski", "Big lines", "", "Truckee",
		39.0, -120.0, true, "u-1", metadataTime,
		"u-1", "Ada Lovelace", "ada@example.com", "",
	)
}

// expectZoneData registers the four reads of the aggregate view. Callers must
// disable ordered matching since the reads run concurrently.
func expectZoneData(mock pgxmock.PgxPoolIface, zoneID string) {
	mock.ExpectQuery(`INNER JOIN users u`).WithArgs(zoneID).WillReturnRows(metadataRow(zoneID, "Tahoe"))
	mock.ExpectQuery(`INNER JOIN adventures a ON a.id = zi.adventure_child_id`).WithArgs(zoneID).
		WillReturnRows(pgxmock.NewRows(adventureColumns).AddRow("a-1", "Run1", "ski", 39.01, -120.01, true))
	mock.ExpectQuery(`INNER JOIN zones z ON z.id = zi.zone_child_id`).WithArgs(zoneID).
		WillReturnRows(pgxmock.NewRows(summaryColumns))
	mock.ExpectQuery(`WITH RECURSIVE parents`).WithArgs(zoneID, 33).
		WillReturnRows(pgxmock.NewRows(crumbColumns).AddRow("Tahoe", zoneID, "ski", "zone", 0))
}

// # Model

/*
TestNewZone_Validate names the first missing field in declaration order.
*/
func TestNewZone_Validate(t *testing.T) {
	valid := func() zone.NewZone {
		lat, lng, public := 39.0, -120.0, false
		return zone.NewZone{
			Name:          "Tahoe",
			AdventureType: "ski",
			Lat:           &lat,
			Lng:           &lng,
			NearestCity:   "Truckee",
			Public:        &public,
			CreatorID:     "u-1",
		}
	}

	tests := []struct {
		name   string
		mutate func(*zone.NewZone)
		field  string
	}{
		{"name", func(z *zone.NewZone) { z.Name = " "; z.NearestCity = "" }, "zoneName"},
		{"type", func(z *zone.NewZone) { z.AdventureType = "" }, "adventureType"},
		{"unknown_type", func(z *zone.NewZone) { z.AdventureType = "kayak" }, "adventureType"},
		{"lat", func(z *zone.NewZone) { z.Lat = nil; z.Public = nil }, "coordinatesLat"},
		{"lng", func(z *zone.NewZone) { z.Lng = nil }, "coordinatesLng"},
		{"creator", func(z *zone.NewZone) { z.CreatorID = "" }, "creatorId"},
		{"city", func(z *zone.NewZone) { z.NearestCity = "" }, "nearestCity"},
		{"public", func(z *zone.NewZone) { z.Public = nil }, "isPublic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := valid()
			tt.mutate(&input)

			err := input.Validate()
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.CodeValidation))
			assert.True(t, strings.HasPrefix(err.Error(), tt.field+":"), err.Error())
		})
	}

	assert.NoError(t, valid().Validate())
}

/*
TestField covers parsing and value coercion of editable fields.
*/
func TestField(t *testing.T) {
	_, err := zone.ParseField("paths")
	assert.True(t, apperr.Is(err, apperr.CodeValidation))

	field, err := zone.ParseField("coordinates_lat")
	require.NoError(t, err)
	assert.True(t, field.AffectsListing())
	assert.False(t, field.Searchable())

	value, err := field.Coerce("39.5")
	require.NoError(t, err)
	assert.Equal(t, 39.5, value)

	_, err = field.Coerce(95.0)
	assert.Error(t, err)

	public, err := zone.FieldPublic.Coerce(false)
	require.NoError(t, err)
	assert.Equal(t, false, public)
	assert.Equal(t, "public", zone.FieldPublic.Column())

	_, err = zone.FieldName.Coerce("")
	assert.Error(t, err)
	assert.True(t, zone.FieldBio.Searchable())
}
