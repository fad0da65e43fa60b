// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package zone

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/core/geo"
	"github.com/taibuivan/sunday/internal/platform/apperr"
	"github.com/taibuivan/sunday/internal/platform/database/schema"
	"github.com/taibuivan/sunday/internal/platform/dberr"
	"github.com/taibuivan/sunday/internal/platform/postgres"
	"github.com/taibuivan/sunday/pkg/slice"
	"github.com/taibuivan/sunday/pkg/uuid"
)

// builder returns a squirrel statement builder emitting $n placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db   postgres.DB
	q    postgres.Querier
	inTx bool
}

// NewPostgresRepository constructs a PostgreSQL backed zone store.
func NewPostgresRepository(db postgres.DB) *PostgresRepository {
	return &PostgresRepository{db: db, q: db}
}

// InTx runs fn against a repository bound to a single transaction.
func (repository *PostgresRepository) InTx(context context.Context, fn func(Repository) error) error {
	if repository.inTx {
		return fn(repository)
	}

	return postgres.InTx(context, repository.db, func(tx pgx.Tx) error {
		return fn(&PostgresRepository{db: repository.db, q: tx, inTx: true})
	}, func(err error) error {
		return dberr.Update(err, "zone_transaction")
	})
}

// # Zone Retrieval

/*
GetZoneMetadata retrieves a zone joined with its creator.

Parameters:
  - context: context.Context
  - zoneID: string

Returns:
  - *Zone: Hydrated entity
  - error: NOT_FOUND if missing
*/
func (repository *PostgresRepository) GetZoneMetadata(context context.Context, zoneID string) (*Zone, error) {
	query := fmt.Sprintf(`
		SELECT
			z.%s, z.%s, z.%s, z.%s, z.%s, z.%s,
			z.%s, z.%s, z.%s, z.%s, z.%s,
			u.%s, concat_ws(' ', u.%s, u.%s), u.%s, u.%s
		FROM %s z
		INNER JOIN %s u ON u.%s = z.%s
		WHERE z.%s = $1`,
		schema.Zones.ID, schema.Zones.Name, schema.Zones.AdventureType, schema.Zones.Bio, schema.Zones.Approach, schema.Zones.NearestCity,
		schema.Zones.CoordinatesLat, schema.Zones.CoordinatesLng, schema.Zones.Public, schema.Zones.CreatorID, schema.Zones.DateCreated,
		schema.Users.ID, schema.Users.FirstName, schema.Users.LastName, schema.Users.Email, schema.Users.ProfilePictureURL,
		schema.Zones.Table,
		schema.Users.Table, schema.Users.ID, schema.Zones.CreatorID,
		schema.Zones.ID,
	)

	var (
		zone          Zone
		creator       Creator
		adventureType string
	)
	err := repository.q.QueryRow(context, query, zoneID).Scan(
		&zone.ID, &zone.Name, &adventureType, &zone.Bio, &zone.Approach, &zone.NearestCity,
		&zone.Coordinates.Lat, &zone.Coordinates.Lng, &zone.Public, &zone.CreatorID, &zone.DateCreated,
		&creator.ID, &creator.Name, &creator.Email, &creator.ProfilePictureURL,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Zone")
		}
		return nil, dberr.Query(err, "get_zone_metadata")
	}

	zone.AdventureType = activity.Type(adventureType)
	zone.Creator = &creator
	return &zone, nil
}

// GetZoneAdventures lists the public adventures whose edge points at the zone.
func (repository *PostgresRepository) GetZoneAdventures(context context.Context, zoneID string) ([]AdventureSummary, error) {
	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, a.%s, a.%s
		FROM %s zi
		INNER JOIN %s a ON a.%s = zi.%s
		WHERE zi.%s = $1 AND a.%s = TRUE
		ORDER BY a.%s ASC, a.%s ASC`,
		schema.Adventures.ID, schema.Adventures.Name, schema.Adventures.AdventureType,
		schema.Adventures.CoordinatesLat, schema.Adventures.CoordinatesLng, schema.Adventures.Public,
		schema.ZoneInteractions.Table,
		schema.Adventures.Table, schema.Adventures.ID, schema.ZoneInteractions.AdventureChildID,
		schema.ZoneInteractions.ParentID, schema.Adventures.Public,
		schema.Adventures.DateCreated, schema.Adventures.ID,
	)

	rows, err := repository.q.Query(context, query, zoneID)
	if err != nil {
		return nil, dberr.Query(err, "get_zone_adventures")
	}
	defer rows.Close()

	adventures := make([]AdventureSummary, 0)
	for rows.Next() {
		var (
			adventure     AdventureSummary
			adventureType string
		)
		if err := rows.Scan(
			&adventure.ID, &adventure.Name, &adventureType,
			&adventure.Coordinates.Lat, &adventure.Coordinates.Lng, &adventure.Public,
		); err != nil {
			return nil, dberr.Query(err, "scan_zone_adventure")
		}
		adventure.AdventureType = activity.Type(adventureType)
		adventures = append(adventures, adventure)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Query(err, "iterate_zone_adventures")
	}
	return adventures, nil
}

// GetZoneSubzones lists the public zones whose edge points at the zone.
func (repository *PostgresRepository) GetZoneSubzones(context context.Context, zoneID string) ([]Summary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s zi
		INNER JOIN %s z ON z.%s = zi.%s
		WHERE zi.%s = $1 AND z.%s = TRUE
		ORDER BY z.%s ASC, z.%s ASC`,
		summaryColumns(false),
		schema.ZoneInteractions.Table,
		schema.Zones.Table, schema.Zones.ID, schema.ZoneInteractions.ZoneChildID,
		schema.ZoneInteractions.ParentID, schema.Zones.Public,
		schema.Zones.DateCreated, schema.Zones.ID,
	)

	rows, err := repository.q.Query(context, query, zoneID)
	if err != nil {
		return nil, dberr.Query(err, "get_zone_subzones")
	}

	zones, err := collectSummaries(rows, false)
	if err != nil {
		return nil, dberr.Query(err, "scan_zone_subzones")
	}
	return zones, nil
}

// GetZonesPerType lists every zone of a type, public or not.
func (repository *PostgresRepository) GetZonesPerType(context context.Context, adventureType activity.Type) ([]Summary, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s z
		WHERE z.%s = $1
		ORDER BY z.%s ASC, z.%s ASC`,
		summaryColumns(false),
		schema.Zones.Table,
		schema.Zones.AdventureType,
		schema.Zones.DateCreated, schema.Zones.ID,
	)

	rows, err := repository.q.Query(context, query, string(adventureType))
	if err != nil {
		return nil, dberr.Query(err, "get_zones_per_type")
	}

	zones, err := collectSummaries(rows, false)
	if err != nil {
		return nil, dberr.Query(err, "scan_zones_per_type")
	}
	return zones, nil
}

// GetZoneParent returns the parent id or "" when the zone is a root.
func (repository *PostgresRepository) GetZoneParent(context context.Context, zoneID string) (string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.ZoneInteractions.ParentID, schema.ZoneInteractions.Table, schema.ZoneInteractions.ZoneChildID,
	)

	var parentID string
	if err := repository.q.QueryRow(context, query, zoneID).Scan(&parentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", dberr.Query(err, "get_zone_parent")
	}
	return parentID, nil
}

// # Type Matching

// GetAdventureZoneTypes reads both sides of an adventure edge in one round trip.
func (repository *PostgresRepository) GetAdventureZoneTypes(context context.Context, adventureID, zoneID string) (activity.Type, activity.Type, error) {
	query := fmt.Sprintf(`
		SELECT a.%s, z.%s
		FROM %s a CROSS JOIN %s z
		WHERE a.%s = $1 AND z.%s = $2`,
		schema.Adventures.AdventureType, schema.Zones.AdventureType,
		schema.Adventures.Table, schema.Zones.Table,
		schema.Adventures.ID, schema.Zones.ID,
	)

	var child, parent string
	if err := repository.q.QueryRow(context, query, adventureID, zoneID).Scan(&child, &parent); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", apperr.NotFound("Adventure or zone")
		}
		return "", "", dberr.Query(err, "get_adventure_zone_types")
	}
	return activity.Type(child), activity.Type(parent), nil
}

// GetAdventureZoneMatch applies [activity.Compatible] to the stored types.
func (repository *PostgresRepository) GetAdventureZoneMatch(context context.Context, adventureID, zoneID string) (bool, error) {
	child, parent, err := repository.GetAdventureZoneTypes(context, adventureID, zoneID)
	if err != nil {
		return false, err
	}
	return activity.Compatible(child, parent), nil
}

// GetZoneZoneTypes reads both sides of a zone edge in one round trip.
func (repository *PostgresRepository) GetZoneZoneTypes(context context.Context, parentZoneID, childZoneID string) (activity.Type, activity.Type, error) {
	query := fmt.Sprintf(`
		SELECT p.%s, c.%s
		FROM %s p CROSS JOIN %s c
		WHERE p.%s = $1 AND c.%s = $2`,
		schema.Zones.AdventureType, schema.Zones.AdventureType,
		schema.Zones.Table, schema.Zones.Table,
		schema.Zones.ID, schema.Zones.ID,
	)

	var parent, child string
	if err := repository.q.QueryRow(context, query, parentZoneID, childZoneID).Scan(&parent, &child); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", "", apperr.NotFound("Zone")
		}
		return "", "", dberr.Query(err, "get_zone_zone_types")
	}
	return activity.Type(parent), activity.Type(child), nil
}

// GetZoneZoneMatch is true only for identical types.
func (repository *PostgresRepository) GetZoneZoneMatch(context context.Context, parentZoneID, childZoneID string) (bool, error) {
	parent, child, err := repository.GetZoneZoneTypes(context, parentZoneID, childZoneID)
	if err != nil {
		return false, err
	}
	return parent == child, nil
}

// # Proximity

/*
GetZonesByDistance returns the closest public zones of a type.

Description: Squared euclidean distance over raw lat/lng, ties broken by
creation order then id.

Parameters:
  - context: context.Context
  - adventureType: activity.Type
  - origin: geo.Coordinates
  - count: int

Returns:
  - []Summary: Nearest zones first
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) GetZonesByDistance(context context.Context, adventureType activity.Type, origin geo.Coordinates, count int) ([]Summary, error) {
	return repository.runNearby(context, nearbyQuery(adventureType, origin, count), "get_zones_by_distance")
}

// GetZonesExcludingParentByDistance also drops the parent and its direct zone children.
func (repository *PostgresRepository) GetZonesExcludingParentByDistance(context context.Context, adventureType activity.Type, parentZoneID string, origin geo.Coordinates, count int) ([]Summary, error) {
	query := nearbyQuery(adventureType, origin, count).
		LeftJoin(fmt.Sprintf("%s zi ON zi.%s = z.%s",
			schema.ZoneInteractions.Table, schema.ZoneInteractions.ZoneChildID, schema.Zones.ID)).
		Where(squirrel.NotEq{"z." + schema.Zones.ID: parentZoneID}).
		Where(fmt.Sprintf("(zi.%s IS NULL OR zi.%s <> ?)",
			schema.ZoneInteractions.ParentID, schema.ZoneInteractions.ParentID), parentZoneID)

	return repository.runNearby(context, query, "get_zones_excluding_parent")
}

func nearbyQuery(adventureType activity.Type, origin geo.Coordinates, count int) squirrel.SelectBuilder {
	return builder().
		Select(summaryColumns(true)).
		From(schema.Zones.Table + " z").
		Where(squirrel.Eq{"z." + schema.Zones.AdventureType: string(adventureType)}).
		Where("z." + schema.Zones.Public + " = TRUE").
		OrderByClause(fmt.Sprintf("power(z.%s - ?, 2) + power(z.%s - ?, 2) ASC",
			schema.Zones.CoordinatesLat, schema.Zones.CoordinatesLng), origin.Lat, origin.Lng).
		OrderBy("z."+schema.Zones.DateCreated+" ASC", "z."+schema.Zones.ID+" ASC").
		Limit(uint64(count))
}

func (repository *PostgresRepository) runNearby(context context.Context, query squirrel.SelectBuilder, action string) ([]Summary, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, dberr.Query(err, action)
	}

	rows, err := repository.q.Query(context, sql, args...)
	if err != nil {
		return nil, dberr.Query(err, action)
	}

	zones, err := collectSummaries(rows, true)
	if err != nil {
		return nil, dberr.Query(err, action)
	}
	return zones, nil
}

// # Zone Mutation

/*
CreateZone inserts a zone under a freshly generated id.

Parameters:
  - context: context.Context
  - input: NewZone (Already validated)

Returns:
  - *Zone: Stored zone
  - error: INSERTION_FAILED on store errors
*/
func (repository *PostgresRepository) CreateZone(context context.Context, input NewZone) (*Zone, error) {
	zone := &Zone{
		ID:            uuid.New(),
		Name:          input.Name,
		AdventureType: activity.Type(input.AdventureType),
		Bio:           input.Bio,
		Approach:      input.Approach,
		NearestCity:   input.NearestCity,
		Coordinates:   geo.Coordinates{Lat: *input.Lat, Lng: *input.Lng},
		Public:        *input.Public,
		CreatorID:     input.CreatorID,
	}

	query, args, err := builder().
		Insert(schema.Zones.Table).
		Columns(
			schema.Zones.ID, schema.Zones.Name, schema.Zones.AdventureType, schema.Zones.Bio, schema.Zones.Approach,
			schema.Zones.NearestCity, schema.Zones.CoordinatesLat, schema.Zones.CoordinatesLng, schema.Zones.CreatorID, schema.Zones.Public,
		).
		Values(
			zone.ID, zone.Name, string(zone.AdventureType), zone.Bio, zone.Approach,
			zone.NearestCity, zone.Coordinates.Lat, zone.Coordinates.Lng, zone.CreatorID, zone.Public,
		).
		Suffix("RETURNING " + schema.Zones.DateCreated).
		ToSql()
	if err != nil {
		return nil, dberr.Insert(err, "build_create_zone")
	}

	if err := repository.q.QueryRow(context, query, args...).Scan(&zone.DateCreated); err != nil {
		return nil, dberr.Insert(err, "create_zone")
	}

	return zone, nil
}

// EditZoneField updates the column behind field.
func (repository *PostgresRepository) EditZoneField(context context.Context, field Field, value any, zoneID string) error {
	query, args, err := builder().
		Update(schema.Zones.Table).
		Set(field.Column(), value).
		Where(squirrel.Eq{schema.Zones.ID: zoneID}).
		ToSql()
	if err != nil {
		return dberr.Update(err, "build_edit_zone")
	}

	tag, err := repository.q.Exec(context, query, args...)
	if err != nil {
		return dberr.Update(err, "edit_zone_field")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Zone")
	}
	return nil
}

// # Edge Mutation

// AddAdventureToZone upserts one edge per adventure.
func (repository *PostgresRepository) AddAdventureToZone(context context.Context, adventureIDs []string, zoneID string) error {
	return repository.upsertEdges(context, schema.ZoneInteractions.AdventureChildID, schema.InteractionAdventure, adventureIDs, zoneID, "add_adventure_to_zone")
}

// RemoveAdventureFromZone deletes the edges of the adventures.
func (repository *PostgresRepository) RemoveAdventureFromZone(context context.Context, adventureIDs []string) error {
	return repository.removeEdges(context, schema.ZoneInteractions.AdventureChildID, adventureIDs, "remove_adventure_from_zone")
}

// AddChildZoneToZone upserts one edge per child zone.
func (repository *PostgresRepository) AddChildZoneToZone(context context.Context, childZoneIDs []string, parentZoneID string) error {
	return repository.upsertEdges(context, schema.ZoneInteractions.ZoneChildID, schema.InteractionZone, childZoneIDs, parentZoneID, "add_child_zone_to_zone")
}

// RemoveChildZoneFromZone deletes the edges of the child zones.
func (repository *PostgresRepository) RemoveChildZoneFromZone(context context.Context, childZoneIDs []string) error {
	return repository.removeEdges(context, schema.ZoneInteractions.ZoneChildID, childZoneIDs, "remove_child_zone_from_zone")
}

/*
upsertEdges writes edges in one multi-row statement.

Description: The child column is unique, so a conflicting row is the child's
previous parent edge and gets repointed in place.
*/
func (repository *PostgresRepository) upsertEdges(context context.Context, childColumn, interaction string, childIDs []string, parentID, action string) error {
	childIDs = distinct(childIDs)
	if len(childIDs) == 0 {
		return nil
	}

	insert := builder().
		Insert(schema.ZoneInteractions.Table).
		Columns(schema.ZoneInteractions.ID, childColumn, schema.ZoneInteractions.ParentID, schema.ZoneInteractions.InteractionType)
	for _, childID := range childIDs {
		insert = insert.Values(uuid.New(), childID, parentID, interaction)
	}

	query, args, err := insert.
		Suffix(fmt.Sprintf("ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s",
			childColumn, schema.ZoneInteractions.ParentID, schema.ZoneInteractions.ParentID)).
		ToSql()
	if err != nil {
		return dberr.Insert(err, action)
	}

	if _, err := repository.q.Exec(context, query, args...); err != nil {
		return dberr.Insert(err, action)
	}
	return nil
}

func (repository *PostgresRepository) removeEdges(context context.Context, childColumn string, childIDs []string, action string) error {
	childIDs = distinct(childIDs)
	if len(childIDs) == 0 {
		return nil
	}

	query, args, err := builder().
		Delete(schema.ZoneInteractions.Table).
		Where(squirrel.Eq{childColumn: childIDs}).
		ToSql()
	if err != nil {
		return dberr.Delete(err, action)
	}

	if _, err := repository.q.Exec(context, query, args...); err != nil {
		return dberr.Delete(err, action)
	}
	return nil
}

// ReparentChildren repoints every edge whose parent is zoneID, private children included.
func (repository *PostgresRepository) ReparentChildren(context context.Context, zoneID, parentID string) error {
	query, args, err := builder().
		Update(schema.ZoneInteractions.Table).
		Set(schema.ZoneInteractions.ParentID, parentID).
		Where(squirrel.Eq{schema.ZoneInteractions.ParentID: zoneID}).
		ToSql()
	if err != nil {
		return dberr.Update(err, "reparent_children")
	}

	if _, err := repository.q.Exec(context, query, args...); err != nil {
		return dberr.Update(err, "reparent_children")
	}
	return nil
}

/*
DeleteZone removes the zone's edges in both directions, then the zone row.

The searchable row goes with it through its foreign key.
*/
func (repository *PostgresRepository) DeleteZone(context context.Context, zoneID string) error {
	edges, edgeArgs, err := builder().
		Delete(schema.ZoneInteractions.Table).
		Where(squirrel.Or{
			squirrel.Eq{schema.ZoneInteractions.ParentID: zoneID},
			squirrel.Eq{schema.ZoneInteractions.ZoneChildID: zoneID},
		}).
		ToSql()
	if err != nil {
		return dberr.Delete(err, "delete_zone_edges")
	}

	if _, err := repository.q.Exec(context, edges, edgeArgs...); err != nil {
		return dberr.Delete(err, "delete_zone_edges")
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.Zones.Table, schema.Zones.ID)
	tag, err := repository.q.Exec(context, query, zoneID)
	if err != nil {
		return dberr.Delete(err, "delete_zone")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Zone")
	}
	return nil
}

// # Helpers

// summaryColumns lists the [Summary] columns of alias z. extended adds the
// nearest_city and bio carried by proximity results.
func summaryColumns(extended bool) string {
	columns := fmt.Sprintf("z.%s, z.%s, z.%s, z.%s, z.%s, z.%s",
		schema.Zones.ID, schema.Zones.Name, schema.Zones.AdventureType,
		schema.Zones.CoordinatesLat, schema.Zones.CoordinatesLng, schema.Zones.Public,
	)
	if extended {
		columns += fmt.Sprintf(", z.%s, z.%s", schema.Zones.NearestCity, schema.Zones.Bio)
	}
	return columns
}

func collectSummaries(rows pgx.Rows, extended bool) ([]Summary, error) {
	defer rows.Close()

	zones := make([]Summary, 0)
	for rows.Next() {
		var (
			zone          Summary
			adventureType string
		)
		targets := []any{
			&zone.ID, &zone.Name, &adventureType,
			&zone.Coordinates.Lat, &zone.Coordinates.Lng, &zone.Public,
		}
		if extended {
			targets = append(targets, &zone.NearestCity, &zone.Bio)
		}

		if err := rows.Scan(targets...); err != nil {
			return nil, err
		}
		zone.AdventureType = activity.Type(adventureType)
		zones = append(zones, zone)
	}

	return zones, rows.Err()
}

// distinct drops blanks and repeats; a multi-row upsert may not touch the same child twice.
func distinct(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	return slice.Filter(ids, func(id string) bool {
		if id == "" {
			return false
		}
		if _, repeated := seen[id]; repeated {
			return false
		}
		seen[id] = struct{}{}
		return true
	})
}
