// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/platform/constants"
	"github.com/taibuivan/sunday/internal/platform/database/schema"
	"github.com/taibuivan/sunday/internal/platform/dberr"
	"github.com/taibuivan/sunday/internal/platform/postgres"
	"github.com/taibuivan/sunday/pkg/pagination"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db postgres.Querier
}

// NewPostgresRepository constructs a PostgreSQL backed keyword index.
func NewPostgresRepository(db postgres.Querier) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Upsert writes the document into the table of its kind.
func (repository *PostgresRepository) Upsert(context context.Context, document Document) error {
	table := schema.SearchableZones
	if document.Kind == KindAdventure {
		table = schema.SearchableAdventures
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s) VALUES ($1, $2)
		ON CONFLICT (%s) DO UPDATE SET %s = EXCLUDED.%s`,
		table.Table, table.EntityID, table.SearchableText,
		table.EntityID, table.SearchableText, table.SearchableText,
	)

	if _, err := repository.db.Exec(context, query, document.ID, document.Text()); err != nil {
		return dberr.Insert(err, "upsert_searchable_"+string(document.Kind))
	}
	return nil
}

/*
SearchAdventures matches every word with ILIKE over searchable_text.

Description: With a parent, adventures whose edge points at that parent are
dropped. Adventures without any parent stay in the results.
*/
func (repository *PostgresRepository) SearchAdventures(context context.Context, query Query) ([]AdventureHit, error) {
	statement := matching(
		builder().
			Select(
				"a."+schema.Adventures.ID, "a."+schema.Adventures.Name,
				"a."+schema.Adventures.AdventureType, "a."+schema.Adventures.NearestCity,
			).
			From(schema.Adventures.Table+" a").
			Join(fmt.Sprintf("%s s ON s.%s = a.%s",
				schema.SearchableAdventures.Table, schema.SearchableAdventures.EntityID, schema.Adventures.ID)),
		query.Words,
	)

	if query.ParentID != "" {
		statement = excludingParent(statement, schema.ZoneInteractions.AdventureChildID, "a."+schema.Adventures.ID, query.ParentID)
	}

	sql, args, err := paged(
		statement.OrderBy("a."+schema.Adventures.Name+" ASC", "a."+schema.Adventures.ID+" ASC"),
		query.Page,
	).ToSql()
	if err != nil {
		return nil, dberr.Query(err, "build_search_adventures")
	}

	rows, err := repository.db.Query(context, sql, args...)
	if err != nil {
		return nil, dberr.Query(err, "search_adventures")
	}
	defer rows.Close()

	hits := make([]AdventureHit, 0)
	for rows.Next() {
		var (
			hit           AdventureHit
			adventureType string
		)
		if err := rows.Scan(&hit.ID, &hit.Name, &adventureType, &hit.NearestCity); err != nil {
			return nil, dberr.Query(err, "scan_search_adventure")
		}
		hit.AdventureType = activity.Type(adventureType)
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Query(err, "iterate_search_adventures")
	}
	return hits, nil
}

// SearchZones matches zones the same way as [PostgresRepository.SearchAdventures].
func (repository *PostgresRepository) SearchZones(context context.Context, query Query) ([]ZoneHit, error) {
	statement := matching(
		builder().
			Select(
				"z."+schema.Zones.ID, "z."+schema.Zones.Name,
				"z."+schema.Zones.AdventureType, "z."+schema.Zones.NearestCity,
			).
			From(schema.Zones.Table+" z").
			Join(fmt.Sprintf("%s s ON s.%s = z.%s",
				schema.SearchableZones.Table, schema.SearchableZones.EntityID, schema.Zones.ID)),
		query.Words,
	)

	if query.ParentID != "" {
		statement = excludingParent(statement, schema.ZoneInteractions.ZoneChildID, "z."+schema.Zones.ID, query.ParentID).
			Where(squirrel.NotEq{"z." + schema.Zones.ID: query.ParentID})
	}

	sql, args, err := paged(
		statement.OrderBy("z."+schema.Zones.Name+" ASC", "z."+schema.Zones.ID+" ASC"),
		query.Page,
	).ToSql()
	if err != nil {
		return nil, dberr.Query(err, "build_search_zones")
	}

	rows, err := repository.db.Query(context, sql, args...)
	if err != nil {
		return nil, dberr.Query(err, "search_zones")
	}
	defer rows.Close()

	hits := make([]ZoneHit, 0)
	for rows.Next() {
		var (
			hit           ZoneHit
			adventureType string
		)
		if err := rows.Scan(&hit.ID, &hit.Name, &adventureType, &hit.NearestCity); err != nil {
			return nil, dberr.Query(err, "scan_search_zone")
		}
		hit.AdventureType = activity.Type(adventureType)
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Query(err, "iterate_search_zones")
	}
	return hits, nil
}

// matching requires every word to appear in the keywords of alias s.
func matching(statement squirrel.SelectBuilder, words []string) squirrel.SelectBuilder {
	for _, word := range words {
		statement = statement.Where("s."+schema.SearchableZones.SearchableText+" ILIKE ?", "%"+word+"%")
	}
	return statement
}

// paged applies the requested window. A zero limit falls back to the default cap.
func paged(statement squirrel.SelectBuilder, page pagination.Params) squirrel.SelectBuilder {
	limit := page.Limit
	if limit <= 0 {
		limit = constants.SearchResultLimit
	}

	statement = statement.Limit(uint64(limit))
	if offset := page.Offset(); offset > 0 {
		statement = statement.Offset(uint64(offset))
	}
	return statement
}

func excludingParent(statement squirrel.SelectBuilder, childColumn, entityID, parentID string) squirrel.SelectBuilder {
	return statement.
		LeftJoin(fmt.Sprintf("%s zi ON zi.%s = %s", schema.ZoneInteractions.Table, childColumn, entityID)).
		Where(fmt.Sprintf("(zi.%s IS NULL OR zi.%s <> ?)",
			schema.ZoneInteractions.ParentID, schema.ZoneInteractions.ParentID), parentID)
}
