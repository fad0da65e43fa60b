// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package breadcrumb rebuilds the root-to-node path of a zone or adventure.

The walk is a single recursive query that follows parent edges upward. Each
row carries its distance from the start node, and recursion stops one level
past the configured depth. Reaching that level, or meeting the same id twice,
means the edge table contains a cycle.
*/
package breadcrumb

import (
	"context"
	"fmt"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/platform/apperr"
	"github.com/taibuivan/sunday/internal/platform/database/schema"
	"github.com/taibuivan/sunday/internal/platform/dberr"
	"github.com/taibuivan/sunday/internal/platform/postgres"
)

// Category types
const (
	CategoryAdventure = "adventure"
	CategoryZone      = "zone"
)

// Crumb is one node on the path.
type Crumb struct {
	Name          string        `json:"name"`
	ID            string        `json:"id"`
	AdventureType activity.Type `json:"adventure_type"`
	CategoryType  string        `json:"category_type"`
}

// Builder runs breadcrumb walks against a pool or transaction.
type Builder struct {
	db       postgres.Querier
	maxDepth int
}

// NewBuilder bounds every walk to maxDepth ancestors.
func NewBuilder(db postgres.Querier, maxDepth int) *Builder {
	return &Builder{db: db, maxDepth: maxDepth}
}

// ForAdventure returns the path from the root zone down to the adventure.
func (builder *Builder) ForAdventure(context context.Context, adventureID string) ([]Crumb, error) {
	seed := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s AS name, zi.%s, 0 AS depth, '%s'::text AS category_type
		FROM %s a
		LEFT JOIN %s zi ON zi.%s = a.%s
		WHERE a.%s = $1`,
		schema.Adventures.ID, schema.Adventures.AdventureType, schema.Adventures.Name,
		schema.ZoneInteractions.ParentID, CategoryAdventure,
		schema.Adventures.Table,
		schema.ZoneInteractions.Table, schema.ZoneInteractions.AdventureChildID, schema.Adventures.ID,
		schema.Adventures.ID,
	)
	return builder.walk(context, seed, adventureID, "Adventure")
}

// ForZone returns the path from the root zone down to the zone itself.
func (builder *Builder) ForZone(context context.Context, zoneID string) ([]Crumb, error) {
	seed := fmt.Sprintf(`
		SELECT z.%s, z.%s, z.%s AS name, zi.%s, 0 AS depth, '%s'::text AS category_type
		FROM %s z
		LEFT JOIN %s zi ON zi.%s = z.%s
		WHERE z.%s = $1`,
		schema.Zones.ID, schema.Zones.AdventureType, schema.Zones.Name,
		schema.ZoneInteractions.ParentID, CategoryZone,
		schema.Zones.Table,
		schema.ZoneInteractions.Table, schema.ZoneInteractions.ZoneChildID, schema.Zones.ID,
		schema.Zones.ID,
	)
	return builder.walk(context, seed, zoneID, "Zone")
}

func (builder *Builder) walk(context context.Context, seed, startID, resource string) ([]Crumb, error) {
	query := fmt.Sprintf(`
		WITH RECURSIVE parents AS (%s
			UNION ALL
			SELECT z.%s, z.%s, z.%s, zi.%s, p.depth + 1, '%s'::text
			FROM parents p
			INNER JOIN %s z ON z.%s = p.%s
			LEFT JOIN %s zi ON zi.%s = z.%s
			WHERE p.depth < $2
		)
		SELECT name, %s, %s, category_type, depth FROM parents ORDER BY depth DESC`,
		seed,
		schema.Zones.ID, schema.Zones.AdventureType, schema.Zones.Name, schema.ZoneInteractions.ParentID, CategoryZone,
		schema.Zones.Table, schema.Zones.ID, schema.ZoneInteractions.ParentID,
		schema.ZoneInteractions.Table, schema.ZoneInteractions.ZoneChildID, schema.Zones.ID,
		schema.Zones.ID, schema.Zones.AdventureType,
	)

	// One extra level lets us tell a legitimately deep chain from a loop
	rows, err := builder.db.Query(context, query, startID, builder.maxDepth+1)
	if err != nil {
		return nil, dberr.Query(err, "build_breadcrumb")
	}
	defer rows.Close()

	crumbs := make([]Crumb, 0)
	seen := make(map[string]struct{})

	for rows.Next() {
		var (
			crumb         Crumb
			adventureType string
			depth         int
		)
		if err := rows.Scan(&crumb.Name, &crumb.ID, &adventureType, &crumb.CategoryType, &depth); err != nil {
			return nil, dberr.Query(err, "scan_breadcrumb")
		}

		if depth > builder.maxDepth {
			return nil, apperr.CycleDetected(startID)
		}
		if _, repeated := seen[crumb.ID]; repeated {
			return nil, apperr.CycleDetected(startID)
		}
		seen[crumb.ID] = struct{}{}

		crumb.AdventureType = activity.Type(adventureType)
		crumbs = append(crumbs, crumb)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Query(err, "iterate_breadcrumb")
	}

	if len(crumbs) == 0 {
		return nil, apperr.NotFound(resource)
	}

	return crumbs, nil
}
