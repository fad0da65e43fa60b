// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SearchableTable represents a denormalized keyword row for one entity.
type SearchableTable struct {
	Table          string
	EntityID       string
	SearchableText string
}

var (
	SearchableZones = SearchableTable{
		Table:          "searchable_zones",
		EntityID:       "zone_id",
		SearchableText: "searchable_text",
	}

	SearchableAdventures = SearchableTable{
		Table:          "searchable_adventures",
		EntityID:       "adventure_id",
		SearchableText: "searchable_text",
	}
)
