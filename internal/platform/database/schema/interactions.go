// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ZoneInteractionsTable represents the 'zone_interactions' edge table.
//
// Exactly one of ZoneChildID or AdventureChildID is set per row and each is
// unique, so a child has at most one parent.
type ZoneInteractionsTable struct {
	Table            string
	ID               string
	ParentID         string
	ZoneChildID      string
	AdventureChildID string
	InteractionType  string
}

// ZoneInteractions is the schema definition for zone_interactions
var ZoneInteractions = ZoneInteractionsTable{
	Table:            "zone_interactions",
	ID:               "id",
	ParentID:         "parent_id",
	ZoneChildID:      "zone_child_id",
	AdventureChildID: "adventure_child_id",
	InteractionType:  "interaction_type",
}

// Interaction types
const (
	InteractionZone      = "zone"
	InteractionAdventure = "adventure"
)
