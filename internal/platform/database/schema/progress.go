// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ProgressTable represents a per-user adventure list ('completed_adventures', 'todo_adventures').
type ProgressTable struct {
	Table       string
	ID          string
	UserID      string
	AdventureID string
	Public      string
	DateCreated string
}

// CompletedAdventures is the schema definition for completed_adventures
var CompletedAdventures = ProgressTable{
	Table:       "completed_adventures",
	ID:          "id",
	UserID:      "user_id",
	AdventureID: "adventure_id",
	Public:      "public",
	DateCreated: "date_created",
}

// TodoAdventures is the schema definition for todo_adventures
var TodoAdventures = ProgressTable{
	Table:       "todo_adventures",
	ID:          "id",
	UserID:      "user_id",
	AdventureID: "adventure_id",
	Public:      "public",
	DateCreated: "date_created",
}
