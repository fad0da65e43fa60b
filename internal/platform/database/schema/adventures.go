// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AdventuresTable represents the general 'adventures' table
type AdventuresTable struct {
	Table          string
	ID             string
	SpecificID     string
	Name           string
	AdventureType  string
	Bio            string
	NearestCity    string
	CoordinatesLat string
	CoordinatesLng string
	CreatorID      string
	Public         string
	Rating         string
	Difficulty     string
	DateCreated    string
}

// Adventures is the schema definition for adventures
var Adventures = AdventuresTable{
	Table:          "adventures",
	ID:             "id",
	SpecificID:     "specific_id",
	Name:           "adventure_name",
	AdventureType:  "adventure_type",
	Bio:            "bio",
	NearestCity:    "nearest_city",
	CoordinatesLat: "coordinates_lat",
	CoordinatesLng: "coordinates_lng",
	CreatorID:      "creator_id",
	Public:         "public",
	Rating:         "rating",
	Difficulty:     "difficulty",
	DateCreated:    "date_created",
}

// InsertColumns lists the columns written when an adventure is created.
func (t AdventuresTable) InsertColumns() []string {
	return []string{
		t.ID, t.SpecificID, t.Name, t.AdventureType, t.Bio, t.CoordinatesLat,
		t.CoordinatesLng, t.CreatorID, t.NearestCity, t.Public, t.Rating, t.Difficulty,
	}
}
