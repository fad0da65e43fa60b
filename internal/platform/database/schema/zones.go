// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ZonesTable represents the 'zones' table
type ZonesTable struct {
	Table          string
	ID             string
	Name           string
	AdventureType  string
	Bio            string
	Approach       string
	NearestCity    string
	CoordinatesLat string
	CoordinatesLng string
	CreatorID      string
	Public         string
	DateCreated    string
}

// Zones is the schema definition for zones
var Zones = ZonesTable{
	Table:          "zones",
	ID:             "id",
	Name:           "zone_name",
	AdventureType:  "adventure_type",
	Bio:            "bio",
	Approach:       "approach",
	NearestCity:    "nearest_city",
	CoordinatesLat: "coordinates_lat",
	CoordinatesLng: "coordinates_lng",
	CreatorID:      "creator_id",
	Public:         "public",
	DateCreated:    "date_created",
}

func (t ZonesTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.AdventureType, t.Bio, t.Approach, t.NearestCity,
		t.CoordinatesLat, t.CoordinatesLng, t.CreatorID, t.Public, t.DateCreated,
	}
}
