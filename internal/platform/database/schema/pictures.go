// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// AdventurePicturesTable represents the 'adventure_pictures' table
type AdventurePicturesTable struct {
	Table       string
	ID          string
	AdventureID string
	CreatorID   string
	URL         string
}

// AdventurePictures is the schema definition for adventure_pictures
var AdventurePictures = AdventurePicturesTable{
	Table:       "adventure_pictures",
	ID:          "id",
	AdventureID: "adventure_id",
	CreatorID:   "creator_id",
	URL:         "url",
}
