// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package adventure stores adventures and serves their listings.

An adventure is split over two rows: the general row in the adventures table
and a detail row in the table of its type. Both rows are written and removed
in one transaction.

# Edits

Single-field edits are dispatched through [LookupField]; trail paths have
their own operation because a path, its elevation profile and the summary
elevations always change together.
*/
package adventure

import (
	"encoding/json"
	"time"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/core/geo"
	"github.com/taibuivan/sunday/internal/platform/validate"
)

// # Domain Entities

// Adventure is the full view of one adventure.
type Adventure struct {
	ID            string          `json:"id"`
	Name          string          `json:"adventure_name"`
	AdventureType activity.Type   `json:"adventure_type"`
	Bio           string          `json:"bio"`
	NearestCity   string          `json:"nearest_city"`
	Coordinates   geo.Coordinates `json:"coordinates"`
	Public        bool            `json:"public"`
	Rating        Tally           `json:"rating"`
	Difficulty    Tally           `json:"difficulty"`
	CreatorID     string          `json:"creator_id"`
	Creator       *Creator        `json:"creator,omitempty"`
	DateCreated   time.Time       `json:"date_created"`

	// Specific holds the detail columns of the adventure's type.
	Specific map[string]any `json:"specific"`

	Path       [][]float64     `json:"path"`
	Points     [][]float64     `json:"points"`
	Elevations json.RawMessage `json:"elevations"`
	Images     []string        `json:"images"`
}

// Creator is the display identity of the user who created an adventure.
type Creator struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

// Summary is an adventure as returned by proximity queries.
type Summary struct {
	ID            string          `json:"adventure_id"`
	Name          string          `json:"adventure_name"`
	AdventureType activity.Type   `json:"adventure_type"`
	Difficulty    Tally           `json:"difficulty"`
	Rating        Tally           `json:"rating"`
	NearestCity   string          `json:"nearest_city"`
	Coordinates   geo.Coordinates `json:"coordinates"`
}

// ListItem is one orphan adventure of the per-type listing.
type ListItem struct {
	ID            string
	Name          string
	AdventureType activity.Type
	Coordinates   geo.Coordinates
	Path          [][]float64
}

// Listing splits a type's orphan adventures into map points and trail lines.
type Listing struct {
	Points geo.FeatureCollection `json:"points"`
	Lines  geo.FeatureCollection `json:"lines"`
}

// # Input Models

// NewAdventure is the creation payload. Specific carries the detail columns of
// the adventure's type; missing ones take their column default.
type NewAdventure struct {
	Name          string          `json:"adventure_name"`
	AdventureType string          `json:"adventure_type"`
	Bio           string          `json:"bio"`
	NearestCity   string          `json:"nearest_city"`
	Lat           *float64        `json:"coordinates_lat"`
	Lng           *float64        `json:"coordinates_lng"`
	Public        *bool           `json:"public"`
	Rating        string          `json:"rating"`
	Difficulty    string          `json:"difficulty"`
	Specific      map[string]any  `json:"specific"`
	Path          [][]float64     `json:"path"`
	Points        [][]float64     `json:"points"`
	Elevations    json.RawMessage `json:"elevations"`
	CreatorID     string          `json:"-"`
}

/*
Validate checks the creation payload and names the first failing field.

Order: adventureName, adventureType, coordinatesLat, coordinatesLng,
creatorId, nearestCity, isPublic, then the tallies, the path and the detail
columns.
*/
func (input NewAdventure) Validate() error {
	validator := &validate.Validator{}

	validator.Required("adventureName", input.Name).
		MaxLen("adventureName", input.Name, 200).
		Required("adventureType", input.AdventureType).
		Custom("adventureType", input.AdventureType != "" && !activity.Type(input.AdventureType).Valid(), "Unknown adventure type").
		Present("coordinatesLat", input.Lat != nil)

	if input.Lat != nil {
		validator.Latitude("coordinatesLat", *input.Lat)
	}

	validator.Present("coordinatesLng", input.Lng != nil)
	if input.Lng != nil {
		validator.Longitude("coordinatesLng", *input.Lng)
	}

	validator.Required("creatorId", input.CreatorID).
		Required("nearestCity", input.NearestCity).
		Present("isPublic", input.Public != nil)

	_, ratingErr := ParseTally(input.Rating)
	_, difficultyErr := ParseTally(input.Difficulty)
	validator.Custom("rating", ratingErr != nil, "Must be formatted as value:count").
		Custom("difficulty", difficultyErr != nil, "Must be formatted as value:count")

	adventureType := activity.Type(input.AdventureType)
	hasPath := len(input.Path) > 0 || len(input.Points) > 0 || len(input.Elevations) > 0
	validator.Custom("path", adventureType == activity.Climb && hasPath, "Climbs do not carry a path").
		Custom("elevations", !isElevationArray(input.Elevations), "Must be a JSON array")

	if err := validator.Err(); err != nil {
		return err
	}

	_, _, err := specificRow(adventureType, input.Specific)
	return err
}

// PathEdit replaces the trail path of an adventure and its elevation summary.
type PathEdit struct {
	AdventureID     string          `json:"-"`
	AdventureType   string          `json:"adventure_type"`
	Action          string          `json:"action"`
	Path            [][]float64     `json:"path"`
	Points          [][]float64     `json:"points"`
	Elevations      json.RawMessage `json:"elevations"`
	SummitElevation int             `json:"summit_elevation"`
	BaseElevation   int             `json:"base_elevation"`
	Climb           int             `json:"climb"`
	Descent         int             `json:"descent"`
}

// Path edit actions. Remove clears the stored path before the new one is written.
const (
	ActionAdd    = "add"
	ActionRemove = "remove"
)

// Validate checks the path edit.
func (edit PathEdit) Validate() error {
	adventureType := activity.Type(edit.AdventureType)

	validator := &validate.Validator{}
	validator.Required("adventureType", edit.AdventureType).
		Custom("adventureType", edit.AdventureType != "" && !adventureType.HasPath(), "This adventure type has no path").
		Custom("action", edit.Action != "" && edit.Action != ActionAdd && edit.Action != ActionRemove, "Must be add or remove").
		Custom("elevations", !isElevationArray(edit.Elevations), "Must be a JSON array")

	return validator.Err()
}

// PathResult is the stored path after an edit, split for display.
type PathResult struct {
	Path   [][]float64 `json:"path"`
	Points [][]float64 `json:"points"`
}

// EditRequest is the body of a single-field edit.
type EditRequest struct {
	Name          string `json:"name"`
	Value         any    `json:"value"`
	AdventureType string `json:"adventure_type"`
}

// Vote is one user's rating and difficulty of an adventure.
type Vote struct {
	Rating     int `json:"rating"`
	Difficulty int `json:"difficulty"`
}

// Validate checks that both scores are between 1 and 5.
func (vote Vote) Validate() error {
	return (&validate.Validator{}).
		Range("rating", vote.Rating, 1, 5).
		Range("difficulty", vote.Difficulty, 1, 5).
		Err()
}

// Ratings is the pair of tallies after a vote.
type Ratings struct {
	Rating     Tally `json:"rating"`
	Difficulty Tally `json:"difficulty"`
}

// NearbyQuery is the input of a proximity lookup.
type NearbyQuery struct {
	AdventureType string
	Origin        *geo.Coordinates
	Count         int

	// ZoneID hides the zone's direct adventure children.
	ZoneID string
}
