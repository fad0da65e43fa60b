// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package zone manages zones and the membership edges that hang adventures and
other zones beneath them.

A zone groups children sharing its adventure type. Every child has at most one
parent, so the edges form a forest that the breadcrumb walk climbs from any
node back to its root.

# Core Responsibility

  - Storage: [Repository] primitives over zones and zone_interactions.
  - Hierarchy: [Service] composes the primitives into transactional moves and
    the cascading delete that hands children to the deleted zone's parent.
  - Listings: per-type GeoJSON collections served through the listing cache.
*/
package zone

import (
	"strings"
	"time"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/core/breadcrumb"
	"github.com/taibuivan/sunday/internal/core/geo"
	"github.com/taibuivan/sunday/internal/platform/database/schema"
	"github.com/taibuivan/sunday/internal/platform/validate"
	"github.com/taibuivan/sunday/pkg/convert"
)

// # Core Entities

// Zone is a named geographic grouping node.
type Zone struct {
	ID            string          `json:"id"` // UUIDv7
	Name          string          `json:"zone_name"`
	AdventureType activity.Type   `json:"adventure_type"`
	Bio           string          `json:"bio"`
	Approach      string          `json:"approach"`
	NearestCity   string          `json:"nearest_city"`
	Coordinates   geo.Coordinates `json:"coordinates"`
	Public        bool            `json:"public"`
	CreatorID     string          `json:"creator_id"`
	Creator       *Creator        `json:"creator,omitempty"`
	DateCreated   time.Time       `json:"date_created"`
}

// Creator is the display identity of the user who created a zone.
type Creator struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

// Summary is the compact form used for child lists, listings and proximity results.
type Summary struct {
	ID            string          `json:"zone_id"`
	Name          string          `json:"zone_name"`
	AdventureType activity.Type   `json:"adventure_type"`
	Coordinates   geo.Coordinates `json:"coordinates"`
	Public        bool            `json:"public"`
	NearestCity   string          `json:"nearest_city,omitempty"`
	Bio           string          `json:"bio,omitempty"`
}

// AdventureSummary is a direct adventure child of a zone.
type AdventureSummary struct {
	ID            string          `json:"adventure_id"`
	Name          string          `json:"adventure_name"`
	AdventureType activity.Type   `json:"adventure_type"`
	Coordinates   geo.Coordinates `json:"coordinates"`
	Public        bool            `json:"public"`
}

// Detail is the aggregate view of one zone.
//
// Images is always empty; zones do not carry pictures yet.
type Detail struct {
	*Zone
	Adventures []AdventureSummary `json:"adventures"`
	Zones      []Summary          `json:"zones"`
	Breadcrumb []breadcrumb.Crumb `json:"breadcrumb"`
	Images     []string           `json:"images"`
}

// Removed lists the children freed by a cascading delete.
type Removed struct {
	ChildAdventures []AdventureSummary `json:"child_adventures"`
	ChildZones      []Summary          `json:"child_zones"`
}

// # Inputs

// NewZone is the creation payload.
//
// Coordinates and the public flag are pointers so a zero value can be told
// apart from a missing one.
type NewZone struct {
	Name          string   `json:"zoneName"`
	AdventureType string   `json:"adventureType"`
	Bio           string   `json:"bio"`
	Approach      string   `json:"approach"`
	Lat           *float64 `json:"coordinatesLat"`
	Lng           *float64 `json:"coordinatesLng"`
	NearestCity   string   `json:"nearestCity"`
	Public        *bool    `json:"public"`
	CreatorID     string   `json:"-"`
}

/*
Validate checks the creation payload.

The message names the first failing field in the order zoneName,
adventureType, coordinatesLat, coordinatesLng, creatorId, nearestCity,
isPublic.

Returns:
  - error: VALIDATION_ERROR on the first missing or malformed field
*/
func (input NewZone) Validate() error {
	validator := &validate.Validator{}

	validator.Required("zoneName", input.Name).
		MaxLen("zoneName", input.Name, 200).
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

	return validator.Err()
}

// NearbyQuery selects the zones closest to a point.
type NearbyQuery struct {
	AdventureType string
	Origin        *geo.Coordinates
	Count         int

	// ParentID, when set, drops the parent itself and its direct children.
	ParentID string
}

// # Field Identifiers

// Field is an editable zone property.
type Field string

const (
	FieldName        Field = "zone_name"
	FieldBio         Field = "bio"
	FieldApproach    Field = "approach"
	FieldLat         Field = "coordinates_lat"
	FieldLng         Field = "coordinates_lng"
	FieldNearestCity Field = "nearest_city"
	FieldPublic      Field = "is_public"
)

var fieldColumns = map[Field]string{
	FieldName:        schema.Zones.Name,
	FieldBio:         schema.Zones.Bio,
	FieldApproach:    schema.Zones.Approach,
	FieldLat:         schema.Zones.CoordinatesLat,
	FieldLng:         schema.Zones.CoordinatesLng,
	FieldNearestCity: schema.Zones.NearestCity,
	FieldPublic:      schema.Zones.Public,
}

// ParseField maps a client field name onto a [Field].
func ParseField(raw string) (Field, error) {
	field := Field(strings.TrimSpace(raw))
	if _, ok := fieldColumns[field]; !ok {
		return "", validate.RequiredError("name", "Unknown zone field "+raw)
	}
	return field, nil
}

// Column is the zones column the field writes.
func (field Field) Column() string {
	return fieldColumns[field]
}

// Coerce converts a decoded JSON value into the column's Go type.
func (field Field) Coerce(value any) (any, error) {
	switch field {
	case FieldLat, FieldLng:
		number, ok := convert.AnyToFloat64(value)
		if !ok {
			return nil, validate.RequiredError("value", "Must be a number")
		}
		if field == FieldLat && (number < -90 || number > 90) {
			return nil, validate.RequiredError("value", "Invalid latitude")
		}
		if field == FieldLng && (number < -180 || number > 180) {
			return nil, validate.RequiredError("value", "Invalid longitude")
		}
		return number, nil

	case FieldPublic:
		flag, ok := convert.AnyToBool(value)
		if !ok {
			return nil, validate.RequiredError("value", "Must be a boolean")
		}
		return flag, nil
	}

	text, ok := convert.AnyToString(value)
	if !ok {
		return nil, validate.RequiredError("value", "Must be a string")
	}
	if field == FieldName && strings.TrimSpace(text) == "" {
		return nil, validate.RequiredError("value", "This field is required")
	}
	return text, nil
}

// AffectsListing reports whether the per-type zone listing shows this field.
func (field Field) AffectsListing() bool {
	switch field {
	case FieldLat, FieldLng, FieldName, FieldPublic:
		return true
	}
	return false
}

// Searchable reports whether the field feeds the zone's search keywords.
func (field Field) Searchable() bool {
	switch field {
	case FieldName, FieldBio, FieldNearestCity:
		return true
	}
	return false
}

// EditRequest is the body of a single-field edit.
type EditRequest struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

