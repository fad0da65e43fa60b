// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package zone

import (
	"context"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/core/geo"
)

// # Zone Data Access

// Repository defines the data access contract for zones and their edges.
//
// Every method runs against the pool, or against the open transaction when
// called on the repository handed to an [Repository.InTx] callback.
type Repository interface {

	/*
		InTx runs fn inside one transaction.

		The repository passed to fn is bound to the transaction; calling InTx on
		it again joins the same transaction.

		Parameters:
		  - context: context.Context
		  - fn: func(Repository) error

		Returns:
		  - error: fn's error, or the begin/commit failure
	*/
	InTx(context context.Context, fn func(Repository) error) error

	// # Reads

	/*
		GetZoneMetadata fetches a zone plus its creator's display identity.

		Returns:
		  - *Zone: Hydrated entity
		  - error: NOT_FOUND if missing
	*/
	GetZoneMetadata(context context.Context, zoneID string) (*Zone, error)

	// GetZoneAdventures returns the public direct adventure children of a zone.
	GetZoneAdventures(context context.Context, zoneID string) ([]AdventureSummary, error)

	// GetZoneSubzones returns the public direct zone children of a zone.
	GetZoneSubzones(context context.Context, zoneID string) ([]Summary, error)

	// GetZonesPerType returns every zone of one adventure type.
	GetZonesPerType(context context.Context, adventureType activity.Type) ([]Summary, error)

	/*
		GetZoneParent returns the id of the zone's parent.

		Returns:
		  - string: Parent id, empty for a root zone
		  - error: Database retrieval failures
	*/
	GetZoneParent(context context.Context, zoneID string) (string, error)

	/*
		GetAdventureZoneTypes reads the adventure and zone types of a prospective edge.

		Returns:
		  - activity.Type: The adventure's type
		  - activity.Type: The zone's type
		  - error: NOT_FOUND if either side is missing
	*/
	GetAdventureZoneTypes(context context.Context, adventureID, zoneID string) (activity.Type, activity.Type, error)

	// GetAdventureZoneMatch reports whether the adventure may live in the zone.
	GetAdventureZoneMatch(context context.Context, adventureID, zoneID string) (bool, error)

	/*
		GetZoneZoneTypes reads the parent and child types of a prospective edge.

		Returns:
		  - activity.Type: The parent's type
		  - activity.Type: The child's type
		  - error: NOT_FOUND if either zone is missing
	*/
	GetZoneZoneTypes(context context.Context, parentZoneID, childZoneID string) (activity.Type, activity.Type, error)

	// GetZoneZoneMatch reports whether the two zones share a type.
	GetZoneZoneMatch(context context.Context, parentZoneID, childZoneID string) (bool, error)

	/*
		GetZonesByDistance orders public zones of a type by squared distance.

		Ties fall back to creation order.

		Parameters:
		  - context: context.Context
		  - adventureType: activity.Type
		  - origin: geo.Coordinates
		  - count: int (Already bounded by the caller)

		Returns:
		  - []Summary: Closest zones first, with nearest_city and bio
		  - error: Database retrieval failures
	*/
	GetZonesByDistance(context context.Context, adventureType activity.Type, origin geo.Coordinates, count int) ([]Summary, error)

	// GetZonesExcludingParentByDistance is [Repository.GetZonesByDistance]
	// without the parent zone and its direct zone children.
	GetZonesExcludingParentByDistance(context context.Context, adventureType activity.Type, parentZoneID string, origin geo.Coordinates, count int) ([]Summary, error)

	// # Writes

	/*
		CreateZone inserts a validated zone.

		Returns:
		  - *Zone: The stored zone with its generated id
		  - error: INSERTION_FAILED on store errors
	*/
	CreateZone(context context.Context, input NewZone) (*Zone, error)

	// EditZoneField writes one column of a zone. A missing zone is NOT_FOUND.
	EditZoneField(context context.Context, field Field, value any, zoneID string) error

	// AddAdventureToZone upserts adventure edges, replacing any previous parent.
	AddAdventureToZone(context context.Context, adventureIDs []string, zoneID string) error

	// RemoveAdventureFromZone drops the parent edges of the adventures.
	RemoveAdventureFromZone(context context.Context, adventureIDs []string) error

	// AddChildZoneToZone upserts zone edges, replacing any previous parent.
	AddChildZoneToZone(context context.Context, childZoneIDs []string, parentZoneID string) error

	// RemoveChildZoneFromZone drops the parent edges of the zones.
	RemoveChildZoneFromZone(context context.Context, childZoneIDs []string) error

	// ReparentChildren points every direct child edge of zoneID at parentID.
	ReparentChildren(context context.Context, zoneID, parentID string) error

	/*
		DeleteZone removes every edge naming the zone, then the zone itself.

		It does not re-parent children.

		Returns:
		  - error: NOT_FOUND if the zone did not exist
	*/
	DeleteZone(context context.Context, zoneID string) error
}
