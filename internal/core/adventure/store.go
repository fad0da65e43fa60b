// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package adventure

import (
	"context"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/core/geo"
)

// # Adventure Data Access

// Repository defines the data access contract for adventures.
type Repository interface {

	/*
		InTx runs fn inside one transaction.

		Parameters:
		  - context: context.Context
		  - fn: func(Repository) error

		Returns:
		  - error: fn's error, or the begin/commit failure
	*/
	InTx(context context.Context, fn func(Repository) error) error

	// # Reads

	/*
		GetAdventure fetches the general row, the detail row and the creator.

		Returns:
		  - *Adventure: Hydrated entity with split path and rounded tallies
		  - error: NOT_FOUND if no adventure of that type has the id
	*/
	GetAdventure(context context.Context, adventureID string, adventureType activity.Type) (*Adventure, error)

	// GetAdventureImages returns the thumbnail URLs of an adventure's pictures.
	GetAdventureImages(context context.Context, adventureID string) ([]string, error)

	// GetAdventureList returns the public adventures of a type that have no parent zone.
	GetAdventureList(context context.Context, adventureType activity.Type) ([]ListItem, error)

	/*
		GetNearestAdventures orders public adventures of a type by squared distance.

		Parameters:
		  - context: context.Context
		  - adventureType: activity.Type
		  - origin: geo.Coordinates
		  - count: int (Already bounded by the caller)

		Returns:
		  - []Summary: Closest first, ties in creation order
		  - error: Database retrieval failures
	*/
	GetNearestAdventures(context context.Context, adventureType activity.Type, origin geo.Coordinates, count int) ([]Summary, error)

	// GetNearestAdventuresExcludingZone is [Repository.GetNearestAdventures]
	// without the direct adventure children of zoneID.
	GetNearestAdventuresExcludingZone(context context.Context, adventureType activity.Type, zoneID string, origin geo.Coordinates, count int) ([]Summary, error)

	// GetRatingsForUpdate reads and locks the tallies of an adventure.
	GetRatingsForUpdate(context context.Context, adventureID string) (Ratings, error)

	// # Writes

	/*
		AddAdventures inserts validated adventures with their detail rows.

		Returns:
		  - []*Adventure: Stored adventures in type order (ski, climb, hike, bike, skiApproach)
		  - error: INSERTION_FAILED on store errors
	*/
	AddAdventures(context context.Context, inputs []NewAdventure) ([]*Adventure, error)

	// EditAdventureField writes one general or detail column. A missing adventure is NOT_FOUND.
	EditAdventureField(context context.Context, spec FieldSpec, value any, adventureID string, adventureType activity.Type) error

	// ClearAdventurePath resets the stored path and elevations to empty arrays.
	ClearAdventurePath(context context.Context, adventureID string, adventureType activity.Type) error

	// SetAdventurePath writes the joined path, its elevations and the elevation summary.
	SetAdventurePath(context context.Context, edit PathEdit, storedPath string) error

	// SetRatings writes both tallies of an adventure.
	SetRatings(context context.Context, adventureID string, ratings Ratings) error

	/*
		DeleteAdventure removes the edges, pictures, general row and detail row.

		Returns:
		  - []string: URLs of the removed pictures
		  - error: NOT_FOUND if no adventure of that type has the id
	*/
	DeleteAdventure(context context.Context, adventureID string, adventureType activity.Type) ([]string, error)

	// # Progress Lists

	/*
		AddToList puts an adventure on a user's list, or updates its visibility
		when it is already there.

		Returns:
		  - error: NOT_FOUND if the adventure does not exist
	*/
	AddToList(context context.Context, list List, mark Mark) error

	// RemoveFromList takes an adventure off a user's list and reports whether it was there.
	RemoveFromList(context context.Context, list List, userID, adventureID string) (bool, error)

	// GetListEntry reads one entry joined with its adventure and user.
	GetListEntry(context context.Context, list List, userID, adventureID string) (*Progress, error)

	// GetListedUsers returns the users with a public entry for the adventure, oldest first.
	GetListedUsers(context context.Context, list List, adventureID string) ([]ListedUser, error)

	// GetListedAdventures returns a user's entries, newest first. Private entries
	// are left out unless includePrivate is set.
	GetListedAdventures(context context.Context, list List, userID string, includePrivate bool) ([]ListedAdventure, error)

	// # Pictures

	// AddPicture registers an uploaded picture and returns its id. A missing
	// adventure is NOT_FOUND.
	AddPicture(context context.Context, picture Picture) (string, error)
}
