// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import "context"

// Repository defines the data access contract for the keyword index.
type Repository interface {

	// Upsert replaces the searchable row of the document's entity.
	Upsert(context context.Context, document Document) error

	/*
		SearchAdventures returns adventures whose keywords contain every word.

		Parameters:
		  - context: context.Context
		  - query: Query (Words must be non-empty)

		Returns:
		  - []AdventureHit: Matches ordered by name
		  - error: Database retrieval failures
	*/
	SearchAdventures(context context.Context, query Query) ([]AdventureHit, error)

	// SearchZones is [Repository.SearchAdventures] for zones.
	SearchZones(context context.Context, query Query) ([]ZoneHit, error)
}
