// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"context"
	"log/slog"

	"github.com/taibuivan/sunday/pkg/pagination"
	"github.com/taibuivan/sunday/pkg/slug"
)

// Service answers keyword searches.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new search [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

/*
SearchAdventures finds adventures matching text.

Parameters:
  - context: context.Context
  - text: string (Free text, folded the same way as stored keywords)
  - parentID: string (Optional zone whose direct children are hidden)
  - page: pagination.Params (Zero value returns the first default-sized window)

Returns:
  - []AdventureHit: Empty when text has no usable words
  - error: Database retrieval failures
*/
func (service *Service) SearchAdventures(context context.Context, text, parentID string, page pagination.Params) ([]AdventureHit, error) {
	words := slug.Keywords(text)
	if len(words) == 0 {
		return []AdventureHit{}, nil
	}

	service.logger.Debug("search_adventures", slog.Any("words", words), slog.String("parent_id", parentID))
	return service.repo.SearchAdventures(context, Query{Words: words, ParentID: parentID, Page: page})
}

// SearchZones finds zones matching text. With a parent, the parent itself and
// its direct zone children are hidden.
func (service *Service) SearchZones(context context.Context, text, parentID string, page pagination.Params) ([]ZoneHit, error) {
	words := slug.Keywords(text)
	if len(words) == 0 {
		return []ZoneHit{}, nil
	}

	service.logger.Debug("search_zones", slog.Any("words", words), slog.String("parent_id", parentID))
	return service.repo.SearchZones(context, Query{Words: words, ParentID: parentID, Page: page})
}
