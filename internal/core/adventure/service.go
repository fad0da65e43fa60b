// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package adventure

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/core/breadcrumb"
	"github.com/taibuivan/sunday/internal/core/geo"
	"github.com/taibuivan/sunday/internal/core/search"
	"github.com/taibuivan/sunday/internal/platform/apperr"
	"github.com/taibuivan/sunday/internal/platform/cache"
	"github.com/taibuivan/sunday/internal/platform/constants"
	"github.com/taibuivan/sunday/internal/platform/images"
	"github.com/taibuivan/sunday/internal/platform/validate"
)

// # Collaborators

// Breadcrumbs rebuilds the root-first path of an adventure.
type Breadcrumbs interface {
	ForAdventure(context context.Context, adventureID string) ([]breadcrumb.Crumb, error)
}

// Indexer stores and publishes search documents.
type Indexer interface {
	Index(context context.Context, document search.Document) error
}

// Options carries the settings read from configuration.
type Options struct {

	// StoreTimeout bounds each service operation's store calls. Zero disables it.
	StoreTimeout time.Duration
}

// # Service Layer

// Service orchestrates adventure storage, listings, ratings and user lists.
type Service struct {
	repo     Repository
	crumbs   Breadcrumbs
	listings *cache.Listings
	indexer  Indexer
	images   images.Remover
	options  Options
	logger   *slog.Logger
}

// NewService constructs a new adventure [Service].
func NewService(repo Repository, crumbs Breadcrumbs, listings *cache.Listings, indexer Indexer, remover images.Remover, options Options, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		crumbs:   crumbs,
		listings: listings,
		indexer:  indexer,
		images:   remover,
		options:  options,
		logger:   logger,
	}
}

// # Reads

/*
GetAdventure returns one adventure with its picture thumbnails.

Description: The adventure and its images are read concurrently.

Parameters:
  - context: context.Context
  - adventureID: string
  - rawType: string

Returns:
  - *Adventure: Hydrated entity
  - error: VALIDATION_ERROR on an unknown type, NOT_FOUND if missing
*/
func (service *Service) GetAdventure(context context.Context, adventureID, rawType string) (*Adventure, error) {
	adventureType, err := activity.Parse(rawType)
	if err != nil {
		return nil, err
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	var (
		adventure *Adventure
		pictures  []string
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		adventure, err = service.repo.GetAdventure(groupCtx, adventureID, adventureType)
		return err
	})
	group.Go(func() (err error) {
		pictures, err = service.repo.GetAdventureImages(groupCtx, adventureID)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	adventure.Images = pictures
	return adventure, nil
}

/*
GetAdventureList returns the map listing of orphan adventures, keyed by type.

Description: Served from the adventure listing cache. The ski listing also
carries ski approaches.

Parameters:
  - context: context.Context
  - rawType: string

Returns:
  - map[string]Listing: {type: {points, lines}}
  - error: VALIDATION_ERROR on an unknown type
*/
func (service *Service) GetAdventureList(context context.Context, rawType string) (map[string]Listing, error) {
	adventureType, err := activity.Parse(rawType)
	if err != nil {
		return nil, err
	}

	var listing Listing
	if service.listings.Adventures.Get(context, adventureType.String(), &listing) {
		return map[string]Listing{adventureType.String(): listing}, nil
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	listed := []activity.Type{adventureType}
	if adventureType == activity.Ski {
		listed = append(listed, activity.SkiApproach)
	}

	listing = Listing{Points: geo.NewFeatureCollection(), Lines: geo.NewFeatureCollection()}
	for _, listedType := range listed {
		items, err := service.repo.GetAdventureList(ctx, listedType)
		if err != nil {
			return nil, err
		}
		appendFeatures(&listing, items)
	}

	service.listings.Adventures.Set(context, adventureType.String(), listing)
	service.logger.Debug("adventure_listing_built",
		slog.String("adventure_type", adventureType.String()),
		slog.Int("points", len(listing.Points.Features)),
		slog.Int("lines", len(listing.Lines.Features)),
	)

	return map[string]Listing{adventureType.String(): listing}, nil
}

/*
GetNearestAdventures returns the public adventures closest to a point.

Parameters:
  - context: context.Context
  - query: NearbyQuery (Count defaults to 10 and is capped at 100)

Returns:
  - []Summary: Nearest first
  - error: VALIDATION_ERROR when the type or origin is missing
*/
func (service *Service) GetNearestAdventures(context context.Context, query NearbyQuery) ([]Summary, error) {
	adventureType, err := activity.Parse(query.AdventureType)
	if err != nil {
		return nil, err
	}
	if query.Origin == nil {
		return nil, validate.RequiredError("coordinates", "Latitude and longitude are required")
	}

	count := query.Count
	if count <= 0 {
		count = constants.DefaultNearbyCount
	}
	if count > constants.MaxNearbyCount {
		count = constants.MaxNearbyCount
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	if query.ZoneID != "" {
		return service.repo.GetNearestAdventuresExcludingZone(ctx, adventureType, query.ZoneID, *query.Origin, count)
	}
	return service.repo.GetNearestAdventures(ctx, adventureType, *query.Origin, count)
}

// GetBreadcrumb returns the path from the root zone down to the adventure.
func (service *Service) GetBreadcrumb(context context.Context, adventureID string) ([]breadcrumb.Crumb, error) {
	ctx, cancel := service.bound(context)
	defer cancel()

	return service.crumbs.ForAdventure(ctx, adventureID)
}

// # Adventure Lifecycle

/*
CreateAdventure validates and stores one adventure.

Description: Evicts the listing the adventure appears in, then indexes its
keywords. An indexing failure is logged and does not fail the call.

Parameters:
  - context: context.Context
  - input: NewAdventure (CreatorID set from the caller's claims)

Returns:
  - *Adventure: The stored adventure
  - error: VALIDATION_ERROR naming the first invalid field
*/
func (service *Service) CreateAdventure(context context.Context, input NewAdventure) (*Adventure, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	stored, err := service.repo.AddAdventures(ctx, []NewAdventure{input})
	if err != nil {
		return nil, err
	}
	adventure := stored[0]

	service.evict(ctx, adventure.AdventureType)
	service.index(ctx, adventure)

	service.logger.Info("adventure_created",
		slog.String("adventure_id", adventure.ID),
		slog.String("adventure_type", adventure.AdventureType.String()),
		slog.String("creator_id", adventure.CreatorID),
	)
	return adventure, nil
}

/*
BulkCreateAdventures stores many adventures in one transaction.

Description: Every input is validated before anything is written. The whole
adventure listing namespace is cleared afterwards.

Parameters:
  - context: context.Context
  - inputs: []NewAdventure

Returns:
  - []*Adventure: Stored adventures grouped by type
  - error: VALIDATION_ERROR naming the first invalid input
*/
func (service *Service) BulkCreateAdventures(context context.Context, inputs []NewAdventure) ([]*Adventure, error) {
	if len(inputs) == 0 {
		return nil, validate.RequiredError("adventures", "At least one adventure is required")
	}

	for i, input := range inputs {
		if err := input.Validate(); err != nil {
			return nil, validate.RequiredError(fmt.Sprintf("adventures[%d]", i), err.Error())
		}
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	stored, err := service.repo.AddAdventures(ctx, inputs)
	if err != nil {
		return nil, err
	}

	if err := service.listings.Adventures.Clear(ctx); err != nil {
		service.logger.Error("cache_clear_failed", slog.Any("error", err))
	}
	for _, adventure := range stored {
		service.index(ctx, adventure)
	}

	service.logger.Info("adventures_imported", slog.Int("count", len(stored)))
	return stored, nil
}

/*
EditAdventure writes one general or detail field and returns the adventure.

Parameters:
  - context: context.Context
  - adventureID: string
  - edit: EditRequest

Returns:
  - *Adventure: The adventure after the edit
  - error: VALIDATION_ERROR for paths, unknown fields and bad values
*/
func (service *Service) EditAdventure(context context.Context, adventureID string, edit EditRequest) (*Adventure, error) {
	adventureType, err := activity.Parse(edit.AdventureType)
	if err != nil {
		return nil, err
	}

	spec, err := LookupField(edit.Name, adventureType)
	if err != nil {
		return nil, err
	}

	value, err := spec.Coerce(edit.Value)
	if err != nil {
		return nil, err
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	if err := service.repo.EditAdventureField(ctx, spec, value, adventureID, adventureType); err != nil {
		return nil, err
	}

	if spec.AffectsListing() {
		service.evict(ctx, adventureType)
	}

	adventure, err := service.repo.GetAdventure(ctx, adventureID, adventureType)
	if err != nil {
		return nil, err
	}

	if spec.Searchable() {
		service.index(ctx, adventure)
	}

	service.logger.Info("adventure_updated", slog.String("adventure_id", adventureID), slog.String("field", spec.Name))
	return adventure, nil
}

/*
EditAdventurePaths replaces the trail path and its elevation summary.

Description: With the remove action the stored path and elevations are reset
first. Both writes share one transaction.

Parameters:
  - context: context.Context
  - edit: PathEdit

Returns:
  - *PathResult: The stored path split for display
  - error: VALIDATION_ERROR for types without a path, NOT_FOUND if missing
*/
func (service *Service) EditAdventurePaths(context context.Context, edit PathEdit) (*PathResult, error) {
	if err := edit.Validate(); err != nil {
		return nil, err
	}

	adventureType := activity.Type(edit.AdventureType)
	stored := JoinPath(edit.Path, edit.Points)

	ctx, cancel := service.bound(context)
	defer cancel()

	err := service.repo.InTx(ctx, func(tx Repository) error {
		if edit.Action == ActionRemove {
			if err := tx.ClearAdventurePath(ctx, edit.AdventureID, adventureType); err != nil {
				return err
			}
		}
		return tx.SetAdventurePath(ctx, edit, stored)
	})
	if err != nil {
		return nil, err
	}

	service.evict(ctx, adventureType)

	path, points, err := SplitPath(stored)
	if err != nil {
		return nil, validate.RequiredError("path", "Malformed path")
	}

	service.logger.Info("adventure_path_updated",
		slog.String("adventure_id", edit.AdventureID),
		slog.String("action", edit.Action),
		slog.Int("points", len(path)),
	)
	return &PathResult{Path: path, Points: points}, nil
}

/*
DeleteAdventure removes an adventure, then its image files.

Description: Image removal runs after the commit and is best effort; each
failure is logged.

Parameters:
  - context: context.Context
  - adventureID: string
  - rawType: string

Returns:
  - error: VALIDATION_ERROR on an unknown type, NOT_FOUND if missing
*/
func (service *Service) DeleteAdventure(context context.Context, adventureID, rawType string) error {
	adventureType, err := activity.Parse(rawType)
	if err != nil {
		return err
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	urls, err := service.repo.DeleteAdventure(ctx, adventureID, adventureType)
	if err != nil {
		return err
	}

	service.evict(ctx, adventureType)

	for _, url := range urls {
		if err := service.images.RemoveImage(ctx, url); err != nil {
			service.logger.Warn("adventure_image_remove_failed",
				slog.String("adventure_id", adventureID),
				slog.String("url", url),
				slog.Any("error", err),
			)
		}
	}

	service.logger.Warn("adventure_deleted",
		slog.String("adventure_id", adventureID),
		slog.String("adventure_type", adventureType.String()),
		slog.Int("images", len(urls)),
	)
	return nil
}

/*
RateAdventure folds one vote into the rating and difficulty averages.

Description: The tallies are read under a row lock and written back in the
same transaction, so concurrent votes are not lost.

Parameters:
  - context: context.Context
  - adventureID: string
  - vote: Vote (Both scores between 1 and 5)

Returns:
  - Ratings: The rounded tallies after the vote
  - error: VALIDATION_ERROR on an out-of-range score, NOT_FOUND if missing
*/
func (service *Service) RateAdventure(context context.Context, adventureID string, vote Vote) (Ratings, error) {
	if err := vote.Validate(); err != nil {
		return Ratings{}, err
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	var updated Ratings
	err := service.repo.InTx(ctx, func(tx Repository) error {
		current, err := tx.GetRatingsForUpdate(ctx, adventureID)
		if err != nil {
			return err
		}

		updated = Ratings{
			Rating:     current.Rating.Add(decimal.NewFromInt(int64(vote.Rating))),
			Difficulty: current.Difficulty.Add(decimal.NewFromInt(int64(vote.Difficulty))),
		}
		return tx.SetRatings(ctx, adventureID, updated)
	})
	if err != nil {
		return Ratings{}, err
	}

	service.logger.Info("adventure_rated",
		slog.String("adventure_id", adventureID),
		slog.Int("votes", updated.Rating.Count),
	)
	return Ratings{Rating: updated.Rating.Rounded(), Difficulty: updated.Difficulty.Rounded()}, nil
}

// # Progress Lists

/*
CompleteAdventure records that a user has done an adventure.

Description: The adventure leaves the user's to-do list and joins the
completed list in one transaction. Completing twice only updates the
visibility.

Parameters:
  - context: context.Context
  - mark: Mark (UserID set from the caller's claims)

Returns:
  - *Progress: The completed entry with its adventure and user
  - error: VALIDATION_ERROR without a public flag, NOT_FOUND if the adventure is missing
*/
func (service *Service) CompleteAdventure(context context.Context, mark Mark) (*Progress, error) {
	if err := mark.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	var entry *Progress
	err := service.repo.InTx(ctx, func(tx Repository) error {
		if _, err := tx.RemoveFromList(ctx, ListTodo, mark.UserID, mark.AdventureID); err != nil {
			return err
		}
		if err := tx.AddToList(ctx, ListCompleted, mark); err != nil {
			return err
		}

		var err error
		entry, err = tx.GetListEntry(ctx, ListCompleted, mark.UserID, mark.AdventureID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("adventure_completed",
		slog.String("adventure_id", mark.AdventureID),
		slog.String("user_id", mark.UserID),
		slog.Bool("public", *mark.Public),
	)
	return entry, nil
}

/*
AddAdventureTodo puts an adventure on a user's to-do list.

Returns:
  - *Progress: The to-do entry with its adventure and user
  - error: VALIDATION_ERROR without a public flag, NOT_FOUND if the adventure is missing
*/
func (service *Service) AddAdventureTodo(context context.Context, mark Mark) (*Progress, error) {
	if err := mark.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	var entry *Progress
	err := service.repo.InTx(ctx, func(tx Repository) error {
		if err := tx.AddToList(ctx, ListTodo, mark); err != nil {
			return err
		}

		var err error
		entry, err = tx.GetListEntry(ctx, ListTodo, mark.UserID, mark.AdventureID)
		return err
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("adventure_todo_added",
		slog.String("adventure_id", mark.AdventureID),
		slog.String("user_id", mark.UserID),
	)
	return entry, nil
}

// RemoveAdventureTodo takes an adventure off the user's to-do list.
func (service *Service) RemoveAdventureTodo(context context.Context, userID, adventureID string) error {
	ctx, cancel := service.bound(context)
	defer cancel()

	removed, err := service.repo.RemoveFromList(ctx, ListTodo, userID, adventureID)
	if err != nil {
		return err
	}
	if !removed {
		return apperr.NotFound("Todo")
	}

	service.logger.Info("adventure_todo_removed", slog.String("adventure_id", adventureID), slog.String("user_id", userID))
	return nil
}

// GetListedUsers returns the users who put the adventure on a list publicly.
func (service *Service) GetListedUsers(context context.Context, list List, adventureID string) ([]ListedUser, error) {
	ctx, cancel := service.bound(context)
	defer cancel()

	return service.repo.GetListedUsers(ctx, list, adventureID)
}

/*
GetListedAdventures returns one of a user's lists.

Parameters:
  - context: context.Context
  - list: List
  - userID: string (Owner of the list)
  - viewerID: string (Caller; "" when anonymous)

Returns:
  - []ListedAdventure: Newest first; private entries only for the owner
  - error: Database retrieval failures
*/
func (service *Service) GetListedAdventures(context context.Context, list List, userID, viewerID string) ([]ListedAdventure, error) {
	if err := (&validate.Validator{}).Required("user", userID).Err(); err != nil {
		return nil, err
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	return service.repo.GetListedAdventures(ctx, list, userID, viewerID == userID)
}

// # Pictures

/*
AddAdventurePicture registers an uploaded picture against an adventure.

Description: The file is already stored; only its URL is recorded. The
returned picture carries the thumbnail URL used by detail views.

Returns:
  - *Picture: The stored picture
  - error: VALIDATION_ERROR for a URL outside the images tree, NOT_FOUND if the adventure is missing
*/
func (service *Service) AddAdventurePicture(context context.Context, picture Picture) (*Picture, error) {
	if err := picture.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	id, err := service.repo.AddPicture(ctx, picture)
	if err != nil {
		return nil, err
	}

	picture.ID = id
	picture.ThumbnailURL = images.ThumbnailURL(picture.URL)

	service.logger.Info("adventure_picture_added",
		slog.String("adventure_id", picture.AdventureID),
		slog.String("picture_id", picture.ID),
	)
	return &picture, nil
}

// # Internal Helpers

func appendFeatures(listing *Listing, items []ListItem) {
	for _, item := range items {
		properties := map[string]any{
			"id":             item.ID,
			"adventure_name": item.Name,
			"adventure_type": item.AdventureType,
			"color":          item.AdventureType.PathColor(),
		}

		listing.Points.Features = append(listing.Points.Features,
			geo.PointFeature(item.ID, item.Coordinates, constants.CoordinatePrecision, properties))

		if len(item.Path) > 1 {
			listing.Lines.Features = append(listing.Lines.Features, geo.LineFeature(item.ID, item.Path, properties))
		}
	}
}

func (service *Service) index(ctx context.Context, adventure *Adventure) {
	document := search.NewDocument(search.KindAdventure, adventure.ID, adventure.Name, adventure.NearestCity, adventure.Bio)
	if err := service.indexer.Index(ctx, document); err != nil {
		service.logger.Warn("adventure_index_failed", slog.String("adventure_id", adventure.ID), slog.Any("error", err))
	}
}

// evict drops the listing an adventure of this type appears in. Ski
// approaches are listed with ski.
func (service *Service) evict(ctx context.Context, adventureType activity.Type) {
	listings := []string{adventureType.String()}
	if adventureType == activity.SkiApproach {
		listings = append(listings, activity.Ski.String())
	}

	if err := service.listings.Adventures.Evict(ctx, listings...); err != nil {
		service.logger.Error("cache_evict_failed", slog.Any("error", err))
	}
}

func (service *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if service.options.StoreTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, service.options.StoreTimeout)
}
