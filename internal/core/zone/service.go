// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package zone

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/sunday/internal/core/activity"
	"github.com/taibuivan/sunday/internal/core/breadcrumb"
	"github.com/taibuivan/sunday/internal/core/geo"
	"github.com/taibuivan/sunday/internal/core/search"
	"github.com/taibuivan/sunday/internal/platform/apperr"
	"github.com/taibuivan/sunday/internal/platform/cache"
	"github.com/taibuivan/sunday/internal/platform/constants"
	"github.com/taibuivan/sunday/internal/platform/validate"
)

// # Collaborators

// Breadcrumbs rebuilds the root-first path of a zone.
type Breadcrumbs interface {
	ForZone(context context.Context, zoneID string) ([]breadcrumb.Crumb, error)
}

// Indexer stores and publishes search documents.
type Indexer interface {
	Index(context context.Context, document search.Document) error
}

// Options carries the hierarchy rules read from configuration.
type Options struct {

	// StrictTypeCheck re-validates type compatibility inside add and move transactions.
	StrictTypeCheck bool

	// MaxDepth bounds the ancestor walk of the cycle check.
	MaxDepth int

	// StoreTimeout bounds each service operation's store calls. Zero disables it.
	StoreTimeout time.Duration
}

// # Service Layer

// Service orchestrates zone membership, cascades and listings.
type Service struct {
	repo     Repository
	crumbs   Breadcrumbs
	listings *cache.Listings
	indexer  Indexer
	options  Options
	logger   *slog.Logger
}

// NewService constructs a new zone [Service].
func NewService(repo Repository, crumbs Breadcrumbs, listings *cache.Listings, indexer Indexer, options Options, logger *slog.Logger) *Service {
	if options.MaxDepth < 1 {
		options.MaxDepth = constants.DefaultBreadcrumbDepth
	}

	return &Service{
		repo:     repo,
		crumbs:   crumbs,
		listings: listings,
		indexer:  indexer,
		options:  options,
		logger:   logger,
	}
}

// # Reads

/*
GetZoneData assembles the aggregate view of a zone.

Description: Metadata, children and breadcrumb are read concurrently. The
result is never cached.

Parameters:
  - context: context.Context
  - zoneID: string

Returns:
  - *Detail: Zone with adventures, zones, breadcrumb and images
  - error: NOT_FOUND if the zone is missing
*/
func (service *Service) GetZoneData(context context.Context, zoneID string) (*Detail, error) {
	ctx, cancel := service.bound(context)
	defer cancel()

	return service.zoneData(ctx, zoneID)
}

func (service *Service) zoneData(ctx context.Context, zoneID string) (*Detail, error) {
	var (
		zone       *Zone
		adventures []AdventureSummary
		zones      []Summary
		crumbs     []breadcrumb.Crumb
	)

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		zone, err = service.repo.GetZoneMetadata(groupCtx, zoneID)
		return err
	})
	group.Go(func() (err error) {
		adventures, err = service.repo.GetZoneAdventures(groupCtx, zoneID)
		return err
	})
	group.Go(func() (err error) {
		zones, err = service.repo.GetZoneSubzones(groupCtx, zoneID)
		return err
	})
	group.Go(func() (err error) {
		crumbs, err = service.crumbs.ForZone(groupCtx, zoneID)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return &Detail{
		Zone:       zone,
		Adventures: adventures,
		Zones:      zones,
		Breadcrumb: crumbs,
		Images:     []string{},
	}, nil
}

/*
GetAllZonesPerType returns the GeoJSON listing of one type, keyed by type.

Description: Served from the zone listing cache and rebuilt from the store on
a miss.

Parameters:
  - context: context.Context
  - rawType: string

Returns:
  - map[string]geo.FeatureCollection: {type: collection}
  - error: VALIDATION_ERROR on an unknown type
*/
func (service *Service) GetAllZonesPerType(context context.Context, rawType string) (map[string]geo.FeatureCollection, error) {
	adventureType, err := activity.Parse(rawType)
	if err != nil {
		return nil, err
	}

	var collection geo.FeatureCollection
	if service.listings.Zones.Get(context, adventureType.String(), &collection) {
		return map[string]geo.FeatureCollection{adventureType.String(): collection}, nil
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	zones, err := service.repo.GetZonesPerType(ctx, adventureType)
	if err != nil {
		return nil, err
	}

	collection = geo.NewFeatureCollection()
	for _, zone := range zones {
		collection.Features = append(collection.Features, geo.PointFeature(zone.ID, zone.Coordinates, constants.CoordinatePrecision, map[string]any{
			"id":             zone.ID,
			"zone_name":      zone.Name,
			"adventure_type": zone.AdventureType,
			"public":         zone.Public,
		}))
	}

	service.listings.Zones.Set(context, adventureType.String(), collection)
	service.logger.Debug("zone_listing_built", slog.String("adventure_type", adventureType.String()), slog.Int("count", len(zones)))

	return map[string]geo.FeatureCollection{adventureType.String(): collection}, nil
}

/*
GetZonesByDistance returns the public zones closest to a point.

Description: With a parent, the parent and its direct zone children are left
out; deeper descendants are not.

Parameters:
  - context: context.Context
  - query: NearbyQuery (Count defaults to 10 and is capped at 100)

Returns:
  - []Summary: Nearest first
  - error: VALIDATION_ERROR when the type or origin is missing
*/
func (service *Service) GetZonesByDistance(context context.Context, query NearbyQuery) ([]Summary, error) {
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

	if query.ParentID != "" {
		return service.repo.GetZonesExcludingParentByDistance(ctx, adventureType, query.ParentID, *query.Origin, count)
	}
	return service.repo.GetZonesByDistance(ctx, adventureType, *query.Origin, count)
}

// GetMatchingAdventures reports whether the adventure may be placed in the zone.
func (service *Service) GetMatchingAdventures(context context.Context, adventureID, zoneID string) (bool, error) {
	ctx, cancel := service.bound(context)
	defer cancel()

	return service.repo.GetAdventureZoneMatch(ctx, adventureID, zoneID)
}

// GetMatchingZones reports whether the child zone may be placed in the parent.
func (service *Service) GetMatchingZones(context context.Context, parentZoneID, childZoneID string) (bool, error) {
	ctx, cancel := service.bound(context)
	defer cancel()

	return service.repo.GetZoneZoneMatch(ctx, parentZoneID, childZoneID)
}

// # Zone Lifecycle

/*
CreateZone validates and stores a new root zone.

Description: Evicts the listing of the zone's type, then indexes its keywords.
An indexing failure is logged and does not fail the call.

Parameters:
  - context: context.Context
  - input: NewZone (CreatorID set from the caller's claims)

Returns:
  - *Detail: The zone with empty children and itself as breadcrumb
  - error: VALIDATION_ERROR naming the first missing field
*/
func (service *Service) CreateZone(context context.Context, input NewZone) (*Detail, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	zone, err := service.repo.CreateZone(ctx, input)
	if err != nil {
		return nil, err
	}

	service.evict(ctx, service.listings.Zones, zone.AdventureType.String())
	service.index(ctx, zone)

	service.logger.Info("zone_created",
		slog.String("zone_id", zone.ID),
		slog.String("adventure_type", zone.AdventureType.String()),
		slog.String("creator_id", zone.CreatorID),
	)

	return &Detail{
		Zone:       zone,
		Adventures: []AdventureSummary{},
		Zones:      []Summary{},
		Breadcrumb: []breadcrumb.Crumb{{
			Name:          zone.Name,
			ID:            zone.ID,
			AdventureType: zone.AdventureType,
			CategoryType:  breadcrumb.CategoryZone,
		}},
		Images: []string{},
	}, nil
}

/*
EditZone writes one field and returns the updated zone.

Description: Fields shown in the listing clear the zone listings. Searchable
fields re-index the zone.

Parameters:
  - context: context.Context
  - zoneID: string
  - edit: EditRequest

Returns:
  - *Zone: Updated metadata
  - error: VALIDATION_ERROR on an unknown field or bad value, NOT_FOUND on a missing zone
*/
func (service *Service) EditZone(context context.Context, zoneID string, edit EditRequest) (*Zone, error) {
	field, err := ParseField(edit.Name)
	if err != nil {
		return nil, err
	}

	value, err := field.Coerce(edit.Value)
	if err != nil {
		return nil, err
	}

	ctx, cancel := service.bound(context)
	defer cancel()

	if err := service.repo.EditZoneField(ctx, field, value, zoneID); err != nil {
		return nil, err
	}

	if field.AffectsListing() {
		service.clear(ctx, service.listings.Zones)
	}

	zone, err := service.repo.GetZoneMetadata(ctx, zoneID)
	if err != nil {
		return nil, err
	}

	if field.Searchable() {
		service.index(ctx, zone)
	}

	service.logger.Info("zone_updated", slog.String("zone_id", zoneID), slog.String("field", string(field)))
	return zone, nil
}

/*
DeleteZoneCascading deletes a zone and hands its children to its parent.

Description: One transaction reads the parent and the public children,
repoints every direct child edge (private children included) at the parent,
and removes the zone. Without a parent the children become roots. Both
listing namespaces are cleared after commit.

Parameters:
  - context: context.Context
  - zoneID: string

Returns:
  - *Removed: The public children that were freed or moved
  - error: NOT_FOUND if the zone is missing
*/
func (service *Service) DeleteZoneCascading(context context.Context, zoneID string) (*Removed, error) {
	ctx, cancel := service.bound(context)
	defer cancel()

	removed := &Removed{}
	var parentID string

	err := service.repo.InTx(ctx, func(tx Repository) error {
		var err error

		if parentID, err = tx.GetZoneParent(ctx, zoneID); err != nil {
			return err
		}
		if removed.ChildAdventures, err = tx.GetZoneAdventures(ctx, zoneID); err != nil {
			return err
		}
		if removed.ChildZones, err = tx.GetZoneSubzones(ctx, zoneID); err != nil {
			return err
		}

		if parentID != "" {
			if err := tx.ReparentChildren(ctx, zoneID, parentID); err != nil {
				return err
			}
		}

		return tx.DeleteZone(ctx, zoneID)
	})
	if err != nil {
		return nil, err
	}

	service.clear(ctx, service.listings.Zones, service.listings.Adventures)

	service.logger.Warn("zone_deleted",
		slog.String("zone_id", zoneID),
		slog.String("parent_id", parentID),
		slog.Int("child_adventures", len(removed.ChildAdventures)),
		slog.Int("child_zones", len(removed.ChildZones)),
	)

	return removed, nil
}

// # Membership

/*
AddAdventure places an adventure in a zone, replacing any previous parent.

Parameters:
  - context: context.Context
  - zoneID: string
  - adventureID: string

Returns:
  - *Detail: The refreshed zone
  - error: INCOMPATIBLE_TYPE under strict checking, NOT_FOUND on missing nodes
*/
func (service *Service) AddAdventure(context context.Context, zoneID, adventureID string) (*Detail, error) {
	ctx, cancel := service.bound(context)
	defer cancel()

	if err := service.attachAdventure(ctx, zoneID, adventureID); err != nil {
		return nil, err
	}

	service.clear(ctx, service.listings.Adventures)
	return service.zoneData(ctx, zoneID)
}

// RemoveAdventure detaches an adventure and returns the refreshed zone.
func (service *Service) RemoveAdventure(context context.Context, zoneID, adventureID string) (*Detail, error) {
	ctx, cancel := service.bound(context)
	defer cancel()

	if err := service.repo.RemoveAdventureFromZone(ctx, []string{adventureID}); err != nil {
		return nil, err
	}

	service.clear(ctx, service.listings.Adventures)
	return service.zoneData(ctx, zoneID)
}

// MoveAdventure repoints an adventure at newZoneID in one transaction.
func (service *Service) MoveAdventure(context context.Context, adventureID, newZoneID string) (*Detail, error) {
	ctx, cancel := service.bound(context)
	defer cancel()

	if err := service.attachAdventure(ctx, newZoneID, adventureID); err != nil {
		return nil, err
	}

	service.clear(ctx, service.listings.Adventures)
	service.logger.Info("adventure_moved", slog.String("adventure_id", adventureID), slog.String("zone_id", newZoneID))

	return service.zoneData(ctx, newZoneID)
}

/*
AddSubzone places a zone under a parent zone.

Parameters:
  - context: context.Context
  - parentZoneID: string
  - childZoneID: string

Returns:
  - *Detail: The refreshed parent
  - error: VALIDATION_ERROR for self-parenting, CYCLE_DETECTED when the parent
    descends from the child, INCOMPATIBLE_TYPE under strict checking
*/
func (service *Service) AddSubzone(context context.Context, parentZoneID, childZoneID string) (*Detail, error) {
	ctx, cancel := service.bound(context)
	defer cancel()

	if err := service.attachZone(ctx, parentZoneID, childZoneID); err != nil {
		return nil, err
	}

	service.clear(ctx, service.listings.Zones)
	return service.zoneData(ctx, parentZoneID)
}

// RemoveSubzone detaches a child zone and returns the refreshed parent.
func (service *Service) RemoveSubzone(context context.Context, parentZoneID, childZoneID string) (*Detail, error) {
	ctx, cancel := service.bound(context)
	defer cancel()

	if err := service.repo.RemoveChildZoneFromZone(ctx, []string{childZoneID}); err != nil {
		return nil, err
	}

	service.clear(ctx, service.listings.Zones)
	return service.zoneData(ctx, parentZoneID)
}

// MoveSubzone repoints a child zone at newParentZoneID in one transaction.
func (service *Service) MoveSubzone(context context.Context, newParentZoneID, childZoneID string) (*Detail, error) {
	ctx, cancel := service.bound(context)
	defer cancel()

	if err := service.attachZone(ctx, newParentZoneID, childZoneID); err != nil {
		return nil, err
	}

	service.clear(ctx, service.listings.Zones)
	service.logger.Info("zone_moved", slog.String("zone_id", childZoneID), slog.String("parent_id", newParentZoneID))

	return service.zoneData(ctx, newParentZoneID)
}

// # Internal Helpers

func (service *Service) attachAdventure(ctx context.Context, zoneID, adventureID string) error {
	return service.repo.InTx(ctx, func(tx Repository) error {
		if service.options.StrictTypeCheck {
			child, parent, err := tx.GetAdventureZoneTypes(ctx, adventureID, zoneID)
			if err != nil {
				return err
			}
			if !activity.Compatible(child, parent) {
				return apperr.IncompatibleType(child.String(), parent.String())
			}
		}

		return tx.AddAdventureToZone(ctx, []string{adventureID}, zoneID)
	})
}

func (service *Service) attachZone(ctx context.Context, parentZoneID, childZoneID string) error {
	if parentZoneID == childZoneID {
		return validate.RequiredError("childZoneId", "A zone cannot contain itself")
	}

	return service.repo.InTx(ctx, func(tx Repository) error {
		if service.options.StrictTypeCheck {
			parent, child, err := tx.GetZoneZoneTypes(ctx, parentZoneID, childZoneID)
			if err != nil {
				return err
			}
			if parent != child {
				return apperr.IncompatibleType(child.String(), parent.String())
			}
		}

		if err := service.ensureAcyclic(ctx, tx, parentZoneID, childZoneID); err != nil {
			return err
		}

		return tx.AddChildZoneToZone(ctx, []string{childZoneID}, parentZoneID)
	})
}

// ensureAcyclic climbs from the prospective parent towards its root. Meeting
// the child means the child is an ancestor of the parent.
func (service *Service) ensureAcyclic(ctx context.Context, tx Repository, parentZoneID, childZoneID string) error {
	current := parentZoneID

	for step := 0; step <= service.options.MaxDepth; step++ {
		if current == childZoneID {
			return apperr.CycleDetected(childZoneID)
		}

		next, err := tx.GetZoneParent(ctx, current)
		if err != nil {
			return err
		}
		if next == "" {
			return nil
		}
		current = next
	}

	return apperr.CycleDetected(parentZoneID)
}

func (service *Service) index(ctx context.Context, zone *Zone) {
	document := search.NewDocument(search.KindZone, zone.ID, zone.Name, zone.NearestCity, zone.Bio)
	if err := service.indexer.Index(ctx, document); err != nil {
		service.logger.Warn("zone_index_failed", slog.String("zone_id", zone.ID), slog.Any("error", err))
	}
}

// evict and clear run after the write committed; a failure leaves the entry
// to expire with its TTL.
func (service *Service) evict(ctx context.Context, namespace *cache.Namespace, listings ...string) {
	if err := namespace.Evict(ctx, listings...); err != nil {
		service.logger.Error("cache_evict_failed", slog.Any("error", err))
	}
}

func (service *Service) clear(ctx context.Context, namespaces ...*cache.Namespace) {
	for _, namespace := range namespaces {
		if err := namespace.Clear(ctx); err != nil {
			service.logger.Error("cache_clear_failed", slog.Any("error", err))
		}
	}
}

func (service *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if service.options.StoreTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, service.options.StoreTimeout)
}
