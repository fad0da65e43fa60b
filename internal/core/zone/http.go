// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
HTTP interface for zones and their membership edges.

# Routing Strategy

  - Public: listings, proximity, detail views and type matching (GET).
  - Authenticated: creation, edits, deletion and every membership change.

The handler translates between the REST layer and the [Service] domain.
*/

package zone

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/sunday/internal/core/geo"
	"github.com/taibuivan/sunday/internal/platform/middleware"
	requestutil "github.com/taibuivan/sunday/internal/platform/request"
	"github.com/taibuivan/sunday/internal/platform/respond"
	"github.com/taibuivan/sunday/internal/platform/validate"
)

// # Handler Implementation

// Handler implements the HTTP layer for zone operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new zone [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with zone endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery
	router.Get("/", handler.listZones)
	router.Get("/nearby", handler.nearbyZones)
	router.Get("/{id}", handler.getZone)
	router.Get("/{id}/match/adventures/{adventureID}", handler.matchAdventure)
	router.Get("/{id}/match/zones/{childID}", handler.matchZone)

	// ## Authoring (Auth Required)
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/", handler.createZone)
		authed.Patch("/{id}", handler.editZone)
		authed.Delete("/{id}", handler.deleteZone)

		authed.Route("/{id}/adventures", func(adventures chi.Router) {
			adventures.Post("/", handler.addAdventure)
			adventures.Put("/{adventureID}", handler.moveAdventure)
			adventures.Delete("/{adventureID}", handler.removeAdventure)
		})

		authed.Route("/{id}/zones", func(zones chi.Router) {
			zones.Post("/", handler.addSubzone)
			zones.Put("/{childID}", handler.moveSubzone)
			zones.Delete("/{childID}", handler.removeSubzone)
		})
	})

	return router
}

// # Zone Endpoints

/*
GET /api/v1/zones.

Description: The GeoJSON listing of every zone of one type.

Request:
  - type: string (ski, climb, hike, bike, skiApproach)

Response:
  - 200: {type: FeatureCollection}
  - 400: ErrValidation: Unknown type
*/
func (handler *Handler) listZones(writer http.ResponseWriter, request *http.Request) {
	listing, err := handler.service.GetAllZonesPerType(request.Context(), request.URL.Query().Get("type"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, listing)
}

/*
GET /api/v1/zones/nearby.

Request:
  - type: string
  - lat, lng: float
  - count: int (Default 10, max 100)
  - parent: string (Optional zone UUID left out with its direct children)

Response:
  - 200: []Summary
  - 400: ErrValidation: Missing type or coordinates
*/
func (handler *Handler) nearbyZones(writer http.ResponseWriter, request *http.Request) {
	origin, err := parseOrigin(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	count, err := requestutil.QueryInt(request, "count", 0)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	parentID, err := requestutil.QueryID(request, "parent")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	zones, err := handler.service.GetZonesByDistance(request.Context(), NearbyQuery{
		AdventureType: request.URL.Query().Get("type"),
		Origin:        origin,
		Count:         count,
		ParentID:      parentID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, zones)
}

/*
GET /api/v1/zones/{id}.

Response:
  - 200: Detail
  - 404: ErrNotFound: Zone not found
*/
func (handler *Handler) getZone(writer http.ResponseWriter, request *http.Request) {
	zoneID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.GetZoneData(request.Context(), zoneID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

/*
POST /api/v1/zones.

Request (Body):
  - NewZone JSON object (creator taken from the token)

Response:
  - 201: Detail: Created zone
  - 400: ErrValidation: First missing field
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) createZone(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input NewZone
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.CreatorID = userID

	detail, err := handler.service.CreateZone(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, detail)
}

/*
PATCH /api/v1/zones/{id}.

Request (Body):
  - name: string (zone_name, bio, approach, coordinates_lat, coordinates_lng, nearest_city, is_public)
  - value: any

Response:
  - 200: Zone: Updated metadata
  - 400: ErrValidation: Unknown field or bad value
  - 404: ErrNotFound: Zone not found
*/
func (handler *Handler) editZone(writer http.ResponseWriter, request *http.Request) {
	zoneID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var edit EditRequest
	if err := requestutil.DecodeJSON(request, &edit); err != nil {
		respond.Error(writer, request, err)
		return
	}

	zone, err := handler.service.EditZone(request.Context(), zoneID, edit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, zone)
}

/*
DELETE /api/v1/zones/{id}.

Description: Children move to the deleted zone's parent, or become roots.

Response:
  - 200: Removed: The freed children
  - 404: ErrNotFound: Zone not found
*/
func (handler *Handler) deleteZone(writer http.ResponseWriter, request *http.Request) {
	zoneID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	removed, err := handler.service.DeleteZoneCascading(request.Context(), zoneID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, removed)
}

// # Type Matching

// GET /api/v1/zones/{id}/match/adventures/{adventureID}.
func (handler *Handler) matchAdventure(writer http.ResponseWriter, request *http.Request) {
	ids, err := requestutil.IDs(request, "id", "adventureID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	match, err := handler.service.GetMatchingAdventures(request.Context(), ids[1], ids[0])
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"match": match})
}

// GET /api/v1/zones/{id}/match/zones/{childID}.
func (handler *Handler) matchZone(writer http.ResponseWriter, request *http.Request) {
	ids, err := requestutil.IDs(request, "id", "childID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	match, err := handler.service.GetMatchingZones(request.Context(), ids[0], ids[1])
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"match": match})
}

// # Membership Endpoints

type adventureBody struct {
	AdventureID string `json:"adventure_id"`
}

type subzoneBody struct {
	ZoneID string `json:"zone_id"`
}

/*
POST /api/v1/zones/{id}/adventures.

Request (Body):
  - adventure_id: string

Response:
  - 200: Detail: The refreshed zone
  - 409: ErrIncompatibleType: Type does not fit the zone
*/
func (handler *Handler) addAdventure(writer http.ResponseWriter, request *http.Request) {
	zoneID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body adventureBody
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := (&validate.Validator{}).Required("adventure_id", body.AdventureID).UUID("adventure_id", body.AdventureID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.AddAdventure(request.Context(), zoneID, body.AdventureID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

// PUT /api/v1/zones/{id}/adventures/{adventureID} moves the adventure into {id}.
func (handler *Handler) moveAdventure(writer http.ResponseWriter, request *http.Request) {
	ids, err := requestutil.IDs(request, "id", "adventureID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.MoveAdventure(request.Context(), ids[1], ids[0])
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

// DELETE /api/v1/zones/{id}/adventures/{adventureID}.
func (handler *Handler) removeAdventure(writer http.ResponseWriter, request *http.Request) {
	ids, err := requestutil.IDs(request, "id", "adventureID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.RemoveAdventure(request.Context(), ids[0], ids[1])
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

/*
POST /api/v1/zones/{id}/zones.

Request (Body):
  - zone_id: string (The child)

Response:
  - 200: Detail: The refreshed parent
  - 400: ErrValidation: A zone cannot contain itself
  - 409: ErrIncompatibleType: Types differ
  - 500: ErrCycleDetected: The parent descends from the child
*/
func (handler *Handler) addSubzone(writer http.ResponseWriter, request *http.Request) {
	parentID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body subzoneBody
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if err := (&validate.Validator{}).Required("zone_id", body.ZoneID).UUID("zone_id", body.ZoneID).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.AddSubzone(request.Context(), parentID, body.ZoneID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

// PUT /api/v1/zones/{id}/zones/{childID} moves the child under {id}.
func (handler *Handler) moveSubzone(writer http.ResponseWriter, request *http.Request) {
	ids, err := requestutil.IDs(request, "id", "childID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.MoveSubzone(request.Context(), ids[0], ids[1])
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

// DELETE /api/v1/zones/{id}/zones/{childID}.
func (handler *Handler) removeSubzone(writer http.ResponseWriter, request *http.Request) {
	ids, err := requestutil.IDs(request, "id", "childID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	detail, err := handler.service.RemoveSubzone(request.Context(), ids[0], ids[1])
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, detail)
}

// parseOrigin reads lat and lng. It returns nil when either is absent so the
// service can report the missing coordinates.
func parseOrigin(request *http.Request) (*geo.Coordinates, error) {
	lat, hasLat, err := requestutil.QueryFloat(request, "lat")
	if err != nil {
		return nil, err
	}
	lng, hasLng, err := requestutil.QueryFloat(request, "lng")
	if err != nil {
		return nil, err
	}

	if !hasLat || !hasLng {
		return nil, nil
	}
	return &geo.Coordinates{Lat: lat, Lng: lng}, nil
}
