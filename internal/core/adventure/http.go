// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
HTTP interface for adventures.

# Routing Strategy

  - Public: listings, proximity, detail views, breadcrumbs and user lists (GET).
  - Authenticated: creation, edits, path edits, ratings, deletion, pictures,
    completions and to-dos.
  - Admin: bulk import.

The adventure type travels as a query parameter or in the body so every route
shares the {id} segment.
*/

package adventure

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/sunday/internal/core/geo"
	"github.com/taibuivan/sunday/internal/platform/middleware"
	requestutil "github.com/taibuivan/sunday/internal/platform/request"
	"github.com/taibuivan/sunday/internal/platform/respond"
	"github.com/taibuivan/sunday/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for adventure operations.
type Handler struct {
	service *Service
}

// NewHandler constructs a new adventure [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with adventure endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// ## Public Discovery
	router.Get("/", handler.listAdventures)
	router.Get("/nearby", handler.nearbyAdventures)
	router.Get("/completed", handler.userList(ListCompleted))
	router.Get("/todo", handler.userList(ListTodo))
	router.Get("/{id}", handler.getAdventure)
	router.Get("/{id}/breadcrumb", handler.getBreadcrumb)
	router.Get("/{id}/completed", handler.adventureList(ListCompleted))
	router.Get("/{id}/todo", handler.adventureList(ListTodo))

	// ## Authoring (Auth Required)
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/", handler.createAdventure)
		authed.Patch("/{id}", handler.editAdventure)
		authed.Put("/{id}/path", handler.editPath)
		authed.Post("/{id}/ratings", handler.rateAdventure)
		authed.Delete("/{id}", handler.deleteAdventure)
		authed.Post("/{id}/pictures", handler.addPicture)

		authed.Post("/{id}/completed", handler.completeAdventure)
		authed.Post("/{id}/todo", handler.addTodo)
		authed.Delete("/{id}/todo", handler.removeTodo)

		authed.With(middleware.RequireRole(sec.RoleAdmin)).Post("/bulk", handler.bulkCreate)
	})

	return router
}

// # Adventure Endpoints

/*
GET /api/v1/adventures.

Description: Adventures of one type that no zone contains, as map points and
trail lines.

Request:
  - type: string

Response:
  - 200: {type: {points, lines}}
  - 400: ErrValidation: Unknown type
*/
func (handler *Handler) listAdventures(writer http.ResponseWriter, request *http.Request) {
	listing, err := handler.service.GetAdventureList(request.Context(), request.URL.Query().Get("type"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, listing)
}

/*
GET /api/v1/adventures/nearby.

Request:
  - type: string
  - lat, lng: float
  - count: int (Default 10, max 100)
  - zone: string (Optional zone UUID whose direct children are left out)

Response:
  - 200: []Summary
  - 400: ErrValidation: Missing type or coordinates
*/
func (handler *Handler) nearbyAdventures(writer http.ResponseWriter, request *http.Request) {
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

	zoneID, err := requestutil.QueryID(request, "zone")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	adventures, err := handler.service.GetNearestAdventures(request.Context(), NearbyQuery{
		AdventureType: request.URL.Query().Get("type"),
		Origin:        origin,
		Count:         count,
		ZoneID:        zoneID,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, adventures)
}

/*
GET /api/v1/adventures/{id}?type=.

Response:
  - 200: Adventure
  - 400: ErrValidation: Unknown type
  - 404: ErrNotFound: Adventure not found
*/
func (handler *Handler) getAdventure(writer http.ResponseWriter, request *http.Request) {
	adventureID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	adventure, err := handler.service.GetAdventure(request.Context(), adventureID, request.URL.Query().Get("type"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, adventure)
}

// GET /api/v1/adventures/{id}/breadcrumb.
func (handler *Handler) getBreadcrumb(writer http.ResponseWriter, request *http.Request) {
	adventureID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	crumbs, err := handler.service.GetBreadcrumb(request.Context(), adventureID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, crumbs)
}

/*
POST /api/v1/adventures.

Request (Body):
  - NewAdventure JSON object (creator taken from the token)

Response:
  - 201: Adventure
  - 400: ErrValidation: First invalid field
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) createAdventure(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input NewAdventure
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	input.CreatorID = userID

	adventure, err := handler.service.CreateAdventure(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, adventure)
}

/*
POST /api/v1/adventures/bulk.

Request (Body):
  - []NewAdventure (every creator set to the caller)

Response:
  - 201: []Adventure grouped by type
  - 403: ErrForbidden: Admin role required
*/
func (handler *Handler) bulkCreate(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var inputs []NewAdventure
	if err := requestutil.DecodeJSON(request, &inputs); err != nil {
		respond.Error(writer, request, err)
		return
	}
	for i := range inputs {
		inputs[i].CreatorID = userID
	}

	adventures, err := handler.service.BulkCreateAdventures(request.Context(), inputs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, adventures)
}

/*
PATCH /api/v1/adventures/{id}.

Request (Body):
  - name: string (General or detail column; paths are rejected)
  - value: any
  - adventure_type: string

Response:
  - 200: Adventure: After the edit
  - 400: ErrValidation: Unknown field or bad value
  - 404: ErrNotFound: Adventure not found
*/
func (handler *Handler) editAdventure(writer http.ResponseWriter, request *http.Request) {
	adventureID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var edit EditRequest
	if err := requestutil.DecodeJSON(request, &edit); err != nil {
		respond.Error(writer, request, err)
		return
	}

	adventure, err := handler.service.EditAdventure(request.Context(), adventureID, edit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, adventure)
}

/*
PUT /api/v1/adventures/{id}/path.

Request (Body):
  - PathEdit JSON object

Response:
  - 200: PathResult
  - 400: ErrValidation: The type has no path
  - 404: ErrNotFound: Adventure not found
*/
func (handler *Handler) editPath(writer http.ResponseWriter, request *http.Request) {
	adventureID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var edit PathEdit
	if err := requestutil.DecodeJSON(request, &edit); err != nil {
		respond.Error(writer, request, err)
		return
	}
	edit.AdventureID = adventureID

	result, err := handler.service.EditAdventurePaths(request.Context(), edit)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

/*
POST /api/v1/adventures/{id}/ratings.

Request (Body):
  - rating: int (1 to 5)
  - difficulty: int (1 to 5)

Response:
  - 200: Ratings: Rounded tallies after the vote
*/
func (handler *Handler) rateAdventure(writer http.ResponseWriter, request *http.Request) {
	adventureID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var vote Vote
	if err := requestutil.DecodeJSON(request, &vote); err != nil {
		respond.Error(writer, request, err)
		return
	}

	ratings, err := handler.service.RateAdventure(request.Context(), adventureID, vote)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, ratings)
}

/*
DELETE /api/v1/adventures/{id}?type=.

Response:
  - 204: No Content
  - 404: ErrNotFound: Adventure not found
*/
func (handler *Handler) deleteAdventure(writer http.ResponseWriter, request *http.Request) {
	adventureID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteAdventure(request.Context(), adventureID, request.URL.Query().Get("type")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// # Pictures

type pictureBody struct {
	URL string `json:"url"`
}

/*
POST /api/v1/adventures/{id}/pictures.

Request (Body):
  - url: string (An uploaded original under images/)

Response:
  - 201: Picture
  - 400: ErrValidation: URL outside the images tree
  - 404: ErrNotFound: Adventure not found
*/
func (handler *Handler) addPicture(writer http.ResponseWriter, request *http.Request) {
	adventureID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var body pictureBody
	if err := requestutil.DecodeJSON(request, &body); err != nil {
		respond.Error(writer, request, err)
		return
	}

	picture, err := handler.service.AddAdventurePicture(request.Context(), Picture{
		AdventureID: adventureID,
		CreatorID:   userID,
		URL:         body.URL,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, picture)
}

// # Progress Lists

/*
POST /api/v1/adventures/{id}/completed.

Request (Body):
  - public: bool

Response:
  - 200: Progress: The completed entry
  - 400: ErrValidation: Missing public flag
  - 404: ErrNotFound: Adventure not found
*/
func (handler *Handler) completeAdventure(writer http.ResponseWriter, request *http.Request) {
	mark, err := decodeMark(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.CompleteAdventure(request.Context(), mark)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// POST /api/v1/adventures/{id}/todo with {public}.
func (handler *Handler) addTodo(writer http.ResponseWriter, request *http.Request) {
	mark, err := decodeMark(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.AddAdventureTodo(request.Context(), mark)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entry)
}

// DELETE /api/v1/adventures/{id}/todo.
func (handler *Handler) removeTodo(writer http.ResponseWriter, request *http.Request) {
	adventureID, err := requestutil.ID(request, "id")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.RemoveAdventureTodo(request.Context(), userID, adventureID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

// GET /api/v1/adventures/{id}/completed and /{id}/todo list the public entries.
func (handler *Handler) adventureList(list List) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		adventureID, err := requestutil.ID(request, "id")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		users, err := handler.service.GetListedUsers(request.Context(), list, adventureID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, users)
	}
}

/*
GET /api/v1/adventures/completed and /todo.

Request:
  - user: string (Optional user UUID; defaults to the caller)

Response:
  - 200: []ListedAdventure: The owner also sees private entries
  - 400: ErrValidation: No user and not authenticated
*/
func (handler *Handler) userList(list List) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		userID, err := requestutil.QueryID(request, "user")
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		var viewerID string
		if claims := requestutil.Claims(request); claims != nil {
			viewerID = claims.UserID
		}
		if userID == "" {
			userID = viewerID
		}

		adventures, err := handler.service.GetListedAdventures(request.Context(), list, userID, viewerID)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, adventures)
	}
}

// decodeMark builds a [Mark] from the path, the caller and the body.
func decodeMark(request *http.Request) (Mark, error) {
	adventureID, err := requestutil.ID(request, "id")
	if err != nil {
		return Mark{}, err
	}

	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		return Mark{}, err
	}

	var mark Mark
	if err := requestutil.DecodeJSON(request, &mark); err != nil {
		return Mark{}, err
	}
	mark.UserID, mark.AdventureID = userID, adventureID
	return mark, nil
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
