// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/sunday/internal/platform/request"
	"github.com/taibuivan/sunday/internal/platform/respond"
	"github.com/taibuivan/sunday/pkg/pagination"
)

// Handler implements the HTTP layer for keyword search.
type Handler struct {
	service *Service
}

// NewHandler constructs a new search [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] with the public search endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/adventures", handler.searchAdventures)
	router.Get("/zones", handler.searchZones)

	return router
}

/*
GET /api/v1/search/adventures.

Request:
  - q: string (Search text)
  - parent: string (Optional zone UUID whose direct children are hidden)
  - page, limit: int (Default 1 and 20, limit capped at 100)

Response:
  - 200: []AdventureHit
  - 400: ErrValidation: Malformed parent id
*/
func (handler *Handler) searchAdventures(writer http.ResponseWriter, request *http.Request) {
	text, parentID, err := parseQuery(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	hits, err := handler.service.SearchAdventures(request.Context(), text, parentID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, hits)
}

/*
GET /api/v1/search/zones.

Request:
  - q: string (Search text)
  - parent: string (Optional zone UUID hidden along with its direct children)

Response:
  - 200: []ZoneHit
  - 400: ErrValidation: Malformed parent id
*/
func (handler *Handler) searchZones(writer http.ResponseWriter, request *http.Request) {
	text, parentID, err := parseQuery(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	hits, err := handler.service.SearchZones(request.Context(), text, parentID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, hits)
}

func parseQuery(request *http.Request) (string, string, error) {
	parentID, err := requestutil.QueryID(request, "parent")
	if err != nil {
		return "", "", err
	}
	return request.URL.Query().Get("q"), parentID, nil
}
