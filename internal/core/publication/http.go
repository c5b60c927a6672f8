// Copyright (c) 2026 Confero. All rights reserved.

/*
Package publication provides the HTTP delivery layer for the publication
workflow.

# Endpoints

Listing honors the viewer's role-based visibility; creation is restricted to
admins. The watch endpoint exposes the live snapshot stream as server-sent
events.
*/
package publication

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/confero/confero/internal/platform/live"
	"github.com/confero/confero/internal/platform/middleware"
	requestutil "github.com/confero/confero/internal/platform/request"
	"github.com/confero/confero/internal/platform/respond"
	"github.com/confero/confero/internal/platform/sec"
	"github.com/confero/confero/internal/platform/validate"
)

// Handler implements the HTTP layer for publications.
type Handler struct {
	publicationService *Service
}

// NewHandler constructs a new publication [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{publicationService: service}
}

// Routes returns a [chi.Router] configured with the publication endpoints,
// with the article endpoints mounted under each publication.
func (handler *Handler) Routes(articles chi.Router) chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/watch", handler.watch)
	router.Get("/{publicationID}", handler.get)
	router.Get("/slug/{slug}", handler.getBySlug)
	router.Mount("/{publicationID}/articles", articles)

	// Admin-only mutation
	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(sec.RoleAdmin))
		r.Post("/", handler.create)
	})

	return router
}

// # Request Payloads

type createRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	ReviewDate      time.Time `json:"review_date"`
	FinalSubmitDate time.Time `json:"final_submit_date"`
	CompletionDate  time.Time `json:"completion_date"`
}

// # Endpoints

/*
GET /api/v1/publications.

Description: Lists the publications the authenticated viewer may see, with
their derived workflow status.

Response:
  - 200: []Publication
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	publications, err := handler.publicationService.ListForViewer(request.Context(), viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, publications)
}

/*
GET /api/v1/publications/{publicationID}.

Description: Retrieves a single publication with derived status.

Response:
  - 200: Publication
  - 404: ErrNotFound
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	publication, err := handler.publicationService.Get(request.Context(), chi.URLParam(request, "publicationID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, publication)
}

/*
GET /api/v1/publications/slug/{slug}.

Description: Resolves a URL slug to its publication.

Response:
  - 200: Publication
  - 404: ErrNotFound
*/
func (handler *Handler) getBySlug(writer http.ResponseWriter, request *http.Request) {
	publication, err := handler.publicationService.GetBySlug(request.Context(), chi.URLParam(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, publication)
}

/*
POST /api/v1/publications.

Description: Opens a new publication. Admin only. The milestone dates must be
in workflow order.

Request:
  - body: createRequest

Response:
  - 201: Publication
  - 400: ErrValidation: Missing title or misordered dates
  - 403: ErrForbidden: Admin role required
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	publication, err := handler.publicationService.Create(request.Context(), CreateInput{
		Title:           input.Title,
		Description:     input.Description,
		ReviewDate:      input.ReviewDate,
		FinalSubmitDate: input.FinalSubmitDate,
		CompletionDate:  input.CompletionDate,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, publication)
}

/*
GET /api/v1/publications/watch.

Description: Streams publication list snapshots as server-sent events until
the client disconnects. Each change to a publication triggers a fresh
snapshot event.

Response:
  - 200: text/event-stream of loading/snapshot/error events
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) watch(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	stream := handler.publicationService.Watch(request.Context(), viewerID)
	live.ServeSSE(writer, request, stream)
}
