// Copyright (c) 2026 Confero. All rights reserved.

package review

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/confero/confero/internal/platform/live"
	requestutil "github.com/confero/confero/internal/platform/request"
	"github.com/confero/confero/internal/platform/respond"
	"github.com/confero/confero/internal/platform/validate"
)

// Handler implements the HTTP layer for reviews.
type Handler struct {
	reviewService *Service
}

// NewHandler constructs a new review [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{reviewService: service}
}

// Routes returns the review endpoints nested under an article. Mount at a
// pattern carrying an {articleID} URL parameter.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/watch", handler.watch)
	router.Get("/can-review", handler.canReview)

	return router
}

// # Request Payloads

type createRequest struct {
	Rating      int    `json:"rating"`
	Description string `json:"description"`
	Relevance   int    `json:"relevance"`
	Comment     string `json:"comment"`
}

// # Endpoints

/*
GET /api/v1/articles/{articleID}/reviews.

Description: Lists all reviews posted against the article, newest first.

Response:
  - 200: []Review
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	reviews, err := handler.reviewService.ListByArticle(request.Context(), chi.URLParam(request, "articleID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, reviews)
}

/*
POST /api/v1/articles/{articleID}/reviews.

Description: Posts a new review. The eligibility rule is re-evaluated from a
fresh publication fetch: the publication must be in its review window, the
viewer must not hold the author role, and nobody reviews their own article.

Request:
  - body: createRequest

Response:
  - 201: Review
  - 400: ErrValidation: Rating or relevance outside the 1..5 scale
  - 403: ErrForbidden: Eligibility rule not satisfied
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	review, err := handler.reviewService.Create(request.Context(), CreateInput{
		ArticleID:      chi.URLParam(request, "articleID"),
		ReviewAuthorID: viewerID,
		Rating:         Rating(input.Rating),
		Description:    input.Description,
		Relevance:      Relevance(input.Relevance),
		Comment:        input.Comment,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, review)
}

/*
GET /api/v1/articles/{articleID}/reviews/can-review.

Description: Evaluates the review-eligibility rule for the viewer against
this article, from fresh state.

Response:
  - 200: {eligible}
  - 404: ErrNotFound: Unknown article
*/
func (handler *Handler) canReview(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	eligible, err := handler.reviewService.CanReview(request.Context(), chi.URLParam(request, "articleID"), viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]bool{"eligible": eligible})
}

/*
GET /api/v1/articles/{articleID}/reviews/watch.

Description: Streams review list snapshots for the article as server-sent
events until the client disconnects.

Response:
  - 200: text/event-stream of loading/snapshot/error events
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) watch(writer http.ResponseWriter, request *http.Request) {
	stream := handler.reviewService.Watch(request.Context(), chi.URLParam(request, "articleID"))
	live.ServeSSE(writer, request, stream)
}
