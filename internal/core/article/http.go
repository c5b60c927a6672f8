// Copyright (c) 2026 Confero. All rights reserved.

/*
Package article provides the HTTP delivery layer for article submissions.

# Endpoints

Articles are nested under their publication for listing, submission, and live
watching. Manuscript access and replacement use flat article routes, and the
viewer's own submissions are served off the denormalized account index.
*/
package article

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/confero/confero/internal/platform/apperr"
	"github.com/confero/confero/internal/platform/live"
	requestutil "github.com/confero/confero/internal/platform/request"
	"github.com/confero/confero/internal/platform/respond"
)

// maxPDFBytes caps manuscript uploads at 25 MiB.
const maxPDFBytes = 25 << 20

// Handler implements the HTTP layer for articles.
type Handler struct {
	articleService *Service
}

// NewHandler constructs a new article [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{articleService: service}
}

// PublicationRoutes returns the article endpoints nested under a publication.
// Mount at a pattern carrying a {publicationID} URL parameter.
func (handler *Handler) PublicationRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/watch", handler.watch)
	router.Get("/{articleID}", handler.get)

	return router
}

// Routes returns the flat article endpoints for manuscript access, with the
// review endpoints mounted under each article.
func (handler *Handler) Routes(reviews chi.Router) chi.Router {
	router := chi.NewRouter()

	router.Get("/{articleID}/pdf-url", handler.pdfURL)
	router.Put("/{articleID}/pdf", handler.replacePDF)
	router.Mount("/{articleID}/reviews", reviews)

	return router
}

// # Endpoints

/*
GET /api/v1/publications/{publicationID}/articles.

Description: Lists the publication's articles visible to the viewer.
Reviewers see only their assigned and self-authored articles; authors and
admins see all of them.

Response:
  - 200: []Article
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	articles, err := handler.articleService.ListForViewer(
		request.Context(),
		chi.URLParam(request, "publicationID"),
		viewerID,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, articles)
}

/*
GET /api/v1/publications/{publicationID}/articles/{articleID}.

Description: Retrieves a single article.

Response:
  - 200: Article
  - 404: ErrNotFound
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	article, err := handler.articleService.Get(request.Context(), chi.URLParam(request, "articleID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, article)
}

/*
POST /api/v1/publications/{publicationID}/articles.

Description: Submits a new article with its manuscript, as multipart form
data: text fields "title", "description", "character_count" plus the PDF
under the "pdf" file field.

Response:
  - 201: Article
  - 400: ErrValidation: Missing fields or oversized upload
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, maxPDFBytes)
	if err := request.ParseMultipartForm(maxPDFBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Article submission must be multipart form data under 25 MiB"))
		return
	}

	characterCount := 0
	if raw := request.FormValue("character_count"); raw != "" {
		characterCount, err = strconv.Atoi(raw)
		if err != nil {
			respond.Error(writer, request, apperr.ValidationError("Field 'character_count' must be an integer"))
			return
		}
	}

	file, _, err := request.FormFile("pdf")
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Missing 'pdf' file field"))
		return
	}
	defer file.Close()

	article, err := handler.articleService.Create(request.Context(), CreateInput{
		PublicationID:  chi.URLParam(request, "publicationID"),
		Title:          request.FormValue("title"),
		Description:    request.FormValue("description"),
		CharacterCount: characterCount,
		AuthorID:       viewerID,
	}, file)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, article)
}

/*
GET /api/v1/me/articles.

Description: Lists the authenticated user's own submissions, resolved from
the per-account submission index.

Response:
  - 200: []Article
  - 401: ErrUnauthorized: Authentication required
*/
func (handler *Handler) ListMine(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	articles, err := handler.articleService.ListByAuthor(request.Context(), viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, articles)
}

/*
GET /api/v1/articles/{articleID}/pdf-url.

Description: Returns a short-lived presigned download URL for the article's
manuscript.

Response:
  - 200: {url}
  - 404: ErrNotFound
*/
func (handler *Handler) pdfURL(writer http.ResponseWriter, request *http.Request) {
	url, err := handler.articleService.PDFDownloadURL(request.Context(), chi.URLParam(request, "articleID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"url": url})
}

/*
PUT /api/v1/articles/{articleID}/pdf.

Description: Replaces the article's manuscript in place. Only the article's
author may do this. Multipart form data with the PDF under the "pdf" field.

Response:
  - 200: {status: "replaced"}
  - 403: ErrForbidden: Viewer is not the author
  - 404: ErrNotFound
*/
func (handler *Handler) replacePDF(writer http.ResponseWriter, request *http.Request) {
	viewerID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	request.Body = http.MaxBytesReader(writer, request.Body, maxPDFBytes)
	if err := request.ParseMultipartForm(maxPDFBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("Manuscript upload must be multipart form data under 25 MiB"))
		return
	}

	file, _, err := request.FormFile("pdf")
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("Missing 'pdf' file field"))
		return
	}
	defer file.Close()

	if err := handler.articleService.ReplacePDF(request.Context(), chi.URLParam(request, "articleID"), viewerID, file); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"status": "replaced"})
}

/*
GET /api/v1/publications/{publicationID}/articles/watch.

Description: Streams article list snapshots for the publication as
server-sent events until the client disconnects.

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

	stream := handler.articleService.Watch(request.Context(), chi.URLParam(request, "publicationID"), viewerID)
	live.ServeSSE(writer, request, stream)
}
