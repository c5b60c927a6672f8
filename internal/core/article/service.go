// Copyright (c) 2026 Confero. All rights reserved.

package article

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/confero/confero/internal/platform/apperr"
	"github.com/confero/confero/internal/platform/constants"
	"github.com/confero/confero/internal/platform/live"
	"github.com/confero/confero/internal/platform/sec"
	"github.com/confero/confero/internal/platform/storage"
	"github.com/confero/confero/internal/platform/validate"
	"github.com/confero/confero/internal/users/auth"
	"github.com/confero/confero/pkg/result"
	"github.com/confero/confero/pkg/slice"
	"github.com/confero/confero/pkg/uuid"
)

// pdfContentType is the stored media type for manuscripts.
const pdfContentType = "application/pdf"

// # Contracts & Types

// UserDirectory resolves viewer identities for visibility filtering and
// submission index reads.
type UserDirectory interface {
	// FindByID returns the account with the given ID.
	FindByID(context context.Context, id string) (*auth.User, error)
}

// ObjectStorage abstracts the blob store holding manuscript PDFs.
type ObjectStorage interface {
	// Upload stores the object under the given key, replacing any previous one.
	Upload(context context.Context, key string, body io.Reader, contentType string) error

	// Delete removes the object. Deleting a missing key is not an error.
	Delete(context context.Context, key string) error

	// PresignDownload returns a short-lived signed GET URL for the key.
	PresignDownload(context context.Context, key string) (string, error)
}

// Notifier abstracts the pub/sub fabric used for live snapshot streams.
type Notifier interface {
	// Notify publishes a change signal on the channel. Fire-and-forget.
	Notify(context context.Context, channel string)

	// Notifications subscribes to change signals until the context is cancelled.
	Notifications(context context.Context, channel string) <-chan struct{}
}

// Service orchestrates business rules for article submissions.
type Service struct {
	repository Repository
	users      UserDirectory
	storage    ObjectStorage
	notifier   Notifier
	logger     *slog.Logger
}

// NewService constructs a new article [Service].
func NewService(
	repository Repository,
	users UserDirectory,
	objectStorage ObjectStorage,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		repository: repository,
		users:      users,
		storage:    objectStorage,
		notifier:   notifier,
		logger:     logger,
	}
}

// # Submission

// CreateInput holds the data required to submit a new article.
type CreateInput struct {
	PublicationID  string
	Title          string
	Description    string
	CharacterCount int
	AuthorID       string
}

/*
Create submits a new article with its manuscript PDF.

Description: The article row and the author's submission index entry are
written in one transaction, then the PDF is uploaded to object storage. The
upload sits outside the transaction; if it fails, the committed create is
compensated by deleting the row and index entry again, so no article ever
exists without its manuscript.

Parameters:
  - context: context.Context
  - input: CreateInput
  - pdf: io.Reader (Manuscript bytes)

Returns:
  - *Article: The created entity
  - error: Validation, storage, or upload failures
*/
func (service *Service) Create(context context.Context, input CreateInput, pdf io.Reader) (*Article, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		MaxLen(FieldDescription, input.Description, 2000).
		Custom(FieldCharacterCount, input.CharacterCount < 0, "must not be negative").
		Custom(FieldPDF, pdf == nil, "is required")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	article := &Article{
		ID:             uuid.New(),
		PublicationID:  input.PublicationID,
		Title:          input.Title,
		Description:    input.Description,
		CharacterCount: input.CharacterCount,
		AuthorID:       input.AuthorID,
	}

	if err := service.repository.CreateWithIndex(context, article); err != nil {
		return nil, fmt.Errorf("article_service_create_failed: %w", err)
	}

	if err := service.storage.Upload(context, storage.ArticlePDFKey(article.ID), pdf, pdfContentType); err != nil {

		// Compensate the committed create so no article survives without
		// its manuscript.
		if deleteErr := service.repository.DeleteWithIndex(context, article); deleteErr != nil {
			service.logger.Error("article_create_compensation_failed",
				slog.String("article_id", article.ID),
				slog.String("error", deleteErr.Error()),
			)
		}
		return nil, fmt.Errorf("article_service_pdf_upload_failed: %w", err)
	}

	service.notifier.Notify(context, constants.LiveChannelArticlesPrefix+article.PublicationID)
	service.logger.Info("article_created",
		slog.String("article_id", article.ID),
		slog.String("publication_id", article.PublicationID),
		slog.String("author_id", article.AuthorID),
	)

	return article, nil
}

/*
ReplacePDF overwrites an article's manuscript in place.

Description: Only the article's author may replace the manuscript. The
object key is deterministic, so the upload atomically supersedes the
previous file.

Parameters:
  - context: context.Context
  - articleID: string
  - viewerID: string (Must be the article's author)
  - pdf: io.Reader

Returns:
  - error: Forbidden, not found, or upload failures
*/
func (service *Service) ReplacePDF(context context.Context, articleID, viewerID string, pdf io.Reader) error {
	article, err := service.repository.FindByID(context, articleID)
	if err != nil {
		return err
	}

	if article.AuthorID != viewerID {
		return apperr.Forbidden("Only the article's author can replace the manuscript")
	}

	if err := service.storage.Upload(context, storage.ArticlePDFKey(article.ID), pdf, pdfContentType); err != nil {
		return fmt.Errorf("article_service_pdf_replace_failed: %w", err)
	}

	service.notifier.Notify(context, constants.LiveChannelArticlesPrefix+article.PublicationID)
	service.logger.Info("article_pdf_replaced", slog.String("article_id", article.ID))

	return nil
}

// # Retrieval

/*
Get retrieves a single article.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Article: Hydrated entity
  - error: Not found or storage failures
*/
func (service *Service) Get(context context.Context, id string) (*Article, error) {
	return service.repository.FindByID(context, id)
}

/*
ListForViewer returns the articles of a publication the viewer may see.

Description: Authors and admins see every article of the publication.
Reviewers see only the articles they are assigned to review plus any they
authored themselves.

Parameters:
  - context: context.Context
  - publicationID: string
  - viewerID: string

Returns:
  - []*Article: Visible articles
  - error: Retrieval failures
*/
func (service *Service) ListForViewer(context context.Context, publicationID, viewerID string) ([]*Article, error) {
	viewer, err := service.users.FindByID(context, viewerID)
	if err != nil {
		return nil, fmt.Errorf("article_service_viewer_lookup_failed: %w", err)
	}

	articles, err := service.repository.ListByPublication(context, publicationID)
	if err != nil {
		return nil, fmt.Errorf("article_service_list_failed: %w", err)
	}

	return filterForViewer(viewer, articles), nil
}

// filterForViewer scopes the article list to the viewer's role.
func filterForViewer(viewer *auth.User, articles []*Article) []*Article {
	if viewer.Role != sec.RoleReviewer {
		return articles
	}

	assigned := make(map[string]bool, 3)
	if viewer.Assignment != nil {
		for _, articleID := range viewer.Assignment.ArticleIDs {
			assigned[articleID] = true
		}
	}

	return slice.Filter(articles, func(article *Article) bool {
		return assigned[article.ID] || article.AuthorID == viewer.ID
	})
}

/*
ListByAuthor resolves a user's submission index into article rows.

Description: Reads the denormalized index off the account row and hydrates
the referenced articles. Malformed index entries are skipped with a warning
rather than failing the whole read.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - []*Article: The user's submitted articles
  - error: Retrieval failures
*/
func (service *Service) ListByAuthor(context context.Context, userID string) ([]*Article, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("article_service_author_lookup_failed: %w", err)
	}

	ids := make([]string, 0, len(user.Articles))
	for _, key := range user.Articles {
		_, articleID, err := ParseIndexKey(key)
		if err != nil {
			service.logger.Warn("article_index_entry_malformed",
				slog.String("user_id", userID),
				slog.String("entry", key),
			)
			continue
		}
		ids = append(ids, articleID)
	}

	return service.repository.ListByIDs(context, ids)
}

/*
PublicationIDForArticle resolves the publication an author submitted a given
article to, using the author's submission index.

Parameters:
  - context: context.Context
  - articleID: string
  - authorID: string

Returns:
  - string: The publication ID
  - error: apperr.NotFound if the index has no matching entry
*/
func (service *Service) PublicationIDForArticle(context context.Context, articleID, authorID string) (string, error) {
	user, err := service.users.FindByID(context, authorID)
	if err != nil {
		return "", fmt.Errorf("article_service_index_lookup_failed: %w", err)
	}

	for _, key := range user.Articles {
		publicationID, indexedArticleID, err := ParseIndexKey(key)
		if err != nil {
			continue
		}
		if indexedArticleID == articleID {
			return publicationID, nil
		}
	}

	return "", apperr.NotFound("Article submission")
}

/*
PDFDownloadURL returns a short-lived signed URL for an article's manuscript.

Parameters:
  - context: context.Context
  - articleID: string

Returns:
  - string: Presigned GET URL
  - error: Not found or signing failures
*/
func (service *Service) PDFDownloadURL(context context.Context, articleID string) (string, error) {
	article, err := service.repository.FindByID(context, articleID)
	if err != nil {
		return "", err
	}

	url, err := service.storage.PresignDownload(context, storage.ArticlePDFKey(article.ID))
	if err != nil {
		return "", fmt.Errorf("article_service_presign_failed: %w", err)
	}

	return url, nil
}

// # Live Reads

/*
Watch streams article list snapshots for one publication until the context
is cancelled.

Parameters:
  - context: context.Context (Cancel to unsubscribe)
  - publicationID: string
  - viewerID: string

Returns:
  - <-chan result.Of[[]*Article]: The snapshot stream
*/
func (service *Service) Watch(watchContext context.Context, publicationID, viewerID string) <-chan result.Of[[]*Article] {
	signals := service.notifier.Notifications(watchContext, constants.LiveChannelArticlesPrefix+publicationID)

	return live.Watch(watchContext, signals, func(queryContext context.Context) ([]*Article, error) {
		return service.ListForViewer(queryContext, publicationID, viewerID)
	})
}
