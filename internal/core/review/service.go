// Copyright (c) 2026 Confero. All rights reserved.

package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/confero/confero/internal/core/article"
	"github.com/confero/confero/internal/core/publication"
	"github.com/confero/confero/internal/platform/apperr"
	"github.com/confero/confero/internal/platform/constants"
	"github.com/confero/confero/internal/platform/live"
	"github.com/confero/confero/internal/platform/sec"
	"github.com/confero/confero/internal/platform/validate"
	"github.com/confero/confero/internal/users/auth"
	"github.com/confero/confero/pkg/result"
	"github.com/confero/confero/pkg/uuid"
)

// # Contracts & Types

// ArticleDirectory resolves review targets and their publication membership.
type ArticleDirectory interface {
	// Get returns the article with the given ID.
	Get(context context.Context, id string) (*article.Article, error)

	// PublicationIDForArticle resolves the publication an author submitted
	// the article to, via the author's submission index.
	PublicationIDForArticle(context context.Context, articleID, authorID string) (string, error)
}

// PublicationDirectory resolves publications with their derived status.
type PublicationDirectory interface {
	// Get returns the publication with its status derived at read time.
	Get(context context.Context, id string) (*publication.Publication, error)
}

// UserDirectory resolves viewer identities for the eligibility rule.
type UserDirectory interface {
	// FindByID returns the account with the given ID.
	FindByID(context context.Context, id string) (*auth.User, error)
}

// Notifier abstracts the pub/sub fabric used for live snapshot streams.
type Notifier interface {
	// Notify publishes a change signal on the channel. Fire-and-forget.
	Notify(context context.Context, channel string)

	// Notifications subscribes to change signals until the context is cancelled.
	Notifications(context context.Context, channel string) <-chan struct{}
}

// Service orchestrates business rules for peer reviews.
type Service struct {
	repository   Repository
	articles     ArticleDirectory
	publications PublicationDirectory
	users        UserDirectory
	notifier     Notifier
	logger       *slog.Logger
}

// NewService constructs a new review [Service].
func NewService(
	repository Repository,
	articles ArticleDirectory,
	publications PublicationDirectory,
	users UserDirectory,
	notifier Notifier,
	logger *slog.Logger,
) *Service {
	return &Service{
		repository:   repository,
		articles:     articles,
		publications: publications,
		users:        users,
		notifier:     notifier,
		logger:       logger,
	}
}

// # Eligibility

/*
CanReview decides whether the viewer may post a review against the article.

Description: The viewer is eligible only while the owning publication is in
its review window, only if they are not an author by role, and never against
their own article. The publication status is derived from a fresh fetch on
every call, never cached.

Parameters:
  - context: context.Context
  - articleID: string
  - viewerID: string

Returns:
  - bool: Whether posting a review is permitted
  - error: Retrieval failures
*/
func (service *Service) CanReview(context context.Context, articleID, viewerID string) (bool, error) {
	target, err := service.articles.Get(context, articleID)
	if err != nil {
		return false, err
	}

	viewer, err := service.users.FindByID(context, viewerID)
	if err != nil {
		return false, fmt.Errorf("review_service_viewer_lookup_failed: %w", err)
	}

	owner, err := service.publications.Get(context, target.PublicationID)
	if err != nil {
		return false, fmt.Errorf("review_service_publication_lookup_failed: %w", err)
	}

	eligible := owner.StatusAt(time.Now()) == publication.StatusInReview &&
		viewer.Role != sec.RoleAuthor &&
		viewerID != target.AuthorID

	return eligible, nil
}

// # Posting

// CreateInput holds the data required to post a review.
type CreateInput struct {
	ArticleID      string
	ReviewAuthorID string
	Rating         Rating
	Description    string
	Relevance      Relevance
	Comment        string
}

/*
Create posts a new review against an article.

Description: The eligibility rule is re-evaluated from fresh state before the
write. The owning publication ID and the article's author ID are denormalized
onto the review row; the publication is resolved through the author's
submission index, falling back to the article row itself when the index entry
is missing.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Review: The created entity
  - error: Validation, eligibility, or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Review, error) {
	validator := &validate.Validator{}
	validator.Custom(FieldRating, !input.Rating.Valid(), "must be between 1 and 5").
		Custom(FieldRelevance, !input.Relevance.Valid(), "must be between 1 and 5").
		Required(FieldDescription, input.Description).
		MaxLen(FieldDescription, input.Description, 2000).
		MaxLen(FieldComment, input.Comment, 2000)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	eligible, err := service.CanReview(context, input.ArticleID, input.ReviewAuthorID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, apperr.Forbidden("Reviewing this article is not permitted")
	}

	target, err := service.articles.Get(context, input.ArticleID)
	if err != nil {
		return nil, err
	}

	publicationID, err := service.articles.PublicationIDForArticle(context, target.ID, target.AuthorID)
	if err != nil {
		// The index is a derived cache; the article row stays authoritative.
		publicationID = target.PublicationID
	}

	review := &Review{
		ID:              uuid.New(),
		ArticleID:       target.ID,
		PublicationID:   publicationID,
		ArticleAuthorID: target.AuthorID,
		ReviewAuthorID:  input.ReviewAuthorID,
		Rating:          input.Rating,
		Description:     input.Description,
		Relevance:       input.Relevance,
		Comment:         input.Comment,
	}

	if err := service.repository.Create(context, review); err != nil {
		return nil, fmt.Errorf("review_service_create_failed: %w", err)
	}

	service.notifier.Notify(context, constants.LiveChannelReviewsPrefix+review.ArticleID)
	service.logger.Info("review_created",
		slog.String("review_id", review.ID),
		slog.String("article_id", review.ArticleID),
		slog.String("review_author_id", review.ReviewAuthorID),
	)

	return review, nil
}

// # Retrieval

/*
ListByArticle returns all reviews posted against an article, newest first.

Parameters:
  - context: context.Context
  - articleID: string

Returns:
  - []*Review: Hydrated entities
  - error: Retrieval failures
*/
func (service *Service) ListByArticle(context context.Context, articleID string) ([]*Review, error) {
	return service.repository.ListByArticle(context, articleID)
}

// # Live Reads

/*
Watch streams review list snapshots for one article until the context is
cancelled.

Parameters:
  - context: context.Context (Cancel to unsubscribe)
  - articleID: string

Returns:
  - <-chan result.Of[[]*Review]: The snapshot stream
*/
func (service *Service) Watch(watchContext context.Context, articleID string) <-chan result.Of[[]*Review] {
	signals := service.notifier.Notifications(watchContext, constants.LiveChannelReviewsPrefix+articleID)

	return live.Watch(watchContext, signals, func(queryContext context.Context) ([]*Review, error) {
		return service.repository.ListByArticle(queryContext, articleID)
	})
}
