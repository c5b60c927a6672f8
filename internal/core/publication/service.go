// Copyright (c) 2026 Confero. All rights reserved.

package publication

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/confero/confero/internal/platform/constants"
	"github.com/confero/confero/internal/platform/live"
	"github.com/confero/confero/internal/platform/sec"
	"github.com/confero/confero/internal/platform/validate"
	"github.com/confero/confero/internal/users/auth"
	"github.com/confero/confero/pkg/result"
	"github.com/confero/confero/pkg/slice"
	"github.com/confero/confero/pkg/slug"
	"github.com/confero/confero/pkg/uuid"
)

// # Contracts & Types

// UserDirectory resolves viewer identities for visibility filtering.
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

// Service orchestrates business rules for publications.
type Service struct {
	repository Repository
	users      UserDirectory
	notifier   Notifier
	logger     *slog.Logger
}

// NewService constructs a new publication [Service].
func NewService(repository Repository, users UserDirectory, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		users:      users,
		notifier:   notifier,
		logger:     logger,
	}
}

// # Creation

// CreateInput holds the data required to open a new publication.
type CreateInput struct {
	Title           string
	Description     string
	ReviewDate      time.Time
	FinalSubmitDate time.Time
	CompletionDate  time.Time
}

/*
Create validates and persists a new publication.

Description: The milestone dates must be provided in workflow order
(review <= final submit <= completion); a misordered sequence is rejected
outright rather than producing a publication whose phases can never all be
observed. The slug is derived from the title.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Publication: The created entity with derived status
  - error: Validation or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Publication, error) {
	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, 200).
		MaxLen(FieldDescription, input.Description, 2000).
		Custom(FieldReviewDate, input.ReviewDate.IsZero(), "is required").
		Custom(FieldFinalSubmitDate, input.FinalSubmitDate.IsZero(), "is required").
		Custom(FieldCompletionDate, input.CompletionDate.IsZero(), "is required").
		Custom(FieldFinalSubmitDate, input.FinalSubmitDate.Before(input.ReviewDate),
			"must not precede review_date").
		Custom(FieldCompletionDate, input.CompletionDate.Before(input.FinalSubmitDate),
			"must not precede final_submit_date")

	if err := validator.Err(); err != nil {
		return nil, err
	}

	publication := &Publication{
		ID:              uuid.New(),
		Title:           input.Title,
		Slug:            slug.From(input.Title),
		Description:     input.Description,
		ReviewDate:      input.ReviewDate,
		FinalSubmitDate: input.FinalSubmitDate,
		CompletionDate:  input.CompletionDate,
	}

	if err := service.repository.Create(context, publication); err != nil {
		return nil, fmt.Errorf("publication_service_create_failed: %w", err)
	}

	publication.Status = publication.StatusAt(time.Now())

	service.notifier.Notify(context, constants.LiveChannelPublications)
	service.logger.Info("publication_created",
		slog.String("publication_id", publication.ID),
		slog.String("slug", publication.Slug),
	)

	return publication, nil
}

// # Retrieval

/*
Get retrieves a single publication with its derived status.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Publication: Hydrated entity
  - error: Not found or storage failures
*/
func (service *Service) Get(context context.Context, id string) (*Publication, error) {
	publication, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	publication.Status = publication.StatusAt(time.Now())
	return publication, nil
}

/*
GetBySlug resolves a slug to its publication with derived status.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Publication: Hydrated entity
  - error: Not found or storage failures
*/
func (service *Service) GetBySlug(context context.Context, slugValue string) (*Publication, error) {
	publication, err := service.repository.FindBySlug(context, slugValue)
	if err != nil {
		return nil, err
	}

	publication.Status = publication.StatusAt(time.Now())
	return publication, nil
}

/*
ListForViewer returns all publications the viewer's role allows them to see.

Description: The list is fetched unfiltered and then scoped: authors see only
the publication they are assigned to submit into (none if unset), reviewers
and admins see everything. Statuses are derived at the same instant so the
list is phase-consistent.

Parameters:
  - context: context.Context
  - viewerID: string

Returns:
  - []*Publication: Visible publications
  - error: Retrieval failures
*/
func (service *Service) ListForViewer(context context.Context, viewerID string) ([]*Publication, error) {
	viewer, err := service.users.FindByID(context, viewerID)
	if err != nil {
		return nil, fmt.Errorf("publication_service_viewer_lookup_failed: %w", err)
	}

	publications, err := service.repository.List(context)
	if err != nil {
		return nil, fmt.Errorf("publication_service_list_failed: %w", err)
	}

	visible := filterForViewer(viewer, publications)

	now := time.Now()
	for _, publication := range visible {
		publication.Status = publication.StatusAt(now)
	}

	return visible, nil
}

// filterForViewer scopes the publication list to the viewer's role.
func filterForViewer(viewer *auth.User, publications []*Publication) []*Publication {
	if viewer.Role != sec.RoleAuthor {
		return publications
	}

	// Authors see only the publication they submit into.
	if viewer.Assignment == nil {
		return nil
	}
	return slice.Filter(publications, func(publication *Publication) bool {
		return publication.ID == viewer.Assignment.PublicationID
	})
}

// # Live Reads

/*
Watch streams publication list snapshots to the viewer until the context is
cancelled.

Description: The stream opens with a Loading value and an initial snapshot,
then re-queries and emits a fresh snapshot on every change notification.

Parameters:
  - context: context.Context (Cancel to unsubscribe)
  - viewerID: string

Returns:
  - <-chan result.Of[[]*Publication]: The snapshot stream
*/
func (service *Service) Watch(watchContext context.Context, viewerID string) <-chan result.Of[[]*Publication] {
	signals := service.notifier.Notifications(watchContext, constants.LiveChannelPublications)

	return live.Watch(watchContext, signals, func(queryContext context.Context) ([]*Publication, error) {
		return service.ListForViewer(queryContext, viewerID)
	})
}
