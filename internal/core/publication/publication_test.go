// Copyright (c) 2026 Confero. All rights reserved.

package publication_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confero/confero/internal/core/publication"
	"github.com/confero/confero/internal/platform/apperr"
	"github.com/confero/confero/internal/platform/sec"
	"github.com/confero/confero/internal/users/auth"
)

// Milestone dates shared across the derivation tests.
var (
	reviewDate      = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	finalSubmitDate = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	completionDate  = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
)

/*
TestDeriveStatus_Phases verifies the half-open phase intervals: each
milestone date belongs to the phase it starts.
*/
func TestDeriveStatus_Phases(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want publication.Status
	}{
		{"well_before_review", reviewDate.AddDate(0, -1, 0), publication.StatusOpen},
		{"instant_before_review", reviewDate.Add(-time.Nanosecond), publication.StatusOpen},
		{"at_review_date", reviewDate, publication.StatusInReview},
		{"mid_review_window", reviewDate.AddDate(0, 0, 15), publication.StatusInReview},
		{"at_final_submit_date", finalSubmitDate, publication.StatusFinalSubmit},
		{"mid_final_submit_window", finalSubmitDate.AddDate(0, 0, 10), publication.StatusFinalSubmit},
		{"at_completion_date", completionDate, publication.StatusClosed},
		{"well_after_completion", completionDate.AddDate(1, 0, 0), publication.StatusClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := publication.DeriveStatus(reviewDate, finalSubmitDate, completionDate, tt.now)
			assert.Equal(t, tt.want, got)
		})
	}
}

/*
TestDeriveStatus_MonotonicInTime samples instants in increasing order and
checks the phase never moves backwards.
*/
func TestDeriveStatus_MonotonicInTime(t *testing.T) {
	order := map[publication.Status]int{
		publication.StatusOpen:        0,
		publication.StatusInReview:    1,
		publication.StatusFinalSubmit: 2,
		publication.StatusClosed:      3,
	}

	previous := -1
	now := reviewDate.AddDate(0, -2, 0)
	for now.Before(completionDate.AddDate(0, 2, 0)) {
		current := order[publication.DeriveStatus(reviewDate, finalSubmitDate, completionDate, now)]
		require.GreaterOrEqual(t, current, previous, "phase regressed at %s", now)
		previous = current
		now = now.Add(13 * time.Hour)
	}

	assert.Equal(t, order[publication.StatusClosed], previous)
}

/*
TestDeriveStatus_CollapsedPhase checks that equal adjacent dates make the
intermediate phase unobservable.
*/
func TestDeriveStatus_CollapsedPhase(t *testing.T) {

	// reviewDate == finalSubmitDate: IN_REVIEW has zero length
	got := publication.DeriveStatus(reviewDate, reviewDate, completionDate, reviewDate)
	assert.Equal(t, publication.StatusFinalSubmit, got)

	// all three equal: the publication jumps straight to CLOSED
	got = publication.DeriveStatus(reviewDate, reviewDate, reviewDate, reviewDate)
	assert.Equal(t, publication.StatusClosed, got)
}

// # Service Fakes

type fakeRepository struct {
	publications []*publication.Publication
	created      *publication.Publication
}

func (f *fakeRepository) Create(_ context.Context, p *publication.Publication) error {
	f.created = p
	f.publications = append(f.publications, p)
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*publication.Publication, error) {
	for _, p := range f.publications {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, apperr.NotFound("Publication")
}

func (f *fakeRepository) FindBySlug(_ context.Context, slug string) (*publication.Publication, error) {
	for _, p := range f.publications {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, apperr.NotFound("Publication")
}

func (f *fakeRepository) List(_ context.Context) ([]*publication.Publication, error) {
	return f.publications, nil
}

type fakeUsers struct {
	users map[string]*auth.User
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, apperr.NotFound("User")
}

type fakeNotifier struct {
	notified []string
}

func (f *fakeNotifier) Notify(_ context.Context, channel string) {
	f.notified = append(f.notified, channel)
}

func (f *fakeNotifier) Notifications(context.Context, string) <-chan struct{} {
	return make(chan struct{})
}

func newTestService(repo *fakeRepository, users *fakeUsers) (*publication.Service, *fakeNotifier) {
	notifier := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return publication.NewService(repo, users, notifier, logger), notifier
}

// # Service Tests

/*
TestService_Create_RejectsMisorderedDates ensures a publication whose
milestones are out of workflow order is rejected at creation.
*/
func TestService_Create_RejectsMisorderedDates(t *testing.T) {
	tests := []struct {
		name  string
		input publication.CreateInput
	}{
		{
			"final_submit_before_review",
			publication.CreateInput{
				Title:           "Annual Systems Review",
				ReviewDate:      finalSubmitDate,
				FinalSubmitDate: reviewDate,
				CompletionDate:  completionDate,
			},
		},
		{
			"completion_before_final_submit",
			publication.CreateInput{
				Title:           "Annual Systems Review",
				ReviewDate:      reviewDate,
				FinalSubmitDate: completionDate,
				CompletionDate:  finalSubmitDate,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			service, _ := newTestService(repo, &fakeUsers{})

			_, err := service.Create(context.Background(), tt.input)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Nil(t, repo.created, "nothing should be persisted")
		})
	}
}

/*
TestService_Create_PersistsAndNotifies covers the happy path: slug
derivation, persistence, derived status, and the change notification.
*/
func TestService_Create_PersistsAndNotifies(t *testing.T) {
	repo := &fakeRepository{}
	service, notifier := newTestService(repo, &fakeUsers{})

	future := time.Now().AddDate(1, 0, 0)
	created, err := service.Create(context.Background(), publication.CreateInput{
		Title:           "Annual Systems Review",
		Description:     "Call for articles",
		ReviewDate:      future,
		FinalSubmitDate: future.AddDate(0, 1, 0),
		CompletionDate:  future.AddDate(0, 2, 0),
	})

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "annual-systems-review", created.Slug)
	assert.Equal(t, publication.StatusOpen, created.Status)
	require.NotNil(t, repo.created)
	assert.Len(t, notifier.notified, 1)
}

// makePublications seeds three publications with distinct IDs.
func makePublications() []*publication.Publication {
	ids := []string{"pub-1", "pub-2", "pub-3"}
	publications := make([]*publication.Publication, 0, len(ids))
	for _, id := range ids {
		publications = append(publications, &publication.Publication{
			ID:              id,
			Title:           "Publication " + id,
			ReviewDate:      reviewDate,
			FinalSubmitDate: finalSubmitDate,
			CompletionDate:  completionDate,
		})
	}
	return publications
}

/*
TestService_ListForViewer_AuthorSeesOnlyAssigned verifies the author scoping:
only the assigned publication, nothing when unassigned.
*/
func TestService_ListForViewer_AuthorSeesOnlyAssigned(t *testing.T) {
	repo := &fakeRepository{publications: makePublications()}

	t.Run("assigned_author", func(t *testing.T) {
		users := &fakeUsers{users: map[string]*auth.User{
			"author-1": {
				ID:         "author-1",
				Role:       sec.RoleAuthor,
				Assignment: &auth.PublicationAssignment{PublicationID: "pub-2"},
			},
		}}
		service, _ := newTestService(repo, users)

		visible, err := service.ListForViewer(context.Background(), "author-1")

		require.NoError(t, err)
		require.Len(t, visible, 1)
		assert.Equal(t, "pub-2", visible[0].ID)
	})

	t.Run("unassigned_author", func(t *testing.T) {
		users := &fakeUsers{users: map[string]*auth.User{
			"author-2": {ID: "author-2", Role: sec.RoleAuthor},
		}}
		service, _ := newTestService(repo, users)

		visible, err := service.ListForViewer(context.Background(), "author-2")

		require.NoError(t, err)
		assert.Empty(t, visible)
	})
}

/*
TestService_ListForViewer_ReviewerAndAdminSeeAll checks that reviewers and
admins get the unfiltered publication list.
*/
func TestService_ListForViewer_ReviewerAndAdminSeeAll(t *testing.T) {
	repo := &fakeRepository{publications: makePublications()}
	users := &fakeUsers{users: map[string]*auth.User{
		"reviewer-1": {
			ID:         "reviewer-1",
			Role:       sec.RoleReviewer,
			Assignment: &auth.PublicationAssignment{PublicationID: "pub-1", ArticleIDs: []string{"a1"}},
		},
		"admin-1": {ID: "admin-1", Role: sec.RoleAdmin},
	}}
	service, _ := newTestService(repo, users)

	for _, viewerID := range []string{"reviewer-1", "admin-1"} {
		visible, err := service.ListForViewer(context.Background(), viewerID)
		require.NoError(t, err)
		assert.Len(t, visible, 3, "viewer %s", viewerID)
	}
}
