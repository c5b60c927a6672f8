// Copyright (c) 2026 Confero. All rights reserved.

package review_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confero/confero/internal/core/article"
	"github.com/confero/confero/internal/core/publication"
	"github.com/confero/confero/internal/core/review"
	"github.com/confero/confero/internal/platform/apperr"
	"github.com/confero/confero/internal/platform/sec"
	"github.com/confero/confero/internal/users/auth"
)

/*
TestScales_ValidityAndLabels checks both 1..5 scales reject out-of-range
values and carry their named levels.
*/
func TestScales_ValidityAndLabels(t *testing.T) {
	assert.False(t, review.Rating(0).Valid())
	assert.False(t, review.Rating(6).Valid())
	assert.Equal(t, "terrible", review.RatingTerrible.Label())
	assert.Equal(t, "excellent", review.RatingExcellent.Label())

	assert.False(t, review.Relevance(0).Valid())
	assert.False(t, review.Relevance(6).Valid())
	assert.Equal(t, "novice", review.RelevanceNovice.Label())
	assert.Equal(t, "expert", review.RelevanceExpert.Label())
}

// # Service Fakes

type fakeRepository struct {
	reviews []*review.Review
	created *review.Review
}

func (f *fakeRepository) Create(_ context.Context, r *review.Review) error {
	f.created = r
	f.reviews = append(f.reviews, r)
	return nil
}

func (f *fakeRepository) ListByArticle(_ context.Context, articleID string) ([]*review.Review, error) {
	matched := make([]*review.Review, 0, len(f.reviews))
	for _, r := range f.reviews {
		if r.ArticleID == articleID {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

type fakeArticles struct {
	articles map[string]*article.Article

	// indexed maps "articleID/authorID" pairs to the indexed publication.
	indexed map[string]string
}

func (f *fakeArticles) Get(_ context.Context, id string) (*article.Article, error) {
	if a, ok := f.articles[id]; ok {
		return a, nil
	}
	return nil, apperr.NotFound("Article")
}

func (f *fakeArticles) PublicationIDForArticle(_ context.Context, articleID, authorID string) (string, error) {
	if publicationID, ok := f.indexed[articleID+"/"+authorID]; ok {
		return publicationID, nil
	}
	return "", apperr.NotFound("Article submission")
}

type fakePublications struct {
	publications map[string]*publication.Publication
}

func (f *fakePublications) Get(_ context.Context, id string) (*publication.Publication, error) {
	if p, ok := f.publications[id]; ok {
		return p, nil
	}
	return nil, apperr.NotFound("Publication")
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

// # Fixtures

// inReviewPublication builds a publication currently inside its review window.
func inReviewPublication(id string) *publication.Publication {
	now := time.Now()
	return &publication.Publication{
		ID:              id,
		Title:           "Publication " + id,
		ReviewDate:      now.Add(-time.Hour),
		FinalSubmitDate: now.Add(time.Hour),
		CompletionDate:  now.Add(2 * time.Hour),
	}
}

// openPublication builds a publication whose review window has not started.
func openPublication(id string) *publication.Publication {
	now := time.Now()
	return &publication.Publication{
		ID:              id,
		Title:           "Publication " + id,
		ReviewDate:      now.Add(time.Hour),
		FinalSubmitDate: now.Add(2 * time.Hour),
		CompletionDate:  now.Add(3 * time.Hour),
	}
}

type fixture struct {
	repo     *fakeRepository
	articles *fakeArticles
	service  *review.Service
	notifier *fakeNotifier
}

// newFixture wires a service around art-1 (authored by author-1, submitted
// to the given publication) and three viewers, one per role.
func newFixture(owner *publication.Publication) *fixture {
	repo := &fakeRepository{}
	articles := &fakeArticles{
		articles: map[string]*article.Article{
			"art-1": {ID: "art-1", PublicationID: owner.ID, Title: "Target", AuthorID: "author-1"},
		},
		indexed: map[string]string{
			"art-1/author-1": owner.ID,
		},
	}
	publications := &fakePublications{publications: map[string]*publication.Publication{owner.ID: owner}}
	users := &fakeUsers{users: map[string]*auth.User{
		"author-1":   {ID: "author-1", Role: sec.RoleAuthor},
		"author-2":   {ID: "author-2", Role: sec.RoleAuthor},
		"reviewer-1": {ID: "reviewer-1", Role: sec.RoleReviewer},
		"admin-1":    {ID: "admin-1", Role: sec.RoleAdmin},
	}}

	notifier := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := review.NewService(repo, articles, publications, users, notifier, logger)

	return &fixture{repo: repo, articles: articles, service: service, notifier: notifier}
}

// # Eligibility Tests

/*
TestService_CanReview_Boundaries exercises every leg of the eligibility rule:
the review window, the viewer's role, and self-review.
*/
func TestService_CanReview_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		owner    *publication.Publication
		viewerID string
		want     bool
	}{
		{"reviewer_in_window", inReviewPublication("pub-1"), "reviewer-1", true},
		{"admin_in_window", inReviewPublication("pub-1"), "admin-1", true},
		{"window_not_open", openPublication("pub-1"), "reviewer-1", false},
		{"author_role_rejected", inReviewPublication("pub-1"), "author-2", false},
		{"own_article_rejected", inReviewPublication("pub-1"), "author-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.owner)

			eligible, err := f.service.CanReview(context.Background(), "art-1", tt.viewerID)

			require.NoError(t, err)
			assert.Equal(t, tt.want, eligible)
		})
	}
}

// # Posting Tests

/*
TestService_Create_DenormalizesAndNotifies covers the happy path: the review
carries the denormalized publication and article-author IDs, and the
article's review channel is signalled.
*/
func TestService_Create_DenormalizesAndNotifies(t *testing.T) {
	f := newFixture(inReviewPublication("pub-1"))

	created, err := f.service.Create(context.Background(), review.CreateInput{
		ArticleID:      "art-1",
		ReviewAuthorID: "reviewer-1",
		Rating:         review.RatingGood,
		Description:    "Solid methodology, weak evaluation section",
		Relevance:      review.RelevanceConfident,
		Comment:        "Consider a larger dataset",
	})

	require.NoError(t, err)
	require.NotNil(t, f.repo.created)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "pub-1", created.PublicationID)
	assert.Equal(t, "author-1", created.ArticleAuthorID)
	assert.Equal(t, "reviewer-1", created.ReviewAuthorID)
	assert.Equal(t, []string{"live:reviews:art-1"}, f.notifier.notified)
}

/*
TestService_Create_FallsBackToArticleRow posts a review when the author's
submission index has no entry for the article; the publication ID then comes
from the article row itself.
*/
func TestService_Create_FallsBackToArticleRow(t *testing.T) {
	f := newFixture(inReviewPublication("pub-1"))
	f.articles.indexed = nil

	created, err := f.service.Create(context.Background(), review.CreateInput{
		ArticleID:      "art-1",
		ReviewAuthorID: "reviewer-1",
		Rating:         review.RatingAdequate,
		Description:    "Acceptable",
		Relevance:      review.RelevanceIntermediate,
	})

	require.NoError(t, err)
	assert.Equal(t, "pub-1", created.PublicationID)
}

/*
TestService_Create_RejectsIneligibleViewer ensures the eligibility rule gates
the write, not just the dedicated endpoint.
*/
func TestService_Create_RejectsIneligibleViewer(t *testing.T) {
	tests := []struct {
		name     string
		owner    *publication.Publication
		viewerID string
	}{
		{"window_not_open", openPublication("pub-1"), "reviewer-1"},
		{"author_role", inReviewPublication("pub-1"), "author-2"},
		{"own_article", inReviewPublication("pub-1"), "author-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.owner)

			_, err := f.service.Create(context.Background(), review.CreateInput{
				ArticleID:      "art-1",
				ReviewAuthorID: tt.viewerID,
				Rating:         review.RatingGood,
				Description:    "Review text",
				Relevance:      review.RelevanceConfident,
			})

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "FORBIDDEN", ae.Code)
			assert.Nil(t, f.repo.created, "nothing should be persisted")
		})
	}
}

/*
TestService_Create_RejectsInvalidScales checks out-of-range rating and
relevance values fail validation before eligibility is even evaluated.
*/
func TestService_Create_RejectsInvalidScales(t *testing.T) {
	f := newFixture(inReviewPublication("pub-1"))

	_, err := f.service.Create(context.Background(), review.CreateInput{
		ArticleID:      "art-1",
		ReviewAuthorID: "reviewer-1",
		Rating:         review.Rating(9),
		Description:    "Review text",
		Relevance:      review.Relevance(0),
	})

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Nil(t, f.repo.created)
}
