// Copyright (c) 2026 Confero. All rights reserved.

package article_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confero/confero/internal/core/article"
	"github.com/confero/confero/internal/platform/apperr"
	"github.com/confero/confero/internal/platform/sec"
	"github.com/confero/confero/internal/users/auth"
)

/*
TestIndexKey_RoundTrip checks the denormalized index key format survives a
build/parse round trip and rejects malformed entries.
*/
func TestIndexKey_RoundTrip(t *testing.T) {
	key := article.IndexKey("pub-1", "art-9")

	publicationID, articleID, err := article.ParseIndexKey(key)
	require.NoError(t, err)
	assert.Equal(t, "pub-1", publicationID)
	assert.Equal(t, "art-9", articleID)

	for _, malformed := range []string{"", "pub-1", "&separt-9", "pub-1&sep"} {
		_, _, err := article.ParseIndexKey(malformed)
		assert.Error(t, err, "key %q", malformed)
	}
}

// # Service Fakes

type fakeRepository struct {
	articles []*article.Article
	created  *article.Article
	deleted  *article.Article
}

func (f *fakeRepository) CreateWithIndex(_ context.Context, a *article.Article) error {
	f.created = a
	f.articles = append(f.articles, a)
	return nil
}

func (f *fakeRepository) DeleteWithIndex(_ context.Context, a *article.Article) error {
	f.deleted = a
	return nil
}

func (f *fakeRepository) FindByID(_ context.Context, id string) (*article.Article, error) {
	for _, a := range f.articles {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, apperr.NotFound("Article")
}

func (f *fakeRepository) ListByPublication(_ context.Context, publicationID string) ([]*article.Article, error) {
	matched := make([]*article.Article, 0, len(f.articles))
	for _, a := range f.articles {
		if a.PublicationID == publicationID {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (f *fakeRepository) ListByIDs(_ context.Context, ids []string) ([]*article.Article, error) {
	matched := make([]*article.Article, 0, len(ids))
	for _, id := range ids {
		for _, a := range f.articles {
			if a.ID == id {
				matched = append(matched, a)
			}
		}
	}
	return matched, nil
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

type fakeStorage struct {
	uploads   map[string]string
	uploadErr error
	deleted   []string
}

func (f *fakeStorage) Upload(_ context.Context, key string, _ io.Reader, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if f.uploads == nil {
		f.uploads = make(map[string]string)
	}
	f.uploads[key] = contentType
	return nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) PresignDownload(_ context.Context, key string) (string, error) {
	return "https://objects.test/" + key + "?signed", nil
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

func newTestService(repo *fakeRepository, users *fakeUsers, objects *fakeStorage) (*article.Service, *fakeNotifier) {
	notifier := &fakeNotifier{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return article.NewService(repo, users, objects, notifier, logger), notifier
}

func pdfBody() io.Reader {
	return strings.NewReader("%PDF-1.7 test body")
}

// # Submission Tests

/*
TestService_Create_PersistsUploadsAndNotifies covers the happy path: the row
and index entry are written, the manuscript lands under the article's object
key, and the publication's article channel is signalled.
*/
func TestService_Create_PersistsUploadsAndNotifies(t *testing.T) {
	repo := &fakeRepository{}
	objects := &fakeStorage{}
	service, notifier := newTestService(repo, &fakeUsers{}, objects)

	created, err := service.Create(context.Background(), article.CreateInput{
		PublicationID:  "pub-1",
		Title:          "Distributed Consensus in Practice",
		Description:    "Survey of production consensus deployments",
		CharacterCount: 42000,
		AuthorID:       "author-1",
	}, pdfBody())

	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.NotEmpty(t, created.ID)
	assert.Contains(t, objects.uploads, "articles/"+created.ID+".pdf")
	assert.Equal(t, "application/pdf", objects.uploads["articles/"+created.ID+".pdf"])
	assert.Equal(t, []string{"live:articles:pub-1"}, notifier.notified)
}

/*
TestService_Create_CompensatesOnUploadFailure ensures a failed manuscript
upload rolls the committed create back out: the row and index entry are
deleted again and no change notification goes out.
*/
func TestService_Create_CompensatesOnUploadFailure(t *testing.T) {
	repo := &fakeRepository{}
	objects := &fakeStorage{uploadErr: errors.New("bucket unavailable")}
	service, notifier := newTestService(repo, &fakeUsers{}, objects)

	_, err := service.Create(context.Background(), article.CreateInput{
		PublicationID: "pub-1",
		Title:         "Distributed Consensus in Practice",
		AuthorID:      "author-1",
	}, pdfBody())

	require.Error(t, err)
	require.NotNil(t, repo.created, "the create itself must have been attempted")
	require.NotNil(t, repo.deleted, "the committed create must be compensated")
	assert.Equal(t, repo.created.ID, repo.deleted.ID)
	assert.Empty(t, notifier.notified)
}

/*
TestService_Create_RejectsInvalidInput checks the validation gate: missing
title, negative character count, and a missing manuscript all fail before
anything is persisted.
*/
func TestService_Create_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input article.CreateInput
		pdf   io.Reader
	}{
		{"missing_title", article.CreateInput{PublicationID: "pub-1", AuthorID: "author-1"}, pdfBody()},
		{"negative_character_count", article.CreateInput{PublicationID: "pub-1", Title: "T", CharacterCount: -1, AuthorID: "author-1"}, pdfBody()},
		{"missing_pdf", article.CreateInput{PublicationID: "pub-1", Title: "T", AuthorID: "author-1"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeRepository{}
			service, _ := newTestService(repo, &fakeUsers{}, &fakeStorage{})

			_, err := service.Create(context.Background(), tt.input, tt.pdf)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "VALIDATION_ERROR", ae.Code)
			assert.Nil(t, repo.created, "nothing should be persisted")
		})
	}
}

// # Visibility Tests

// seedArticles populates pub-1 with three articles from different authors.
func seedArticles() *fakeRepository {
	return &fakeRepository{articles: []*article.Article{
		{ID: "art-1", PublicationID: "pub-1", Title: "Assigned", AuthorID: "author-9"},
		{ID: "art-2", PublicationID: "pub-1", Title: "Own", AuthorID: "reviewer-1"},
		{ID: "art-3", PublicationID: "pub-1", Title: "Other", AuthorID: "author-8"},
	}}
}

/*
TestService_ListForViewer_ReviewerScoping verifies a reviewer sees only the
articles assigned to them plus any they authored themselves.
*/
func TestService_ListForViewer_ReviewerScoping(t *testing.T) {
	repo := seedArticles()
	users := &fakeUsers{users: map[string]*auth.User{
		"reviewer-1": {
			ID:   "reviewer-1",
			Role: sec.RoleReviewer,
			Assignment: &auth.PublicationAssignment{
				PublicationID: "pub-1",
				ArticleIDs:    []string{"art-1"},
			},
		},
	}}
	service, _ := newTestService(repo, users, &fakeStorage{})

	visible, err := service.ListForViewer(context.Background(), "pub-1", "reviewer-1")

	require.NoError(t, err)
	require.Len(t, visible, 2)
	assert.Equal(t, "art-1", visible[0].ID, "assigned article")
	assert.Equal(t, "art-2", visible[1].ID, "self-authored article")
}

/*
TestService_ListForViewer_AuthorAndAdminSeeAll checks authors and admins get
the full article list of the publication.
*/
func TestService_ListForViewer_AuthorAndAdminSeeAll(t *testing.T) {
	repo := seedArticles()
	users := &fakeUsers{users: map[string]*auth.User{
		"author-9": {ID: "author-9", Role: sec.RoleAuthor, Assignment: &auth.PublicationAssignment{PublicationID: "pub-1"}},
		"admin-1":  {ID: "admin-1", Role: sec.RoleAdmin},
	}}
	service, _ := newTestService(repo, users, &fakeStorage{})

	for _, viewerID := range []string{"author-9", "admin-1"} {
		visible, err := service.ListForViewer(context.Background(), "pub-1", viewerID)
		require.NoError(t, err)
		assert.Len(t, visible, 3, "viewer %s", viewerID)
	}
}

// # Index Tests

/*
TestService_ListByAuthor_ResolvesIndex hydrates the viewer's submissions from
the denormalized index, skipping a malformed entry instead of failing.
*/
func TestService_ListByAuthor_ResolvesIndex(t *testing.T) {
	repo := seedArticles()
	users := &fakeUsers{users: map[string]*auth.User{
		"author-9": {
			ID:   "author-9",
			Role: sec.RoleAuthor,
			Articles: []string{
				article.IndexKey("pub-1", "art-1"),
				"garbage-entry",
				article.IndexKey("pub-1", "art-3"),
			},
		},
	}}
	service, _ := newTestService(repo, users, &fakeStorage{})

	articles, err := service.ListByAuthor(context.Background(), "author-9")

	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "art-1", articles[0].ID)
	assert.Equal(t, "art-3", articles[1].ID)
}

/*
TestService_PublicationIDForArticle resolves the publication from the
author's index and errors when the pair is not indexed.
*/
func TestService_PublicationIDForArticle(t *testing.T) {
	users := &fakeUsers{users: map[string]*auth.User{
		"author-9": {
			ID:       "author-9",
			Articles: []string{article.IndexKey("pub-1", "art-1")},
		},
	}}
	service, _ := newTestService(&fakeRepository{}, users, &fakeStorage{})

	publicationID, err := service.PublicationIDForArticle(context.Background(), "art-1", "author-9")
	require.NoError(t, err)
	assert.Equal(t, "pub-1", publicationID)

	_, err = service.PublicationIDForArticle(context.Background(), "art-unknown", "author-9")
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

// # Manuscript Tests

/*
TestService_ReplacePDF_OnlyAuthor allows the author to overwrite the
manuscript in place and rejects anyone else.
*/
func TestService_ReplacePDF_OnlyAuthor(t *testing.T) {
	repo := seedArticles()
	objects := &fakeStorage{}
	service, notifier := newTestService(repo, &fakeUsers{}, objects)

	err := service.ReplacePDF(context.Background(), "art-2", "reviewer-1", pdfBody())
	require.NoError(t, err)
	assert.Contains(t, objects.uploads, "articles/art-2.pdf")
	assert.Equal(t, []string{"live:articles:pub-1"}, notifier.notified)

	err = service.ReplacePDF(context.Background(), "art-2", "author-8", pdfBody())
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "FORBIDDEN", ae.Code)
}

/*
TestService_PDFDownloadURL returns a signed URL for an existing article and
a not-found error otherwise.
*/
func TestService_PDFDownloadURL(t *testing.T) {
	service, _ := newTestService(seedArticles(), &fakeUsers{}, &fakeStorage{})

	url, err := service.PDFDownloadURL(context.Background(), "art-1")
	require.NoError(t, err)
	assert.Equal(t, "https://objects.test/articles/art-1.pdf?signed", url)

	_, err = service.PDFDownloadURL(context.Background(), "art-unknown")
	require.Error(t, err)
}
