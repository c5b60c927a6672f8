// Copyright (c) 2026 Confero. All rights reserved.

package account_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/confero/confero/internal/platform/apperr"
	"github.com/confero/confero/internal/platform/sec"
	"github.com/confero/confero/internal/users/account"
	"github.com/confero/confero/internal/users/auth"
)

// # Fakes

type roleUpdate struct {
	userID     string
	role       sec.Role
	assignment *auth.PublicationAssignment
}

type fakeAccountRepository struct {
	users      map[string]*auth.User
	updated    *auth.User
	avatarKey  string
	roleUpdate *roleUpdate
	deletedID  string
}

func (f *fakeAccountRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	if user, ok := f.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User")
}

func (f *fakeAccountRepository) List(_ context.Context, _, _ int) ([]auth.User, int, error) {
	users := make([]auth.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, *user)
	}
	return users, len(users), nil
}

func (f *fakeAccountRepository) Update(_ context.Context, user *auth.User) error {
	f.updated = user
	return nil
}

func (f *fakeAccountRepository) UpdateAvatar(_ context.Context, _ string, avatarURL string) error {
	f.avatarKey = avatarURL
	return nil
}

func (f *fakeAccountRepository) UpdateRole(_ context.Context, userID string, role sec.Role, assignment *auth.PublicationAssignment) error {
	f.roleUpdate = &roleUpdate{userID: userID, role: role, assignment: assignment}
	return nil
}

func (f *fakeAccountRepository) SoftDelete(_ context.Context, id string) error {
	f.deletedID = id
	return nil
}

type fakeSessionRepository struct {
	revokedAllFor string
}

func (f *fakeSessionRepository) FindActiveByUserID(context.Context, string, string) ([]account.SessionInfo, error) {
	return nil, nil
}

func (f *fakeSessionRepository) Revoke(context.Context, string, string) error { return nil }

func (f *fakeSessionRepository) RevokeOthers(context.Context, string, string) error { return nil }

func (f *fakeSessionRepository) RevokeAll(_ context.Context, userID string) error {
	f.revokedAllFor = userID
	return nil
}

type fakeUploader struct {
	uploads   map[string]string
	uploadErr error
}

func (f *fakeUploader) Upload(_ context.Context, key string, _ io.Reader, contentType string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	if f.uploads == nil {
		f.uploads = make(map[string]string)
	}
	f.uploads[key] = contentType
	return nil
}

func newFixture() (*account.Service, *fakeAccountRepository, *fakeSessionRepository, *fakeUploader) {
	repo := &fakeAccountRepository{users: map[string]*auth.User{
		"user-1": {ID: "user-1", Username: "ada", Email: "ada@confero.app", DisplayName: "Ada", Role: sec.RoleAuthor},
	}}
	sessions := &fakeSessionRepository{}
	uploader := &fakeUploader{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return account.NewService(repo, sessions, uploader, logger), repo, sessions, uploader
}

// # Profile Tests

/*
TestService_UpdateProfile_PartialDelta applies only the provided fields and
persists the merged profile in one write.
*/
func TestService_UpdateProfile_PartialDelta(t *testing.T) {
	service, repo, _, _ := newFixture()

	phone := "+34 600 000 000"
	updated, err := service.UpdateProfile(context.Background(), "user-1", account.UpdateProfileInput{
		Phone: &phone,
	})

	require.NoError(t, err)
	require.NotNil(t, repo.updated)
	assert.Equal(t, "+34 600 000 000", updated.Phone)
	assert.Equal(t, "Ada", updated.DisplayName, "untouched fields keep their value")
	assert.Equal(t, "ada@confero.app", updated.Email)
}

/*
TestService_UploadAvatar stores the image at the deterministic per-user key
and records that key on the account.
*/
func TestService_UploadAvatar(t *testing.T) {
	service, repo, _, uploader := newFixture()

	key, err := service.UploadAvatar(context.Background(), "user-1", strings.NewReader("png-bytes"), "image/png")

	require.NoError(t, err)
	assert.Equal(t, "avatars/user-1", key)
	assert.Equal(t, "image/png", uploader.uploads[key])
	assert.Equal(t, key, repo.avatarKey)
}

/*
TestService_UploadAvatar_FailedUploadWritesNothing leaves the account row
untouched when the blob store rejects the upload.
*/
func TestService_UploadAvatar_FailedUploadWritesNothing(t *testing.T) {
	service, repo, _, uploader := newFixture()
	uploader.uploadErr = errors.New("bucket unavailable")

	_, err := service.UploadAvatar(context.Background(), "user-1", strings.NewReader("png-bytes"), "image/png")

	require.Error(t, err)
	assert.Empty(t, repo.avatarKey)
}

/*
TestService_DeleteAccount_RevokesSessions soft-deletes the account and
force-terminates every active session.
*/
func TestService_DeleteAccount_RevokesSessions(t *testing.T) {
	service, repo, sessions, _ := newFixture()

	err := service.DeleteAccount(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, "user-1", repo.deletedID)
	assert.Equal(t, "user-1", sessions.revokedAllFor)
}

// # Role Administration Tests

/*
TestService_AssignRole_RejectsInvalidScoping covers the assignment
constraints: admins carry none, assignments need a publication, article lists
are reviewer-only and capped at three.
*/
func TestService_AssignRole_RejectsInvalidScoping(t *testing.T) {
	tests := []struct {
		name  string
		input account.AssignRoleInput
	}{
		{
			"admin_with_assignment",
			account.AssignRoleInput{
				Role:       sec.RoleAdmin,
				Assignment: &auth.PublicationAssignment{PublicationID: "pub-1"},
			},
		},
		{
			"assignment_without_publication",
			account.AssignRoleInput{
				Role:       sec.RoleReviewer,
				Assignment: &auth.PublicationAssignment{},
			},
		},
		{
			"articles_on_author_role",
			account.AssignRoleInput{
				Role:       sec.RoleAuthor,
				Assignment: &auth.PublicationAssignment{PublicationID: "pub-1", ArticleIDs: []string{"a1"}},
			},
		},
		{
			"too_many_articles",
			account.AssignRoleInput{
				Role: sec.RoleReviewer,
				Assignment: &auth.PublicationAssignment{
					PublicationID: "pub-1",
					ArticleIDs:    []string{"a1", "a2", "a3", "a4"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, _, _ := newFixture()

			_, err := service.AssignRole(context.Background(), "user-1", tt.input)

			require.Error(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "UNPROCESSABLE", ae.Code)
			assert.Nil(t, repo.roleUpdate, "nothing should be written")
		})
	}
}

/*
TestService_AssignRole_ReviewerScoping writes the role and assignment
together and reflects them on the returned account.
*/
func TestService_AssignRole_ReviewerScoping(t *testing.T) {
	service, repo, _, _ := newFixture()

	assignment := &auth.PublicationAssignment{
		PublicationID: "pub-1",
		ArticleIDs:    []string{"a1", "a2", "a3"},
	}
	updated, err := service.AssignRole(context.Background(), "user-1", account.AssignRoleInput{
		Role:       sec.RoleReviewer,
		Assignment: assignment,
	})

	require.NoError(t, err)
	require.NotNil(t, repo.roleUpdate)
	assert.Equal(t, sec.RoleReviewer, repo.roleUpdate.role)
	assert.Equal(t, assignment, repo.roleUpdate.assignment)
	assert.Equal(t, sec.RoleReviewer, updated.Role)
	assert.Equal(t, assignment, updated.Assignment)
}

/*
TestService_AssignRole_AdminClearsScoping promotes a scoped reviewer to admin
with a nil assignment, clearing the scoping columns.
*/
func TestService_AssignRole_AdminClearsScoping(t *testing.T) {
	service, repo, _, _ := newFixture()
	repo.users["user-1"].Role = sec.RoleReviewer
	repo.users["user-1"].Assignment = &auth.PublicationAssignment{PublicationID: "pub-1"}

	updated, err := service.AssignRole(context.Background(), "user-1", account.AssignRoleInput{
		Role: sec.RoleAdmin,
	})

	require.NoError(t, err)
	require.NotNil(t, repo.roleUpdate)
	assert.Equal(t, sec.RoleAdmin, repo.roleUpdate.role)
	assert.Nil(t, repo.roleUpdate.assignment)
	assert.Nil(t, updated.Assignment)
}
