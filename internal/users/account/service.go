// Copyright (c) 2026 Confero. All rights reserved.

package account

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/confero/confero/internal/platform/apperr"
	"github.com/confero/confero/internal/platform/sec"
	"github.com/confero/confero/internal/platform/storage"
	"github.com/confero/confero/internal/users/auth"
)

// MaxReviewerArticles caps how many articles a reviewer can be scoped to.
const MaxReviewerArticles = 3

// ObjectUploader abstracts the blob store used for avatar images.
type ObjectUploader interface {
	// Upload stores the object under the given key, replacing any previous one.
	Upload(context context.Context, key string, body io.Reader, contentType string) error
}

// # Service Layer

// Service orchestrates business logic for user accounts, avatars, and roles.
//
// It ensures that profile updates, role assignments, and session security
// cleanup follow established business constraints.
type Service struct {
	accountRepository AccountRepository
	sessionRepository SessionRepository
	uploader          ObjectUploader
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	accountRepo AccountRepository,
	sessionRepo SessionRepository,
	uploader ObjectUploader,
	logger *slog.Logger,
) *Service {
	return &Service{
		accountRepository: accountRepo,
		sessionRepository: sessionRepo,
		uploader:          uploader,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the full private identity of a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(context context.Context, userID string) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_profile_failed: %w", err)
	}
	return user, nil
}

// UpdateProfileInput defines the mutable subset of user profile fields.
type UpdateProfileInput struct {
	DisplayName *string
	Email       *string
	Phone       *string
}

/*
UpdateProfile applies a partial set of changes to a user's account metadata.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage. Display name and contact
details travel together in one write so a partially failed update never
leaves the profile half-applied.

Parameters:
  - context: context.Context
  - userID: string
  - input: UpdateProfileInput

Returns:
  - *auth.User: The updated user profile
  - error: Update or storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*auth.User, error) {

	// Business: Ensure the account exists before mutating
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	// Apply delta updates
	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}

	// Apply delta updates
	if input.Email != nil {
		user.Email = *input.Email
	}

	// Apply delta updates
	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	// Persist changes
	if err := service.accountRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_profile_updated", slog.String("user_id", userID))

	return user, nil
}

/*
UploadAvatar stores a new profile picture and records its object key.

Description: The avatar lives at a deterministic per-user key, so a re-upload
overwrites the previous image without leaving orphaned objects behind.

Parameters:
  - context: context.Context
  - userID: string
  - body: io.Reader (Image bytes)
  - contentType: string

Returns:
  - string: The stored object key
  - error: Upload or persistence failures
*/
func (service *Service) UploadAvatar(context context.Context, userID string, body io.Reader, contentType string) (string, error) {
	key := storage.AvatarKey(userID)

	if err := service.uploader.Upload(context, key, body, contentType); err != nil {
		return "", fmt.Errorf("account_service_avatar_upload_failed: %w", err)
	}

	if err := service.accountRepository.UpdateAvatar(context, userID, key); err != nil {
		return "", fmt.Errorf("account_service_avatar_update_failed: %w", err)
	}

	service.logger.Info("user_avatar_updated", slog.String("user_id", userID))

	return key, nil
}

/*
DeleteAccount performs an idempotent soft-deletion of a user account.

Description: Flags the account as deleted and immediately terminates all active
security sessions to force a global sign-out.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Execution failures
*/
func (service *Service) DeleteAccount(context context.Context, userID string) error {

	// Business: Ensure the user is authenticated
	if err := service.accountRepository.SoftDelete(context, userID); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}

	// Force global revocation of sessions for the deleted account
	_ = service.sessionRepository.RevokeAll(context, userID)

	service.logger.Warn("user_account_deleted", slog.String("user_id", userID))

	return nil
}

// # Role Administration

/*
ListUsers returns a page of all accounts for the admin console.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []auth.User: Page of accounts
  - int: Total account count
  - error: Retrieval failures
*/
func (service *Service) ListUsers(context context.Context, limit, offset int) ([]auth.User, int, error) {
	users, total, err := service.accountRepository.List(context, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("account_service_list_users_failed: %w", err)
	}
	return users, total, nil
}

// AssignRoleInput carries an admin's role decision for one user.
type AssignRoleInput struct {
	Role       sec.Role
	Assignment *auth.PublicationAssignment
}

/*
AssignRole replaces a user's role and reviewer scoping.

Description: Authors and reviewers are scoped to one publication; reviewers
may additionally carry up to three article IDs. Admins carry no scoping. The
role and assignment are written in one statement so visibility rules never
observe a reviewer without their scoping.

Parameters:
  - context: context.Context
  - userID: string
  - input: AssignRoleInput

Returns:
  - *auth.User: The updated account
  - error: Validation, not found, or storage failures
*/
func (service *Service) AssignRole(context context.Context, userID string, input AssignRoleInput) (*auth.User, error) {

	// Business: admins carry no scoping; article lists are reviewer-only
	if input.Assignment != nil {
		if input.Role == sec.RoleAdmin {
			return nil, apperr.Unprocessable("Admins cannot carry a publication assignment")
		}
		if input.Assignment.PublicationID == "" {
			return nil, apperr.Unprocessable("Assignment requires a publication")
		}
		if input.Role != sec.RoleReviewer && len(input.Assignment.ArticleIDs) > 0 {
			return nil, apperr.Unprocessable("Only reviewers can be assigned articles")
		}
		if len(input.Assignment.ArticleIDs) > MaxReviewerArticles {
			return nil, apperr.Unprocessable(
				fmt.Sprintf("Reviewers can be assigned at most %d articles", MaxReviewerArticles))
		}
	}

	// Ensure the target account exists
	user, err := service.accountRepository.FindByID(context, userID)
	if err != nil {
		return nil, fmt.Errorf("account_service_assign_role_lookup_failed: %w", err)
	}

	if err := service.accountRepository.UpdateRole(context, userID, input.Role, input.Assignment); err != nil {
		return nil, fmt.Errorf("account_service_assign_role_failed: %w", err)
	}

	user.Role = input.Role
	user.Assignment = input.Assignment

	service.logger.Info("user_role_assigned",
		slog.String("user_id", userID),
		slog.String("role", string(input.Role)),
	)

	return user, nil
}

// # Session Security

/*
ListSessions provides a list of all active device sessions for the user.

Parameters:
  - context: context.Context
  - userID: string
  - currentTokenHash: string (Optional identifying hash of the current session)

Returns:
  - []SessionInfo: List of active devices
  - error: Retrieval failures
*/
func (service *Service) ListSessions(context context.Context, userID, currentTokenHash string) ([]SessionInfo, error) {
	sessions, err := service.sessionRepository.FindActiveByUserID(context, userID, currentTokenHash)

	if err != nil {
		return nil, fmt.Errorf("account_service_list_sessions_failed: %w", err)
	}

	return sessions, nil
}

/*
RevokeSession terminates a specific user session by its ID.

Parameters:
  - context: context.Context
  - userID: string
  - sessionID: string

Returns:
  - error: Revocation failures
*/
func (service *Service) RevokeSession(context context.Context, userID, sessionID string) error {
	if err := service.sessionRepository.Revoke(context, userID, sessionID); err != nil {
		return fmt.Errorf("account_service_revoke_session_failed: %w", err)
	}

	service.logger.Info("user_session_revoked",
		slog.String("user_id", userID),
		slog.String("session_id", sessionID),
	)

	return nil
}

/*
RevokeOtherSessions terminates all sessions except for the current active one.

Parameters:
  - context: context.Context
  - userID: string
  - currentTokenHash: string (Hash of the refresh token that stays valid)

Returns:
  - error: Revocation failures
*/
func (service *Service) RevokeOtherSessions(context context.Context, userID, currentTokenHash string) error {
	if err := service.sessionRepository.RevokeOthers(context, userID, currentTokenHash); err != nil {
		return fmt.Errorf("account_service_revoke_others_failed: %w", err)
	}

	service.logger.Info("user_other_sessions_revoked", slog.String("user_id", userID))

	return nil
}
