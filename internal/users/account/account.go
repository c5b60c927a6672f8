// Copyright (c) 2026 Confero. All rights reserved.

/*
Package account handles user profile management, avatars, role administration,
and security settings.

It provides functionalities for users to view and update their private identity
data, upload a profile picture, and manage their active device sessions. It is
also the home of the admin-only role assignment flow that scopes reviewers to
a publication and their articles.

# Architecture

  - Entities: SessionInfo (DTO); the User entity is owned by the auth package.
  - Domain: This package depends on the auth package for the User entity.
  - Security: Provides session transparency and revocation mechanisms.
*/
package account

import (
	"context"
	"time"

	"github.com/confero/confero/internal/platform/sec"
	"github.com/confero/confero/internal/users/auth"
)

// # Domain Entities

// SessionInfo provides a safety-mapped view of an active user session.
// It omits sensitive token hashes for transport.
type SessionInfo struct {
	ID         string    `json:"id"`
	DeviceName string    `json:"device_name"` // e.g. "Chrome on Windows"
	IPAddress  string    `json:"ip_address"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	IsCurrent  bool      `json:"is_current"` // True if this session belongs to the current request
}

// # Repository Contracts

// AccountRepository defines the persistence contract for user accounts.
type AccountRepository interface {
	/*
		FindByID retrieves a user record by their unique ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUID)

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*auth.User, error)

	/*
		List retrieves a page of user accounts for administration.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []auth.User: Page of accounts
		  - int: Total account count
		  - error: Storage failures
	*/
	List(context context.Context, limit, offset int) ([]auth.User, int, error)

	/*
		Update modifies the mutable profile fields of an existing user.

		Parameters:
		  - context: context.Context
		  - user: *User (Hydrated entity with changes)

		Returns:
		  - error: Storage or constraint failures
	*/
	Update(context context.Context, user *auth.User) error

	/*
		UpdateAvatar replaces only the stored avatar object key.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - avatarURL: string

		Returns:
		  - error: Storage failures
	*/
	UpdateAvatar(context context.Context, userID, avatarURL string) error

	/*
		UpdateRole replaces the user's role and reviewer assignment in one statement.

		A nil assignment clears the reviewer scoping columns.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - role: sec.Role
		  - assignment: *auth.PublicationAssignment

		Returns:
		  - error: Storage failures
	*/
	UpdateRole(context context.Context, userID string, role sec.Role, assignment *auth.PublicationAssignment) error

	/*
		SoftDelete flags an account as logically deleted.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Execution failures
	*/
	SoftDelete(context context.Context, id string) error
}

// SessionRepository defines the visibility and revocation contract for user sessions.
type SessionRepository interface {
	/*
		FindActiveByUserID lists all valid, non-expired sessions for a user.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - currentTokenHash: string (Marks the matching session as current; may be empty)

		Returns:
		  - []SessionInfo: List of active devices
		  - error: Retrieval errors
	*/
	FindActiveByUserID(context context.Context, userID, currentTokenHash string) ([]SessionInfo, error)

	/*
		Revoke marks a specific session as revoked.

		Parameters:
		  - context: context.Context
		  - userID: string (Security constraint: owner validation)
		  - sessionID: string

		Returns:
		  - error: Revocation failures
	*/
	Revoke(context context.Context, userID, sessionID string) error

	/*
		RevokeOthers revokes all active sessions except the one holding the
		given refresh token hash.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - currentTokenHash: string (The whitelisted session's token hash)

		Returns:
		  - error: Revocation failures
	*/
	RevokeOthers(context context.Context, userID, currentTokenHash string) error

	/*
		RevokeAll terminates every session for a user.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Revocation failures
	*/
	RevokeAll(context context.Context, userID string) error
}
