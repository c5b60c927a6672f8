// Copyright (c) 2026 Confero. All rights reserved.

/*
Package account (Postgres) implements the storage layer for user meta-data.

It provides optimized PostgreSQL implementations for managing user profiles,
role assignments, and auditing active sessions.

# Schema Table Mapping
  - users.account: Master identity, role, and reviewer assignment data.
  - users.session: Active device sessions and security metadata.
*/
package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/confero/confero/internal/platform/apperr"
	"github.com/confero/confero/internal/platform/database/schema"
	"github.com/confero/confero/internal/platform/sec"
	"github.com/confero/confero/internal/users/auth"
	"github.com/confero/confero/pkg/pointer"
)

// # Repository Implementations

// PostgresAccountRepository implements [AccountRepository] using pgx.
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new Postgres implementation for profile management.
func NewAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{pool: pool}
}

// PostgresSessionRepository implements [SessionRepository] using pgx.
type PostgresSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new Postgres implementation for session auditing.
func NewSessionRepository(pool *pgxpool.Pool) *PostgresSessionRepository {
	return &PostgresSessionRepository{pool: pool}
}

// # AccountRepository Methods

// accountColumns is the SELECT list shared by account lookups.
func accountColumns() string {
	t := schema.UserAccount
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Username, t.Email, t.DisplayName, t.Phone, t.AvatarURL,
		t.Role, t.IsVerified, t.Articles, t.PublicationID,
		t.ArticleID1, t.ArticleID2, t.ArticleID3, t.CreatedAt,
	)
}

// scanAccount hydrates a User (without password hash) from one account row.
func scanAccount(row pgx.Row) (*auth.User, error) {
	user := &auth.User{}
	var (
		phone, avatarURL                *string
		roleNum                         int
		publicationID, art1, art2, art3 *string
	)

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.DisplayName,
		&phone,
		&avatarURL,
		&roleNum,
		&user.IsVerified,
		&user.Articles,
		&publicationID,
		&art1,
		&art2,
		&art3,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Phone = pointer.Val(phone)
	user.AvatarURL = pointer.Val(avatarURL)

	role, err := sec.RoleFromNum(roleNum)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_repo_corrupt_role: %w", err)
	}
	user.Role = role

	if publicationID != nil {
		assignment := &auth.PublicationAssignment{PublicationID: *publicationID}
		for _, articleID := range []*string{art1, art2, art3} {
			if pointer.Val(articleID) != "" {
				assignment.ArticleIDs = append(assignment.ArticleIDs, *articleID)
			}
		}
		user.Assignment = assignment
	}

	return user, nil
}

/*
FindByID retrieves a user record from the users.account table.

Parameters:
  - context: context.Context
  - id: string (UUID)

Returns:
  - *auth.User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresAccountRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		accountColumns(),
		schema.UserAccount.Table, schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	user, err := scanAccount(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_account_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
List retrieves a page of user accounts ordered by creation time.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []auth.User: Page of accounts
  - int: Total non-deleted account count
  - error: Retrieval failures
*/
func (repository *PostgresAccountRepository) List(context context.Context, limit, offset int) ([]auth.User, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s IS NULL`,
		schema.UserAccount.Table, schema.UserAccount.DeletedAt)

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_count_failed: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s IS NULL
		ORDER BY %s DESC
		LIMIT $1 OFFSET $2`,
		accountColumns(),
		schema.UserAccount.Table, schema.UserAccount.DeletedAt, schema.UserAccount.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_account_repo_list_failed: %w", err)
	}
	defer rows.Close()

	var users []auth.User
	for rows.Next() {
		user, err := scanAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_account_repo_list_scan_failed: %w", err)
		}
		users = append(users, *user)
	}

	return users, total, nil
}

/*
Update modifies the mutable profile metadata of a user.

Description: This method syncs the DisplayName, Email, and Phone fields
together, refreshing the updatedat timestamp.

Parameters:
  - context: context.Context
  - user: *auth.User

Returns:
  - error: Update failures
*/
func (repository *PostgresAccountRepository) Update(context context.Context, user *auth.User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table,
		schema.UserAccount.DisplayName, schema.UserAccount.Email, schema.UserAccount.Phone,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.DisplayName,
		user.Email,
		user.Phone,
		time.Now(),
	)

	// If the update fails, return an error
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_failed: %w", err)
	}

	return nil
}

/*
UpdateAvatar replaces only the stored avatar object key.

Parameters:
  - context: context.Context
  - userID: string
  - avatarURL: string

Returns:
  - error: Update failures
*/
func (repository *PostgresAccountRepository) UpdateAvatar(context context.Context, userID, avatarURL string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table,
		schema.UserAccount.AvatarURL, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	_, err := repository.pool.Exec(context, query, userID, avatarURL, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_avatar_failed: %w", err)
	}

	return nil
}

/*
UpdateRole replaces the role and reviewer assignment columns in one statement.

Description: Roles are persisted as integers through the canonical mapping.
A nil assignment clears the publication and article scoping columns so a
demoted reviewer keeps no stale visibility grants.

Parameters:
  - context: context.Context
  - userID: string
  - role: sec.Role
  - assignment: *auth.PublicationAssignment

Returns:
  - error: Update failures
*/
func (repository *PostgresAccountRepository) UpdateRole(context context.Context, userID string, role sec.Role, assignment *auth.PublicationAssignment) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table,
		schema.UserAccount.Role, schema.UserAccount.PublicationID,
		schema.UserAccount.ArticleID1, schema.UserAccount.ArticleID2, schema.UserAccount.ArticleID3,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	var publicationID, art1, art2, art3 *string
	if assignment != nil {
		publicationID = &assignment.PublicationID
		articleIDs := assignment.ArticleIDs
		if len(articleIDs) > 0 {
			art1 = &articleIDs[0]
		}
		if len(articleIDs) > 1 {
			art2 = &articleIDs[1]
		}
		if len(articleIDs) > 2 {
			art3 = &articleIDs[2]
		}
	}

	_, err := repository.pool.Exec(context, query,
		userID,
		role.Num(),
		publicationID,
		art1,
		art2,
		art3,
		time.Now(),
	)

	if err != nil {
		return fmt.Errorf("postgres_account_repo_update_role_failed: %w", err)
	}

	return nil
}

/*
SoftDelete flags a user account as logically destroyed.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Execution failures
*/
func (repository *PostgresAccountRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1`,
		schema.UserAccount.Table, schema.UserAccount.DeletedAt, schema.UserAccount.ID)
	_, err := repository.pool.Exec(context, query, id)
	return err
}

// # SessionRepository Methods

/*
FindActiveByUserID retrieves all valid device sessions for a user.

Parameters:
  - context: context.Context
  - userID: string
  - currentTokenHash: string (Marks the matching session as current)

Returns:
  - []SessionInfo: Collection of active devices
  - error: Database retrieval failures
*/
func (repository *PostgresSessionRepository) FindActiveByUserID(context context.Context, userID, currentTokenHash string) ([]SessionInfo, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s = $2
		FROM %s
		WHERE %s = $1 AND %s IS NULL AND %s > NOW()
		ORDER BY %s DESC`,
		schema.UserSession.ID, schema.UserSession.DeviceName, schema.UserSession.IPAddress,
		schema.UserSession.CreatedAt, schema.UserSession.ExpiresAt, schema.UserSession.TokenHash,
		schema.UserSession.Table,
		schema.UserSession.UserID, schema.UserSession.RevokedAt, schema.UserSession.ExpiresAt,
		schema.UserSession.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, userID, currentTokenHash)
	if err != nil {
		return nil, fmt.Errorf("postgres_session_repo_list_active_failed: %w", err)
	}
	defer rows.Close()

	var sessions []SessionInfo
	for rows.Next() {
		var sess SessionInfo
		var ip interface{}
		if err := rows.Scan(&sess.ID, &sess.DeviceName, &ip, &sess.CreatedAt, &sess.ExpiresAt, &sess.IsCurrent); err != nil {
			return nil, err
		}
		if ip != nil {
			sess.IPAddress = fmt.Sprintf("%v", ip)
		}
		sessions = append(sessions, sess)
	}

	return sessions, nil
}

/*
Revoke marks a single session as permanently revoked.

Parameters:
  - context: context.Context
  - userID: string (Security: validation of ownership)
  - sessionID: string

Returns:
  - error: Update failures
*/
func (repository *PostgresSessionRepository) Revoke(context context.Context, userID, sessionID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s = $2`,
		schema.UserSession.Table, schema.UserSession.RevokedAt, schema.UserSession.ID, schema.UserSession.UserID)
	_, err := repository.pool.Exec(context, query, sessionID, userID)
	return err
}

/*
RevokeOthers marks all sessions except the current one as revoked.

Parameters:
  - context: context.Context
  - userID: string
  - currentTokenHash: string

Returns:
  - error: Batch update failures
*/
func (repository *PostgresSessionRepository) RevokeOthers(context context.Context, userID, currentTokenHash string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s != $2 AND %s IS NULL`,
		schema.UserSession.Table, schema.UserSession.RevokedAt, schema.UserSession.UserID,
		schema.UserSession.TokenHash, schema.UserSession.RevokedAt)
	_, err := repository.pool.Exec(context, query, userID, currentTokenHash)
	return err
}

/*
RevokeAll terminates every session for a user.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Batch update failures
*/
func (repository *PostgresSessionRepository) RevokeAll(context context.Context, userID string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL`,
		schema.UserSession.Table, schema.UserSession.RevokedAt, schema.UserSession.UserID, schema.UserSession.RevokedAt)
	_, err := repository.pool.Exec(context, query, userID)
	return err
}
