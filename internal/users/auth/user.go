// Copyright (c) 2026 Confero. All rights reserved.

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and logic for authentication,
authorization, and account lifecycle.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/confero/confero/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Confero platform.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string    `json:"display_name"`
	Phone        string    `json:"phone,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Role         sec.Role  `json:"role"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Articles is the denormalized submission index: one
	// "<publicationID>&sep<articleID>" entry per article the user authored.
	// Maintained in the same transaction as the article insert.
	Articles []string `json:"articles,omitempty"`

	// Assignment scopes the user to their publication: for authors it is the
	// publication they submit into, for reviewers additionally the articles
	// they may review. Empty for admins.
	Assignment *PublicationAssignment `json:"assignment,omitempty"`
}

// PublicationAssignment scopes a user to one publication. ArticleIDs are
// populated only for reviewers (at most three).
type PublicationAssignment struct {
	PublicationID string   `json:"publication_id"`
	ArticleIDs    []string `json:"article_ids"`
}

// Session represents an active refresh-token session.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"-"` // Hashed value of the refresh token. Omitted for security.
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	ExpiresAt time.Time `json:"expires_at"`
	IsRevoked bool      `json:"is_revoked"`
	CreatedAt time.Time `json:"created_at"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldDisplayName     = "display_name"
	FieldLogin           = "login"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
)
