// Copyright (c) 2026 Confero. All rights reserved.

/*
Package article manages article submissions within a publication.

An article belongs to exactly one publication and one author and carries a
PDF manuscript in object storage. Alongside the article row, the system
maintains a denormalized per-user submission index on the author's account
(one composite key per article), kept consistent by writing both in one
database transaction.

# Core Responsibility

  - Submission: Creates the article row and the author's index entry atomically.
  - Manuscript: Stores the PDF at a deterministic per-article key.
  - Visibility: Scopes article lists to what the viewer's role allows.
  - Live reads: Streams fresh snapshots to watchers on every change.
*/
package article

import (
	"fmt"
	"strings"
	"time"

	"github.com/confero/confero/internal/platform/constants"
)

// # Domain Entities

// Article represents one submitted manuscript within a publication.
type Article struct {
	ID             string    `json:"id"`
	PublicationID  string    `json:"publication_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	CharacterCount int       `json:"character_count"`
	AuthorID       string    `json:"author_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// # Submission Index Keys

// IndexKey builds the composite key stored in the author's submission index.
func IndexKey(publicationID, articleID string) string {
	return publicationID + constants.ArticleIndexSeparator + articleID
}

// ParseIndexKey splits a submission index entry back into its parts.
func ParseIndexKey(key string) (publicationID, articleID string, err error) {
	parts := strings.SplitN(key, constants.ArticleIndexSeparator, 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("article: malformed index key %q", key)
	}
	return parts[0], parts[1], nil
}

// # Field Identifiers

// Global field names for validation in the article domain.
const (
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldCharacterCount = "character_count"
	FieldPDF            = "pdf"
)
