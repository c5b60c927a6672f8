// Copyright (c) 2026 Confero. All rights reserved.

package article

import "context"

// # Data Access

// Repository defines the data access contract for articles.
//
// The submission index on the author's account row is owned by this
// repository: creation and compensating deletion touch the article table and
// the index inside one transaction, so a reader never observes one without
// the other.
type Repository interface {

	/*
		CreateWithIndex persists the article row and appends the author's
		submission index entry in a single transaction.

		Parameters:
		  - context: context.Context
		  - article: *Article

		Returns:
		  - error: Constraint violations or storage failures (nothing is
		    persisted on error)
	*/
	CreateWithIndex(context context.Context, article *Article) error

	/*
		DeleteWithIndex removes the article row and the author's submission
		index entry in a single transaction. Used as the compensating action
		when the manuscript upload fails after a committed create.

		Parameters:
		  - context: context.Context
		  - article: *Article

		Returns:
		  - error: Storage failures
	*/
	DeleteWithIndex(context context.Context, article *Article) error

	/*
		FindByID returns the article with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUIDv7)

		Returns:
		  - *Article: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Article, error)

	/*
		ListByPublication returns all articles submitted to a publication.

		Parameters:
		  - context: context.Context
		  - publicationID: string

		Returns:
		  - []*Article: Unfiltered article list
		  - error: Storage failures
	*/
	ListByPublication(context context.Context, publicationID string) ([]*Article, error)

	/*
		ListByIDs resolves a set of article IDs (from a submission index)
		back into article rows. Missing IDs are silently skipped.

		Parameters:
		  - context: context.Context
		  - ids: []string

		Returns:
		  - []*Article: The found articles, newest first
		  - error: Storage failures
	*/
	ListByIDs(context context.Context, ids []string) ([]*Article, error)
}
