// Copyright (c) 2026 Confero. All rights reserved.

package review

import "context"

// # Data Access

// Repository defines the data access contract for reviews. Reviews are
// append-only, so the contract has no update or delete.
type Repository interface {

	/*
		Create persists a new review.

		Parameters:
		  - context: context.Context
		  - review: *Review (Fully denormalized)

		Returns:
		  - error: Constraint violations or storage failures
	*/
	Create(context context.Context, review *Review) error

	/*
		ListByArticle returns all reviews posted against an article.

		Parameters:
		  - context: context.Context
		  - articleID: string

		Returns:
		  - []*Review: Newest first
		  - error: Storage failures
	*/
	ListByArticle(context context.Context, articleID string) ([]*Review, error)
}
