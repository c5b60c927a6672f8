// Copyright (c) 2026 Confero. All rights reserved.

package publication

import "context"

// # Data Access

// Repository defines the data access contract for publications.
//
// Reads are unfiltered; role-based visibility is a view concern applied in
// the service layer.
type Repository interface {

	/*
		Create persists a new publication.

		Parameters:
		  - context: context.Context
		  - publication: *Publication

		Returns:
		  - error: Constraint violations or storage failures
	*/
	Create(context context.Context, publication *Publication) error

	/*
		FindByID returns the publication with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string (UUIDv7)

		Returns:
		  - *Publication: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*Publication, error)

	/*
		FindBySlug resolves a URL slug to its publication.

		Parameters:
		  - context: context.Context
		  - slug: string

		Returns:
		  - *Publication: Hydrated entity
		  - error: apperr.NotFound or storage failures
	*/
	FindBySlug(context context.Context, slug string) (*Publication, error)

	/*
		List returns every publication ordered by review date.

		The full list is small by nature (one row per call for articles), so
		no pagination is applied here.

		Parameters:
		  - context: context.Context

		Returns:
		  - []*Publication: All publications
		  - error: Storage failures
	*/
	List(context context.Context) ([]*Publication, error)
}
