// Copyright (c) 2026 Confero. All rights reserved.

package publication

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/confero/confero/internal/platform/database/schema"
	"github.com/confero/confero/internal/platform/dberr"
)

// # Postgres Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates the Postgres-backed publication repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// publicationColumns is the SELECT list shared by publication lookups.
func publicationColumns() string {
	t := schema.Publication
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.Title, t.Slug, t.Description,
		t.ReviewDate, t.FinalSubmitDate, t.CompletionDate, t.CreatedAt,
	)
}

// scanPublication hydrates a Publication from one row of the canonical column list.
func scanPublication(row pgx.Row) (*Publication, error) {
	publication := &Publication{}
	var description *string

	err := row.Scan(
		&publication.ID,
		&publication.Title,
		&publication.Slug,
		&description,
		&publication.ReviewDate,
		&publication.FinalSubmitDate,
		&publication.CompletionDate,
		&publication.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description != nil {
		publication.Description = *description
	}

	return publication, nil
}

/*
Create persists a new publication row.

Parameters:
  - context: context.Context
  - publication: *Publication

Returns:
  - error: Conflict on duplicate slug, or storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, publication *Publication) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.Publication.Table, publicationColumns(),
	)

	if publication.CreatedAt.IsZero() {
		publication.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		publication.ID,
		publication.Title,
		publication.Slug,
		publication.Description,
		publication.ReviewDate,
		publication.FinalSubmitDate,
		publication.CompletionDate,
		publication.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "publication_create")
	}

	return nil
}

/*
FindByID returns the publication with the given ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Publication: Hydrated entity
  - error: dberr.ErrNotFound or storage failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Publication, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		publicationColumns(), schema.Publication.Table, schema.Publication.ID,
	)

	publication, err := scanPublication(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "publication_find_by_id")
	}

	return publication, nil
}

/*
FindBySlug resolves a URL slug to its publication.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Publication: Hydrated entity
  - error: dberr.ErrNotFound or storage failures
*/
func (repository *PostgresRepository) FindBySlug(context context.Context, slug string) (*Publication, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		publicationColumns(), schema.Publication.Table, schema.Publication.Slug,
	)

	publication, err := scanPublication(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "publication_find_by_slug")
	}

	return publication, nil
}

/*
List returns every publication ordered by review date, newest first.

Parameters:
  - context: context.Context

Returns:
  - []*Publication: All publications
  - error: Storage failures
*/
func (repository *PostgresRepository) List(context context.Context) ([]*Publication, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY %s DESC`,
		publicationColumns(), schema.Publication.Table, schema.Publication.ReviewDate,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "publication_list")
	}
	defer rows.Close()

	var publications []*Publication
	for rows.Next() {
		publication, err := scanPublication(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "publication_list_scan")
		}
		publications = append(publications, publication)
	}

	return publications, nil
}
