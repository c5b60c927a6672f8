// Copyright (c) 2026 Confero. All rights reserved.

package review

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

// NewPostgresRepository creates the Postgres-backed review repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// reviewColumns is the SELECT list shared by review lookups.
func reviewColumns() string {
	t := schema.Review
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.ArticleID, t.PublicationID, t.ArticleAuthorID,
		t.ReviewAuthorID, t.Rating, t.Description, t.Relevance,
		t.Comment, t.CreatedAt,
	)
}

// scanReview hydrates a Review from one row of the canonical column list.
func scanReview(row pgx.Row) (*Review, error) {
	review := &Review{}
	var (
		rating    int
		relevance int
	)

	err := row.Scan(
		&review.ID,
		&review.ArticleID,
		&review.PublicationID,
		&review.ArticleAuthorID,
		&review.ReviewAuthorID,
		&rating,
		&review.Description,
		&relevance,
		&review.Comment,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	review.Rating = Rating(rating)
	review.Relevance = Relevance(relevance)

	return review, nil
}

/*
Create persists a new review.

Parameters:
  - context: context.Context
  - review: *Review

Returns:
  - error: Constraint violations or storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, review *Review) error {
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now()
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		schema.Review.Table, reviewColumns(),
	)

	_, err := repository.pool.Exec(context, query,
		review.ID,
		review.ArticleID,
		review.PublicationID,
		review.ArticleAuthorID,
		review.ReviewAuthorID,
		int(review.Rating),
		review.Description,
		int(review.Relevance),
		review.Comment,
		review.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "review_create")
	}

	return nil
}

/*
ListByArticle returns all reviews posted against an article, newest first.

Parameters:
  - context: context.Context
  - articleID: string

Returns:
  - []*Review: Hydrated entities
  - error: Storage failures
*/
func (repository *PostgresRepository) ListByArticle(context context.Context, articleID string) ([]*Review, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC`,
		reviewColumns(), schema.Review.Table,
		schema.Review.ArticleID, schema.Review.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, articleID)
	if err != nil {
		return nil, dberr.Wrap(err, "review_list_by_article")
	}
	defer rows.Close()

	var reviews []*Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "review_scan")
		}
		reviews = append(reviews, review)
	}

	return reviews, nil
}
