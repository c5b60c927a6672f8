// Copyright (c) 2026 Confero. All rights reserved.

package article

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

// NewPostgresRepository creates the Postgres-backed article repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// articleColumns is the SELECT list shared by article lookups.
func articleColumns() string {
	t := schema.Article
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s",
		t.ID, t.PublicationID, t.Title, t.Description,
		t.CharacterCount, t.AuthorID, t.CreatedAt,
	)
}

// scanArticle hydrates an Article from one row of the canonical column list.
func scanArticle(row pgx.Row) (*Article, error) {
	article := &Article{}
	var description *string

	err := row.Scan(
		&article.ID,
		&article.PublicationID,
		&article.Title,
		&description,
		&article.CharacterCount,
		&article.AuthorID,
		&article.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description != nil {
		article.Description = *description
	}

	return article, nil
}

/*
CreateWithIndex persists the article row and the author's index entry in one
transaction.

Description: The submission index on users.account is append-only here; both
writes commit together or not at all, so the index can never reference a
missing article and an article can never be invisible to its author.

Parameters:
  - context: context.Context
  - article: *Article

Returns:
  - error: Constraint violations or storage failures
*/
func (repository *PostgresRepository) CreateWithIndex(context context.Context, article *Article) error {
	if article.CreatedAt.IsZero() {
		article.CreatedAt = time.Now()
	}

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "article_create_begin")
	}
	defer transaction.Rollback(context)

	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.Article.Table, articleColumns(),
	)

	_, err = transaction.Exec(context, insertQuery,
		article.ID,
		article.PublicationID,
		article.Title,
		article.Description,
		article.CharacterCount,
		article.AuthorID,
		article.CreatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "article_create_insert")
	}

	indexQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = array_append(%s, $2), %s = $3
		WHERE %s = $1 AND %s IS NULL`,
		schema.UserAccount.Table,
		schema.UserAccount.Articles, schema.UserAccount.Articles, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.DeletedAt,
	)

	tag, err := transaction.Exec(context, indexQuery,
		article.AuthorID,
		IndexKey(article.PublicationID, article.ID),
		time.Now(),
	)
	if err != nil {
		return dberr.Wrap(err, "article_create_index")
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "article_create_commit")
	}

	return nil
}

/*
DeleteWithIndex removes the article row and the author's index entry in one
transaction.

Parameters:
  - context: context.Context
  - article: *Article

Returns:
  - error: Storage failures
*/
func (repository *PostgresRepository) DeleteWithIndex(context context.Context, article *Article) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "article_delete_begin")
	}
	defer transaction.Rollback(context)

	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`,
		schema.Article.Table, schema.Article.ID)

	if _, err := transaction.Exec(context, deleteQuery, article.ID); err != nil {
		return dberr.Wrap(err, "article_delete_row")
	}

	indexQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = array_remove(%s, $2), %s = $3
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Articles, schema.UserAccount.Articles, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	_, err = transaction.Exec(context, indexQuery,
		article.AuthorID,
		IndexKey(article.PublicationID, article.ID),
		time.Now(),
	)
	if err != nil {
		return dberr.Wrap(err, "article_delete_index")
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "article_delete_commit")
	}

	return nil
}

/*
FindByID returns the article with the given ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Article: Hydrated entity
  - error: dberr.ErrNotFound or storage failures
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Article, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		articleColumns(), schema.Article.Table, schema.Article.ID,
	)

	article, err := scanArticle(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "article_find_by_id")
	}

	return article, nil
}

/*
ListByPublication returns all articles submitted to a publication, newest first.

Parameters:
  - context: context.Context
  - publicationID: string

Returns:
  - []*Article: Unfiltered article list
  - error: Storage failures
*/
func (repository *PostgresRepository) ListByPublication(context context.Context, publicationID string) ([]*Article, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC`,
		articleColumns(), schema.Article.Table,
		schema.Article.PublicationID, schema.Article.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, publicationID)
	if err != nil {
		return nil, dberr.Wrap(err, "article_list_by_publication")
	}
	defer rows.Close()

	return collectArticles(rows)
}

/*
ListByIDs resolves article IDs back into article rows, newest first.

Parameters:
  - context: context.Context
  - ids: []string

Returns:
  - []*Article: The found articles
  - error: Storage failures
*/
func (repository *PostgresRepository) ListByIDs(context context.Context, ids []string) ([]*Article, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = ANY($1)
		ORDER BY %s DESC`,
		articleColumns(), schema.Article.Table,
		schema.Article.ID, schema.Article.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, ids)
	if err != nil {
		return nil, dberr.Wrap(err, "article_list_by_ids")
	}
	defer rows.Close()

	return collectArticles(rows)
}

// collectArticles drains a result set into hydrated entities.
func collectArticles(rows pgx.Rows) ([]*Article, error) {
	var articles []*Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, dberr.Wrap(err, "article_scan")
		}
		articles = append(articles, article)
	}
	return articles, nil
}
