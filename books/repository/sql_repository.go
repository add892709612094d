// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/qolzam/bookcatalog/books/dsql"
	"github.com/qolzam/bookcatalog/books/models"
	"github.com/qolzam/bookcatalog/internal/database"
)

const booksTable = "books"

var bookColumns = []string{
	"id", "title", "author", "description", "genre", "publisher",
	"publication_year", "created_by", "created_at", "updated_at",
}

type txKey struct{}

// sqlRepository implements BookRepository on postgres or sqlite
type sqlRepository struct {
	client  *database.Client
	dialect string
	builder sq.StatementBuilderType
}

// NewSQLRepository creates a repository speaking the client's dialect
func NewSQLRepository(client *database.Client) BookRepository {
	builder := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if client.Dialect() == database.DialectPostgres {
		builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return &sqlRepository{
		client:  client,
		dialect: client.Dialect(),
		builder: builder,
	}
}

// getExecutor returns either the transaction from context or the DB connection
func (r *sqlRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return r.client.DB()
}

// genreValue wraps the JSON array so postgres receives it as jsonb
func (r *sqlRepository) genreValue(g models.Genres) interface{} {
	if r.dialect == database.DialectPostgres {
		return sq.Expr("?::jsonb", g)
	}
	return g
}

// Create inserts a new book
func (r *sqlRepository) Create(ctx context.Context, book *models.Book) error {
	now := time.Now().UTC()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	if book.UpdatedAt.IsZero() {
		book.UpdatedAt = now
	}
	if book.Genre == nil {
		book.Genre = models.Genres{}
	}

	query, args, err := r.builder.Insert(booksTable).
		Columns("title", "author", "description", "genre", "publisher",
			"publication_year", "created_by", "created_at", "updated_at").
		Values(book.Title, book.Author, book.Description, r.genreValue(book.Genre), book.Publisher,
			book.PublicationYear, book.CreatedBy, book.CreatedAt, book.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert: %w", err)
	}

	if err := r.getExecutor(ctx).QueryRowxContext(ctx, query, args...).Scan(&book.ID); err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

// FindByID retrieves a book by its ID
func (r *sqlRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	query, args, err := r.builder.Select(bookColumns...).
		From(booksTable).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	var book models.Book
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find book: %w", err)
	}
	return &book, nil
}

// Update replaces all mutable columns of an existing book
func (r *sqlRepository) Update(ctx context.Context, book *models.Book) error {
	book.UpdatedAt = time.Now().UTC()
	if book.Genre == nil {
		book.Genre = models.Genres{}
	}

	query, args, err := r.builder.Update(booksTable).
		Set("title", book.Title).
		Set("author", book.Author).
		Set("description", book.Description).
		Set("genre", r.genreValue(book.Genre)).
		Set("publisher", book.Publisher).
		Set("publication_year", book.PublicationYear).
		Set("updated_at", book.UpdatedAt).
		Where(sq.Eq{"id": book.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	return requireRow(result)
}

// Delete removes a book by ID
func (r *sqlRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.builder.Delete(booksTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete: %w", err)
	}

	result, err := r.getExecutor(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return requireRow(result)
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Query returns one page of matching books and the total number of matches
func (r *sqlRepository) Query(ctx context.Context, pred dsql.Node, order OrderKey, offset, limit int) ([]*models.Book, int64, error) {
	orderCol, ok := orderColumns[order]
	if !ok {
		return nil, 0, fmt.Errorf("unsupported order key %d", order)
	}

	countQ := r.builder.Select("COUNT(*)").From(booksTable)
	selectQ := r.builder.Select(bookColumns...).From(booksTable)
	if !dsql.IsTrue(pred) {
		where, err := predicateSQL(pred, r.dialect)
		if err != nil {
			return nil, 0, err
		}
		countQ = countQ.Where(where)
		selectQ = selectQ.Where(where)
	}

	if offset < 0 {
		offset = 0
	}
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count: %w", err)
	}
	pageSQL, pageArgs, err := selectQ.
		OrderBy(orderCol + " ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build query: %w", err)
	}

	// the count and the page must come from the same snapshot
	var (
		total int64
		books []models.Book
	)
	err = r.withTx(ctx, r.snapshotOptions(), func(txCtx context.Context) error {
		if err := sqlx.GetContext(txCtx, r.getExecutor(txCtx), &total, countSQL, countArgs...); err != nil {
			return fmt.Errorf("failed to count books: %w", err)
		}
		if err := sqlx.SelectContext(txCtx, r.getExecutor(txCtx), &books, pageSQL, pageArgs...); err != nil {
			return fmt.Errorf("failed to query books: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	result := make([]*models.Book, len(books))
	for i := range books {
		result[i] = &books[i]
	}
	return result, total, nil
}

// snapshotOptions returns the options for a read-only transaction whose
// statements share one snapshot. sqlite transactions always do.
func (r *sqlRepository) snapshotOptions() *sql.TxOptions {
	if r.dialect == database.DialectPostgres {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

// WithTransaction executes a function within a database transaction
func (r *sqlRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return r.withTx(ctx, nil, fn)
}

// withTx joins the transaction already in ctx or begins one with opts
func (r *sqlRepository) withTx(ctx context.Context, opts *sql.TxOptions, fn func(context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := r.client.BeginTxx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w, rollback error: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
