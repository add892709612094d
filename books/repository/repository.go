// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"errors"

	"github.com/qolzam/bookcatalog/books/dsql"
	"github.com/qolzam/bookcatalog/books/models"
)

// ErrNotFound is returned when no book has the requested id
var ErrNotFound = errors.New("book not found")

// OrderKey selects the sort column for Query. Results are always ascending.
type OrderKey int

const (
	OrderByID OrderKey = iota
)

// BookRepository is the record store behind the catalog.
// Filtering crosses this boundary only as a dsql.Node, never as query text.
type BookRepository interface {
	// Create inserts a book and sets its generated ID
	Create(ctx context.Context, book *models.Book) error

	// FindByID returns ErrNotFound when the id is absent
	FindByID(ctx context.Context, id int64) (*models.Book, error)

	// Update replaces every mutable column in a single statement.
	// Returns ErrNotFound when the id is absent.
	Update(ctx context.Context, book *models.Book) error

	// Delete removes a book. Returns ErrNotFound when the id is absent.
	Delete(ctx context.Context, id int64) error

	// Query returns one page of books matching pred plus the total match count
	Query(ctx context.Context, pred dsql.Node, order OrderKey, offset, limit int) ([]*models.Book, int64, error)

	// WithTransaction executes fn within a database transaction
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
