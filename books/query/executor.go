package query

import (
	"context"

	"github.com/qolzam/bookcatalog/books/dsql"
	"github.com/qolzam/bookcatalog/books/models"
	"github.com/qolzam/bookcatalog/books/repository"
)

// Page is one slice of an ordered result set
type Page struct {
	Items []*models.Book
	Total int64
}

// Executor runs compiled predicates against a BookRepository
type Executor struct {
	repo repository.BookRepository
}

// NewExecutor creates an executor over repo
func NewExecutor(repo repository.BookRepository) *Executor {
	return &Executor{repo: repo}
}

// Execute returns page number page (1-based) of size books matching pred,
// ascending by id. page and size must already be normalised.
func (e *Executor) Execute(ctx context.Context, pred dsql.Node, page, size int) (*Page, error) {
	offset := (page - 1) * size
	items, total, err := e.repo.Query(ctx, pred, repository.OrderByID, offset, size)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*models.Book{}
	}
	return &Page{Items: items, Total: total}, nil
}
