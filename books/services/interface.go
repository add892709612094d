package services

import (
	"context"

	"github.com/qolzam/bookcatalog/books/models"
)

// BookService defines the interface for book operations
type BookService interface {
	// GetBook returns (nil, nil) when no book has the id
	GetBook(ctx context.Context, id int64) (*models.Book, error)
	ListBooks(ctx context.Context, filter *models.BookFilter) (*models.BooksListResponse, error)

	AddBook(ctx context.Context, req *models.BookRequest, createdBy string) (*models.Book, error)
	// UpdateBook replaces every mutable field; false when the id is absent
	UpdateBook(ctx context.Context, id int64, req *models.BookRequest) (bool, error)
	DeleteBook(ctx context.Context, id int64) (bool, error)

	IsBookOwner(ctx context.Context, id int64, identity string) (bool, error)
	CheckOwnership(ctx context.Context, id int64, identity string) (models.Ownership, error)
}
