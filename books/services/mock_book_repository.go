// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/qolzam/bookcatalog/books/dsql"
	"github.com/qolzam/bookcatalog/books/models"
	"github.com/qolzam/bookcatalog/books/repository"
)

// MockBookRepository is a mock implementation of BookRepository for testing
type MockBookRepository struct {
	mock.Mock
}

var _ repository.BookRepository = (*MockBookRepository)(nil)

// Create mocks the Create method
func (m *MockBookRepository) Create(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

// FindByID mocks the FindByID method
func (m *MockBookRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

// Update mocks the Update method
func (m *MockBookRepository) Update(ctx context.Context, book *models.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

// Delete mocks the Delete method
func (m *MockBookRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Query mocks the Query method
func (m *MockBookRepository) Query(ctx context.Context, pred dsql.Node, order repository.OrderKey, offset, limit int) ([]*models.Book, int64, error) {
	args := m.Called(ctx, pred, order, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.Book), args.Get(1).(int64), args.Error(2)
}

// WithTransaction mocks the WithTransaction method. fn runs unless the
// expectation returns an error.
func (m *MockBookRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx)
}
