package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/qolzam/bookcatalog/books/dsql"
	"github.com/qolzam/bookcatalog/books/models"
)

// memoryRepository keeps books in a map and evaluates predicates with dsql.Eval.
// Books are copied on the way in and out.
type memoryRepository struct {
	mu     sync.RWMutex
	books  map[int64]*models.Book
	nextID int64
}

// NewMemoryRepository creates an empty in-process store
func NewMemoryRepository() BookRepository {
	return &memoryRepository{books: make(map[int64]*models.Book)}
}

func (r *memoryRepository) Create(ctx context.Context, book *models.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
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

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	book.ID = r.nextID
	r.books[book.ID] = book.Clone()
	return nil
}

func (r *memoryRepository) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.books[id]
	if !ok {
		return nil, ErrNotFound
	}
	return b.Clone(), nil
}

func (r *memoryRepository) Update(ctx context.Context, book *models.Book) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.books[book.ID]
	if !ok {
		return ErrNotFound
	}
	book.UpdatedAt = time.Now().UTC()
	if book.Genre == nil {
		book.Genre = models.Genres{}
	}
	stored := book.Clone()
	stored.CreatedBy = existing.CreatedBy
	stored.CreatedAt = existing.CreatedAt
	r.books[book.ID] = stored
	return nil
}

func (r *memoryRepository) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *memoryRepository) Query(ctx context.Context, pred dsql.Node, order OrderKey, offset, limit int) ([]*models.Book, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if _, ok := orderColumns[order]; !ok {
		return nil, 0, fmt.Errorf("unsupported order key %d", order)
	}

	r.mu.RLock()
	matched := make([]*models.Book, 0, len(r.books))
	for _, b := range r.books {
		if dsql.Eval(pred, b) {
			matched = append(matched, b.Clone())
		}
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []*models.Book{}, total, nil
	}
	end := offset + limit
	if limit < 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

// WithTransaction runs fn directly. Each operation is already atomic under the lock.
func (r *memoryRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
