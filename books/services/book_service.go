package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"

	bookErrors "github.com/qolzam/bookcatalog/books/errors"
	"github.com/qolzam/bookcatalog/books/models"
	"github.com/qolzam/bookcatalog/books/query"
	"github.com/qolzam/bookcatalog/books/repository"
	"github.com/qolzam/bookcatalog/books/validation"
	"github.com/qolzam/bookcatalog/internal/cache"
	"github.com/qolzam/bookcatalog/internal/pkg/log"
)

const (
	listCachePrefix = "list"
	// listGenerationKey holds a token that every write replaces. List
	// entries are keyed by it, so a fill computed before a write can never
	// be read after that write.
	listGenerationKey = "list-generation"
)

type bookService struct {
	repo         repository.BookRepository
	executor     *query.Executor
	cacheService *cache.CacheService
}

// NewBookService creates a book service. cacheService may be nil.
func NewBookService(repo repository.BookRepository, cacheService *cache.CacheService) BookService {
	return &bookService{
		repo:         repo,
		executor:     query.NewExecutor(repo),
		cacheService: cacheService,
	}
}

func (s *bookService) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	book, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		log.ErrorWithContext(ctx, "FindByID failed for book %d: %v", id, err)
		return nil, bookErrors.WrapDatabaseError(err)
	}
	return book, nil
}

// ListBooks compiles the filter and returns one page ordered by id.
// A malformed dsql string fails before the store is touched.
func (s *bookService) ListBooks(ctx context.Context, filter *models.BookFilter) (*models.BooksListResponse, error) {
	if filter == nil {
		filter = &models.BookFilter{}
	}
	validation.NormalizeBookFilter(filter)

	pred, err := query.Build(filter)
	if err != nil {
		return nil, bookErrors.WrapFilterError(err)
	}

	cacheKey := ""
	if generation := s.listGeneration(ctx); generation != "" {
		cacheKey = s.cacheService.GenerateHashKey(listCachePrefix, map[string]interface{}{
			"generation": generation,
			"predicate":  pred.String(),
			"page":       filter.Page,
			"limit":      filter.Limit,
		})
		var cached models.BooksListResponse
		if err := s.cacheService.GetCached(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	page, err := s.executor.Execute(ctx, pred, filter.Page, filter.Limit)
	if err != nil {
		log.ErrorWithContext(ctx, "Query failed for predicate %s: %v", pred, err)
		return nil, bookErrors.WrapDatabaseError(err)
	}

	books := make([]models.Book, 0, len(page.Items))
	for _, b := range page.Items {
		books = append(books, *b)
	}
	result := &models.BooksListResponse{
		Books:      books,
		TotalCount: page.Total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		HasMore:    int64(filter.Page)*int64(filter.Limit) < page.Total,
	}

	if cacheKey != "" {
		if err := s.cacheService.CacheData(ctx, cacheKey, result); err != nil {
			log.WarnWithContext(ctx, "Failed to cache book list: %v", err)
		}
	}
	return result, nil
}

func (s *bookService) AddBook(ctx context.Context, req *models.BookRequest, createdBy string) (*models.Book, error) {
	if err := validation.ValidateBookRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", bookErrors.ErrInvalidBookData, err)
	}

	book := models.NewBook(req, createdBy)
	if err := s.repo.Create(ctx, book); err != nil {
		log.ErrorWithContext(ctx, "Create failed for book %q: %v", book.Title, err)
		return nil, bookErrors.WrapDatabaseError(err)
	}

	s.invalidateLists(ctx)
	log.InfoWithContext(ctx, "Book %d added by %s", book.ID, createdBy)
	return book, nil
}

// UpdateBook replaces every mutable field of book id. An absent book
// reports false before the draft is validated.
func (s *bookService) UpdateBook(ctx context.Context, id int64, req *models.BookRequest) (bool, error) {
	err := s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		book, err := s.repo.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := validation.ValidateBookRequest(req); err != nil {
			return fmt.Errorf("%w: %v", bookErrors.ErrInvalidBookData, err)
		}
		book.Apply(req)
		return s.repo.Update(txCtx, book)
	})
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	case errors.Is(err, bookErrors.ErrInvalidBookData):
		return false, err
	case err != nil:
		log.ErrorWithContext(ctx, "Update failed for book %d: %v", id, err)
		return false, bookErrors.WrapDatabaseError(err)
	}

	s.invalidateLists(ctx)
	return true, nil
}

func (s *bookService) DeleteBook(ctx context.Context, id int64) (bool, error) {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		log.ErrorWithContext(ctx, "Delete failed for book %d: %v", id, err)
		return false, bookErrors.WrapDatabaseError(err)
	}

	s.invalidateLists(ctx)
	return true, nil
}

func (s *bookService) IsBookOwner(ctx context.Context, id int64, identity string) (bool, error) {
	ownership, err := s.CheckOwnership(ctx, id, identity)
	if err != nil {
		return false, err
	}
	return ownership == models.OwnershipOwner, nil
}

// CheckOwnership compares identity with the book's author
func (s *bookService) CheckOwnership(ctx context.Context, id int64, identity string) (models.Ownership, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return models.OwnershipNotFound, err
	}
	if book == nil {
		return models.OwnershipNotFound, nil
	}
	if identity != "" && book.Author == identity {
		return models.OwnershipOwner, nil
	}
	return models.OwnershipNotOwner, nil
}

// listGeneration returns the current list generation, starting a new one
// when none is stored. It returns "" when lists must not be cached.
func (s *bookService) listGeneration(ctx context.Context) string {
	if !s.cacheService.IsEnabled() {
		return ""
	}
	var generation string
	if err := s.cacheService.GetCached(ctx, listGenerationKey, &generation); err == nil && generation != "" {
		return generation
	}
	return s.nextListGeneration(ctx)
}

func (s *bookService) nextListGeneration(ctx context.Context) string {
	id, err := uuid.NewV4()
	if err != nil {
		log.WarnWithContext(ctx, "Failed to generate list cache generation: %v", err)
		return ""
	}
	generation := id.String()
	if err := s.cacheService.CacheData(ctx, listGenerationKey, generation); err != nil {
		log.WarnWithContext(ctx, "Failed to store list cache generation: %v", err)
		return ""
	}
	return generation
}

func (s *bookService) invalidateLists(ctx context.Context) {
	if !s.cacheService.IsEnabled() {
		return
	}
	s.nextListGeneration(ctx)
	if err := s.cacheService.InvalidatePattern(ctx, listCachePrefix+":*"); err != nil {
		log.WarnWithContext(ctx, "Failed to invalidate book list cache: %v", err)
	}
}
