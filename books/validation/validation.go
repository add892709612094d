package validation

import (
	"fmt"
	"strings"

	"github.com/qolzam/bookcatalog/books/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	maxTitleLength = 512
	maxGenres      = 20
	maxGenreLength = 64
	minPublishYear = -5000
	maxPublishYear = 9999
)

// NormalizeBookFilter applies the pagination defaults in place:
// page < 1 becomes 1, limit < 1 becomes 10 and limit > 100 becomes 100.
func NormalizeBookFilter(filter *models.BookFilter) {
	if filter.Page < 1 {
		filter.Page = DefaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = DefaultLimit
	}
	if filter.Limit > MaxLimit {
		filter.Limit = MaxLimit
	}
}

// ValidateBookFilter normalises pagination. The dsql string is left to the
// parser, which reports its own error kinds.
func ValidateBookFilter(filter *models.BookFilter) error {
	if filter == nil {
		return fmt.Errorf("filter is required")
	}
	NormalizeBookFilter(filter)
	return nil
}

// ValidateBookRequest validates a create or update payload
func ValidateBookRequest(req *models.BookRequest) error {
	if req == nil {
		return fmt.Errorf("request is required")
	}

	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(req.Title) > maxTitleLength {
		return fmt.Errorf("title must be less than %d characters", maxTitleLength)
	}

	if strings.TrimSpace(req.Author) == "" {
		return fmt.Errorf("author is required")
	}

	if req.PublicationYear < minPublishYear || req.PublicationYear > maxPublishYear {
		return fmt.Errorf("publicationYear must be between %d and %d", minPublishYear, maxPublishYear)
	}

	if len(req.Genre) > maxGenres {
		return fmt.Errorf("maximum %d genres allowed", maxGenres)
	}
	for i, g := range req.Genre {
		if strings.TrimSpace(g) == "" {
			return fmt.Errorf("genre at index %d cannot be empty", i)
		}
		if len(g) > maxGenreLength {
			return fmt.Errorf("genre at index %d cannot exceed %d characters", i, maxGenreLength)
		}
	}

	return nil
}
