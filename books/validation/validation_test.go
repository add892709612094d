package validation

import (
	"strings"
	"testing"

	"github.com/qolzam/bookcatalog/books/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBookFilter(t *testing.T) {
	cases := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 10},
		{-3, -1, 1, 10},
		{1, 10, 1, 10},
		{3, 150, 3, 100},
		{2, 100, 2, 100},
		{5, 1, 5, 1},
	}
	for _, tc := range cases {
		f := &models.BookFilter{Page: tc.page, Limit: tc.limit}
		NormalizeBookFilter(f)
		assert.Equal(t, tc.wantPage, f.Page, "page %d", tc.page)
		assert.Equal(t, tc.wantLimit, f.Limit, "limit %d", tc.limit)
	}
}

func TestValidateBookFilter(t *testing.T) {
	assert.Error(t, ValidateBookFilter(nil))

	f := &models.BookFilter{Limit: 150}
	require.NoError(t, ValidateBookFilter(f))
	assert.Equal(t, 100, f.Limit)
	assert.Equal(t, 1, f.Page)

	assert.NoError(t, ValidateBookFilter(&models.BookFilter{Dsql: strings.Repeat("a", 5000)}))
}

func TestValidateBookRequest(t *testing.T) {
	valid := func() *models.BookRequest {
		return &models.BookRequest{Title: "Dune", Author: "Frank Herbert", PublicationYear: 1965, Genre: []string{"scifi"}}
	}

	require.NoError(t, ValidateBookRequest(valid()))
	assert.Error(t, ValidateBookRequest(nil))

	cases := map[string]func(r *models.BookRequest){
		"blank title":     func(r *models.BookRequest) { r.Title = "  " },
		"long title":      func(r *models.BookRequest) { r.Title = strings.Repeat("t", 600) },
		"missing author":  func(r *models.BookRequest) { r.Author = "" },
		"year too large":  func(r *models.BookRequest) { r.PublicationYear = 10000 },
		"empty genre":     func(r *models.BookRequest) { r.Genre = []string{"scifi", ""} },
		"long genre":      func(r *models.BookRequest) { r.Genre = []string{strings.Repeat("g", 65)} },
		"too many genres": func(r *models.BookRequest) { r.Genre = make([]string, 21) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			r := valid()
			mutate(r)
			assert.Error(t, ValidateBookRequest(r))
		})
	}

	noGenre := valid()
	noGenre.Genre = nil
	assert.NoError(t, ValidateBookRequest(noGenre))
}
