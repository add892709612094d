package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/qolzam/bookcatalog/books/dsql"
)

// Book is a catalog entry as stored in the books table
type Book struct {
	ID              int64     `json:"id" db:"id"`
	Title           string    `json:"title" db:"title"`
	Author          string    `json:"author" db:"author"`
	Description     string    `json:"description" db:"description"`
	Genre           Genres    `json:"genre" db:"genre"`
	Publisher       string    `json:"publisher" db:"publisher"`
	PublicationYear int       `json:"publicationYear" db:"publication_year"`
	CreatedBy       string    `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// Genres is an ordered list of genre names persisted as a JSON array.
// A nil Genres is stored and returned as an empty list.
type Genres []string

// Value implements driver.Valuer
func (g Genres) Value() (driver.Value, error) {
	if g == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(g))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (g *Genres) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*g = Genres{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("genres: unsupported scan type %T", value)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("genres: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*g = out
	return nil
}

// MarshalJSON never emits null
func (g Genres) MarshalJSON() ([]byte, error) {
	if g == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(g))
}

// Lookup exposes the book to dsql.Eval.
func (b *Book) Lookup(field dsql.FieldRef) interface{} {
	switch field {
	case dsql.FieldID:
		return b.ID
	case dsql.FieldTitle:
		return b.Title
	case dsql.FieldAuthor:
		return b.Author
	case dsql.FieldDescription:
		return b.Description
	case dsql.FieldPublisher:
		return b.Publisher
	case dsql.FieldPublicationYear:
		return int64(b.PublicationYear)
	case dsql.FieldGenre:
		return []string(b.Genre)
	}
	return nil
}

// Clone returns a deep copy
func (b *Book) Clone() *Book {
	c := *b
	c.Genre = append(Genres{}, b.Genre...)
	return &c
}

// BookRequest is the payload for creating a book and for replacing one on update
type BookRequest struct {
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	Description     string   `json:"description"`
	Genre           []string `json:"genre,omitempty"`
	Publisher       string   `json:"publisher"`
	PublicationYear int      `json:"publicationYear"`
}

// NewBook builds an unsaved book from a request. The id is assigned by the store.
func NewBook(req *BookRequest, createdBy string) *Book {
	now := time.Now().UTC()
	b := &Book{
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.Apply(req)
	return b
}

// Apply overwrites every mutable field of b with the request values
func (b *Book) Apply(req *BookRequest) {
	b.Title = req.Title
	b.Author = req.Author
	b.Description = req.Description
	b.Publisher = req.Publisher
	b.PublicationYear = req.PublicationYear
	b.Genre = append(Genres{}, req.Genre...)
}

// BookFilter carries the list query string
type BookFilter struct {
	Dsql            string `json:"dsql,omitempty" schema:"dsql"`
	Title           string `json:"title,omitempty" schema:"title"`
	Author          string `json:"author,omitempty" schema:"author"`
	Publisher       string `json:"publisher,omitempty" schema:"publisher"`
	PublicationYear *int   `json:"publicationYear,omitempty" schema:"publicationYear"`
	Page            int    `json:"page,omitempty" schema:"page"`
	Limit           int    `json:"limit,omitempty" schema:"limit"`
}

// BooksListResponse is one page of list results
type BooksListResponse struct {
	Books      []Book `json:"books"`
	TotalCount int64  `json:"totalCount"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	HasMore    bool   `json:"hasMore"`
}

// Ownership is the result of checking a caller against a book's author
type Ownership int

const (
	OwnershipNotFound Ownership = iota
	OwnershipNotOwner
	OwnershipOwner
)

func (o Ownership) String() string {
	switch o {
	case OwnershipNotFound:
		return "NotFound"
	case OwnershipNotOwner:
		return "NotOwner"
	case OwnershipOwner:
		return "Owner"
	}
	return fmt.Sprintf("Ownership(%d)", int(o))
}
