package models

import (
	"encoding/json"
	"testing"

	"github.com/qolzam/bookcatalog/books/dsql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBook_DefaultsGenreToEmpty(t *testing.T) {
	b := NewBook(&BookRequest{Title: "Dune", Author: "Frank Herbert", PublicationYear: 1965}, "frank")

	require.NotNil(t, b.Genre)
	assert.Len(t, b.Genre, 0)
	assert.Equal(t, "frank", b.CreatedBy)
	assert.False(t, b.CreatedAt.IsZero())
	assert.Equal(t, b.CreatedAt, b.UpdatedAt)

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"genre":[]`)
}

func TestNewBook_CopiesGenre(t *testing.T) {
	genre := []string{"scifi"}
	b := NewBook(&BookRequest{Title: "Dune", Genre: genre}, "")
	genre[0] = "changed"

	assert.Equal(t, Genres{"scifi"}, b.Genre)
}

func TestGenres_ValueAndScan(t *testing.T) {
	v, err := Genres{"scifi", "classic"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["scifi","classic"]`, v)

	v, err = Genres(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	var g Genres
	require.NoError(t, g.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, Genres{"a", "b"}, g)

	require.NoError(t, g.Scan(`[]`))
	assert.NotNil(t, g)
	assert.Len(t, g, 0)

	require.NoError(t, g.Scan(nil))
	assert.NotNil(t, g)

	require.NoError(t, g.Scan("null"))
	assert.NotNil(t, g)

	assert.Error(t, g.Scan(42))
	assert.Error(t, g.Scan("not json"))
}

func TestBook_Lookup(t *testing.T) {
	b := &Book{ID: 7, Title: "Dune", Author: "Frank Herbert", Publisher: "Chilton", PublicationYear: 1965, Genre: Genres{"scifi"}}

	assert.Equal(t, int64(7), b.Lookup(dsql.FieldID))
	assert.Equal(t, "Dune", b.Lookup(dsql.FieldTitle))
	assert.Equal(t, int64(1965), b.Lookup(dsql.FieldPublicationYear))
	assert.Equal(t, []string{"scifi"}, b.Lookup(dsql.FieldGenre))
	assert.Nil(t, b.Lookup(dsql.FieldRef{Name: "isbn"}))

	n, err := dsql.Parse(`title = "Dune" AND publicationYear >= 1965`)
	require.NoError(t, err)
	assert.True(t, dsql.Eval(n, b))
}

func TestBook_Clone(t *testing.T) {
	b := &Book{ID: 1, Genre: Genres{"a"}}
	c := b.Clone()
	c.Genre[0] = "b"
	c.Title = "x"

	assert.Equal(t, Genres{"a"}, b.Genre)
	assert.Empty(t, b.Title)
}

func TestOwnership_String(t *testing.T) {
	assert.Equal(t, "NotFound", OwnershipNotFound.String())
	assert.Equal(t, "NotOwner", OwnershipNotOwner.String())
	assert.Equal(t, "Owner", OwnershipOwner.String())
	assert.Equal(t, "Ownership(9)", Ownership(9).String())
}
