package dsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBook map[string]interface{}

func (b fakeBook) Lookup(f FieldRef) interface{} { return b[f.Name] }

var dune = fakeBook{
	"id":              int64(1),
	"title":           "Dune",
	"author":          "Frank Herbert",
	"description":     "Spice and sand",
	"publisher":       "Chilton",
	"publicationYear": int64(1965),
	"genre":           []string{"scifi", "classic"},
}

func TestEval(t *testing.T) {
	cases := []struct {
		filter string
		want   bool
	}{
		{``, true},
		{`title = "Dune"`, true},
		{`title = "dune"`, false},
		{`title != "Dune"`, false},
		{`title > "A"`, true},
		{`publicationYear >= 1965`, true},
		{`publicationYear > 1965`, false},
		{`publicationYear <> 1965`, false},
		{`publicationYear IN [1960, 1965]`, true},
		{`id IN [2, 3]`, false},
		{`genre IN ["fantasy", "scifi"]`, true},
		{`genre IN ["fantasy"]`, false},
		{`genre = "classic"`, true},
		{`genre != "classic"`, false},
		{`genre != "fantasy"`, true},
		{`author IN ["Frank Herbert", "Ursula K. Le Guin"]`, true},
		{`title = "Dune" AND publicationYear < 1965`, false},
		{`title = "Dune" OR publicationYear < 1965`, true},
		{`(title = "X" OR author = "Frank Herbert") AND genre IN ["scifi"]`, true},
	}
	for _, tc := range cases {
		t.Run(tc.filter, func(t *testing.T) {
			n, err := Parse(tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, Eval(n, dune))
		})
	}
}

func TestEval_Contains(t *testing.T) {
	assert.True(t, Eval(NewComparison(FieldTitle, CONTAINS, String("UN")), dune))
	assert.False(t, Eval(NewComparison(FieldTitle, CONTAINS, String("messiah")), dune))
	assert.True(t, Eval(NewComparison(FieldGenre, CONTAINS, String("CLASS")), dune))
	assert.True(t, Eval(NewComparison(FieldPublisher, CONTAINS, String("")), dune))
}

func TestEval_MissingFieldNeverMatches(t *testing.T) {
	rec := fakeBook{"title": "Dune"}
	assert.False(t, Eval(NewComparison(FieldPublicationYear, EQ, Int(1965)), rec))
	assert.False(t, Eval(NewComparison(FieldPublicationYear, NEQ, Int(1965)), rec))
}

func TestEval_EmptyGenre(t *testing.T) {
	rec := fakeBook{"genre": []string{}}
	assert.False(t, Eval(NewComparison(FieldGenre, IN, List(String("scifi"))), rec))
	assert.True(t, Eval(NewComparison(FieldGenre, NEQ, String("scifi")), rec))
}
