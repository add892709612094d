package repository

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/qolzam/bookcatalog/books/dsql"
	"github.com/qolzam/bookcatalog/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicateSQL(t *testing.T) {
	cases := []struct {
		name    string
		filter  string
		dialect string
		sql     string
		args    []interface{}
	}{
		{
			name:    "worked example",
			filter:  `title = "Dune" AND publicationYear >= 1965`,
			dialect: database.DialectSQLite,
			sql:     "(title = ? AND publication_year >= ?)",
			args:    []interface{}{"Dune", int64(1965)},
		},
		{
			name:    "or with neq and lt",
			filter:  `author != "X" OR publicationYear < 1980`,
			dialect: database.DialectSQLite,
			sql:     "(author <> ? OR publication_year < ?)",
			args:    []interface{}{"X", int64(1980)},
		},
		{
			name:    "id in list",
			filter:  `id IN [1, 2]`,
			dialect: database.DialectSQLite,
			sql:     "id IN (?,?)",
			args:    []interface{}{int64(1), int64(2)},
		},
		{
			name:    "genre membership sqlite",
			filter:  `genre IN ["scifi","fantasy"]`,
			dialect: database.DialectSQLite,
			sql:     "EXISTS (SELECT 1 FROM json_each(books.genre) WHERE value IN (?,?))",
			args:    []interface{}{"scifi", "fantasy"},
		},
		{
			name:    "genre membership postgres",
			filter:  `genre = "scifi"`,
			dialect: database.DialectPostgres,
			sql:     "EXISTS (SELECT 1 FROM jsonb_array_elements_text(books.genre) AS g(value) WHERE g.value IN (?))",
			args:    []interface{}{"scifi"},
		},
		{
			name:    "genre exclusion",
			filter:  `genre != "horror"`,
			dialect: database.DialectSQLite,
			sql:     "NOT EXISTS (SELECT 1 FROM json_each(books.genre) WHERE value = ?)",
			args:    []interface{}{"horror"},
		},
		{
			name:    "injection attempt stays a parameter",
			filter:  `title = "x'; DROP TABLE books; --"`,
			dialect: database.DialectSQLite,
			sql:     "title = ?",
			args:    []interface{}{"x'; DROP TABLE books; --"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := dsql.Parse(tc.filter)
			require.NoError(t, err)

			cond, err := predicateSQL(n, tc.dialect)
			require.NoError(t, err)

			sql, args, err := cond.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tc.sql, sql)
			assert.Equal(t, tc.args, args)
		})
	}
}

func TestPredicateSQL_Contains(t *testing.T) {
	cond, err := predicateSQL(dsql.NewComparison(dsql.FieldTitle, dsql.CONTAINS, dsql.String("50%_Off")), database.DialectSQLite)
	require.NoError(t, err)

	sql, args, err := cond.ToSql()
	require.NoError(t, err)
	assert.Equal(t, `unicode_lower(title) LIKE ? ESCAPE '\'`, sql)
	assert.Equal(t, []interface{}{`%50\%\_off%`}, args)
}

func TestPredicateSQL_DollarPlaceholders(t *testing.T) {
	n, err := dsql.Parse(`title = "a" AND genre IN ["b", "c"]`)
	require.NoError(t, err)

	cond, err := predicateSQL(n, database.DialectPostgres)
	require.NoError(t, err)

	query, _, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Select("id").From("books").Where(cond).ToSql()
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id FROM books WHERE (title = $1 AND EXISTS (SELECT 1 FROM jsonb_array_elements_text(books.genre) AS g(value) WHERE g.value IN ($2,$3)))",
		query)
}

func TestPredicateSQL_RejectsOrderingOnGenre(t *testing.T) {
	_, err := predicateSQL(dsql.NewComparison(dsql.FieldGenre, dsql.GT, dsql.String("a")), database.DialectSQLite)
	assert.Error(t, err)
}

func TestPredicateSQL_RejectsUnknownField(t *testing.T) {
	_, err := predicateSQL(dsql.NewComparison(dsql.FieldRef{Name: "isbn"}, dsql.EQ, dsql.String("a")), database.DialectSQLite)
	assert.Error(t, err)
}

func TestPredicateSQL_ContainsFoldsPerDialect(t *testing.T) {
	title := dsql.NewComparison(dsql.FieldTitle, dsql.CONTAINS, dsql.String("ÉCOLE"))
	genre := dsql.NewComparison(dsql.FieldGenre, dsql.CONTAINS, dsql.String("Sci"))

	cases := []struct {
		name    string
		pred    *dsql.Comparison
		dialect string
		sql     string
		arg     string
	}{
		{"sqlite column", title, database.DialectSQLite, `unicode_lower(title) LIKE ? ESCAPE '\'`, "%école%"},
		{"postgres column", title, database.DialectPostgres, `LOWER(title) LIKE ? ESCAPE '\'`, "%école%"},
		{"sqlite genre", genre, database.DialectSQLite, `EXISTS (SELECT 1 FROM json_each(books.genre) WHERE unicode_lower(value) LIKE ? ESCAPE '\')`, "%sci%"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cond, err := predicateSQL(tc.pred, tc.dialect)
			require.NoError(t, err)

			sql, args, err := cond.ToSql()
			require.NoError(t, err)
			assert.Equal(t, tc.sql, sql)
			assert.Equal(t, []interface{}{tc.arg}, args)
		})
	}
}
