package repository

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/qolzam/bookcatalog/books/dsql"
	"github.com/qolzam/bookcatalog/internal/database"
)

// columns maps allow-listed fields to their column. Nothing outside this map
// can reach generated SQL.
var columns = map[dsql.FieldRef]string{
	dsql.FieldID:              "id",
	dsql.FieldTitle:           "title",
	dsql.FieldAuthor:          "author",
	dsql.FieldDescription:     "description",
	dsql.FieldPublisher:       "publisher",
	dsql.FieldPublicationYear: "publication_year",
	dsql.FieldGenre:           "genre",
}

var orderColumns = map[OrderKey]string{
	OrderByID: "id",
}

// predicateSQL translates a predicate tree into a squirrel condition.
// Every value is a bound parameter.
func predicateSQL(n dsql.Node, dialect string) (sq.Sqlizer, error) {
	switch x := n.(type) {
	case *dsql.And:
		l, err := predicateSQL(x.Left(), dialect)
		if err != nil {
			return nil, err
		}
		r, err := predicateSQL(x.Right(), dialect)
		if err != nil {
			return nil, err
		}
		return sq.And{l, r}, nil
	case *dsql.Or:
		l, err := predicateSQL(x.Left(), dialect)
		if err != nil {
			return nil, err
		}
		r, err := predicateSQL(x.Right(), dialect)
		if err != nil {
			return nil, err
		}
		return sq.Or{l, r}, nil
	case *dsql.Comparison:
		return comparisonSQL(x, dialect)
	}
	if dsql.IsTrue(n) {
		return sq.Expr("1 = 1"), nil
	}
	return nil, fmt.Errorf("unsupported predicate node %T", n)
}

func comparisonSQL(c *dsql.Comparison, dialect string) (sq.Sqlizer, error) {
	col, ok := columns[c.Field()]
	if !ok {
		return nil, fmt.Errorf("field %q has no column", c.Field().Name)
	}
	if c.Field().Type == dsql.StringListField {
		return genreSQL(col, c, dialect)
	}

	v := c.Value()
	switch c.Op() {
	case dsql.EQ:
		return sq.Eq{col: literalValue(v)}, nil
	case dsql.NEQ:
		return sq.NotEq{col: literalValue(v)}, nil
	case dsql.LT:
		return sq.Lt{col: literalValue(v)}, nil
	case dsql.LTE:
		return sq.LtOrEq{col: literalValue(v)}, nil
	case dsql.GT:
		return sq.Gt{col: literalValue(v)}, nil
	case dsql.GTE:
		return sq.GtOrEq{col: literalValue(v)}, nil
	case dsql.IN:
		return sq.Eq{col: literalValue(v)}, nil
	case dsql.CONTAINS:
		return sq.Expr(lower(col, dialect)+` LIKE ? ESCAPE '\'`, likePattern(v.Str)), nil
	}
	return nil, fmt.Errorf("operator %s is not supported on %s", c.Op(), c.Field().Name)
}

// genreSQL tests membership in the JSON array column
func genreSQL(col string, c *dsql.Comparison, dialect string) (sq.Sqlizer, error) {
	elements := "json_each(books." + col + ")"
	elem := "value"
	if dialect == database.DialectPostgres {
		elements = "jsonb_array_elements_text(books." + col + ") AS g(value)"
		elem = "g.value"
	}
	exists := func(cond string, args ...interface{}) sq.Sqlizer {
		return sq.Expr("EXISTS (SELECT 1 FROM "+elements+" WHERE "+cond+")", args...)
	}

	v := c.Value()
	switch c.Op() {
	case dsql.EQ, dsql.IN:
		values := v.Strings()
		args := make([]interface{}, len(values))
		for i, s := range values {
			args[i] = s
		}
		return exists(elem+" IN ("+placeholders(len(args))+")", args...), nil
	case dsql.NEQ:
		return sq.Expr("NOT EXISTS (SELECT 1 FROM "+elements+" WHERE "+elem+" = ?)", v.Str), nil
	case dsql.CONTAINS:
		return exists(lower(elem, dialect)+` LIKE ? ESCAPE '\'`, likePattern(v.Str)), nil
	}
	return nil, fmt.Errorf("operator %s is not supported on %s", c.Op(), c.Field().Name)
}

func literalValue(l dsql.Literal) interface{} {
	switch l.Kind {
	case dsql.StringLiteral:
		return l.Str
	case dsql.IntLiteral:
		return l.Int
	case dsql.FloatLiteral:
		return l.Float
	case dsql.ListLiteral:
		out := make([]interface{}, len(l.List))
		for i, item := range l.List {
			out[i] = literalValue(item)
		}
		return out
	}
	return nil
}

// lower folds expr to lower case the same way strings.ToLower does
func lower(expr, dialect string) string {
	if dialect == database.DialectSQLite {
		return database.SQLiteLowerFunc + "(" + expr + ")"
	}
	return "LOWER(" + expr + ")"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive substring pattern for s
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
