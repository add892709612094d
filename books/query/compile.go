// Package query turns a list request into a predicate and runs it against the store.
package query

import (
	"github.com/qolzam/bookcatalog/books/dsql"
	"github.com/qolzam/bookcatalog/books/models"
)

// Compile AND-combines the declarative field filters with an already parsed
// dsql predicate. title, author and publisher become case-insensitive
// substring matches; publicationYear is an exact match. With nothing to
// combine the result is dsql.True.
func Compile(filter *models.BookFilter, parsed dsql.Node) dsql.Node {
	var nodes []dsql.Node
	if filter != nil {
		if filter.Title != "" {
			nodes = append(nodes, dsql.NewComparison(dsql.FieldTitle, dsql.CONTAINS, dsql.String(filter.Title)))
		}
		if filter.Author != "" {
			nodes = append(nodes, dsql.NewComparison(dsql.FieldAuthor, dsql.CONTAINS, dsql.String(filter.Author)))
		}
		if filter.Publisher != "" {
			nodes = append(nodes, dsql.NewComparison(dsql.FieldPublisher, dsql.CONTAINS, dsql.String(filter.Publisher)))
		}
		if filter.PublicationYear != nil {
			nodes = append(nodes, dsql.NewComparison(dsql.FieldPublicationYear, dsql.EQ, dsql.Int(int64(*filter.PublicationYear))))
		}
	}
	nodes = append(nodes, parsed)
	return dsql.AndAll(nodes...)
}

// Build parses filter.Dsql and compiles it with the field filters.
// Parser errors are returned unchanged.
func Build(filter *models.BookFilter) (dsql.Node, error) {
	raw := ""
	if filter != nil {
		raw = filter.Dsql
	}
	parsed, err := dsql.Parse(raw)
	if err != nil {
		return nil, err
	}
	return Compile(filter, parsed), nil
}
