package dsql

import "strings"

// FieldType is the declared type of a queryable field.
type FieldType int

const (
	StringField FieldType = iota
	IntField
	StringListField
)

func (t FieldType) String() string {
	switch t {
	case StringField:
		return "string"
	case IntField:
		return "integer"
	case StringListField:
		return "string list"
	}
	return "unknown"
}

// FieldRef names an allow-listed field together with its type.
type FieldRef struct {
	Name string
	Type FieldType
}

// Schema is the closed set of fields a filter may reference.
type Schema struct {
	fields map[string]FieldRef
}

// NewSchema builds a schema. Lookups are case-insensitive.
func NewSchema(fields ...FieldRef) *Schema {
	s := &Schema{fields: make(map[string]FieldRef, len(fields))}
	for _, f := range fields {
		s.fields[strings.ToLower(f.Name)] = f
	}
	return s
}

// Lookup resolves a field name against the allow-list.
func (s *Schema) Lookup(name string) (FieldRef, bool) {
	f, ok := s.fields[strings.ToLower(name)]
	return f, ok
}

// Book fields.
var (
	FieldID              = FieldRef{Name: "id", Type: IntField}
	FieldTitle           = FieldRef{Name: "title", Type: StringField}
	FieldAuthor          = FieldRef{Name: "author", Type: StringField}
	FieldDescription     = FieldRef{Name: "description", Type: StringField}
	FieldPublisher       = FieldRef{Name: "publisher", Type: StringField}
	FieldPublicationYear = FieldRef{Name: "publicationYear", Type: IntField}
	FieldGenre           = FieldRef{Name: "genre", Type: StringListField}
)

// BookSchema is the allow-list used for book filters.
var BookSchema = NewSchema(
	FieldID,
	FieldTitle,
	FieldAuthor,
	FieldDescription,
	FieldPublisher,
	FieldPublicationYear,
	FieldGenre,
)
