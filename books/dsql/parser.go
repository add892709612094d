package dsql

import (
	"strconv"
	"strings"
)

const (
	// MaxInputLength bounds the size of a filter string in bytes.
	MaxInputLength = 4096
	// MaxDepth bounds parenthesis nesting.
	MaxDepth = 32
)

// Parse parses a filter expression against BookSchema.
//
// Example expressions:
//   - title = "Dune" AND publicationYear >= 1965
//   - genre IN ["scifi", "fantasy"]
//   - (author = 'Le Guin' OR author = 'Herbert') AND publicationYear < 1980
//
// An empty or blank string yields True.
func Parse(raw string) (Node, error) {
	return ParseWithSchema(raw, BookSchema)
}

// ParseWithSchema parses raw, resolving field names against schema.
func ParseWithSchema(raw string, schema *Schema) (Node, error) {
	if len(raw) > MaxInputLength {
		return nil, errorf(ErrTooComplex, -1, "filter is %d bytes, limit is %d", len(raw), MaxInputLength)
	}
	if strings.TrimSpace(raw) == "" {
		return True, nil
	}

	tokens, err := tokenize(raw)
	if err != nil {
		return nil, err
	}

	p := &parser{tokens: tokens, schema: schema}
	n, err := p.parseOr()
	if err != nil {
		return nil, err
	}

	if tok := p.peek(); tok.typ != tokEOF {
		switch tok.typ {
		case tokRParen, tokRBracket:
			return nil, errorf(ErrUnbalanced, tok.pos, "unmatched %s", tok.typ)
		}
		return nil, errorf(ErrUnexpectedToken, tok.pos, "unexpected %s after complete expression", tok.describe())
	}
	return n, nil
}

type parser struct {
	tokens []token
	pos    int
	depth  int
	schema *Schema
}

func (p *parser) peek() token { return p.tokens[p.pos] }

func (p *parser) next() token {
	tok := p.tokens[p.pos]
	if tok.typ != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokOr {
		op := p.next()
		if err := p.expectOperand(op); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Or{left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokAnd {
		op := p.next()
		if err := p.expectOperand(op); err != nil {
			return nil, err
		}
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &And{left: left, right: right}
	}
	return left, nil
}

// expectOperand rejects a logical operator with nothing on its right.
func (p *parser) expectOperand(op token) error {
	switch p.peek().typ {
	case tokEOF, tokRParen, tokAnd, tokOr:
		return errorf(ErrMissingOperand, op.pos, "%s has no right-hand side", strings.ToUpper(op.val))
	}
	return nil
}

func (p *parser) parseUnary() (Node, error) {
	tok := p.peek()
	switch tok.typ {
	case tokLParen:
		p.next()
		p.depth++
		if p.depth > MaxDepth {
			return nil, errorf(ErrTooComplex, tok.pos, "parentheses nested deeper than %d", MaxDepth)
		}
		if p.peek().typ == tokRParen {
			return nil, errorf(ErrMissingOperand, tok.pos, "empty parentheses")
		}
		n, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		closing := p.peek()
		if closing.typ == tokEOF {
			return nil, errorf(ErrUnbalanced, tok.pos, "'(' is never closed")
		}
		if closing.typ != tokRParen {
			return nil, errorf(ErrUnexpectedToken, closing.pos, "expected ')', found %s", closing.describe())
		}
		p.next()
		p.depth--
		return n, nil
	case tokIdent:
		return p.parseComparison()
	case tokEOF:
		return nil, errorf(ErrMissingOperand, tok.pos, "expected a comparison")
	case tokRParen, tokRBracket:
		return nil, errorf(ErrUnbalanced, tok.pos, "unmatched %s", tok.typ)
	case tokOp, tokAnd, tokOr, tokIn:
		return nil, errorf(ErrMissingOperand, tok.pos, "%s has no field on its left", tok.describe())
	}
	return nil, errorf(ErrUnexpectedToken, tok.pos, "expected a field name, found %s", tok.describe())
}

func (p *parser) parseComparison() (Node, error) {
	name := p.next()
	field, ok := p.schema.Lookup(name.val)
	if !ok {
		return nil, &Error{Kind: ErrUnknownField, Pos: name.pos, Field: name.val, Msg: "field '" + name.val + "' cannot be filtered on"}
	}

	opTok := p.next()
	switch opTok.typ {
	case tokOp:
		op := comparisonOps[opTok.val]
		if op.IsOrdering() && field.Type == StringListField {
			return nil, &Error{Kind: ErrTypeMismatch, Pos: opTok.pos, Field: field.Name,
				Msg: "operator " + opTok.val + " cannot be applied to " + field.Type.String() + " field '" + field.Name + "'"}
		}
		valTok := p.peek()
		switch valTok.typ {
		case tokString, tokNumber:
		case tokEOF, tokAnd, tokOr, tokRParen:
			return nil, errorf(ErrMissingOperand, opTok.pos, "operator %s has no value", opTok.val)
		case tokLBracket:
			return nil, errorf(ErrUnexpectedToken, valTok.pos, "a list is only allowed after IN")
		default:
			return nil, errorf(ErrUnexpectedToken, valTok.pos, "expected a value, found %s", valTok.describe())
		}
		p.next()
		lit, err := literalFor(field, valTok)
		if err != nil {
			return nil, err
		}
		return NewComparison(field, op, lit), nil

	case tokIn:
		open := p.next()
		if open.typ == tokEOF {
			return nil, errorf(ErrMissingOperand, opTok.pos, "IN has no list")
		}
		if open.typ != tokLBracket {
			return nil, errorf(ErrUnexpectedToken, open.pos, "expected '[' after IN, found %s", open.describe())
		}
		if p.peek().typ == tokRBracket {
			return nil, &Error{Kind: ErrEmptyList, Pos: open.pos, Field: field.Name, Msg: "IN list for '" + field.Name + "' has no values"}
		}
		var items []Literal
		for {
			valTok := p.next()
			switch valTok.typ {
			case tokString, tokNumber:
			case tokEOF:
				return nil, errorf(ErrUnbalanced, open.pos, "'[' is never closed")
			case tokRBracket, tokComma:
				return nil, errorf(ErrMissingOperand, valTok.pos, "list is missing a value")
			default:
				return nil, errorf(ErrUnexpectedToken, valTok.pos, "expected a list value, found %s", valTok.describe())
			}
			lit, err := literalFor(field, valTok)
			if err != nil {
				return nil, err
			}
			items = append(items, lit)

			sep := p.next()
			if sep.typ == tokRBracket {
				break
			}
			if sep.typ == tokEOF {
				return nil, errorf(ErrUnbalanced, open.pos, "'[' is never closed")
			}
			if sep.typ != tokComma {
				return nil, errorf(ErrUnexpectedToken, sep.pos, "expected ',' or ']', found %s", sep.describe())
			}
		}
		return NewComparison(field, IN, List(items...)), nil

	case tokEOF:
		return nil, errorf(ErrMissingOperand, name.pos, "field '%s' has no operator", name.val)
	}
	return nil, errorf(ErrUnexpectedToken, opTok.pos, "expected a comparison operator after '%s', found %s", name.val, opTok.describe())
}

// literalFor converts a value token to the literal type the field declares.
func literalFor(field FieldRef, tok token) (Literal, error) {
	mismatch := func(msg string) error {
		return &Error{Kind: ErrTypeMismatch, Pos: tok.pos, Field: field.Name, Msg: msg}
	}
	switch tok.typ {
	case tokString:
		if field.Type == IntField {
			return Literal{}, mismatch("field '" + field.Name + "' is an integer, got string \"" + tok.val + "\"")
		}
		return String(tok.val), nil
	case tokNumber:
		if field.Type != IntField {
			return Literal{}, mismatch("field '" + field.Name + "' is a " + field.Type.String() + ", got number " + tok.val)
		}
		if strings.Contains(tok.val, ".") {
			return Literal{}, mismatch("field '" + field.Name + "' is an integer, got " + tok.val)
		}
		n, err := strconv.ParseInt(tok.val, 10, 64)
		if err != nil {
			return Literal{}, mismatch("number " + tok.val + " is out of range")
		}
		return Int(n), nil
	}
	return Literal{}, errorf(ErrUnexpectedToken, tok.pos, "expected a value, found %s", tok.describe())
}
