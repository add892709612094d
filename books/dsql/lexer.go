package dsql

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokIdent
	tokString
	tokNumber
	tokOp
	tokAnd
	tokOr
	tokIn
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokComma
)

func (t tokenType) String() string {
	switch t {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "field name"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	case tokOp:
		return "operator"
	case tokAnd:
		return "AND"
	case tokOr:
		return "OR"
	case tokIn:
		return "IN"
	case tokLParen:
		return "'('"
	case tokRParen:
		return "')'"
	case tokLBracket:
		return "'['"
	case tokRBracket:
		return "']'"
	case tokComma:
		return "','"
	}
	return "token"
}

type token struct {
	typ tokenType
	val string
	pos int
}

func (t token) describe() string {
	switch t.typ {
	case tokEOF:
		return t.typ.String()
	case tokString:
		return "string " + t.val
	}
	return "'" + t.val + "'"
}

var comparisonOps = map[string]Operator{
	"=":  EQ,
	"==": EQ,
	"!=": NEQ,
	"<>": NEQ,
	"<":  LT,
	"<=": LTE,
	">":  GT,
	">=": GTE,
}

// tokenize splits raw into tokens. String literals keep their content
// verbatim; quote characters inside them are never re-examined.
func tokenize(raw string) ([]token, error) {
	var tokens []token
	i := 0
	for i < len(raw) {
		r, size := utf8.DecodeRuneInString(raw[i:])
		switch {
		case unicode.IsSpace(r):
			i += size
		case r == '"' || r == '\'':
			end := strings.IndexRune(raw[i+size:], r)
			if end < 0 {
				return nil, errorf(ErrUnterminatedString, i, "string starting here is never closed")
			}
			tokens = append(tokens, token{typ: tokString, val: raw[i+size : i+size+end], pos: i})
			i += size + end + size
		case r == '(':
			tokens = append(tokens, token{typ: tokLParen, val: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{typ: tokRParen, val: ")", pos: i})
			i++
		case r == '[':
			tokens = append(tokens, token{typ: tokLBracket, val: "[", pos: i})
			i++
		case r == ']':
			tokens = append(tokens, token{typ: tokRBracket, val: "]", pos: i})
			i++
		case r == ',':
			tokens = append(tokens, token{typ: tokComma, val: ",", pos: i})
			i++
		case r == '&' || r == '|':
			if i+1 < len(raw) && rune(raw[i+1]) == r {
				typ := tokAnd
				if r == '|' {
					typ = tokOr
				}
				tokens = append(tokens, token{typ: typ, val: raw[i : i+2], pos: i})
				i += 2
				continue
			}
			return nil, errorf(ErrUnexpectedToken, i, "unexpected character %q", r)
		case r == '=' || r == '!' || r == '<' || r == '>':
			if i+1 < len(raw) {
				if _, ok := comparisonOps[raw[i:i+2]]; ok {
					tokens = append(tokens, token{typ: tokOp, val: raw[i : i+2], pos: i})
					i += 2
					continue
				}
			}
			if _, ok := comparisonOps[raw[i:i+1]]; !ok {
				return nil, errorf(ErrUnexpectedToken, i, "unexpected character %q", r)
			}
			tokens = append(tokens, token{typ: tokOp, val: raw[i : i+1], pos: i})
			i++
		case isDigit(r) || (r == '-' && i+1 < len(raw) && isDigit(rune(raw[i+1]))):
			start := i
			i++
			for i < len(raw) && isDigit(rune(raw[i])) {
				i++
			}
			if i+1 < len(raw) && raw[i] == '.' && isDigit(rune(raw[i+1])) {
				i++
				for i < len(raw) && isDigit(rune(raw[i])) {
					i++
				}
			}
			tokens = append(tokens, token{typ: tokNumber, val: raw[start:i], pos: start})
		case unicode.IsLetter(r) || r == '_':
			start := i
			for i < len(raw) {
				r, size := utf8.DecodeRuneInString(raw[i:])
				if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
					break
				}
				i += size
			}
			word := raw[start:i]
			typ := tokIdent
			switch strings.ToUpper(word) {
			case "AND":
				typ = tokAnd
			case "OR":
				typ = tokOr
			case "IN":
				typ = tokIn
			}
			tokens = append(tokens, token{typ: typ, val: word, pos: start})
		default:
			return nil, errorf(ErrUnexpectedToken, i, "unexpected character %q", r)
		}
	}
	tokens = append(tokens, token{typ: tokEOF, pos: len(raw)})
	return tokens, nil
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }
