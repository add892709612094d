package dsql

import (
	"fmt"
	"strconv"
	"strings"
)

// Operator is a comparison operator a Comparison node can carry.
type Operator int

const (
	EQ Operator = iota
	NEQ
	LT
	LTE
	GT
	GTE
	IN
	CONTAINS
)

var operatorNames = [...]string{
	EQ:       "EQ",
	NEQ:      "NEQ",
	LT:       "LT",
	LTE:      "LTE",
	GT:       "GT",
	GTE:      "GTE",
	IN:       "IN",
	CONTAINS: "CONTAINS",
}

func (o Operator) String() string {
	if o < 0 || int(o) >= len(operatorNames) {
		return fmt.Sprintf("Operator(%d)", int(o))
	}
	return operatorNames[o]
}

// IsOrdering reports whether the operator compares by order rather than identity.
func (o Operator) IsOrdering() bool {
	return o == LT || o == LTE || o == GT || o == GTE
}

// LiteralKind tags the value held by a Literal.
type LiteralKind int

const (
	StringLiteral LiteralKind = iota
	IntLiteral
	FloatLiteral
	ListLiteral
)

// Literal is a typed constant. Strings are never interpreted further.
type Literal struct {
	Kind  LiteralKind
	Str   string
	Int   int64
	Float float64
	List  []Literal
}

// String builds a string literal.
func String(s string) Literal { return Literal{Kind: StringLiteral, Str: s} }

// Int builds an integer literal.
func Int(n int64) Literal { return Literal{Kind: IntLiteral, Int: n} }

// Float builds a floating point literal.
func Float(f float64) Literal { return Literal{Kind: FloatLiteral, Float: f} }

// List builds a list literal. The items are copied.
func List(items ...Literal) Literal {
	return Literal{Kind: ListLiteral, List: cloneLiterals(items)}
}

func cloneLiterals(items []Literal) []Literal {
	out := make([]Literal, len(items))
	for i, item := range items {
		if item.Kind == ListLiteral {
			item.List = cloneLiterals(item.List)
		}
		out[i] = item
	}
	return out
}

func (l Literal) String() string {
	switch l.Kind {
	case StringLiteral:
		return strconv.Quote(l.Str)
	case IntLiteral:
		return strconv.FormatInt(l.Int, 10)
	case FloatLiteral:
		return strconv.FormatFloat(l.Float, 'g', -1, 64)
	case ListLiteral:
		parts := make([]string, len(l.List))
		for i, item := range l.List {
			parts[i] = item.String()
		}
		return "[" + strings.Join(parts, ",") + "]"
	}
	return "?"
}

// Strings returns the string members of a list literal, or the literal itself
// as a one element slice when it is a plain string.
func (l Literal) Strings() []string {
	if l.Kind == StringLiteral {
		return []string{l.Str}
	}
	out := make([]string, 0, len(l.List))
	for _, item := range l.List {
		if item.Kind == StringLiteral {
			out = append(out, item.Str)
		}
	}
	return out
}

// Ints is the integer counterpart of Strings.
func (l Literal) Ints() []int64 {
	if l.Kind == IntLiteral {
		return []int64{l.Int}
	}
	out := make([]int64, 0, len(l.List))
	for _, item := range l.List {
		if item.Kind == IntLiteral {
			out = append(out, item.Int)
		}
	}
	return out
}

// Node is a predicate tree node. Implementations are immutable.
type Node interface {
	String() string
	node()
}

// Comparison is a leaf: field op value.
type Comparison struct {
	field FieldRef
	op    Operator
	value Literal
}

// NewComparison builds a leaf node. List values are copied.
func NewComparison(field FieldRef, op Operator, value Literal) *Comparison {
	if value.Kind == ListLiteral {
		value.List = cloneLiterals(value.List)
	}
	return &Comparison{field: field, op: op, value: value}
}

func (c *Comparison) Field() FieldRef { return c.field }
func (c *Comparison) Op() Operator    { return c.op }

// Value returns a copy of the compared literal.
func (c *Comparison) Value() Literal {
	v := c.value
	if v.Kind == ListLiteral {
		v.List = cloneLiterals(v.List)
	}
	return v
}

func (c *Comparison) String() string {
	return fmt.Sprintf("Comparison(%s, %s, %s)", c.field.Name, c.op, c.value)
}

func (*Comparison) node() {}

// And matches when both children match.
type And struct {
	left, right Node
}

// NewAnd combines two nodes. True operands are folded away.
func NewAnd(left, right Node) Node {
	if IsTrue(left) {
		return right
	}
	if IsTrue(right) {
		return left
	}
	return &And{left: left, right: right}
}

func (a *And) Left() Node     { return a.left }
func (a *And) Right() Node    { return a.right }
func (a *And) String() string { return fmt.Sprintf("And(%s, %s)", a.left, a.right) }
func (*And) node()            {}

// Or matches when either child matches.
type Or struct {
	left, right Node
}

// NewOr combines two nodes. A True operand makes the whole node True.
func NewOr(left, right Node) Node {
	if IsTrue(left) || IsTrue(right) {
		return True
	}
	return &Or{left: left, right: right}
}

func (o *Or) Left() Node     { return o.left }
func (o *Or) Right() Node    { return o.right }
func (o *Or) String() string { return fmt.Sprintf("Or(%s, %s)", o.left, o.right) }
func (*Or) node()            {}

type trueNode struct{}

func (trueNode) String() string { return "True" }
func (trueNode) node()          {}

// True matches every record.
var True Node = trueNode{}

// IsTrue reports whether n is the match-all predicate. A nil node counts.
func IsTrue(n Node) bool {
	if n == nil {
		return true
	}
	_, ok := n.(trueNode)
	return ok
}

// AndAll folds nodes left to right with NewAnd.
func AndAll(nodes ...Node) Node {
	out := True
	for _, n := range nodes {
		out = NewAnd(out, n)
	}
	return out
}

// Equal reports whether two trees are structurally identical.
func Equal(a, b Node) bool {
	if IsTrue(a) || IsTrue(b) {
		return IsTrue(a) && IsTrue(b)
	}
	switch x := a.(type) {
	case *Comparison:
		y, ok := b.(*Comparison)
		return ok && x.field == y.field && x.op == y.op && literalEqual(x.value, y.value)
	case *And:
		y, ok := b.(*And)
		return ok && Equal(x.left, y.left) && Equal(x.right, y.right)
	case *Or:
		y, ok := b.(*Or)
		return ok && Equal(x.left, y.left) && Equal(x.right, y.right)
	}
	return false
}

func literalEqual(a, b Literal) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case StringLiteral:
		return a.Str == b.Str
	case IntLiteral:
		return a.Int == b.Int
	case FloatLiteral:
		return a.Float == b.Float
	case ListLiteral:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !literalEqual(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	}
	return false
}
