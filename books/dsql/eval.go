package dsql

import "strings"

// Record exposes field values to Eval. Lookup returns a string, an int64 or
// a []string depending on the field type, or nil when the field is unset.
type Record interface {
	Lookup(field FieldRef) interface{}
}

// Eval reports whether rec satisfies n. It never mutates rec.
func Eval(n Node, rec Record) bool {
	if IsTrue(n) {
		return true
	}
	switch x := n.(type) {
	case *And:
		return Eval(x.left, rec) && Eval(x.right, rec)
	case *Or:
		return Eval(x.left, rec) || Eval(x.right, rec)
	case *Comparison:
		return evalComparison(x, rec.Lookup(x.field))
	}
	return false
}

func evalComparison(c *Comparison, value interface{}) bool {
	switch v := value.(type) {
	case string:
		return matchString(c.op, v, c.value)
	case int64:
		return matchInt(c.op, v, c.value)
	case int:
		return matchInt(c.op, int64(v), c.value)
	case []string:
		return matchList(c.op, v, c.value)
	}
	return false
}

func matchString(op Operator, v string, lit Literal) bool {
	if op == IN {
		for _, s := range lit.Strings() {
			if v == s {
				return true
			}
		}
		return false
	}
	if lit.Kind != StringLiteral {
		return false
	}
	switch op {
	case EQ:
		return v == lit.Str
	case NEQ:
		return v != lit.Str
	case LT:
		return v < lit.Str
	case LTE:
		return v <= lit.Str
	case GT:
		return v > lit.Str
	case GTE:
		return v >= lit.Str
	case CONTAINS:
		return strings.Contains(strings.ToLower(v), strings.ToLower(lit.Str))
	}
	return false
}

func matchInt(op Operator, v int64, lit Literal) bool {
	if op == IN {
		for _, n := range lit.Ints() {
			if v == n {
				return true
			}
		}
		return false
	}
	var f, n float64
	switch lit.Kind {
	case IntLiteral:
		return compareInts(op, v, lit.Int)
	case FloatLiteral:
		f, n = float64(v), lit.Float
	default:
		return false
	}
	switch op {
	case EQ:
		return f == n
	case NEQ:
		return f != n
	case LT:
		return f < n
	case LTE:
		return f <= n
	case GT:
		return f > n
	case GTE:
		return f >= n
	}
	return false
}

func compareInts(op Operator, v, n int64) bool {
	switch op {
	case EQ:
		return v == n
	case NEQ:
		return v != n
	case LT:
		return v < n
	case LTE:
		return v <= n
	case GT:
		return v > n
	case GTE:
		return v >= n
	}
	return false
}

func matchList(op Operator, values []string, lit Literal) bool {
	switch op {
	case EQ, IN:
		for _, want := range lit.Strings() {
			for _, v := range values {
				if v == want {
					return true
				}
			}
		}
		return false
	case NEQ:
		for _, v := range values {
			if v == lit.Str {
				return false
			}
		}
		return true
	case CONTAINS:
		needle := strings.ToLower(lit.Str)
		for _, v := range values {
			if strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
	}
	return false
}
