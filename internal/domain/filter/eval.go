package filter

import (
	"strings"
	"time"
)

// Document exposes stored field values by name.
type Document interface {
	Field(name string) (any, bool)
}

// Evaluate reports whether doc satisfies e.
func Evaluate(e Expression, doc Document) bool {
	for _, c := range e.clauses {
		if !Match(c, doc) {
			return false
		}
	}
	for _, group := range e.groups {
		matched := false
		for _, c := range group {
			if Match(c, doc) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

// Match evaluates a single clause. Missing fields never match.
func Match(c Clause, doc Document) bool {
	value, ok := doc.Field(c.Field)
	if !ok {
		return false
	}
	switch c.Op {
	case OpEq:
		return equal(value, c.Value)
	case OpGTE:
		got, ok := toFloat(value)
		want, wok := toFloat(c.Value)
		return ok && wok && got >= want
	case OpLTE:
		got, ok := toFloat(value)
		want, wok := toFloat(c.Value)
		return ok && wok && got <= want
	case OpContainsFold:
		got, ok := value.(string)
		want, wok := c.Value.(string)
		return ok && wok && strings.Contains(strings.ToLower(got), strings.ToLower(want))
	case OpIn:
		set, ok := c.Value.([]string)
		if !ok {
			return false
		}
		switch v := value.(type) {
		case []string:
			for _, item := range v {
				if contains(set, item) {
					return true
				}
			}
			return false
		case string:
			return contains(set, v)
		}
		return false
	}
	return false
}

func equal(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func contains(set []string, value string) bool {
	for _, s := range set {
		if s == value {
			return true
		}
	}
	return false
}

// Less orders two values of the same stored field for sorting. Values of
// unknown or mismatched types compare as equal.
func Less(a, b any) bool {
	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			return af < bf
		}
		return false
	}
	switch av := a.(type) {
	case string:
		if bv, ok := b.(string); ok {
			return av < bv
		}
	case time.Time:
		if bv, ok := b.(time.Time); ok {
			return av.Before(bv)
		}
	case bool:
		if bv, ok := b.(bool); ok {
			return !av && bv
		}
	}
	return false
}
