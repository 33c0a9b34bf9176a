package mongo

import (
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"staysearch/internal/domain/filter"
)

// compileFilter renders expr as a MongoDB query document. Clauses on the same
// field share one operator document; a repeated operator moves to $and.
func compileFilter(expr filter.Expression) (bson.D, error) {
	doc := bson.D{}
	fieldIndex := map[string]int{}
	var and bson.A

	for _, c := range expr.Clauses() {
		op, value, err := compileOperator(c)
		if err != nil {
			return nil, err
		}
		idx, seen := fieldIndex[c.Field]
		if !seen {
			fieldIndex[c.Field] = len(doc)
			doc = append(doc, bson.E{Key: c.Field, Value: bson.D{{Key: op, Value: value}}})
			continue
		}
		ops := doc[idx].Value.(bson.D)
		if hasKey(ops, op) {
			and = append(and, bson.D{{Key: c.Field, Value: bson.D{{Key: op, Value: value}}}})
			continue
		}
		doc[idx].Value = append(ops, bson.E{Key: op, Value: value})
	}

	groups := expr.Groups()
	compiled := make([]bson.A, 0, len(groups))
	for _, group := range groups {
		alternatives := make(bson.A, 0, len(group))
		for _, c := range group {
			op, value, err := compileOperator(c)
			if err != nil {
				return nil, err
			}
			alternatives = append(alternatives, bson.D{{Key: c.Field, Value: bson.D{{Key: op, Value: value}}}})
		}
		compiled = append(compiled, alternatives)
	}
	switch {
	case len(compiled) == 1 && len(and) == 0:
		doc = append(doc, bson.E{Key: "$or", Value: compiled[0]})
	default:
		for _, alternatives := range compiled {
			and = append(and, bson.D{{Key: "$or", Value: alternatives}})
		}
	}
	if len(and) > 0 {
		doc = append(doc, bson.E{Key: "$and", Value: and})
	}
	return doc, nil
}

func compileOperator(c filter.Clause) (string, any, error) {
	switch c.Op {
	case filter.OpEq:
		return "$eq", c.Value, nil
	case filter.OpGTE:
		return "$gte", c.Value, nil
	case filter.OpLTE:
		return "$lte", c.Value, nil
	case filter.OpContainsFold:
		s, ok := c.Value.(string)
		if !ok {
			return "", nil, fmt.Errorf("mongo: %s expects a string for %q", c.Op, c.Field)
		}
		return "$regex", primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}, nil
	case filter.OpIn:
		values, ok := c.Value.([]string)
		if !ok {
			return "", nil, fmt.Errorf("mongo: %s expects a string list for %q", c.Op, c.Field)
		}
		return "$in", values, nil
	}
	return "", nil, fmt.Errorf("mongo: unsupported operator %q", c.Op)
}

func compileSort(s *filter.Sort) bson.D {
	if s == nil || s.Field == "" {
		return nil
	}
	direction := 1
	if s.Descending {
		direction = -1
	}
	return bson.D{{Key: s.Field, Value: direction}}
}

func hasKey(d bson.D, key string) bool {
	for _, e := range d {
		if e.Key == key {
			return true
		}
	}
	return false
}
