package filter

// Op identifies how a clause compares a stored field with its value.
type Op string

const (
	// OpEq matches when the field equals the value.
	OpEq Op = "eq"
	// OpGTE matches numeric fields greater than or equal to the value.
	OpGTE Op = "gte"
	// OpLTE matches numeric fields less than or equal to the value.
	OpLTE Op = "lte"
	// OpContainsFold matches string fields containing the value, ignoring case.
	OpContainsFold Op = "contains_fold"
	// OpIn matches when the field (or any element of an array field) is one of the values.
	OpIn Op = "in"
)

// Clause is a single {field, operator, value} predicate.
type Clause struct {
	Field string
	Op    Op
	Value any
}

// Eq builds an equality clause.
func Eq(field string, value any) Clause { return Clause{Field: field, Op: OpEq, Value: value} }

// GTE builds an inclusive lower bound clause.
func GTE(field string, value float64) Clause { return Clause{Field: field, Op: OpGTE, Value: value} }

// LTE builds an inclusive upper bound clause.
func LTE(field string, value float64) Clause { return Clause{Field: field, Op: OpLTE, Value: value} }

// ContainsFold builds a case-insensitive substring clause.
func ContainsFold(field, value string) Clause {
	return Clause{Field: field, Op: OpContainsFold, Value: value}
}

// In builds a set membership clause.
func In(field string, values ...string) Clause {
	return Clause{Field: field, Op: OpIn, Value: append([]string(nil), values...)}
}

// Expression is an immutable conjunction of clauses and OR-groups.
// A document matches when every clause holds and every group has at least one
// matching clause.
type Expression struct {
	clauses []Clause
	groups  [][]Clause
}

// Empty returns an expression matching every document.
func Empty() Expression { return Expression{} }

// And returns a copy of e with clause added to the conjunction.
func (e Expression) And(clause Clause) Expression {
	out := e.clone()
	out.clauses = append(out.clauses, clause)
	return out
}

// AnyOf returns a copy of e with a new OR-group. An empty call is a no-op.
func (e Expression) AnyOf(clauses ...Clause) Expression {
	if len(clauses) == 0 {
		return e
	}
	out := e.clone()
	out.groups = append(out.groups, append([]Clause(nil), clauses...))
	return out
}

// ExtendLastGroup returns a copy of e with clauses appended to the most recently
// added OR-group, or to a new group when there is none.
func (e Expression) ExtendLastGroup(clauses ...Clause) Expression {
	if len(clauses) == 0 {
		return e
	}
	if len(e.groups) == 0 {
		return e.AnyOf(clauses...)
	}
	out := e.clone()
	last := len(out.groups) - 1
	out.groups[last] = append(out.groups[last], clauses...)
	return out
}

// Clauses returns a copy of the AND clauses.
func (e Expression) Clauses() []Clause { return append([]Clause(nil), e.clauses...) }

// Groups returns a copy of the OR-groups.
func (e Expression) Groups() [][]Clause {
	if len(e.groups) == 0 {
		return nil
	}
	out := make([][]Clause, len(e.groups))
	for i, g := range e.groups {
		out[i] = append([]Clause(nil), g...)
	}
	return out
}

// IsEmpty reports whether the expression has no conditions.
func (e Expression) IsEmpty() bool { return len(e.clauses) == 0 && len(e.groups) == 0 }

func (e Expression) clone() Expression {
	return Expression{
		clauses: append([]Clause(nil), e.clauses...),
		groups:  e.Groups(),
	}
}

// Sort orders results by a single stored field.
type Sort struct {
	Field      string
	Descending bool
}
