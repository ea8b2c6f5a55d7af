// Package claimquery compiles the predicate surface used by resolve and
// search calls into a backend-agnostic structured query object. Compile is
// pure and total: it never touches the network, and the same input always
// yields an equal output (§8).
package claimquery

// RangeOp is a range clause comparison operator.
type RangeOp string

const (
	OpLT  RangeOp = "lt"
	OpLTE RangeOp = "lte"
	OpGT  RangeOp = "gt"
	OpGTE RangeOp = "gte"
)

// TermClause matches a single exact value.
type TermClause struct {
	Field string
	Value interface{}
}

// TermsClause matches any of several exact values.
type TermsClause struct {
	Field  string
	Values []interface{}
}

// RangeClause matches a field against a bound.
type RangeClause struct {
	Field string
	Op    RangeOp
	Value interface{}
}

// ExistsClause matches documents where Field is present.
type ExistsClause struct {
	Field string
}

// PrefixClause matches documents whose Field starts with Value.
type PrefixClause struct {
	Field string
	Value string
}

// WeightedField is one field of a simple_query_string clause.
type WeightedField struct {
	Field string
	Boost float64
}

// SimpleQueryStringClause is a free-text match across weighted fields.
type SimpleQueryStringClause struct {
	Query  string
	Fields []WeightedField
}

// BoolClause is a nested boolean sub-query, used for the should-group
// branches of §4.2 (e.g. "not signed OR signed-and-valid").
type BoolClause struct {
	Must    []interface{}
	MustNot []interface{}
}

// SortField is one entry of a sort specification.
type SortField struct {
	Field     string
	Ascending bool
}

// Collapse field-collapses results, keeping up to Size hits per distinct
// value of Field, ordered identically to the outer query.
type Collapse struct {
	Field string
	Size  int
	Sort  []SortField
}

// Query is the compiled, backend-agnostic representation described by
// §4.2: a boolean query plus sort, pagination, and collapse.
type Query struct {
	SourceExcludes []string

	Must    []interface{}
	MustNot []interface{}
	Should  []interface{}
	// MinimumShouldMatch is only meaningful when Should is non-empty.
	MinimumShouldMatch int

	Sort []SortField

	Size *int
	From *int

	Collapse *Collapse
}
