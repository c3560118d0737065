package ast

import "desugar/internal/token"

// ClauseKind enumerates query body clauses.
type ClauseKind uint8

const (
	ClauseFrom ClauseKind = iota + 1
	ClauseLet
	ClauseWhere
	ClauseJoin
	ClauseOrderBy
)

func (k ClauseKind) String() string {
	switch k {
	case ClauseFrom:
		return "from"
	case ClauseLet:
		return "let"
	case ClauseWhere:
		return "where"
	case ClauseJoin:
		return "join"
	case ClauseOrderBy:
		return "orderby"
	default:
		return "invalid"
	}
}

// FromClause is `from Type Name in Source`; Type is optional.
type FromClause struct {
	Lead   []token.Trivia
	Type   TypeID
	Name   string
	Source ExprID
}

// Clause is one body clause. Field use per kind:
//
//	from:    Type, Name, Expr (source)
//	let:     Name, Expr (value)
//	where:   Expr (condition)
//	join:    Type, Name, Expr (inner source), OuterKey, InnerKey, Into (optional)
//	orderby: Orderings
type Clause struct {
	Kind      ClauseKind
	Lead      []token.Trivia
	Type      TypeID
	Name      string
	Expr      ExprID
	OuterKey  ExprID
	InnerKey  ExprID
	Into      string
	Orderings []Ordering
}

type Ordering struct {
	Key        ExprID
	Descending bool
	Explicit   bool // `ascending` was written
}

// QueryBody ends in either `select Select` or `group GroupElem by GroupBy`,
// optionally followed by an `into` continuation.
type QueryBody struct {
	Clauses    []Clause
	Select     ExprID
	GroupElem  ExprID
	GroupBy    ExprID
	SelectLead []token.Trivia
	Cont       *Continuation
}

type Continuation struct {
	Lead []token.Trivia
	Name string
	Body QueryBody
}

// IsGroup reports whether the body ends in a group clause.
func (q QueryBody) IsGroup() bool {
	return q.GroupBy.IsValid()
}
