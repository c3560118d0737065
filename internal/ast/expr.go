package ast

import (
	"desugar/internal/source"
	"desugar/internal/token"
)

// ExprKind enumerates expression node kinds.
type ExprKind uint8

const (
	ExprInvalid ExprKind = iota
	ExprIdent
	ExprLit
	ExprThis
	ExprMember
	ExprIndex
	ExprCall
	ExprUnary
	ExprBinary
	ExprAssign
	ExprTernary
	ExprCast
	ExprAsCast
	ExprGroup
	ExprLambda
	ExprNew
	ExprAnonObject
	ExprTuple
	ExprArrayNew
	ExprInit
	ExprImplicitIndex
	ExprIs
	ExprQuery
	ExprDefault
	ExprThrow
	ExprDecl
	ExprRange
)

var exprKindNames = [...]string{
	ExprInvalid:       "invalid",
	ExprIdent:         "ident",
	ExprLit:           "literal",
	ExprThis:          "this",
	ExprMember:        "member",
	ExprIndex:         "index",
	ExprCall:          "call",
	ExprUnary:         "unary",
	ExprBinary:        "binary",
	ExprAssign:        "assign",
	ExprTernary:       "ternary",
	ExprCast:          "cast",
	ExprAsCast:        "as",
	ExprGroup:         "group",
	ExprLambda:        "lambda",
	ExprNew:           "new",
	ExprAnonObject:    "anonymous-object",
	ExprTuple:         "tuple",
	ExprArrayNew:      "array-new",
	ExprInit:          "initializer",
	ExprImplicitIndex: "implicit-index",
	ExprIs:            "is",
	ExprQuery:         "query",
	ExprDefault:       "default",
	ExprThrow:         "throw",
	ExprDecl:          "declaration",
	ExprRange:         "range",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "invalid"
}

// Expr is the arena header of an expression node.
type Expr struct {
	Kind   ExprKind
	Span   source.Span
	Lead   []token.Trivia
	Trail  []token.Trivia
	Origin ExprID // node this one was rebuilt from; NoExprID for parsed or synthesized nodes
	Data   ExprData
}

// ExprData is the kind-specific payload of an expression.
type ExprData interface {
	ExprKind() ExprKind
}

// LitKind classifies literal tokens.
type LitKind uint8

const (
	LitNull LitKind = iota
	LitBool
	LitInt
	LitReal
	LitString
	LitChar
)

// RefKind marks by-reference arguments and parameters.
type RefKind uint8

const (
	RefNone RefKind = iota
	RefOut
	RefRef
	RefIn
)

func (r RefKind) String() string {
	switch r {
	case RefOut:
		return "out"
	case RefRef:
		return "ref"
	case RefIn:
		return "in"
	default:
		return ""
	}
}

// InitKind distinguishes the brace-initializer flavors.
type InitKind uint8

const (
	InitObject     InitKind = iota // { A = 1, B = { ... } }
	InitCollection                 // { 1, 2, 3 }
	InitArray                      // new T[] { 1, 2 }
	InitComplex                    // { k, v } inside a collection initializer
)

type (
	IdentExpr struct {
		Name string
	}

	LitExpr struct {
		Kind LitKind
		Text string
	}

	ThisExpr struct{}

	// MemberExpr is `Target.Name` or, when Optional, `Target?.Name`.
	MemberExpr struct {
		Target   ExprID
		Name     string
		TypeArgs []TypeID
		Optional bool
	}

	// IndexExpr is `Target[Args]` or, when Optional, `Target?[Args]`.
	IndexExpr struct {
		Target   ExprID
		Args     []ExprID
		Optional bool
	}

	CallExpr struct {
		Target ExprID
		Args   []Arg
	}

	Arg struct {
		Name  string
		Ref   RefKind
		Value ExprID
	}

	UnaryExpr struct {
		Op      token.Kind
		Operand ExprID
		Postfix bool
	}

	BinaryExpr struct {
		Op    token.Kind
		Left  ExprID
		Right ExprID
	}

	AssignExpr struct {
		Op     token.Kind
		Target ExprID
		Value  ExprID
	}

	TernaryExpr struct {
		Cond ExprID
		Then ExprID
		Else ExprID
	}

	CastExpr struct {
		Type  TypeID
		Value ExprID
	}

	AsExpr struct {
		Value ExprID
		Type  TypeID
	}

	GroupExpr struct {
		Inner ExprID
	}

	// LambdaExpr has either an expression Body or a Block body, never both.
	LambdaExpr struct {
		Params []Param
		Parens bool
		Async  bool
		Body   ExprID
		Block  StmtID
	}

	Param struct {
		Name string
		Type TypeID
		Ref  RefKind
	}

	// NewExpr is `new Type(Args) Init`; Parens records whether the argument list was written.
	NewExpr struct {
		Type   TypeID
		Args   []Arg
		Parens bool
		Init   ExprID
	}

	// AnonObjectExpr is `new { A = x, y }`. Members with an empty Name take their
	// name from the value (simple binding or member access).
	AnonObjectExpr struct {
		Members []AnonMember
	}

	AnonMember struct {
		Name  string
		Value ExprID
	}

	TupleExpr struct {
		Elems []TupleElem
	}

	TupleElem struct {
		Name  string
		Value ExprID
	}

	// ArrayNewExpr is `new Elem[Sizes] Init`. Elem is NoTypeID for `new[] { ... }`.
	ArrayNewExpr struct {
		Elem  TypeID
		Rank  int
		Sizes []ExprID
		Init  ExprID
	}

	InitExpr struct {
		Kind  InitKind
		Elems []ExprID
	}

	// ImplicitIndexExpr is the `[k]` target of an index initializer entry.
	ImplicitIndexExpr struct {
		Args []ExprID
	}

	IsExpr struct {
		Value   ExprID
		Pattern PatternID
	}

	QueryExpr struct {
		From FromClause
		Body QueryBody
	}

	// DefaultExpr is `default(Type)` or the bare `default` literal when Type is absent.
	DefaultExpr struct {
		Type TypeID
	}

	ThrowExpr struct {
		Value ExprID
	}

	// DeclExpr declares locals inline: `var x`, `int x`, `var (a, b)`.
	DeclExpr struct {
		Type   TypeID
		Names  []string
		Parens bool
	}

	RangeExpr struct {
		Start ExprID
		End   ExprID
	}
)

func (IdentExpr) ExprKind() ExprKind         { return ExprIdent }
func (LitExpr) ExprKind() ExprKind           { return ExprLit }
func (ThisExpr) ExprKind() ExprKind          { return ExprThis }
func (MemberExpr) ExprKind() ExprKind        { return ExprMember }
func (IndexExpr) ExprKind() ExprKind         { return ExprIndex }
func (CallExpr) ExprKind() ExprKind          { return ExprCall }
func (UnaryExpr) ExprKind() ExprKind         { return ExprUnary }
func (BinaryExpr) ExprKind() ExprKind        { return ExprBinary }
func (AssignExpr) ExprKind() ExprKind        { return ExprAssign }
func (TernaryExpr) ExprKind() ExprKind       { return ExprTernary }
func (CastExpr) ExprKind() ExprKind          { return ExprCast }
func (AsExpr) ExprKind() ExprKind            { return ExprAsCast }
func (GroupExpr) ExprKind() ExprKind         { return ExprGroup }
func (LambdaExpr) ExprKind() ExprKind        { return ExprLambda }
func (NewExpr) ExprKind() ExprKind           { return ExprNew }
func (AnonObjectExpr) ExprKind() ExprKind    { return ExprAnonObject }
func (TupleExpr) ExprKind() ExprKind         { return ExprTuple }
func (ArrayNewExpr) ExprKind() ExprKind      { return ExprArrayNew }
func (InitExpr) ExprKind() ExprKind          { return ExprInit }
func (ImplicitIndexExpr) ExprKind() ExprKind { return ExprImplicitIndex }
func (IsExpr) ExprKind() ExprKind            { return ExprIs }
func (QueryExpr) ExprKind() ExprKind         { return ExprQuery }
func (DefaultExpr) ExprKind() ExprKind       { return ExprDefault }
func (ThrowExpr) ExprKind() ExprKind         { return ExprThrow }
func (DeclExpr) ExprKind() ExprKind          { return ExprDecl }
func (RangeExpr) ExprKind() ExprKind         { return ExprRange }
