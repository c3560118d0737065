package ast

import (
	"desugar/internal/source"
	"desugar/internal/token"
)

// Shorthand constructors for synthesized nodes. Synthesized nodes carry no
// span and no trivia; the printer separates them with single spaces.

func (b *Builder) Ident(name string) ExprID {
	return b.NewExpr(source.Span{}, IdentExpr{Name: source.NormalizeIdent(name)})
}

func (b *Builder) Lit(kind LitKind, text string) ExprID {
	return b.NewExpr(source.Span{}, LitExpr{Kind: kind, Text: text})
}

func (b *Builder) Null() ExprID { return b.Lit(LitNull, "null") }
func (b *Builder) True() ExprID { return b.Lit(LitBool, "true") }
func (b *Builder) Int(text string) ExprID {
	return b.Lit(LitInt, text)
}

func (b *Builder) This() ExprID { return b.NewExpr(source.Span{}, ThisExpr{}) }

func (b *Builder) Member(target ExprID, name string) ExprID {
	return b.NewExpr(source.Span{}, MemberExpr{Target: target, Name: source.NormalizeIdent(name)})
}

// GenericMember is `target.Name<args>`.
func (b *Builder) GenericMember(target ExprID, name string, args ...TypeID) ExprID {
	return b.NewExpr(source.Span{}, MemberExpr{Target: target, Name: source.NormalizeIdent(name), TypeArgs: args})
}

func (b *Builder) Index(target ExprID, args ...ExprID) ExprID {
	return b.NewExpr(source.Span{}, IndexExpr{Target: target, Args: args})
}

// Call builds a call with positional by-value arguments.
func (b *Builder) Call(target ExprID, args ...ExprID) ExprID {
	list := make([]Arg, 0, len(args))
	for _, a := range args {
		list = append(list, Arg{Value: a})
	}
	return b.NewExpr(source.Span{}, CallExpr{Target: target, Args: list})
}

// Invoke is `recv.name(args...)`.
func (b *Builder) Invoke(recv ExprID, name string, args ...ExprID) ExprID {
	return b.Call(b.Member(recv, name), args...)
}

func (b *Builder) Unary(op token.Kind, operand ExprID) ExprID {
	return b.NewExpr(source.Span{}, UnaryExpr{Op: op, Operand: operand})
}

func (b *Builder) Await(operand ExprID) ExprID {
	return b.Unary(token.KwAwait, operand)
}

func (b *Builder) Binary(op token.Kind, left, right ExprID) ExprID {
	return b.NewExpr(source.Span{}, BinaryExpr{Op: op, Left: left, Right: right})
}

// AndAll folds terms into a left-associated && chain; it returns NoExprID for no terms.
func (b *Builder) AndAll(terms ...ExprID) ExprID {
	out := NoExprID
	for _, t := range terms {
		if !out.IsValid() {
			out = t
			continue
		}
		out = b.Binary(token.AndAnd, out, t)
	}
	return out
}

func (b *Builder) Assign(target, value ExprID) ExprID {
	return b.NewExpr(source.Span{}, AssignExpr{Op: token.Assign, Target: target, Value: value})
}

func (b *Builder) Ternary(cond, then, els ExprID) ExprID {
	return b.NewExpr(source.Span{}, TernaryExpr{Cond: cond, Then: then, Else: els})
}

func (b *Builder) Cast(t TypeID, value ExprID) ExprID {
	return b.NewExpr(source.Span{}, CastExpr{Type: t, Value: value})
}

func (b *Builder) As(value ExprID, t TypeID) ExprID {
	return b.NewExpr(source.Span{}, AsExpr{Value: value, Type: t})
}

func (b *Builder) Group(inner ExprID) ExprID {
	return b.NewExpr(source.Span{}, GroupExpr{Inner: inner})
}

// Lambda builds an implicitly typed expression lambda.
func (b *Builder) Lambda(body ExprID, params ...string) ExprID {
	ps := make([]Param, 0, len(params))
	for _, p := range params {
		ps = append(ps, Param{Name: source.NormalizeIdent(p)})
	}
	return b.NewExpr(source.Span{}, LambdaExpr{Params: ps, Parens: len(ps) != 1, Body: body})
}

func (b *Builder) New(t TypeID, args ...ExprID) ExprID {
	list := make([]Arg, 0, len(args))
	for _, a := range args {
		list = append(list, Arg{Value: a})
	}
	return b.NewExpr(source.Span{}, NewExpr{Type: t, Args: list, Parens: true})
}

func (b *Builder) Tuple(elems ...ExprID) ExprID {
	list := make([]TupleElem, 0, len(elems))
	for _, e := range elems {
		list = append(list, TupleElem{Value: e})
	}
	return b.NewExpr(source.Span{}, TupleExpr{Elems: list})
}

func (b *Builder) Is(value ExprID, p PatternID) ExprID {
	return b.NewExpr(source.Span{}, IsExpr{Value: value, Pattern: p})
}

func (b *Builder) Default(t TypeID) ExprID {
	return b.NewExpr(source.Span{}, DefaultExpr{Type: t})
}

// Types.

func (b *Builder) NamedType(name string, args ...TypeID) TypeID {
	return b.AddType(Type{Kind: TypeNamed, Name: name, Args: args})
}

func (b *Builder) NullableType(elem TypeID) TypeID {
	return b.AddType(Type{Kind: TypeNullable, Elem: elem})
}

func (b *Builder) ArrayType(elem TypeID, rank int) TypeID {
	return b.AddType(Type{Kind: TypeArray, Elem: elem, Rank: rank})
}

func (b *Builder) VarType() TypeID {
	return b.AddType(Type{Kind: TypeVar})
}

// Patterns.

func (b *Builder) TypePat(t TypeID) PatternID {
	return b.NewPattern(source.Span{}, TypePattern{Type: t})
}

func (b *Builder) ConstPat(value ExprID) PatternID {
	return b.NewPattern(source.Span{}, ConstPattern{Value: value})
}

func (b *Builder) DeclPat(t TypeID, name string) PatternID {
	return b.NewPattern(source.Span{}, DeclPattern{Type: t, Name: source.NormalizeIdent(name)})
}

// Statements.

func (b *Builder) ExprStmt(e ExprID) StmtID {
	return b.NewStmt(source.Span{}, ExprStmt{Expr: e})
}

func (b *Builder) Block(stmts ...StmtID) StmtID {
	return b.NewStmt(source.Span{}, BlockStmt{Stmts: stmts})
}

func (b *Builder) If(cond ExprID, then, els StmtID) StmtID {
	return b.NewStmt(source.Span{}, IfStmt{Cond: cond, Then: then, Else: els})
}

func (b *Builder) Return(value ExprID) StmtID {
	return b.NewStmt(source.Span{}, ReturnStmt{Value: value})
}

func (b *Builder) Throw(value ExprID) StmtID {
	return b.NewStmt(source.Span{}, ThrowStmt{Value: value})
}

// Local declares a single variable.
func (b *Builder) Local(t TypeID, name string, init ExprID) StmtID {
	return b.NewStmt(source.Span{}, LocalStmt{Type: t, Vars: []VarDecl{{Name: source.NormalizeIdent(name), Init: init}}})
}
