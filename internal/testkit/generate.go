package testkit

import (
	"fmt"

	"desugar/internal/ast"
	"desugar/internal/oracle"
	"desugar/internal/source"
	"desugar/internal/token"
)

// Statement forms produced by Generate; a byte selects one modulo FormCount.
const (
	FormGuardedCall  = iota // c?.f();
	FormGuardedValue        // x = c?.Name;
	FormNestedGuard         // a?.Next?.f();
	FormQuery               // var q = from it in xs where it.Ok select it.Name;
	FormPlainCall           // g(x);
	FormCount
)

// MaxStatements bounds the body Generate builds.
const MaxStatements = 64

type gen struct {
	b   *ast.Builder
	tab *oracle.Table
}

func (g *gen) local(name string, ref oracle.TypeRef) ast.ExprID {
	id := g.b.Ident(name)
	g.tab.SetSymbol(id, g.tab.AddSymbol(oracle.Symbol{Kind: oracle.SymbolLocal, Name: name, Type: ref}))
	g.tab.SetType(id, ref)
	return id
}

func (g *gen) optional(target ast.ExprID, name string) ast.ExprID {
	return g.b.NewExpr(source.Span{}, ast.MemberExpr{Target: target, Name: name, Optional: true})
}

// Generate builds `class C { void M() { ... } }` with one statement per
// byte of data and the facts the semantic passes need for each of them.
// Every statement carries a distinct trailing comment.
func Generate(data []byte) (*ast.Tree, *oracle.Table) {
	g := &gen{b: ast.NewBuilder(ast.Hints{}), tab: oracle.NewTable()}
	b := g.b
	cT := g.tab.Named(oracle.KindClass, "C")
	str := g.tab.Named(oracle.KindClass, "string")

	if len(data) > MaxStatements {
		data = data[:MaxStatements]
	}
	stmts := make([]ast.StmtID, 0, len(data))
	for i, v := range data {
		var s ast.StmtID
		switch int(v) % FormCount {
		case FormGuardedCall:
			s = b.ExprStmt(b.Call(g.optional(g.local("c", cT), "f")))
		case FormGuardedValue:
			chain := g.optional(g.local("c", cT), "Name")
			g.tab.SetType(chain, str)
			s = b.ExprStmt(b.Assign(b.Ident("x"), chain))
		case FormNestedGuard:
			inner := g.optional(g.local("a", cT), "Next")
			g.tab.SetType(inner, cT)
			s = b.ExprStmt(b.Call(g.optional(inner, "f")))
		case FormQuery:
			q := b.NewExpr(source.Span{}, ast.QueryExpr{
				From: ast.FromClause{Name: "it", Source: b.Ident("xs")},
				Body: ast.QueryBody{
					Clauses: []ast.Clause{{Kind: ast.ClauseWhere, Expr: b.Member(b.Ident("it"), "Ok")}},
					Select:  b.Member(b.Ident("it"), "Name"),
				},
			})
			s = b.Local(b.VarType(), fmt.Sprintf("q%d", i), q)
		default:
			s = b.ExprStmt(b.Call(b.Ident("g"), b.Ident("x")))
		}
		trail := []token.Trivia{token.Space(), token.LineComment(fmt.Sprintf("// s%d", i))}
		stmts = append(stmts, b.StmtWithTrivia(s, nil, trail))
	}

	m := b.NewDecl(source.Span{}, ast.MethodDecl{Ret: b.NamedType("void"), Name: "M", Block: b.Block(stmts...)})
	cls := b.NewDecl(source.Span{}, ast.TypeDecl{Name: "C", Members: []ast.DeclID{m}})
	root := b.NewDecl(source.Span{}, ast.UnitDecl{Members: []ast.DeclID{cls}})
	return ast.NewTree(b, root), g.tab
}
