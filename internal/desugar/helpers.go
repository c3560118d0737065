package desugar

import (
	"desugar/internal/ast"
	"desugar/internal/oracle"
	"desugar/internal/rewrite"
	"desugar/internal/token"
)

// needsParens reports whether a lowered replacement (a ternary or an &&
// chain) must be grouped to keep its meaning at the current position.
func needsParens(e *rewrite.Engine) bool {
	switch e.ParentKind() {
	case ast.ExprUnary, ast.ExprBinary, ast.ExprCast, ast.ExprAsCast, ast.ExprIs,
		ast.ExprMember, ast.ExprIndex, ast.ExprTernary, ast.ExprRange:
		return true
	default:
		return false
	}
}

func groupIf(b *ast.Builder, cond bool, id ast.ExprID) ast.ExprID {
	if !cond {
		return id
	}
	return b.Group(id)
}

// receiver groups id unless it can be the target of a member access as is.
func receiver(b *ast.Builder, id ast.ExprID) ast.ExprID {
	switch b.ExprKindOf(id) {
	case ast.ExprIdent, ast.ExprThis, ast.ExprMember, ast.ExprIndex, ast.ExprCall,
		ast.ExprGroup, ast.ExprNew, ast.ExprArrayNew, ast.ExprDefault, ast.ExprTuple:
		return id
	default:
		return b.Group(id)
	}
}

// isPure reports whether evaluating id twice is indistinguishable from once.
func isPure(e *rewrite.Engine, id ast.ExprID) bool {
	x := e.B.Expr(id)
	if x == nil {
		return false
	}
	switch d := x.Data.(type) {
	case ast.ThisExpr, ast.LitExpr:
		return true
	case ast.GroupExpr:
		return isPure(e, d.Inner)
	case ast.IdentExpr:
		sym, ok := e.SymbolOf(id)
		return ok && sym.IsPure()
	case ast.MemberExpr:
		if d.Optional {
			return false
		}
		sym, ok := e.SymbolOf(id)
		return ok && sym.IsPure() && (sym.Static || isPure(e, d.Target))
	default:
		return false
	}
}

// typeSyntax spells ref as type syntax valid at the position of at.
func typeSyntax(e *rewrite.Engine, ref oracle.TypeRef, at ast.ExprID) (ast.TypeID, bool) {
	text := e.Display(ref, at)
	if text == "" {
		return ast.NoTypeID, false
	}
	return e.B.NamedType(text), true
}

// plainType returns t without trivia, for type syntax used more than once.
func plainType(b *ast.Builder, t ast.TypeID) ast.TypeID {
	ty := b.Type(t)
	if ty == nil || (len(ty.Lead) == 0 && len(ty.Trail) == 0) {
		return t
	}
	cp := *ty
	cp.Lead, cp.Trail, cp.Origin = nil, nil, t
	return b.AddType(cp)
}

// nullFor is the null literal a guard compares against. A receiver type that
// declares its own equality operators gets `(object)null` so the comparison
// stays a reference check.
func nullFor(e *rewrite.Engine, recv oracle.TypeRef) ast.ExprID {
	if e.Oracle != nil && oracle.DeclaresOperator(e.Oracle, recv, "op_Equality", "op_Inequality") {
		return e.B.Cast(e.B.NamedType("object"), e.B.Null())
	}
	return e.B.Null()
}

// prependLead puts run in front of the leading trivia of id.
func prependLead(b *ast.Builder, id ast.ExprID, run []token.Trivia) ast.ExprID {
	x := b.Expr(id)
	if x == nil || len(run) == 0 {
		return id
	}
	return b.ExprWithTrivia(id, ast.Concat(run, x.Lead), x.Trail)
}

// appendTrail puts run after the trailing trivia of id.
func appendTrail(b *ast.Builder, id ast.ExprID, run []token.Trivia) ast.ExprID {
	x := b.Expr(id)
	if x == nil || len(run) == 0 {
		return id
	}
	return b.ExprWithTrivia(id, x.Lead, ast.Concat(x.Trail, run))
}

// detached keeps only the comments of runs whose tokens were dropped, each
// separated by a space so they can trail whatever precedes them.
func detached(runs ...[]token.Trivia) []token.Trivia {
	var out []token.Trivia
	for _, r := range runs {
		for _, c := range token.Comments(r) {
			out = append(out, token.Space(), c)
		}
	}
	return out
}
