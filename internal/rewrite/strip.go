package rewrite

import "desugar/internal/ast"

// StripTrivia returns a copy of id without trivia anywhere in its expression
// subtree. Passes use it for the extra copies of an expression they
// duplicate, so every comment is still printed exactly once. Copies keep
// their provenance.
func StripTrivia(e *Engine, id ast.ExprID) ast.ExprID {
	if !id.IsValid() {
		return id
	}
	sub := New(e.B, stripRules{}, Options{Pass: e.pass, Oracle: e.Oracle, Namer: e.Namer})
	release := sub.Barrier()
	defer release()
	return sub.Expr(id)
}

type stripRules struct{ BaseRules }

func (stripRules) Expr(e *Engine, id ast.ExprID) (ast.ExprID, bool) {
	out := e.DefaultExpr(id)
	x := e.B.Expr(out)
	if x == nil || (len(x.Lead) == 0 && len(x.Trail) == 0) {
		return out, true
	}
	return e.B.ExprWithTrivia(out, nil, nil), true
}
