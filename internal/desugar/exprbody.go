package desugar

import (
	"slices"
	"strings"

	"desugar/internal/ast"
	"desugar/internal/diag"
	"desugar/internal/oracle"
	"desugar/internal/rewrite"
)

// ExpressionBodied replaces `=> expr` bodies of members, accessors, local
// functions and lambdas by blocks. Lambdas converted to interpreted
// delegates (expression trees) keep their expression bodies.
type ExpressionBodied struct {
	rewrite.Base
}

func NewExpressionBodied() *ExpressionBodied { return &ExpressionBodied{} }

func (*ExpressionBodied) Name() string { return "expression-bodied" }

// IsPurelySyntactic is false: lambdas need their delegate types.
func (*ExpressionBodied) IsPurelySyntactic() bool { return false }

func (p *ExpressionBodied) Apply(tree *ast.Tree, orc oracle.Oracle) (*ast.Tree, error) {
	return rewrite.Apply(tree, exprBodyRules{}, p.Options(p.Name(), orc))
}

type exprBodyRules struct{ rewrite.BaseRules }

// bodyBlock states body as the single statement of a block: a throw stays
// a throw, a body whose value is discarded becomes an expression statement.
func bodyBlock(b *ast.Builder, body ast.ExprID, discard bool) ast.StmtID {
	if th, ok := ast.ExprAs[ast.ThrowExpr](b, body); ok {
		x := b.Expr(body)
		s := b.Throw(th.Value)
		return b.Block(b.StmtWithTrivia(s, x.Lead, x.Trail))
	}
	if discard {
		return b.Block(b.ExprStmt(body))
	}
	return b.Block(b.Return(body))
}

// taskLike reports whether name spells the non-generic Task or ValueTask,
// whose async bodies complete without a value.
func taskLike(name string) bool {
	name = name[strings.LastIndexByte(name, '.')+1:]
	return name == "Task" || name == "ValueTask"
}

// asyncVoid reports whether an async method declared to return ret yields
// no value from its body.
func asyncVoid(b *ast.Builder, mods []string, ret ast.TypeID) bool {
	if !slices.Contains(mods, "async") {
		return false
	}
	t := b.Type(ret)
	return t != nil && t.Kind == ast.TypeNamed && len(t.Args) == 0 && taskLike(t.Name)
}

// asyncDelegateVoid is asyncVoid for a lambda converted to delegate d.
func asyncDelegateVoid(o oracle.Oracle, d *oracle.Type) bool {
	ret := o.Lookup(d.Elem)
	return ret != nil && len(ret.Args) == 0 && taskLike(ret.Name)
}

func (exprBodyRules) Decl(e *rewrite.Engine, id ast.DeclID) ([]ast.DeclID, bool) {
	d := e.B.Decl(id)
	switch v := d.Data.(type) {
	case ast.MethodDecl:
		if !v.Body.IsValid() || v.Block.IsValid() {
			return nil, false
		}
		discard := v.Kind == ast.MethodConstructor || e.B.Type(v.Ret).IsVoid() || asyncVoid(e.B, v.Mods, v.Ret)
		v.Block, v.Body = bodyBlock(e.B, v.Body, discard), ast.NoExprID
		return []ast.DeclID{e.DefaultDecl(e.B.RebuildDecl(id, v))}, true

	case ast.PropertyDecl:
		changed := false
		accs := slices.Clone(v.Accessors)
		for i := range accs {
			a := &accs[i]
			if !a.Body.IsValid() {
				continue
			}
			a.Block, a.Body = bodyBlock(e.B, a.Body, a.Kind != ast.AccessorGet), ast.NoExprID
			changed = true
		}
		if v.Body.IsValid() {
			accs = append(accs, ast.Accessor{Kind: ast.AccessorGet, Block: bodyBlock(e.B, v.Body, false)})
			v.Body, changed = ast.NoExprID, true
		}
		if !changed {
			return nil, false
		}
		v.Accessors = accs
		return []ast.DeclID{e.DefaultDecl(e.B.RebuildDecl(id, v))}, true
	}
	return nil, false
}

func (exprBodyRules) Expr(e *rewrite.Engine, id ast.ExprID) (ast.ExprID, bool) {
	lam, ok := ast.ExprAs[ast.LambdaExpr](e.B, id)
	if !ok || !lam.Body.IsValid() {
		return ast.NoExprID, false
	}
	_, t, ok := e.ConvertedTypeOf(id)
	if !ok || t.Kind != oracle.KindDelegate {
		// синтезированные лямбды фактов не имеют: пропускаем молча
		if x := e.B.Expr(id); !x.Span.IsZero() {
			e.SkipExpr(diag.DsgSkippedNoFacts, id, "lambda without a resolved delegate type")
		}
		return e.DefaultExpr(id), true
	}
	if t.Interpreted {
		return id, true
	}
	discard := t.ReturnsVoid(e.Oracle) || lam.Async && asyncDelegateVoid(e.Oracle, t)
	lam.Block, lam.Body = bodyBlock(e.B, lam.Body, discard), ast.NoExprID
	return e.DefaultExpr(e.B.RebuildExpr(id, lam)), true
}
