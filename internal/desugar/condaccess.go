package desugar

import (
	"slices"

	"desugar/internal/ast"
	"desugar/internal/diag"
	"desugar/internal/oracle"
	"desugar/internal/rewrite"
	"desugar/internal/token"
)

// ConditionalAccess decomposes `?.` and `?[` chains into explicit null
// guards: an if statement when the chain is a whole statement, a right
// nested conditional expression otherwise.
type ConditionalAccess struct {
	rewrite.Base
}

func NewConditionalAccess() *ConditionalAccess { return &ConditionalAccess{} }

func (*ConditionalAccess) Name() string            { return "conditional-access" }
func (*ConditionalAccess) IsPurelySyntactic() bool { return false }

func (p *ConditionalAccess) Apply(tree *ast.Tree, orc oracle.Oracle) (*ast.Tree, error) {
	return rewrite.Apply(tree, condRules{}, p.Options(p.Name(), orc))
}

type condRules struct{ rewrite.BaseRules }

func isChain(b *ast.Builder, id ast.ExprID) bool {
	switch b.ExprKindOf(id) {
	case ast.ExprMember, ast.ExprIndex, ast.ExprCall:
		return rewrite.HasOptionalLink(b, id)
	default:
		return false
	}
}

func (r condRules) Stmt(e *rewrite.Engine, id ast.StmtID) ([]ast.StmtID, bool) {
	es, ok := ast.StmtAs[ast.ExprStmt](e.B, id)
	if !ok || !isChain(e.B, es.Expr) {
		return nil, false
	}
	c, _ := planChain(e, es.Expr, true)
	if c == nil {
		// выражение-путь сообщит о пропуске сам
		return nil, false
	}
	return []ast.StmtID{c.statement(id)}, true
}

func (r condRules) Expr(e *rewrite.Engine, id ast.ExprID) (ast.ExprID, bool) {
	if e.B.ExprKindOf(id) == ast.ExprLambda {
		return r.lambda(e, id)
	}
	if !isChain(e.B, id) {
		return ast.NoExprID, false
	}
	c, why := planChain(e, id, false)
	if c == nil {
		e.SkipExpr(why.code, id, why.msg)
		return keep(e, id), true
	}
	return c.value(), true
}

// keep rewrites a chain left in place: its receiver and its arguments, but
// not the spine itself, so the same link is not planned again.
func keep(e *rewrite.Engine, id ast.ExprID) ast.ExprID {
	b := e.B
	if !isChain(b, id) {
		return e.Expr(id)
	}
	switch d := b.Expr(id).Data.(type) {
	case ast.MemberExpr:
		t := keep(e, d.Target)
		if t == d.Target {
			return id
		}
		d.Target = t
		return b.RebuildExpr(id, d)
	case ast.IndexExpr:
		t := keep(e, d.Target)
		release := e.Conditional()
		args, changed := e.Exprs(d.Args)
		release()
		if t == d.Target && !changed {
			return id
		}
		d.Target, d.Args = t, args
		return b.RebuildExpr(id, d)
	case ast.CallExpr:
		t := keep(e, d.Target)
		release := e.Conditional()
		args, changed := e.Args(d.Args)
		release()
		if t == d.Target && !changed {
			return id
		}
		d.Target, d.Args = t, args
		return b.RebuildExpr(id, d)
	}
	return e.Expr(id)
}

// lambda turns an expression lambda whose body holds a conditional access
// into a block lambda, so the chain can hoist its temporaries or become a
// guard statement. Expression trees keep their bodies.
func (r condRules) lambda(e *rewrite.Engine, id ast.ExprID) (ast.ExprID, bool) {
	b := e.B
	lam, _ := ast.ExprAs[ast.LambdaExpr](b, id)
	if !lam.Body.IsValid() || !hasConditionalAccess(b, lam.Body) {
		return ast.NoExprID, false
	}
	var void bool
	if _, t, ok := e.ConvertedTypeOf(id); ok && t.Kind == oracle.KindDelegate {
		if t.Interpreted {
			return ast.NoExprID, false
		}
		void = t.ReturnsVoid(e.Oracle) || lam.Async && asyncDelegateVoid(e.Oracle, t)
	} else if _, t, ok := e.TypeOf(lam.Body); ok && t.Kind == oracle.KindVoid && isChain(b, lam.Body) {
		void = true
	} else {
		return ast.NoExprID, false
	}
	if void {
		lam.Block = b.Block(b.ExprStmt(lam.Body))
	} else {
		lam.Block = b.Block(b.Return(lam.Body))
	}
	lam.Body = ast.NoExprID
	return e.DefaultExpr(b.RebuildExpr(id, lam)), true
}

// hasConditionalAccess reports whether id holds an optional link outside
// nested lambdas.
func hasConditionalAccess(b *ast.Builder, id ast.ExprID) bool {
	found := false
	ast.WalkExpr(b, id, ast.Visitor{Expr: func(_ ast.ExprID, x *ast.Expr) bool {
		if found {
			return false
		}
		switch d := x.Data.(type) {
		case ast.LambdaExpr:
			return false
		case ast.MemberExpr:
			found = d.Optional
		case ast.IndexExpr:
			found = d.Optional
		}
		return !found
	}})
	return found
}

type skipReason struct {
	code diag.Code
	msg  string
}

// guardInfo describes one optional link. pure is set when its receiver can
// be evaluated twice.
type guardInfo struct {
	ref  oracle.TypeRef
	t    *oracle.Type
	pure bool
}

// chain is one decomposition in progress. links run from the innermost
// spine node outwards; links[first] is the innermost optional one and its
// target, foot, is evaluated unconditionally.
type chain struct {
	e       *rewrite.Engine
	id      ast.ExprID
	links   []ast.ExprID
	first   int
	foot    ast.ExprID
	guards  []guardInfo
	result  oracle.TypeRef
	resultT *oracle.Type
	stmt    bool
	// dup repeats pure receivers instead of storing them, where nothing can be hoisted
	dup bool
}

func linkTarget(b *ast.Builder, id ast.ExprID) (ast.ExprID, bool) {
	switch d := b.Expr(id).Data.(type) {
	case ast.MemberExpr:
		return d.Target, d.Optional
	case ast.IndexExpr:
		return d.Target, d.Optional
	case ast.CallExpr:
		return d.Target, false
	}
	rewrite.Violationf("%s is not a navigation link", b.ExprKindOf(id))
	return ast.NoExprID, false
}

// planChain checks every fact the decomposition needs before anything is
// built, so a skipped chain leaves no hoisted statements behind.
func planChain(e *rewrite.Engine, id ast.ExprID, stmt bool) (*chain, skipReason) {
	b := e.B
	c := &chain{e: e, id: id, first: -1, stmt: stmt}
	for cur := id; ; {
		k := b.ExprKindOf(cur)
		if k != ast.ExprMember && k != ast.ExprIndex && k != ast.ExprCall {
			break
		}
		c.links = append(c.links, cur)
		cur, _ = linkTarget(b, cur)
	}
	slices.Reverse(c.links)
	for i, l := range c.links {
		if _, opt := linkTarget(b, l); opt {
			c.first = i
			break
		}
	}
	if c.first < 0 {
		rewrite.Violationf("conditional access chain without an optional link")
	}
	c.foot, _ = linkTarget(b, c.links[c.first])
	if !c.foot.IsValid() {
		rewrite.Violationf("conditional access without a receiver")
	}

	temps, pure := false, isPure(e, c.foot)
	for i := c.first; i < len(c.links); i++ {
		l := c.links[i]
		if tgt, opt := linkTarget(b, l); opt {
			ref, t, ok := e.TypeOf(tgt)
			if !ok || e.Display(ref, tgt) == "" {
				return nil, skipReason{diag.DsgSkippedNoFacts, "conditional access receiver has no resolved type"}
			}
			c.guards = append(c.guards, guardInfo{ref: ref, t: t, pure: pure})
			if len(c.guards) > 1 || !pure {
				temps = true
			}
		}
		pure = pure && pureLink(e, l)
	}
	if temps && !e.CanHoist() {
		for _, g := range c.guards {
			if !g.pure {
				return nil, skipReason{diag.DsgSkippedImpure, "conditional access receiver needs a temporary here"}
			}
		}
		c.dup = true
	}
	if stmt {
		return c, skipReason{}
	}
	ref, t, ok := e.ConvertedTypeOf(id)
	if !ok || e.Display(ref, id) == "" {
		return nil, skipReason{diag.DsgSkippedNoFacts, "conditional access result has no resolved type"}
	}
	if t.Kind == oracle.KindVoid {
		return nil, skipReason{diag.DsgSkippedUnsupported, "value of a conditional call returning nothing"}
	}
	c.result, c.resultT = ref, t
	return c, skipReason{}
}

// pureLink reports whether reading the member link l adds no effect to
// evaluating its target.
func pureLink(e *rewrite.Engine, l ast.ExprID) bool {
	if e.B.ExprKindOf(l) != ast.ExprMember {
		return false
	}
	sym, ok := e.SymbolOf(l)
	return ok && sym.IsPure()
}

// build emits the unconditional access path and one null test per optional
// link, innermost first.
func (c *chain) build() (tests []ast.ExprID, final ast.ExprID) {
	e := c.e
	cur := e.Expr(c.foot)
	release := func() {}
	for i := c.first; i < len(c.links); i++ {
		id := c.links[i]
		if _, opt := linkTarget(e.B, id); opt {
			test, access := c.guard(cur, len(tests))
			tests = append(tests, test)
			cur = access
			if len(tests) == 1 {
				release = e.Conditional()
			}
		}
		cur = c.link(id, cur, i == len(c.links)-1)
	}
	release()
	return tests, cur
}

// guard returns the expression compared against null for the j-th optional
// link and the receiver the access continues on. A receiver that can not be
// evaluated twice goes through a temporary.
func (c *chain) guard(recv ast.ExprID, j int) (test, access ast.ExprID) {
	e, b := c.e, c.e.B
	info := c.guards[j]
	switch {
	case j == 0 && isPure(e, c.foot), c.dup && info.pure:
		test, access = rewrite.StripTrivia(e, recv), recv
	case j == 0 && c.stmt:
		// первый приёмник оператора вычисляется первым: можно поднять целиком
		name := e.Namer.Fresh("t")
		typ, _ := typeSyntax(e, info.ref, c.foot)
		e.Hoist(b.Local(typ, name, recv))
		test, access = b.Ident(name), b.Ident(name)
	default:
		name := e.Namer.Fresh("t")
		typ, _ := typeSyntax(e, info.ref, c.foot)
		e.Hoist(b.Local(typ, name, b.Default(ast.NoTypeID)))
		test, access = b.Group(b.Assign(b.Ident(name), recv)), b.Ident(name)
	}
	if info.t.IsNullable() {
		access = b.Member(access, "Value")
	}
	return test, access
}

// link rebuilds one spine node over target as an unconditional access.
// The outermost link leaves its trivia to the node replacing the chain.
func (c *chain) link(id, target ast.ExprID, outermost bool) ast.ExprID {
	e, b := c.e, c.e.B
	x := b.Expr(id)
	var data ast.ExprData
	switch d := x.Data.(type) {
	case ast.MemberExpr:
		d.Target, d.Optional = target, false
		data = d
	case ast.IndexExpr:
		args, _ := e.Exprs(d.Args)
		d.Target, d.Optional, d.Args = target, false, args
		data = d
	case ast.CallExpr:
		args, _ := e.Args(d.Args)
		d.Target, d.Args = target, args
		data = d
	}
	if outermost {
		return b.AddExpr(ast.Expr{Span: x.Span, Data: data})
	}
	return b.AddExpr(ast.Expr{Span: x.Span, Lead: x.Lead, Trail: x.Trail, Data: data})
}

func (c *chain) value() ast.ExprID {
	b := c.e.B
	tests, out := c.build()
	for j := len(tests) - 1; j >= 0; j-- {
		cond := b.Group(b.Binary(token.EqEq, tests[j], nullFor(c.e, c.guards[j].ref)))
		out = b.Ternary(cond, c.fallback(), out)
	}
	return b.CarryExpr(c.id, groupIf(b, needsParens(c.e), out))
}

// fallback is the typed value of a short-circuited chain.
func (c *chain) fallback() ast.ExprID {
	b := c.e.B
	t, _ := typeSyntax(c.e, c.result, c.id)
	if c.resultT.IsReference() || c.resultT.IsNullable() {
		return b.Cast(t, b.Null())
	}
	return b.Default(t)
}

func (c *chain) statement(orig ast.StmtID) ast.StmtID {
	b := c.e.B
	tests, final := c.build()
	s := b.ExprStmt(b.CarryExpr(c.id, final))
	for j := len(tests) - 1; j >= 0; j-- {
		s = b.If(b.Binary(token.BangEq, tests[j], nullFor(c.e, c.guards[j].ref)), s, ast.NoStmtID)
	}
	return b.CarryStmt(orig, s)
}
