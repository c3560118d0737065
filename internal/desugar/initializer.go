package desugar

import (
	"slices"
	"strconv"

	"desugar/internal/ast"
	"desugar/internal/diag"
	"desugar/internal/oracle"
	"desugar/internal/rewrite"
	"desugar/internal/source"
	"desugar/internal/token"
)

// Initializers replicates object, collection and array initializers stored
// into a location of a different static type: the literal is built in a
// fresh temporary by explicit assignments, Add calls and element stores,
// and the store reads the temporary.
type Initializers struct {
	rewrite.Base
}

func NewInitializers() *Initializers { return &Initializers{} }

func (*Initializers) Name() string            { return "initializer" }
func (*Initializers) IsPurelySyntactic() bool { return false }

func (p *Initializers) Apply(tree *ast.Tree, orc oracle.Oracle) (*ast.Tree, error) {
	return rewrite.Apply(tree, initRules{}, p.Options(p.Name(), orc))
}

type initRules struct{ rewrite.BaseRules }

func (r initRules) Stmt(e *rewrite.Engine, id ast.StmtID) ([]ast.StmtID, bool) {
	b := e.B
	switch d := b.Stmt(id).Data.(type) {
	case ast.LocalStmt:
		var vars []ast.VarDecl
		for i, v := range d.Vars {
			// поднятие перед оператором обгонит инициализаторы слева
			if !literalValue(b, v.Init) || !earlierPure(e, d.Vars[:i]) {
				continue
			}
			nv, ok := replicate(e, v.Init)
			if !ok {
				continue
			}
			if vars == nil {
				vars = slices.Clone(d.Vars)
			}
			vars[i].Init = nv
		}
		if vars == nil {
			return nil, false
		}
		for i := range vars {
			if vars[i].Init == d.Vars[i].Init {
				vars[i].Init = e.Expr(vars[i].Init)
			}
		}
		d.Vars = vars
		return []ast.StmtID{b.RebuildStmt(id, d)}, true

	case ast.ExprStmt:
		as, ok := ast.ExprAs[ast.AssignExpr](b, d.Expr)
		if !ok || as.Op != token.Assign || !literalValue(b, as.Value) || !simpleStore(e, as.Target) {
			return nil, false
		}
		nv, ok := replicate(e, as.Value)
		if !ok {
			return nil, false
		}
		as.Target, as.Value = e.Expr(as.Target), nv
		d.Expr = b.RebuildExpr(d.Expr, as)
		return []ast.StmtID{b.RebuildStmt(id, d)}, true

	case ast.ReturnStmt:
		if !literalValue(b, d.Value) {
			return nil, false
		}
		nv, ok := replicate(e, d.Value)
		if !ok {
			return nil, false
		}
		d.Value = nv
		return []ast.StmtID{b.RebuildStmt(id, d)}, true
	}
	return nil, false
}

// literalValue reports whether id is a literal with an initializer.
func literalValue(b *ast.Builder, id ast.ExprID) bool {
	x := b.Expr(id)
	if x == nil {
		return false
	}
	switch d := x.Data.(type) {
	case ast.NewExpr:
		return d.Init.IsValid()
	case ast.ArrayNewExpr:
		return d.Init.IsValid()
	case ast.InitExpr:
		return d.Kind == ast.InitArray
	}
	return false
}

func earlierPure(e *rewrite.Engine, vars []ast.VarDecl) bool {
	for _, v := range vars {
		if v.Init.IsValid() && !isPure(e, v.Init) {
			return false
		}
	}
	return true
}

// simpleStore reports whether evaluating target can be moved after the
// replicated literal.
func simpleStore(e *rewrite.Engine, target ast.ExprID) bool {
	b := e.B
	switch d := b.Expr(target).Data.(type) {
	case ast.IdentExpr:
		return true
	case ast.MemberExpr:
		if k := b.ExprKindOf(d.Target); !d.Optional && (k == ast.ExprThis || k == ast.ExprIdent) {
			return true
		}
	}
	return isPure(e, target)
}

// replicate hoists the construction of a literal whose converted type
// differs from its own and returns the reference replacing it.
func replicate(e *rewrite.Engine, id ast.ExprID) (ast.ExprID, bool) {
	own, _, ok := e.TypeOf(id)
	conv, _, ok2 := e.ConvertedTypeOf(id)
	if !ok || !ok2 {
		e.SkipExpr(diag.DsgSkippedNoFacts, id, "initializer without resolved types")
		return ast.NoExprID, false
	}
	if own == conv {
		return ast.NoExprID, false
	}
	if !e.CanHoist() {
		e.SkipExpr(diag.DsgSkippedContext, id, "initializer where no statement can be hoisted")
		return ast.NoExprID, false
	}
	if d, ok := ast.ExprAs[ast.ArrayNewExpr](e.B, id); ok && d.Rank > 1 {
		e.SkipExpr(diag.DsgSkippedUnsupported, id, "multi-dimensional array initializer")
		return ast.NoExprID, false
	}
	rp := &replication{e: e}
	out, ok := rp.literal(id)
	if !ok {
		return ast.NoExprID, false
	}
	e.Hoist(rp.stmts...)
	return out, true
}

// replication collects the statements building one literal, nested
// literal entries in place so evaluation keeps source order.
type replication struct {
	e     *rewrite.Engine
	stmts []ast.StmtID
}

func (r *replication) emit(x ast.ExprID) {
	r.stmts = append(r.stmts, r.e.B.ExprStmt(x))
}

// literal builds id into a fresh temporary and returns a reference to it.
func (r *replication) literal(id ast.ExprID) (ast.ExprID, bool) {
	b := r.e.B
	x := b.Expr(id)
	var ctor ast.ExprID
	var init ast.ExprID
	switch d := x.Data.(type) {
	case ast.NewExpr:
		args, _ := r.e.Args(d.Args)
		ctor = b.AddExpr(ast.Expr{Span: x.Span, Data: ast.NewExpr{Type: d.Type, Args: args, Parens: true}})
		init = d.Init
	case ast.ArrayNewExpr:
		elem := d.Elem
		if !elem.IsValid() {
			var ok bool
			if elem, ok = r.elemType(id); !ok {
				return ast.NoExprID, false
			}
		}
		ctor = r.array(x.Span, elem, d.Init)
		init = d.Init
	case ast.InitExpr:
		elem, ok := r.elemType(id)
		if !ok {
			return ast.NoExprID, false
		}
		ctor = r.array(x.Span, elem, id)
		init = id
	default:
		rewrite.Violationf("%s is not a literal with an initializer", x.Kind)
	}

	name := r.e.Namer.Fresh("init")
	r.stmts = append(r.stmts, b.Local(b.VarType(), name, ctor))
	in := b.Expr(init)
	recv := func() ast.ExprID { return b.Ident(name) }
	if ok := r.entries(recv, init); !ok {
		return ast.NoExprID, false
	}
	ref := b.Ident(name)
	if init != id {
		ref = appendTrail(b, ref, detached(in.Lead, in.Trail))
	}
	return b.CarryExpr(id, ref), true
}

func (r *replication) elemType(id ast.ExprID) (ast.TypeID, bool) {
	_, t, ok := r.e.TypeOf(id)
	if !ok || t.Kind != oracle.KindArray {
		r.e.SkipExpr(diag.DsgSkippedNoFacts, id, "array initializer without a resolved element type")
		return ast.NoTypeID, false
	}
	return typeSyntax(r.e, t.Elem, id)
}

func (r *replication) array(sp source.Span, elem ast.TypeID, init ast.ExprID) ast.ExprID {
	b := r.e.B
	n := 0
	if in, ok := ast.ExprAs[ast.InitExpr](b, init); ok {
		n = len(in.Elems)
	}
	return b.AddExpr(ast.Expr{Span: sp, Data: ast.ArrayNewExpr{
		Elem:  elem,
		Rank:  1,
		Sizes: []ast.ExprID{b.Int(strconv.Itoa(n))},
	}})
}

// value rewrites an entry value; nested literals are replicated first.
func (r *replication) value(id ast.ExprID) ast.ExprID {
	if literalValue(r.e.B, id) {
		mark := len(r.stmts)
		if out, ok := r.literal(id); ok {
			return out
		}
		r.stmts = r.stmts[:mark]
	}
	return r.e.Expr(id)
}

// entries emits one statement per initializer entry on the object recv
// builds. It reports false when an entry can not be replicated.
func (r *replication) entries(recv func() ast.ExprID, init ast.ExprID) bool {
	b := r.e.B
	in, ok := ast.ExprAs[ast.InitExpr](b, init)
	if !ok {
		rewrite.Violationf("initializer of kind %s", b.ExprKindOf(init))
	}
	for i, el := range in.Elems {
		switch in.Kind {
		case ast.InitObject:
			as, ok := ast.ExprAs[ast.AssignExpr](b, el)
			if !ok {
				rewrite.Violationf("object initializer entry %d is not an assignment", i)
			}
			target := r.memberOf(recv, as.Target)
			if nested, ok := ast.ExprAs[ast.InitExpr](b, as.Value); ok && nested.Kind != ast.InitArray {
				sub := as.Value
				first := true
				onTarget := func() ast.ExprID {
					if first {
						first = false
						return target
					}
					return rewrite.StripTrivia(r.e, target)
				}
				if !r.entries(onTarget, sub) {
					return false
				}
				if len(nested.Elems) == 0 {
					r.keepComments(as.Target)
				}
				r.keepComments(el, as.Value)
				continue
			}
			r.emit(b.CarryExpr(el, b.Assign(target, r.value(as.Value))))

		case ast.InitCollection:
			if c, ok := ast.ExprAs[ast.InitExpr](b, el); ok && c.Kind == ast.InitComplex {
				args := make([]ast.ExprID, 0, len(c.Elems))
				for _, a := range c.Elems {
					args = append(args, r.value(a))
				}
				r.emit(b.CarryExpr(el, b.Invoke(recv(), "Add", args...)))
				continue
			}
			r.emit(b.Invoke(recv(), "Add", r.value(el)))

		case ast.InitArray:
			if b.ExprKindOf(el) == ast.ExprInit {
				r.e.SkipExpr(diag.DsgSkippedUnsupported, el, "nested array initializer")
				return false
			}
			at := b.Index(recv(), b.Int(strconv.Itoa(i)))
			r.emit(b.Assign(at, r.value(el)))

		default:
			rewrite.Violationf("initializer kind %d at the top of a literal", in.Kind)
		}
	}
	return true
}

// memberOf is the store an object initializer entry targets on recv.
func (r *replication) memberOf(recv func() ast.ExprID, target ast.ExprID) ast.ExprID {
	b := r.e.B
	switch d := b.Expr(target).Data.(type) {
	case ast.IdentExpr:
		return b.CarryExpr(target, b.Member(recv(), d.Name))
	case ast.ImplicitIndexExpr:
		args, _ := r.e.Exprs(d.Args)
		return b.CarryExpr(target, b.Index(recv(), args...))
	}
	rewrite.Violationf("object initializer target %s", b.ExprKindOf(target))
	return ast.NoExprID
}

// keepComments moves the comments of a nested initializer entry that has no
// statement of its own onto the last emitted statement.
func (r *replication) keepComments(ids ...ast.ExprID) {
	b := r.e.B
	if len(r.stmts) == 0 {
		return
	}
	last := r.stmts[len(r.stmts)-1]
	s := b.Stmt(last)
	trail := s.Trail
	for _, id := range ids {
		if x := b.Expr(id); x != nil {
			trail = ast.Concat(trail, detached(x.Lead, x.Trail))
		}
	}
	if len(trail) != len(s.Trail) {
		r.stmts[len(r.stmts)-1] = b.StmtWithTrivia(last, s.Lead, trail)
	}
}
