package desugar

import (
	"slices"

	"desugar/internal/ast"
	"desugar/internal/diag"
	"desugar/internal/oracle"
	"desugar/internal/rewrite"
)

// PreInit declares every inline output variable ahead of its statement with
// a default value: `out var x` and `out T x` arguments, deconstruction
// declarations, and uninitialized locals later passed as `out`.
type PreInit struct {
	rewrite.Base
}

func NewPreInit() *PreInit { return &PreInit{} }

func (*PreInit) Name() string { return "pre-init" }

// IsPurelySyntactic is false: `var` targets need their inferred types.
func (*PreInit) IsPurelySyntactic() bool { return false }

func (p *PreInit) Apply(tree *ast.Tree, orc oracle.Oracle) (*ast.Tree, error) {
	return rewrite.Apply(tree, preInitRules{}, p.Options(p.Name(), orc))
}

type preInitRules struct{ rewrite.BaseRules }

// declType spells the type of an inline declaration: its own syntax, or the
// inferred type of a `var` one.
func declType(e *rewrite.Engine, id ast.ExprID, t ast.TypeID, inferred oracle.TypeRef) (ast.TypeID, bool) {
	if ty := e.B.Type(t); ty == nil || ty.Kind != ast.TypeVar {
		return t, true
	}
	if inferred == oracle.NoType {
		if ref, _, ok := e.TypeOf(id); ok {
			inferred = ref
		} else if sym, ok := e.SymbolOf(id); ok {
			inferred = sym.Type
		}
	}
	if inferred == oracle.NoType {
		return ast.NoTypeID, false
	}
	return typeSyntax(e, inferred, id)
}

// inlined replaces a declaration expression by a reference to the variable,
// keeping the comments of a `var` that was respelled.
func inlined(b *ast.Builder, id ast.ExprID, name string, t ast.TypeID, respelled bool) ast.ExprID {
	ref := b.Ident(name)
	if ty := b.Type(t); respelled && ty != nil {
		ref = appendTrail(b, ref, detached(ty.Lead, ty.Trail))
	}
	return b.CarryExpr(id, ref)
}

func (preInitRules) Expr(e *rewrite.Engine, id ast.ExprID) (ast.ExprID, bool) {
	b := e.B
	k := b.ExprKindOf(id)
	if k != ast.ExprCall && k != ast.ExprNew {
		return ast.NoExprID, false
	}
	out := e.DefaultExpr(id)
	var args []ast.Arg
	switch d := b.Expr(out).Data.(type) {
	case ast.CallExpr:
		args = d.Args
	case ast.NewExpr:
		args = d.Args
	}
	var repl []ast.Arg
	for i, a := range args {
		de, ok := ast.ExprAs[ast.DeclExpr](b, a.Value)
		if a.Ref != ast.RefOut || !ok || de.Parens || len(de.Names) != 1 || de.Names[0] == "_" {
			continue
		}
		if !e.CanHoist() {
			e.SkipExpr(diag.DsgSkippedContext, a.Value, "out variable where no declaration can be hoisted")
			continue
		}
		typ, ok := declType(e, a.Value, de.Type, oracle.NoType)
		if !ok {
			e.SkipExpr(diag.DsgSkippedNoFacts, a.Value, "out variable without a resolved type")
			continue
		}
		e.Hoist(b.Local(typ, de.Names[0], b.Default(ast.NoTypeID)))
		if repl == nil {
			repl = slices.Clone(args)
		}
		repl[i].Value = inlined(b, a.Value, de.Names[0], de.Type, typ != de.Type)
	}
	if repl == nil {
		return out, true
	}
	switch d := b.Expr(out).Data.(type) {
	case ast.CallExpr:
		d.Args = repl
		return b.RebuildExpr(out, d), true
	case ast.NewExpr:
		d.Args = repl
		return b.RebuildExpr(out, d), true
	}
	return out, true
}

func (r preInitRules) Stmt(e *rewrite.Engine, id ast.StmtID) ([]ast.StmtID, bool) {
	b := e.B
	switch d := b.Stmt(id).Data.(type) {
	case ast.ExprStmt:
		as, ok := ast.ExprAs[ast.AssignExpr](b, d.Expr)
		if !ok || !deconstructs(b, as.Target) {
			return nil, false
		}
		return r.deconstruction(e, id, d, as)
	case ast.BlockStmt:
		return r.block(e, id, d)
	}
	return nil, false
}

func deconstructs(b *ast.Builder, target ast.ExprID) bool {
	switch d := b.Expr(target).Data.(type) {
	case ast.DeclExpr:
		return d.Parens
	case ast.TupleExpr:
		for _, el := range d.Elems {
			if b.ExprKindOf(el.Value) == ast.ExprDecl {
				return true
			}
		}
	}
	return false
}

// deconstruction turns `var (a, b) = e;` into declarations of a and b and
// the assignment `(a, b) = e;`.
func (preInitRules) deconstruction(e *rewrite.Engine, id ast.StmtID, st ast.ExprStmt, as ast.AssignExpr) ([]ast.StmtID, bool) {
	b := e.B
	span := b.Stmt(id).Span
	var fields []oracle.Field
	if _, t, ok := e.TypeOf(as.Value); ok && t.Kind == oracle.KindTuple {
		fields = t.Fields
	}
	inferred := func(i int) oracle.TypeRef {
		if i < len(fields) {
			return fields[i].Type
		}
		return oracle.NoType
	}

	var decls []ast.StmtID
	var target ast.ExprID
	switch d := b.Expr(as.Target).Data.(type) {
	case ast.DeclExpr:
		elems := make([]ast.TupleElem, 0, len(d.Names))
		for i, name := range d.Names {
			elems = append(elems, ast.TupleElem{Value: b.Ident(name)})
			if name == "_" {
				continue
			}
			typ, ok := declType(e, ast.NoExprID, plainType(b, d.Type), inferred(i))
			if !ok {
				e.Skip(diag.DsgSkippedNoFacts, span, "deconstruction target without a resolved type")
				return nil, false
			}
			decls = append(decls, b.Local(typ, name, b.Default(ast.NoTypeID)))
		}
		tup := b.NewExpr(b.Expr(as.Target).Span, ast.TupleExpr{Elems: elems})
		if ty := b.Type(d.Type); ty != nil {
			tup = appendTrail(b, tup, detached(ty.Lead, ty.Trail))
		}
		target = b.CarryExpr(as.Target, tup)
	case ast.TupleExpr:
		elems := slices.Clone(d.Elems)
		for i, el := range elems {
			de, ok := ast.ExprAs[ast.DeclExpr](b, el.Value)
			if !ok {
				continue
			}
			if de.Parens || len(de.Names) != 1 {
				e.Skip(diag.DsgSkippedUnsupported, span, "nested deconstruction declaration")
				return nil, false
			}
			name, respelled := de.Names[0], true
			if name != "_" {
				typ, ok := declType(e, el.Value, de.Type, inferred(i))
				if !ok {
					e.Skip(diag.DsgSkippedNoFacts, span, "deconstruction target without a resolved type")
					return nil, false
				}
				decls = append(decls, b.Local(typ, name, b.Default(ast.NoTypeID)))
				respelled = typ != de.Type
			}
			elems[i].Value = inlined(b, el.Value, name, de.Type, respelled)
		}
		d.Elems = elems
		target = b.RebuildExpr(as.Target, d)
	}
	if !e.CanHoist() {
		e.Skip(diag.DsgSkippedContext, span, "deconstruction where no declaration can be hoisted")
		return nil, false
	}
	e.Hoist(decls...)
	as.Target, as.Value = target, e.Expr(as.Value)
	st.Expr = b.RebuildExpr(st.Expr, as)
	return []ast.StmtID{b.RebuildStmt(id, st)}, true
}

// block gives `= default` to locals of the block declared without an
// initializer and passed as `out` somewhere inside it.
func (preInitRules) block(e *rewrite.Engine, id ast.StmtID, blk ast.BlockStmt) ([]ast.StmtID, bool) {
	b := e.B
	outs := make(map[string]bool)
	ast.WalkStmt(b, id, ast.Visitor{Expr: func(_ ast.ExprID, x *ast.Expr) bool {
		var args []ast.Arg
		switch d := x.Data.(type) {
		case ast.CallExpr:
			args = d.Args
		case ast.NewExpr:
			args = d.Args
		}
		for _, a := range args {
			if v, ok := ast.ExprAs[ast.IdentExpr](b, a.Value); ok && a.Ref == ast.RefOut {
				outs[v.Name] = true
			}
		}
		return true
	}})
	if len(outs) == 0 {
		return nil, false
	}
	var stmts []ast.StmtID
	for i, s := range blk.Stmts {
		ls, ok := ast.StmtAs[ast.LocalStmt](b, s)
		if !ok || ls.Const {
			continue
		}
		var vars []ast.VarDecl
		for j, v := range ls.Vars {
			if v.Init.IsValid() || !outs[v.Name] {
				continue
			}
			if vars == nil {
				vars = slices.Clone(ls.Vars)
			}
			vars[j].Init = b.Default(ast.NoTypeID)
		}
		if vars == nil {
			continue
		}
		if stmts == nil {
			stmts = slices.Clone(blk.Stmts)
		}
		ls.Vars = vars
		stmts[i] = b.RebuildStmt(s, ls)
	}
	if stmts == nil {
		return nil, false
	}
	blk.Stmts = stmts
	return []ast.StmtID{e.DefaultStmt(b.RebuildStmt(id, blk))}, true
}
