package desugar

import (
	"desugar/internal/ast"
	"desugar/internal/diag"
	"desugar/internal/oracle"
	"desugar/internal/rewrite"
)

// PatternBinding splits declaration patterns (`s is T x`, `case T x:`) into
// a hoisted declaration of x and a pattern that only tests the type.
type PatternBinding struct {
	rewrite.Base
}

func NewPatternBinding() *PatternBinding { return &PatternBinding{} }

func (*PatternBinding) Name() string            { return "pattern-binding" }
func (*PatternBinding) IsPurelySyntactic() bool { return false }

func (p *PatternBinding) Apply(tree *ast.Tree, orc oracle.Oracle) (*ast.Tree, error) {
	return rewrite.Apply(tree, bindRules{}, p.Options(p.Name(), orc))
}

type bindRules struct{ rewrite.BaseRules }

// patternType resolves the type a declaration pattern binds.
func patternType(e *rewrite.Engine, pid ast.PatternID) (oracle.TypeRef, *oracle.Type, bool) {
	if e.Oracle == nil {
		return oracle.NoType, nil, false
	}
	sref, ok := e.Oracle.PatternSymbol(pid)
	if !ok {
		return oracle.NoType, nil, false
	}
	sym := e.Oracle.Symbol(sref)
	if sym == nil {
		return oracle.NoType, nil, false
	}
	t := e.Oracle.Lookup(sym.Type)
	return sym.Type, t, t != nil
}

// narrowed is the initializer of a binding of subject narrowed to typ:
// `s as T` when null can stand for a failed test, a conditional otherwise.
func narrowed(e *rewrite.Engine, subject ast.ExprID, typ ast.TypeID, t *oracle.Type) ast.ExprID {
	b := e.B
	if t.IsReference() || t.IsNullable() {
		return b.As(rewrite.StripTrivia(e, subject), typ)
	}
	test := b.Is(rewrite.StripTrivia(e, subject), b.TypePat(typ))
	return b.Ternary(test, b.Cast(typ, rewrite.StripTrivia(e, subject)), b.Default(typ))
}

func (bindRules) Expr(e *rewrite.Engine, id ast.ExprID) (ast.ExprID, bool) {
	b := e.B
	is, ok := ast.ExprAs[ast.IsExpr](b, id)
	if !ok {
		return ast.NoExprID, false
	}
	p := b.Pattern(is.Pattern)
	if p == nil {
		return ast.NoExprID, false
	}
	dp, ok := p.Data.(ast.DeclPattern)
	if !ok {
		return ast.NoExprID, false
	}
	if !e.CanHoist() {
		e.SkipExpr(diag.DsgSkippedContext, id, "pattern binding where no declaration can be hoisted")
		return e.DefaultExpr(id), true
	}
	if !isPure(e, is.Value) {
		e.SkipExpr(diag.DsgSkippedImpure, id, "pattern binding over an impure subject")
		return e.DefaultExpr(id), true
	}
	// на условном пути можно поднять только то, что не бросает
	if e.InConditional() {
		if k := b.ExprKindOf(b.Unparen(is.Value)); k != ast.ExprIdent && k != ast.ExprThis {
			e.SkipExpr(diag.DsgSkippedContext, id, "pattern binding on a conditional path")
			return e.DefaultExpr(id), true
		}
	}

	if ty := b.Type(dp.Type); ty != nil && ty.Kind == ast.TypeVar {
		e.Hoist(b.Local(dp.Type, dp.Name, is.Value))
		out := appendTrail(b, b.True(), detached(p.Lead, p.Trail))
		return b.CarryExpr(id, out), true
	}

	_, t, ok := patternType(e, is.Pattern)
	if !ok {
		e.SkipExpr(diag.DsgSkippedNoFacts, id, "pattern binding without a resolved type")
		return e.DefaultExpr(id), true
	}
	typ := plainType(b, dp.Type)
	e.Hoist(b.Local(typ, dp.Name, narrowed(e, is.Value, typ, t)))
	is.Pattern = b.RebuildPattern(is.Pattern, ast.TypePattern{Type: dp.Type})
	return b.RebuildExpr(id, is), true
}

// labelBinding is one `case T x:` label of a switch.
type labelBinding struct {
	sec, lab int
	name     string
	typ      ast.TypeID
	ref      oracle.TypeRef
	t        *oracle.Type
}

// Stmt hoists the bindings of switch case labels. Sections binding the same
// name share one variable; when their types differ it is typed as the
// switch value and each section reads it through a cast.
func (bindRules) Stmt(e *rewrite.Engine, id ast.StmtID) ([]ast.StmtID, bool) {
	b := e.B
	sw, ok := ast.StmtAs[ast.SwitchStmt](b, id)
	if !ok {
		return nil, false
	}
	var binds []labelBinding
	vars := make(map[string]bool)
	for i, sec := range sw.Sections {
		for j, l := range sec.Labels {
			dp, ok := ast.PatternAs[ast.DeclPattern](b, l.Pattern)
			if !ok {
				continue
			}
			if ty := b.Type(dp.Type); ty != nil && ty.Kind == ast.TypeVar {
				vars[dp.Name] = true
				continue
			}
			binds = append(binds, labelBinding{sec: i, lab: j, name: dp.Name, typ: dp.Type})
		}
	}
	if len(binds) == 0 {
		return nil, false
	}
	span := b.Stmt(id).Span
	if !isPure(e, sw.Value) {
		e.Skip(diag.DsgSkippedImpure, span, "switch bindings over an impure value")
		return nil, false
	}
	for i := range binds {
		bd := &binds[i]
		bd.ref, bd.t, ok = patternType(e, sw.Sections[bd.sec].Labels[bd.lab].Pattern)
		if !ok {
			e.Skip(diag.DsgSkippedNoFacts, span, "switch binding without a resolved type")
			return nil, false
		}
	}

	// имена по порядку первого появления
	var order []string
	groups := make(map[string][]labelBinding)
	for _, bd := range binds {
		if vars[bd.name] {
			continue
		}
		if _, seen := groups[bd.name]; !seen {
			order = append(order, bd.name)
		}
		groups[bd.name] = append(groups[bd.name], bd)
	}
	if len(order) == 0 {
		return nil, false
	}
	shared := make(map[string]bool)
	var gref oracle.TypeRef
	for _, name := range order {
		g := groups[name]
		for _, bd := range g[1:] {
			if bd.ref != g[0].ref {
				shared[name] = true
			}
		}
		seen := make(map[int]oracle.TypeRef)
		for _, bd := range g {
			if r, ok := seen[bd.sec]; ok && r != bd.ref {
				e.Skip(diag.DsgSkippedUnsupported, span, "one switch section binds "+name+" with two types")
				return nil, false
			}
			seen[bd.sec] = bd.ref
		}
	}
	if len(shared) > 0 {
		var ok bool
		gref, _, ok = e.TypeOf(sw.Value)
		if !ok || e.Display(gref, sw.Value) == "" {
			e.Skip(diag.DsgSkippedNoFacts, span, "switch value without a resolved type")
			return nil, false
		}
	}

	for _, name := range order {
		g := groups[name]
		if shared[name] {
			gt, _ := typeSyntax(e, gref, sw.Value)
			e.Hoist(b.Local(gt, name, rewrite.StripTrivia(e, sw.Value)))
			continue
		}
		typ := plainType(b, g[0].typ)
		e.Hoist(b.Local(typ, name, narrowed(e, sw.Value, typ, g[0].t)))
	}

	sections := make([]ast.SwitchSection, len(sw.Sections))
	copy(sections, sw.Sections)
	casts := make([]map[string]ast.TypeID, len(sections))
	for _, bd := range binds {
		if vars[bd.name] {
			continue
		}
		sec := &sections[bd.sec]
		if casts[bd.sec] == nil {
			sec.Labels = append([]ast.SwitchLabel(nil), sec.Labels...)
			casts[bd.sec] = make(map[string]ast.TypeID)
		}
		l := &sec.Labels[bd.lab]
		l.Pattern = b.RebuildPattern(l.Pattern, ast.TypePattern{Type: bd.typ})
		if shared[bd.name] {
			casts[bd.sec][bd.name] = plainType(b, bd.typ)
		}
	}

	sw.Value = e.Expr(sw.Value)
	sections, _ = e.Sections(sections)
	for i := range sections {
		if len(casts[i]) == 0 {
			continue
		}
		sections[i] = castSection(e, sections[i], casts[i])
	}
	sw.Sections = sections
	return []ast.StmtID{b.RebuildStmt(id, sw)}, true
}

// castSection reads every shared binding of one section through `((T)x)`.
func castSection(e *rewrite.Engine, sec ast.SwitchSection, casts map[string]ast.TypeID) ast.SwitchSection {
	b := e.B
	lookup := func(name string) (ast.ExprID, bool) {
		t, ok := casts[name]
		if !ok {
			return ast.NoExprID, false
		}
		return b.Group(b.Cast(t, b.Ident(name))), true
	}
	labels := append([]ast.SwitchLabel(nil), sec.Labels...)
	for i := range labels {
		labels[i].When = rewrite.Substitute(e, labels[i].When, lookup)
	}
	stmts := make([]ast.StmtID, len(sec.Stmts))
	for i, s := range sec.Stmts {
		stmts[i] = rewrite.SubstituteStmt(e, s, lookup)
	}
	sec.Labels, sec.Stmts = labels, stmts
	return sec
}
