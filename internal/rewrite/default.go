package rewrite

import (
	"slices"

	"desugar/internal/ast"
	"desugar/internal/token"
)

// CondExpr rewrites id as a conditionally evaluated operand.
func (e *Engine) CondExpr(id ast.ExprID) ast.ExprID {
	if !id.IsValid() {
		return id
	}
	release := e.Conditional()
	defer release()
	return e.Expr(id)
}

// BarrierExpr rewrites id in a position that can not receive hoisted statements.
func (e *Engine) BarrierExpr(id ast.ExprID) ast.ExprID {
	if !id.IsValid() {
		return id
	}
	release := e.Barrier()
	defer release()
	return e.Expr(id)
}

// Exprs rewrites a list; the input slice is returned when nothing changed.
func (e *Engine) Exprs(ids []ast.ExprID) ([]ast.ExprID, bool) {
	var out []ast.ExprID
	for i, id := range ids {
		n := e.Expr(id)
		if n != id && out == nil {
			out = slices.Clone(ids[:i])
		}
		if out != nil {
			out = append(out, n)
		}
	}
	if out == nil {
		return ids, false
	}
	return out, true
}

func (e *Engine) condExprs(ids []ast.ExprID) ([]ast.ExprID, bool) {
	release := e.Conditional()
	defer release()
	return e.Exprs(ids)
}

// Args rewrites call arguments left to right.
func (e *Engine) Args(args []ast.Arg) ([]ast.Arg, bool) {
	var out []ast.Arg
	for i, a := range args {
		v := e.Expr(a.Value)
		if v != a.Value && out == nil {
			out = slices.Clone(args[:i])
		}
		if out != nil {
			a.Value = v
			out = append(out, a)
		}
	}
	if out == nil {
		return args, false
	}
	return out, true
}

func (e *Engine) condArgs(args []ast.Arg) ([]ast.Arg, bool) {
	release := e.Conditional()
	defer release()
	return e.Args(args)
}

// HasOptionalLink reports whether the member/element/invocation spine of id,
// not crossing parentheses, contains a `?.` or `?[` link.
func HasOptionalLink(b *ast.Builder, id ast.ExprID) bool {
	for {
		x := b.Expr(id)
		if x == nil {
			return false
		}
		switch d := x.Data.(type) {
		case ast.MemberExpr:
			if d.Optional {
				return true
			}
			id = d.Target
		case ast.IndexExpr:
			if d.Optional {
				return true
			}
			id = d.Target
		case ast.CallExpr:
			id = d.Target
		default:
			return false
		}
	}
}

// DefaultExpr rebuilds id from rewritten children, returning id itself when no
// child changed.
//
//nolint:gocyclo // one arm per expression kind
func (e *Engine) DefaultExpr(id ast.ExprID) ast.ExprID {
	x := e.B.Expr(id)
	if x == nil {
		return id
	}
	switch d := x.Data.(type) {
	case ast.IdentExpr, ast.LitExpr, ast.ThisExpr, ast.DefaultExpr, ast.DeclExpr:
		return id

	case ast.MemberExpr:
		t := e.Expr(d.Target)
		if t == d.Target {
			return id
		}
		d.Target = t
		return e.B.RebuildExpr(id, d)

	case ast.IndexExpr:
		t := e.Expr(d.Target)
		var args []ast.ExprID
		var changed bool
		if d.Optional || HasOptionalLink(e.B, d.Target) {
			args, changed = e.condExprs(d.Args)
		} else {
			args, changed = e.Exprs(d.Args)
		}
		if t == d.Target && !changed {
			return id
		}
		d.Target, d.Args = t, args
		return e.B.RebuildExpr(id, d)

	case ast.CallExpr:
		t := e.Expr(d.Target)
		var args []ast.Arg
		var changed bool
		if HasOptionalLink(e.B, d.Target) {
			args, changed = e.condArgs(d.Args)
		} else {
			args, changed = e.Args(d.Args)
		}
		if t == d.Target && !changed {
			return id
		}
		d.Target, d.Args = t, args
		return e.B.RebuildExpr(id, d)

	case ast.UnaryExpr:
		o := e.Expr(d.Operand)
		if o == d.Operand {
			return id
		}
		d.Operand = o
		return e.B.RebuildExpr(id, d)

	case ast.BinaryExpr:
		l := e.Expr(d.Left)
		var r ast.ExprID
		if d.Op.IsShortCircuit() {
			r = e.CondExpr(d.Right)
		} else {
			r = e.Expr(d.Right)
		}
		if l == d.Left && r == d.Right {
			return id
		}
		d.Left, d.Right = l, r
		return e.B.RebuildExpr(id, d)

	case ast.AssignExpr:
		t := e.Expr(d.Target)
		var v ast.ExprID
		if d.Op == token.QuestionQuestionAssign {
			v = e.CondExpr(d.Value)
		} else {
			v = e.Expr(d.Value)
		}
		if t == d.Target && v == d.Value {
			return id
		}
		d.Target, d.Value = t, v
		return e.B.RebuildExpr(id, d)

	case ast.TernaryExpr:
		c := e.Expr(d.Cond)
		th := e.CondExpr(d.Then)
		el := e.CondExpr(d.Else)
		if c == d.Cond && th == d.Then && el == d.Else {
			return id
		}
		d.Cond, d.Then, d.Else = c, th, el
		return e.B.RebuildExpr(id, d)

	case ast.CastExpr:
		v := e.Expr(d.Value)
		if v == d.Value {
			return id
		}
		d.Value = v
		return e.B.RebuildExpr(id, d)

	case ast.AsExpr:
		v := e.Expr(d.Value)
		if v == d.Value {
			return id
		}
		d.Value = v
		return e.B.RebuildExpr(id, d)

	case ast.GroupExpr:
		in := e.Expr(d.Inner)
		if in == d.Inner {
			return id
		}
		d.Inner = in
		return e.B.RebuildExpr(id, d)

	case ast.LambdaExpr:
		if d.Block.IsValid() {
			blk := e.EmbeddedStmt(d.Block)
			if blk == d.Block {
				return id
			}
			d.Block = blk
			return e.B.RebuildExpr(id, d)
		}
		body := e.BarrierExpr(d.Body)
		if body == d.Body {
			return id
		}
		d.Body = body
		return e.B.RebuildExpr(id, d)

	case ast.NewExpr:
		args, changed := e.Args(d.Args)
		init := e.Expr(d.Init)
		if !changed && init == d.Init {
			return id
		}
		d.Args, d.Init = args, init
		return e.B.RebuildExpr(id, d)

	case ast.AnonObjectExpr:
		var members []ast.AnonMember
		for i, m := range d.Members {
			v := e.Expr(m.Value)
			if v != m.Value && members == nil {
				members = slices.Clone(d.Members[:i])
			}
			if members != nil {
				m.Value = v
				members = append(members, m)
			}
		}
		if members == nil {
			return id
		}
		d.Members = members
		return e.B.RebuildExpr(id, d)

	case ast.TupleExpr:
		var elems []ast.TupleElem
		for i, el := range d.Elems {
			v := e.Expr(el.Value)
			if v != el.Value && elems == nil {
				elems = slices.Clone(d.Elems[:i])
			}
			if elems != nil {
				el.Value = v
				elems = append(elems, el)
			}
		}
		if elems == nil {
			return id
		}
		d.Elems = elems
		return e.B.RebuildExpr(id, d)

	case ast.ArrayNewExpr:
		sizes, changed := e.Exprs(d.Sizes)
		init := e.Expr(d.Init)
		if !changed && init == d.Init {
			return id
		}
		d.Sizes, d.Init = sizes, init
		return e.B.RebuildExpr(id, d)

	case ast.InitExpr:
		elems, changed := e.Exprs(d.Elems)
		if !changed {
			return id
		}
		d.Elems = elems
		return e.B.RebuildExpr(id, d)

	case ast.ImplicitIndexExpr:
		args, changed := e.Exprs(d.Args)
		if !changed {
			return id
		}
		d.Args = args
		return e.B.RebuildExpr(id, d)

	case ast.IsExpr:
		v := e.Expr(d.Value)
		p := e.Pattern(d.Pattern)
		if v == d.Value && p == d.Pattern {
			return id
		}
		d.Value, d.Pattern = v, p
		return e.B.RebuildExpr(id, d)

	case ast.QueryExpr:
		src := e.Expr(d.From.Source)
		release := e.Barrier()
		body, changed := e.queryBody(d.Body)
		release()
		if src == d.From.Source && !changed {
			return id
		}
		d.From.Source, d.Body = src, body
		return e.B.RebuildExpr(id, d)

	case ast.ThrowExpr:
		v := e.Expr(d.Value)
		if v == d.Value {
			return id
		}
		d.Value = v
		return e.B.RebuildExpr(id, d)

	case ast.RangeExpr:
		s := e.Expr(d.Start)
		en := e.Expr(d.End)
		if s == d.Start && en == d.End {
			return id
		}
		d.Start, d.End = s, en
		return e.B.RebuildExpr(id, d)
	}
	Violationf("expression kind %s has no default rebuild", x.Kind)
	return id
}

func (e *Engine) queryBody(q ast.QueryBody) (ast.QueryBody, bool) {
	changed := false
	set := func(dst *ast.ExprID) {
		if n := e.Expr(*dst); n != *dst {
			*dst, changed = n, true
		}
	}
	clauses := slices.Clone(q.Clauses)
	for i := range clauses {
		c := &clauses[i]
		set(&c.Expr)
		set(&c.OuterKey)
		set(&c.InnerKey)
		if len(c.Orderings) > 0 {
			ords := slices.Clone(c.Orderings)
			for j := range ords {
				set(&ords[j].Key)
			}
			c.Orderings = ords
		}
	}
	q.Clauses = clauses
	set(&q.Select)
	set(&q.GroupElem)
	set(&q.GroupBy)
	if q.Cont != nil {
		body, ch := e.queryBody(q.Cont.Body)
		if ch {
			cont := *q.Cont
			cont.Body = body
			q.Cont, changed = &cont, true
		}
	}
	return q, changed
}

// Pattern rebuilds a pattern whose embedded expressions changed.
func (e *Engine) Pattern(id ast.PatternID) ast.PatternID {
	p := e.B.Pattern(id)
	if p == nil {
		return id
	}
	switch d := p.Data.(type) {
	case ast.DiscardPattern, ast.TypePattern, ast.DeclPattern:
		return id
	case ast.ConstPattern:
		v := e.Expr(d.Value)
		if v == d.Value {
			return id
		}
		d.Value = v
		return e.B.RebuildPattern(id, d)
	case ast.RelationalPattern:
		v := e.Expr(d.Value)
		if v == d.Value {
			return id
		}
		d.Value = v
		return e.B.RebuildPattern(id, d)
	case ast.NotPattern:
		in := e.Pattern(d.Inner)
		if in == d.Inner {
			return id
		}
		d.Inner = in
		return e.B.RebuildPattern(id, d)
	case ast.BinaryPattern:
		l := e.Pattern(d.Left)
		r := e.Pattern(d.Right)
		if l == d.Left && r == d.Right {
			return id
		}
		d.Left, d.Right = l, r
		return e.B.RebuildPattern(id, d)
	case ast.ListPattern:
		var elems []ast.PatternID
		for i, el := range d.Elems {
			n := e.Pattern(el)
			if n != el && elems == nil {
				elems = slices.Clone(d.Elems[:i])
			}
			if elems != nil {
				elems = append(elems, n)
			}
		}
		if elems == nil {
			return id
		}
		d.Elems = elems
		return e.B.RebuildPattern(id, d)
	case ast.SlicePattern:
		in := e.Pattern(d.Inner)
		if in == d.Inner {
			return id
		}
		d.Inner = in
		return e.B.RebuildPattern(id, d)
	case ast.GroupPattern:
		in := e.Pattern(d.Inner)
		if in == d.Inner {
			return id
		}
		d.Inner = in
		return e.B.RebuildPattern(id, d)
	}
	Violationf("pattern kind %d has no default rebuild", p.Kind)
	return id
}

// DefaultStmt rebuilds a statement from rewritten children. Nested statements
// get their own hoisting frames.
//
//nolint:gocyclo // one arm per statement kind
func (e *Engine) DefaultStmt(id ast.StmtID) ast.StmtID {
	s := e.B.Stmt(id)
	if s == nil {
		return id
	}
	switch d := s.Data.(type) {
	case ast.BreakStmt, ast.ContinueStmt, ast.EmptyStmt:
		return id

	case ast.BlockStmt:
		stmts, changed := e.Stmts(d.Stmts)
		if !changed {
			return id
		}
		d.Stmts = stmts
		return e.B.RebuildStmt(id, d)

	case ast.ExprStmt:
		x := e.Expr(d.Expr)
		if x == d.Expr {
			return id
		}
		d.Expr = x
		return e.B.RebuildStmt(id, d)

	case ast.LocalStmt:
		var vars []ast.VarDecl
		for i, v := range d.Vars {
			init := e.Expr(v.Init)
			if init != v.Init && vars == nil {
				vars = slices.Clone(d.Vars[:i])
			}
			if vars != nil {
				v.Init = init
				vars = append(vars, v)
			}
		}
		if vars == nil {
			return id
		}
		d.Vars = vars
		return e.B.RebuildStmt(id, d)

	case ast.IfStmt:
		c := e.Expr(d.Cond)
		th := e.EmbeddedStmt(d.Then)
		el := e.EmbeddedStmt(d.Else)
		if c == d.Cond && th == d.Then && el == d.Else {
			return id
		}
		d.Cond, d.Then, d.Else = c, th, el
		return e.B.RebuildStmt(id, d)

	case ast.WhileStmt:
		release := e.loopCondition()
		c := e.Expr(d.Cond)
		release()
		body := e.EmbeddedStmt(d.Body)
		if c == d.Cond && body == d.Body {
			return id
		}
		d.Cond, d.Body = c, body
		return e.B.RebuildStmt(id, d)

	case ast.ForeachStmt:
		src := e.Expr(d.Source)
		body := e.EmbeddedStmt(d.Body)
		if src == d.Source && body == d.Body {
			return id
		}
		d.Source, d.Body = src, body
		return e.B.RebuildStmt(id, d)

	case ast.ReturnStmt:
		v := e.Expr(d.Value)
		if v == d.Value {
			return id
		}
		d.Value = v
		return e.B.RebuildStmt(id, d)

	case ast.ThrowStmt:
		v := e.Expr(d.Value)
		if v == d.Value {
			return id
		}
		d.Value = v
		return e.B.RebuildStmt(id, d)

	case ast.SwitchStmt:
		v := e.Expr(d.Value)
		sections, changed := e.Sections(d.Sections)
		if v == d.Value && !changed {
			return id
		}
		d.Value, d.Sections = v, sections
		return e.B.RebuildStmt(id, d)

	case ast.LocalFuncStmt:
		decl := e.DeclOne(d.Decl)
		if decl == d.Decl {
			return id
		}
		d.Decl = decl
		return e.B.RebuildStmt(id, d)
	}
	Violationf("statement kind %s has no default rebuild", s.Kind)
	return id
}

// Sections rewrites switch sections. Guards are barriers: they run only when
// their pattern matched.
func (e *Engine) Sections(sections []ast.SwitchSection) ([]ast.SwitchSection, bool) {
	out := slices.Clone(sections)
	changed := false
	for i := range out {
		sec := &out[i]
		labels := slices.Clone(sec.Labels)
		for j := range labels {
			l := &labels[j]
			if p := e.Pattern(l.Pattern); p != l.Pattern {
				l.Pattern, changed = p, true
			}
			if w := e.BarrierExpr(l.When); w != l.When {
				l.When, changed = w, true
			}
		}
		sec.Labels = labels
		if stmts, ch := e.Stmts(sec.Stmts); ch {
			sec.Stmts, changed = stmts, true
		}
	}
	if !changed {
		return sections, false
	}
	return out, true
}

// DefaultDecl rebuilds a declaration from rewritten members and bodies.
//
//nolint:gocyclo // one arm per declaration kind
func (e *Engine) DefaultDecl(id ast.DeclID) ast.DeclID {
	decl := e.B.Decl(id)
	if decl == nil {
		return id
	}
	switch d := decl.Data.(type) {
	case ast.UsingDecl:
		return id

	case ast.UnitDecl:
		members, changed := e.Decls(d.Members)
		if !changed {
			return id
		}
		d.Members = members
		return e.B.RebuildDecl(id, d)

	case ast.NamespaceDecl:
		members, changed := e.Decls(d.Members)
		if !changed {
			return id
		}
		d.Members = members
		return e.B.RebuildDecl(id, d)

	case ast.TypeDecl:
		members, changed := e.Decls(d.Members)
		if !changed {
			return id
		}
		d.Members = members
		return e.B.RebuildDecl(id, d)

	case ast.FieldDecl:
		var vars []ast.VarDecl
		for i, v := range d.Vars {
			init := e.BarrierExpr(v.Init)
			if init != v.Init && vars == nil {
				vars = slices.Clone(d.Vars[:i])
			}
			if vars != nil {
				v.Init = init
				vars = append(vars, v)
			}
		}
		if vars == nil {
			return id
		}
		d.Vars = vars
		return e.B.RebuildDecl(id, d)

	case ast.PropertyDecl:
		changed := false
		accs := slices.Clone(d.Accessors)
		for i := range accs {
			a := &accs[i]
			if blk := e.EmbeddedStmt(a.Block); blk != a.Block {
				a.Block, changed = blk, true
			}
			if body := e.BarrierExpr(a.Body); body != a.Body {
				a.Body, changed = body, true
			}
		}
		init := e.BarrierExpr(d.Init)
		body := e.BarrierExpr(d.Body)
		if !changed && init == d.Init && body == d.Body {
			return id
		}
		d.Accessors, d.Init, d.Body = accs, init, body
		return e.B.RebuildDecl(id, d)

	case ast.MethodDecl:
		blk := e.EmbeddedStmt(d.Block)
		body := e.BarrierExpr(d.Body)
		if blk == d.Block && body == d.Body {
			return id
		}
		d.Block, d.Body = blk, body
		return e.B.RebuildDecl(id, d)
	}
	Violationf("declaration kind %s has no default rebuild", decl.Kind)
	return id
}
