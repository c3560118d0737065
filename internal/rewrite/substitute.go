package rewrite

import (
	"slices"

	"desugar/internal/ast"
)

// Substitute replaces free identifier references inside id. lookup is called
// once per reference and returns the replacement; names bound by an inner
// lambda or query range variable are left alone.
//
// An anonymous-object member that took its name from a replaced identifier
// gets that name written explicitly.
func Substitute(e *Engine, id ast.ExprID, lookup func(name string) (ast.ExprID, bool)) ast.ExprID {
	if !id.IsValid() || lookup == nil {
		return id
	}
	r := &substRules{lookup: lookup}
	sub := New(e.B, r, Options{Pass: e.pass, Oracle: e.Oracle, Namer: e.Namer})
	release := sub.Barrier()
	defer release()
	return sub.Expr(id)
}

// SubstituteStmt is Substitute over every expression of a statement.
func SubstituteStmt(e *Engine, id ast.StmtID, lookup func(name string) (ast.ExprID, bool)) ast.StmtID {
	if !id.IsValid() || lookup == nil {
		return id
	}
	r := &substRules{lookup: lookup}
	sub := New(e.B, r, Options{Pass: e.pass, Oracle: e.Oracle, Namer: e.Namer})
	release := sub.Barrier()
	defer release()
	return sub.EmbeddedStmt(id)
}

type substRules struct {
	BaseRules
	lookup func(string) (ast.ExprID, bool)
	shadow Stack[[]string]
}

func (r *substRules) shadowed(name string) bool {
	return r.shadow.Find(func(ns *[]string) bool { return slices.Contains(*ns, name) }) != nil
}

func (r *substRules) Expr(e *Engine, id ast.ExprID) (ast.ExprID, bool) {
	x := e.B.Expr(id)
	if x == nil {
		return id, true
	}
	switch d := x.Data.(type) {
	case ast.IdentExpr:
		if r.shadowed(d.Name) {
			return id, true
		}
		repl, ok := r.lookup(d.Name)
		if !ok {
			return id, true
		}
		return e.B.CarryExpr(id, repl), true

	case ast.LambdaExpr:
		names := make([]string, 0, len(d.Params))
		for _, p := range d.Params {
			names = append(names, p.Name)
		}
		release := r.shadow.Push(names)
		defer release()
		return e.DefaultExpr(id), true

	case ast.QueryExpr:
		src := e.Expr(d.From.Source)
		release := r.shadow.Push(RangeVariables(d))
		defer release()
		body, changed := e.queryBody(d.Body)
		if src == d.From.Source && !changed {
			return id, true
		}
		d.From.Source, d.Body = src, body
		return e.B.RebuildExpr(id, d), true

	case ast.AnonObjectExpr:
		var members []ast.AnonMember
		for i, m := range d.Members {
			v := e.Expr(m.Value)
			if v != m.Value && members == nil {
				members = slices.Clone(d.Members[:i])
			}
			if members == nil {
				continue
			}
			if m.Name == "" {
				m.Name = ImplicitMemberName(e.B, m.Value)
			}
			m.Value = v
			members = append(members, m)
		}
		if members == nil {
			return id, true
		}
		d.Members = members
		return e.B.RebuildExpr(id, d), true
	}
	return ast.NoExprID, false
}

// RangeVariables lists every name a query introduces, continuations included.
func RangeVariables(q ast.QueryExpr) []string {
	names := []string{q.From.Name}
	body := &q.Body
	for body != nil {
		for _, c := range body.Clauses {
			if c.Name != "" {
				names = append(names, c.Name)
			}
			if c.Into != "" {
				names = append(names, c.Into)
			}
		}
		if body.Cont == nil {
			break
		}
		names = append(names, body.Cont.Name)
		body = &body.Cont.Body
	}
	return names
}

// ImplicitMemberName is the name an anonymous-object member without an
// explicit name takes from its value: an identifier or the last member name.
func ImplicitMemberName(b *ast.Builder, value ast.ExprID) string {
	x := b.Expr(value)
	if x == nil {
		return ""
	}
	switch d := x.Data.(type) {
	case ast.IdentExpr:
		return d.Name
	case ast.MemberExpr:
		return d.Name
	}
	return ""
}
