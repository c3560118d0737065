package ast

import (
	"slices"

	"desugar/internal/source"
	"desugar/internal/token"
)

type Hints struct{ Exprs, Stmts, Decls, Types, Patterns uint }

// Builder owns the node arenas of one or more trees. Nodes are never mutated
// after allocation: rewrites allocate new nodes that point at unchanged children.
type Builder struct {
	Exprs    *Arena[Expr]
	Stmts    *Arena[Stmt]
	Decls    *Arena[Decl]
	Types    *Arena[Type]
	Patterns *Arena[Pattern]
}

func NewBuilder(hints Hints) *Builder {
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 8
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 7
	}
	if hints.Decls == 0 {
		hints.Decls = 1 << 5
	}
	if hints.Types == 0 {
		hints.Types = 1 << 6
	}
	if hints.Patterns == 0 {
		hints.Patterns = 1 << 4
	}
	return &Builder{
		Exprs:    NewArena[Expr](hints.Exprs),
		Stmts:    NewArena[Stmt](hints.Stmts),
		Decls:    NewArena[Decl](hints.Decls),
		Types:    NewArena[Type](hints.Types),
		Patterns: NewArena[Pattern](hints.Patterns),
	}
}

func (b *Builder) Expr(id ExprID) *Expr          { return b.Exprs.Get(uint32(id)) }
func (b *Builder) Stmt(id StmtID) *Stmt          { return b.Stmts.Get(uint32(id)) }
func (b *Builder) Decl(id DeclID) *Decl          { return b.Decls.Get(uint32(id)) }
func (b *Builder) Type(id TypeID) *Type          { return b.Types.Get(uint32(id)) }
func (b *Builder) Pattern(id PatternID) *Pattern { return b.Patterns.Get(uint32(id)) }

// NewExpr allocates a synthesized expression.
func (b *Builder) NewExpr(sp source.Span, data ExprData) ExprID {
	return b.AddExpr(Expr{Span: sp, Data: data})
}

// AddExpr allocates a fully specified header; Kind is derived from Data.
func (b *Builder) AddExpr(e Expr) ExprID {
	if e.Data != nil {
		e.Kind = e.Data.ExprKind()
	}
	return ExprID(b.Exprs.Allocate(e))
}

func (b *Builder) NewStmt(sp source.Span, data StmtData) StmtID {
	return b.AddStmt(Stmt{Span: sp, Data: data})
}

func (b *Builder) AddStmt(s Stmt) StmtID {
	if s.Data != nil {
		s.Kind = s.Data.StmtKind()
	}
	return StmtID(b.Stmts.Allocate(s))
}

func (b *Builder) NewDecl(sp source.Span, data DeclData) DeclID {
	return b.AddDecl(Decl{Span: sp, Data: data})
}

func (b *Builder) AddDecl(d Decl) DeclID {
	if d.Data != nil {
		d.Kind = d.Data.DeclKind()
	}
	return DeclID(b.Decls.Allocate(d))
}

func (b *Builder) NewPattern(sp source.Span, data PatternData) PatternID {
	return b.AddPattern(Pattern{Span: sp, Data: data})
}

func (b *Builder) AddPattern(p Pattern) PatternID {
	if p.Data != nil {
		p.Kind = p.Data.PatternKind()
	}
	return PatternID(b.Patterns.Allocate(p))
}

func (b *Builder) AddType(t Type) TypeID {
	return TypeID(b.Types.Allocate(t))
}

// RebuildExpr allocates a copy of from's header carrying new data.
// The copy records from as its Origin.
func (b *Builder) RebuildExpr(from ExprID, data ExprData) ExprID {
	old := b.Expr(from)
	if old == nil {
		return b.NewExpr(source.Span{}, data)
	}
	return b.AddExpr(Expr{Span: old.Span, Lead: old.Lead, Trail: old.Trail, Origin: from, Data: data})
}

func (b *Builder) RebuildStmt(from StmtID, data StmtData) StmtID {
	old := b.Stmt(from)
	if old == nil {
		return b.NewStmt(source.Span{}, data)
	}
	return b.AddStmt(Stmt{Span: old.Span, Lead: old.Lead, Trail: old.Trail, Origin: from, Data: data})
}

func (b *Builder) RebuildDecl(from DeclID, data DeclData) DeclID {
	old := b.Decl(from)
	if old == nil {
		return b.NewDecl(source.Span{}, data)
	}
	return b.AddDecl(Decl{Span: old.Span, Lead: old.Lead, Trail: old.Trail, Origin: from, Data: data})
}

func (b *Builder) RebuildPattern(from PatternID, data PatternData) PatternID {
	old := b.Pattern(from)
	if old == nil {
		return b.NewPattern(source.Span{}, data)
	}
	return b.AddPattern(Pattern{Span: old.Span, Lead: old.Lead, Trail: old.Trail, Origin: from, Data: data})
}

// RebuildType copies t's header onto a new type node with the given shape.
func (b *Builder) RebuildType(from TypeID, shape Type) TypeID {
	if old := b.Type(from); old != nil {
		shape.Span, shape.Lead, shape.Trail, shape.Origin = old.Span, old.Lead, old.Trail, from
	}
	return b.AddType(shape)
}

// ExprWithTrivia returns a copy of id with replaced trivia. Nil slices clear.
func (b *Builder) ExprWithTrivia(id ExprID, lead, trail []token.Trivia) ExprID {
	old := b.Expr(id)
	if old == nil {
		return id
	}
	cp := *old
	cp.Lead, cp.Trail, cp.Origin = lead, trail, id
	return b.AddExpr(cp)
}

func (b *Builder) StmtWithTrivia(id StmtID, lead, trail []token.Trivia) StmtID {
	old := b.Stmt(id)
	if old == nil {
		return id
	}
	cp := *old
	cp.Lead, cp.Trail, cp.Origin = lead, trail, id
	return b.AddStmt(cp)
}

func (b *Builder) DeclWithTrivia(id DeclID, lead, trail []token.Trivia) DeclID {
	old := b.Decl(id)
	if old == nil {
		return id
	}
	cp := *old
	cp.Lead, cp.Trail, cp.Origin = lead, trail, id
	return b.AddDecl(cp)
}

// CarryExpr moves the trivia of from around to, so that replacing from by to
// keeps every comment: from's lead goes before to's lead, from's trail after to's trail.
func (b *Builder) CarryExpr(from, to ExprID) ExprID {
	src, dst := b.Expr(from), b.Expr(to)
	if src == nil || dst == nil || (len(src.Lead) == 0 && len(src.Trail) == 0) {
		return to
	}
	return b.ExprWithTrivia(to, Concat(src.Lead, dst.Lead), Concat(dst.Trail, src.Trail))
}

// CarryStmt is CarryExpr for statements.
func (b *Builder) CarryStmt(from, to StmtID) StmtID {
	src, dst := b.Stmt(from), b.Stmt(to)
	if src == nil || dst == nil || (len(src.Lead) == 0 && len(src.Trail) == 0) {
		return to
	}
	return b.StmtWithTrivia(to, Concat(src.Lead, dst.Lead), Concat(dst.Trail, src.Trail))
}

// StripExpr returns id without trivia, together with the removed lead and trail.
func (b *Builder) StripExpr(id ExprID) (ExprID, []token.Trivia, []token.Trivia) {
	e := b.Expr(id)
	if e == nil || (len(e.Lead) == 0 && len(e.Trail) == 0) {
		return id, nil, nil
	}
	return b.ExprWithTrivia(id, nil, nil), e.Lead, e.Trail
}

// Concat joins trivia runs into a fresh slice.
func Concat(runs ...[]token.Trivia) []token.Trivia {
	n := 0
	for _, r := range runs {
		n += len(r)
	}
	if n == 0 {
		return nil
	}
	out := make([]token.Trivia, 0, n)
	for _, r := range runs {
		out = append(out, r...)
	}
	return out
}

// ExprAs returns the payload of id when it has type D.
func ExprAs[D ExprData](b *Builder, id ExprID) (D, bool) {
	var zero D
	e := b.Expr(id)
	if e == nil {
		return zero, false
	}
	d, ok := e.Data.(D)
	return d, ok
}

func StmtAs[D StmtData](b *Builder, id StmtID) (D, bool) {
	var zero D
	s := b.Stmt(id)
	if s == nil {
		return zero, false
	}
	d, ok := s.Data.(D)
	return d, ok
}

func DeclAs[D DeclData](b *Builder, id DeclID) (D, bool) {
	var zero D
	d := b.Decl(id)
	if d == nil {
		return zero, false
	}
	v, ok := d.Data.(D)
	return v, ok
}

func PatternAs[D PatternData](b *Builder, id PatternID) (D, bool) {
	var zero D
	p := b.Pattern(id)
	if p == nil {
		return zero, false
	}
	v, ok := p.Data.(D)
	return v, ok
}

// Unparen strips grouping parentheses.
func (b *Builder) Unparen(id ExprID) ExprID {
	for {
		g, ok := ExprAs[GroupExpr](b, id)
		if !ok {
			return id
		}
		id = g.Inner
	}
}

// ExprKindOf reports the kind of id, ExprInvalid when absent.
func (b *Builder) ExprKindOf(id ExprID) ExprKind {
	if e := b.Expr(id); e != nil {
		return e.Kind
	}
	return ExprInvalid
}

// Root follows the Origin chain of id back to the node it was first derived from.
func (b *Builder) Root(id ExprID) ExprID {
	for {
		e := b.Expr(id)
		if e == nil || !e.Origin.IsValid() {
			return id
		}
		id = e.Origin
	}
}

// SameExprs reports whether two ID lists are element-wise identical.
func SameExprs(a, c []ExprID) bool {
	return slices.Equal(a, c)
}
