package desugar

import (
	"slices"

	"desugar/internal/ast"
	"desugar/internal/oracle"
	"desugar/internal/rewrite"
	"desugar/internal/token"
)

// AutoAccessor gives every auto-implemented property an explicit backing
// field and accessors that read and write it.
type AutoAccessor struct {
	rewrite.Base
}

func NewAutoAccessor() *AutoAccessor { return &AutoAccessor{} }

func (*AutoAccessor) Name() string            { return "auto-accessor" }
func (*AutoAccessor) IsPurelySyntactic() bool { return true }

func (p *AutoAccessor) Apply(tree *ast.Tree, orc oracle.Oracle) (*ast.Tree, error) {
	return rewrite.Apply(tree, &accessorRules{}, p.Options(p.Name(), orc))
}

// BackingFieldName is the field behind auto-property name.
func BackingFieldName(name string) string {
	return "__" + name + "_BackingField"
}

type backing struct {
	prop    ast.DeclID
	name    string
	field   string
	static  bool
	getOnly bool
	typ     ast.TypeID
	hasInit bool
}

// ctorScope redirects assignments to get-only properties inside one
// constructor. Parameters and the locals of enclosing blocks shadow them.
type ctorScope struct {
	redirect map[string]string
	params   []string
	locals   []string
}

func (sc *ctorScope) shadowed(name string) bool {
	return slices.Contains(sc.params, name) || slices.Contains(sc.locals, name)
}

type accessorRules struct {
	rewrite.BaseRules
	ctors rewrite.Stack[ctorScope]
}

func autoProperty(d ast.PropertyDecl) bool {
	if len(d.Accessors) == 0 || d.Body.IsValid() {
		return false
	}
	if ast.HasMod(d.Mods, "abstract") || ast.HasMod(d.Mods, "extern") {
		return false
	}
	for _, a := range d.Accessors {
		if !a.IsAuto() {
			return false
		}
	}
	return true
}

func (r *accessorRules) Decl(e *rewrite.Engine, id ast.DeclID) ([]ast.DeclID, bool) {
	td, ok := ast.DeclAs[ast.TypeDecl](e.B, id)
	if !ok || td.Kind == ast.TypeDeclInterface {
		return nil, false
	}
	var plan []backing
	for _, m := range td.Members {
		pd, ok := ast.DeclAs[ast.PropertyDecl](e.B, m)
		if !ok || !autoProperty(pd) {
			continue
		}
		plan = append(plan, backing{
			prop:    m,
			name:    pd.Name,
			field:   BackingFieldName(pd.Name),
			static:  ast.HasMod(pd.Mods, "static"),
			getOnly: len(pd.Accessors) == 1 && pd.Accessors[0].Kind == ast.AccessorGet,
			typ:     pd.Type,
			hasInit: pd.Init.IsValid(),
		})
	}
	if len(plan) == 0 {
		return nil, false
	}

	members := make([]ast.DeclID, 0, len(td.Members)+len(plan))
	for _, m := range td.Members {
		if i := slices.IndexFunc(plan, func(bk backing) bool { return bk.prop == m }); i >= 0 {
			members = append(members, r.expand(e, plan[i])...)
			continue
		}
		if md, ok := ast.DeclAs[ast.MethodDecl](e.B, m); ok && md.Kind == ast.MethodConstructor {
			members = append(members, r.ctor(e, m, md, plan, td.Kind == ast.TypeDeclStruct))
			continue
		}
		members = append(members, e.Decl(m)...)
	}
	td.Members = members
	return []ast.DeclID{e.B.RebuildDecl(id, td)}, true
}

// expand returns the backing field followed by the property over it. The
// field takes the property's leading trivia.
func (r *accessorRules) expand(e *rewrite.Engine, bk backing) []ast.DeclID {
	b := e.B
	d := b.Decl(bk.prop)
	pd, _ := ast.DeclAs[ast.PropertyDecl](b, bk.prop)

	mods := []string{"private"}
	if bk.static {
		mods = append(mods, "static")
	}
	if bk.getOnly {
		mods = append(mods, "readonly")
	}
	field := b.AddDecl(ast.Decl{Lead: d.Lead, Data: ast.FieldDecl{
		Mods: mods,
		Type: plainType(b, pd.Type),
		Vars: []ast.VarDecl{{Name: bk.field, Init: e.BarrierExpr(pd.Init)}},
	}})

	accs := slices.Clone(pd.Accessors)
	for i := range accs {
		a := &accs[i]
		if a.Kind == ast.AccessorGet {
			a.Block = b.Block(b.Return(b.Ident(bk.field)))
		} else {
			a.Block = b.Block(b.ExprStmt(b.Assign(b.Ident(bk.field), b.Ident("value"))))
		}
	}
	pd.Accessors, pd.Init = accs, ast.NoExprID
	prop := b.AddDecl(ast.Decl{
		Span:   d.Span,
		Lead:   token.Indentation(d.Lead),
		Trail:  d.Trail,
		Origin: bk.prop,
		Data:   pd,
	})
	return []ast.DeclID{field, prop}
}

// ctor rewrites a constructor with assignments to get-only properties of
// the same staticness redirected to their fields. Struct constructors also
// start by defaulting every backing field without an initializer.
func (r *accessorRules) ctor(e *rewrite.Engine, id ast.DeclID, md ast.MethodDecl, plan []backing, isStruct bool) ast.DeclID {
	b := e.B
	static := ast.HasMod(md.Mods, "static")
	sc := ctorScope{redirect: make(map[string]string)}
	for _, bk := range plan {
		if bk.getOnly && bk.static == static {
			sc.redirect[bk.name] = bk.field
		}
	}
	for _, p := range md.Params {
		sc.params = append(sc.params, p.Name)
	}
	release := r.ctors.Push(sc)
	out := e.DeclOne(id)
	release()

	if !isStruct || static {
		return out
	}
	var defaults []ast.StmtID
	for _, bk := range plan {
		if bk.static || bk.hasInit {
			continue
		}
		init := b.Assign(b.Member(b.This(), bk.field), b.Default(plainType(b, bk.typ)))
		defaults = append(defaults, b.ExprStmt(init))
	}
	if len(defaults) == 0 {
		return out
	}
	md, _ = ast.DeclAs[ast.MethodDecl](b, out)
	if !md.Block.IsValid() {
		md.Block = bodyBlock(b, md.Body, true)
		md.Body = ast.NoExprID
	}
	blk, _ := ast.StmtAs[ast.BlockStmt](b, md.Block)
	if len(blk.Stmts) > 0 {
		indent := token.Indentation(b.Stmt(blk.Stmts[0]).Lead)
		for i, s := range defaults {
			defaults[i] = b.StmtWithTrivia(s, indent, nil)
		}
	}
	blk.Stmts = slices.Concat(defaults, blk.Stmts)
	md.Block = b.RebuildStmt(md.Block, blk)
	return b.RebuildDecl(out, md)
}

// declaredNames lists the names statement s introduces into its block.
func declaredNames(b *ast.Builder, s ast.StmtID) []string {
	switch d := b.Stmt(s).Data.(type) {
	case ast.LocalStmt:
		names := make([]string, 0, len(d.Vars))
		for _, v := range d.Vars {
			names = append(names, v.Name)
		}
		return names
	case ast.LocalFuncStmt:
		if md, ok := ast.DeclAs[ast.MethodDecl](b, d.Decl); ok {
			return []string{md.Name}
		}
	}
	return nil
}

// within rewrites with names shadowing the redirected properties.
func (r *accessorRules) within(names []string, fn func()) {
	sc := r.ctors.TopPtr()
	n := len(sc.locals)
	sc.locals = append(sc.locals, names...)
	fn()
	sc = r.ctors.TopPtr()
	sc.locals = sc.locals[:n]
}

func (r *accessorRules) Stmt(e *rewrite.Engine, id ast.StmtID) ([]ast.StmtID, bool) {
	sc := r.ctors.TopPtr()
	if sc == nil || len(sc.redirect) == 0 {
		return nil, false
	}
	var names []string
	switch d := e.B.Stmt(id).Data.(type) {
	case ast.BlockStmt:
		for _, s := range d.Stmts {
			names = append(names, declaredNames(e.B, s)...)
		}
	case ast.ForeachStmt:
		names = append(names, d.Name)
	}
	if len(names) == 0 {
		return nil, false
	}
	var out ast.StmtID
	r.within(names, func() { out = e.DefaultStmt(id) })
	return []ast.StmtID{out}, true
}

func (r *accessorRules) Expr(e *rewrite.Engine, id ast.ExprID) (ast.ExprID, bool) {
	sc := r.ctors.TopPtr()
	if sc == nil || len(sc.redirect) == 0 {
		return ast.NoExprID, false
	}
	if lam, ok := ast.ExprAs[ast.LambdaExpr](e.B, id); ok && len(lam.Params) > 0 {
		names := make([]string, 0, len(lam.Params))
		for _, p := range lam.Params {
			names = append(names, p.Name)
		}
		var out ast.ExprID
		r.within(names, func() { out = e.DefaultExpr(id) })
		return out, true
	}
	as, ok := ast.ExprAs[ast.AssignExpr](e.B, id)
	if !ok {
		return ast.NoExprID, false
	}
	tgt, ok := r.redirect(e.B, sc, as.Target)
	if !ok {
		return ast.NoExprID, false
	}
	as.Target = tgt
	return e.DefaultExpr(e.B.RebuildExpr(id, as)), true
}

func (r *accessorRules) redirect(b *ast.Builder, sc *ctorScope, target ast.ExprID) (ast.ExprID, bool) {
	x := b.Expr(target)
	switch d := x.Data.(type) {
	case ast.IdentExpr:
		field, ok := sc.redirect[d.Name]
		if !ok || sc.shadowed(d.Name) {
			return ast.NoExprID, false
		}
		return b.CarryExpr(target, b.Ident(field)), true
	case ast.MemberExpr:
		if b.ExprKindOf(d.Target) != ast.ExprThis || d.Optional {
			return ast.NoExprID, false
		}
		field, ok := sc.redirect[d.Name]
		if !ok {
			return ast.NoExprID, false
		}
		return b.CarryExpr(target, b.Member(d.Target, field)), true
	}
	return ast.NoExprID, false
}
