package desugar

import (
	"fmt"
	"strconv"
	"strings"

	"desugar/internal/ast"
	"desugar/internal/diag"
	"desugar/internal/oracle"
	"desugar/internal/rewrite"
	"desugar/internal/source"
	"desugar/internal/token"
)

// AnonymousTypes replaces anonymous object literals by constructor calls to
// synthesized nominal classes, one class per distinct shape. The class is
// declared right after the innermost type declaration enclosing the first
// literal of that shape.
//
// Shapes are memoized for the lifetime of the instance; Reset forgets them.
type AnonymousTypes struct {
	rewrite.Base

	shapes   map[string]anonShape
	counters map[ast.DeclID]int
	renames  []anonRename
}

type anonShape struct {
	name   string
	params []string
}

// anonRename maps the display of an anonymous type to the nominal name that
// replaced it, in discovery order.
type anonRename struct {
	display string
	name    string
}

func NewAnonymousTypes() *AnonymousTypes {
	p := &AnonymousTypes{}
	p.Reset()
	return p
}

func (*AnonymousTypes) Name() string            { return "anonymous-types" }
func (*AnonymousTypes) IsPurelySyntactic() bool { return false }

func (p *AnonymousTypes) Reset() {
	p.Base.Reset()
	p.shapes = make(map[string]anonShape)
	p.counters = make(map[ast.DeclID]int)
	p.renames = nil
}

func (p *AnonymousTypes) Apply(tree *ast.Tree, orc oracle.Oracle) (*ast.Tree, error) {
	if p.shapes == nil {
		p.Reset()
	}
	return rewrite.Apply(tree, &anonRules{p: p}, p.Options(p.Name(), orc))
}

// anonScope is a declaration that can hold members: the unit, a namespace
// or a type. Types collect the classes synthesized while inside them.
type anonScope struct {
	decl    ast.DeclID
	isType  bool
	name    string
	params  []string
	lead    []token.Trivia
	emitted []ast.DeclID
}

type anonRules struct {
	rewrite.BaseRules
	p      *AnonymousTypes
	scopes rewrite.Stack[anonScope]
}

func (r *anonRules) Decl(e *rewrite.Engine, id ast.DeclID) ([]ast.DeclID, bool) {
	d := e.B.Decl(id)
	switch v := d.Data.(type) {
	case ast.UnitDecl, ast.NamespaceDecl:
		release := r.scopes.Push(anonScope{decl: id})
		defer release()
		return []ast.DeclID{e.DefaultDecl(id)}, true
	case ast.TypeDecl:
		release := r.scopes.Push(anonScope{decl: id, isType: true, name: v.Name, params: v.TypeParams, lead: d.Lead})
		defer release()
		out := e.DefaultDecl(id)
		return append([]ast.DeclID{out}, r.scopes.TopPtr().emitted...), true
	}
	return nil, false
}

// owner returns the stack index of the innermost enclosing type.
func (r *anonRules) owner() int {
	for i := r.scopes.Len() - 1; i >= 0; i-- {
		if r.scopes.At(i).isType {
			return i
		}
	}
	return -1
}

func (r *anonRules) Expr(e *rewrite.Engine, id ast.ExprID) (ast.ExprID, bool) {
	if e.B.ExprKindOf(id) != ast.ExprAnonObject {
		return ast.NoExprID, false
	}
	// вложенные литералы раньше внешнего
	out := e.DefaultExpr(id)
	lit, _ := ast.ExprAs[ast.AnonObjectExpr](e.B, out)

	_, t, ok := e.TypeOf(id)
	if !ok || t.Kind != oracle.KindAnonymous {
		e.SkipExpr(diag.DsgSkippedNoFacts, id, "anonymous object without a resolved shape")
		return out, true
	}
	if len(t.Fields) != len(lit.Members) {
		rewrite.Violationf("anonymous object has %d members, its type %d fields", len(lit.Members), len(t.Fields))
	}
	for i, m := range lit.Members {
		if m.Name == "" && rewrite.ImplicitMemberName(e.B, m.Value) == "" {
			rewrite.Violationf("anonymous member %d is neither a named binding nor a member access", i)
		}
	}
	oi := r.owner()
	if oi < 0 {
		e.SkipExpr(diag.DsgSkippedUnsupported, id, "anonymous object outside of a type declaration")
		return out, true
	}

	params := r.typeParams(e, t)
	key := r.shapeKey(oi, t, params)
	shape, seen := r.p.shapes[key]
	if !seen {
		shape = r.declare(e, oi, id, t, params)
		r.p.shapes[key] = shape
	}

	args := make([]ast.Arg, 0, len(lit.Members))
	for _, m := range lit.Members {
		args = append(args, ast.Arg{Value: m.Value})
	}
	typeArgs := make([]ast.TypeID, 0, len(shape.params))
	for _, tp := range shape.params {
		typeArgs = append(typeArgs, e.B.NamedType(tp))
	}
	x := e.B.Expr(out)
	return e.B.AddExpr(ast.Expr{
		Span:  x.Span,
		Lead:  x.Lead,
		Trail: x.Trail,
		Data:  ast.NewExpr{Type: e.B.NamedType(shape.name, typeArgs...), Args: args, Parens: true},
	}), true
}

// shapeKey identifies a shape by field names and type identities within the
// scope that can see the synthesized class. Shapes over captured type
// parameters are private to their owner.
func (r *anonRules) shapeKey(oi int, t *oracle.Type, params []string) string {
	var sb strings.Builder
	scope := ast.NoDeclID
	if oi > 0 {
		scope = r.scopes.At(oi - 1).decl
	}
	sb.WriteString(strconv.FormatUint(uint64(scope), 10))
	if len(params) > 0 {
		sb.WriteString("/")
		sb.WriteString(strconv.FormatUint(uint64(r.scopes.At(oi).decl), 10))
	}
	for _, f := range t.Fields {
		fmt.Fprintf(&sb, ";%s:%d", f.Name, f.Type)
	}
	return sb.String()
}

// typeParams collects the open type parameters of the field types in post
// order, skipping those owned by an anonymous type.
func (r *anonRules) typeParams(e *rewrite.Engine, t *oracle.Type) []string {
	var out []string
	seen := make(map[oracle.TypeRef]bool)
	var visit func(ref oracle.TypeRef)
	visit = func(ref oracle.TypeRef) {
		if ref == oracle.NoType || seen[ref] {
			return
		}
		seen[ref] = true
		ty := e.Oracle.Lookup(ref)
		if ty == nil {
			return
		}
		for _, a := range ty.Args {
			visit(a)
		}
		visit(ty.Elem)
		for _, f := range ty.Fields {
			visit(f.Type)
		}
		for _, p := range ty.Params {
			visit(p)
		}
		if ty.Kind == oracle.KindTypeParam && !r.ownedByAnonymous(e, ty) {
			out = append(out, e.Oracle.DisplayName(ref, source.Span{}))
		}
	}
	for _, f := range t.Fields {
		visit(f.Type)
	}
	return out
}

func (r *anonRules) ownedByAnonymous(e *rewrite.Engine, tp *oracle.Type) bool {
	sym := e.Oracle.Symbol(tp.Owner)
	if sym == nil || sym.Kind != oracle.SymbolType {
		return false
	}
	owner := e.Oracle.Lookup(sym.Type)
	return owner != nil && owner.Kind == oracle.KindAnonymous
}

// declare synthesizes the class for a new shape and queues it behind the owner.
func (r *anonRules) declare(e *rewrite.Engine, oi int, at ast.ExprID, t *oracle.Type, params []string) anonShape {
	b := e.B
	owner := r.scopes.At(oi)
	n := r.p.counters[owner.decl] + 1
	r.p.counters[owner.decl] = n
	name := fmt.Sprintf("%s__Anon%d", owner.name, n)

	outer := token.Indentation(owner.lead)
	if outer == nil {
		outer = []token.Trivia{token.Newline()}
	}
	inner := indented(outer)
	body := indented(inner)

	members := make([]ast.DeclID, 0, len(t.Fields)+1)
	ctorParams := make([]ast.Param, 0, len(t.Fields))
	assigns := make([]ast.StmtID, 0, len(t.Fields))
	for _, f := range t.Fields {
		text := r.fieldType(e, f.Type, at)
		members = append(members, b.AddDecl(ast.Decl{Lead: inner, Data: ast.PropertyDecl{
			Mods:      []string{"public"},
			Type:      b.NamedType(text),
			Name:      f.Name,
			Accessors: []ast.Accessor{{Kind: ast.AccessorGet}},
		}}))
		ctorParams = append(ctorParams, ast.Param{Name: f.Name, Type: b.NamedType(text)})
		set := b.ExprStmt(b.Assign(b.Member(b.This(), f.Name), b.Ident(f.Name)))
		assigns = append(assigns, b.StmtWithTrivia(set, body, nil))
	}
	block := b.NewStmt(source.Span{}, ast.BlockStmt{Stmts: assigns, CloseLead: inner})
	members = append(members, b.AddDecl(ast.Decl{Lead: inner, Data: ast.MethodDecl{
		Kind:   ast.MethodConstructor,
		Mods:   []string{"public"},
		Name:   name,
		Params: ctorParams,
		Block:  block,
	}}))
	cls := b.AddDecl(ast.Decl{Lead: ast.Concat([]token.Trivia{token.Newline()}, outer), Data: ast.TypeDecl{
		Kind:       ast.TypeDeclClass,
		Mods:       []string{"internal", "sealed"},
		Name:       name,
		TypeParams: params,
		Members:    members,
		CloseLead:  outer,
	}})
	owner.emitted = append(owner.emitted, cls)

	display := name
	if len(params) > 0 {
		display += "<" + strings.Join(params, ", ") + ">"
	}
	r.p.renames = append(r.p.renames, anonRename{display: e.Oracle.DisplayName(r.typeRef(e, at), source.Span{}), name: display})
	return anonShape{name: name, params: params}
}

func (r *anonRules) typeRef(e *rewrite.Engine, at ast.ExprID) oracle.TypeRef {
	ref, _, _ := e.TypeOf(at)
	return ref
}

// fieldType spells a field type, naming earlier shapes by their classes.
// Later shapes may embed earlier ones, so they are replaced first.
func (r *anonRules) fieldType(e *rewrite.Engine, ref oracle.TypeRef, at ast.ExprID) string {
	text := e.Display(ref, at)
	for i := len(r.p.renames) - 1; i >= 0; i-- {
		rn := r.p.renames[i]
		if rn.display != "" {
			text = strings.ReplaceAll(text, rn.display, rn.name)
		}
	}
	return text
}

// indented adds one indentation level to a newline-led run.
func indented(run []token.Trivia) []token.Trivia {
	return ast.Concat(run, []token.Trivia{{Kind: token.TriviaSpace, Text: "    "}})
}
