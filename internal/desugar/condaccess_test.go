package desugar

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"desugar/internal/ast"
	"desugar/internal/diag"
	"desugar/internal/format"
	"desugar/internal/oracle"
	"desugar/internal/rewrite"
	"desugar/internal/source"
	"desugar/internal/token"
)

func TestConditionalAccessStatement(t *testing.T) {
	f := newFixture()
	b := f.b
	c := f.local("c", f.typ(oracle.KindClass, "C"))
	body := b.Block(b.ExprStmt(b.Call(optMember(b, c, "f"))))

	got := f.run(t, NewConditionalAccess(), body)
	want := "{ if (c != null) c.f(); }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConditionalAccessValue(t *testing.T) {
	f := newFixture()
	b := f.b
	intT := f.typ(oracle.KindStruct, "int")
	c := f.local("c", f.typ(oracle.KindClass, "C"))
	chain := f.typed(optMember(b, c, "Val"), intT)
	f.tab.SetConverted(chain, f.tab.Nullable(intT))
	body := b.Block(b.Local(b.NullableType(b.NamedType("int")), "length", chain))

	got := f.run(t, NewConditionalAccess(), body)
	want := "{ int? length = (c == null) ? (int?)null : c.Val; }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConditionalAccessValueFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		result func(f *fixture) oracle.TypeRef
		want   string
	}{
		{"reference", func(f *fixture) oracle.TypeRef { return f.typ(oracle.KindClass, "string") },
			"{ x = (c == null) ? (string)null : c.Val; }"},
		{"struct", func(f *fixture) oracle.TypeRef { return f.typ(oracle.KindStruct, "Point") },
			"{ x = (c == null) ? default(Point) : c.Val; }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			b := f.b
			c := f.local("c", f.typ(oracle.KindClass, "C"))
			chain := f.typed(optMember(b, c, "Val"), tt.result(f))
			body := b.Block(b.ExprStmt(b.Assign(b.Ident("x"), chain)))
			if got := f.run(t, NewConditionalAccess(), body); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConditionalAccessImpureReceiverUsesTemporary(t *testing.T) {
	f := newFixture()
	b := f.b
	nint := f.tab.Nullable(f.typ(oracle.KindStruct, "int"))
	call := f.typed(b.Call(b.Ident("f")), f.typ(oracle.KindClass, "C"))
	chain := f.typed(optMember(b, call, "Val"), nint)
	body := b.Block(b.ExprStmt(b.Assign(b.Ident("x"), chain)))

	got := f.run(t, NewConditionalAccess(), body)
	want := "{ C __t1 = default; x = ((__t1 = f()) == null) ? (int?)null : __t1.Val; }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConditionalAccessNestedGuards(t *testing.T) {
	f := newFixture()
	b := f.b
	a := f.local("a", f.typ(oracle.KindClass, "A"))
	inner := f.typed(optMember(b, a, "B"), f.typ(oracle.KindClass, "B"))
	body := b.Block(b.ExprStmt(b.Call(optMember(b, inner, "f"))))

	got := f.run(t, NewConditionalAccess(), body)
	want := "{ B __t1 = default; if (a != null) if ((__t1 = a.B) != null) __t1.f(); }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConditionalAccessUserEqualityComparesAsObject(t *testing.T) {
	f := newFixture()
	b := f.b
	cT := f.typ(oracle.KindClass, "C")
	f.tab.AddMember(cT, oracle.Symbol{Kind: oracle.SymbolOperator, Name: "op_Equality"})
	c := f.local("c", cT)
	body := b.Block(b.ExprStmt(b.Call(optMember(b, c, "f"))))

	got := f.run(t, NewConditionalAccess(), body)
	want := "{ if (c != (object)null) c.f(); }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConditionalAccessSkipsWithoutFacts(t *testing.T) {
	f := newFixture()
	b := f.b
	d := b.Ident("d")
	body := b.Block(
		b.ExprStmt(b.Call(optMember(b, d, "f"))),
		b.ExprStmt(b.Assign(b.Ident("y"), optMember(b, b.Ident("e"), "Val"))),
	)
	root := unitWith(b, body)

	out := f.apply(t, NewConditionalAccess(), root)
	if out.Root != root {
		t.Fatalf("tree rewritten without facts")
	}
	want := []diag.Code{diag.DsgSkippedNoFacts, diag.DsgSkippedNoFacts}
	if diff := cmp.Diff(want, f.codes()); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestConditionalAccessSkipsTemporaryBehindBarrier(t *testing.T) {
	f := newFixture()
	b := f.b
	call := f.typed(b.Call(b.Ident("g")), f.typ(oracle.KindClass, "C"))
	chain := f.typed(optMember(b, call, "Name"), f.typ(oracle.KindClass, "string"))
	lam := b.Lambda(chain, "x")
	body := b.Block(b.ExprStmt(b.Call(b.Ident("use"), lam)))
	root := unitWith(b, body)

	out := f.apply(t, NewConditionalAccess(), root)
	if out.Root != root {
		t.Fatalf("lambda body rewritten")
	}
	if diff := cmp.Diff([]diag.Code{diag.DsgSkippedImpure}, f.codes()); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestConditionalAccessVoidLambdaGetsBlock(t *testing.T) {
	f := newFixture()
	b := f.b
	void := f.typ(oracle.KindVoid, "void")
	action := f.tab.AddType(oracle.Type{Kind: oracle.KindDelegate, Name: "Action", Display: "Action", Elem: void})
	c := f.local("c", f.typ(oracle.KindClass, "C"))
	lam := b.Lambda(b.Call(optMember(b, c, "f")), "x")
	f.tab.SetConverted(lam, action)
	body := b.Block(b.ExprStmt(b.Call(b.Ident("use"), lam)))

	got := f.run(t, NewConditionalAccess(), body)
	want := "{ use(x => { if (c != null) c.f(); }); }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

// readonlyField binds id to a readonly field of type ref.
func (f *fixture) readonlyField(id ast.ExprID, ref oracle.TypeRef, static bool) ast.ExprID {
	name := "field"
	if x, ok := ast.ExprAs[ast.IdentExpr](f.b, id); ok {
		name = x.Name
	} else if m, ok := ast.ExprAs[ast.MemberExpr](f.b, id); ok {
		name = m.Name
	}
	f.tab.SetSymbol(id, f.tab.AddSymbol(oracle.Symbol{Kind: oracle.SymbolField, Name: name, Type: ref, Static: static, ReadOnly: true}))
	f.tab.SetType(id, ref)
	return id
}

func TestConditionalAccessValueLambdaGetsBlock(t *testing.T) {
	f := newFixture()
	b := f.b
	str := f.typ(oracle.KindClass, "string")
	x := f.local("x", f.typ(oracle.KindClass, "X"))
	inner := f.typed(optMember(b, x, "B"), f.typ(oracle.KindClass, "B"))
	chain := f.typed(optMember(b, inner, "Name"), str)
	lam := b.Lambda(chain, "x")
	f.tab.SetConverted(lam, f.tab.AddType(oracle.Type{Kind: oracle.KindDelegate, Display: "Func<X, string>", Elem: str}))
	body := b.Block(b.ExprStmt(b.Call(b.Ident("use"), lam)))

	got := f.run(t, NewConditionalAccess(), body)
	want := "{ use(x => { B __t1 = default; return (x == null) ? (string)null : ((__t1 = x.B) == null) ? (string)null : __t1.Name; }); }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if len(f.codes()) != 0 {
		t.Fatalf("unexpected diagnostics %v", f.codes())
	}
}

func TestConditionalAccessExpressionTreeKeepsBody(t *testing.T) {
	f := newFixture()
	b := f.b
	str := f.typ(oracle.KindClass, "string")
	x := f.local("x", f.typ(oracle.KindClass, "X"))
	chain := f.typed(optMember(b, x, "Name"), str)
	lam := b.Lambda(chain, "x")
	f.tab.SetConverted(lam, f.tab.AddType(oracle.Type{Kind: oracle.KindDelegate, Display: "Expression<Func<X, string>>", Elem: str, Interpreted: true}))
	body := b.Block(b.ExprStmt(b.Call(b.Ident("use"), lam)))

	got := f.run(t, NewConditionalAccess(), body)
	want := "{ use(x => (x == null) ? (string)null : x.Name); }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestConditionalAccessMemberInitializerRepeatsPureReceivers(t *testing.T) {
	f := newFixture()
	b := f.b
	node := f.typ(oracle.KindClass, "Node")
	seed := f.readonlyField(b.Ident("Seed"), node, true)
	next := f.readonlyField(optMember(b, seed, "Next"), node, false)
	chain := f.typed(optMember(b, next, "Name"), f.typ(oracle.KindClass, "string"))
	field := b.NewDecl(source.Span{}, ast.FieldDecl{Type: b.NamedType("string"), Vars: []ast.VarDecl{{Name: "Name", Init: chain}}})

	out := f.apply(t, NewConditionalAccess(), unitOf(b, classOf(b, field)))
	unit, _ := out.Unit()
	cls, _ := ast.DeclAs[ast.TypeDecl](b, unit.Members[0])
	got := format.Decl(b, cls.Members[0])
	want := "string Name = (Seed == null) ? (string)null : (Seed.Next == null) ? (string)null : Seed.Next.Name;"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if len(f.codes()) != 0 {
		t.Fatalf("unexpected diagnostics %v", f.codes())
	}
}

func TestConditionalAccessLoopCondition(t *testing.T) {
	tests := []struct {
		name     string
		readonly bool
		want     string
		codes    []diag.Code
	}{
		{"pure prefix", true,
			"{ while (((x == null) ? (bool?)null : (x.Next == null) ? (bool?)null : x.Next.Ok) == true) g(); }", nil},
		{"property prefix", false,
			"{ while (x?.Next?.Ok == true) g(); }", []diag.Code{diag.DsgSkippedImpure}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			b := f.b
			node := f.typ(oracle.KindClass, "Node")
			boolT := f.typ(oracle.KindStruct, "bool")
			x := f.local("x", node)
			next := f.typed(optMember(b, x, "Next"), node)
			if tt.readonly {
				f.readonlyField(next, node, false)
			}
			chain := f.typed(optMember(b, next, "Ok"), boolT)
			f.tab.SetConverted(chain, f.tab.Nullable(boolT))
			loop := b.NewStmt(source.Span{}, ast.WhileStmt{
				Cond: b.Binary(token.EqEq, chain, b.True()),
				Body: b.ExprStmt(b.Call(b.Ident("g"))),
			})
			if got := f.run(t, NewConditionalAccess(), b.Block(loop)); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
			if diff := cmp.Diff(tt.codes, f.codes()); diff != "" {
				t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// chainForm builds one statement of a generated body. Every statement
// carries a trailing comment so conservation can be checked.
func chainForm(f *fixture, kind, i int) ast.StmtID {
	b := f.b
	cT := f.typ(oracle.KindClass, "C")
	str := f.typ(oracle.KindClass, "string")
	var s ast.StmtID
	switch kind {
	case 0:
		s = b.ExprStmt(b.Call(optMember(b, f.local("c", cT), "f")))
	case 1:
		chain := f.typed(optMember(b, f.local("c", cT), "Name"), str)
		s = b.ExprStmt(b.Assign(b.Ident("x"), chain))
	case 2:
		inner := f.typed(optMember(b, f.local("a", cT), "Next"), cT)
		s = b.ExprStmt(b.Call(optMember(b, inner, "f")))
	default:
		s = b.ExprStmt(b.Call(b.Ident("g"), b.Ident("x")))
	}
	return b.StmtWithTrivia(s, nil, lineComment(fmt.Sprintf("// s%d", i)))
}

func hasOptionalLinks(tree *ast.Tree) bool {
	found := false
	ast.Walk(tree.B, tree.Root, ast.Visitor{Expr: func(_ ast.ExprID, x *ast.Expr) bool {
		switch d := x.Data.(type) {
		case ast.MemberExpr:
			found = found || d.Optional
		case ast.IndexExpr:
			found = found || d.Optional
		}
		return !found
	}})
	return found
}

func TestConditionalAccessProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	build := func(kinds []int) (*fixture, ast.DeclID) {
		f := newFixture()
		stmts := make([]ast.StmtID, 0, len(kinds))
		for i, k := range kinds {
			stmts = append(stmts, chainForm(f, k, i))
		}
		return f, unitWith(f.b, f.b.Block(stmts...))
	}
	apply := func(f *fixture, p rewrite.Pass, root ast.DeclID) *ast.Tree {
		tree := ast.NewTree(f.b, root)
		out, err := p.Apply(tree, f.tab.Bind(tree))
		if err != nil {
			panic(err)
		}
		return out
	}

	properties.Property("no optional link survives", prop.ForAll(
		func(kinds []int) bool {
			f, root := build(kinds)
			return !hasOptionalLinks(apply(f, NewConditionalAccess(), root))
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.Property("comments are conserved", prop.ForAll(
		func(kinds []int) bool {
			f, root := build(kinds)
			before := commentTexts(ast.NewTree(f.b, root))
			after := commentTexts(apply(f, NewConditionalAccess(), root))
			return cmp.Equal(before, after)
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.Property("a second run changes nothing", prop.ForAll(
		func(kinds []int) bool {
			f, root := build(kinds)
			once := apply(f, NewConditionalAccess(), root)
			twice := apply(f, NewConditionalAccess(), once.Root)
			return twice.Root == once.Root
		},
		gen.SliceOf(gen.IntRange(0, 3)),
	))

	properties.TestingRun(t)
}
