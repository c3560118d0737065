package desugar

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"desugar/internal/ast"
	"desugar/internal/diag"
	"desugar/internal/format"
	"desugar/internal/oracle"
	"desugar/internal/rewrite"
	"desugar/internal/source"
)

func namedAnon(b *ast.Builder, names []string, values ...ast.ExprID) ast.ExprID {
	members := make([]ast.AnonMember, len(values))
	for i, v := range values {
		members[i] = ast.AnonMember{Name: names[i], Value: v}
	}
	return b.NewExpr(source.Span{}, ast.AnonObjectExpr{Members: members})
}

func orderShape(f *fixture) oracle.TypeRef {
	return f.tab.AddType(oracle.Type{
		Kind:    oracle.KindAnonymous,
		Display: "<anonymous: string Name, decimal Total>",
		Fields: []oracle.Field{
			{Name: "Name", Type: f.typ(oracle.KindClass, "string")},
			{Name: "Total", Type: f.typ(oracle.KindStruct, "decimal")},
		},
	})
}

func TestAnonymousTypesShareOneClassPerShape(t *testing.T) {
	f := newFixture()
	b := f.b
	shape := orderShape(f)
	names := []string{"Name", "Total"}
	first := f.typed(namedAnon(b, names, b.Ident("n"), b.Ident("t")), shape)
	second := f.typed(namedAnon(b, names, b.Ident("m"), b.Ident("u")), shape)
	body := b.Block(b.Local(b.VarType(), "x", first), b.Local(b.VarType(), "y", second))

	out := f.apply(t, NewAnonymousTypes(), unitWith(b, body))
	unit, _ := out.Unit()
	if len(unit.Members) != 2 {
		t.Fatalf("unit has %d members, want the class and one synthesized class", len(unit.Members))
	}
	got := format.Decl(b, unit.Members[0])
	want := "class C { void M() { var x = new C__Anon1(n, t); var y = new C__Anon1(m, u); } }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	got = format.Decl(b, unit.Members[1])
	want = "\n\ninternal sealed class C__Anon1 {" +
		"\n    public string Name { get; }" +
		"\n    public decimal Total { get; }" +
		"\n    public C__Anon1(string Name, decimal Total) {" +
		"\n        this.Name = Name;" +
		"\n        this.Total = Total;" +
		"\n    }" +
		"\n}"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAnonymousTypesDistinctShapes(t *testing.T) {
	f := newFixture()
	b := f.b
	other := f.tab.AddType(oracle.Type{
		Kind:    oracle.KindAnonymous,
		Display: "<anonymous: int Id>",
		Fields:  []oracle.Field{{Name: "Id", Type: f.typ(oracle.KindStruct, "int")}},
	})
	first := f.typed(namedAnon(b, []string{"Name", "Total"}, b.Ident("n"), b.Ident("t")), orderShape(f))
	second := f.typed(anonOf(b, member(b, "o", "Id")), other)
	body := b.Block(b.Local(b.VarType(), "x", first), b.Local(b.VarType(), "y", second))

	out := f.apply(t, NewAnonymousTypes(), unitWith(b, body))
	unit, _ := out.Unit()
	if len(unit.Members) != 3 {
		t.Fatalf("unit has %d members, want 3", len(unit.Members))
	}
	blk, _ := ast.StmtAs[ast.BlockStmt](b, bodyOf(t, b, out.Root))
	y, _ := ast.StmtAs[ast.LocalStmt](b, blk.Stmts[1])
	if got, want := format.Expr(b, y.Vars[0].Init), "new C__Anon2(o.Id)"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAnonymousTypesResetForgetsShapes(t *testing.T) {
	p := NewAnonymousTypes()
	for range 2 {
		f := newFixture()
		b := f.b
		lit := f.typed(namedAnon(b, []string{"Name", "Total"}, b.Ident("n"), b.Ident("t")), orderShape(f))
		out := f.apply(t, p, unitWith(b, b.Block(b.Return(lit))))
		blk, _ := ast.StmtAs[ast.BlockStmt](b, bodyOf(t, b, out.Root))
		if got, want := format.Stmt(b, blk.Stmts[0]), "return new C__Anon1(n, t);"; got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
		p.Reset()
	}
}

func TestAnonymousTypesSkipWithoutShape(t *testing.T) {
	f := newFixture()
	b := f.b
	root := unitWith(b, b.Block(b.Return(anonOf(b, member(b, "o", "Id")))))

	if out := f.apply(t, NewAnonymousTypes(), root); out.Root != root {
		t.Fatalf("tree rewritten")
	}
	if diff := cmp.Diff([]diag.Code{diag.DsgSkippedNoFacts}, f.codes()); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func idShape(f *fixture) oracle.TypeRef {
	return f.tab.AddType(oracle.Type{
		Kind:    oracle.KindAnonymous,
		Display: "<anonymous: int Id>",
		Fields:  []oracle.Field{{Name: "Id", Type: f.typ(oracle.KindStruct, "int")}},
	})
}

func TestAnonymousTypesNestedLiteralDeclaredFirst(t *testing.T) {
	f := newFixture()
	b := f.b
	inner := idShape(f)
	outer := f.tab.AddType(oracle.Type{
		Kind:    oracle.KindAnonymous,
		Display: "<anonymous: <anonymous: int Id> Key, string Name>",
		Fields: []oracle.Field{
			{Name: "Key", Type: inner},
			{Name: "Name", Type: f.typ(oracle.KindClass, "string")},
		},
	})
	key := f.typed(namedAnon(b, []string{"Id"}, b.Int("1")), inner)
	lit := f.typed(namedAnon(b, []string{"Key", "Name"}, key, b.Ident("n")), outer)

	out := f.apply(t, NewAnonymousTypes(), unitWith(b, b.Block(b.Return(lit))))
	unit, _ := out.Unit()
	if len(unit.Members) != 3 {
		t.Fatalf("unit has %d members, want 3", len(unit.Members))
	}
	blk, _ := ast.StmtAs[ast.BlockStmt](b, bodyOf(t, b, out.Root))
	if got, want := format.Stmt(b, blk.Stmts[0]), "return new C__Anon2(new C__Anon1(1), n);"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	cls, _ := ast.DeclAs[ast.TypeDecl](b, unit.Members[2])
	if cls.Name != "C__Anon2" {
		t.Fatalf("third member is %s, want C__Anon2", cls.Name)
	}
	if got, want := format.Decl(b, cls.Members[0]), "\n    public C__Anon1 Key { get; }"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAnonymousTypesRenameLaterShapesFirst(t *testing.T) {
	f := newFixture()
	b := f.b
	a := idShape(f)
	const bDisplay = "<anonymous: <anonymous: int Id> Inner>"
	bShape := f.tab.AddType(oracle.Type{
		Kind:    oracle.KindAnonymous,
		Display: bDisplay,
		Fields:  []oracle.Field{{Name: "Inner", Type: a}},
	})
	list := f.tab.AddType(oracle.Type{Kind: oracle.KindClass, Name: "List`1", Display: "List<" + bDisplay + ">", Args: []oracle.TypeRef{bShape}})
	cShape := f.tab.AddType(oracle.Type{
		Kind:    oracle.KindAnonymous,
		Display: "<anonymous: List<" + bDisplay + "> Items>",
		Fields:  []oracle.Field{{Name: "Items", Type: list}},
	})
	body := b.Block(
		b.Local(b.VarType(), "x", f.typed(namedAnon(b, []string{"Id"}, b.Int("1")), a)),
		b.Local(b.VarType(), "y", f.typed(namedAnon(b, []string{"Inner"}, b.Ident("x")), bShape)),
		b.Local(b.VarType(), "z", f.typed(namedAnon(b, []string{"Items"}, b.Ident("l")), cShape)),
	)

	out := f.apply(t, NewAnonymousTypes(), unitWith(b, body))
	unit, _ := out.Unit()
	if len(unit.Members) != 4 {
		t.Fatalf("unit has %d members, want 4", len(unit.Members))
	}
	cls, _ := ast.DeclAs[ast.TypeDecl](b, unit.Members[3])
	if got, want := format.Decl(b, cls.Members[0]), "\n    public List<C__Anon2> Items { get; }"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAnonymousTypesCaptureTypeParameters(t *testing.T) {
	f := newFixture()
	b := f.b
	cT := f.typ(oracle.KindClass, "C<T>")
	owner := f.tab.AddSymbol(oracle.Symbol{Kind: oracle.SymbolType, Name: "C`1", Type: cT})
	tp := f.tab.AddType(oracle.Type{Kind: oracle.KindTypeParam, Name: "T", Display: "T", Owner: owner})
	shape := f.tab.AddType(oracle.Type{
		Kind:    oracle.KindAnonymous,
		Display: "<anonymous: T Value>",
		Fields:  []oracle.Field{{Name: "Value", Type: tp}},
	})
	lit := f.typed(namedAnon(b, []string{"Value"}, b.Ident("v")), shape)
	m := b.NewDecl(source.Span{}, ast.MethodDecl{Ret: b.NamedType("object"), Name: "M", Block: b.Block(b.Return(lit))})
	cls := b.NewDecl(source.Span{}, ast.TypeDecl{Name: "C", TypeParams: []string{"T"}, Members: []ast.DeclID{m}})

	out := f.apply(t, NewAnonymousTypes(), unitOf(b, cls))
	unit, _ := out.Unit()
	blk, _ := ast.StmtAs[ast.BlockStmt](b, bodyOf(t, b, out.Root))
	if got, want := format.Stmt(b, blk.Stmts[0]), "return new C__Anon1<T>(v);"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	anon, _ := ast.DeclAs[ast.TypeDecl](b, unit.Members[1])
	if diff := cmp.Diff([]string{"T"}, anon.TypeParams); diff != "" {
		t.Fatalf("type parameters mismatch (-want +got):\n%s", diff)
	}
	if got, want := format.Decl(b, anon.Members[0]), "\n    public T Value { get; }"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAnonymousTypesEmptyLiteral(t *testing.T) {
	f := newFixture()
	b := f.b
	shape := f.tab.AddType(oracle.Type{Kind: oracle.KindAnonymous, Display: "<anonymous>"})
	lit := f.typed(b.NewExpr(source.Span{}, ast.AnonObjectExpr{}), shape)

	out := f.apply(t, NewAnonymousTypes(), unitWith(b, b.Block(b.Return(lit))))
	unit, _ := out.Unit()
	blk, _ := ast.StmtAs[ast.BlockStmt](b, bodyOf(t, b, out.Root))
	if got, want := format.Stmt(b, blk.Stmts[0]), "return new C__Anon1();"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	anon, _ := ast.DeclAs[ast.TypeDecl](b, unit.Members[1])
	if len(anon.Members) != 1 {
		t.Fatalf("class has %d members, want only the constructor", len(anon.Members))
	}
	ctor, _ := ast.DeclAs[ast.MethodDecl](b, anon.Members[0])
	if ctor.Kind != ast.MethodConstructor || len(ctor.Params) != 0 {
		t.Fatalf("member is %+v, want a parameterless constructor", ctor)
	}
}

func TestAnonymousTypesMemberCountMismatchIsViolation(t *testing.T) {
	f := newFixture()
	b := f.b
	lit := f.typed(namedAnon(b, []string{"Name"}, b.Ident("n")), orderShape(f))
	tree := ast.NewTree(b, unitWith(b, b.Block(b.Return(lit))))

	_, err := NewAnonymousTypes().Apply(tree, f.tab.Bind(tree))
	var cv *rewrite.ContractViolation
	if !errors.As(err, &cv) {
		t.Fatalf("err = %v, want *rewrite.ContractViolation", err)
	}
	if cv.Pass != "anonymous-types" {
		t.Fatalf("violation from %q", cv.Pass)
	}
}
