package desugar

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"desugar/internal/ast"
	"desugar/internal/diag"
	"desugar/internal/oracle"
	"desugar/internal/source"
)

func initOf(b *ast.Builder, kind ast.InitKind, elems ...ast.ExprID) ast.ExprID {
	return b.NewExpr(source.Span{}, ast.InitExpr{Kind: kind, Elems: elems})
}

func newWith(b *ast.Builder, typ string, init ast.ExprID) ast.ExprID {
	return b.NewExpr(source.Span{}, ast.NewExpr{Type: b.NamedType(typ), Init: init})
}

// converted records the own and target types of a literal.
func (f *fixture) converted(id ast.ExprID, own, conv oracle.TypeRef) ast.ExprID {
	f.tab.SetType(id, own)
	f.tab.SetConverted(id, conv)
	return id
}

func TestInitializerCollection(t *testing.T) {
	f := newFixture()
	b := f.b
	lit := newWith(b, "List<int>", initOf(b, ast.InitCollection, b.Int("1"), b.Int("2")))
	f.converted(lit, f.typ(oracle.KindClass, "List<int>"), f.typ(oracle.KindInterface, "IList<int>"))
	body := b.Block(b.Local(b.NamedType("IList<int>"), "xs", lit))

	got := f.run(t, NewInitializers(), body)
	want := "{ var __init1 = new List<int>(); __init1.Add(1); __init1.Add(2); IList<int> xs = __init1; }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInitializerObjectAssignment(t *testing.T) {
	f := newFixture()
	b := f.b
	lit := newWith(b, "Point", initOf(b, ast.InitObject,
		b.Assign(b.Ident("X"), b.Int("1")),
		b.Assign(b.Ident("Y"), b.Int("2")),
	))
	f.converted(lit, f.typ(oracle.KindClass, "Point"), f.typ(oracle.KindClass, "Shape"))
	body := b.Block(b.ExprStmt(b.Assign(b.Ident("shape"), lit)))

	got := f.run(t, NewInitializers(), body)
	want := "{ var __init1 = new Point(); __init1.X = 1; __init1.Y = 2; shape = __init1; }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInitializerDictionaryEntries(t *testing.T) {
	f := newFixture()
	b := f.b
	lit := newWith(b, "Dictionary<string, int>", initOf(b, ast.InitCollection,
		initOf(b, ast.InitComplex, b.Lit(ast.LitString, `"a"`), b.Int("1")),
	))
	f.converted(lit, f.typ(oracle.KindClass, "Dictionary<string, int>"), f.typ(oracle.KindInterface, "IDictionary<string, int>"))
	body := b.Block(b.Return(lit))

	got := f.run(t, NewInitializers(), body)
	want := `{ var __init1 = new Dictionary<string, int>(); __init1.Add("a", 1); return __init1; }`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInitializerArray(t *testing.T) {
	f := newFixture()
	b := f.b
	lit := b.NewExpr(source.Span{}, ast.ArrayNewExpr{
		Elem: b.NamedType("string"),
		Rank: 1,
		Init: initOf(b, ast.InitArray, b.Ident("a"), b.Ident("b")),
	})
	f.converted(lit, f.typ(oracle.KindArray, "string[]"), f.typ(oracle.KindInterface, "IEnumerable<string>"))
	body := b.Block(b.Return(lit))

	got := f.run(t, NewInitializers(), body)
	want := "{ var __init1 = new string[2]; __init1[0] = a; __init1[1] = b; return __init1; }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInitializerNestedMemberInitializer(t *testing.T) {
	f := newFixture()
	b := f.b
	lit := newWith(b, "Order", initOf(b, ast.InitObject,
		b.Assign(b.Ident("Lines"), initOf(b, ast.InitCollection, b.Ident("l"))),
	))
	f.converted(lit, f.typ(oracle.KindClass, "Order"), f.typ(oracle.KindClass, "object"))
	body := b.Block(b.Return(lit))

	got := f.run(t, NewInitializers(), body)
	want := "{ var __init1 = new Order(); __init1.Lines.Add(l); return __init1; }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestInitializerSameTypeStays(t *testing.T) {
	f := newFixture()
	b := f.b
	list := f.typ(oracle.KindClass, "List<int>")
	lit := f.converted(newWith(b, "List<int>", initOf(b, ast.InitCollection, b.Int("1"))), list, list)
	root := unitWith(b, b.Block(b.Local(b.VarType(), "xs", lit)))

	if out := f.apply(t, NewInitializers(), root); out.Root != root {
		t.Fatalf("tree rewritten")
	}
	if f.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %s", diag.Short(f.bag.Items(), false))
	}
}

func TestInitializerSkips(t *testing.T) {
	tests := []struct {
		name string
		lit  func(f *fixture) ast.ExprID
		code diag.Code
	}{
		{"no facts", func(f *fixture) ast.ExprID {
			return newWith(f.b, "List<int>", initOf(f.b, ast.InitCollection, f.b.Int("1")))
		}, diag.DsgSkippedNoFacts},
		{"multi-dimensional array", func(f *fixture) ast.ExprID {
			b := f.b
			lit := b.NewExpr(source.Span{}, ast.ArrayNewExpr{Elem: b.NamedType("int"), Rank: 2, Init: initOf(b, ast.InitArray,
				initOf(b, ast.InitArray, b.Int("1")),
			)})
			return f.converted(lit, f.typ(oracle.KindArray, "int[,]"), f.typ(oracle.KindClass, "object"))
		}, diag.DsgSkippedUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			b := f.b
			root := unitWith(b, b.Block(b.Return(tt.lit(f))))
			if out := f.apply(t, NewInitializers(), root); out.Root != root {
				t.Fatalf("tree rewritten")
			}
			if diff := cmp.Diff([]diag.Code{tt.code}, f.codes()); diff != "" {
				t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
