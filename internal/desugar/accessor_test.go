package desugar

import (
	"testing"

	"desugar/internal/ast"
	"desugar/internal/format"
	"desugar/internal/source"
)

func autoProp(b *ast.Builder, typ, name string, kinds ...ast.AccessorKind) ast.PropertyDecl {
	accs := make([]ast.Accessor, len(kinds))
	for i, k := range kinds {
		accs[i] = ast.Accessor{Kind: k}
	}
	return ast.PropertyDecl{Mods: []string{"public"}, Type: b.NamedType(typ), Name: name, Accessors: accs}
}

func ctorOf(b *ast.Builder, name string, param string, body ...ast.StmtID) ast.DeclID {
	return b.NewDecl(source.Span{}, ast.MethodDecl{
		Kind:   ast.MethodConstructor,
		Mods:   []string{"public"},
		Name:   name,
		Params: []ast.Param{{Name: param, Type: b.NamedType("int")}},
		Block:  b.Block(body...),
	})
}

func TestAutoAccessor(t *testing.T) {
	tests := []struct {
		name string
		decl func(b *ast.Builder) ast.DeclID
		want string
	}{
		{"get and set", func(b *ast.Builder) ast.DeclID {
			p := b.NewDecl(source.Span{}, autoProp(b, "int", "Price", ast.AccessorGet, ast.AccessorSet))
			return classOf(b, p)
		}, "class C { private int __Price_BackingField;" +
			" public int Price { get { return __Price_BackingField; } set { __Price_BackingField = value; } } }"},

		{"static with initializer", func(b *ast.Builder) ast.DeclID {
			pd := autoProp(b, "int", "Count", ast.AccessorGet, ast.AccessorSet)
			pd.Mods = append(pd.Mods, "static")
			pd.Init = b.Int("5")
			return classOf(b, b.NewDecl(source.Span{}, pd))
		}, "class C { private static int __Count_BackingField = 5;" +
			" public static int Count { get { return __Count_BackingField; } set { __Count_BackingField = value; } } }"},

		{"get-only assigned in constructor", func(b *ast.Builder) ast.DeclID {
			p := b.NewDecl(source.Span{}, autoProp(b, "int", "Price", ast.AccessorGet))
			ctor := ctorOf(b, "C", "p", b.ExprStmt(b.Assign(b.Ident("Price"), b.Ident("p"))))
			return classOf(b, p, ctor)
		}, "class C { private readonly int __Price_BackingField;" +
			" public int Price { get { return __Price_BackingField; } }" +
			" public C(int p) { __Price_BackingField = p; } }"},

		{"parameter shadows the property", func(b *ast.Builder) ast.DeclID {
			p := b.NewDecl(source.Span{}, autoProp(b, "int", "Price", ast.AccessorGet))
			ctor := ctorOf(b, "C", "Price", b.ExprStmt(b.Assign(b.Member(b.This(), "Price"), b.Ident("Price"))))
			return classOf(b, p, ctor)
		}, "class C { private readonly int __Price_BackingField;" +
			" public int Price { get { return __Price_BackingField; } }" +
			" public C(int Price) { this.__Price_BackingField = Price; } }"},

		{"local shadows the property", func(b *ast.Builder) ast.DeclID {
			p := b.NewDecl(source.Span{}, autoProp(b, "int", "Price", ast.AccessorGet))
			ctor := ctorOf(b, "C", "p",
				b.Local(b.NamedType("int"), "Price", b.Ident("p")),
				b.ExprStmt(b.Assign(b.Ident("Price"), b.Int("2"))),
				b.ExprStmt(b.Assign(b.Member(b.This(), "Price"), b.Ident("Price"))))
			return classOf(b, p, ctor)
		}, "class C { private readonly int __Price_BackingField;" +
			" public int Price { get { return __Price_BackingField; } }" +
			" public C(int p) { int Price = p; Price = 2; this.__Price_BackingField = Price; } }"},

		{"nested block local", func(b *ast.Builder) ast.DeclID {
			p := b.NewDecl(source.Span{}, autoProp(b, "int", "Price", ast.AccessorGet))
			inner := b.Block(
				b.Local(b.NamedType("int"), "Price", b.Int("1")),
				b.ExprStmt(b.Assign(b.Ident("Price"), b.Int("2"))))
			ctor := ctorOf(b, "C", "p", b.ExprStmt(b.Assign(b.Ident("Price"), b.Ident("p"))), inner)
			return classOf(b, p, ctor)
		}, "class C { private readonly int __Price_BackingField;" +
			" public int Price { get { return __Price_BackingField; } }" +
			" public C(int p) { __Price_BackingField = p; { int Price = 1; Price = 2; } } }"},

		{"struct constructor defaults fields", func(b *ast.Builder) ast.DeclID {
			p := b.NewDecl(source.Span{}, autoProp(b, "int", "X", ast.AccessorGet))
			ctor := ctorOf(b, "S", "x", b.ExprStmt(b.Call(b.Ident("Log"), b.Ident("x"))))
			return b.NewDecl(source.Span{}, ast.TypeDecl{Kind: ast.TypeDeclStruct, Name: "S", Members: []ast.DeclID{p, ctor}})
		}, "struct S { private readonly int __X_BackingField;" +
			" public int X { get { return __X_BackingField; } }" +
			" public S(int x) { this.__X_BackingField = default(int); Log(x); } }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			b := f.b
			out := f.apply(t, NewAutoAccessor(), unitOf(b, tt.decl(b)))
			unit, _ := out.Unit()
			if got := format.Decl(b, unit.Members[0]); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAutoAccessorLeavesOtherProperties(t *testing.T) {
	tests := []struct {
		name string
		decl func(b *ast.Builder) ast.DeclID
	}{
		{"interface", func(b *ast.Builder) ast.DeclID {
			p := b.NewDecl(source.Span{}, autoProp(b, "int", "P", ast.AccessorGet))
			return b.NewDecl(source.Span{}, ast.TypeDecl{Kind: ast.TypeDeclInterface, Name: "I", Members: []ast.DeclID{p}})
		}},
		{"abstract", func(b *ast.Builder) ast.DeclID {
			pd := autoProp(b, "int", "P", ast.AccessorGet)
			pd.Mods = append(pd.Mods, "abstract")
			return classOf(b, b.NewDecl(source.Span{}, pd))
		}},
		{"explicit accessor", func(b *ast.Builder) ast.DeclID {
			pd := autoProp(b, "int", "P", ast.AccessorGet, ast.AccessorSet)
			pd.Accessors[0].Block = b.Block(b.Return(b.Int("1")))
			return classOf(b, b.NewDecl(source.Span{}, pd))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			root := unitOf(f.b, tt.decl(f.b))
			if out := f.apply(t, NewAutoAccessor(), root); out.Root != root {
				t.Fatalf("tree rewritten: %s", format.Decl(f.b, out.Root))
			}
		})
	}
}
