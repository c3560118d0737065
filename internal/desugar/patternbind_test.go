package desugar

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"desugar/internal/ast"
	"desugar/internal/diag"
	"desugar/internal/oracle"
	"desugar/internal/source"
	"desugar/internal/token"
)

func TestPatternBindingIsExpression(t *testing.T) {
	tests := []struct {
		name string
		pat  func(f *fixture) ast.PatternID
		want string
	}{
		{"reference type", func(f *fixture) ast.PatternID {
			return f.binds(f.b.DeclPat(f.b.NamedType("string"), "s"), "s", f.typ(oracle.KindClass, "string"))
		}, "{ string s = o as string; if (o is string) use(s); }"},
		{"value type", func(f *fixture) ast.PatternID {
			return f.binds(f.b.DeclPat(f.b.NamedType("int"), "s"), "s", f.typ(oracle.KindStruct, "int"))
		}, "{ int s = o is int ? (int)o : default(int); if (o is int) use(s); }"},
		{"var", func(f *fixture) ast.PatternID {
			return f.b.DeclPat(f.b.VarType(), "s")
		}, "{ var s = o; if (true) use(s); }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			b := f.b
			o := f.local("o", f.typ(oracle.KindClass, "object"))
			use := b.ExprStmt(b.Call(b.Ident("use"), b.Ident("s")))
			body := b.Block(b.If(b.Is(o, tt.pat(f)), use, ast.NoStmtID))
			if got := f.run(t, NewPatternBinding(), body); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPatternBindingSkips(t *testing.T) {
	tests := []struct {
		name string
		cond func(f *fixture, pat ast.PatternID) ast.ExprID
		code diag.Code
	}{
		{"impure subject", func(f *fixture, pat ast.PatternID) ast.ExprID {
			return f.b.Is(f.b.Call(f.b.Ident("next")), pat)
		}, diag.DsgSkippedImpure},
		{"member subject on a conditional path", func(f *fixture, pat ast.PatternID) ast.ExprID {
			o := f.local("o", f.typ(oracle.KindClass, "Box"))
			v := f.b.Member(o, "Value")
			f.tab.SetSymbol(v, f.tab.AddSymbol(oracle.Symbol{Kind: oracle.SymbolField, Name: "Value", ReadOnly: true}))
			return f.b.Binary(token.AndAnd, f.b.Ident("ready"), f.b.Is(v, pat))
		}, diag.DsgSkippedContext},
		{"loop condition", func(f *fixture, pat ast.PatternID) ast.ExprID {
			return f.b.Is(f.local("o", f.typ(oracle.KindClass, "object")), pat)
		}, diag.DsgSkippedContext},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			b := f.b
			pat := f.binds(b.DeclPat(b.NamedType("string"), "s"), "s", f.typ(oracle.KindClass, "string"))
			cond := tt.cond(f, pat)
			var s ast.StmtID
			if tt.name == "loop condition" {
				s = b.NewStmt(source.Span{}, ast.WhileStmt{Cond: cond, Body: b.Block()})
			} else {
				s = b.If(cond, b.Block(), ast.NoStmtID)
			}
			root := unitWith(b, b.Block(s))
			if out := f.apply(t, NewPatternBinding(), root); out.Root != root {
				t.Fatalf("tree rewritten")
			}
			if diff := cmp.Diff([]diag.Code{tt.code}, f.codes()); diff != "" {
				t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// switchOf builds `switch (o) { case T name: f(name); break; ... }`.
func switchOf(f *fixture, o ast.ExprID, labels ...[2]string) ast.StmtID {
	b := f.b
	var sections []ast.SwitchSection
	for _, l := range labels {
		kind := oracle.KindClass
		if l[0] == "int" {
			kind = oracle.KindStruct
		}
		pat := f.binds(b.DeclPat(b.NamedType(l[0]), l[1]), l[1], f.typ(kind, l[0]))
		sections = append(sections, ast.SwitchSection{
			Labels: []ast.SwitchLabel{{Pattern: pat}},
			Stmts:  []ast.StmtID{b.ExprStmt(b.Call(b.Ident("f"), b.Ident(l[1]))), b.NewStmt(source.Span{}, ast.BreakStmt{})},
		})
	}
	return b.NewStmt(source.Span{}, ast.SwitchStmt{Value: o, Sections: sections})
}

func TestPatternBindingSwitchSections(t *testing.T) {
	f := newFixture()
	o := f.local("o", f.typ(oracle.KindClass, "object"))
	body := f.b.Block(switchOf(f, o, [2]string{"string", "s"}, [2]string{"int", "n"}))

	got := f.run(t, NewPatternBinding(), body)
	want := "{ string s = o as string; int n = o is int ? (int)o : default(int); " +
		"switch (o) { case string: f(s); break; case int: f(n); break; } }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPatternBindingSwitchSharedName(t *testing.T) {
	f := newFixture()
	o := f.local("o", f.typ(oracle.KindClass, "object"))
	body := f.b.Block(switchOf(f, o, [2]string{"string", "x"}, [2]string{"int", "x"}))

	got := f.run(t, NewPatternBinding(), body)
	want := "{ object x = o; switch (o) { case string: f(((string)x)); break; case int: f(((int)x)); break; } }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPatternBindingSwitchSameTypeSharesDeclaration(t *testing.T) {
	f := newFixture()
	o := f.local("o", f.typ(oracle.KindClass, "object"))
	body := f.b.Block(switchOf(f, o, [2]string{"string", "x"}, [2]string{"string", "x"}))

	got := f.run(t, NewPatternBinding(), body)
	want := "{ string x = o as string; switch (o) { case string: f(x); break; case string: f(x); break; } }"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
