package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"

	"desugar/internal/source"
	"desugar/internal/token"
)

func sampleTree(t *testing.T) *Tree {
	t.Helper()
	b := NewBuilder(Hints{})
	call := b.Invoke(b.Ident("c"), "f")
	member := b.AddExpr(Expr{
		Span:  source.Span{Start: 4, End: 9},
		Lead:  []token.Trivia{token.BlockComment("/* recv */"), token.Space()},
		Data:  MemberExpr{Target: b.Ident("c"), Name: "Val", Optional: true},
	})
	body := b.Block(
		b.StmtWithTrivia(b.ExprStmt(call), []token.Trivia{token.Newline(), {Kind: token.TriviaSpace, Text: "    "}}, []token.Trivia{token.Space(), token.LineComment("// note")}),
		b.Local(b.NullableType(b.NamedType("int")), "length", member),
	)
	m := b.NewDecl(source.Span{}, MethodDecl{Ret: b.NamedType("void"), Name: "M", Block: body})
	cls := b.NewDecl(source.Span{}, TypeDecl{Name: "C", Members: []DeclID{m}})
	unit := b.NewDecl(source.Span{}, UnitDecl{Members: []DeclID{cls}})
	return NewTree(b, unit)
}

func TestRebuildRecordsOrigin(t *testing.T) {
	b := NewBuilder(Hints{})
	x := b.AddExpr(Expr{Lead: []token.Trivia{token.Space()}, Data: IdentExpr{Name: "x"}})
	y := b.RebuildExpr(x, IdentExpr{Name: "y"})
	z := b.RebuildExpr(y, IdentExpr{Name: "z"})

	if got := b.Expr(y).Origin; got != x {
		t.Fatalf("origin of rebuilt node = %d, want %d", got, x)
	}
	if got := b.Root(z); got != x {
		t.Fatalf("Root(z) = %d, want %d", got, x)
	}
	if len(b.Expr(z).Lead) != 1 {
		t.Fatalf("rebuilt node lost its lead trivia")
	}
	if b.Expr(z).Kind != ExprIdent {
		t.Fatalf("kind = %s, want ident", b.Expr(z).Kind)
	}
}

func TestCarryExprKeepsAllTrivia(t *testing.T) {
	b := NewBuilder(Hints{})
	from := b.AddExpr(Expr{
		Lead:  []token.Trivia{token.BlockComment("/*a*/")},
		Trail: []token.Trivia{token.BlockComment("/*b*/")},
		Data:  IdentExpr{Name: "old"},
	})
	to := b.AddExpr(Expr{Trail: []token.Trivia{token.BlockComment("/*c*/")}, Data: IdentExpr{Name: "new"}})
	got := b.Expr(b.CarryExpr(from, to))

	want := []token.Trivia{token.BlockComment("/*c*/"), token.BlockComment("/*b*/")}
	if diff := cmp.Diff(want, got.Trail); diff != "" {
		t.Fatalf("trail mismatch (-want +got):\n%s", diff)
	}
	if len(got.Lead) != 1 || got.Lead[0].Text != "/*a*/" {
		t.Fatalf("lead = %v", got.Lead)
	}
}

func TestTreeComments(t *testing.T) {
	tree := sampleTree(t)
	got := tree.Comments()
	want := []token.Trivia{token.LineComment("// note"), token.BlockComment("/* recv */")}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("comments mismatch (-want +got):\n%s", diff)
	}
}

func TestTreeMsgpackRoundTrip(t *testing.T) {
	tree := sampleTree(t)
	raw, err := msgpack.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Tree
	if err := msgpack.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Root != tree.Root {
		t.Fatalf("root = %d, want %d", back.Root, tree.Root)
	}
	if back.B.Exprs.Len() != tree.B.Exprs.Len() {
		t.Fatalf("exprs = %d, want %d", back.B.Exprs.Len(), tree.B.Exprs.Len())
	}
	opts := cmp.AllowUnexported(Arena[Expr]{}, Arena[Stmt]{}, Arena[Decl]{}, Arena[Type]{}, Arena[Pattern]{})
	if diff := cmp.Diff(tree.B, back.B, opts); diff != "" {
		t.Fatalf("builder mismatch after round trip (-want +got):\n%s", diff)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	tree := sampleTree(t)
	var kinds []ExprKind
	Walk(tree.B, tree.Root, Visitor{Expr: func(_ ExprID, e *Expr) bool {
		kinds = append(kinds, e.Kind)
		return e.Kind != ExprCall
	}})
	want := []ExprKind{ExprCall, ExprMember, ExprIdent}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Fatalf("visit order mismatch (-want +got):\n%s", diff)
	}
}

func TestAndAll(t *testing.T) {
	b := NewBuilder(Hints{})
	if b.AndAll().IsValid() {
		t.Fatalf("AndAll() of nothing must be absent")
	}
	one := b.Ident("a")
	if b.AndAll(one) != one {
		t.Fatalf("AndAll of one term must return it")
	}
	id := b.AndAll(one, b.Ident("b"), b.Ident("c"))
	top, ok := ExprAs[BinaryExpr](b, id)
	if !ok || top.Op != token.AndAnd {
		t.Fatalf("top = %#v", b.Expr(id).Data)
	}
	if _, ok := ExprAs[BinaryExpr](b, top.Left); !ok {
		t.Fatalf("chain must associate to the left")
	}
}

func TestAsCastSurvivesRoundTrip(t *testing.T) {
	b := NewBuilder(Hints{})
	id := b.As(b.Ident("o"), b.NamedType("string"))
	if k := b.ExprKindOf(id); k != ExprAsCast || k.String() != "as" {
		t.Fatalf("kind = %v", k)
	}
	m := b.NewDecl(source.Span{}, MethodDecl{Ret: b.NamedType("object"), Name: "M", Block: b.Block(b.Return(id))})
	tree := NewTree(b, b.NewDecl(source.Span{}, UnitDecl{Members: []DeclID{m}}))
	raw, err := msgpack.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Tree
	if err := msgpack.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	as, ok := ExprAs[AsExpr](back.B, id)
	if !ok || back.B.Type(as.Type).Name != "string" {
		t.Fatalf("decoded %#v", back.B.Expr(id).Data)
	}
}
