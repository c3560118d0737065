package testkit

import (
	"strings"
	"testing"

	"desugar/internal/ast"
)

func TestGenerateOneStatementPerByte(t *testing.T) {
	data := []byte{FormGuardedCall, FormGuardedValue, FormNestedGuard, FormQuery, FormPlainCall, FormCount}
	tree, tab := Generate(data)
	if got := len(tree.Comments()); got != len(data) {
		t.Fatalf("%d comments, want %d", got, len(data))
	}
	if len(tab.ExprTypes) == 0 {
		t.Fatalf("no facts recorded")
	}
	err := CheckNoSugar(tree)
	if err == nil || !strings.Contains(err.Error(), "?.f") {
		t.Fatalf("CheckNoSugar = %v", err)
	}
}

func TestCheckNoSugarReportsFirst(t *testing.T) {
	tree, _ := Generate([]byte{FormPlainCall, FormGuardedCall, FormNestedGuard, FormQuery})
	err := CheckNoSugar(tree)
	if err == nil || !strings.Contains(err.Error(), "?.f") {
		t.Fatalf("CheckNoSugar = %v, want the guarded call", err)
	}
	if plain, _ := Generate([]byte{FormPlainCall, FormPlainCall}); CheckNoSugar(plain) != nil {
		t.Fatalf("plain statements reported: %v", CheckNoSugar(plain))
	}
}

func TestGenerateClampsLength(t *testing.T) {
	tree, _ := Generate(make([]byte, MaxStatements*2))
	if got := len(tree.Comments()); got != MaxStatements {
		t.Fatalf("%d statements, want %d", got, MaxStatements)
	}
}

func TestCheckCommentsSeesDroppedComment(t *testing.T) {
	tree, _ := Generate([]byte{FormPlainCall, FormPlainCall})
	b := tree.B
	unit, _ := tree.Unit()
	cls, _ := ast.DeclAs[ast.TypeDecl](b, unit.Members[0])
	m, _ := ast.DeclAs[ast.MethodDecl](b, cls.Members[0])
	blk, _ := ast.StmtAs[ast.BlockStmt](b, m.Block)

	// первая инструкция теряет комментарий
	blk.Stmts = append([]ast.StmtID{b.StmtWithTrivia(blk.Stmts[0], nil, nil)}, blk.Stmts[1:]...)
	m.Block = b.RebuildStmt(m.Block, blk)
	cls.Members = []ast.DeclID{b.RebuildDecl(cls.Members[0], m)}
	unit.Members = []ast.DeclID{b.RebuildDecl(unit.Members[0], cls)}
	after := tree.With(b.RebuildDecl(tree.Root, unit))

	if err := CheckComments(tree, tree); err != nil {
		t.Fatalf("identical trees: %v", err)
	}
	err := CheckComments(tree, after)
	if err == nil || !strings.Contains(err.Error(), "// s0") {
		t.Fatalf("CheckComments = %v", err)
	}
}

func TestCheckIdempotent(t *testing.T) {
	tree, _ := Generate([]byte{FormPlainCall})
	same := func(t *ast.Tree) (*ast.Tree, error) { return t, nil }
	if err := CheckIdempotent(tree, same); err != nil {
		t.Fatalf("identity: %v", err)
	}
	rebuild := func(t *ast.Tree) (*ast.Tree, error) {
		unit, _ := t.Unit()
		return t.With(t.B.RebuildDecl(t.Root, unit)), nil
	}
	if err := CheckIdempotent(tree, rebuild); err == nil {
		t.Fatalf("a run that always rebuilds passed")
	}
}
