package bundle

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"

	"desugar/internal/ast"
	"desugar/internal/format"
	"desugar/internal/oracle"
	"desugar/internal/source"
	"desugar/internal/token"
)

func sample() *File {
	b := ast.NewBuilder(ast.Hints{})
	tab := oracle.NewTable()
	x := b.ExprWithTrivia(b.Ident("x"), nil, []token.Trivia{token.Space(), token.BlockComment("/* seed */")})
	tab.SetType(x, tab.Named(oracle.KindStruct, "int"))
	m := b.NewDecl(source.Span{}, ast.MethodDecl{
		Ret:   b.NamedType("int"),
		Name:  "M",
		Block: b.Block(b.Return(x)),
	})
	cls := b.NewDecl(source.Span{}, ast.TypeDecl{Name: "C", Members: []ast.DeclID{m}})
	root := b.NewDecl(source.Span{}, ast.UnitDecl{Members: []ast.DeclID{cls}})
	return &File{Name: "sample", Tree: ast.NewTree(b, root), Facts: tab}
}

func TestWriteReadRoundTrip(t *testing.T) {
	in := sample()
	path := filepath.Join(t.TempDir(), "out", "sample.dsg")
	if err := Write(path, in); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if out.Name != in.Name {
		t.Fatalf("name = %q", out.Name)
	}
	want := format.Decl(in.Tree.B, in.Tree.Root)
	if got := format.Decl(out.Tree.B, out.Tree.Root); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if diff := cmp.Diff(in.Facts.ExprTypes, out.Facts.ExprTypes); diff != "" {
		t.Fatalf("facts mismatch (-want +got):\n%s", diff)
	}
	for id, ref := range out.Facts.ExprTypes {
		if d := out.Facts.Display(ref); d != "int" {
			t.Fatalf("expr %d has type %q", id, d)
		}
	}
}

func TestWriteLeavesOnlyTheBundle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.dsg")
	for range 2 {
		if err := Write(path, sample()); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "a.dsg" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("directory holds %v", names)
	}
}

func TestDecodeRejectsOtherSchema(t *testing.T) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.EncodeUint16(SchemaVersion + 1); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := Decode(&buf); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}

func TestDecodeWithoutFacts(t *testing.T) {
	in := sample()
	in.Facts = nil
	var buf bytes.Buffer
	if err := Encode(&buf, in); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	out, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if out.Facts != nil {
		t.Fatalf("facts appeared from nowhere")
	}
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "none.dsg"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v", err)
	}
}
