package format

import (
	"desugar/internal/ast"
)

type printer struct {
	b *ast.Builder
	w *Writer
}

func newPrinter(b *ast.Builder) *printer {
	return &printer{b: b, w: NewWriter(1 << 10)}
}

// Tree prints the whole compilation unit.
func Tree(t *ast.Tree) []byte {
	if t == nil || t.B == nil {
		return nil
	}
	p := newPrinter(t.B)
	p.decl(t.Root)
	return p.w.Bytes()
}

// TreeString is Tree as a string.
func TreeString(t *ast.Tree) string {
	return string(Tree(t))
}

// Expr prints one expression with its trivia.
func Expr(b *ast.Builder, id ast.ExprID) string {
	p := newPrinter(b)
	p.expr(id)
	return p.w.String()
}

// Stmt prints one statement with its trivia.
func Stmt(b *ast.Builder, id ast.StmtID) string {
	p := newPrinter(b)
	p.stmt(id)
	return p.w.String()
}

// Decl prints one declaration with its trivia.
func Decl(b *ast.Builder, id ast.DeclID) string {
	p := newPrinter(b)
	p.decl(id)
	return p.w.String()
}

// Type prints type syntax without trivia.
func Type(b *ast.Builder, id ast.TypeID) string {
	p := newPrinter(b)
	p.typeBody(id)
	return p.w.String()
}

// Pattern prints a pattern with its trivia.
func Pattern(b *ast.Builder, id ast.PatternID) string {
	p := newPrinter(b)
	p.pattern(id)
	return p.w.String()
}

func (p *printer) mods(mods []string) {
	for _, m := range mods {
		p.w.WriteString(m)
		p.w.WriteString(" ")
	}
}

func (p *printer) list(n int, each func(i int)) {
	for i := range n {
		if i > 0 {
			p.w.WriteString(", ")
		}
		each(i)
	}
}

func (p *printer) exprList(ids []ast.ExprID) {
	p.list(len(ids), func(i int) { p.expr(ids[i]) })
}

func (p *printer) params(ps []ast.Param) {
	p.list(len(ps), func(i int) {
		prm := ps[i]
		if prm.Ref != ast.RefNone {
			p.w.WriteString(prm.Ref.String())
			p.w.WriteString(" ")
		}
		if prm.Type.IsValid() {
			p.typ(prm.Type)
			p.w.WriteString(" ")
		}
		p.w.WriteString(prm.Name)
	})
}

func (p *printer) typeParams(names []string) {
	if len(names) == 0 {
		return
	}
	p.w.WriteString("<")
	p.list(len(names), func(i int) { p.w.WriteString(names[i]) })
	p.w.WriteString(">")
}
