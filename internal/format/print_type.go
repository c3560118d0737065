package format

import (
	"strings"

	"desugar/internal/ast"
	"desugar/internal/token"
)

func (p *printer) typ(id ast.TypeID) {
	t := p.b.Type(id)
	if t == nil {
		return
	}
	p.w.Trivia(t.Lead)
	p.typeBody(id)
	p.w.Trivia(t.Trail)
}

func (p *printer) typeBody(id ast.TypeID) {
	t := p.b.Type(id)
	if t == nil {
		return
	}
	switch t.Kind {
	case ast.TypeNamed:
		p.w.WriteString(t.Name)
		p.typeArgs(t.Args)
	case ast.TypeNullable:
		p.typ(t.Elem)
		p.w.WriteString("?")
	case ast.TypeArray:
		p.typ(t.Elem)
		p.w.WriteString("[" + strings.Repeat(",", max(t.Rank, 1)-1) + "]")
	case ast.TypeVar:
		p.w.WriteString("var")
	}
}

func (p *printer) pattern(id ast.PatternID) {
	pt := p.b.Pattern(id)
	if pt == nil {
		return
	}
	p.w.Trivia(pt.Lead)
	switch d := pt.Data.(type) {
	case ast.DiscardPattern:
		p.w.WriteString("_")
	case ast.ConstPattern:
		p.expr(d.Value)
	case ast.TypePattern:
		p.typ(d.Type)
	case ast.DeclPattern:
		p.typ(d.Type)
		p.w.WriteString(" " + d.Name)
	case ast.RelationalPattern:
		p.w.WriteString(d.Op.String() + " ")
		p.expr(d.Value)
	case ast.NotPattern:
		p.w.WriteString("not ")
		p.pattern(d.Inner)
	case ast.BinaryPattern:
		p.pattern(d.Left)
		op := "and"
		if d.Op == token.KwOr {
			op = "or"
		}
		p.w.WriteString(" " + op + " ")
		p.pattern(d.Right)
	case ast.ListPattern:
		p.w.WriteString("[")
		p.list(len(d.Elems), func(i int) { p.pattern(d.Elems[i]) })
		p.w.WriteString("]")
	case ast.SlicePattern:
		p.w.WriteString("..")
		if d.Inner.IsValid() {
			p.w.WriteString(" ")
			p.pattern(d.Inner)
		}
	case ast.GroupPattern:
		p.w.WriteString("(")
		p.pattern(d.Inner)
		p.w.WriteString(")")
	}
	p.w.Trivia(pt.Trail)
}
