package format

import (
	"strings"

	"desugar/internal/ast"
)

func (p *printer) expr(id ast.ExprID) {
	e := p.b.Expr(id)
	if e == nil {
		return
	}
	p.w.Trivia(e.Lead)
	p.exprBody(e)
	p.w.Trivia(e.Trail)
}

func (p *printer) args(args []ast.Arg) {
	p.list(len(args), func(i int) {
		a := args[i]
		if a.Name != "" {
			p.w.WriteString(a.Name)
			p.w.WriteString(": ")
		}
		if a.Ref != ast.RefNone {
			p.w.WriteString(a.Ref.String())
			p.w.WriteString(" ")
		}
		p.expr(a.Value)
	})
}

func (p *printer) typeArgs(args []ast.TypeID) {
	if len(args) == 0 {
		return
	}
	p.w.WriteString("<")
	p.list(len(args), func(i int) { p.typ(args[i]) })
	p.w.WriteString(">")
}

func (p *printer) exprBody(e *ast.Expr) {
	switch d := e.Data.(type) {
	case ast.IdentExpr:
		p.w.WriteString(d.Name)
	case ast.LitExpr:
		p.w.WriteString(d.Text)
	case ast.ThisExpr:
		p.w.WriteString("this")
	case ast.MemberExpr:
		p.expr(d.Target)
		if d.Optional {
			p.w.WriteString("?.")
		} else {
			p.w.WriteString(".")
		}
		p.w.WriteString(d.Name)
		p.typeArgs(d.TypeArgs)
	case ast.IndexExpr:
		p.expr(d.Target)
		if d.Optional {
			p.w.WriteString("?[")
		} else {
			p.w.WriteString("[")
		}
		p.exprList(d.Args)
		p.w.WriteString("]")
	case ast.CallExpr:
		p.expr(d.Target)
		p.w.WriteString("(")
		p.args(d.Args)
		p.w.WriteString(")")
	case ast.UnaryExpr:
		if d.Postfix {
			p.expr(d.Operand)
			p.w.WriteString(d.Op.String())
			return
		}
		p.w.WriteString(d.Op.String())
		if d.Op.IsWord() {
			p.w.WriteString(" ")
		}
		p.expr(d.Operand)
	case ast.BinaryExpr:
		p.expr(d.Left)
		p.w.WriteString(" " + d.Op.String() + " ")
		p.expr(d.Right)
	case ast.AssignExpr:
		p.expr(d.Target)
		p.w.WriteString(" " + d.Op.String() + " ")
		p.expr(d.Value)
	case ast.TernaryExpr:
		p.expr(d.Cond)
		p.w.WriteString(" ? ")
		p.expr(d.Then)
		p.w.WriteString(" : ")
		p.expr(d.Else)
	case ast.CastExpr:
		p.w.WriteString("(")
		p.typ(d.Type)
		p.w.WriteString(")")
		p.expr(d.Value)
	case ast.AsExpr:
		p.expr(d.Value)
		p.w.WriteString(" as ")
		p.typ(d.Type)
	case ast.GroupExpr:
		p.w.WriteString("(")
		p.expr(d.Inner)
		p.w.WriteString(")")
	case ast.LambdaExpr:
		p.lambda(d)
	case ast.NewExpr:
		p.w.WriteString("new ")
		p.typ(d.Type)
		if d.Parens {
			p.w.WriteString("(")
			p.args(d.Args)
			p.w.WriteString(")")
		}
		if d.Init.IsValid() {
			p.w.WriteString(" ")
			p.expr(d.Init)
		}
	case ast.AnonObjectExpr:
		if len(d.Members) == 0 {
			p.w.WriteString("new { }")
			return
		}
		p.w.WriteString("new { ")
		p.list(len(d.Members), func(i int) {
			m := d.Members[i]
			if m.Name != "" {
				p.w.WriteString(m.Name)
				p.w.WriteString(" = ")
			}
			p.expr(m.Value)
		})
		p.w.WriteString(" }")
	case ast.TupleExpr:
		p.w.WriteString("(")
		p.list(len(d.Elems), func(i int) {
			el := d.Elems[i]
			if el.Name != "" {
				p.w.WriteString(el.Name)
				p.w.WriteString(": ")
			}
			p.expr(el.Value)
		})
		p.w.WriteString(")")
	case ast.ArrayNewExpr:
		p.w.WriteString("new")
		if d.Elem.IsValid() {
			p.w.WriteString(" ")
			p.typ(d.Elem)
		}
		p.w.WriteString("[")
		if len(d.Sizes) > 0 {
			p.exprList(d.Sizes)
		} else if d.Rank > 1 {
			p.w.WriteString(strings.Repeat(",", d.Rank-1))
		}
		p.w.WriteString("]")
		if d.Init.IsValid() {
			p.w.WriteString(" ")
			p.expr(d.Init)
		}
	case ast.InitExpr:
		if len(d.Elems) == 0 {
			p.w.WriteString("{ }")
			return
		}
		p.w.WriteString("{ ")
		p.exprList(d.Elems)
		p.w.WriteString(" }")
	case ast.ImplicitIndexExpr:
		p.w.WriteString("[")
		p.exprList(d.Args)
		p.w.WriteString("]")
	case ast.IsExpr:
		p.expr(d.Value)
		p.w.WriteString(" is ")
		p.pattern(d.Pattern)
	case ast.QueryExpr:
		p.query(d)
	case ast.DefaultExpr:
		if !d.Type.IsValid() {
			p.w.WriteString("default")
			return
		}
		p.w.WriteString("default(")
		p.typ(d.Type)
		p.w.WriteString(")")
	case ast.ThrowExpr:
		p.w.WriteString("throw ")
		p.expr(d.Value)
	case ast.DeclExpr:
		p.typ(d.Type)
		p.w.WriteString(" ")
		if d.Parens {
			p.w.WriteString("(" + strings.Join(d.Names, ", ") + ")")
		} else if len(d.Names) > 0 {
			p.w.WriteString(d.Names[0])
		}
	case ast.RangeExpr:
		p.expr(d.Start)
		p.w.WriteString("..")
		p.expr(d.End)
	}
}

func (p *printer) lambda(d ast.LambdaExpr) {
	if d.Async {
		p.w.WriteString("async ")
	}
	bare := !d.Parens && len(d.Params) == 1 && !d.Params[0].Type.IsValid() && d.Params[0].Ref == ast.RefNone
	if bare {
		p.w.WriteString(d.Params[0].Name)
	} else {
		p.w.WriteString("(")
		p.params(d.Params)
		p.w.WriteString(")")
	}
	p.w.WriteString(" =>")
	if d.Block.IsValid() {
		p.subStmt(d.Block)
		return
	}
	p.w.WriteString(" ")
	p.expr(d.Body)
}
