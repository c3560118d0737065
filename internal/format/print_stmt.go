package format

import "desugar/internal/ast"

func (p *printer) stmt(id ast.StmtID) {
	s := p.b.Stmt(id)
	if s == nil {
		return
	}
	p.w.Trivia(s.Lead)
	p.stmtBody(s)
	p.w.Trivia(s.Trail)
}

// subStmt prints a statement that follows other tokens on the same construct:
// a trivia-less statement is separated by a single space.
func (p *printer) subStmt(id ast.StmtID) {
	s := p.b.Stmt(id)
	if s == nil {
		return
	}
	if len(s.Lead) == 0 {
		p.w.Space()
	}
	p.stmt(id)
}

func (p *printer) stmtList(ids []ast.StmtID) {
	for _, id := range ids {
		p.subStmt(id)
	}
}

func (p *printer) vars(vars []ast.VarDecl) {
	p.list(len(vars), func(i int) {
		v := vars[i]
		p.w.WriteString(v.Name)
		if v.Init.IsValid() {
			p.w.WriteString(" = ")
			p.expr(v.Init)
		}
	})
}

func (p *printer) stmtBody(s *ast.Stmt) {
	switch d := s.Data.(type) {
	case ast.BlockStmt:
		p.w.WriteString("{")
		p.stmtList(d.Stmts)
		p.w.Gap(d.CloseLead)
		p.w.WriteString("}")
	case ast.ExprStmt:
		p.expr(d.Expr)
		p.w.WriteString(";")
	case ast.LocalStmt:
		if d.Const {
			p.w.WriteString("const ")
		}
		p.typ(d.Type)
		p.w.WriteString(" ")
		p.vars(d.Vars)
		p.w.WriteString(";")
	case ast.IfStmt:
		p.w.WriteString("if (")
		p.expr(d.Cond)
		p.w.WriteString(")")
		p.subStmt(d.Then)
		if d.Else.IsValid() {
			p.w.Space()
			p.w.WriteString("else")
			p.subStmt(d.Else)
		}
	case ast.WhileStmt:
		p.w.WriteString("while (")
		p.expr(d.Cond)
		p.w.WriteString(")")
		p.subStmt(d.Body)
	case ast.ForeachStmt:
		p.w.WriteString("foreach (")
		p.typ(d.Type)
		p.w.WriteString(" " + d.Name + " in ")
		p.expr(d.Source)
		p.w.WriteString(")")
		p.subStmt(d.Body)
	case ast.ReturnStmt:
		p.w.WriteString("return")
		if d.Value.IsValid() {
			p.w.WriteString(" ")
			p.expr(d.Value)
		}
		p.w.WriteString(";")
	case ast.ThrowStmt:
		p.w.WriteString("throw")
		if d.Value.IsValid() {
			p.w.WriteString(" ")
			p.expr(d.Value)
		}
		p.w.WriteString(";")
	case ast.BreakStmt:
		p.w.WriteString("break;")
	case ast.ContinueStmt:
		p.w.WriteString("continue;")
	case ast.SwitchStmt:
		p.switchStmt(d)
	case ast.LocalFuncStmt:
		p.decl(d.Decl)
	case ast.EmptyStmt:
		p.w.WriteString(";")
	}
}

func (p *printer) switchStmt(d ast.SwitchStmt) {
	p.w.WriteString("switch (")
	p.expr(d.Value)
	p.w.WriteString(") {")
	for _, sec := range d.Sections {
		p.w.Gap(sec.Lead)
		for i, l := range sec.Labels {
			if i > 0 {
				p.w.Space()
			}
			if l.Default {
				p.w.WriteString("default:")
				continue
			}
			p.w.WriteString("case ")
			p.pattern(l.Pattern)
			if l.When.IsValid() {
				p.w.WriteString(" when ")
				p.expr(l.When)
			}
			p.w.WriteString(":")
		}
		p.stmtList(sec.Stmts)
	}
	p.w.Gap(d.CloseLead)
	p.w.WriteString("}")
}
