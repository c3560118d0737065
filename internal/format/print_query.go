package format

import "desugar/internal/ast"

func (p *printer) query(q ast.QueryExpr) {
	p.w.Trivia(q.From.Lead)
	p.w.WriteString("from ")
	if q.From.Type.IsValid() {
		p.typ(q.From.Type)
		p.w.WriteString(" ")
	}
	p.w.WriteString(q.From.Name + " in ")
	p.expr(q.From.Source)
	p.queryBody(&q.Body)
}

func (p *printer) queryBody(body *ast.QueryBody) {
	for _, c := range body.Clauses {
		p.w.Gap(c.Lead)
		p.clause(c)
	}
	p.w.Gap(body.SelectLead)
	if body.IsGroup() {
		p.w.WriteString("group ")
		p.expr(body.GroupElem)
		p.w.WriteString(" by ")
		p.expr(body.GroupBy)
	} else {
		p.w.WriteString("select ")
		p.expr(body.Select)
	}
	if body.Cont != nil {
		p.w.Gap(body.Cont.Lead)
		p.w.WriteString("into " + body.Cont.Name)
		p.queryBody(&body.Cont.Body)
	}
}

func (p *printer) clause(c ast.Clause) {
	switch c.Kind {
	case ast.ClauseFrom:
		p.w.WriteString("from ")
		if c.Type.IsValid() {
			p.typ(c.Type)
			p.w.WriteString(" ")
		}
		p.w.WriteString(c.Name + " in ")
		p.expr(c.Expr)
	case ast.ClauseLet:
		p.w.WriteString("let " + c.Name + " = ")
		p.expr(c.Expr)
	case ast.ClauseWhere:
		p.w.WriteString("where ")
		p.expr(c.Expr)
	case ast.ClauseJoin:
		p.w.WriteString("join ")
		if c.Type.IsValid() {
			p.typ(c.Type)
			p.w.WriteString(" ")
		}
		p.w.WriteString(c.Name + " in ")
		p.expr(c.Expr)
		p.w.WriteString(" on ")
		p.expr(c.OuterKey)
		p.w.WriteString(" equals ")
		p.expr(c.InnerKey)
		if c.Into != "" {
			p.w.WriteString(" into " + c.Into)
		}
	case ast.ClauseOrderBy:
		p.w.WriteString("orderby ")
		p.list(len(c.Orderings), func(i int) {
			o := c.Orderings[i]
			p.expr(o.Key)
			switch {
			case o.Descending:
				p.w.WriteString(" descending")
			case o.Explicit:
				p.w.WriteString(" ascending")
			}
		})
	}
}
