package format

import "desugar/internal/ast"

func (p *printer) decl(id ast.DeclID) {
	d := p.b.Decl(id)
	if d == nil {
		return
	}
	p.w.Trivia(d.Lead)
	p.declBody(d)
	p.w.Trivia(d.Trail)
}

func (p *printer) members(ids []ast.DeclID) {
	for _, id := range ids {
		d := p.b.Decl(id)
		if d == nil {
			continue
		}
		if len(d.Lead) == 0 {
			p.w.Space()
		}
		p.decl(id)
	}
}

func (p *printer) declBody(d *ast.Decl) {
	switch v := d.Data.(type) {
	case ast.UnitDecl:
		p.members(v.Members)
	case ast.UsingDecl:
		p.w.WriteString("using " + v.Name + ";")
	case ast.NamespaceDecl:
		p.w.WriteString("namespace " + v.Name + " {")
		p.members(v.Members)
		p.w.Gap(v.CloseLead)
		p.w.WriteString("}")
	case ast.TypeDecl:
		p.mods(v.Mods)
		p.w.WriteString(v.Kind.String() + " " + v.Name)
		p.typeParams(v.TypeParams)
		if len(v.Bases) > 0 {
			p.w.WriteString(" : ")
			p.list(len(v.Bases), func(i int) { p.typ(v.Bases[i]) })
		}
		p.w.WriteString(" {")
		p.members(v.Members)
		p.w.Gap(v.CloseLead)
		p.w.WriteString("}")
	case ast.FieldDecl:
		p.mods(v.Mods)
		p.typ(v.Type)
		p.w.WriteString(" ")
		p.vars(v.Vars)
		p.w.WriteString(";")
	case ast.PropertyDecl:
		p.property(v)
	case ast.MethodDecl:
		p.method(v)
	}
}

func (p *printer) property(v ast.PropertyDecl) {
	p.mods(v.Mods)
	p.typ(v.Type)
	p.w.WriteString(" " + v.Name)
	if v.Body.IsValid() {
		p.w.WriteString(" => ")
		p.expr(v.Body)
		p.w.WriteString(";")
		return
	}
	p.w.WriteString(" {")
	for _, a := range v.Accessors {
		p.w.Gap(a.Lead)
		p.mods(a.Mods)
		p.w.WriteString(a.Kind.String())
		switch {
		case a.Block.IsValid():
			p.subStmt(a.Block)
		case a.Body.IsValid():
			p.w.WriteString(" => ")
			p.expr(a.Body)
			p.w.WriteString(";")
		default:
			p.w.WriteString(";")
		}
	}
	p.w.Space()
	p.w.WriteString("}")
	if v.Init.IsValid() {
		p.w.WriteString(" = ")
		p.expr(v.Init)
		p.w.WriteString(";")
	}
}

func (p *printer) method(v ast.MethodDecl) {
	p.mods(v.Mods)
	switch v.Kind {
	case ast.MethodConstructor:
		p.w.WriteString(v.Name)
	case ast.MethodOperator:
		p.typ(v.Ret)
		p.w.WriteString(" operator " + v.Name)
	default:
		p.typ(v.Ret)
		p.w.WriteString(" " + v.Name)
		p.typeParams(v.TypeParams)
	}
	p.w.WriteString("(")
	p.params(v.Params)
	p.w.WriteString(")")
	switch {
	case v.Block.IsValid():
		p.subStmt(v.Block)
	case v.Body.IsValid():
		p.w.WriteString(" => ")
		p.expr(v.Body)
		p.w.WriteString(";")
	default:
		p.w.WriteString(";")
	}
}
