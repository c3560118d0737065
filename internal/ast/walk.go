package ast

// Visitor receives nodes in pre-order. Returning false skips the node's children.
// Nil callbacks visit without stopping.
type Visitor struct {
	Expr    func(ExprID, *Expr) bool
	Stmt    func(StmtID, *Stmt) bool
	Decl    func(DeclID, *Decl) bool
	Type    func(TypeID, *Type) bool
	Pattern func(PatternID, *Pattern) bool
}

// Walk visits the declaration root and everything below it.
func Walk(b *Builder, root DeclID, v Visitor) {
	w := walker{b: b, v: v}
	w.decl(root)
}

// WalkExpr visits an expression subtree.
func WalkExpr(b *Builder, root ExprID, v Visitor) {
	w := walker{b: b, v: v}
	w.expr(root)
}

// WalkStmt visits a statement subtree.
func WalkStmt(b *Builder, root StmtID, v Visitor) {
	w := walker{b: b, v: v}
	w.stmt(root)
}

type walker struct {
	b *Builder
	v Visitor
}

func (w *walker) exprs(ids []ExprID) {
	for _, id := range ids {
		w.expr(id)
	}
}

func (w *walker) args(args []Arg) {
	for _, a := range args {
		w.expr(a.Value)
	}
}

func (w *walker) expr(id ExprID) {
	e := w.b.Expr(id)
	if e == nil {
		return
	}
	if w.v.Expr != nil && !w.v.Expr(id, e) {
		return
	}
	switch d := e.Data.(type) {
	case MemberExpr:
		w.expr(d.Target)
		for _, t := range d.TypeArgs {
			w.typ(t)
		}
	case IndexExpr:
		w.expr(d.Target)
		w.exprs(d.Args)
	case CallExpr:
		w.expr(d.Target)
		w.args(d.Args)
	case UnaryExpr:
		w.expr(d.Operand)
	case BinaryExpr:
		w.expr(d.Left)
		w.expr(d.Right)
	case AssignExpr:
		w.expr(d.Target)
		w.expr(d.Value)
	case TernaryExpr:
		w.expr(d.Cond)
		w.expr(d.Then)
		w.expr(d.Else)
	case CastExpr:
		w.typ(d.Type)
		w.expr(d.Value)
	case AsExpr:
		w.expr(d.Value)
		w.typ(d.Type)
	case GroupExpr:
		w.expr(d.Inner)
	case LambdaExpr:
		for _, p := range d.Params {
			w.typ(p.Type)
		}
		w.expr(d.Body)
		w.stmt(d.Block)
	case NewExpr:
		w.typ(d.Type)
		w.args(d.Args)
		w.expr(d.Init)
	case AnonObjectExpr:
		for _, m := range d.Members {
			w.expr(m.Value)
		}
	case TupleExpr:
		for _, el := range d.Elems {
			w.expr(el.Value)
		}
	case ArrayNewExpr:
		w.typ(d.Elem)
		w.exprs(d.Sizes)
		w.expr(d.Init)
	case InitExpr:
		w.exprs(d.Elems)
	case ImplicitIndexExpr:
		w.exprs(d.Args)
	case IsExpr:
		w.expr(d.Value)
		w.pattern(d.Pattern)
	case QueryExpr:
		w.typ(d.From.Type)
		w.expr(d.From.Source)
		w.queryBody(&d.Body)
	case DefaultExpr:
		w.typ(d.Type)
	case ThrowExpr:
		w.expr(d.Value)
	case DeclExpr:
		w.typ(d.Type)
	case RangeExpr:
		w.expr(d.Start)
		w.expr(d.End)
	}
}

func (w *walker) queryBody(q *QueryBody) {
	for q != nil {
		for _, c := range q.Clauses {
			w.typ(c.Type)
			w.expr(c.Expr)
			w.expr(c.OuterKey)
			w.expr(c.InnerKey)
			for _, o := range c.Orderings {
				w.expr(o.Key)
			}
		}
		w.expr(q.Select)
		w.expr(q.GroupElem)
		w.expr(q.GroupBy)
		if q.Cont == nil {
			return
		}
		q = &q.Cont.Body
	}
}

func (w *walker) stmts(ids []StmtID) {
	for _, id := range ids {
		w.stmt(id)
	}
}

func (w *walker) stmt(id StmtID) {
	s := w.b.Stmt(id)
	if s == nil {
		return
	}
	if w.v.Stmt != nil && !w.v.Stmt(id, s) {
		return
	}
	switch d := s.Data.(type) {
	case BlockStmt:
		w.stmts(d.Stmts)
	case ExprStmt:
		w.expr(d.Expr)
	case LocalStmt:
		w.typ(d.Type)
		for _, v := range d.Vars {
			w.expr(v.Init)
		}
	case IfStmt:
		w.expr(d.Cond)
		w.stmt(d.Then)
		w.stmt(d.Else)
	case WhileStmt:
		w.expr(d.Cond)
		w.stmt(d.Body)
	case ForeachStmt:
		w.typ(d.Type)
		w.expr(d.Source)
		w.stmt(d.Body)
	case ReturnStmt:
		w.expr(d.Value)
	case ThrowStmt:
		w.expr(d.Value)
	case SwitchStmt:
		w.expr(d.Value)
		for _, sec := range d.Sections {
			for _, l := range sec.Labels {
				w.pattern(l.Pattern)
				w.expr(l.When)
			}
			w.stmts(sec.Stmts)
		}
	case LocalFuncStmt:
		w.decl(d.Decl)
	}
}

func (w *walker) decl(id DeclID) {
	d := w.b.Decl(id)
	if d == nil {
		return
	}
	if w.v.Decl != nil && !w.v.Decl(id, d) {
		return
	}
	switch v := d.Data.(type) {
	case UnitDecl:
		for _, m := range v.Members {
			w.decl(m)
		}
	case NamespaceDecl:
		for _, m := range v.Members {
			w.decl(m)
		}
	case TypeDecl:
		for _, t := range v.Bases {
			w.typ(t)
		}
		for _, m := range v.Members {
			w.decl(m)
		}
	case FieldDecl:
		w.typ(v.Type)
		for _, vd := range v.Vars {
			w.expr(vd.Init)
		}
	case PropertyDecl:
		w.typ(v.Type)
		for _, a := range v.Accessors {
			w.stmt(a.Block)
			w.expr(a.Body)
		}
		w.expr(v.Init)
		w.expr(v.Body)
	case MethodDecl:
		w.typ(v.Ret)
		for _, p := range v.Params {
			w.typ(p.Type)
		}
		w.stmt(v.Block)
		w.expr(v.Body)
	}
}

func (w *walker) typ(id TypeID) {
	t := w.b.Type(id)
	if t == nil {
		return
	}
	if w.v.Type != nil && !w.v.Type(id, t) {
		return
	}
	for _, a := range t.Args {
		w.typ(a)
	}
	w.typ(t.Elem)
}

func (w *walker) pattern(id PatternID) {
	p := w.b.Pattern(id)
	if p == nil {
		return
	}
	if w.v.Pattern != nil && !w.v.Pattern(id, p) {
		return
	}
	switch d := p.Data.(type) {
	case ConstPattern:
		w.expr(d.Value)
	case TypePattern:
		w.typ(d.Type)
	case DeclPattern:
		w.typ(d.Type)
	case RelationalPattern:
		w.expr(d.Value)
	case NotPattern:
		w.pattern(d.Inner)
	case BinaryPattern:
		w.pattern(d.Left)
		w.pattern(d.Right)
	case ListPattern:
		for _, el := range d.Elems {
			w.pattern(el)
		}
	case SlicePattern:
		w.pattern(d.Inner)
	case GroupPattern:
		w.pattern(d.Inner)
	}
}

// ContainsExpr reports whether any expression under root satisfies pred.
func ContainsExpr(b *Builder, root ExprID, pred func(*Expr) bool) bool {
	found := false
	WalkExpr(b, root, Visitor{Expr: func(_ ExprID, e *Expr) bool {
		if found {
			return false
		}
		if pred(e) {
			found = true
			return false
		}
		return true
	}})
	return found
}
