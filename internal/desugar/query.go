package desugar

import (
	"desugar/internal/ast"
	"desugar/internal/oracle"
	"desugar/internal/rewrite"
	"desugar/internal/source"
	"desugar/internal/token"
)

// Query lowers query comprehensions into chains of sequence-operator calls:
// Select, Where, SelectMany, Join, GroupJoin, OrderBy/ThenBy and GroupBy.
type Query struct {
	rewrite.Base
}

func NewQuery() *Query { return &Query{} }

func (*Query) Name() string            { return "query" }
func (*Query) IsPurelySyntactic() bool { return true }

func (p *Query) Apply(tree *ast.Tree, orc oracle.Oracle) (*ast.Tree, error) {
	return rewrite.Apply(tree, queryRules{}, p.Options(p.Name(), orc))
}

type queryRules struct{ rewrite.BaseRules }

func (queryRules) Expr(e *rewrite.Engine, id ast.ExprID) (ast.ExprID, bool) {
	q, ok := ast.ExprAs[ast.QueryExpr](e.B, id)
	if !ok {
		return ast.NoExprID, false
	}
	l := &lowering{e: e}
	return e.B.CarryExpr(id, l.query(q)), true
}

// rangeShape describes how the range variables in scope are reached from
// the single parameter of the next clause lambda. A variable with an empty
// path is the parameter itself; every other one sits behind one member
// access per carrier tuple wrapped around it since it was introduced.
type rangeShape struct {
	param string
	paths map[string][]string
}

func singleRange(name string) rangeShape {
	return rangeShape{param: name, paths: map[string][]string{name: nil}}
}

// carry returns the shape after the current one and name were paired into
// the tuple `(param, name)` bound to a fresh parameter.
func (s rangeShape) carry(param, name string) rangeShape {
	paths := make(map[string][]string, len(s.paths)+1)
	for v, p := range s.paths {
		paths[v] = append([]string{s.param}, p...)
	}
	paths[name] = []string{name}
	return rangeShape{param: param, paths: paths}
}

// lowering is the state of one comprehension: the call chain built so far,
// the shape its elements have and the trivia of dropped clause keywords
// waiting for a token to attach to.
type lowering struct {
	e       *rewrite.Engine
	src     ast.ExprID
	shape   rangeShape
	called  bool
	pending []token.Trivia
}

func (l *lowering) query(q ast.QueryExpr) ast.ExprID {
	b := l.e.B
	l.src = prependLead(b, l.e.Expr(q.From.Source), q.From.Lead)
	l.shape = singleRange(q.From.Name)
	if q.From.Type.IsValid() {
		l.src = l.cast(l.src, q.From.Type)
		l.called = true
	}
	body := &q.Body
	for {
		l.body(*body)
		if body.Cont == nil {
			break
		}
		// into: the query so far is the source of a new one over a single variable
		l.pending = ast.Concat(l.pending, body.Cont.Lead)
		l.shape = singleRange(body.Cont.Name)
		l.called = true
		body = &body.Cont.Body
	}
	out := appendTrail(b, l.src, detached(l.pending))
	l.pending = nil
	return out
}

func (l *lowering) body(body ast.QueryBody) {
	for i, c := range body.Clauses {
		fuse := i == len(body.Clauses)-1 && !body.IsGroup()
		if l.clause(c, fuse, body) {
			return
		}
	}
	l.terminal(body)
}

// clause lowers one body clause. A from or join clause directly followed by
// select absorbs the projection into its result selector; clause reports
// whether it did.
func (l *lowering) clause(c ast.Clause, fuse bool, body ast.QueryBody) bool {
	b := l.e.B
	switch c.Kind {
	case ast.ClauseFrom:
		coll := l.scoped(c.Expr)
		if c.Type.IsValid() {
			coll = l.cast(coll, c.Type)
		}
		first := l.lead(c.Lead, b.Lambda(coll, l.shape.param))
		if fuse {
			l.call("SelectMany", first, l.selector(body, c.Name))
			return true
		}
		l.combine("SelectMany", c.Name, first)

	case ast.ClauseLet:
		val := l.scoped(c.Expr)
		carrier := b.NewExpr(source.Span{}, ast.TupleExpr{Elems: []ast.TupleElem{
			{Value: b.Ident(l.shape.param)},
			{Name: c.Name, Value: val},
		}})
		param := l.e.Namer.Fresh("ti")
		l.call("Select", l.lead(c.Lead, b.Lambda(carrier, l.shape.param)))
		l.shape = l.shape.carry(param, c.Name)

	case ast.ClauseWhere:
		l.call("Where", l.lead(c.Lead, b.Lambda(l.scoped(c.Expr), l.shape.param)))

	case ast.ClauseJoin:
		// the inner source and key see none of the outer range variables
		inner := l.e.BarrierExpr(c.Expr)
		if c.Type.IsValid() {
			inner = l.cast(inner, c.Type)
		}
		inner = l.lead(c.Lead, inner)
		outerKey := b.Lambda(l.scoped(c.OuterKey), l.shape.param)
		innerKey := b.Lambda(l.e.BarrierExpr(c.InnerKey), c.Name)
		method, name := "Join", c.Name
		if c.Into != "" {
			method, name = "GroupJoin", c.Into
		}
		if fuse {
			l.call(method, inner, outerKey, innerKey, l.selector(body, name))
			return true
		}
		l.combine(method, name, inner, outerKey, innerKey)

	case ast.ClauseOrderBy:
		if len(c.Orderings) == 0 {
			rewrite.Violationf("orderby clause without keys")
		}
		for i, o := range c.Orderings {
			method := "ThenBy"
			if i == 0 {
				method = "OrderBy"
			}
			if o.Descending {
				method += "Descending"
			}
			key := b.Lambda(l.scoped(o.Key), l.shape.param)
			if i == 0 {
				key = l.lead(c.Lead, key)
			}
			l.call(method, key)
		}

	default:
		rewrite.Violationf("query clause %s can not be lowered", c.Kind)
	}
	return false
}

func (l *lowering) terminal(body ast.QueryBody) {
	b := l.e.B
	if body.IsGroup() {
		key := l.lead(body.SelectLead, b.Lambda(l.scoped(body.GroupBy), l.shape.param))
		if l.identity(body.GroupElem) {
			l.drop(body.GroupElem)
			l.call("GroupBy", key)
			return
		}
		l.call("GroupBy", key, b.Lambda(l.scoped(body.GroupElem), l.shape.param))
		return
	}
	if !body.Select.IsValid() {
		rewrite.Violationf("query body ends in neither select nor group")
	}
	if l.called && l.identity(body.Select) {
		l.pending = ast.Concat(l.pending, body.SelectLead)
		l.drop(body.Select)
		return
	}
	l.call("Select", l.lead(body.SelectLead, b.Lambda(l.scoped(body.Select), l.shape.param)))
}

// selector is the two-parameter result selector of a fused from or join.
func (l *lowering) selector(body ast.QueryBody, name string) ast.ExprID {
	return l.lead(body.SelectLead, l.e.B.Lambda(l.scoped(body.Select), l.shape.param, name))
}

// combine emits method with a result selector pairing the current shape and
// name into a carrier tuple, then continues over the carrier.
func (l *lowering) combine(method, name string, args ...ast.ExprID) {
	b := l.e.B
	param := l.e.Namer.Fresh("ti")
	carrier := b.Tuple(b.Ident(l.shape.param), b.Ident(name))
	args = append(args, b.Lambda(carrier, l.shape.param, name))
	l.call(method, args...)
	l.shape = l.shape.carry(param, name)
}

func (l *lowering) call(method string, args ...ast.ExprID) {
	l.src = l.e.B.Invoke(receiver(l.e.B, l.src), method, args...)
	l.called = true
}

func (l *lowering) cast(src ast.ExprID, t ast.TypeID) ast.ExprID {
	b := l.e.B
	return b.Call(b.GenericMember(receiver(b, src), "Cast", t))
}

// scoped rewrites a clause expression for a lambda over the current shape.
func (l *lowering) scoped(id ast.ExprID) ast.ExprID {
	shape := l.shape
	b := l.e.B
	return rewrite.Substitute(l.e, l.e.BarrierExpr(id), func(name string) (ast.ExprID, bool) {
		path, ok := shape.paths[name]
		if !ok || len(path) == 0 {
			return ast.NoExprID, false
		}
		x := b.Ident(shape.param)
		for _, m := range path {
			x = b.Member(x, m)
		}
		return x, true
	})
}

// identity reports whether id names the element itself.
func (l *lowering) identity(id ast.ExprID) bool {
	x, ok := ast.ExprAs[ast.IdentExpr](l.e.B, id)
	if !ok {
		return false
	}
	path, ok := l.shape.paths[x.Name]
	return ok && len(path) == 0
}

// drop keeps the comments of an expression that is not emitted.
func (l *lowering) drop(id ast.ExprID) {
	if x := l.e.B.Expr(id); x != nil {
		l.pending = ast.Concat(l.pending, x.Lead, x.Trail)
	}
}

// lead attaches the pending trivia and a clause's own lead to the first
// argument of the call replacing the clause.
func (l *lowering) lead(run []token.Trivia, id ast.ExprID) ast.ExprID {
	run = ast.Concat(l.pending, run)
	l.pending = nil
	return prependLead(l.e.B, id, run)
}
