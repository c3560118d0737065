package desugar

import (
	"strconv"

	"desugar/internal/ast"
	"desugar/internal/diag"
	"desugar/internal/oracle"
	"desugar/internal/rewrite"
	"desugar/internal/source"
	"desugar/internal/token"
)

// ListPatterns lowers `s is [p0, p1, .., pn]` into a conjunction of a null
// test, a length test and one element test per non-discard position.
type ListPatterns struct {
	rewrite.Base
}

func NewListPatterns() *ListPatterns { return &ListPatterns{} }

func (*ListPatterns) Name() string            { return "list-pattern" }
func (*ListPatterns) IsPurelySyntactic() bool { return false }

func (p *ListPatterns) Apply(tree *ast.Tree, orc oracle.Oracle) (*ast.Tree, error) {
	return rewrite.Apply(tree, listRules{}, p.Options(p.Name(), orc))
}

type listRules struct{ rewrite.BaseRules }

func (listRules) Expr(e *rewrite.Engine, id ast.ExprID) (ast.ExprID, bool) {
	b := e.B
	is, ok := ast.ExprAs[ast.IsExpr](b, id)
	if !ok {
		return ast.NoExprID, false
	}
	if _, ok := ast.PatternAs[ast.ListPattern](b, is.Pattern); !ok {
		return ast.NoExprID, false
	}
	if !isPure(e, is.Value) {
		e.SkipExpr(diag.DsgSkippedImpure, id, "list pattern over an impure subject")
		return e.DefaultExpr(id), true
	}
	ref, t, ok := e.TypeOf(is.Value)
	if !ok {
		e.SkipExpr(diag.DsgSkippedNoFacts, id, "list pattern subject without a resolved type")
		return e.DefaultExpr(id), true
	}
	l := &listLowering{e: e, subject: e.Expr(is.Value)}
	out, why := l.lower(is.Pattern, ref, t)
	if why != "" {
		e.SkipExpr(diag.DsgSkippedUnsupported, id, why)
		return e.DefaultExpr(id), true
	}
	out = appendTrail(b, out, detached(l.dropped))
	return b.CarryExpr(id, groupIf(b, needsParens(e), out)), true
}

// listLowering lowers one list pattern. The subject keeps its trivia on its
// first use; every further copy is stripped.
type listLowering struct {
	e       *rewrite.Engine
	subject ast.ExprID
	used    bool
	dropped []token.Trivia
}

func (l *listLowering) use() ast.ExprID {
	if l.used {
		return rewrite.StripTrivia(l.e, l.subject)
	}
	l.used = true
	return l.subject
}

// countMember picks the member a length test reads.
func countMember(e *rewrite.Engine, ref oracle.TypeRef, t *oracle.Type) string {
	if t.Kind == oracle.KindArray {
		return "Length"
	}
	for _, name := range []string{"Length", "Count"} {
		if oracle.HasMember(e.Oracle, ref, name) {
			return name
		}
	}
	return ""
}

// elementType is the element type of an array or of a sequence with one type argument.
func elementType(e *rewrite.Engine, t *oracle.Type) (oracle.TypeRef, *oracle.Type, bool) {
	var ref oracle.TypeRef
	switch {
	case t.Kind == oracle.KindArray:
		ref = t.Elem
	case len(t.Args) == 1:
		ref = t.Args[0]
	default:
		return oracle.NoType, nil, false
	}
	et := e.Oracle.Lookup(ref)
	return ref, et, et != nil
}

// sliceable reports whether a range index over t is well typed.
func sliceable(e *rewrite.Engine, ref oracle.TypeRef, t *oracle.Type) bool {
	return t.Kind == oracle.KindArray || t.Display == "string" || oracle.HasMember(e.Oracle, ref, "Slice")
}

// capturing reports whether the slice element el binds or tests its range.
func capturing(b *ast.Builder, el ast.PatternID) bool {
	sp, _ := ast.PatternAs[ast.SlicePattern](b, el)
	inner := b.Pattern(sp.Inner)
	return inner != nil && inner.Kind != ast.PatternDiscard
}

// lower returns the conjunction for pid, or why it can not be stated.
func (l *listLowering) lower(pid ast.PatternID, ref oracle.TypeRef, t *oracle.Type) (ast.ExprID, string) {
	b := l.e.B
	p := b.Pattern(pid)
	lp, _ := p.Data.(ast.ListPattern)
	count := countMember(l.e, ref, t)
	if count == "" {
		return ast.NoExprID, "list pattern over a type with neither Length nor Count"
	}

	slice := -1
	for i, el := range lp.Elems {
		if b.Pattern(el).Kind == ast.PatternSlice {
			if slice >= 0 {
				rewrite.Violationf("list pattern with two slices")
			}
			slice = i
		}
	}
	if slice >= 0 && capturing(b, lp.Elems[slice]) && !sliceable(l.e, ref, t) {
		return ast.NoExprID, "slice pattern over a type without a range indexer"
	}
	l.dropped = ast.Concat(l.dropped, p.Lead, p.Trail)
	fixed := len(lp.Elems)
	if slice >= 0 {
		fixed--
	}

	var terms []ast.ExprID
	if !t.IsValueType() {
		terms = append(terms, b.Binary(token.BangEq, l.use(), b.Null()))
	}
	n := b.Int(strconv.Itoa(fixed))
	switch {
	case slice < 0:
		terms = append(terms, b.Binary(token.EqEq, b.Member(l.use(), count), n))
	case fixed > 0:
		terms = append(terms, b.Binary(token.GtEq, b.Member(l.use(), count), n))
	}

	for i, el := range lp.Elems {
		var at ast.ExprID
		switch {
		case i == slice:
			terms = l.slice(terms, el, i, len(lp.Elems)-i-1)
			continue
		case slice >= 0 && i > slice:
			at = b.Unary(token.Hat, b.Int(strconv.Itoa(len(lp.Elems)-i)))
		default:
			at = b.Int(strconv.Itoa(i))
		}
		if term, ok := l.element(el, b.Index(l.use(), at), t); ok {
			terms = append(terms, term)
		}
	}
	if len(terms) == 0 {
		return b.True(), ""
	}
	return b.AndAll(terms...), ""
}

// element tests one position. Discards produce no test; nested list
// patterns are lowered over the element when its type is known.
func (l *listLowering) element(el ast.PatternID, at ast.ExprID, t *oracle.Type) (ast.ExprID, bool) {
	b := l.e.B
	p := b.Pattern(el)
	switch p.Kind {
	case ast.PatternDiscard:
		l.dropped = ast.Concat(l.dropped, p.Lead, p.Trail)
		return ast.NoExprID, false
	case ast.PatternList:
		if eref, et, ok := elementType(l.e, t); ok {
			inner := &listLowering{e: l.e, subject: at}
			if out, why := inner.lower(el, eref, et); why == "" {
				l.dropped = ast.Concat(l.dropped, inner.dropped)
				return b.Group(out), true
			}
		}
	}
	return b.Group(b.Is(at, l.e.Pattern(el))), true
}

// slice tests the `..p` element over the range between front and back.
func (l *listLowering) slice(terms []ast.ExprID, el ast.PatternID, front, back int) []ast.ExprID {
	b := l.e.B
	sp, _ := ast.PatternAs[ast.SlicePattern](b, el)
	p := b.Pattern(el)
	inner := b.Pattern(sp.Inner)
	if inner == nil || inner.Kind == ast.PatternDiscard {
		l.dropped = ast.Concat(l.dropped, p.Lead, p.Trail)
		if inner != nil {
			l.dropped = ast.Concat(l.dropped, inner.Lead, inner.Trail)
		}
		return terms
	}
	var start, end ast.ExprID
	if front > 0 {
		start = b.Int(strconv.Itoa(front))
	}
	if back > 0 {
		end = b.Unary(token.Hat, b.Int(strconv.Itoa(back)))
	}
	rng := b.NewExpr(source.Span{}, ast.RangeExpr{Start: start, End: end})
	l.dropped = ast.Concat(l.dropped, p.Lead, p.Trail)
	return append(terms, b.Group(b.Is(b.Index(l.use(), rng), l.e.Pattern(sp.Inner))))
}
