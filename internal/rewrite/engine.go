package rewrite

import (
	"fmt"

	"desugar/internal/ast"
	"desugar/internal/diag"
	"desugar/internal/oracle"
	"desugar/internal/source"
	"desugar/internal/trace"
)

// Options configure an Engine. Everything except the builder is optional.
type Options struct {
	Pass     string
	Oracle   oracle.Oracle
	Reporter diag.Reporter
	Tracer   trace.Tracer
	SpanID   uint64 // parent trace span for node-level points
	Namer    *Namer
}

// Engine drives one recursive descent over a tree. It owns the hoisting
// frames and the context flags; the pass-specific behavior lives in Rules.
//
// An Engine is single-use per traversal and not safe for concurrent use.
type Engine struct {
	B      *ast.Builder
	Oracle oracle.Oracle
	Rules  Rules
	Namer  *Namer

	pass     string
	reporter diag.Reporter
	tracer   trace.Tracer
	spanID   uint64

	frames  Stack[frame]
	path    Stack[ast.ExprID] // enclosing expressions; NoExprID marks a statement boundary
	skipped int
}

// frame collects the statements hoisted out of one statement. Barrier frames
// refuse hoists: they mark expression lambda bodies, member initializers,
// query clauses and loop conditions.
type frame struct {
	hoisted     []ast.StmtID
	barrier     bool
	loopCond    bool
	conditional int
}

func New(b *ast.Builder, rules Rules, opts Options) *Engine {
	if rules == nil {
		rules = BaseRules{}
	}
	namer := opts.Namer
	if namer == nil {
		namer = &Namer{}
	}
	return &Engine{
		B:        b,
		Oracle:   opts.Oracle,
		Rules:    rules,
		Namer:    namer,
		pass:     opts.Pass,
		reporter: opts.Reporter,
		tracer:   opts.Tracer,
		spanID:   opts.SpanID,
	}
}

// Pass returns the name the engine reports under.
func (e *Engine) Pass() string { return e.pass }

// Skipped reports how many nodes were left unchanged through Skip.
func (e *Engine) Skipped() int { return e.skipped }

// Run rewrites the declaration tree rooted at root. A contract violation raised
// anywhere below aborts the traversal and is returned as the error; any other
// panic propagates.
func (e *Engine) Run(root ast.DeclID) (out ast.DeclID, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		cv, ok := r.(*ContractViolation)
		if !ok {
			panic(r)
		}
		if cv.Pass == "" {
			cv.Pass = e.pass
		}
		out, err = ast.NoDeclID, cv
	}()
	ds := e.Decl(root)
	if len(ds) != 1 {
		Violationf("root declaration rewritten into %d declarations", len(ds))
	}
	return ds[0], nil
}

// Apply runs rules over tree and returns the rewritten tree sharing tree's builder.
func Apply(tree *ast.Tree, rules Rules, opts Options) (*ast.Tree, error) {
	if tree == nil || tree.B == nil {
		return tree, nil
	}
	e := New(tree.B, rules, opts)
	root, err := e.Run(tree.Root)
	if err != nil {
		return nil, err
	}
	return tree.With(root), nil
}

// Expr rewrites an expression. Absent IDs pass through.
func (e *Engine) Expr(id ast.ExprID) ast.ExprID {
	if !id.IsValid() {
		return id
	}
	release := e.path.Push(id)
	defer release()
	if out, ok := e.Rules.Expr(e, id); ok {
		return out
	}
	return e.DefaultExpr(id)
}

// Parent returns the expression enclosing the one being rewritten, NoExprID
// when it sits directly in a statement or declaration.
func (e *Engine) Parent() ast.ExprID {
	n := e.path.Len()
	if n < 2 {
		return ast.NoExprID
	}
	return *e.path.At(n - 2)
}

// ParentKind is the kind of Parent, ExprInvalid at statement level.
func (e *Engine) ParentKind() ast.ExprKind {
	return e.B.ExprKindOf(e.Parent())
}

// Decl rewrites a declaration; member hooks may expand it.
func (e *Engine) Decl(id ast.DeclID) []ast.DeclID {
	if !id.IsValid() {
		return nil
	}
	if out, ok := e.Rules.Decl(e, id); ok {
		return out
	}
	return []ast.DeclID{e.DefaultDecl(id)}
}

// Decls rewrites a member list, flattening expansions.
func (e *Engine) Decls(ids []ast.DeclID) ([]ast.DeclID, bool) {
	out := make([]ast.DeclID, 0, len(ids))
	changed := false
	for _, id := range ids {
		rs := e.Decl(id)
		if len(rs) != 1 || rs[0] != id {
			changed = true
		}
		out = append(out, rs...)
	}
	if !changed {
		return ids, false
	}
	return out, true
}

// DeclOne rewrites a declaration that must stay a single declaration.
func (e *Engine) DeclOne(id ast.DeclID) ast.DeclID {
	ds := e.Decl(id)
	if len(ds) != 1 {
		Violationf("%s declaration rewritten into %d declarations", e.declKind(id), len(ds))
	}
	return ds[0]
}

func (e *Engine) declKind(id ast.DeclID) string {
	if d := e.B.Decl(id); d != nil {
		return d.Kind.String()
	}
	return "absent"
}

// Hoist queues statements to run right before the statement being rewritten.
// It reports false, queuing nothing, when the current position is a barrier.
func (e *Engine) Hoist(stmts ...ast.StmtID) bool {
	f := e.frames.TopPtr()
	if f == nil || f.barrier {
		return false
	}
	f.hoisted = append(f.hoisted, stmts...)
	trace.Point(e.tracer, trace.ScopeNode, "hoist", fmt.Sprintf("%s: %d statement(s)", e.pass, len(stmts)), e.spanID)
	return true
}

// CanHoist reports whether Hoist would accept statements here.
func (e *Engine) CanHoist() bool {
	f := e.frames.TopPtr()
	return f != nil && !f.barrier
}

// InConditional reports whether the current expression is evaluated only on
// some paths of its statement: right operands of && || ??, ternary arms and
// the tail of a conditional-access chain.
func (e *Engine) InConditional() bool {
	f := e.frames.TopPtr()
	return f != nil && f.conditional > 0
}

// InLoopCondition reports whether the current expression is a loop condition.
func (e *Engine) InLoopCondition() bool {
	f := e.frames.TopPtr()
	return f != nil && f.loopCond
}

// Conditional marks the expressions rewritten until release as conditionally evaluated.
func (e *Engine) Conditional() (release func()) {
	f := e.frames.TopPtr()
	if f == nil {
		return func() {}
	}
	f.conditional++
	depth := e.frames.Len()
	return func() {
		if g := e.frames.At(depth - 1); g != nil && e.frames.Len() == depth {
			g.conditional--
			return
		}
		Violationf("conditional region released outside its frame")
	}
}

// Barrier opens a region that can not receive hoisted statements.
func (e *Engine) Barrier() (release func()) {
	return e.frames.Push(frame{barrier: true})
}

func (e *Engine) loopCondition() (release func()) {
	return e.frames.Push(frame{barrier: true, loopCond: true})
}

// Skip records that a node was left unchanged. It emits an info diagnostic
// when a reporter is configured and a node-scope trace point.
func (e *Engine) Skip(code diag.Code, sp source.Span, msg string) {
	e.skipped++
	if e.reporter != nil {
		diag.ReportInfo(e.reporter, code, sp, msg).Emit()
	}
	trace.Point(e.tracer, trace.ScopeNode, "skip", e.pass+": "+msg, e.spanID)
}

// SkipExpr is Skip at the span of an expression.
func (e *Engine) SkipExpr(code diag.Code, id ast.ExprID, msg string) {
	var sp source.Span
	if x := e.B.Expr(id); x != nil {
		sp = x.Span
	}
	e.Skip(code, sp, msg)
}

// TypeOf resolves the static type of id; ok is false without an oracle or fact.
func (e *Engine) TypeOf(id ast.ExprID) (oracle.TypeRef, *oracle.Type, bool) {
	if e.Oracle == nil {
		return oracle.NoType, nil, false
	}
	return oracle.TypeOfExpr(e.Oracle, id)
}

// ConvertedTypeOf is TypeOf after the implicit conversion applied at id.
func (e *Engine) ConvertedTypeOf(id ast.ExprID) (oracle.TypeRef, *oracle.Type, bool) {
	if e.Oracle == nil {
		return oracle.NoType, nil, false
	}
	ref, ok := e.Oracle.ConvertedTypeOf(id)
	if !ok {
		return oracle.NoType, nil, false
	}
	t := e.Oracle.Lookup(ref)
	return ref, t, t != nil
}

// SymbolOf resolves the symbol referenced by id.
func (e *Engine) SymbolOf(id ast.ExprID) (*oracle.Symbol, bool) {
	if e.Oracle == nil {
		return nil, false
	}
	ref, ok := e.Oracle.SymbolOf(id)
	if !ok {
		return nil, false
	}
	s := e.Oracle.Symbol(ref)
	return s, s != nil
}

// Display renders ref as type syntax at the span of at.
func (e *Engine) Display(ref oracle.TypeRef, at ast.ExprID) string {
	if e.Oracle == nil {
		return ""
	}
	var sp source.Span
	if x := e.B.Expr(at); x != nil {
		sp = x.Span
	}
	return e.Oracle.DisplayName(ref, sp)
}
