// Package pipeline runs the desugaring passes over trees in canonical order.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"desugar/internal/ast"
	"desugar/internal/desugar"
	"desugar/internal/diag"
	"desugar/internal/observ"
	"desugar/internal/oracle"
	"desugar/internal/rewrite"
	"desugar/internal/source"
	"desugar/internal/trace"
)

// Config selects passes and limits for a run.
type Config struct {
	Passes         []string // empty selects every registered pass
	MaxDiagnostics int
	Jobs           int // RunAll parallelism; <= 0 means GOMAXPROCS
}

// Input is one tree with the facts computed for it. Facts may be nil: the
// semantic passes then skip everything they would rewrite.
type Input struct {
	Name  string
	Tree  *ast.Tree
	Facts *oracle.Table
}

// Result is the rewritten tree with everything the passes reported about it.
type Result struct {
	Name  string
	Tree  *ast.Tree
	Bag   *diag.Bag
	Timer *observ.Timer
}

var errEmptyTree = errors.New("empty tree")

// Pipeline owns one instance of every selected pass. It is not safe for
// concurrent use: RunAll builds a pipeline per tree.
type Pipeline struct {
	cfg    Config
	passes []rewrite.Pass
}

// New validates the configured pass names and instantiates the passes.
func New(cfg Config) (*Pipeline, error) {
	names, err := resolve(cfg.Passes)
	if err != nil {
		return nil, err
	}
	passes := make([]rewrite.Pass, 0, len(names))
	for _, n := range names {
		p, err := desugar.New(n)
		if err != nil {
			return nil, err
		}
		passes = append(passes, p)
	}
	return &Pipeline{cfg: cfg, passes: passes}, nil
}

func resolve(names []string) ([]string, error) {
	if len(names) == 0 {
		return desugar.Names(), nil
	}
	return desugar.Ordered(names)
}

// Names returns the passes in the order Run applies them.
func (p *Pipeline) Names() []string {
	out := make([]string, len(p.passes))
	for i, pass := range p.passes {
		out[i] = pass.Name()
	}
	return out
}

// Run applies every pass to in.Tree. Semantic passes see the facts bound to
// the tree as it stands after the previous pass. A contract violation stops
// the run and is returned wrapped with the tree name; the result up to the
// failing pass is returned alongside.
func (p *Pipeline) Run(ctx context.Context, in Input) (*Result, error) {
	if in.Tree == nil || in.Tree.B == nil {
		return nil, fmt.Errorf("%s: %w", in.Name, errEmptyTree)
	}
	ctx, span := trace.Start(ctx, trace.ScopeTree, "tree:"+in.Name)
	tracer := trace.FromContext(ctx)
	res := &Result{
		Name:  in.Name,
		Tree:  in.Tree,
		Bag:   diag.NewBag(p.cfg.MaxDiagnostics),
		Timer: observ.NewTimer(),
	}
	for _, pass := range p.passes {
		if err := ctx.Err(); err != nil {
			span.End("cancelled")
			return res, err
		}
		out, err := p.apply(pass, res, in.Facts, tracer, trace.CurrentSpan(ctx))
		if err != nil {
			diag.ReportError(diag.BagReporter{Bag: res.Bag, Pass: pass.Name()}, diag.DsgContractViolation, source.Span{}, err.Error()).Emit()
			span.End("failed")
			return res, fmt.Errorf("%s: %w", in.Name, err)
		}
		res.Tree = out
	}
	span.WithExtra("diagnostics", strconv.Itoa(res.Bag.Len())).End("")
	return res, nil
}

func (p *Pipeline) apply(pass rewrite.Pass, res *Result, facts *oracle.Table, tracer trace.Tracer, parent uint64) (*ast.Tree, error) {
	name := pass.Name()
	ps := trace.Begin(tracer, trace.ScopePass, name, parent)
	idx := res.Timer.Begin(name)

	pass.Reset()
	rep := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag, Pass: name})
	if in, ok := pass.(rewrite.Instrumented); ok {
		owner := ps.ID()
		if owner == 0 {
			owner = parent
		}
		in.Instrument(rep, tracer, owner)
	}
	var orc oracle.Oracle
	if !pass.IsPurelySyntactic() && facts != nil {
		// привязка заново: предыдущий проход мог перестроить узлы
		orc = facts.Bind(res.Tree)
	}
	before := res.Bag.Len()
	out, err := pass.Apply(res.Tree, orc)

	changed := err == nil && out.Root != res.Tree.Root
	note := ""
	if n := res.Bag.Len() - before; n > 0 && err == nil {
		note = strconv.Itoa(n) + " skipped"
	}
	res.Timer.End(idx, changed, note)
	ps.WithExtra("changed", strconv.FormatBool(changed))
	if n := rep.Suppressed(); n > 0 {
		ps.WithExtra("suppressed", strconv.Itoa(n))
	}
	ps.End(note)
	return out, err
}

// RunAll runs the configured passes over independent trees in parallel. Every
// input must own its builder: arenas are not shared between goroutines. Each
// tree gets fresh pass instances. Results keep the order of inputs; the first
// error cancels the remaining trees.
func RunAll(ctx context.Context, cfg Config, inputs []Input) ([]*Result, error) {
	if _, err := resolve(cfg.Passes); err != nil {
		return nil, err
	}
	results := make([]*Result, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}

	ctx, run := trace.Start(ctx, trace.ScopeDriver, "run")

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(inputs)))
	for i, in := range inputs {
		g.Go(func() error {
			p, err := New(cfg)
			if err != nil {
				return err
			}
			res, err := p.Run(gctx, in)
			results[i] = res
			return err
		})
	}
	err := g.Wait()
	run.WithExtra("trees", strconv.Itoa(len(inputs))).End("")
	return results, err
}

// Timers returns the timers of every non-nil result.
func Timers(results []*Result) []*observ.Timer {
	out := make([]*observ.Timer, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r.Timer)
		}
	}
	return out
}
