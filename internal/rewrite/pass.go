package rewrite

import (
	"desugar/internal/ast"
	"desugar/internal/diag"
	"desugar/internal/oracle"
	"desugar/internal/trace"
)

// Pass is one whole-tree lowering step.
//
// Semantic passes (IsPurelySyntactic false) need an oracle bound to the exact
// tree they receive. Reset clears the state a pass keeps between runs; a pass
// instance must not be shared between goroutines.
type Pass interface {
	Name() string
	IsPurelySyntactic() bool
	Reset()
	Apply(tree *ast.Tree, orc oracle.Oracle) (*ast.Tree, error)
}

// Instrumented passes accept a diagnostics sink and a tracer before Apply.
type Instrumented interface {
	Instrument(r diag.Reporter, t trace.Tracer, spanID uint64)
}

// Base carries what every pass shares: instrumentation and the fresh-name counter.
type Base struct {
	Reporter diag.Reporter
	Tracer   trace.Tracer
	SpanID   uint64
	Namer    Namer
}

func (b *Base) Instrument(r diag.Reporter, t trace.Tracer, spanID uint64) {
	b.Reporter, b.Tracer, b.SpanID = r, t, spanID
}

// Reset clears the fresh-name counter.
func (b *Base) Reset() {
	b.Namer.Reset()
}

// Options returns engine options for a run of pass name.
func (b *Base) Options(name string, orc oracle.Oracle) Options {
	return Options{
		Pass:     name,
		Oracle:   orc,
		Reporter: b.Reporter,
		Tracer:   b.Tracer,
		SpanID:   b.SpanID,
		Namer:    &b.Namer,
	}
}
