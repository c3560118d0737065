// Package trace records driver, tree and pass boundaries of a desugar run.
//
//	desugar run --trace-level=detail --trace=- orders.dsg
//
// Sinks: Nop when tracing is off, StreamTracer writes every event as text or
// NDJSON, RingTracer keeps the last events and the CLI dumps them when a run
// fails. ModeBoth feeds both.
//
// Spans nest through the context:
//
//	ctx, run := trace.Start(ctx, trace.ScopeDriver, "run")
//	defer run.End("")
//
// Passes have no context and get the tracer and parent span ID through
// rewrite.Instrumented; they emit node-scope points with Point.
package trace
