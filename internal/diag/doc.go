// Package diag defines the diagnostic model shared by the desugar passes and the driver.
//
// Passes never fail on missing semantic facts; they leave the node unchanged and
// report an informational Dsg* diagnostic through a Reporter. Contract
// violations are errors and abort the pass (see internal/rewrite).
//
// Bag collects diagnostics up to a limit and counts the overflow; Sort gives
// a deterministic order for output. DedupReporter keeps a chain that is
// visited twice from reporting twice. Short renders one diagnostic per line.
//
// Package diag does not perform IO or terminal styling; cmd/desugar owns that.
package diag
