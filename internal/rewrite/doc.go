// Package rewrite is the base every lowering pass is built on.
//
// An Engine walks a tree depth-first, left to right. For each node it asks the
// pass Rules first; a hook that declines leaves the node to the default
// rebuild, which rewrites the children and allocates a new node only if one of
// them changed. Untouched subtrees are shared with the input.
//
// # Hoisting
//
// Every non-block statement opens a frame. Expression rules can queue
// statements into it with Engine.Hoist; when the statement is left, the
// queued statements are placed before it: spliced into the enclosing list, or
// wrapped together with it into a block in embedded positions (if and loop
// bodies). Expression lambda bodies, member initializers, query clauses,
// switch guards and loop conditions are barriers: Hoist reports false there.
//
// The engine also tracks conditional regions (right operands of && || ??,
// ternary arms, the tail of a conditional-access chain) so that rules which
// would move evaluation earlier can refuse.
//
// # Failures
//
// A rule that meets a shape it believes impossible calls Violationf. Run
// recovers the *ContractViolation and returns it; the pass fails for the
// whole tree. Missing semantic facts are not failures: the rule calls Skip
// and leaves the node alone.
package rewrite
