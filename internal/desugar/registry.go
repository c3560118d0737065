package desugar

import (
	"fmt"
	"strings"

	"desugar/internal/rewrite"
)

// Info describes a registered pass.
type Info struct {
	Name      string
	Syntactic bool
	Summary   string
	New       func() rewrite.Pass
}

// registry lists the passes in their canonical order. Deanonymization runs
// before auto-accessor expansion: the classes it synthesizes have get-only
// auto-properties. Pattern binding runs before list lowering, so the element
// tests a list pattern expands to keep their bindings: each one sits behind
// the length test and can not be hoisted above it.
var registry = []Info{
	{Name: "query", Syntactic: true, Summary: "query comprehensions to sequence-operator calls",
		New: func() rewrite.Pass { return NewQuery() }},
	{Name: "anonymous-types", Summary: "anonymous objects to synthesized classes",
		New: func() rewrite.Pass { return NewAnonymousTypes() }},
	{Name: "expression-bodied", Summary: "=> bodies to blocks",
		New: func() rewrite.Pass { return NewExpressionBodied() }},
	{Name: "auto-accessor", Syntactic: true, Summary: "auto-properties to backing fields",
		New: func() rewrite.Pass { return NewAutoAccessor() }},
	{Name: "conditional-access", Summary: "?. and ?[ chains to null guards",
		New: func() rewrite.Pass { return NewConditionalAccess() }},
	{Name: "pattern-binding", Summary: "declaration patterns to hoisted bindings",
		New: func() rewrite.Pass { return NewPatternBinding() }},
	{Name: "list-pattern", Summary: "list patterns to length and element tests",
		New: func() rewrite.Pass { return NewListPatterns() }},
	{Name: "pre-init", Summary: "out variables and deconstructions to default declarations",
		New: func() rewrite.Pass { return NewPreInit() }},
	{Name: "initializer", Summary: "converted initializers to explicit stores",
		New: func() rewrite.Pass { return NewInitializers() }},
}

// All returns every registered pass in canonical order.
func All() []Info {
	out := make([]Info, len(registry))
	copy(out, registry)
	return out
}

// Names returns the canonical pass order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, in := range registry {
		out = append(out, in.Name)
	}
	return out
}

// Lookup finds a pass by name.
func Lookup(name string) (Info, bool) {
	for _, in := range registry {
		if in.Name == name {
			return in, true
		}
	}
	return Info{}, false
}

// New returns a fresh instance of the named pass.
func New(name string) (rewrite.Pass, error) {
	in, ok := Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown pass %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return in.New(), nil
}

// Ordered returns names sorted into canonical order, dropping duplicates.
// Unknown names are reported together.
func Ordered(names []string) ([]string, error) {
	want := make(map[string]bool, len(names))
	var unknown []string
	for _, n := range names {
		if _, ok := Lookup(n); !ok {
			unknown = append(unknown, n)
			continue
		}
		want[n] = true
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown pass(es) %s", strings.Join(unknown, ", "))
	}
	out := make([]string, 0, len(want))
	for _, in := range registry {
		if want[in.Name] {
			out = append(out, in.Name)
		}
	}
	return out, nil
}
