// Package testkit checks invariants every rewrite must keep and builds
// sugared trees for property and fuzz tests.
package testkit

import (
	"fmt"
	"slices"

	"github.com/google/go-cmp/cmp"

	"desugar/internal/ast"
)

// CheckComments reports comments that a rewrite dropped or duplicated.
// Comments are compared as a multiset of texts: relocation is allowed.
func CheckComments(before, after *ast.Tree) error {
	if before == nil || after == nil {
		return fmt.Errorf("nil tree")
	}
	want, got := commentTexts(before), commentTexts(after)
	if diff := cmp.Diff(want, got); diff != "" {
		return fmt.Errorf("comments changed (-before +after):\n%s", diff)
	}
	return nil
}

func commentTexts(tree *ast.Tree) []string {
	var out []string
	for _, c := range tree.Comments() {
		out = append(out, c.Text)
	}
	slices.Sort(out)
	return out
}

// CheckIdempotent applies run to the output of run and requires the second
// application to return the very same root.
func CheckIdempotent(tree *ast.Tree, run func(*ast.Tree) (*ast.Tree, error)) error {
	once, err := run(tree)
	if err != nil {
		return fmt.Errorf("first run: %w", err)
	}
	twice, err := run(once)
	if err != nil {
		return fmt.Errorf("second run: %w", err)
	}
	if twice.Root != once.Root {
		return fmt.Errorf("second run rewrote the tree again (root %d -> %d)", once.Root, twice.Root)
	}
	return nil
}

// CheckNoSugar reports the first optional link, query comprehension or
// anonymous object left in the tree.
func CheckNoSugar(tree *ast.Tree) error {
	var found error
	ast.Walk(tree.B, tree.Root, ast.Visitor{Expr: func(id ast.ExprID, x *ast.Expr) bool {
		if found != nil {
			return false
		}
		switch d := x.Data.(type) {
		case ast.MemberExpr:
			if d.Optional {
				found = fmt.Errorf("expr %d: conditional member access ?.%s", id, d.Name)
			}
		case ast.IndexExpr:
			if d.Optional {
				found = fmt.Errorf("expr %d: conditional element access", id)
			}
		case ast.QueryExpr:
			found = fmt.Errorf("expr %d: query comprehension", id)
		case ast.AnonObjectExpr:
			found = fmt.Errorf("expr %d: anonymous object", id)
		}
		return found == nil
	}})
	return found
}
