package rewrite

import "desugar/internal/ast"

// Rules are the per-pass hooks of an Engine. Each hook returns handled=false
// to fall back to the default rebuild of the node.
//
// A Stmt hook may expand one statement into several (or none); a Decl hook may
// do the same for members. Hooks recurse through the engine (e.Expr, e.Stmts,
// e.Default*) so that context tracking and hoisting stay consistent.
type Rules interface {
	Expr(e *Engine, id ast.ExprID) (ast.ExprID, bool)
	Stmt(e *Engine, id ast.StmtID) ([]ast.StmtID, bool)
	Decl(e *Engine, id ast.DeclID) ([]ast.DeclID, bool)
}

// BaseRules handles nothing; passes embed it and override what they need.
type BaseRules struct{}

func (BaseRules) Expr(*Engine, ast.ExprID) (ast.ExprID, bool)   { return ast.NoExprID, false }
func (BaseRules) Stmt(*Engine, ast.StmtID) ([]ast.StmtID, bool) { return nil, false }
func (BaseRules) Decl(*Engine, ast.DeclID) ([]ast.DeclID, bool) { return nil, false }
