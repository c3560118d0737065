package rewrite

import (
	"slices"

	"desugar/internal/ast"
	"desugar/internal/token"
)

// stmtRaw rewrites one statement inside its own hoisting frame. Blocks get no
// frame: their statements each open one.
func (e *Engine) stmtRaw(id ast.StmtID) (hoisted, out []ast.StmtID) {
	s := e.B.Stmt(id)
	if s == nil {
		return nil, nil
	}
	boundary := e.path.Push(ast.NoExprID)
	defer boundary()
	if s.Kind == ast.StmtBlock {
		return nil, e.dispatchStmt(id)
	}
	release := e.frames.Push(frame{})
	defer release()
	out = e.dispatchStmt(id)
	hoisted = e.frames.TopPtr().hoisted
	return hoisted, out
}

func (e *Engine) dispatchStmt(id ast.StmtID) []ast.StmtID {
	if out, ok := e.Rules.Stmt(e, id); ok {
		return out
	}
	return []ast.StmtID{e.DefaultStmt(id)}
}

// Stmt rewrites a statement in list position: hoisted statements are spliced
// in front of the result.
func (e *Engine) Stmt(id ast.StmtID) []ast.StmtID {
	hoisted, out := e.stmtRaw(id)
	return e.splice(id, hoisted, out)
}

// Stmts rewrites a statement list (block body, switch section).
func (e *Engine) Stmts(ids []ast.StmtID) ([]ast.StmtID, bool) {
	out := make([]ast.StmtID, 0, len(ids))
	changed := false
	for _, id := range ids {
		rs := e.Stmt(id)
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

// EmbeddedStmt rewrites a statement that must stay a single statement, such as
// an if or loop body. Several results are wrapped into a block which takes
// over the original's trivia.
func (e *Engine) EmbeddedStmt(id ast.StmtID) ast.StmtID {
	if !id.IsValid() {
		return id
	}
	hoisted, out := e.stmtRaw(id)
	if len(hoisted) == 0 && len(out) == 1 {
		return out[0]
	}
	return e.wrap(id, slices.Concat(hoisted, out))
}

// splice places hoisted statements before out. The original's leading trivia
// moves to the first emitted statement; the rest get its line indentation.
func (e *Engine) splice(orig ast.StmtID, hoisted, out []ast.StmtID) []ast.StmtID {
	if len(hoisted) == 0 {
		return out
	}
	o := e.B.Stmt(orig)
	indent := token.Indentation(o.Lead)
	all := slices.Concat(hoisted, out)
	res := make([]ast.StmtID, 0, len(all))
	for i, id := range all {
		s := e.B.Stmt(id)
		lead := s.Lead
		switch {
		case i == 0:
			lead = leadFor(s.Lead, o.Lead)
		case len(lead) == 0 || sameTrivia(lead, o.Lead):
			lead = indent
		}
		trail := s.Trail
		if len(out) == 0 && i == len(all)-1 {
			// оригинал удалён: его хвост переезжает на последний поднятый
			trail = ast.Concat(trail, o.Trail)
		}
		if sameTrivia(lead, s.Lead) && sameTrivia(trail, s.Trail) {
			res = append(res, id)
			continue
		}
		res = append(res, e.B.StmtWithTrivia(id, lead, trail))
	}
	return res
}

// leadFor returns the lead of the first spliced statement: the original's
// lead, unless the statement already carries it.
func leadFor(own, orig []token.Trivia) []token.Trivia {
	if len(own) == 0 || sameTrivia(own, orig) {
		return orig
	}
	return ast.Concat(orig, own)
}

// wrap encloses stmts into a block positioned where orig was. The original's
// trivia is stripped from the inner statements so it is emitted exactly once.
func (e *Engine) wrap(orig ast.StmtID, stmts []ast.StmtID) ast.StmtID {
	o := e.B.Stmt(orig)
	indent := token.Indentation(o.Lead)
	inner := make([]ast.StmtID, 0, len(stmts))
	for i, id := range stmts {
		s := e.B.Stmt(id)
		lead, trail := s.Lead, s.Trail
		if sameTrivia(lead, o.Lead) || sameTrivia(lead, indent) {
			lead = nil
		}
		if i == len(stmts)-1 && sameTrivia(trail, o.Trail) {
			trail = nil
		}
		if sameTrivia(lead, s.Lead) && sameTrivia(trail, s.Trail) {
			inner = append(inner, id)
			continue
		}
		inner = append(inner, e.B.StmtWithTrivia(id, lead, trail))
	}
	return e.B.AddStmt(ast.Stmt{
		Span:  o.Span,
		Lead:  o.Lead,
		Trail: o.Trail,
		Data:  ast.BlockStmt{Stmts: inner},
	})
}

func sameTrivia(a, b []token.Trivia) bool {
	return slices.Equal(a, b)
}
