package ast

import "desugar/internal/token"

// Tree is one compilation unit inside a builder. Several trees may share a
// builder: every rewrite produces a new Tree over the same arenas.
type Tree struct {
	B    *Builder
	Root DeclID
}

// NewTree wraps a unit declaration.
func NewTree(b *Builder, root DeclID) *Tree {
	return &Tree{B: b, Root: root}
}

// Unit returns the root unit payload.
func (t *Tree) Unit() (UnitDecl, bool) {
	return DeclAs[UnitDecl](t.B, t.Root)
}

// With returns a tree over the same builder rooted at root.
func (t *Tree) With(root DeclID) *Tree {
	if root == t.Root {
		return t
	}
	return &Tree{B: t.B, Root: root}
}

// Comments collects every comment reachable from the tree root, in visit order.
func (t *Tree) Comments() []token.Trivia {
	var out []token.Trivia
	grab := func(runs ...[]token.Trivia) {
		for _, r := range runs {
			out = append(out, token.Comments(r)...)
		}
	}
	Walk(t.B, t.Root, Visitor{
		Expr: func(_ ExprID, e *Expr) bool {
			grab(e.Lead, e.Trail)
			if q, ok := e.Data.(QueryExpr); ok {
				grab(q.From.Lead)
				for body := &q.Body; body != nil; {
					grab(body.SelectLead)
					for _, c := range body.Clauses {
						grab(c.Lead)
					}
					if body.Cont == nil {
						break
					}
					grab(body.Cont.Lead)
					body = &body.Cont.Body
				}
			}
			return true
		},
		Stmt: func(_ StmtID, s *Stmt) bool {
			grab(s.Lead, s.Trail)
			switch d := s.Data.(type) {
			case BlockStmt:
				grab(d.CloseLead)
			case SwitchStmt:
				grab(d.CloseLead)
				for _, sec := range d.Sections {
					grab(sec.Lead)
				}
			}
			return true
		},
		Decl: func(_ DeclID, d *Decl) bool {
			grab(d.Lead, d.Trail)
			switch v := d.Data.(type) {
			case TypeDecl:
				grab(v.CloseLead)
			case NamespaceDecl:
				grab(v.CloseLead)
			case PropertyDecl:
				for _, a := range v.Accessors {
					grab(a.Lead)
				}
			}
			return true
		},
		Type: func(_ TypeID, ty *Type) bool {
			grab(ty.Lead, ty.Trail)
			return true
		},
		Pattern: func(_ PatternID, p *Pattern) bool {
			grab(p.Lead, p.Trail)
			return true
		},
	})
	return out
}
