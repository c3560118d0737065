package ast

import (
	"desugar/internal/source"
	"desugar/internal/token"
)

// TypeKind enumerates type-syntax node kinds.
type TypeKind uint8

const (
	TypeInvalid  TypeKind = iota
	TypeNamed             // Name<Args...>; Name may be dotted or an already-resolved display
	TypeNullable          // Elem?
	TypeArray             // Elem[,,]
	TypeVar               // var
)

// Type is a type-syntax node. Type syntax has no per-kind payload.
type Type struct {
	Kind   TypeKind
	Span   source.Span
	Lead   []token.Trivia
	Trail  []token.Trivia
	Origin TypeID
	Name   string
	Args   []TypeID
	Elem   TypeID
	Rank   int
}

// IsVoid reports whether the type syntax spells `void`.
func (t *Type) IsVoid() bool {
	return t != nil && t.Kind == TypeNamed && t.Name == "void" && len(t.Args) == 0
}
