package ast

import (
	"desugar/internal/source"
	"desugar/internal/token"
)

// PatternKind enumerates pattern node kinds.
type PatternKind uint8

const (
	PatternInvalid PatternKind = iota
	PatternDiscard
	PatternConst
	PatternType
	PatternDecl
	PatternRelational
	PatternNot
	PatternBinary
	PatternList
	PatternSlice
	PatternGroup
)

// Pattern is the arena header of a pattern node.
type Pattern struct {
	Kind   PatternKind
	Span   source.Span
	Lead   []token.Trivia
	Trail  []token.Trivia
	Origin PatternID
	Data   PatternData
}

// PatternData is the kind-specific payload of a pattern.
type PatternData interface {
	PatternKind() PatternKind
}

type (
	DiscardPattern struct{}

	ConstPattern struct {
		Value ExprID
	}

	TypePattern struct {
		Type TypeID
	}

	// DeclPattern tests for Type and binds Name; a TypeVar Type makes it `var Name`.
	DeclPattern struct {
		Type TypeID
		Name string
	}

	RelationalPattern struct {
		Op    token.Kind
		Value ExprID
	}

	NotPattern struct {
		Inner PatternID
	}

	// BinaryPattern combines with token.KwAnd or token.KwOr.
	BinaryPattern struct {
		Op    token.Kind
		Left  PatternID
		Right PatternID
	}

	ListPattern struct {
		Elems []PatternID
	}

	// SlicePattern is `..` optionally followed by a sub-pattern.
	SlicePattern struct {
		Inner PatternID
	}

	GroupPattern struct {
		Inner PatternID
	}
)

func (DiscardPattern) PatternKind() PatternKind    { return PatternDiscard }
func (ConstPattern) PatternKind() PatternKind      { return PatternConst }
func (TypePattern) PatternKind() PatternKind       { return PatternType }
func (DeclPattern) PatternKind() PatternKind       { return PatternDecl }
func (RelationalPattern) PatternKind() PatternKind { return PatternRelational }
func (NotPattern) PatternKind() PatternKind        { return PatternNot }
func (BinaryPattern) PatternKind() PatternKind     { return PatternBinary }
func (ListPattern) PatternKind() PatternKind       { return PatternList }
func (SlicePattern) PatternKind() PatternKind      { return PatternSlice }
func (GroupPattern) PatternKind() PatternKind      { return PatternGroup }
