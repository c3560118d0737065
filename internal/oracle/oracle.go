// Package oracle describes the semantic facts the rewrite passes consume and
// provides a table-backed implementation of them.
package oracle

import (
	"desugar/internal/ast"
	"desugar/internal/source"
)

// ConversionKind classifies how a value of one type becomes another.
type ConversionKind uint8

const (
	ConvNone ConversionKind = iota
	ConvIdentity
	ConvImplicitReference
	ConvExplicitReference
	ConvBoxing
	ConvUnboxing
	ConvNumeric
	ConvNullable
	ConvUserDefined
)

// Conversion is the classification of a from -> to conversion.
type Conversion struct {
	Exists      bool
	Identity    bool
	Implicit    bool
	UserDefined bool
	Kind        ConversionKind
	Operator    SymbolRef
}

// Oracle answers semantic questions about nodes of one bound tree.
// Methods returning a bool report false when no fact is known.
type Oracle interface {
	SymbolOf(e ast.ExprID) (SymbolRef, bool)
	TypeOf(e ast.ExprID) (TypeRef, bool)
	ConvertedTypeOf(e ast.ExprID) (TypeRef, bool)
	ClassifyConversion(from, to TypeRef) Conversion
	MembersOf(t TypeRef) []SymbolRef
	Lookup(t TypeRef) *Type
	Symbol(s SymbolRef) *Symbol
	DisplayName(t TypeRef, at source.Span) string
	DeclaredSymbol(d ast.DeclID) (SymbolRef, bool)
	PatternSymbol(p ast.PatternID) (SymbolRef, bool)
}

// TypeOfExpr resolves the static type descriptor of e.
func TypeOfExpr(o Oracle, e ast.ExprID) (TypeRef, *Type, bool) {
	ref, ok := o.TypeOf(e)
	if !ok {
		return NoType, nil, false
	}
	t := o.Lookup(ref)
	return ref, t, t != nil
}

// DeclaresOperator reports whether t declares a user-defined operator with
// one of the given metadata names.
func DeclaresOperator(o Oracle, t TypeRef, names ...string) bool {
	for _, m := range o.MembersOf(t) {
		sym := o.Symbol(m)
		if sym == nil || sym.Kind != SymbolOperator {
			continue
		}
		for _, n := range names {
			if sym.Name == n {
				return true
			}
		}
	}
	return false
}

// HasMember reports whether t declares a member named name.
func HasMember(o Oracle, t TypeRef, name string) bool {
	for _, m := range o.MembersOf(t) {
		if sym := o.Symbol(m); sym != nil && sym.Name == name {
			return true
		}
	}
	return false
}
