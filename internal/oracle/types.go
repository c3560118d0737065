package oracle

import "fmt"

// TypeRef identifies a type inside a fact table. Zero means unknown.
type TypeRef uint32

// NoType marks an unresolved type.
const NoType TypeRef = 0

// Kind enumerates the type shapes the rewrite passes distinguish.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindClass
	KindStruct
	KindInterface
	KindEnum
	KindDelegate
	KindArray
	KindNullable
	KindTuple
	KindTypeParam
	KindAnonymous
	KindDynamic
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindClass:
		return "class"
	case KindStruct:
		return "struct"
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindDelegate:
		return "delegate"
	case KindArray:
		return "array"
	case KindNullable:
		return "nullable"
	case KindTuple:
		return "tuple"
	case KindTypeParam:
		return "type-param"
	case KindAnonymous:
		return "anonymous"
	case KindDynamic:
		return "dynamic"
	case KindInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Field is one member of an anonymous or tuple shape.
type Field struct {
	Name string
	Type TypeRef
}

// Type is a resolved type descriptor.
//
// Elem is the element of arrays, the underlying type of nullables and the
// return type of delegates. Owner is the declaring symbol of a type parameter.
type Type struct {
	Kind        Kind
	Name        string // metadata name, e.g. "List`1" or "int"
	Display     string // minimally qualified display, e.g. "List<int>"
	Args        []TypeRef
	Elem        TypeRef
	Rank        int
	Owner       SymbolRef
	Members     []SymbolRef
	Fields      []Field
	Params      []TypeRef // delegate parameter types
	Interpreted bool      // delegate wrapped into an expression tree
}

// IsValueType reports whether values of t are copied rather than referenced.
func (t *Type) IsValueType() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindStruct, KindEnum, KindNullable, KindTuple:
		return true
	default:
		return false
	}
}

// IsNullable reports whether t is the nullable wrapper of a value type.
func (t *Type) IsNullable() bool {
	return t != nil && t.Kind == KindNullable
}

// IsReference reports whether a null literal converts to t directly.
func (t *Type) IsReference() bool {
	if t == nil {
		return false
	}
	switch t.Kind {
	case KindClass, KindInterface, KindDelegate, KindArray, KindAnonymous, KindDynamic:
		return true
	default:
		return false
	}
}

// ReturnsVoid reports whether t is a delegate whose invocation yields no value.
func (t *Type) ReturnsVoid(o Oracle) bool {
	if t == nil || t.Kind != KindDelegate {
		return false
	}
	ret := o.Lookup(t.Elem)
	return ret == nil || ret.Kind == KindVoid
}
