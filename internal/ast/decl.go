package ast

import (
	"slices"

	"desugar/internal/source"
	"desugar/internal/token"
)

// DeclKind enumerates declaration node kinds.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclUnit
	DeclUsing
	DeclNamespace
	DeclType
	DeclField
	DeclProperty
	DeclMethod
)

var declKindNames = [...]string{
	DeclInvalid:   "invalid",
	DeclUnit:      "unit",
	DeclUsing:     "using",
	DeclNamespace: "namespace",
	DeclType:      "type",
	DeclField:     "field",
	DeclProperty:  "property",
	DeclMethod:    "method",
}

func (k DeclKind) String() string {
	if int(k) < len(declKindNames) {
		return declKindNames[k]
	}
	return "invalid"
}

// Decl is the arena header of a declaration node.
type Decl struct {
	Kind   DeclKind
	Span   source.Span
	Lead   []token.Trivia
	Trail  []token.Trivia
	Origin DeclID
	Data   DeclData
}

// DeclData is the kind-specific payload of a declaration.
type DeclData interface {
	DeclKind() DeclKind
}

// TypeDeclKind distinguishes class-like declarations.
type TypeDeclKind uint8

const (
	TypeDeclClass TypeDeclKind = iota
	TypeDeclStruct
	TypeDeclInterface
	TypeDeclRecord
)

func (k TypeDeclKind) String() string {
	switch k {
	case TypeDeclStruct:
		return "struct"
	case TypeDeclInterface:
		return "interface"
	case TypeDeclRecord:
		return "record"
	default:
		return "class"
	}
}

// AccessorKind distinguishes property accessors.
type AccessorKind uint8

const (
	AccessorGet AccessorKind = iota
	AccessorSet
	AccessorInit
)

func (k AccessorKind) String() string {
	switch k {
	case AccessorSet:
		return "set"
	case AccessorInit:
		return "init"
	default:
		return "get"
	}
}

// MethodKind distinguishes function-like members.
type MethodKind uint8

const (
	MethodOrdinary MethodKind = iota
	MethodConstructor
	MethodOperator
	MethodLocal
)

type (
	// UnitDecl is a compilation unit; its Trail holds end-of-file trivia.
	UnitDecl struct {
		Members []DeclID
	}

	UsingDecl struct {
		Name string
	}

	NamespaceDecl struct {
		Name      string
		Members   []DeclID
		CloseLead []token.Trivia
	}

	TypeDecl struct {
		Kind       TypeDeclKind
		Mods       []string
		Name       string
		TypeParams []string
		Bases      []TypeID
		Members    []DeclID
		CloseLead  []token.Trivia
	}

	FieldDecl struct {
		Mods []string
		Type TypeID
		Vars []VarDecl
	}

	// PropertyDecl has accessors, or an expression Body (`T P => e;`), never both.
	PropertyDecl struct {
		Mods      []string
		Type      TypeID
		Name      string
		Accessors []Accessor
		Init      ExprID
		Body      ExprID
	}

	// Accessor is auto-implemented when both Block and Body are absent.
	Accessor struct {
		Kind  AccessorKind
		Mods  []string
		Block StmtID
		Body  ExprID
		Lead  []token.Trivia
	}

	// MethodDecl covers methods, constructors, operators and local functions.
	// Name holds the operator token spelling for MethodOperator.
	MethodDecl struct {
		Kind       MethodKind
		Mods       []string
		Ret        TypeID
		Name       string
		TypeParams []string
		Params     []Param
		Block      StmtID
		Body       ExprID
	}
)

func (UnitDecl) DeclKind() DeclKind      { return DeclUnit }
func (UsingDecl) DeclKind() DeclKind     { return DeclUsing }
func (NamespaceDecl) DeclKind() DeclKind { return DeclNamespace }
func (TypeDecl) DeclKind() DeclKind      { return DeclType }
func (FieldDecl) DeclKind() DeclKind     { return DeclField }
func (PropertyDecl) DeclKind() DeclKind  { return DeclProperty }
func (MethodDecl) DeclKind() DeclKind    { return DeclMethod }

// HasMod reports whether mods contains the modifier.
func HasMod(mods []string, mod string) bool {
	return slices.Contains(mods, mod)
}

// IsAuto reports whether the accessor has no body of either form.
func (a Accessor) IsAuto() bool {
	return !a.Block.IsValid() && !a.Body.IsValid()
}
