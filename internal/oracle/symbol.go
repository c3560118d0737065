package oracle

// SymbolRef identifies a symbol inside a fact table. Zero means unresolved.
type SymbolRef uint32

const NoSymbol SymbolRef = 0

// SymbolKind classifies the semantic meaning of a symbol.
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolLocal
	SymbolParam
	SymbolField
	SymbolProperty
	SymbolMethod
	SymbolOperator
	SymbolType
	SymbolRangeVar
	SymbolConst
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolLocal:
		return "local"
	case SymbolParam:
		return "param"
	case SymbolField:
		return "field"
	case SymbolProperty:
		return "property"
	case SymbolMethod:
		return "method"
	case SymbolOperator:
		return "operator"
	case SymbolType:
		return "type"
	case SymbolRangeVar:
		return "range-var"
	case SymbolConst:
		return "const"
	default:
		return "invalid"
	}
}

// Access is declared accessibility.
type Access uint8

const (
	AccessPrivate Access = iota
	AccessProtected
	AccessInternal
	AccessPublic
)

// Symbol is a resolved declaration. Type is the declared type of variables,
// fields and properties, the return type of methods, and the type itself for
// SymbolType. Container is the declaring type.
type Symbol struct {
	Kind      SymbolKind
	Name      string // metadata name; operators use op_Equality style names
	Type      TypeRef
	Container TypeRef
	Static    bool
	Access    Access
	ReadOnly  bool
}

// IsPure reports whether reading the symbol twice is observably equivalent to reading it once.
func (s *Symbol) IsPure() bool {
	if s == nil {
		return false
	}
	switch s.Kind {
	case SymbolLocal, SymbolParam, SymbolRangeVar, SymbolConst:
		return true
	case SymbolField:
		return s.ReadOnly
	default:
		return false
	}
}
