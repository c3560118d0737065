package oracle

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"desugar/internal/ast"
	"desugar/internal/source"
)

// Table is a serializable fact store keyed by node IDs of the tree it was
// produced for. Bind it to a tree to query it through the Oracle interface.
type Table struct {
	Types   []Type
	Symbols []Symbol

	ExprSymbols    map[ast.ExprID]SymbolRef
	ExprTypes      map[ast.ExprID]TypeRef
	ConvertedTypes map[ast.ExprID]TypeRef
	DeclSymbols    map[ast.DeclID]SymbolRef
	PatternSymbols map[ast.PatternID]SymbolRef
	Conversions    map[uint64]Conversion

	byName map[string]TypeRef
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		ExprSymbols:    make(map[ast.ExprID]SymbolRef),
		ExprTypes:      make(map[ast.ExprID]TypeRef),
		ConvertedTypes: make(map[ast.ExprID]TypeRef),
		DeclSymbols:    make(map[ast.DeclID]SymbolRef),
		PatternSymbols: make(map[ast.PatternID]SymbolRef),
		Conversions:    make(map[uint64]Conversion),
	}
}

func (t *Table) ensure() {
	if t.ExprSymbols == nil {
		t.ExprSymbols = make(map[ast.ExprID]SymbolRef)
	}
	if t.ExprTypes == nil {
		t.ExprTypes = make(map[ast.ExprID]TypeRef)
	}
	if t.ConvertedTypes == nil {
		t.ConvertedTypes = make(map[ast.ExprID]TypeRef)
	}
	if t.DeclSymbols == nil {
		t.DeclSymbols = make(map[ast.DeclID]SymbolRef)
	}
	if t.PatternSymbols == nil {
		t.PatternSymbols = make(map[ast.PatternID]SymbolRef)
	}
	if t.Conversions == nil {
		t.Conversions = make(map[uint64]Conversion)
	}
}

// AddType appends a type and returns its reference.
func (t *Table) AddType(ty Type) TypeRef {
	t.Types = append(t.Types, ty)
	n, err := safecast.Conv[uint32](len(t.Types))
	if err != nil {
		panic(fmt.Errorf("oracle: type table overflow: %w", err))
	}
	return TypeRef(n)
}

// Named returns the type registered under display, creating it with kind on first use.
func (t *Table) Named(kind Kind, display string) TypeRef {
	if t.byName == nil {
		t.byName = make(map[string]TypeRef, len(t.Types))
		for i := range t.Types {
			t.byName[t.Types[i].Display] = TypeRef(i + 1)
		}
	}
	if ref, ok := t.byName[display]; ok {
		return ref
	}
	ref := t.AddType(Type{Kind: kind, Name: display, Display: display})
	t.byName[display] = ref
	return ref
}

// Nullable returns the nullable wrapper of elem.
func (t *Table) Nullable(elem TypeRef) TypeRef {
	inner := t.Lookup(elem)
	if inner == nil {
		return NoType
	}
	display := inner.Display + "?"
	ref := t.Named(KindNullable, display)
	t.Types[ref-1].Elem = elem
	return ref
}

// AddSymbol appends a symbol and returns its reference.
func (t *Table) AddSymbol(sym Symbol) SymbolRef {
	t.Symbols = append(t.Symbols, sym)
	n, err := safecast.Conv[uint32](len(t.Symbols))
	if err != nil {
		panic(fmt.Errorf("oracle: symbol table overflow: %w", err))
	}
	return SymbolRef(n)
}

// AddMember registers sym as a member of owner and returns its reference.
func (t *Table) AddMember(owner TypeRef, sym Symbol) SymbolRef {
	sym.Container = owner
	ref := t.AddSymbol(sym)
	if ty := t.Lookup(owner); ty != nil {
		ty.Members = append(ty.Members, ref)
	}
	return ref
}

func (t *Table) SetType(e ast.ExprID, ty TypeRef) {
	t.ensure()
	t.ExprTypes[e] = ty
}

func (t *Table) SetConverted(e ast.ExprID, ty TypeRef) {
	t.ensure()
	t.ConvertedTypes[e] = ty
}

func (t *Table) SetSymbol(e ast.ExprID, sym SymbolRef) {
	t.ensure()
	t.ExprSymbols[e] = sym
}

func (t *Table) SetDeclared(d ast.DeclID, sym SymbolRef) {
	t.ensure()
	t.DeclSymbols[d] = sym
}

func (t *Table) SetPattern(p ast.PatternID, sym SymbolRef) {
	t.ensure()
	t.PatternSymbols[p] = sym
}

func convKey(from, to TypeRef) uint64 {
	return uint64(from)<<32 | uint64(to)
}

// SetConversion records an explicit classification that overrides the defaults.
func (t *Table) SetConversion(from, to TypeRef, c Conversion) {
	t.ensure()
	t.Conversions[convKey(from, to)] = c
}

func (t *Table) Lookup(ref TypeRef) *Type {
	if ref == NoType || int(ref) > len(t.Types) {
		return nil
	}
	return &t.Types[ref-1]
}

func (t *Table) Symbol(ref SymbolRef) *Symbol {
	if ref == NoSymbol || int(ref) > len(t.Symbols) {
		return nil
	}
	return &t.Symbols[ref-1]
}

// Classify applies recorded facts first, then the structural defaults.
func (t *Table) Classify(from, to TypeRef) Conversion {
	if c, ok := t.Conversions[convKey(from, to)]; ok {
		return c
	}
	if from == NoType || to == NoType {
		return Conversion{}
	}
	if from == to {
		return Conversion{Exists: true, Identity: true, Implicit: true, Kind: ConvIdentity}
	}
	src, dst := t.Lookup(from), t.Lookup(to)
	if src == nil || dst == nil {
		return Conversion{}
	}
	switch {
	case dst.Kind == KindNullable && dst.Elem == from:
		return Conversion{Exists: true, Implicit: true, Kind: ConvNullable}
	case dst.Display == "object" && src.IsValueType():
		return Conversion{Exists: true, Implicit: true, Kind: ConvBoxing}
	case dst.Display == "object" && src.IsReference():
		return Conversion{Exists: true, Implicit: true, Kind: ConvImplicitReference}
	}
	return Conversion{}
}

// Display renders ref as a minimally qualified name.
func (t *Table) Display(ref TypeRef) string {
	ty := t.Lookup(ref)
	if ty == nil {
		return ""
	}
	if ty.Display != "" {
		return ty.Display
	}
	switch ty.Kind {
	case KindNullable:
		return t.Display(ty.Elem) + "?"
	case KindArray:
		rank := max(ty.Rank, 1)
		return t.Display(ty.Elem) + "[" + strings.Repeat(",", rank-1) + "]"
	case KindTuple:
		parts := make([]string, 0, len(ty.Fields))
		for _, f := range ty.Fields {
			parts = append(parts, t.Display(f.Type)+" "+f.Name)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	name := ty.Name
	if i := strings.IndexByte(name, '`'); i >= 0 {
		name = name[:i]
	}
	if len(ty.Args) == 0 {
		return name
	}
	args := make([]string, 0, len(ty.Args))
	for _, a := range ty.Args {
		args = append(args, t.Display(a))
	}
	return name + "<" + strings.Join(args, ", ") + ">"
}

// Bind returns an oracle over tree. Node facts are found on the node itself
// or, failing that, on the nodes it was rebuilt from.
func (t *Table) Bind(tree *ast.Tree) Oracle {
	t.ensure()
	return &binding{t: t, b: tree.B}
}

type binding struct {
	t *Table
	b *ast.Builder
}

func (o *binding) expr(id ast.ExprID, m map[ast.ExprID]TypeRef) (TypeRef, bool) {
	for id.IsValid() {
		if v, ok := m[id]; ok {
			return v, true
		}
		e := o.b.Expr(id)
		if e == nil {
			break
		}
		id = e.Origin
	}
	return NoType, false
}

func (o *binding) SymbolOf(id ast.ExprID) (SymbolRef, bool) {
	for id.IsValid() {
		if v, ok := o.t.ExprSymbols[id]; ok {
			return v, true
		}
		e := o.b.Expr(id)
		if e == nil {
			break
		}
		id = e.Origin
	}
	return NoSymbol, false
}

func (o *binding) TypeOf(id ast.ExprID) (TypeRef, bool) {
	return o.expr(id, o.t.ExprTypes)
}

// ConvertedTypeOf falls back to the static type when no conversion applies.
func (o *binding) ConvertedTypeOf(id ast.ExprID) (TypeRef, bool) {
	if ref, ok := o.expr(id, o.t.ConvertedTypes); ok {
		return ref, true
	}
	return o.TypeOf(id)
}

func (o *binding) ClassifyConversion(from, to TypeRef) Conversion {
	return o.t.Classify(from, to)
}

func (o *binding) MembersOf(ref TypeRef) []SymbolRef {
	ty := o.t.Lookup(ref)
	if ty == nil {
		return nil
	}
	if ty.Kind == KindNullable {
		return o.MembersOf(ty.Elem)
	}
	return ty.Members
}

func (o *binding) Lookup(ref TypeRef) *Type     { return o.t.Lookup(ref) }
func (o *binding) Symbol(ref SymbolRef) *Symbol { return o.t.Symbol(ref) }

func (o *binding) DisplayName(ref TypeRef, _ source.Span) string {
	return o.t.Display(ref)
}

func (o *binding) DeclaredSymbol(id ast.DeclID) (SymbolRef, bool) {
	for id.IsValid() {
		if v, ok := o.t.DeclSymbols[id]; ok {
			return v, true
		}
		d := o.b.Decl(id)
		if d == nil {
			break
		}
		id = d.Origin
	}
	return NoSymbol, false
}

func (o *binding) PatternSymbol(id ast.PatternID) (SymbolRef, bool) {
	for id.IsValid() {
		if v, ok := o.t.PatternSymbols[id]; ok {
			return v, true
		}
		p := o.b.Pattern(id)
		if p == nil {
			break
		}
		id = p.Origin
	}
	return NoSymbol, false
}
