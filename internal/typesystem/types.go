// Package typesystem implements the bnt type lattice (§3.1) including
// its single most distinctive mechanism: an asymmetric, mutating
// Compare that performs one-sided unification by rewriting Unknown
// slots in place. Types are modeled with interior mutability (a
// settable Kind tag on every concrete struct) rather than an immutable
// algebraic representation, because a naive immutable implementation
// rejects programs this checker must accept.
package typesystem

import "strings"

// DataType tags the kind of a Type.
type DataType int

const (
	Int DataType = iota
	Char
	String
	Bool
	Null
	List
	Tuple
	Func
	Gen
	Typeclass
	Unknown
)

func (k DataType) String() string {
	switch k {
	case Int:
		return "int"
	case Char:
		return "char"
	case String:
		return "string"
	case Bool:
		return "bool"
	case Null:
		return "null"
	case List:
		return "List"
	case Tuple:
		return "Tuple"
	case Func:
		return "Func"
	case Gen:
		return "Gen"
	case Typeclass:
		return "Typeclass"
	case Unknown:
		return "Unknown"
	default:
		return "?"
	}
}

// Type is a node in the type lattice. Compare is asymmetric and
// mutating: calling a.Compare(b) may rewrite b (or a) in place if
// either side is Unknown — see the package doc comment.
type Type interface {
	Kind() DataType
	SetKind(DataType)
	Resolved() bool
	SetResolved(bool)
	String() string
	Compare(other Type) bool
}

type base struct {
	kind     DataType
	resolved bool
}

func (b *base) Kind() DataType       { return b.kind }
func (b *base) SetKind(k DataType)   { b.kind = k }
func (b *base) Resolved() bool       { return b.resolved }
func (b *base) SetResolved(r bool)   { b.resolved = r }

// compareDefault implements the unoverridden base-case Compare: either
// side being Unknown is rewritten to the other's kind, otherwise kinds
// must match exactly. Unlike the donor's literal C++ base case (which
// only rewrites when the argument, not the receiver, is Unknown), this
// is deliberately symmetric per §3.1/§8 invariant 2 ("compare(T,
// Unknown) = compare(Unknown, T) = true").
func compareDefault(self, other Type) bool {
	if other == nil {
		return false
	}
	if other.Kind() == Unknown {
		other.SetKind(self.Kind())
		return true
	}
	if self.Kind() == Unknown {
		self.SetKind(other.Kind())
		return true
	}
	return self.Kind() == other.Kind()
}

// IntType is the Int primitive.
type IntType struct{ base }

func NewIntType() *IntType                  { return &IntType{base{kind: Int}} }
func (t *IntType) String() string           { return "int" }
func (t *IntType) Compare(other Type) bool   { return compareDefault(t, other) }

// CharType is the Char primitive.
type CharType struct{ base }

func NewCharType() *CharType                { return &CharType{base{kind: Char}} }
func (t *CharType) String() string          { return "char" }
func (t *CharType) Compare(other Type) bool { return compareDefault(t, other) }

// StringType is the String primitive.
type StringType struct{ base }

func NewStringType() *StringType              { return &StringType{base{kind: String}} }
func (t *StringType) String() string          { return "string" }
func (t *StringType) Compare(other Type) bool { return compareDefault(t, other) }

// BoolType is the Bool primitive.
type BoolType struct{ base }

func NewBoolType() *BoolType                { return &BoolType{base{kind: Bool}} }
func (t *BoolType) String() string          { return "bool" }
func (t *BoolType) Compare(other Type) bool { return compareDefault(t, other) }

// NullType is the Null primitive.
type NullType struct{ base }

func NewNullType() *NullType                { return &NullType{base{kind: Null}} }
func (t *NullType) String() string          { return "null" }
func (t *NullType) Compare(other Type) bool { return compareDefault(t, other) }

// UnknownType is a free placeholder slot, the lattice bottom.
type UnknownType struct{ base }

func NewUnknownType() *UnknownType            { return &UnknownType{base{kind: Unknown}} }
func (t *UnknownType) String() string         { return "unknown" }
func (t *UnknownType) Compare(other Type) bool { return compareDefault(t, other) }

// GenType is a parametric type variable scoped to one function
// declaration. Compare treats it like any other primitive (nominal
// equality by kind tag only — the identifier is not compared, matching
// the donor, since by the time two Gen-tagged slots are compared they
// have usually already been resolved away).
type GenType struct {
	base
	Identifier string
}

func NewGenType(identifier string) *GenType { return &GenType{base{kind: Gen}, identifier} }
func (t *GenType) String() string           { return t.Identifier }
func (t *GenType) Compare(other Type) bool  { return compareDefault(t, other) }

// ListType carries its element type. A List-shaped Unknown placeholder
// is represented as a *ListType constructed with NewUnknownListType —
// this is what lets Compare fill in Elem once the real shape is known.
type ListType struct {
	base
	Elem Type
}

func NewListType(elem Type) *ListType    { return &ListType{base{kind: List}, elem} }
func NewUnknownListType() *ListType      { return &ListType{base: base{kind: Unknown}} }

func (t *ListType) String() string {
	if t.Elem == nil {
		return "List[unknown]"
	}
	return "List[" + t.Elem.String() + "]"
}

func (t *ListType) Compare(other Type) bool {
	if other == nil {
		return false
	}
	if other.Kind() == Unknown {
		if ol, ok := other.(*ListType); ok {
			ol.Elem = t.Elem
		}
		other.SetKind(List)
		return true
	}
	if t.Kind() == Unknown {
		if other.Kind() != List {
			return false
		}
		ol := other.(*ListType)
		t.Elem = ol.Elem
		t.SetKind(List)
		return true
	}
	if other.Kind() != List {
		return false
	}
	ol := other.(*ListType)
	if t.Elem.Kind() == Unknown {
		t.Elem = ol.Elem
		return true
	}
	if ol.Elem.Kind() == Unknown {
		ol.Elem = t.Elem
		return true
	}
	return t.Elem.Compare(ol.Elem)
}

// TupleType carries an ordered, heterogeneous element-type sequence.
type TupleType struct {
	base
	Elems []Type
}

func NewTupleType(elems []Type) *TupleType { return &TupleType{base{kind: Tuple}, elems} }
func NewUnknownTupleType() *TupleType      { return &TupleType{base: base{kind: Unknown}} }

func (t *TupleType) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "Tuple[" + strings.Join(parts, ", ") + "]"
}

func (t *TupleType) Compare(other Type) bool {
	if other == nil {
		return false
	}
	if other.Kind() == Unknown {
		if ot, ok := other.(*TupleType); ok {
			ot.Elems = t.Elems
		}
		other.SetKind(Tuple)
		return true
	}
	if t.Kind() == Unknown {
		if other.Kind() != Tuple {
			return false
		}
		ot := other.(*TupleType)
		t.Elems = ot.Elems
		t.SetKind(Tuple)
		return true
	}
	if other.Kind() != Tuple {
		return false
	}
	ot := other.(*TupleType)
	if len(t.Elems) != len(ot.Elems) {
		return false
	}
	for i := range t.Elems {
		a, b := t.Elems[i], ot.Elems[i]
		if a.Kind() == Unknown {
			t.Elems[i] = b
			continue
		}
		if b.Kind() == Unknown {
			ot.Elems[i] = a
			continue
		}
		if !a.Compare(b) {
			return false
		}
	}
	return true
}

// FuncType carries a function's full signature plus, once checked, the
// captured "inner environment" call sites reuse for generic
// instantiation (§4.2). Body and InnerEnv are declared as `any` rather
// than a concrete *ast.Function / evaluator Environment type to avoid
// an import cycle between typesystem and ast/evaluator — callers cast
// them back to the concrete type they stored.
type FuncType struct {
	base
	Generics  []*GenType
	ArgTypes  []Type
	ArgNames  []string
	Return    Type
	Body      any
	InnerEnv  *Env
	IsBuiltin bool
}

func NewFuncType(generics []*GenType, argTypes []Type, returnType Type) *FuncType {
	return &FuncType{base: base{kind: Func}, Generics: generics, ArgTypes: argTypes, Return: returnType}
}
func NewUnknownFuncType() *FuncType { return &FuncType{base: base{kind: Unknown}} }

func (t *FuncType) String() string {
	gens := make([]string, len(t.Generics))
	for i, g := range t.Generics {
		gens[i] = g.String()
	}
	args := make([]string, len(t.ArgTypes))
	for i, a := range t.ArgTypes {
		args[i] = a.String()
	}
	var sb strings.Builder
	sb.WriteString("[" + strings.Join(gens, ", ") + "]")
	sb.WriteString("(" + strings.Join(args, ", ") + ")")
	sb.WriteString("->")
	if t.Return != nil {
		sb.WriteString(t.Return.String())
	}
	return sb.String()
}

func (t *FuncType) Compare(other Type) bool {
	if other == nil {
		return false
	}
	if t.Kind() == Unknown && other.Kind() == Func {
		of := other.(*FuncType)
		t.Generics = of.Generics
		t.ArgTypes = of.ArgTypes
		t.ArgNames = of.ArgNames
		t.Return = of.Return
		t.Body = of.Body
		t.InnerEnv = of.InnerEnv
		t.IsBuiltin = of.IsBuiltin
		t.SetKind(Func)
		return true
	}
	if other.Kind() == Unknown {
		other.SetKind(Func)
		if of, ok := other.(*FuncType); ok {
			of.Generics = t.Generics
			of.ArgTypes = t.ArgTypes
			of.ArgNames = t.ArgNames
			of.Return = t.Return
			of.Body = t.Body
			of.InnerEnv = t.InnerEnv
			of.IsBuiltin = t.IsBuiltin
		}
		return true
	}
	if t.Kind() == Func && other.Kind() == Func {
		of := other.(*FuncType)
		if len(t.ArgTypes) != len(of.ArgTypes) {
			return false
		}
		for i := range t.ArgTypes {
			if !t.ArgTypes[i].Compare(of.ArgTypes[i]) {
				return false
			}
		}
		return t.Return.Compare(of.Return)
	}
	return false
}

// TypeclassField is one named field of a Typeclass declaration, in
// declared order.
type TypeclassField struct {
	Name string
	Type Type
}

// TypeclassType is a nominal record type — equality is by identifier
// only, matching the donor (field lists are not re-checked here; the
// declaration is the single source of truth for field shape).
type TypeclassType struct {
	base
	Ident  string
	Fields []TypeclassField
}

func NewTypeclassType(ident string, fields []TypeclassField) *TypeclassType {
	return &TypeclassType{base{kind: Typeclass}, ident, fields}
}

func (t *TypeclassType) String() string { return t.Ident }

func (t *TypeclassType) Compare(other Type) bool {
	if other == nil {
		return false
	}
	if other.Kind() == Unknown {
		other.SetKind(Typeclass)
		if ot, ok := other.(*TypeclassType); ok {
			ot.Ident = t.Ident
			ot.Fields = t.Fields
		}
		return true
	}
	if other.Kind() != Typeclass {
		return false
	}
	return t.Ident == other.(*TypeclassType).Ident
}

// FieldByName returns a typeclass's field type by name.
func (t *TypeclassType) FieldByName(name string) (Type, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return nil, false
}

// IsPrimitive mirrors isPrimitiveType: Int, Char, String, Bool and Gen
// count as primitive for operator purposes.
func IsPrimitive(t Type) bool {
	switch t.Kind() {
	case Int, Char, String, Bool, Gen:
		return true
	default:
		return false
	}
}
