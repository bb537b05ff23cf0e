package typesystem

// Copy performs the one-level-deep shallow copy the checker needs
// before flowing an argument's declared type into an expected-type
// slot (copyArgumentType, §4.2): a fresh top-level object is made so
// the mutating Compare cannot pollute the function's stored signature,
// but nested Unknown slots keep their identity only one level down —
// that is enough, because it is exactly those slots Compare needs
// fresh each call.
func Copy(t Type) Type {
	switch v := t.(type) {
	case *IntType:
		return &IntType{base{kind: v.kind, resolved: v.resolved}}
	case *CharType:
		return &CharType{base{kind: v.kind, resolved: v.resolved}}
	case *StringType:
		return &StringType{base{kind: v.kind, resolved: v.resolved}}
	case *BoolType:
		return &BoolType{base{kind: v.kind, resolved: v.resolved}}
	case *NullType:
		return &NullType{base{kind: v.kind, resolved: v.resolved}}
	case *UnknownType:
		return &UnknownType{base{kind: v.kind, resolved: v.resolved}}
	case *GenType:
		return &GenType{base{kind: v.kind, resolved: v.resolved}, v.Identifier}
	case *ListType:
		return &ListType{base{kind: v.kind, resolved: v.resolved}, v.Elem}
	case *TupleType:
		elems := make([]Type, len(v.Elems))
		copy(elems, v.Elems)
		return &TupleType{base{kind: v.kind, resolved: v.resolved}, elems}
	case *FuncType:
		cp := &FuncType{
			base:      base{kind: v.kind, resolved: v.resolved},
			Generics:  v.Generics,
			ArgTypes:  v.ArgTypes,
			ArgNames:  v.ArgNames,
			Return:    v.Return,
			Body:      v.Body,
			InnerEnv:  v.InnerEnv,
			IsBuiltin: v.IsBuiltin,
		}
		return cp
	case *TypeclassType:
		return &TypeclassType{base{kind: v.kind, resolved: v.resolved}, v.Ident, v.Fields}
	default:
		return t
	}
}
