package typesystem

// Resolve recursively substitutes any Gen(name) occurring in t with its
// binding in env, walking List/Tuple/Func structurally. Types with no
// generic parameter anywhere inside are returned unchanged.
func Resolve(t Type, env *Env) Type {
	if t == nil {
		return nil
	}
	switch v := t.(type) {
	case *GenType:
		if bound, ok := env.GetName(v.Identifier); ok {
			return bound
		}
		return v
	case *ListType:
		if v.Elem == nil {
			return v
		}
		return &ListType{base{kind: v.kind, resolved: v.resolved}, Resolve(v.Elem, env)}
	case *TupleType:
		elems := make([]Type, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = Resolve(e, env)
		}
		return &TupleType{base{kind: v.kind, resolved: v.resolved}, elems}
	case *FuncType:
		args := make([]Type, len(v.ArgTypes))
		for i, a := range v.ArgTypes {
			args[i] = Resolve(a, env)
		}
		cp := Copy(v).(*FuncType)
		cp.ArgTypes = args
		cp.Return = Resolve(v.Return, env)
		return cp
	default:
		return t
	}
}
