package typesystem

import "testing"

func TestResolveSubstitutesBoundGeneric(t *testing.T) {
	env := NewEnv()
	env.AddName("T", NewIntType())
	resolved := Resolve(NewGenType("T"), env)
	if resolved.Kind() != Int {
		t.Fatalf("expected T to resolve to int, got %v", resolved)
	}
}

func TestResolveLeavesUnboundGenericAlone(t *testing.T) {
	env := NewEnv()
	resolved := Resolve(NewGenType("T"), env)
	if resolved.Kind() != Gen {
		t.Fatalf("expected an unbound generic to pass through unchanged, got %v", resolved)
	}
}

func TestResolveWalksListStructurally(t *testing.T) {
	env := NewEnv()
	env.AddName("T", NewStringType())
	resolved := Resolve(NewListType(NewGenType("T")), env).(*ListType)
	if resolved.Elem.Kind() != String {
		t.Fatalf("expected List[T] to resolve to List[string], got %v", resolved)
	}
}

func TestResolveWalksTupleElementwise(t *testing.T) {
	env := NewEnv()
	env.AddName("T", NewBoolType())
	resolved := Resolve(NewTupleType([]Type{NewGenType("T"), NewIntType()}), env).(*TupleType)
	if resolved.Elems[0].Kind() != Bool || resolved.Elems[1].Kind() != Int {
		t.Fatalf("expected Tuple[T, int] to resolve to Tuple[bool, int], got %v", resolved)
	}
}

func TestResolveWalksFuncArgsAndReturn(t *testing.T) {
	env := NewEnv()
	env.AddName("T", NewIntType())
	fn := NewFuncType(nil, []Type{NewGenType("T")}, NewGenType("T"))
	resolved := Resolve(fn, env).(*FuncType)
	if resolved.ArgTypes[0].Kind() != Int || resolved.Return.Kind() != Int {
		t.Fatalf("expected [T](T) -> T to resolve to (int) -> int, got %v", resolved)
	}
	if fn.ArgTypes[0].Kind() != Gen {
		t.Fatalf("expected Resolve to leave the original FuncType's ArgTypes untouched, got %v", fn.ArgTypes[0])
	}
}

func TestResolveNilIsNil(t *testing.T) {
	if Resolve(nil, NewEnv()) != nil {
		t.Fatalf("expected Resolve(nil, ...) to return nil")
	}
}

func TestResolvePassesThroughNonGenericPrimitive(t *testing.T) {
	env := NewEnv()
	i := NewIntType()
	if Resolve(i, env) != i {
		t.Fatalf("expected a plain IntType to pass through unchanged (same identity)")
	}
}
