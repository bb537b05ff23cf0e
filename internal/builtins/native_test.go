package builtins

import (
	"bytes"
	"testing"

	"github.com/funvibe/bnt/internal/typesystem"
	"github.com/funvibe/bnt/internal/values"
)

func intList(xs ...int) *values.ListValue {
	data := make([]values.Value, len(xs))
	for i, x := range xs {
		data[i] = values.NewInt(x)
	}
	return values.NewList(typesystem.NewIntType(), data)
}

func dataOf(t *testing.T, v values.Value) []values.Value {
	t.Helper()
	lv, ok := v.(*values.ListValue)
	if !ok {
		t.Fatalf("expected *values.ListValue, got %T", v)
	}
	return lv.Data
}

func ints(t *testing.T, vs []values.Value) []int {
	t.Helper()
	out := make([]int, len(vs))
	for i, v := range vs {
		iv, ok := v.(*values.IntValue)
		if !ok {
			t.Fatalf("expected *values.IntValue at %d, got %T", i, v)
		}
		out[i] = iv.Data
	}
	return out
}

func TestInsertProducesNewList(t *testing.T) {
	l := intList(1, 2, 3)
	out, err := insertFn(nil, []values.Value{l, values.NewInt(99), values.NewInt(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := ints(t, dataOf(t, out))
	if len(got) != 4 || got[1] != 99 {
		t.Fatalf("expected [1 99 2 3], got %v", got)
	}
	if orig := ints(t, l.Data); len(orig) != 3 {
		t.Fatalf("expected original list untouched, got %v", orig)
	}
}

func TestInsertOutOfBoundsErrors(t *testing.T) {
	l := intList(1, 2)
	if _, err := insertFn(nil, []values.Value{l, values.NewInt(9), values.NewInt(5)}); err == nil {
		t.Fatalf("expected an out-of-bounds error")
	}
}

func TestRemoveFromEmptyErrors(t *testing.T) {
	if _, err := removeFn(nil, []values.Value{intList(), values.NewInt(0)}); err == nil {
		t.Fatalf("expected an error removing from an empty list")
	}
}

func TestPushFrontInPlaceMutatesSharedList(t *testing.T) {
	l := intList(2, 3)
	ret, err := pushFrontInPlaceFn(nil, []values.Value{l, values.NewInt(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ints(t, l.Data); len(got) != 3 || got[0] != 1 {
		t.Fatalf("expected original list to be mutated to [1 2 3], got %v", got)
	}
	if ret != values.Value(l) {
		t.Fatalf("expected pushFrontInPlace to return the same list identity")
	}
}

func TestPushBackInPlaceMutatesSharedList(t *testing.T) {
	l := intList(1, 2)
	if _, err := pushBackInPlaceFn(nil, []values.Value{l, values.NewInt(3)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ints(t, l.Data); len(got) != 3 || got[2] != 3 {
		t.Fatalf("expected [1 2 3], got %v", got)
	}
}

func TestPushInPlaceRejectsWrongElementType(t *testing.T) {
	l := intList(1, 2)
	if _, err := pushBackInPlaceFn(nil, []values.Value{l, values.NewString("x")}); err == nil {
		t.Fatalf("expected a type-mismatch error pushing a string onto an int list")
	}
}

func TestFindReturnsNegativeOneSentinelWhenAbsent(t *testing.T) {
	l := intList(1, 2, 3)
	out, err := findFn(nil, []values.Value{l, values.NewInt(42)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iv := out.(*values.IntValue); iv.Data != -1 {
		t.Fatalf("expected sentinel -1, got %d", iv.Data)
	}
}

func TestFindReturnsIndexWhenPresent(t *testing.T) {
	l := intList(5, 6, 7)
	out, err := findFn(nil, []values.Value{l, values.NewInt(6)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if iv := out.(*values.IntValue); iv.Data != 1 {
		t.Fatalf("expected index 1, got %d", iv.Data)
	}
}

func TestReverse(t *testing.T) {
	out, err := reverseFn(nil, []values.Value{intList(1, 2, 3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ints(t, dataOf(t, out)); got[0] != 3 || got[2] != 1 {
		t.Fatalf("expected [3 2 1], got %v", got)
	}
}

func TestEqualsComparesElementwise(t *testing.T) {
	out, err := equalsFn(nil, []values.Value{intList(1, 2), intList(1, 2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.(*values.BoolValue).Data {
		t.Fatalf("expected equal lists to compare true")
	}
	out, err = equalsFn(nil, []values.Value{intList(1, 2), intList(1, 3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.(*values.BoolValue).Data {
		t.Fatalf("expected differing lists to compare false")
	}
}

func TestRangeBoundsChecking(t *testing.T) {
	l := intList(0, 1, 2, 3)
	if _, err := rangeFn(nil, []values.Value{l, values.NewInt(2), values.NewInt(1)}); err == nil {
		t.Fatalf("expected an error when start > end")
	}
	out, err := rangeFn(nil, []values.Value{l, values.NewInt(1), values.NewInt(2)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ints(t, dataOf(t, out)); len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected [1 2], got %v", got)
	}
}

func TestIntCharRoundTripNarrowsToByte(t *testing.T) {
	c, err := intToCharFn(nil, []values.Value{values.NewInt(65)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.(*values.CharValue).Data != 'A' {
		t.Fatalf("expected 'A', got %v", c)
	}
	back, err := charToIntFn(nil, []values.Value{c})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.(*values.IntValue).Data != 65 {
		t.Fatalf("expected 65, got %v", back)
	}
}

func TestStringCharListRoundTripIsRuneAware(t *testing.T) {
	s := values.NewString("héllo")
	list, err := stringToCharListFn(nil, []values.Value{s})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	back, err := charListToStringFn(nil, []values.Value{list})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.(*values.StringValue).Data != "héllo" {
		t.Fatalf("expected round trip to preserve multi-byte rune, got %q", back.(*values.StringValue).Data)
	}
}

func TestPrintIntWritesToOut(t *testing.T) {
	var buf bytes.Buffer
	if _, err := printIntFn(&buf, []values.Value{values.NewInt(7)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "7\n" {
		t.Fatalf("expected \"7\\n\", got %q", buf.String())
	}
}

func TestPrintListFormatsPrimitives(t *testing.T) {
	var buf bytes.Buffer
	if _, err := printListFn(&buf, []values.Value{intList(1, 2, 3)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.String() != "(1, 2, 3)\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestSizeAndIsEmpty(t *testing.T) {
	empty := intList()
	if v, _ := isEmptyFn(nil, []values.Value{empty}); !v.(*values.BoolValue).Data {
		t.Fatalf("expected empty list to report isEmpty=true")
	}
	full := intList(1, 2)
	if v, _ := sizeFn(nil, []values.Value{full}); v.(*values.IntValue).Data != 2 {
		t.Fatalf("expected size 2")
	}
}
