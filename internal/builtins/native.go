package builtins

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/funvibe/bnt/internal/typesystem"
	"github.com/funvibe/bnt/internal/values"
)

var (
	stdinReader     *bufio.Reader
	stdinReaderOnce sync.Once
)

func getStdinReader() *bufio.Reader {
	stdinReaderOnce.Do(func() {
		stdinReader = bufio.NewReader(os.Stdin)
	})
	return stdinReader
}

// ResetStdinReader drops the cached stdin reader. Tests that swap os.Stdin
// must call this first, or they'll keep reading through the old pipe.
func ResetStdinReader() {
	stdinReaderOnce = sync.Once{}
	stdinReader = nil
}

// Func is one native built-in's implementation. It receives its
// already-evaluated, already-type-checked arguments and the stream to
// print to, and returns either a result value or an error describing why
// the call is fatal — the evaluator turns a non-nil error into a
// *RuntimeError carrying the call site's position, returned as an
// ordinary Go error rather than thrown.
type Func func(out io.Writer, args []values.Value) (values.Value, error)

// Funcs is the dispatch table keyed by built-in name, grounded on
// BuiltinImplementations::runBuiltin's if/else chain.
var Funcs = map[string]Func{
	"insert":        insertFn,
	"remove":        removeFn,
	"replace":       replaceFn,
	"pushFront":     pushFrontFn,
	"pushBack":      pushBackFn,
	"insertInPlace":    insertInPlaceFn,
	"removeInPlace":    removeInPlaceFn,
	"replaceInPlace":   replaceInPlaceFn,
	"pushFrontInPlace": pushFrontInPlaceFn,
	"pushBackInPlace":  pushBackInPlaceFn,
	"front":            frontFn,
	"back":          backFn,
	"head":          headFn,
	"tail":          tailFn,
	"combine":       combineFn,
	"append":        appendFn,
	"size":          sizeFn,
	"range":         rangeFn,
	"isEmpty":       isEmptyFn,
	"printList":     printListFn,
	"reverse":       reverseFn,
	"contains":      containsFn,
	"find":          findFn,
	"equals":        equalsFn,

	"print2Tuple": printTupleFn,
	"print3Tuple": printTupleFn,
	"print4Tuple": printTupleFn,

	"intToChar":        intToCharFn,
	"charToInt":        charToIntFn,
	"stringToCharList": stringToCharListFn,
	"charListToString": charListToStringFn,

	"printInt":    printIntFn,
	"printBool":   printBoolFn,
	"printChar":   printCharFn,
	"printString": printStringFn,
	"readChar":    readCharFn,
	"readString":  readStringFn,

	"halt": haltFn,
}

func wantList(args []values.Value, i int) (*values.ListValue, error) {
	lv, ok := args[i].(*values.ListValue)
	if !ok {
		return nil, fmt.Errorf("Error: expected a list argument")
	}
	return lv, nil
}

func wantInt(args []values.Value, i int) (int, error) {
	iv, ok := args[i].(*values.IntValue)
	if !ok {
		return 0, fmt.Errorf("Error: expected an int argument")
	}
	return iv.Data, nil
}

func elemType(lv *values.ListValue) typesystem.Type {
	lt, ok := lv.T.(*typesystem.ListType)
	if !ok || lt.Elem == nil {
		return typesystem.NewUnknownType()
	}
	return lt.Elem
}

func sameElemType(l, e values.Value) bool {
	lv, ok := l.(*values.ListValue)
	if !ok {
		return false
	}
	return elemType(lv).Compare(e.Type())
}

func cloneList(lv *values.ListValue, data []values.Value) *values.ListValue {
	return values.NewList(elemType(lv), data)
}

func insertFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	elem := args[1]
	if !sameElemType(lv, elem) {
		return nil, fmt.Errorf("Error: Element type must match list type")
	}
	index, err := wantInt(args, 2)
	if err != nil {
		return nil, err
	}
	if index < 0 || (len(lv.Data) != 0 && index >= len(lv.Data)) || (len(lv.Data) == 0 && index != 0) {
		return nil, fmt.Errorf("Error: Out of bounds list access")
	}
	out := make([]values.Value, 0, len(lv.Data)+1)
	out = append(out, lv.Data[:index]...)
	out = append(out, elem)
	out = append(out, lv.Data[index:]...)
	return cloneList(lv, out), nil
}

func removeFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	if len(lv.Data) == 0 {
		return nil, fmt.Errorf("Error: Cannot remove from empty list")
	}
	index, err := wantInt(args, 1)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(lv.Data) {
		return nil, fmt.Errorf("Error: Out of bounds list access")
	}
	out := make([]values.Value, 0, len(lv.Data)-1)
	out = append(out, lv.Data[:index]...)
	out = append(out, lv.Data[index+1:]...)
	return cloneList(lv, out), nil
}

func replaceFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	if len(lv.Data) == 0 {
		return nil, fmt.Errorf("Error: Cannot replace with element in empty list")
	}
	index, err := wantInt(args, 2)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(lv.Data) {
		return nil, fmt.Errorf("Error: Out of bounds list access")
	}
	elem := args[1]
	if !sameElemType(lv, elem) {
		return nil, fmt.Errorf("Error: Element type must match list type")
	}
	out := make([]values.Value, len(lv.Data))
	copy(out, lv.Data)
	out[index] = elem
	return cloneList(lv, out), nil
}

func pushFrontFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	elem := args[1]
	if !sameElemType(lv, elem) {
		return nil, fmt.Errorf("Error: Element type must match list type")
	}
	out := make([]values.Value, 0, len(lv.Data)+1)
	out = append(out, elem)
	out = append(out, lv.Data...)
	return cloneList(lv, out), nil
}

func pushBackFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	elem := args[1]
	if !sameElemType(lv, elem) {
		return nil, fmt.Errorf("Error: Element type must match list type")
	}
	out := make([]values.Value, 0, len(lv.Data)+1)
	out = append(out, lv.Data...)
	out = append(out, elem)
	return cloneList(lv, out), nil
}

// The InPlace variants mutate lv.Data directly, same as the donor mutating
// listValue->listData through its shared_ptr: since lv is the very same
// *ListValue the caller's binding points at, the caller observes the edit.

func insertInPlaceFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	elem := args[1]
	if !sameElemType(lv, elem) {
		return nil, fmt.Errorf("Error: Element type must match list type")
	}
	index, err := wantInt(args, 2)
	if err != nil {
		return nil, err
	}
	if index < 0 || (len(lv.Data) != 0 && index >= len(lv.Data)) || (len(lv.Data) == 0 && index != 0) {
		return nil, fmt.Errorf("Error: Out of bounds list access")
	}
	out := make([]values.Value, 0, len(lv.Data)+1)
	out = append(out, lv.Data[:index]...)
	out = append(out, elem)
	out = append(out, lv.Data[index:]...)
	lv.Data = out
	return lv, nil
}

func removeInPlaceFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	if len(lv.Data) == 0 {
		return nil, fmt.Errorf("Error: Cannot remove from empty list")
	}
	index, err := wantInt(args, 1)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(lv.Data) {
		return nil, fmt.Errorf("Error: Out of bounds list access")
	}
	lv.Data = append(lv.Data[:index], lv.Data[index+1:]...)
	return lv, nil
}

func replaceInPlaceFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	if len(lv.Data) == 0 {
		return nil, fmt.Errorf("Error: Cannot replace with element in empty list")
	}
	index, err := wantInt(args, 2)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(lv.Data) {
		return nil, fmt.Errorf("Error: Out of bounds list access")
	}
	elem := args[1]
	if !sameElemType(lv, elem) {
		return nil, fmt.Errorf("Error: Element type must match list type")
	}
	lv.Data[index] = elem
	return lv, nil
}

func pushFrontInPlaceFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	elem := args[1]
	if !sameElemType(lv, elem) {
		return nil, fmt.Errorf("Error: Element type must match list type")
	}
	lv.Data = append([]values.Value{elem}, lv.Data...)
	return lv, nil
}

func pushBackInPlaceFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	elem := args[1]
	if !sameElemType(lv, elem) {
		return nil, fmt.Errorf("Error: Element type must match list type")
	}
	lv.Data = append(lv.Data, elem)
	return lv, nil
}

func frontFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	if len(lv.Data) == 0 {
		return nil, fmt.Errorf("Error: Cannot get element from empty list")
	}
	return lv.Data[0], nil
}

func backFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	if len(lv.Data) == 0 {
		return nil, fmt.Errorf("Error: Cannot get element from empty list")
	}
	return lv.Data[len(lv.Data)-1], nil
}

func headFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	if len(lv.Data) == 0 {
		return nil, fmt.Errorf("Error: Cannot get sublist from empty list")
	}
	out := make([]values.Value, len(lv.Data)-1)
	copy(out, lv.Data[:len(lv.Data)-1])
	return cloneList(lv, out), nil
}

func tailFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	if len(lv.Data) == 0 {
		return nil, fmt.Errorf("Error: Cannot get sublist from empty list")
	}
	out := make([]values.Value, len(lv.Data)-1)
	copy(out, lv.Data[1:])
	return cloneList(lv, out), nil
}

func combineFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv1, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	lv2, err := wantList(args, 1)
	if err != nil {
		return nil, err
	}
	if !lv1.T.Compare(lv2.T) {
		return nil, fmt.Errorf("Error: List types must match")
	}
	out := make([]values.Value, 0, len(lv1.Data)+len(lv2.Data))
	out = append(out, lv1.Data...)
	out = append(out, lv2.Data...)
	return cloneList(lv1, out), nil
}

func appendFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv1, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	lv2, err := wantList(args, 1)
	if err != nil {
		return nil, err
	}
	if !lv1.T.Compare(lv2.T) {
		return nil, fmt.Errorf("Error: List types must match")
	}
	lv1.Data = append(lv1.Data, lv2.Data...)
	return lv1, nil
}

func sizeFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	return values.NewInt(len(lv.Data)), nil
}

func rangeFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	if len(lv.Data) == 0 {
		return nil, fmt.Errorf("Error: Cannot get sublist from empty list")
	}
	start, err := wantInt(args, 1)
	if err != nil {
		return nil, fmt.Errorf("Error: Start range index must be integer type")
	}
	end, err := wantInt(args, 2)
	if err != nil {
		return nil, fmt.Errorf("Error: End range index must be integer type")
	}
	if start > end || start < 0 || end < 0 || start >= len(lv.Data) || end >= len(lv.Data) {
		return nil, fmt.Errorf("Error: Invalid range")
	}
	out := make([]values.Value, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, lv.Data[i])
	}
	return cloneList(lv, out), nil
}

func isEmptyFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	return values.NewBool(len(lv.Data) == 0), nil
}

// reverse/contains/find/equals go beyond the donor, whose implementations
// are present only as unreachable stubs (`return nullptr`) — see DESIGN.md.

func reverseFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	out := make([]values.Value, len(lv.Data))
	for i, v := range lv.Data {
		out[len(lv.Data)-1-i] = v
	}
	return cloneList(lv, out), nil
}

func containsFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	elem := args[1]
	for _, v := range lv.Data {
		if valuesEqual(v, elem) {
			return values.NewBool(true), nil
		}
	}
	return values.NewBool(false), nil
}

func findFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	elem := args[1]
	for i, v := range lv.Data {
		if valuesEqual(v, elem) {
			return values.NewInt(i), nil
		}
	}
	return values.NewInt(-1), nil
}

func equalsFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv1, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	lv2, err := wantList(args, 1)
	if err != nil {
		return nil, err
	}
	if len(lv1.Data) != len(lv2.Data) {
		return values.NewBool(false), nil
	}
	for i := range lv1.Data {
		if !valuesEqual(lv1.Data[i], lv2.Data[i]) {
			return values.NewBool(false), nil
		}
	}
	return values.NewBool(true), nil
}

func valuesEqual(a, b values.Value) bool {
	switch av := a.(type) {
	case *values.IntValue:
		bv, ok := b.(*values.IntValue)
		return ok && av.Data == bv.Data
	case *values.CharValue:
		bv, ok := b.(*values.CharValue)
		return ok && av.Data == bv.Data
	case *values.StringValue:
		bv, ok := b.(*values.StringValue)
		return ok && av.Data == bv.Data
	case *values.BoolValue:
		bv, ok := b.(*values.BoolValue)
		return ok && av.Data == bv.Data
	default:
		return false
	}
}

func printTupleFn(out io.Writer, args []values.Value) (values.Value, error) {
	tv, ok := args[0].(*values.TupleValue)
	if !ok {
		return nil, fmt.Errorf("Error: expected a tuple argument")
	}
	fmt.Fprint(out, "(")
	for i, v := range tv.Data {
		if i > 0 {
			fmt.Fprint(out, ", ")
		}
		if err := printPrimitiveValue(out, v); err != nil {
			return nil, err
		}
	}
	fmt.Fprintln(out, ")")
	return values.NewNull(), nil
}

func printPrimitiveValue(out io.Writer, v values.Value) error {
	if !typesystem.IsPrimitive(v.Type()) || v.Type().Kind() == typesystem.Gen {
		return fmt.Errorf("Error: printing only takes non-generic primitives")
	}
	switch pv := v.(type) {
	case *values.IntValue:
		fmt.Fprint(out, pv.Data)
	case *values.CharValue:
		fmt.Fprintf(out, "'%c'", pv.Data)
	case *values.StringValue:
		fmt.Fprintf(out, "%q", pv.Data)
	case *values.BoolValue:
		if pv.Data {
			fmt.Fprint(out, "true")
		} else {
			fmt.Fprint(out, "false")
		}
	}
	return nil
}

func printListFn(out io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	fmt.Fprint(out, "(")
	for i, v := range lv.Data {
		if i > 0 {
			fmt.Fprint(out, ", ")
		}
		if err := printPrimitiveValue(out, v); err != nil {
			return nil, err
		}
	}
	fmt.Fprintln(out, ")")
	return values.NewNull(), nil
}

func intToCharFn(_ io.Writer, args []values.Value) (values.Value, error) {
	i, err := wantInt(args, 0)
	if err != nil {
		return nil, err
	}
	return values.NewChar(rune(byte(i))), nil
}

func charToIntFn(_ io.Writer, args []values.Value) (values.Value, error) {
	cv, ok := args[0].(*values.CharValue)
	if !ok {
		return nil, fmt.Errorf("Error: expected a char argument")
	}
	return values.NewInt(int(byte(cv.Data))), nil
}

func stringToCharListFn(_ io.Writer, args []values.Value) (values.Value, error) {
	sv, ok := args[0].(*values.StringValue)
	if !ok {
		return nil, fmt.Errorf("Error: expected a string argument")
	}
	data := make([]values.Value, 0, len(sv.Data))
	for _, r := range sv.Data {
		data = append(data, values.NewChar(r))
	}
	return values.NewList(typesystem.NewCharType(), data), nil
}

func charListToStringFn(_ io.Writer, args []values.Value) (values.Value, error) {
	lv, err := wantList(args, 0)
	if err != nil {
		return nil, err
	}
	var sb []rune
	for _, v := range lv.Data {
		cv, ok := v.(*values.CharValue)
		if !ok {
			return nil, fmt.Errorf("Error: expected a list of chars")
		}
		sb = append(sb, cv.Data)
	}
	return values.NewString(string(sb)), nil
}

func printIntFn(out io.Writer, args []values.Value) (values.Value, error) {
	iv, err := wantInt(args, 0)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(out, iv)
	return values.NewNull(), nil
}

func printBoolFn(out io.Writer, args []values.Value) (values.Value, error) {
	bv, ok := args[0].(*values.BoolValue)
	if !ok {
		return nil, fmt.Errorf("Error: expected a bool argument")
	}
	if bv.Data {
		fmt.Fprintln(out, "true")
	} else {
		fmt.Fprintln(out, "false")
	}
	return values.NewNull(), nil
}

func printCharFn(out io.Writer, args []values.Value) (values.Value, error) {
	cv, ok := args[0].(*values.CharValue)
	if !ok {
		return nil, fmt.Errorf("Error: expected a char argument")
	}
	fmt.Fprintln(out, string(cv.Data))
	return values.NewNull(), nil
}

func printStringFn(out io.Writer, args []values.Value) (values.Value, error) {
	sv, ok := args[0].(*values.StringValue)
	if !ok {
		return nil, fmt.Errorf("Error: expected a string argument")
	}
	fmt.Fprintln(out, sv.Data)
	return values.NewNull(), nil
}

func readCharFn(_ io.Writer, _ []values.Value) (values.Value, error) {
	r := getStdinReader()
	for {
		ch, _, err := r.ReadRune()
		if err != nil {
			return values.NewChar(0), nil
		}
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			continue
		}
		return values.NewChar(ch), nil
	}
}

func readStringFn(_ io.Writer, _ []values.Value) (values.Value, error) {
	r := getStdinReader()
	var sb []rune
	for {
		ch, _, err := r.ReadRune()
		if err != nil {
			break
		}
		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			if len(sb) > 0 {
				break
			}
			continue
		}
		sb = append(sb, ch)
	}
	return values.NewString(string(sb)), nil
}

func haltFn(_ io.Writer, _ []values.Value) (values.Value, error) {
	os.Exit(0)
	return values.NewNull(), nil
}
