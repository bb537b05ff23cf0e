package evaluator

import (
	"bytes"
	"errors"
	"testing"

	"github.com/funvibe/bnt/internal/ast"
	"github.com/funvibe/bnt/internal/builtins"
	"github.com/funvibe/bnt/internal/checker"
	"github.com/funvibe/bnt/internal/diagnostics"
	"github.com/funvibe/bnt/internal/parser"
	"github.com/funvibe/bnt/internal/token"
	"github.com/funvibe/bnt/internal/values"
)

type noFiles struct{}

func (noFiles) ReadFile(path string) ([]byte, error) { return nil, errors.New("no filesystem in test") }

// run parses, checks, and evaluates src (with the builtin prelude
// spliced in), failing the test on any lex/parse/check diagnostic so
// each evaluator test only has to reason about runtime behavior.
func run(t *testing.T, out *bytes.Buffer, src string) (values.Value, error) {
	t.Helper()
	report := diagnostics.NewReport()
	prog := parser.ParseProgramWithPrelude(builtins.Source, src, noFiles{}, report)
	if report.Errored() {
		t.Fatalf("unexpected parse errors: %v", report.Diagnostics)
	}
	checker.New(report).Check(prog)
	if report.Errored() {
		t.Fatalf("unexpected check errors: %v", report.Diagnostics)
	}
	if out == nil {
		out = &bytes.Buffer{}
	}
	return New(out).Run(prog)
}

func TestEvaluateArithmetic(t *testing.T) {
	v, err := run(t, nil, `2 + 3 * 4`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*values.IntValue).Data != 14 {
		t.Fatalf("expected 14 (precedence-respecting), got %v", v)
	}
}

func TestEvaluateDivisionByZeroIsFatal(t *testing.T) {
	_, err := run(t, nil, `1 / 0`)
	if err == nil {
		t.Fatalf("expected a runtime error dividing by zero")
	}
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T", err)
	}
	if re.Message == "" {
		t.Fatalf("expected a non-empty error message")
	}
}

func TestEvaluateModuloByZeroIsFatal(t *testing.T) {
	_, err := run(t, nil, `5 % 0`)
	if err == nil {
		t.Fatalf("expected a runtime error for modulo by zero, matching division's guard")
	}
}

func TestEvaluateLetBinding(t *testing.T) {
	v, err := run(t, nil, `val x: int = 10; x + 1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*values.IntValue).Data != 11 {
		t.Fatalf("expected 11, got %v", v)
	}
}

func TestEvaluateBranch(t *testing.T) {
	v, err := run(t, nil, `if (2 > 1) 100 else 200`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*values.IntValue).Data != 100 {
		t.Fatalf("expected 100, got %v", v)
	}
}

func TestEvaluateFunctionCallAndRecursion(t *testing.T) {
	v, err := run(t, nil, `
func fact(n: int) -> int = if (n <= 1) 1 else n * fact(n - 1);
fact(5)
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*values.IntValue).Data != 120 {
		t.Fatalf("expected 120, got %v", v)
	}
}

func TestEvaluateForwardReference(t *testing.T) {
	v, err := run(t, nil, `
func first(x: int) -> int = second(x) + 1;
func second(x: int) -> int = x * 2;
first(10)
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*values.IntValue).Data != 21 {
		t.Fatalf("expected 21, got %v", v)
	}
}

func TestEvaluateClosureCapturesOuterFunction(t *testing.T) {
	v, err := run(t, nil, `
func addOne(x: int) -> int = x + helper(1);
func helper(y: int) -> int = y * 10;
addOne(5)
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*values.IntValue).Data != 15 {
		t.Fatalf("expected 15, got %v", v)
	}
}

func TestEvaluateParameterShadowsClosureBinding(t *testing.T) {
	// shadow's own parameter 'x' must win over the 'x' that reaches it
	// indirectly through useX's call environment.
	v, err := run(t, nil, `
func useX(x: int) -> int = shadow(x + 100);
func shadow(x: int) -> int = x;
useX(1)
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*values.IntValue).Data != 101 {
		t.Fatalf("expected the callee's own parameter binding (101), got %v", v)
	}
}

func TestEvaluateListIndexOutOfBounds(t *testing.T) {
	_, err := run(t, nil, `
val l: List[int] = List{1, 2, 3};
l(5)
`)
	if err == nil {
		t.Fatalf("expected an out-of-bounds runtime error")
	}
}

func TestEvaluateListIndexNegative(t *testing.T) {
	_, err := run(t, nil, `
val l: List[int] = List{1, 2, 3};
l(-1)
`)
	if err == nil {
		t.Fatalf("expected a negative-index runtime error")
	}
}

func TestEvaluateTypeclassConstructAndFieldAccess(t *testing.T) {
	v, err := run(t, nil, `
type Point { x: int, y: int };
val p: type Point = Point(3, 4);
p.x + p.y
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*values.IntValue).Data != 7 {
		t.Fatalf("expected 7, got %v", v)
	}
}

func TestEvaluateTupleFieldAccess(t *testing.T) {
	v, err := run(t, nil, `
val t: Tuple[int, string] = Tuple{42, "hi"};
t.0
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*values.IntValue).Data != 42 {
		t.Fatalf("expected 42, got %v", v)
	}
}

func TestEvaluateMatchDispatchesOnScrutinee(t *testing.T) {
	v, err := run(t, nil, `
val x: int = 2;
match (x) {
case 1 = { 100 }
case 2 = { 200 }
case any = { -1 }
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*values.IntValue).Data != 200 {
		t.Fatalf("expected 200, got %v", v)
	}
}

func TestEvaluateMatchFallsThroughToAny(t *testing.T) {
	v, err := run(t, nil, `
val x: int = 99;
match (x) {
case 1 = { 100 }
case any = { -1 }
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.(*values.IntValue).Data != -1 {
		t.Fatalf("expected -1, got %v", v)
	}
}

func TestEvaluateStringComparisonButNoConcatenation(t *testing.T) {
	v, err := run(t, nil, `"abc" < "abd"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.(*values.BoolValue).Data {
		t.Fatalf("expected \"abc\" < \"abd\" to be true")
	}
}

func TestEvaluateBuiltinCallWritesToStdout(t *testing.T) {
	var out bytes.Buffer
	_, err := run(t, &out, `printInt(42)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "42\n" {
		t.Fatalf("expected \"42\\n\", got %q", out.String())
	}
}

func TestEvaluateUndefinedReferenceIsFatal(t *testing.T) {
	// The checker would normally catch this; construct the AST directly
	// to exercise the evaluator's own defensive getName path.
	var tok token.Token
	ref := ast.NewReference(tok, "doesNotExist", false, "")
	ev := New(&bytes.Buffer{})
	_, err := ev.Run(ast.NewProgram(tok, nil, ref))
	if err == nil {
		t.Fatalf("expected a fatal error for an undefined reference")
	}
}

func TestRuntimeErrorStackTraceFormatsTopOfStackFirst(t *testing.T) {
	_, err := run(t, nil, `
func inner(n: int) -> int = 1 / n;
func outer(n: int) -> int = inner(n);
outer(0)
`)
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T (%v)", err, err)
	}
	trace := re.StackTraceString()
	if !bytesContainsInOrder(trace, "inner", "outer") {
		t.Fatalf("expected stack trace to list 'inner' before 'outer' (top of stack first), got %q", trace)
	}
}

func TestRuntimeErrorStackTraceDisambiguatesRecursiveFrames(t *testing.T) {
	_, err := run(t, nil, `
func countdown(n: int) -> int = if (n == 0) 1 / n else countdown(n - 1);
countdown(3)
`)
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T (%v)", err, err)
	}

	ids := make(map[string]bool)
	for _, f := range re.StackTrace {
		if f.Name == "countdown" {
			ids[f.ID.String()] = true
		}
	}
	if len(ids) < 2 {
		t.Fatalf("expected at least two distinct frame IDs across recursive calls to 'countdown', got %d", len(ids))
	}

	trace := re.StackTraceString()
	if count := countOccurrences(trace, "at 'countdown' #"); count < 2 {
		t.Fatalf("expected StackTraceString to disambiguate recursive 'countdown' frames with an ID suffix, got %q", trace)
	}
}

func countOccurrences(s, sub string) int {
	n := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			n++
		}
	}
	return n
}

func bytesContainsInOrder(s string, first, second string) bool {
	i := indexOf(s, first)
	j := indexOf(s, second)
	return i != -1 && j != -1 && i < j
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

