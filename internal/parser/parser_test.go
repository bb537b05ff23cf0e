package parser

import (
	"errors"
	"testing"

	"github.com/funvibe/bnt/internal/ast"
	"github.com/funvibe/bnt/internal/diagnostics"
)

type stubReader map[string]string

func (s stubReader) ReadFile(path string) ([]byte, error) {
	data, ok := s[path]
	if !ok {
		return nil, errors.New("not found: " + path)
	}
	return []byte(data), nil
}

func TestParseProgramFunctionsAndBody(t *testing.T) {
	report := diagnostics.NewReport()
	prog := ParseProgram(`
func add(a: int, b: int) -> int = a + b;
add(1, 2)
`, stubReader{}, report)

	if report.Errored() {
		t.Fatalf("unexpected parse errors: %v", report)
	}
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	if prog.Functions[0].Name != "add" {
		t.Fatalf("expected function named add, got %s", prog.Functions[0].Name)
	}
	if _, ok := prog.Body.(*ast.Application); !ok {
		t.Fatalf("expected body to be an Application, got %T", prog.Body)
	}
}

func TestParseProgramEmptyBodyIsEnd(t *testing.T) {
	report := diagnostics.NewReport()
	prog := ParseProgram("", stubReader{}, report)
	if report.Errored() {
		t.Fatalf("unexpected parse errors: %v", report)
	}
	if _, ok := prog.Body.(*ast.End); !ok {
		t.Fatalf("expected empty program body to be End, got %T", prog.Body)
	}
}

func TestParseProgramReportsUnexpectedToken(t *testing.T) {
	report := diagnostics.NewReport()
	ParseProgram(`val = ;`, stubReader{}, report)
	if !report.ErroredInStage(diagnostics.Parse) {
		t.Fatalf("expected a parse-stage diagnostic for malformed val statement")
	}
}

func TestParseProgramExpandsImports(t *testing.T) {
	report := diagnostics.NewReport()
	reader := stubReader{"helper.bnt": `func inc(x: int) -> int = x + 1;`}
	prog := ParseProgram(`
import helper.bnt
inc(41)
`, reader, report)

	if report.Errored() {
		t.Fatalf("unexpected parse errors: %v", report)
	}
	if len(prog.Functions) != 1 || prog.Functions[0].Name != "inc" {
		t.Fatalf("expected imported function 'inc' to be spliced in, got %+v", prog.Functions)
	}
}

func TestParseProgramMissingImportReportsError(t *testing.T) {
	report := diagnostics.NewReport()
	ParseProgram(`import missing.bnt
1`, stubReader{}, report)
	if !report.ErroredInStage(diagnostics.Parse) {
		t.Fatalf("expected a parse-stage diagnostic for missing import file")
	}
}

func TestParseProgramWithPreludeKeepsUserDiagnosticPositions(t *testing.T) {
	report := diagnostics.NewReport()
	prelude := `func printInt(x: int) -> int = null;`
	ParseProgramWithPrelude(prelude, "val = ;", stubReader{}, report)
	found := false
	for _, d := range report.Diagnostics {
		if d.Line == 1 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a diagnostic on user source line 1, got %+v", report.Diagnostics)
	}
}
