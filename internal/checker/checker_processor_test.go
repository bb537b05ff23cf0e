package checker

import (
	"testing"

	"github.com/funvibe/bnt/internal/ast"
	"github.com/funvibe/bnt/internal/diagnostics"
	"github.com/funvibe/bnt/internal/pipeline"
	"github.com/funvibe/bnt/internal/token"
)

func TestProcessorPopulatesReturnTypesAndReport(t *testing.T) {
	report := diagnostics.NewReport()
	prog := ast.NewProgram(token.Token{}, nil, ast.NewLiteralInt(token.Token{}, 5))
	ctx := &pipeline.Context{Program: prog, Report: report}
	NewProcessor().Process(ctx)
	if report.Errored() {
		t.Fatalf("unexpected check errors: %v", report.Diagnostics)
	}
}

func TestProcessorReportsMismatch(t *testing.T) {
	report := diagnostics.NewReport()
	bad := ast.NewPrimitive(token.Token{}, "+", ast.NewLiteralString(token.Token{}, "a"), ast.NewLiteralInt(token.Token{}, 1))
	prog := ast.NewProgram(token.Token{}, nil, bad)
	ctx := &pipeline.Context{Program: prog, Report: report}
	NewProcessor().Process(ctx)
	if !report.ErroredInStage(diagnostics.Check) {
		t.Fatalf("expected a check-stage diagnostic for string + int")
	}
}
