package pipeline

import (
	"context"
	"testing"

	"github.com/funvibe/bnt/internal/diagnostics"
)

type fakeProcessor struct {
	name string
	fail bool
	log  *[]string
}

func (f fakeProcessor) Process(ctx *Context) *Context {
	*f.log = append(*f.log, f.name)
	if f.fail {
		ctx.Report.Add(diagnostics.Parse, 1, 1, f.name+" failed", "")
	}
	return ctx
}

func TestPipelineRunsEveryStageInOrder(t *testing.T) {
	var log []string
	pl := New(
		fakeProcessor{name: "a", log: &log},
		fakeProcessor{name: "b", log: &log},
		fakeProcessor{name: "c", log: &log},
	)
	ctx := pl.Run(context.Background(), &Context{Report: diagnostics.NewReport()})
	if len(log) != 3 || log[0] != "a" || log[1] != "b" || log[2] != "c" {
		t.Fatalf("expected stages to run in order a,b,c, got %v", log)
	}
	if ctx.Report.Errored() {
		t.Fatalf("did not expect any diagnostics")
	}
}

func TestPipelineShortCircuitsOnFirstError(t *testing.T) {
	var log []string
	pl := New(
		fakeProcessor{name: "a", log: &log},
		fakeProcessor{name: "b", fail: true, log: &log},
		fakeProcessor{name: "c", log: &log},
	)
	ctx := pl.Run(context.Background(), &Context{Report: diagnostics.NewReport()})
	if len(log) != 2 {
		t.Fatalf("expected stage 'c' to be skipped after 'b' fails, ran: %v", log)
	}
	if !ctx.Report.Errored() {
		t.Fatalf("expected the report to carry b's diagnostic")
	}
}

func TestPipelineStopsOnCancelledContext(t *testing.T) {
	var log []string
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	pl := New(fakeProcessor{name: "a", log: &log})
	pl.Run(ctx, &Context{Report: diagnostics.NewReport()})
	if len(log) != 0 {
		t.Fatalf("expected no stage to run once the context is already cancelled, ran: %v", log)
	}
}
