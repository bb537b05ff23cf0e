package evaluator

import (
	"io"

	"github.com/funvibe/bnt/internal/diagnostics"
	"github.com/funvibe/bnt/internal/pipeline"
)

// Processor is the interpretation stage of the pipeline: it runs
// ctx.Program to completion, reporting a *RuntimeError into ctx.Report
// as a Runtime diagnostic (carrying its stack trace in the message) so
// the CLI's generic "print every diagnostic, exit with the stage's
// code" handling covers the runtime-error case too.
type Processor struct {
	Out io.Writer
	Eval *Evaluator
}

// NewProcessor constructs an evaluator Processor writing built-in
// output to out.
func NewProcessor(out io.Writer) *Processor {
	return &Processor{Out: out, Eval: New(out)}
}

func (p *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	_, err := p.Eval.Run(ctx.Program)
	if err == nil {
		return ctx
	}
	re, ok := err.(*RuntimeError)
	if !ok {
		ctx.Report.Add(diagnostics.Runtime, 0, 0, err.Error(), "")
		return ctx
	}
	msg := re.Message + "\n" + re.StackTraceString()
	ctx.Report.Add(diagnostics.Runtime, re.Token.Position.Line, re.Token.Position.Column, msg, re.Token.Position.LineText)
	return ctx
}
