package checker

import "github.com/funvibe/bnt/internal/pipeline"

// Processor is the type-checking stage of the pipeline: it walks
// ctx.Program in place, filling in every node's ReturnType and
// reporting every mismatch into ctx.Report.
type Processor struct{}

// NewProcessor constructs a checker Processor.
func NewProcessor() *Processor { return &Processor{} }

func (p *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	New(ctx.Report).Check(ctx.Program)
	return ctx
}
