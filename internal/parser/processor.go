package parser

import (
	"github.com/funvibe/bnt/internal/pipeline"
)

// Processor is the parsing stage of the pipeline: it builds the full
// token stream (prelude + import-expanded user source) and parses it
// into ctx.Program. Prelude and Reader are fields rather than a direct
// import of internal/builtins, so this package doesn't need to know
// what the built-in catalogue contains — cmd/bnt wires them together.
type Processor struct {
	Prelude string
	Reader  FileReader
}

// NewProcessor constructs a parser Processor splicing prelude ahead of
// the user source and resolving imports via reader.
func NewProcessor(prelude string, reader FileReader) *Processor {
	return &Processor{Prelude: prelude, Reader: reader}
}

func (p *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	ctx.Program = ParseProgramWithPrelude(p.Prelude, string(ctx.Source), p.Reader, ctx.Report)
	return ctx
}
