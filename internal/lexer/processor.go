package lexer

import (
	"github.com/funvibe/bnt/internal/diagnostics"
	"github.com/funvibe/bnt/internal/pipeline"
	"github.com/funvibe/bnt/internal/token"
)

// Processor is the lexing stage of the pipeline: it tokenizes
// ctx.Source on its own (ahead of any import expansion or built-in
// prelude splicing, both of which are the parser stage's concern, §4.1)
// purely so -d debug mode has a raw token dump to show and so an
// unexpected character is caught and reported before the parser ever
// runs.
type Processor struct{}

// NewProcessor constructs a lexer Processor.
func NewProcessor() *Processor { return &Processor{} }

func (p *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	tokens := TokenStream(string(ctx.Source))
	kept := tokens[:0:0]
	for _, t := range tokens {
		if t.Kind == token.ILLEGAL {
			ctx.Report.Add(diagnostics.Lex, t.Position.Line, t.Position.Column, t.Literal, t.Position.LineText)
			continue
		}
		kept = append(kept, t)
	}
	ctx.Tokens = kept
	return ctx
}
