// Package pipeline is the small staging abstraction every phase of bnt's
// lex/parse/check/evaluate pipeline implements, grounded on the donor's
// own internal/pipeline usage pattern (its Context/Processor types were
// not retrievable from the donor source pack, so they are authored
// fresh here in the donor's evident idiom: a linear slice of Processors
// sharing one mutable Context, short-circuiting on the first errored
// stage).
package pipeline

import (
	"context"

	"github.com/funvibe/bnt/internal/ast"
	"github.com/funvibe/bnt/internal/diagnostics"
	"github.com/funvibe/bnt/internal/token"
)

// Context threads state between stages: Source is the raw input bytes,
// Tokens/Program accumulate as each stage finishes, Report collects
// every diagnostic any stage raises, and Debug requests a structured
// dump of Tokens/Program instead of (or alongside) running the program.
type Context struct {
	Source  []byte
	Tokens  []token.Token
	Program *ast.Program
	Report  *diagnostics.Report
	Debug   bool
}

// Processor is one pipeline stage. It returns the (possibly same)
// Context it was given, mutated with whatever it produced.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline runs a fixed sequence of Processors over one Context,
// stopping as soon as a stage leaves the Report errored — later stages
// generally assume the invariants an earlier, successful stage
// establishes (e.g. the checker assumes every node already has a
// concrete Program from a successful parse).
type Pipeline struct {
	processors []Processor
}

// New constructs a Pipeline running p in order.
func New(p ...Processor) *Pipeline {
	return &Pipeline{processors: p}
}

// Run executes every stage in order over c, short-circuiting as soon as
// c.Report.Errored() is true between stages. ctx is threaded through for
// idiomatic cancellation-on-the-boundary (a future `-timeout` flag,
// say); no stage currently checks it mid-walk since bnt's evaluator has
// no suspension points.
func (p *Pipeline) Run(ctx context.Context, c *Context) *Context {
	for _, processor := range p.processors {
		if ctx.Err() != nil {
			return c
		}
		c = processor.Process(c)
		if c.Report.Errored() {
			return c
		}
	}
	return c
}
