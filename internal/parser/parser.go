// Package parser turns a token.Token stream into a single ast.Program,
// grounded on the donor's recursive-descent-plus-precedence-climbing
// structure (§4.1 of SPEC_FULL.md reproduces the grammar this follows
// production-by-production).
package parser

import (
	"fmt"

	"github.com/funvibe/bnt/internal/ast"
	"github.com/funvibe/bnt/internal/diagnostics"
	"github.com/funvibe/bnt/internal/lexer"
	"github.com/funvibe/bnt/internal/token"
)

// lexTokens runs the lexer to completion; ILLEGAL tokens stay in the
// returned stream, for reportAndDropIllegal to report and remove.
func lexTokens(source string) []token.Token {
	return lexer.TokenStream(source)
}

// Parser consumes one already-import-expanded token stream.
type Parser struct {
	tokens []token.Token
	pos    int
	report *diagnostics.Report

	dummyCounter int
}

// New constructs a Parser over tokens, reporting into report.
func New(tokens []token.Token, report *diagnostics.Report) *Parser {
	return &Parser{tokens: tokens, report: report}
}

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return token.Token{Kind: token.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) atEnd() bool { return p.cur().Kind == token.EOF }

func (p *Parser) errorf(tok token.Token, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	p.report.Add(diagnostics.Parse, tok.Position.Line, tok.Position.Column, msg, tok.Position.LineText)
}

// match consumes the current token if it has the given kind/literal;
// otherwise reports an error and unconditionally advances anyway (the
// donor's own error-recovery policy: never get stuck on one token).
func (p *Parser) match(kind token.Kind, literal string) token.Token {
	t := p.cur()
	if t.Kind != kind || t.Literal != literal {
		p.errorf(t, "Error: Unexpected token '%s', expected '%s'", t.Literal, literal)
	}
	return p.advance()
}

func (p *Parser) isDelim(lit string) bool    { return p.cur().Kind == token.DELIMITER && p.cur().Literal == lit }
func (p *Parser) isKeyword(lit string) bool  { return p.cur().Kind == token.KEYWORD && p.cur().Literal == lit }
func (p *Parser) isOperator(lit string) bool { return p.cur().Kind == token.OPERATOR && p.cur().Literal == lit }

func (p *Parser) dummy() string {
	p.dummyCounter++
	return fmt.Sprintf("dummy$%d", p.dummyCounter)
}

// Parse runs the full grammar over the parser's token stream.
func (p *Parser) Parse() *ast.Program {
	return p.parseProgram()
}

// ParseProgram is the package's entry point: it tokenizes source,
// splices in every transitively imported file, then parses the
// resulting stream into a Program. Errors at either stage are
// accumulated into report rather than aborting early, so a caller can
// report every problem found in one pass (§10.1's pipeline.Context
// relies on this).
func ParseProgram(source string, reader FileReader, report *diagnostics.Report) *ast.Program {
	return ParseProgramWithPrelude("", source, reader, report)
}

// ParseProgramWithPrelude is ParseProgram plus one extra twist: preludeSource
// (bnt source text declaring the built-in functions, see internal/builtins)
// is lexed on its own and spliced in ahead of the user's tokens, rather than
// textually concatenated before lexing. This keeps every diagnostic position
// reported against the user's own source lines instead of lines shifted by
// however long the prelude happens to be.
func ParseProgramWithPrelude(preludeSource, source string, reader FileReader, report *diagnostics.Report) *ast.Program {
	var preludeTokens []token.Token
	if preludeSource != "" {
		for _, t := range lexTokens(preludeSource) {
			if t.Kind == token.ILLEGAL || t.Kind == token.EOF {
				continue
			}
			preludeTokens = append(preludeTokens, t)
		}
	}

	tokens := lexTokens(source)
	tokens = reportAndDropIllegal(tokens, report)
	tokens = ExpandImports(tokens, reader, report)
	tokens = reportAndDropIllegal(tokens, report)

	all := make([]token.Token, 0, len(preludeTokens)+len(tokens))
	all = append(all, preludeTokens...)
	all = append(all, tokens...)
	return New(all, report).Parse()
}

// reportAndDropIllegal turns every lexer ILLEGAL token into a
// diagnostics.Lex entry and removes it from the stream, so a bad
// character doesn't also cascade into spurious parse errors.
func reportAndDropIllegal(tokens []token.Token, report *diagnostics.Report) []token.Token {
	out := tokens[:0:0]
	for _, t := range tokens {
		if t.Kind == token.ILLEGAL {
			report.Add(diagnostics.Lex, t.Position.Line, t.Position.Column, t.Literal, t.Position.LineText)
			continue
		}
		out = append(out, t)
	}
	return out
}

func (p *Parser) parseProgram() *ast.Program {
	tok := p.cur()
	var funcs []*ast.Function
	for p.isKeyword("func") && p.peek(1).Kind == token.IDENT {
		funcs = append(funcs, p.parseFuncDecl())
	}
	var body ast.Expression
	if p.atEnd() {
		body = ast.NewEnd(p.cur())
	} else {
		body = p.parseExpression()
	}
	return ast.NewProgram(tok, funcs, body)
}
