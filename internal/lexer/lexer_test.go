package lexer

import (
	"testing"

	"github.com/funvibe/bnt/internal/diagnostics"
	"github.com/funvibe/bnt/internal/pipeline"
	"github.com/funvibe/bnt/internal/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenStreamBasics(t *testing.T) {
	toks := TokenStream(`func add(a: int, b: int) -> int = a + b;`)
	if toks[len(toks)-1].Kind != token.EOF {
		t.Fatalf("expected trailing EOF, got %v", toks[len(toks)-1])
	}
	var sawArrow, sawPlus bool
	for _, tk := range toks {
		if tk.Kind == token.OPERATOR && tk.Literal == "->" {
			sawArrow = true
		}
		if tk.Kind == token.OPERATOR && tk.Literal == "+" {
			sawPlus = true
		}
	}
	if !sawArrow || !sawPlus {
		t.Fatalf("expected both '->' and '+' operators in stream: %v", toks)
	}
}

func TestTokenStreamMultiCharOperatorsPreferredOverSingle(t *testing.T) {
	toks := TokenStream(`a <= b`)
	if toks[1].Kind != token.OPERATOR || toks[1].Literal != "<=" {
		t.Fatalf("expected single '<=' operator token, got %+v", toks[1])
	}
}

func TestTokenStreamStringAndCharLiterals(t *testing.T) {
	toks := TokenStream(`"hi" 'x' '\n'`)
	if toks[0].Kind != token.STRING || toks[0].Literal != "hi" {
		t.Fatalf("bad string token: %+v", toks[0])
	}
	if toks[1].Kind != token.CHAR || toks[1].Literal != "x" {
		t.Fatalf("bad char token: %+v", toks[1])
	}
	if toks[2].Kind != token.CHAR || toks[2].Literal != "\n" {
		t.Fatalf("bad escaped char token: %+v", toks[2])
	}
}

func TestTokenStreamUnterminatedStringIsIllegal(t *testing.T) {
	toks := TokenStream(`"unterminated`)
	if toks[0].Kind != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL for unterminated string, got %+v", toks[0])
	}
}

func TestTokenStreamUnexpectedCharacterIsIllegal(t *testing.T) {
	toks := TokenStream(`@`)
	if toks[0].Kind != token.ILLEGAL {
		t.Fatalf("expected ILLEGAL for unexpected character, got %+v", toks[0])
	}
}

func TestTokenStreamSkipsCommentsAndWhitespace(t *testing.T) {
	toks := TokenStream("# a comment\nval x = 1;")
	if toks[0].Kind != token.KEYWORD || toks[0].Literal != "val" {
		t.Fatalf("expected comment to be skipped, got first token %+v", toks[0])
	}
}

func TestTokenStreamKeywordsVsIdentifiers(t *testing.T) {
	toks := TokenStream("func foo")
	if toks[0].Kind != token.KEYWORD {
		t.Fatalf("expected 'func' to lex as KEYWORD, got %+v", toks[0])
	}
	if toks[1].Kind != token.IDENT {
		t.Fatalf("expected 'foo' to lex as IDENT, got %+v", toks[1])
	}
}

func TestProcessorReportsIllegalAndFiltersFromTokens(t *testing.T) {
	ctx := &pipeline.Context{Source: []byte("val x = @;"), Report: diagnostics.NewReport()}
	NewProcessor().Process(ctx)
	if !ctx.Report.ErroredInStage(diagnostics.Lex) {
		t.Fatalf("expected a lex-stage diagnostic for '@'")
	}
	for _, tk := range ctx.Tokens {
		if tk.Kind == token.ILLEGAL {
			t.Fatalf("illegal token leaked into ctx.Tokens: %+v", tk)
		}
	}
}
