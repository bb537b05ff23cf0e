package parser

import (
	"os"

	"github.com/funvibe/bnt/internal/diagnostics"
	"github.com/funvibe/bnt/internal/lexer"
	"github.com/funvibe/bnt/internal/token"
)

// FileReader resolves an import path to file bytes. It is a seam: the
// real CLI uses osFileReader, tests supply an in-memory stub, matching
// the donor's preference for small interfaces at I/O boundaries.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

type osFileReader struct{}

func (osFileReader) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// OSFileReader is the default, real-filesystem FileReader.
var OSFileReader FileReader = osFileReader{}

// ExpandImports scans tokens for `import <path>` runs, splices the
// referenced file's own token stream in place, and repeats to a fixed
// point (§4.1). There are no module scopes — this is pure textual
// inclusion.
func ExpandImports(tokens []token.Token, reader FileReader, report *diagnostics.Report) []token.Token {
	for {
		idx := findImport(tokens)
		if idx == -1 {
			return tokens
		}

		end, path := readImportPath(tokens, idx+1)

		data, err := reader.ReadFile(path)
		if err != nil {
			tok := tokens[idx]
			report.Add(diagnostics.Parse, tok.Position.Line, tok.Position.Column,
				"Error: Could not read import file: "+path, tok.Position.LineText)
			tokens = append(tokens[:idx], tokens[end:]...)
			continue
		}

		sub := lexer.New(string(data))
		var spliced []token.Token
		for {
			t := sub.NextToken()
			if t.Kind == token.EOF {
				break
			}
			spliced = append(spliced, t)
		}

		tail := append([]token.Token{}, tokens[end:]...)
		tokens = append(tokens[:idx], append(spliced, tail...)...)
	}
}

func findImport(tokens []token.Token) int {
	for i, t := range tokens {
		if t.Kind == token.KEYWORD && t.Literal == "import" {
			return i
		}
	}
	return -1
}

// readImportPath consumes path-continuation tokens starting at start,
// returning the index just past the path and the assembled path
// string. A segment that directly follows another segment (no '/' or
// '.' between them) is not part of the path; it ends it.
func readImportPath(tokens []token.Token, start int) (int, string) {
	path := ""
	i := start
	prevSegment := false
	for i < len(tokens) {
		t := tokens[i]
		isSlash := t.Kind == token.OPERATOR && t.Literal == "/"
		isDot := t.Kind == token.DELIMITER && t.Literal == "."
		isSegment := t.Kind == token.IDENT || t.Kind == token.INT || t.Kind == token.KEYWORD
		if isSegment && prevSegment {
			break
		}
		if isSlash || isDot || isSegment {
			path += t.Literal
			prevSegment = isSegment
			i++
			continue
		}
		break
	}
	return i, path
}
