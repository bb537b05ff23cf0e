// Command bnt runs a .bnt source file through the lex/parse/check/
// evaluate pipeline, following the donor cmd/funxy/main.go's own hand-
// rolled flag handling (no CLI framework) and panic-recovery idiom.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/funvibe/bnt/internal/builtins"
	"github.com/funvibe/bnt/internal/checker"
	"github.com/funvibe/bnt/internal/config"
	"github.com/funvibe/bnt/internal/diagnostics"
	"github.com/funvibe/bnt/internal/evaluator"
	"github.com/funvibe/bnt/internal/lexer"
	"github.com/funvibe/bnt/internal/parser"
	"github.com/funvibe/bnt/internal/pipeline"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

const usage = "Usage: bnt [-d] <source.bnt>\n       bnt [-d] -\n"

func main() {
	defer func() {
		if r := recover(); r != nil {
			if os.Getenv("DEBUG") == "1" {
				panic(r)
			}
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	os.Exit(run(os.Args[1:]))
}

// run implements the CLI body and returns the process exit code,
// keeping main itself limited to the panic-recovery wrapper.
func run(args []string) int {
	debug := false
	var path string
	for _, a := range args {
		switch {
		case a == "-d":
			debug = true
		case path == "":
			path = a
		default:
			fmt.Fprint(os.Stderr, usage)
			return 1
		}
	}

	source, code := readSource(path)
	if code != 0 {
		return code
	}

	ctx := &pipeline.Context{Source: source, Report: diagnostics.NewReport(), Debug: debug}
	pl := pipeline.New(
		lexer.NewProcessor(),
		parser.NewProcessor(builtins.Source, parser.OSFileReader),
		checker.NewProcessor(),
		evaluator.NewProcessor(os.Stdout),
	)
	ctx = pl.Run(context.Background(), ctx)

	if debug {
		if err := printDebugDump(os.Stdout, ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", err)
			return 1
		}
	}

	if !ctx.Report.Errored() {
		return 0
	}

	if !debug {
		ctx.Report.Print(os.Stderr)
	}
	return exitCodeFor(ctx.Report)
}

// readSource loads the program text either from a named .bnt file or,
// when path is "-" or empty with a non-TTY stdin, from standard input
// (§6.1). It returns a non-zero exit code on any failure.
func readSource(path string) ([]byte, int) {
	if path == "" {
		if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
			fmt.Fprint(os.Stderr, usage)
			return nil, 1
		}
		// No argument and nothing piped in counts as a missing argument.
		data, err := readAll(os.Stdin)
		if err != nil || len(data) == 0 {
			fmt.Fprint(os.Stderr, usage)
			return nil, 1
		}
		return data, 0
	}

	if path != "-" && !strings.HasSuffix(path, config.SourceFileExt) {
		fmt.Fprintf(os.Stderr, "Error: source file must have a %s extension\n", config.SourceFileExt)
		return nil, 1
	}

	if path == "-" {
		data, err := readAll(os.Stdin)
		if err != nil || len(data) == 0 {
			fmt.Fprintln(os.Stderr, "Error: empty or unreadable standard input")
			return nil, 2
		}
		return data, 0
	}

	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		fmt.Fprintf(os.Stderr, "Error: could not read source file %s\n", path)
		return nil, 2
	}
	return data, 0
}

func readAll(f *os.File) ([]byte, error) {
	var buf []byte
	chunk := make([]byte, 4096)
	for {
		n, err := f.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			if len(buf) > 0 {
				return buf, nil
			}
			return buf, err
		}
	}
}

// printDebugDump renders -d mode's three sections — a token dump, a
// typed AST dump, and the diagnostics report — each under its own plain
// header and each as its own YAML document, matching the donor stack's
// yaml.v3 dependency rather than an ad-hoc fmt.Printf tree.
func printDebugDump(w io.Writer, ctx *pipeline.Context) error {
	fmt.Fprintln(w, "=== tokens ===")
	if err := yamlEncode(w, ctx.Tokens); err != nil {
		return err
	}

	fmt.Fprintln(w, "=== ast ===")
	if ctx.Program != nil {
		if err := yamlEncode(w, ctx.Program.Dump()); err != nil {
			return err
		}
	}

	fmt.Fprintln(w, "=== diagnostics ===")
	return ctx.Report.PrintYAML(w)
}

func yamlEncode(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(v)
}

// exitCodeFor maps the earliest-erroring stage to its exit code (§6.1).
func exitCodeFor(r *diagnostics.Report) int {
	switch {
	case r.ErroredInStage(diagnostics.Lex):
		return 3
	case r.ErroredInStage(diagnostics.Parse):
		return 4
	case r.ErroredInStage(diagnostics.Check):
		return 5
	default:
		return 6
	}
}
