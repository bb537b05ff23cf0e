package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureStdout redirects os.Stdout to a pipe for the duration of fn and
// returns everything written to it — needed because run always writes
// to the real os.Stdout rather than an injected io.Writer.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close pipe writer: %v", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		t.Fatalf("failed to read captured stdout: %v", err)
	}
	return buf.String()
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.bnt")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("failed to write temp source file: %v", err)
	}
	return path
}

func TestRunMissingArgumentPrintsUsage(t *testing.T) {
	if code := run(nil); code != 1 {
		t.Fatalf("expected exit code 1 for a missing argument, got %d", code)
	}
}

func TestRunRejectsNonBntExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.txt")
	if err := os.WriteFile(path, []byte("1"), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if code := run([]string{path}); code != 1 {
		t.Fatalf("expected exit code 1 for a non-.bnt extension, got %d", code)
	}
}

func TestRunMissingFileReportsReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.bnt")
	if code := run([]string{path}); code != 2 {
		t.Fatalf("expected exit code 2 for an unreadable source file, got %d", code)
	}
}

func TestRunLexErrorExitsThree(t *testing.T) {
	path := writeSource(t, "val x = @;")
	if code := run([]string{path}); code != 3 {
		t.Fatalf("expected exit code 3 for a lex error, got %d", code)
	}
}

func TestRunParseErrorExitsFour(t *testing.T) {
	path := writeSource(t, "val x: int = ;")
	if code := run([]string{path}); code != 4 {
		t.Fatalf("expected exit code 4 for a parse error, got %d", code)
	}
}

func TestRunCheckErrorExitsFive(t *testing.T) {
	path := writeSource(t, `"a" + 1`)
	if code := run([]string{path}); code != 5 {
		t.Fatalf("expected exit code 5 for a check error, got %d", code)
	}
}

func TestRunRuntimeErrorExitsSix(t *testing.T) {
	path := writeSource(t, "1 / 0")
	if code := run([]string{path}); code != 6 {
		t.Fatalf("expected exit code 6 for a runtime error, got %d", code)
	}
}

func TestRunSuccessExitsZero(t *testing.T) {
	path := writeSource(t, "1 + 1")
	if code := run([]string{path}); code != 0 {
		t.Fatalf("expected exit code 0 for a successful run, got %d", code)
	}
}

func TestRunDebugFlagStillSucceeds(t *testing.T) {
	path := writeSource(t, "1 + 1")
	var code int
	captureStdout(t, func() { code = run([]string{"-d", path}) })
	if code != 0 {
		t.Fatalf("expected exit code 0 for a successful -d run, got %d", code)
	}
}

func TestRunDebugFlagDumpsTokensAndTypedAST(t *testing.T) {
	path := writeSource(t, "1 + 1")
	var code int
	out := captureStdout(t, func() { code = run([]string{"-d", path}) })
	if code != 0 {
		t.Fatalf("expected exit code 0 for a successful -d run, got %d", code)
	}

	headers := []string{"=== tokens ===", "=== ast ===", "=== diagnostics ==="}
	last := -1
	for _, h := range headers {
		i := strings.Index(out, h)
		if i == -1 {
			t.Fatalf("expected -d output to contain header %q, got %q", h, out)
		}
		if i <= last {
			t.Fatalf("expected header %q to appear after the previous section, got %q", h, out)
		}
		last = i
	}

	if !strings.Contains(out, "literal: \"1\"") && !strings.Contains(out, "literal: 1") {
		t.Fatalf("expected the token dump to include the literal source tokens, got %q", out)
	}
	if !strings.Contains(out, "kind: Primitive") {
		t.Fatalf("expected the typed AST dump to include the top-level Primitive node, got %q", out)
	}
	if !strings.Contains(out, "type: int") {
		t.Fatalf("expected the typed AST dump to include each node's resolved type, got %q", out)
	}
}

// Mutually recursive functions wire each other's FuncType into their own
// InnerEnv (§4.2's lazy-monomorphisation cloning), so a typed AST dump
// that walked InnerEnv directly instead of rendering types as strings
// would recurse forever; this just needs to terminate.
func TestRunDebugFlagDumpsMutualRecursionWithoutCycling(t *testing.T) {
	path := writeSource(t, `
func isEven(n: int) -> bool = if (n == 0) true else isOdd(n - 1);
func isOdd(n: int) -> bool = if (n == 0) false else isEven(n - 1);
printInt(if (isEven(10)) 1 else 0)
`)
	var code int
	out := captureStdout(t, func() { code = run([]string{"-d", path}) })
	if code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !strings.Contains(out, "=== ast ===") {
		t.Fatalf("expected -d output to include the AST section, got %q", out)
	}
}

func TestRunTooManyArgumentsPrintsUsage(t *testing.T) {
	path := writeSource(t, "1")
	if code := run([]string{path, "extra"}); code != 1 {
		t.Fatalf("expected exit code 1 for an extra positional argument, got %d", code)
	}
}
