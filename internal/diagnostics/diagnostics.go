// Package diagnostics collects and renders the error channel shared by
// every stage of the pipeline.
package diagnostics

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Stage identifies which pipeline phase raised a Diagnostic.
type Stage string

const (
	Lex    Stage = "lex"
	Parse  Stage = "parse"
	Check  Stage = "check"
	Runtime Stage = "runtime"
)

// Diagnostic is one reported problem, adjusted to the user's source
// coordinates (the prelude's line count has already been subtracted).
type Diagnostic struct {
	Stage      Stage  `yaml:"stage"`
	Line       int    `yaml:"line"`
	Column     int    `yaml:"column"`
	Message    string `yaml:"message"`
	SourceLine string `yaml:"sourceLine"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("Line: %d, Column: %d\n%s\n%s", d.Line, d.Column, d.Message, d.SourceLine)
}

// Report accumulates diagnostics for one pipeline run.
type Report struct {
	Diagnostics []Diagnostic `yaml:"diagnostics"`
}

// NewReport constructs an empty Report.
func NewReport() *Report {
	return &Report{}
}

// Add appends a diagnostic and marks the report errored.
func (r *Report) Add(stage Stage, line, column int, message, sourceLine string) {
	r.Diagnostics = append(r.Diagnostics, Diagnostic{
		Stage:      stage,
		Line:       line,
		Column:     column,
		Message:    message,
		SourceLine: sourceLine,
	})
}

// Errored reports whether any diagnostic has been recorded.
func (r *Report) Errored() bool {
	return len(r.Diagnostics) > 0
}

// ErroredInStage reports whether any diagnostic was recorded with exactly
// this stage — used to decide which stage-specific exit code applies.
func (r *Report) ErroredInStage(stage Stage) bool {
	for _, d := range r.Diagnostics {
		if d.Stage == stage {
			return true
		}
	}
	return false
}

// Print writes every diagnostic in the donor's own plain-text block
// format: position, then message, then source line, one block per
// diagnostic.
func (r *Report) Print(w io.Writer) {
	for _, d := range r.Diagnostics {
		fmt.Fprintln(w, d.String())
	}
}

// PrintYAML marshals the full report as YAML, used by -d debug mode.
func (r *Report) PrintYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(r)
}
