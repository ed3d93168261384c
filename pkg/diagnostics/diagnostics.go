// Package diagnostics is the structured error report shared by every stage
// of the checker: lexer, parser, resolver and type checker errors all
// reduce to a Diagnostic so the driver and CLI can report them uniformly.
package diagnostics

import (
	"fmt"

	"github.com/toodols/provecheck/pkg/ast"
)

// Kind classifies which stage produced a Diagnostic.
type Kind int

const (
	Lex Kind = iota
	Parse
	Resolve
	Type
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "lex error"
	case Parse:
		return "parse error"
	case Resolve:
		return "resolve error"
	case Type:
		return "type error"
	default:
		return "error"
	}
}

// Diagnostic is one reported failure: its kind, a human-readable message,
// the file and span it occurred at, and the rendered expressions involved
// (synthesised vs. declared type, for a type error; empty otherwise).
type Diagnostic struct {
	Kind    Kind
	Message string
	File    string
	Span    ast.Span
	Got     string // pretty-printed synthesised expression, if relevant
	Want    string // pretty-printed expected expression, if relevant
}

// String renders a single error line: kind, location, message, and the
// involved expressions when present.
func (d Diagnostic) String() string {
	loc := fmt.Sprintf("%s:%d:%d", d.File, d.Span.Start.Line, d.Span.Start.Column)
	s := fmt.Sprintf("%s: %s: %s", loc, d.Kind, d.Message)
	if d.Got != "" || d.Want != "" {
		s += fmt.Sprintf(" (got %s, want %s)", d.Got, d.Want)
	}
	return s
}
