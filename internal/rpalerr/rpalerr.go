// Package rpalerr holds the typed errors produced by each stage of the RPAL
// pipeline: lexing, parsing, standardization, and CSE machine execution.
//
// Each type carries a human-readable message along with whatever position
// information that stage is able to supply. Per the language spec, runtime
// errors (RuntimeError) do not carry source position -- only LexError and
// ParseError do.
package rpalerr

import (
	"fmt"

	"github.com/dekarrin/rosed"
)

// Format wraps err's message to width columns for display on a terminal or
// in an API diagnostic field, the way the teacher's engine.go wraps its
// console messages with rosed.Edit(...).Wrap(...).String() before printing
// them. A width of 0 or less disables wrapping and returns err.Error()
// unchanged.
func Format(err error, width int) string {
	msg := err.Error()
	if width <= 0 {
		return msg
	}
	return rosed.Edit(msg).Wrap(width).String()
}

// LexError is returned when the lexer cannot tokenize the remaining input, or
// when a string literal is never closed.
type LexError struct {
	Line    int
	Pos     int
	Message string
}

func (e *LexError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("lex error: %s", e.Message)
	}
	return fmt.Sprintf("lex error: line %d, char %d: %s", e.Line, e.Pos, e.Message)
}

// NewLex returns a new LexError at the given 1-indexed line and position.
func NewLex(line, pos int, format string, a ...interface{}) *LexError {
	return &LexError{Line: line, Pos: pos, Message: fmt.Sprintf(format, a...)}
}

// ParseError is returned when the parser encounters a token that does not
// match what the current grammar rule expects.
type ParseError struct {
	Line    int
	Pos     int
	Rule    string
	Message string
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("parse error in %s: %s", e.Rule, e.Message)
	}
	return fmt.Sprintf("parse error: line %d, char %d: in %s: %s", e.Line, e.Pos, e.Rule, e.Message)
}

// NewParse returns a new ParseError naming the grammar rule being reduced
// when the failure occurred.
func NewParse(line, pos int, rule, format string, a ...interface{}) *ParseError {
	return &ParseError{Line: line, Pos: pos, Rule: rule, Message: fmt.Sprintf(format, a...)}
}

// StandardizeError signals a standardizer invariant violation -- it should be
// impossible to trigger from any AST the parser can produce, and reaching one
// is a bug in the implementation rather than a malformed program.
type StandardizeError struct {
	Message string
}

func (e *StandardizeError) Error() string {
	return fmt.Sprintf("standardization bug: %s", e.Message)
}

// NewStandardize returns a new StandardizeError.
func NewStandardize(format string, a ...interface{}) *StandardizeError {
	return &StandardizeError{Message: fmt.Sprintf(format, a...)}
}

// RuntimeError is returned when the CSE machine reaches a malformed state:
// an unbound identifier, an ill-typed primitive argument, an out-of-range
// tuple index, applying a non-callable value, or integer division by zero.
//
// Per the language spec, RuntimeError deliberately carries no source
// position -- standardization discards it.
type RuntimeError struct {
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Err: %s", e.Message)
}

// NewRuntime returns a new RuntimeError.
func NewRuntime(format string, a ...interface{}) *RuntimeError {
	return &RuntimeError{Message: fmt.Sprintf(format, a...)}
}
