// Package rpal wires the lexer, parser, standardizer, flattener, and CSE
// machine into a single pipeline, and owns the buffered output stream a
// program's Print calls write to.
package rpal

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dewminawijekoon/rpal/internal/rpallang"
)

// Engine runs RPAL source against a single output stream.
type Engine struct {
	out *bufio.Writer
}

// New creates an Engine writing Print output to outputStream. If
// outputStream is nil, a bufio.Writer is opened on nothing and output is
// discarded -- callers that want stdout must pass os.Stdout explicitly.
func New(outputStream io.Writer) *Engine {
	if outputStream == nil {
		outputStream = io.Discard
	}
	return &Engine{out: bufio.NewWriter(outputStream)}
}

// Run lexes, parses, standardizes, flattens, and executes source, writing
// any Print output to the Engine's stream. On a runtime error it writes
// "Err" to the stream (spec.md 4.5's termination contract) before
// returning the error.
func (e *Engine) Run(source string) error {
	blocks, err := e.compile(source)
	if err != nil {
		return err
	}
	m := rpallang.NewMachine(blocks)
	if _, err := m.Run(e.out); err != nil {
		e.out.WriteString("Err")
		e.out.Flush()
		return err
	}
	return e.out.Flush()
}

// compile runs the pipeline through flattening without executing it.
func (e *Engine) compile(source string) ([][]rpallang.Symbol, error) {
	toks, err := rpallang.Lex(source)
	if err != nil {
		return nil, err
	}
	ast, err := rpallang.Parse(toks)
	if err != nil {
		return nil, err
	}
	st, err := rpallang.Standardize(ast)
	if err != nil {
		return nil, err
	}
	blocks, err := rpallang.Flatten(st)
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

// DumpAST lexes and parses source and renders the AST in dotted post-order
// form, per spec.md 6, without executing it.
func (e *Engine) DumpAST(source string) (string, error) {
	toks, err := rpallang.Lex(source)
	if err != nil {
		return "", err
	}
	ast, err := rpallang.Parse(toks)
	if err != nil {
		return "", err
	}
	return rpallang.Dump(ast), nil
}

// DumpST lexes, parses, and standardizes source and renders the standard
// tree in dotted post-order form, without executing it.
func (e *Engine) DumpST(source string) (string, error) {
	toks, err := rpallang.Lex(source)
	if err != nil {
		return "", err
	}
	ast, err := rpallang.Parse(toks)
	if err != nil {
		return "", err
	}
	st, err := rpallang.Standardize(ast)
	if err != nil {
		return "", err
	}
	return rpallang.Dump(st), nil
}

// CompileCache produces the cacheable, already-flattened form of source for
// internal/cache's compiled-program store.
func (e *Engine) CompileCache(source string) ([][]rpallang.Symbol, error) {
	return e.compile(source)
}

// RunCompiled executes an already-flattened program (as loaded from
// internal/cache), skipping the lex/parse/standardize/flatten stages.
func (e *Engine) RunCompiled(blocks [][]rpallang.Symbol) error {
	m := rpallang.NewMachine(blocks)
	if _, err := m.Run(e.out); err != nil {
		e.out.WriteString("Err")
		e.out.Flush()
		return fmt.Errorf("%w", err)
	}
	return e.out.Flush()
}
