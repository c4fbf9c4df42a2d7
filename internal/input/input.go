// Package input reads one RPAL program at a time from the REPL's input
// source. A "program" here is whatever text the user submits between
// prompts; the REPL hands each one to a fresh Engine.Run, so this package's
// only job is getting a non-blank line of source off the wire, however that
// wire is hooked up.
package input

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
)

// DirectProgramReader reads programs from any generic io.Reader, one line
// at a time. It does not sanitize control or escape sequences, so it is
// meant for piped or redirected input rather than a live terminal.
//
// DirectProgramReader should not be used directly; instead, create one with
// [NewDirectReader].
type DirectProgramReader struct {
	r *bufio.Reader
}

// InteractiveProgramReader reads programs from stdin using a Go
// implementation of the GNU Readline library, which keeps input clear of
// typing and editing escape sequences and gives the REPL line history. It
// should only be used when connected directly to a TTY.
//
// InteractiveProgramReader should not be used directly; instead, create one
// with [NewInteractiveReader].
type InteractiveProgramReader struct {
	rl *readline.Instance
}

// NewDirectReader creates a new DirectProgramReader reading from r. The
// returned reader must have Close called on it before disposal.
func NewDirectReader(r io.Reader) *DirectProgramReader {
	return &DirectProgramReader{
		r: bufio.NewReader(r),
	}
}

// NewInteractiveReader creates a new InteractiveProgramReader and
// initializes readline with the REPL's "> " prompt. The returned reader
// must have Close called on it before disposal to properly tear down
// readline resources.
func NewInteractiveReader() (*InteractiveProgramReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt: "> ",
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}

	return &InteractiveProgramReader{rl: rl}, nil
}

// Close releases the DirectProgramReader's resources. It does not currently
// hold any, since it only wraps an existing io.Reader, but callers should
// treat it as though it must be called regardless.
func (dr *DirectProgramReader) Close() error {
	return nil
}

// Close tears down the underlying readline instance.
func (ir *InteractiveProgramReader) Close() error {
	return ir.rl.Close()
}

// ReadCommand reads the next non-blank line of RPAL source from the
// underlying reader. Blank lines (empty or all whitespace) are silently
// skipped rather than run, since an empty program is not a meaningful
// submission to the CSE machine.
//
// At end of input, it returns "" and io.EOF. Any other read error is
// returned as-is with an empty string.
func (dr *DirectProgramReader) ReadCommand() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = dr.r.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
	}

	return line, nil
}

// ReadCommand reads the next non-blank line of RPAL source via readline.
// Blank lines are silently skipped, matching DirectProgramReader's
// behavior.
//
// At end of input, it returns "" and io.EOF. Any other read error is
// returned as-is with an empty string.
func (ir *InteractiveProgramReader) ReadCommand() (string, error) {
	var line string
	var err error

	for line == "" {
		line, err = ir.rl.Readline()
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimSpace(line)
	}

	return line, nil
}
