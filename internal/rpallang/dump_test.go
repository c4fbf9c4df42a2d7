package rpallang

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Dump_dottedPostOrderForm(t *testing.T) {
	toks, err := Lex("let x = 1 in x")
	require.NoError(t, err)
	ast, err := Parse(toks)
	require.NoError(t, err)

	out := Dump(ast)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.NotEmpty(t, lines)
	assert.Equal(t, "let", lines[0])
	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, "."), "expected depth-indented line, got %q", line)
	}
}

func Test_Dump_leafLabels(t *testing.T) {
	toks, err := Lex("42")
	require.NoError(t, err)
	ast, err := Parse(toks)
	require.NoError(t, err)

	out := Dump(ast)
	assert.Equal(t, "<INT:42>\n", out)
}

func Test_Dump_strLeafLabel(t *testing.T) {
	toks, err := Lex("'hi'")
	require.NoError(t, err)
	ast, err := Parse(toks)
	require.NoError(t, err)

	out := Dump(ast)
	assert.Contains(t, out, "<STR:")
}

func Test_Dump_compareNodeUsesRawOperator(t *testing.T) {
	toks, err := Lex("a gr b")
	require.NoError(t, err)
	ast, err := Parse(toks)
	require.NoError(t, err)

	out := Dump(ast)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "gr", lines[0])
}
