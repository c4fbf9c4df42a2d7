package rpallang

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compileAndRun(t *testing.T, src string) string {
	t.Helper()
	toks, err := Lex(src)
	require.NoError(t, err)
	ast, err := Parse(toks)
	require.NoError(t, err)
	st, err := Standardize(ast)
	require.NoError(t, err)
	blocks, err := Flatten(st)
	require.NoError(t, err)

	var out bytes.Buffer
	m := NewMachine(blocks)
	_, err = m.Run(&out)
	require.NoError(t, err)
	return out.String()
}

func Test_Machine_tupleIndexingViaGamma(t *testing.T) {
	// applying a tuple to a 1-based integer selects an element rather
	// than calling it (spec.md 9's tuple-indexing design note)
	out := compileAndRun(t, "let T = (10, 20, 30) in Print (T 2)")
	assert.Equal(t, "20", out)
}

func Test_Machine_nestedTuplePatternBinding(t *testing.T) {
	// `and` combining a Vl tuple-pattern definition with a plain one
	// produces a tau-of-patterns lhs (tau(comma(a,b), c)) whose first
	// element is itself a tuple pattern -- bindPattern's recursive-nesting
	// generalization of spec.md 4.5 rule 4 is what resolves this
	out := compileAndRun(t, "let a, b = (1, 2) and c = 3 in Print (a + b + c)")
	assert.Equal(t, "6", out)
}

func Test_Machine_lazyEtaUnfolding(t *testing.T) {
	// Y* f applied twice must observably behave as f (Y* f), i.e. the
	// fixed point unfolds lazily on each application rather than looping
	// eagerly at bind time
	out := compileAndRun(t, "let rec fact n = n eq 0 -> 1 | n * fact (n - 1) in Print (fact 6)")
	assert.Equal(t, "720", out)
}

func Test_Machine_unboundIdentifierIsRuntimeError(t *testing.T) {
	toks, err := Lex("Print (doesNotExist)")
	require.NoError(t, err)
	ast, err := Parse(toks)
	require.NoError(t, err)
	st, err := Standardize(ast)
	require.NoError(t, err)
	blocks, err := Flatten(st)
	require.NoError(t, err)

	m := NewMachine(blocks)
	_, err = m.Run(&bytes.Buffer{})
	assert.Error(t, err)
}

func Test_Machine_primitivesCurryAndCompose(t *testing.T) {
	out := compileAndRun(t, "Print (Conc 'foo' 'bar')")
	assert.Equal(t, "foobar", out)
}

func Test_Machine_stemAndStern(t *testing.T) {
	out := compileAndRun(t, "Print (Stem 'hello')")
	assert.Equal(t, "h", out)

	out = compileAndRun(t, "Print (Stern 'hello')")
	assert.Equal(t, "ello", out)
}

func Test_Machine_typePredicates(t *testing.T) {
	out := compileAndRun(t, "Print (Isinteger 3)")
	assert.Equal(t, "true", out)

	out = compileAndRun(t, "Print (Isstring 3)")
	assert.Equal(t, "false", out)
}

func Test_Machine_itoS(t *testing.T) {
	out := compileAndRun(t, "Print (ItoS 42)")
	assert.Equal(t, "42", out)
}
