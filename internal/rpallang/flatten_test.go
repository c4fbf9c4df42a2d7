package rpallang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatten(t *testing.T, src string) [][]Symbol {
	t.Helper()
	toks, err := Lex(src)
	require.NoError(t, err)
	ast, err := Parse(toks)
	require.NoError(t, err)
	st, err := Standardize(ast)
	require.NoError(t, err)
	blocks, err := Flatten(st)
	require.NoError(t, err)
	return blocks
}

func Test_Flatten_blockZeroIsEntryPoint(t *testing.T) {
	blocks := flatten(t, "1 + 2")
	require.NotEmpty(t, blocks)
	// lhs, rhs, then the Bop, in that natural left-to-right order
	require.Len(t, blocks[0], 3)
	assert.Equal(t, SymConst, blocks[0][0].Kind)
	assert.Equal(t, SymConst, blocks[0][1].Kind)
	assert.Equal(t, SymBop, blocks[0][2].Kind)
	assert.Equal(t, "+", blocks[0][2].Name)
}

func Test_Flatten_gammaReversesOperandOrder(t *testing.T) {
	// f x  =>  gamma(f, x): rand (x) flattened before rator (f), so rator
	// ends up on stack top per spec.md 4.5 rule 4's pop order
	blocks := flatten(t, "f x")
	require.Len(t, blocks[0], 3)
	assert.Equal(t, SymId, blocks[0][0].Kind)
	assert.Equal(t, "x", blocks[0][0].Name)
	assert.Equal(t, SymId, blocks[0][1].Kind)
	assert.Equal(t, "f", blocks[0][1].Name)
	assert.Equal(t, SymGamma, blocks[0][2].Kind)
}

func Test_Flatten_lambdaAllocatesBodyBlock(t *testing.T) {
	blocks := flatten(t, "fn x . x + 1")
	require.Len(t, blocks, 2)
	require.Len(t, blocks[0], 1)
	lambdaSym := blocks[0][0]
	require.Equal(t, SymLambda, lambdaSym.Kind)
	assert.Equal(t, "x", lambdaSym.Param.Value)
	assert.Equal(t, 1, lambdaSym.BodyIndex)

	body := blocks[lambdaSym.BodyIndex]
	require.Len(t, body, 3)
	assert.Equal(t, SymId, body[0].Kind)
	assert.Equal(t, SymConst, body[1].Kind)
	assert.Equal(t, SymBop, body[2].Kind)
}

func Test_Flatten_conditionalAllocatesTwoBranchBlocks(t *testing.T) {
	blocks := flatten(t, "true -> 1 | 2")
	require.Len(t, blocks, 3)

	entry := blocks[0]
	require.Len(t, entry, 4) // cond, Beta, Delta(then), Delta(else)
	assert.Equal(t, SymConst, entry[0].Kind)
	assert.Equal(t, SymBeta, entry[1].Kind)
	assert.Equal(t, SymDelta, entry[2].Kind)
	assert.Equal(t, SymDelta, entry[3].Kind)

	thenIdx := entry[2].N
	elseIdx := entry[3].N
	assert.NotEqual(t, thenIdx, elseIdx)

	require.Len(t, blocks[thenIdx], 1)
	assert.Equal(t, SymConst, blocks[thenIdx][0].Kind)
	assert.Equal(t, 1, blocks[thenIdx][0].Const.Int)

	require.Len(t, blocks[elseIdx], 1)
	assert.Equal(t, 2, blocks[elseIdx][0].Const.Int)
}

func Test_Flatten_tupleEmitsTauAfterElements(t *testing.T) {
	blocks := flatten(t, "(1, 2, 3)")
	require.Len(t, blocks[0], 4)
	assert.Equal(t, SymConst, blocks[0][0].Kind)
	assert.Equal(t, SymConst, blocks[0][1].Kind)
	assert.Equal(t, SymConst, blocks[0][2].Kind)
	assert.Equal(t, SymTau, blocks[0][3].Kind)
	assert.Equal(t, 3, blocks[0][3].N)
}

func Test_Flatten_stringLiteralUnescapesQuote(t *testing.T) {
	blocks := flatten(t, `'it\'s'`)
	require.Len(t, blocks[0], 1)
	assert.Equal(t, "it's", blocks[0][0].Const.Str)
}
