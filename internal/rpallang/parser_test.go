package rpallang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Node {
	t.Helper()
	toks, err := Lex(src)
	require.NoError(t, err)
	root, err := Parse(toks)
	require.NoError(t, err)
	return root
}

func Test_Parse_letExpression(t *testing.T) {
	root := parse(t, "let x = 5 in Print (x + 3)")

	require.Equal(t, NKLet, root.Kind)
	require.Len(t, root.Children, 2)

	def := root.Children[0]
	require.Equal(t, NKEq, def.Kind)
	assert.Equal(t, "x", def.Children[0].Value)
	assert.Equal(t, NKInt, def.Children[1].Kind)

	body := root.Children[1]
	assert.Equal(t, NKGamma, body.Kind)
}

func Test_Parse_fcnForm(t *testing.T) {
	root := parse(t, "let f x y = x + y in f 1 2")

	def := root.Children[0]
	require.Equal(t, NKFcnForm, def.Kind)
	// fcn_form: name, params..., body => arity k+2 for k params
	assert.Equal(t, "f", def.Children[0].Value)
	assert.Equal(t, "x", def.Children[1].Value)
	assert.Equal(t, "y", def.Children[2].Value)
}

func Test_Parse_where(t *testing.T) {
	root := parse(t, "Print (a) where a = 1")
	require.Equal(t, NKWhere, root.Kind)
	require.Len(t, root.Children, 2)
}

func Test_Parse_lambdaMultiParam(t *testing.T) {
	root := parse(t, "fn x y . x + y")
	require.Equal(t, NKLambda, root.Kind)
	// parser keeps every Vb plus the body as siblings; currying into
	// nested single-param lambdas is standardize.go's job, not the
	// parser's
	require.Len(t, root.Children, 3)
	assert.Equal(t, "x", root.Children[0].Value)
	assert.Equal(t, "y", root.Children[1].Value)
	assert.Equal(t, NKPlus, root.Children[2].Kind)
}

func Test_Parse_tuple(t *testing.T) {
	root := parse(t, "(1, 2, 3)")
	require.Equal(t, NKTau, root.Kind)
	require.Len(t, root.Children, 3)
}

func Test_Parse_conditional(t *testing.T) {
	root := parse(t, "true -> 1 | 2")
	require.Equal(t, NKArrow, root.Kind)
	require.Len(t, root.Children, 3)
}

func Test_Parse_augmentAssociativity(t *testing.T) {
	root := parse(t, "a aug b aug c")
	require.Equal(t, NKAug, root.Kind)
	// left-associative: (a aug b) aug c
	left := root.Children[0]
	require.Equal(t, NKAug, left.Kind)
}

func Test_Parse_at(t *testing.T) {
	root := parse(t, "a @ f b")
	require.Equal(t, NKAt, root.Kind)
	require.Len(t, root.Children, 3)
	assert.Equal(t, "f", root.Children[1].Value)
}

func Test_Parse_and(t *testing.T) {
	root := parse(t, "let f x = 1 and g y = 2 in f g")
	def := root.Children[0]
	require.Equal(t, NKAnd, def.Kind)
	require.Len(t, def.Children, 2)
}

func Test_Parse_rec(t *testing.T) {
	root := parse(t, "let rec f x = f x in f 1")
	def := root.Children[0]
	require.Equal(t, NKRec, def.Kind)
}

func Test_Parse_within(t *testing.T) {
	root := parse(t, "let a = 1 within b = 2 in b")
	require.Equal(t, NKLet, root.Kind)
	def := root.Children[0]
	require.Equal(t, NKWithin, def.Kind)
}

func Test_Parse_emptyParen(t *testing.T) {
	root := parse(t, "fn () . 1")
	param := root.Children[0]
	assert.Equal(t, NKEmptyParen, param.Kind)
}

func Test_Parse_errorOnTrailingTokens(t *testing.T) {
	toks, err := Lex("(1))")
	require.NoError(t, err)
	_, err = Parse(toks)
	assert.Error(t, err)
}

func Test_Parse_errorOnIncompleteExpression(t *testing.T) {
	toks, err := Lex("1 +")
	require.NoError(t, err)
	_, err = Parse(toks)
	assert.Error(t, err)
}
