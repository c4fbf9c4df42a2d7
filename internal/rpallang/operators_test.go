package rpallang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ApplyBop_arithmetic(t *testing.T) {
	testCases := []struct {
		name   string
		op     string
		lhs    Value
		rhs    Value
		expect int
	}{
		{"add", "+", NewInt(3), NewInt(4), 7},
		{"sub", "-", NewInt(10), NewInt(4), 6},
		{"mul", "*", NewInt(3), NewInt(4), 12},
		{"div", "/", NewInt(12), NewInt(4), 3},
		{"pow", "**", NewInt(2), NewInt(5), 32},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := applyBop(tc.op, tc.lhs, tc.rhs)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, v.Int)
		})
	}
}

func Test_ApplyBop_divisionByZero(t *testing.T) {
	_, err := applyBop("/", NewInt(1), NewInt(0))
	assert.Error(t, err)
}

func Test_ApplyBop_comparisons(t *testing.T) {
	testCases := []struct {
		op     string
		lhs    int
		rhs    int
		expect bool
	}{
		{"gr", 5, 3, true},
		{"ge", 3, 3, true},
		{"ls", 2, 3, true},
		{"le", 3, 3, true},
		{"gr", 2, 3, false},
	}
	for _, tc := range testCases {
		v, err := applyBop(tc.op, NewInt(tc.lhs), NewInt(tc.rhs))
		require.NoError(t, err)
		assert.Equal(t, tc.expect, v.Bool)
	}
}

func Test_ApplyBop_equality(t *testing.T) {
	v, err := applyBop("eq", NewInt(3), NewInt(3))
	require.NoError(t, err)
	assert.True(t, v.Bool)

	v, err = applyBop("ne", NewStr("a"), NewStr("b"))
	require.NoError(t, err)
	assert.True(t, v.Bool)

	_, err = applyBop("eq", NewInt(1), NewStr("1"))
	assert.Error(t, err)
}

func Test_ApplyBop_boolOps(t *testing.T) {
	v, err := applyBop("or", NewBool(false), NewBool(true))
	require.NoError(t, err)
	assert.True(t, v.Bool)

	v, err = applyBop("&", NewBool(true), NewBool(false))
	require.NoError(t, err)
	assert.False(t, v.Bool)
}

func Test_ApplyBop_augment(t *testing.T) {
	v, err := applyBop("aug", NewStr("hello"), NewStr("world"))
	require.NoError(t, err)
	require.Equal(t, KindTup, v.Kind)
	require.Len(t, v.Elems, 2)
	assert.Equal(t, "hello", v.Elems[0].Str)
	assert.Equal(t, "world", v.Elems[1].Str)
}

func Test_ApplyBop_augmentChain(t *testing.T) {
	// nil aug a aug b builds a 2-tuple, nil contributing no element
	v, err := applyBop("aug", NewNil(), NewInt(1))
	require.NoError(t, err)
	v, err = applyBop("aug", v, NewInt(2))
	require.NoError(t, err)
	require.Len(t, v.Elems, 2)
	assert.Equal(t, 1, v.Elems[0].Int)
	assert.Equal(t, 2, v.Elems[1].Int)
}

func Test_ApplyUop(t *testing.T) {
	v, err := applyUop("neg", NewInt(5))
	require.NoError(t, err)
	assert.Equal(t, -5, v.Int)

	v, err = applyUop("not", NewBool(true))
	require.NoError(t, err)
	assert.False(t, v.Bool)

	_, err = applyUop("neg", NewBool(true))
	assert.Error(t, err)
}
