package cache_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dewminawijekoon/rpal"
	"github.com/dewminawijekoon/rpal/internal/cache"
)

func Test_SaveLoad_roundTrip(t *testing.T) {
	testCases := []struct {
		name   string
		source string
	}{
		{
			name:   "simple let binding",
			source: "let x = 5 in Print (x + 3)",
		},
		{
			name:   "recursive factorial",
			source: "let rec f n = n eq 0 -> 1 | n * f (n-1) in Print (f 5)",
		},
		{
			name:   "tuple and aug",
			source: "Print ('hello' aug 'world')",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			eng := rpal.New(nil)
			blocks, err := eng.CompileCache(tc.source)
			require.NoError(t, err)

			path := filepath.Join(t.TempDir(), "program.rpalc")
			require.NoError(t, cache.Save(path, blocks))

			loaded, err := cache.Load(path)
			require.NoError(t, err)
			assert.Equal(t, blocks, loaded)
		})
	}
}

func Test_Load_missingFileErrors(t *testing.T) {
	_, err := cache.Load(filepath.Join(t.TempDir(), "does-not-exist.rpalc"))
	assert.Error(t, err)
}

func Test_RunCompiled_producesSameOutputAsRun(t *testing.T) {
	source := "let Sum(A) = Psum (A, Order A) where rec Psum (T,N) = N eq 0 -> 0 | Psum(T, N-1) + T N in Print (Sum (1,2,3,4,5))"

	directOut := &capturingWriter{}
	directEng := rpal.New(directOut)
	require.NoError(t, directEng.Run(source))

	compileEng := rpal.New(nil)
	blocks, err := compileEng.CompileCache(source)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "program.rpalc")
	require.NoError(t, cache.Save(path, blocks))

	loaded, err := cache.Load(path)
	require.NoError(t, err)

	compiledOut := &capturingWriter{}
	runEng := rpal.New(compiledOut)
	require.NoError(t, runEng.RunCompiled(loaded))

	assert.Equal(t, directOut.String(), compiledOut.String())
}

type capturingWriter struct {
	data []byte
}

func (w *capturingWriter) Write(p []byte) (int, error) {
	w.data = append(w.data, p...)
	return len(p), nil
}

func (w *capturingWriter) String() string {
	return string(w.data)
}
