package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kartiknair/blockc/pkg/ast"
)

const program = `>> sums an inclusive slice
xs = [1, 2, 3, 4]

fn total[ys: list, scale = 1]: num
    sum = 0
    for i in 0..len[ys] - 1
        sum = sum + ys[i] * scale
    -> sum

echo[total[xs[0, 1]]]
echo[total[xs, 2]]
`

func TestTranspile(t *testing.T) {
	r, err := Transpile(program)
	require.NoError(t, err)

	want := strings.Join([]string{
		"block_xs=[1,2,3,4]",
		"def block_total(block_ys,block_scale=1):",
		"    block_sum=0",
		"    for block_i in range(0, len(block_ys)-1 + 1):",
		"        block_sum=block_sum+block_ys[block_i]*block_scale",
		"    return block_sum",
		"echo(block_total(block_xs[0:1+1]))",
		"echo(block_total(block_xs,2))",
	}, "\n")
	if diff := cmp.Diff(want, r.Code); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}

	assert.NotNil(t, r.Module)
	assert.True(t, r.Scope.IsDefinedFunction("total"))
	assert.GreaterOrEqual(t, int64(r.Timings.Total()), int64(0))
}

func TestNamespacingIsConsistent(t *testing.T) {
	r, err := Transpile(program)
	require.NoError(t, err)

	for _, name := range []string{"xs", "total", "ys", "scale", "sum"} {
		assert.Equal(t,
			strings.Count(r.Code, name),
			strings.Count(r.Code, "block_"+name),
			"every use of %s is prefixed", name,
		)
	}
}

func TestTranspileIsDeterministic(t *testing.T) {
	first, err := Transpile(program)
	require.NoError(t, err)
	second, err := Transpile(program)
	require.NoError(t, err)

	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
	assert.Len(t, first.Fingerprint(), 64)
	assert.Equal(t, Fingerprint([]byte(first.Code)), first.Fingerprint())
}

func TestTranspileDisambiguatesBrackets(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`m = ["a": 1]`, `block_m={"a":1}`},
		{`l = [1, 2]`, `block_l=[1,2]`},
		{"echo[[\"a\": 1]]", `echo({"a":1})`},
		{"echo[[1, 2]]", `echo([1,2])`},
		{"xs = [1, 2]\ny = xs[0, 1]", "block_xs=[1,2]\nblock_y=block_xs[0:1+1]"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			r, err := Transpile(tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, r.Code)
		})
	}
}

func TestTranspileFailsWithoutOutput(t *testing.T) {
	tests := map[string]string{
		"undefined":  "x = 1\necho[y]",
		"unhashable": "xs = [[\"k\": 1], 2]",
		"bad type":   "x: widget = 1",
	}

	for name, source := range tests {
		t.Run(name, func(t *testing.T) {
			r, err := Transpile(source)
			require.Error(t, err)
			assert.Nil(t, r)

			var e *ast.Error
			require.True(t, errors.As(err, &e))
			assert.True(t, strings.HasPrefix(err.Error(), "transpile-error: "))
		})
	}
}

func TestTranspileWithRuntimeModule(t *testing.T) {
	r, err := Transpile("x = 1", WithRuntimeModule("blockrt"))
	require.NoError(t, err)
	assert.Equal(t, "from blockrt import *\nblock_x=1", r.Code)
}

func TestTranspileConcurrentCallsShareNothing(t *testing.T) {
	const n = 16

	var wg sync.WaitGroup
	codes := make([]string, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// each source declares its own name and uses its neighbour's
			source := fmt.Sprintf("v%d = %d\necho[v%d]", i, i, i)
			if i%2 == 1 {
				source += fmt.Sprintf("\necho[v%d]", i-1)
			}
			r, err := Transpile(source)
			errs[i] = err
			if err == nil {
				codes[i] = r.Code
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if i%2 == 1 {
			require.Error(t, errs[i], "source %d must not see another call's names", i)
			continue
		}
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf("block_v%d=%d\necho(block_v%d)", i, i, i), codes[i])
	}
}

func TestTranspileFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main"+Extension)
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o644))

	r, err := TranspileFile(path)
	require.NoError(t, err)
	assert.Equal(t, "block_x=1", r.Code)
	assert.Equal(t, path, r.Module.Path)

	_, err = TranspileFile(filepath.Join(dir, "missing"+Extension))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}
