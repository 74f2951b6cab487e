package mi

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mifs/pkg/errors"
	"mifs/pkg/io"
)

func loadCSV(t *testing.T, data string, categorical ...string) *io.Dataset {
	ds, dataErrors, err := io.ReadCSV(strings.NewReader(data), io.NewSet(categorical...))
	require.NoError(t, err)
	require.Empty(t, dataErrors)
	return ds
}

// randomCSV writes rows samples of four continuous features, a categorical
// feature C with four labels and a three class target T that depends on f1 and C.
func randomCSV(rows int, seed int64) string {
	r := rand.New(rand.NewSource(seed))
	labels := []string{"a", "b", "c", "d"}
	var b strings.Builder
	b.WriteString("f1,f2,f3,f4,C,T\n")
	for i := 0; i < rows; i++ {
		f1 := r.Float64() * 10
		c := r.Intn(len(labels))
		class := (int(f1/4) + c) % 3
		fmt.Fprintf(&b, "%.4f,%.4f,%.4f,%.4f,%s,t%d\n",
			f1, r.NormFloat64(), f1+r.NormFloat64(), r.ExpFloat64(), labels[c], class)
	}
	return b.String()
}

func newEngine(t *testing.T, ds *io.Dataset) *Engine {
	e, err := NewEngine(ds, DefaultConfig())
	require.NoError(t, err)
	return e
}

func TestEvaluateKnownValues(t *testing.T) {
	ds := loadCSV(t, "a,b,c\nx,x,p\nx,x,q\ny,y,p\ny,y,q\n")
	e := newEngine(t, ds)

	v, err := e.Evaluate([]string{"a"}, []string{"b"}, false)
	require.NoError(t, err)
	assert.Equal(t, 0.693, v)

	v, err = e.Evaluate([]string{"a"}, []string{"b"}, true)
	require.NoError(t, err)
	assert.Equal(t, 1.0, v)

	v, err = e.Evaluate([]string{"a"}, []string{"c"}, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	// c adds one bit to a about the joint (b, c)
	v, err = e.Evaluate([]string{"a", "c"}, []string{"b", "c"}, false)
	require.NoError(t, err)
	assert.Equal(t, 1.386, v)
}

func TestEvaluateSymmetric(t *testing.T) {
	ds := loadCSV(t, randomCSV(300, 1))
	e := newEngine(t, ds)
	names := ds.ColumnNames()
	for _, x := range names {
		for _, y := range names {
			for _, normalized := range []bool{false, true} {
				xy, err := e.Evaluate([]string{x}, []string{y}, normalized)
				require.NoError(t, err)
				yx, err := e.Evaluate([]string{y}, []string{x}, normalized)
				require.NoError(t, err)
				assert.Equal(t, xy, yx, "I(%s;%s) normalized=%v", x, y, normalized)
				assert.GreaterOrEqual(t, xy, 0.0)
				if normalized {
					assert.LessOrEqual(t, xy, 1.0)
				}
			}
		}
	}
}

func TestEvaluateOneHotInvariance(t *testing.T) {
	ds := loadCSV(t, randomCSV(400, 2))
	encoded, err := io.OneHot(ds, "C")
	require.NoError(t, err)

	plain := newEngine(t, ds)
	expanded := newEngine(t, encoded)

	children, err := expanded.Resolve([]string{"C"})
	require.NoError(t, err)
	require.Len(t, children, 4)

	for _, group := range [][]string{{"C"}, {"C", "f1"}, {"f2", "C"}} {
		want, err := plain.Evaluate(group, []string{"T"}, false)
		require.NoError(t, err)
		got, err := expanded.Evaluate(group, []string{"T"}, false)
		require.NoError(t, err)
		assert.InDelta(t, want, got, 1e-9, "group %v", group)
	}
}

func TestEvaluateRejectsBadInput(t *testing.T) {
	e := newEngine(t, loadCSV(t, "a,b\n1,2\n3,4\n"))

	_, err := e.Evaluate(nil, []string{"b"}, false)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	_, err = e.Evaluate([]string{"a"}, []string{"z"}, false)
	require.Error(t, err)
	assert.Equal(t, errors.CodeUnknownFeature, errors.GetCode(err))

	e.Release()
	_, err = e.Evaluate([]string{"a"}, []string{"b"}, false)
	require.Error(t, err)
	assert.Equal(t, errors.CodeReleased, errors.GetCode(err))
}

func TestEvaluateConcurrentReaders(t *testing.T) {
	e := newEngine(t, loadCSV(t, randomCSV(200, 3)))
	want, err := e.Evaluate([]string{"f1", "C"}, []string{"T"}, false)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]float64, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = e.Evaluate([]string{"f1", "C"}, []string{"T"}, false)
		}(i)
	}
	wg.Wait()
	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestScoreInvariants(t *testing.T) {
	_, err := score(ProbabilityTable{{PXY: 0.5, PX: 0.5, PY: 0.5}}, false, 3)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvariantViolation, errors.GetCode(err))

	// marginals inconsistent with the joint drive the estimate negative
	_, err = score(ProbabilityTable{{PXY: 0.5, PX: 1, PY: 1}, {PXY: 0.5, PX: 1, PY: 1}}, false, 3)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvariantViolation, errors.GetCode(err))

	v, err := score(ProbabilityTable{{PXY: 1, PX: 1, PY: 1}}, true, 3)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}

func TestNewEngineConfig(t *testing.T) {
	ds := loadCSV(t, "a,b\n1,2\n3,4\n")
	_, err := NewEngine(ds, Config{Bins: 0, Precision: 3})
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))

	_, err = NewEngine(ds, Config{Bins: 10, Precision: -1})
	require.Error(t, err)
}
