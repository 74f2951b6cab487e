package pkg

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mifs/pkg/errors"
	"mifs/pkg/io"
	"mifs/pkg/mi"
	"mifs/pkg/selection"
)

// writeDataset writes a csv where class is decided by x1, color by x2 and
// noise is unrelated to anything.
func writeDataset(t *testing.T, rows int) string {
	r := rand.New(rand.NewSource(42))
	var b strings.Builder
	b.WriteString("x1,x2,noise,color,class\n")
	colors := []string{"red", "green", "blue"}
	for i := 0; i < rows; i++ {
		x1, x2 := r.Float64()*10, r.Float64()*10
		fmt.Fprintf(&b, "%.4f,%.4f,%.4f,%s,c%d\n", x1, x2, r.Float64(), colors[int(x2/3.4)], int(x1/5))
	}
	fileName := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(fileName, []byte(b.String()), 0o600))
	return fileName
}

func TestRunForward(t *testing.T) {
	output := filepath.Join(t.TempDir(), "selected.csv")
	report, err := Run(context.Background(), RunParameters{
		Data:       io.DataParameters{DataFile: writeDataset(t, 300)},
		Features:   []string{"noise", "x2", "x1"},
		Targets:    []string{"class"},
		K:          2,
		Method:     selection.MethodForward,
		Strategy:   "mim",
		OutputFile: output,
	})
	require.NoError(t, err)
	require.Equal(t, "x1", report.Selected[0])
	require.Len(t, report.Rows, 2)
	require.Len(t, report.Discarded, 1)
	require.Equal(t, "MIM", strings.ToUpper(report.Strategy))

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(written)), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "feature,score", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "x1,"))
}

func TestRunDefaultsToEveryOtherColumn(t *testing.T) {
	report, err := Run(context.Background(), RunParameters{
		Data:     io.DataParameters{DataFile: writeDataset(t, 200)},
		Targets:  []string{"class"},
		OneHot:   []string{"color"},
		K:        10,
		Strategy: "jmi",
	})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"x1", "x2", "noise", "color"}, report.Selected)
	require.Empty(t, report.Discarded)
}

func TestRunBackward(t *testing.T) {
	params := RunParameters{
		Data:     io.DataParameters{DataFile: writeDataset(t, 200)},
		Targets:  []string{"class"},
		K:        1,
		Method:   selection.MethodBackward,
		Strategy: "jmim",
		Workers:  2,
	}
	report, err := Run(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, report.Selected, 1)
	require.Len(t, report.Discarded, 3)

	params.Strategy = "mrmr"
	_, err = Run(context.Background(), params)
	require.Error(t, err)
	assert.Equal(t, errors.CodeStrategyMismatch, errors.GetCode(err))
}

func TestRunExhaustive(t *testing.T) {
	report, err := Run(context.Background(), RunParameters{
		Data:    io.DataParameters{DataFile: writeDataset(t, 200)},
		Targets: []string{"class"},
		K:       2,
		Method:  selection.MethodExhaustive,
		MI:      mi.Config{Bins: 5, Precision: 4},
	})
	require.NoError(t, err)
	require.Len(t, report.Selected, 2)
	require.Contains(t, report.Selected, "x1")
	require.Equal(t, report.Rows[0].Score, report.Rows[1].Score)
}

func TestRunErrors(t *testing.T) {
	dataFile := writeDataset(t, 50)
	tests := []struct {
		name   string
		params RunParameters
	}{
		{"unknown strategy", RunParameters{Data: io.DataParameters{DataFile: dataFile}, Targets: []string{"class"}, Strategy: "best"}},
		{"unknown method", RunParameters{Data: io.DataParameters{DataFile: dataFile}, Targets: []string{"class"}, Strategy: "mim", Method: "random"}},
		{"missing file", RunParameters{Data: io.DataParameters{DataFile: dataFile + ".missing"}, Targets: []string{"class"}, Strategy: "mim"}},
		{"unknown target", RunParameters{Data: io.DataParameters{DataFile: dataFile}, Targets: []string{"label"}, Strategy: "mim"}},
		{"bad one-hot", RunParameters{Data: io.DataParameters{DataFile: dataFile}, Targets: []string{"class"}, OneHot: []string{"x1"}, Strategy: "mim"}},
		{"bad config", RunParameters{Data: io.DataParameters{DataFile: dataFile}, Targets: []string{"class"}, Strategy: "mim", MI: mi.Config{Bins: -1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), tt.params)
			require.Error(t, err)
		})
	}
}

func TestMutualInformation(t *testing.T) {
	data := io.DataParameters{DataFile: writeDataset(t, 300)}
	informative, err := MutualInformation(context.Background(), data, nil, []string{"x1"}, []string{"class"}, mi.Config{}, false)
	require.NoError(t, err)
	uninformative, err := MutualInformation(context.Background(), data, nil, []string{"noise"}, []string{"class"}, mi.Config{}, false)
	require.NoError(t, err)
	require.Greater(t, informative, uninformative)

	normalized, err := MutualInformation(context.Background(), data, []string{"color"}, []string{"color"}, []string{"x2"}, mi.Config{}, true)
	require.NoError(t, err)
	require.Greater(t, normalized, 0.0)
	require.LessOrEqual(t, normalized, 1.0)
}

func TestReportWrite(t *testing.T) {
	report := combinationReport(&selection.Combination{Features: []string{"a", "b"}, Score: 0.25})
	var b bytes.Buffer
	require.NoError(t, report.Write(&b))
	require.Equal(t, "feature,score\na,0.25\nb,0.25\n", b.String())
	require.NoError(t, report.WriteFile(""))
}
