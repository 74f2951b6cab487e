package main

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"mifs/pkg/config"
	"mifs/pkg/mi"
)

func writeDataset(t *testing.T, dir string) string {
	r := rand.New(rand.NewSource(7))
	var b strings.Builder
	b.WriteString("sepal,petal,noise,species\n")
	for i := 0; i < 300; i++ {
		petal := r.Float64() * 6
		fmt.Fprintf(&b, "%.3f,%.3f,%.3f,s%d\n", petal+3*r.Float64(), petal, r.Float64(), int(petal/2))
	}
	fileName := filepath.Join(dir, "flowers.csv")
	require.NoError(t, os.WriteFile(fileName, []byte(b.String()), 0o600))
	return fileName
}

func execute(t *testing.T, args string) (string, error) {
	env := &config.Config{MI: mi.DefaultConfig(), LogLevel: "error", LogFormat: "json"}
	cmd := NewRootCommand(env)
	cmd.SetArgs(strings.Fields(args))
	out := bytes.NewBufferString("")
	cmd.SetOut(out)
	cmd.SetErr(bytes.NewBufferString(""))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSelect(t *testing.T) {
	dataFile := writeDataset(t, t.TempDir())
	out, err := execute(t, "select -i "+dataFile+" -t species -k 2 -s mim --workers 2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "feature,score", lines[0])
	require.True(t, strings.HasPrefix(lines[1], "petal,"))
}

func TestEliminateRejectsMRMR(t *testing.T) {
	dataFile := writeDataset(t, t.TempDir())
	_, err := execute(t, "eliminate -i "+dataFile+" -t species -k 1 -s mrmr")
	require.Error(t, err)

	out, err := execute(t, "eliminate -i "+dataFile+" -t species -k 1 -s jmi")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 3)
}

func TestSearchToFile(t *testing.T) {
	dir := t.TempDir()
	dataFile := writeDataset(t, dir)
	output := filepath.Join(dir, "best.csv")
	out, err := execute(t, "search -i "+dataFile+" -t species -f sepal,noise,petal -k 1 -o "+output)
	require.NoError(t, err)
	require.Empty(t, out)

	written, err := os.ReadFile(output)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(written), "feature,score\npetal,"))
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	dataFile := writeDataset(t, dir)
	runFile := filepath.Join(dir, "run.yaml")
	md := "data: " + dataFile + "\ntargets: [species]\nfeatures: [noise, petal]\nk: 1\nstrategy: jmim\nmethod: forward\n"
	require.NoError(t, os.WriteFile(runFile, []byte(md), 0o600))

	out, err := execute(t, "run --config "+runFile)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "feature,score\npetal,"))

	// flags win over the run file
	out, err = execute(t, "run --config "+runFile+" -f noise")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "feature,score\nnoise,"))
}

func TestMI(t *testing.T) {
	dataFile := writeDataset(t, t.TempDir())
	out, err := execute(t, "mi -i "+dataFile+" -x petal -y species")
	require.NoError(t, err)
	value, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	require.NoError(t, err)
	require.Greater(t, value, 0.5)

	out, err = execute(t, "mi -i "+dataFile+" -x petal -y species --normalized --precision 2")
	require.NoError(t, err)
	value, err = strconv.ParseFloat(strings.TrimSpace(out), 64)
	require.NoError(t, err)
	require.LessOrEqual(t, value, 1.0)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Equal(t, "mifs dev\n", out)
}

func TestCommandErrors(t *testing.T) {
	dataFile := writeDataset(t, t.TempDir())
	for _, args := range []string{
		"select -t species",
		"select -i " + dataFile,
		"select -i " + dataFile + " -t species -s best",
		"search -i " + dataFile + " -t species -k 9",
		"mi -i " + dataFile + " -x petal",
		"select -i " + dataFile + " -t species --log-level loud",
	} {
		_, err := execute(t, args)
		require.Error(t, err, args)
	}
}
