package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const runFile = `
data: samples.csv
features: [a, b, c]
targets:
  - class
categorical: [c, class]
one-hot: [c]
k: 2
strategy: jmi
method: backward
bins: 8
precision: 0
`

func TestReadRunFile(t *testing.T) {
	rf, err := ReadRunFile([]byte(runFile))
	require.NoError(t, err)
	require.Equal(t, "samples.csv", rf.Data)
	require.Equal(t, []string{"a", "b", "c"}, rf.Features)
	require.Equal(t, []string{"class"}, rf.Targets)
	require.Equal(t, []string{"c", "class"}, rf.Categorical)
	require.Equal(t, []string{"c"}, rf.OneHot)
	require.Equal(t, 2, rf.K)
	require.Equal(t, "jmi", rf.Strategy)
	require.Equal(t, "backward", rf.Method)
	require.Equal(t, 8, rf.Bins)
	require.NotNil(t, rf.Precision)
	require.Equal(t, 0, *rf.Precision)
}

func TestReadRunFileSQL(t *testing.T) {
	rf, err := ReadRunFile([]byte("targets: [y]\nsql:\n  driver: sqlite3\n  dsn: data.db\n  query: SELECT * FROM t\n"))
	require.NoError(t, err)
	require.Equal(t, "sqlite3", rf.SQL.Driver)
	require.Equal(t, "data.db", rf.SQL.DSN)
	require.Equal(t, "SELECT * FROM t", rf.SQL.Query)
	require.Nil(t, rf.Precision)
}

func TestReadRunFileErrors(t *testing.T) {
	for _, md := range []string{
		"method: sideways\n",
		"k: -2\n",
		"targets: [y]\nunknown: 1\n",
		"features: {a: 1}\n",
	} {
		_, err := ReadRunFile([]byte(md))
		require.Error(t, err, md)
	}
}

func TestReadRunFileFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	require.NoError(t, os.WriteFile(path, []byte(runFile), 0o600))
	rf, err := ReadRunFileFromFile(path)
	require.NoError(t, err)
	require.Equal(t, "jmi", rf.Strategy)

	_, err = ReadRunFileFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
