package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with an isolated home and working directory
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(wd) })

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), err
}

func TestGenerate(t *testing.T) {
	out, err := run(t, "generate", "--size", "3", "--seed", "1", "--solved")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "9/9 tiles in place")
}

func TestGenerateRejectsSmallGrid(t *testing.T) {
	_, err := run(t, "generate", "--size", "2")
	assert.Error(t, err)
}

func TestStatusWithoutSave(t *testing.T) {
	out, err := run(t, "status", "--store", "memory")
	require.NoError(t, err)
	assert.Equal(t, "No saved game\n", out)
}

func TestResetWithoutSave(t *testing.T) {
	out, err := run(t, "reset", "--store", "memory")
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")
}

func TestUnknownStore(t *testing.T) {
	_, err := run(t, "status", "--store", "redis")
	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"storage": {"backend": "memory"}}`), 0o644))

	out, err := run(t, "status", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "No saved game\n", out)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "codeflow dev")
}
