package eval

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/gptme-harness/internal/files"
)

func TestWriteResults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	results := []Result{
		{
			Model:    "openai/gpt-4o",
			Case:     "hello",
			Files:    files.Files{"hello.py": []byte("print('hi')\n"), "pkg/mod.py": []byte("x = 1\n")},
			Changes:  []files.Change{{Path: "hello.py", Kind: files.Added}},
			Duration: 1500 * time.Millisecond,
		},
		{Model: "local/llama", Case: "hello", Err: errors.New("bad key")},
	}

	require.NoError(t, WriteResults(dir, results))

	data, err := os.ReadFile(filepath.Join(dir, "openai--gpt-4o", "hello", "pkg", "mod.py"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))
	assert.NoDirExists(t, filepath.Join(dir, "local--llama"))

	summary, err := LoadSummary(dir)
	require.NoError(t, err)
	require.Len(t, summary, 2)

	assert.Equal(t, "ok", summary[0].Status)
	assert.Equal(t, "openai--gpt-4o/hello", summary[0].Dir)
	assert.InDelta(t, 1.5, summary[0].Seconds, 0.001)
	assert.Equal(t, []files.Change{{Path: "hello.py", Kind: files.Added}}, summary[0].Changes)

	assert.Equal(t, "error", summary[1].Status)
	assert.Equal(t, "bad key", summary[1].Error)
	assert.Empty(t, summary[1].Dir)
}

func TestLoadSummary_Missing(t *testing.T) {
	_, err := LoadSummary(t.TempDir())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
