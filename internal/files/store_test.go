package files_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CodexForgeBR/gptme-harness/internal/files"
)

func TestUploadThenDownload(t *testing.T) {
	dir := t.TempDir()
	store := files.NewStore(dir)

	snapshot := files.Files{
		"main.py":            []byte("print('hi')\n"),
		"pkg/util/helper.py": []byte("x = 1\n"),
		"empty.txt":          {},
	}
	require.NoError(t, store.Upload(snapshot))

	data, err := os.ReadFile(filepath.Join(dir, "pkg", "util", "helper.py"))
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(data))

	got, err := store.Download()
	require.NoError(t, err)
	assert.Equal(t, snapshot.Paths(), got.Paths())
	assert.Equal(t, []byte("print('hi')\n"), got["main.py"])
	assert.Empty(t, got["empty.txt"])
}

func TestDownloadReturnsFullTree(t *testing.T) {
	dir := t.TempDir()
	store := files.NewStore(dir)
	require.NoError(t, store.Upload(files.Files{"a.txt": []byte("a")}))

	// Files created after upload are part of the snapshot too.
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "out"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "out", "b.txt"), []byte("b"), 0o644))

	got, err := store.Download()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt", "out/b.txt"}, got.Paths())
}

func TestUploadOverwrites(t *testing.T) {
	store := files.NewStore(t.TempDir())
	require.NoError(t, store.Upload(files.Files{"a.txt": []byte("old")}))
	require.NoError(t, store.Upload(files.Files{"a.txt": []byte("new")}))

	got, err := store.Download()
	require.NoError(t, err)
	assert.Equal(t, "new", string(got["a.txt"]))
}

func TestUploadRejectsEscapingPaths(t *testing.T) {
	for _, name := range []string{"../evil.txt", "a/../../evil.txt", "/etc/passwd", ""} {
		t.Run(name, func(t *testing.T) {
			store := files.NewStore(t.TempDir())
			assert.Error(t, store.Upload(files.Files{name: []byte("x")}))
		})
	}
}

func TestDownloadMissingDir(t *testing.T) {
	store := files.NewStore(filepath.Join(t.TempDir(), "missing"))
	_, err := store.Download()
	assert.Error(t, err)
}

func TestDiff(t *testing.T) {
	before := files.Files{
		"keep.txt":   []byte("same"),
		"change.txt": []byte("line1\nline2\n"),
		"gone.txt":   []byte("bye"),
	}
	after := files.Files{
		"keep.txt":   []byte("same"),
		"change.txt": []byte("line1\nline2 edited\n"),
		"new.txt":    []byte("hello"),
		"blob.bin":   {0xff, 0xfe},
	}

	changes := files.Diff(before, after)
	require.Len(t, changes, 4)

	assert.Equal(t, "blob.bin", changes[0].Path)
	assert.Equal(t, files.Added, changes[0].Kind)
	assert.Empty(t, changes[0].Patch)

	assert.Equal(t, "change.txt", changes[1].Path)
	assert.Equal(t, files.Modified, changes[1].Kind)
	assert.Contains(t, changes[1].Patch, "edited")

	assert.Equal(t, "gone.txt", changes[2].Path)
	assert.Equal(t, files.Removed, changes[2].Kind)

	assert.Equal(t, "new.txt", changes[3].Path)
	assert.Equal(t, files.Added, changes[3].Kind)
	assert.Contains(t, changes[3].Patch, "hello")
}

func TestDiffIdenticalSnapshots(t *testing.T) {
	snap := files.Files{"a": []byte("a")}
	assert.Empty(t, files.Diff(snap, snap))
}
