package gen

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFiles(t *testing.T) {
	root := t.TempDir()

	files := []GeneratedFile{
		{Dir: filepath.Join(root, "a"), Filename: "one_gen.go", Content: []byte("package a\n")},
		{Dir: filepath.Join(root, "b", "c"), Filename: "two_gen.go", Content: []byte("package c\n")},
		{Dir: filepath.Join(root, "a"), Filename: "three_gen.go", Content: []byte("package a\n")},
	}

	written, err := WriteFiles(context.Background(), files, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	for _, f := range files {
		data, err := os.ReadFile(f.Path())
		require.NoError(t, err)
		assert.Equal(t, f.Content, data)
	}

	// Unchanged content is not rewritten.
	files[1].Content = []byte("package c\n\nvar _ = 1\n")

	written, err = WriteFiles(context.Background(), files, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
}

func TestWriteFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []GeneratedFile{{Dir: t.TempDir(), Filename: "x_gen.go", Content: []byte("package x\n")}}

	written, err := WriteFiles(ctx, files, 1)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, written)
}

func TestWriteFiles_Error(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	files := []GeneratedFile{{Dir: blocker, Filename: "x_gen.go", Content: []byte("package x\n")}}

	_, err := WriteFiles(context.Background(), files, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating directory")
}
