package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_Save(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)

	path, size, err := store.Save(context.Background(), "clip.mp4", strings.NewReader("video-bytes"))

	require.NoError(t, err)
	assert.Equal(t, int64(len("video-bytes")), size)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_clip.mp4"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "video-bytes", string(data))
}

func TestLocalStore_Save_StripsDirectoryComponents(t *testing.T) {
	dir := t.TempDir()
	store := NewLocalStore(dir)

	path, _, err := store.Save(context.Background(), "../escape/../../etc/passwd", strings.NewReader("x"))

	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "_passwd"))
}

func TestLocalStore_Save_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	store := NewLocalStore(dir)

	_, _, err := store.Save(context.Background(), "a.jpg", strings.NewReader("img"))

	require.NoError(t, err)
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestLocalStore_Save_CancelledContext(t *testing.T) {
	store := NewLocalStore(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := store.Save(ctx, "a.jpg", strings.NewReader("img"))
	assert.ErrorIs(t, err, context.Canceled)
}
