package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadDownloadListDelete(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key, err := store.Upload(ctx, strings.NewReader(`{"ok":true}`), "backups/a.json", "application/json")
	require.NoError(t, err)
	assert.Equal(t, "backups/a.json", key)

	_, err = store.Upload(ctx, strings.NewReader(`{}`), "backups/b.json", "application/json")
	require.NoError(t, err)
	// make ordering deterministic
	older := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(store.basePath, "backups", "a.json"), older, older))

	rc, err := store.Download(ctx, "backups/a.json")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))

	files, err := store.List(ctx, "backups")
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "b.json", files[0].Name)
	assert.Equal(t, "backups/a.json", files[1].Path)

	require.NoError(t, store.Delete(ctx, "backups/a.json"))
	_, err = store.Download(ctx, "backups/a.json")
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "backups/a.json"), ErrFileNotFound)

	files, err = store.List(ctx, "backups")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "b.json", files[0].Name)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key, err := store.Upload(ctx, strings.NewReader("x"), "../../etc/passwd", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "etc/passwd", key, "leading parent segments are clamped to the base directory")

	_, err = store.Download(ctx, "missing.json")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestLocalStorage_ListMissingDir(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	files, err := store.List(context.Background(), "backups")
	require.NoError(t, err)
	assert.Empty(t, files)
}
