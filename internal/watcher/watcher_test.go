package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, root string) *Watcher {
	t.Helper()

	w, err := New(root, []string{".*", "*.tmp"})
	require.NoError(t, err)
	require.NoError(t, w.Start())
	t.Cleanup(w.Stop)
	return w
}

func waitWake(w *Watcher, d time.Duration) bool {
	select {
	case <-w.Wake():
		return true
	case <-time.After(d):
		return false
	}
}

func TestWatcherWakesOnNewFolder(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	require.NoError(t, os.Mkdir(filepath.Join(root, "upload"), 0755))
	assert.True(t, waitWake(w, 2*time.Second))
}

func TestWatcherIgnoresFilesAndIgnoredFolders(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, "loose.bin"), []byte("x"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(root, ".staging"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(root, "batch.tmp"), 0755))

	assert.False(t, waitWake(w, 300*time.Millisecond))
}

func TestWatcherMissingRoot(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "missing"), nil)
	require.NoError(t, err)
	defer w.Stop()

	assert.Error(t, w.Start())
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	w := startWatcher(t, t.TempDir())
	w.Stop()
	w.Stop()
}
