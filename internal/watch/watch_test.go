package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func next(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case c, ok := <-w.Changes():
		require.True(t, ok, "changes closed early")
		return c
	case <-time.After(5 * time.Second):
		t.Fatal("no change delivered")
		return Change{}
	}
}

func TestWatcherDeliversSettledContent(t *testing.T) {
	dir := t.TempDir()
	labels := filepath.Join(dir, "labels.json")
	require.NoError(t, os.WriteFile(labels, []byte("{}"), 0o644))

	w, err := New([]string{labels}, 20*time.Millisecond, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		w.Wait()
	}()
	w.Start(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(labels, []byte(`{"version":1}`), 0o644))

	c := next(t, w)
	assert.Equal(t, labels, c.Path)
	assert.Equal(t, `{"version":1}`, c.Text)
	assert.NoError(t, c.Err)
}

func TestWatcherStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{filepath.Join(dir, "links.json")}, 0, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	cancel()
	w.Wait()

	_, ok := <-w.Changes()
	assert.False(t, ok)
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "nope", "labels.json")}, 0, nil)
	assert.Error(t, err)
}
