package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRelevant(t *testing.T) {
	w := &Watcher{ext: ".tsx"}

	assert.True(t, w.relevant(fsnotify.Event{Name: "/p/loan.tsx", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/p/loan.tsx", Op: fsnotify.Remove}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/p/loan.tsx", Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/p/notes.md", Op: fsnotify.Create}))
}

func TestRunRegeneratesOnceAfterBurst(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32
	w, err := New(dir, ".tsx", func(context.Context) error {
		runs.Add(1)
		return nil
	}, 100*time.Millisecond, quietLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "loan-calculator.tsx"), []byte("x"), 0644))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0644))

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), runs.Load())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRunMissingDir(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "nope"), ".tsx", func(context.Context) error { return nil }, 0, quietLogger())
	require.NoError(t, err)

	err = w.Run(context.Background())
	require.Error(t, err)
}
