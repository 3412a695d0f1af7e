package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_CoalescesBurstIntoOneRebuild(t *testing.T) {
	dir := t.TempDir()

	w, err := New(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	batches := make(chan []string, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, []string{dir}, func(changed []string) error {
			batches <- changed
			return nil
		})
	}()

	// Give Run a moment to register the watch before writing.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "kjv.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "asvs.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	select {
	case changed := <-batches:
		assert.Contains(t, changed, filepath.Join(dir, "kjv.json"))
		assert.Contains(t, changed, filepath.Join(dir, "asvs.json"))
		for _, path := range changed {
			assert.NotContains(t, path, "notes.txt")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild fired")
	}

	// A quiet watcher fires nothing further.
	select {
	case changed := <-batches:
		t.Fatalf("unexpected second rebuild: %v", changed)
	case <-time.After(300 * time.Millisecond):
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcher_KeepsRunningWhenRebuildFails(t *testing.T) {
	dir := t.TempDir()

	w, err := New(50*time.Millisecond, nil)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan int, 10)
	n := 0
	go func() {
		_ = w.Run(ctx, []string{dir}, func([]string) error {
			n++
			calls <- n
			return errors.New("generation failed")
		})
	}()

	time.Sleep(50 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte("{}"), 0o644))
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("first rebuild never ran")
	}

	// The failure must not stop the loop.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte("{}"), 0o644))
	select {
	case got := <-calls:
		assert.Equal(t, 2, got)
	case <-time.After(5 * time.Second):
		t.Fatal("second rebuild never ran")
	}
}

func TestWatcher_MissingDirFailsFast(t *testing.T) {
	w, err := New(0, nil)
	require.NoError(t, err)
	defer w.Close()

	err = w.Run(context.Background(), []string{"/nonexistent/texts"}, func([]string) error { return nil })
	assert.Error(t, err)
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"json write", fsnotify.Event{Name: "kjv.json", Op: fsnotify.Write}, true},
		{"json create", fsnotify.Event{Name: "new.JSON", Op: fsnotify.Create}, true},
		{"json remove", fsnotify.Event{Name: "old.json", Op: fsnotify.Remove}, true},
		{"json chmod only", fsnotify.Event{Name: "kjv.json", Op: fsnotify.Chmod}, false},
		{"non-json write", fsnotify.Event{Name: "README.md", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, relevant(tt.ev))
		})
	}
}
