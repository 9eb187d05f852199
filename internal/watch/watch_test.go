package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, files ...string) <-chan string {
	t.Helper()
	w, err := New(files, 20*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	changes := make(chan string, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(p string) { changes <- p })
	}()
	t.Cleanup(func() {
		cancel()
		if err := <-done; !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v", err)
		}
		w.Close()
	})
	return changes
}

func TestWatchReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.toml")
	if err := os.WriteFile(path, []byte("name = \"a\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	changes := startWatcher(t, path)

	// Other files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	for i := range 3 {
		if err := os.WriteFile(path, []byte("name = \"b\"\n"+string(rune('a'+i))), 0644); err != nil {
			t.Fatal(err)
		}
	}

	want, _ := filepath.Abs(path)
	select {
	case got := <-changes:
		if got != want {
			t.Errorf("change for %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "nope", "scenario.toml")}, 0)
	if err == nil {
		t.Error("expected error watching a missing directory")
	}
}
