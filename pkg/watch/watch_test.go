package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.c")
	other := filepath.Join(dir, "other.c")
	for _, p := range []string{src, other} {
		if err := os.WriteFile(p, []byte("1;\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w, err := New([]string{src}, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 8)
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, func(p string) { changed <- p }) }()

	if err := os.WriteFile(other, []byte("2;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("1 + 2;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	want, _ := filepath.Abs(src)
	select {
	case got := <-changed:
		if got != want {
			t.Errorf("changed %q, want %q", got, want)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	_, err := New([]string{filepath.Join(t.TempDir(), "nope", "main.c")}, time.Millisecond, nil)
	if err == nil {
		t.Fatal("expected an error watching a missing directory")
	}
}
