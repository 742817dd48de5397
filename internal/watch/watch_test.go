package watch

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
)

func mkdirs(t *testing.T, root string, dirs ...string) {
	t.Helper()
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
}

func TestNewWatchesRecursively(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "components/buttons", "node_modules/react", ".a11yaudit")

	w, err := New(root, []string{".tsx"}, []string{filepath.Join(root, ".a11yaudit")}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	watched := w.fw.WatchList()
	for _, want := range []string{root, filepath.Join(root, "components"), filepath.Join(root, "components", "buttons")} {
		if !slices.Contains(watched, want) {
			t.Errorf("%s not watched: %v", want, watched)
		}
	}
	for _, skip := range []string{filepath.Join(root, "node_modules"), filepath.Join(root, ".a11yaudit")} {
		if slices.Contains(watched, skip) {
			t.Errorf("%s must not be watched", skip)
		}
	}
}

func TestNewMissingRoot(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "missing"), []string{".tsx"}, nil, nil); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestRunDebouncesChanges(t *testing.T) {
	root := t.TempDir()
	mkdirs(t, root, "src")

	w, err := New(root, []string{".tsx"}, nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	w.SetDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) { runs.Add(1) })
	}()

	// A burst of writes collapses into one run.
	for i := range 3 {
		path := filepath.Join(root, "src", "App.tsx")
		if err := os.WriteFile(path, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// Irrelevant extension.
	if err := os.WriteFile(filepath.Join(root, "src", "notes.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for runs.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(200 * time.Millisecond)

	if got := runs.Load(); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRunExtensionWithoutDot(t *testing.T) {
	root := t.TempDir()

	w, err := New(root, []string{"TSX"}, nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 1)
	go func() {
		_ = w.Run(ctx, func(context.Context) {
			select {
			case fired <- struct{}{}:
			default:
			}
		})
	}()

	if err := os.WriteFile(filepath.Join(root, "App.tsx"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("change to App.tsx did not trigger a run")
	}
}

func TestRunWatchesNewDirectories(t *testing.T) {
	root := t.TempDir()

	w, err := New(root, []string{".tsx"}, nil, zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx, func(context.Context) {}) }()

	mkdirs(t, root, "screens")
	want := filepath.Join(root, "screens")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if slices.Contains(w.fw.WatchList(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("%s was not added to the watch list", want)
}
