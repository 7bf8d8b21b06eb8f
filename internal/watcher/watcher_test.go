package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, root string, exclude []string) (<-chan Trigger, context.CancelFunc) {
	t.Helper()
	w, err := New(Config{Root: root, Exclude: exclude, Debounce: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	triggers, err := w.Start(ctx)
	if err != nil {
		cancel()
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		w.Close()
	})
	return triggers, cancel
}

func awaitTrigger(t *testing.T, triggers <-chan Trigger) Trigger {
	t.Helper()
	select {
	case trig, ok := <-triggers:
		if !ok {
			t.Fatal("trigger channel closed")
		}
		return trig
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for trigger")
	}
	return Trigger{}
}

func TestWriteTriggersRescan(t *testing.T) {
	root := t.TempDir()
	triggers, _ := startWatcher(t, root, nil)

	path := filepath.Join(root, "app.py")
	if err := os.WriteFile(path, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	trig := awaitTrigger(t, triggers)
	found := false
	for _, p := range trig.Paths {
		if p == "app.py" {
			found = true
		}
	}
	if !found {
		t.Errorf("trigger paths = %v, want app.py", trig.Paths)
	}
}

func TestBurstCoalesces(t *testing.T) {
	root := t.TempDir()
	triggers, _ := startWatcher(t, root, nil)

	for _, name := range []string{"a.py", "b.py", "c.py"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x = 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	trig := awaitTrigger(t, triggers)
	if len(trig.Paths) < 2 {
		t.Errorf("burst produced trigger with paths %v, want several coalesced", trig.Paths)
	}

	select {
	case extra := <-triggers:
		// A second trigger is acceptable only if the burst raced the window.
		if len(extra.Paths) == 0 {
			t.Errorf("empty follow-up trigger: %+v", extra)
		}
	case <-time.After(200 * time.Millisecond):
	}
}

func TestIgnoredPathsDoNotTrigger(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "node_modules"), 0o755); err != nil {
		t.Fatal(err)
	}
	triggers, _ := startWatcher(t, root, []string{"scratch.py"})

	if err := os.WriteFile(filepath.Join(root, "node_modules", "dep.js"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "scratch.py"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case trig := <-triggers:
		for _, p := range trig.Paths {
			if p == "scratch.py" || p == "node_modules/dep.js" {
				t.Errorf("ignored path triggered rescan: %v", trig.Paths)
			}
		}
	case <-time.After(300 * time.Millisecond):
	}
}

func TestCancelClosesChannel(t *testing.T) {
	root := t.TempDir()
	triggers, cancel := startWatcher(t, root, nil)
	cancel()

	select {
	case _, ok := <-triggers:
		if ok {
			// Drain a racing trigger; the channel must still close.
			if _, ok := <-triggers; ok {
				t.Error("channel still open after cancel")
			}
		}
	case <-time.After(2 * time.Second):
		t.Error("channel not closed after cancel")
	}
}

func TestCloseIdempotent(t *testing.T) {
	w, err := New(Config{Root: t.TempDir()})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := w.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
