// Package watcher turns file system change events under a scan root into
// debounced rescan triggers.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/codectx/codectx/internal/record"
)

// DefaultDebounce coalesces change bursts (editor saves, branch switches)
// into one trigger.
const DefaultDebounce = 300 * time.Millisecond

// Config holds configuration for a Watcher.
type Config struct {
	// Root is the directory tree to watch.
	Root string
	// Exclude holds gitignore-style patterns on top of the root's .gitignore.
	Exclude []string
	// Patterns classifies paths; nil uses the defaults.
	Patterns *record.FilePatterns
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration
	// Logger receives watch diagnostics; nil defaults to discard.
	Logger func(format string, args ...any)
}

// Trigger reports why a rescan is due.
type Trigger struct {
	// Paths are the changed paths coalesced into this trigger, relative to
	// the root where possible.
	Paths []string
	Time  time.Time
}

// Watcher emits a Trigger whenever relevant files under the root change.
type Watcher struct {
	root     string
	matcher  *ignore.GitIgnore
	patterns *record.FilePatterns
	debounce time.Duration
	log      func(format string, args ...any)

	fsw    *fsnotify.Watcher
	mu     sync.Mutex
	closed bool
}

// New creates a Watcher for cfg.Root.
func New(cfg Config) (*Watcher, error) {
	patterns := cfg.Patterns
	if patterns == nil {
		patterns = record.DefaultFilePatterns()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logFn := cfg.Logger
	if logFn == nil {
		logFn = func(string, ...any) {}
	}

	var lines []string
	if data, err := os.ReadFile(filepath.Join(cfg.Root, ".gitignore")); err == nil {
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	lines = append(lines, cfg.Exclude...)

	var matcher *ignore.GitIgnore
	if len(lines) > 0 {
		matcher = ignore.CompileIgnoreLines(lines...)
	}

	return &Watcher{
		root:     cfg.Root,
		matcher:  matcher,
		patterns: patterns,
		debounce: debounce,
		log:      logFn,
	}, nil
}

// Start begins watching and returns the trigger channel. The channel closes
// when ctx is cancelled or the watcher is closed.
func (w *Watcher) Start(ctx context.Context) (<-chan Trigger, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()

	if err := w.addRecursive(w.root); err != nil {
		fsw.Close()
		return nil, err
	}

	out := make(chan Trigger, 1)
	go w.loop(ctx, fsw, out)
	return out, nil
}

// Close shuts down the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(path) && path != root {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

// ignored reports whether a path is outside scan scope.
func (w *Watcher) ignored(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	if w.patterns.Ignored(rel) || w.patterns.Ignored(rel+"/") {
		return true
	}
	return w.matcher != nil && w.matcher.MatchesPath(rel)
}

// loop coalesces raw events into debounced triggers.
func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- Trigger) {
	defer close(out)

	var (
		pending  = make(map[string]struct{})
		deadline <-chan time.Time
	)

	flush := func() {
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		pending = make(map[string]struct{})
		deadline = nil
		select {
		case out <- Trigger{Paths: paths, Time: time.Now()}:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if w.ignored(ev.Name) {
				continue
			}
			if !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Write) &&
				!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}

			// New directories join the watch set.
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						w.log("watch %s: %v", ev.Name, err)
					}
				}
			}

			rel, err := filepath.Rel(w.root, ev.Name)
			if err != nil {
				rel = ev.Name
			}
			pending[filepath.ToSlash(rel)] = struct{}{}
			deadline = time.After(w.debounce)

		case <-deadline:
			flush()

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.log("watch error: %v", err)
		}
	}
}
