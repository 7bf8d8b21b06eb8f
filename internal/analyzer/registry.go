package analyzer

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
)

// Factory produces a fresh analyzer instance for one language.
type Factory func() Analyzer

// Registry maps file extensions to languages and languages to analyzer
// factories. All Register calls happen during construction; afterwards the
// registry is read-only and safe to share across concurrent workers.
type Registry struct {
	mu        sync.RWMutex
	factories map[Language]Factory
	extIndex  map[string]Language
	order     []Language
	warn      func(format string, args ...any)
}

// NewRegistry creates an empty registry. warn receives override notices; nil
// defaults to stderr.
func NewRegistry(warn func(format string, args ...any)) *Registry {
	if warn == nil {
		warn = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}
	return &Registry{
		factories: make(map[Language]Factory),
		extIndex:  make(map[string]Language),
		warn:      warn,
	}
}

// Register associates a language with its factory and file extensions.
// Extensions are matched case-insensitively. Re-registering an extension
// overwrites the previous mapping; the override is reported through the
// warn function, last registration wins.
func (r *Registry) Register(lang Language, factory Factory, extensions ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[lang]; !exists {
		r.order = append(r.order, lang)
	}
	r.factories[lang] = factory

	for _, ext := range extensions {
		ext = strings.ToLower(ext)
		if prev, claimed := r.extIndex[ext]; claimed && prev != lang {
			r.warn("extension %s already registered to %s, overwriting with %s", ext, prev, lang)
		}
		r.extIndex[ext] = lang
	}
}

// Resolve returns a fresh analyzer instance for the given file extension,
// or false if the extension is unmapped.
func (r *Registry) Resolve(ext string) (Analyzer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lang, ok := r.extIndex[strings.ToLower(ext)]
	if !ok {
		return nil, false
	}
	factory, ok := r.factories[lang]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Supports reports whether the extension maps to a registered language.
func (r *Registry) Supports(ext string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.extIndex[strings.ToLower(ext)]
	return ok
}

// Languages returns all registered languages in registration order.
func (r *Registry) Languages() []Language {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Language, len(r.order))
	copy(out, r.order)
	return out
}

// SupportedExtensions returns every mapped extension, sorted.
func (r *Registry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.extIndex))
	for ext := range r.extIndex {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
