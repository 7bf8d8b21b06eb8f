// Package walker discovers the files a scan should consider.
package walker

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/codectx/codectx/internal/analyzer"
	"github.com/codectx/codectx/internal/record"
	"github.com/codectx/codectx/internal/scan"
)

// Options controls file discovery.
type Options struct {
	// MaxFileSize in bytes; larger files are skipped. Zero means no limit.
	MaxFileSize int64
	// Exclude holds extra gitignore-style patterns applied on top of the
	// repository's .gitignore.
	Exclude []string
	// IncludeTests keeps test files in the result. When false they are
	// filtered out using the record patterns.
	IncludeTests bool
	// Patterns classifies paths; nil uses the defaults.
	Patterns *record.FilePatterns
	// Logger receives skip diagnostics; nil discards them.
	Logger func(format string, args ...any)
}

// Collect walks root and returns the files whose extension the registry
// supports, respecting .gitignore, the built-in ignore rules, and opts.
// Results are ordered by path.
func Collect(root string, registry *analyzer.Registry, opts Options) ([]scan.FileSource, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root %s is not a directory", root)
	}

	patterns := opts.Patterns
	if patterns == nil {
		patterns = record.DefaultFilePatterns()
	}
	logf := opts.Logger
	if logf == nil {
		logf = func(string, ...any) {}
	}
	matcher := buildMatcher(root, opts.Exclude)

	var files []scan.FileSource
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logf("walk error at %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if patterns.Ignored(rel+"/") || (matcher != nil && matcher.MatchesPath(rel)) {
				return filepath.SkipDir
			}
			return nil
		}

		if patterns.Ignored(rel) || (matcher != nil && matcher.MatchesPath(rel)) {
			return nil
		}
		if !registry.Supports(filepath.Ext(rel)) {
			return nil
		}
		if !opts.IncludeTests && patterns.IsTest(rel) {
			logf("skipping test file %s", rel)
			return nil
		}

		fi, statErr := d.Info()
		if statErr != nil {
			logf("stat %s: %v", rel, statErr)
			return nil
		}
		if opts.MaxFileSize > 0 && fi.Size() > opts.MaxFileSize {
			logf("skipping %s: size %d exceeds limit %d", rel, fi.Size(), opts.MaxFileSize)
			return nil
		}

		files = append(files, scan.FileSource{
			Path:    rel,
			RawSize: fi.Size(),
			Load:    loadFile(path),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// buildMatcher combines the repository's .gitignore with extra exclude
// patterns. A missing .gitignore is not an error.
func buildMatcher(root string, exclude []string) *ignore.GitIgnore {
	var lines []string
	if data, err := os.ReadFile(filepath.Join(root, ".gitignore")); err == nil {
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	lines = append(lines, exclude...)
	if len(lines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(lines...)
}

func loadFile(path string) func() (string, error) {
	return func() (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
