package record

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FilePatterns classifies repository paths: test detection, ignore rules,
// and extension categories. Instances are immutable after construction.
type FilePatterns struct {
	testPatterns   []*regexp.Regexp
	ignorePatterns []*regexp.Regexp
	categories     map[string]string
}

// DefaultFilePatterns returns the built-in classification rules.
func DefaultFilePatterns() *FilePatterns {
	return NewFilePatterns(nil, nil, nil)
}

// NewFilePatterns builds the default rules extended with additional test
// patterns, ignore patterns, and category extensions. Pattern strings are
// regular expressions matched anywhere in the path.
func NewFilePatterns(testPatterns, ignorePatterns []string, categories map[string][]string) *FilePatterns {
	fp := &FilePatterns{categories: make(map[string]string)}

	defaults := []string{
		`test_.*\.py$`,
		`.*_test\.py$`,
		`.*\.spec\.js$`,
		`.*\.test\.js$`,
		`.*\.spec\.ts$`,
		`.*\.test\.ts$`,
		`.*Test\.java$`,
		`.*Tests?\.cs$`,
		`.*Spec\.cs$`,
	}
	for _, p := range append(defaults, testPatterns...) {
		fp.testPatterns = append(fp.testPatterns, regexp.MustCompile(p))
	}

	ignoreDefaults := []string{
		`\.git/`,
		`\.pytest_cache/`,
		`__pycache__/`,
		`node_modules/`,
		`venv/`,
		`\.venv/`,
		`\.idea/`,
		`\.vscode/`,
		`\.vs/`,
		`bin/`,
		`obj/`,
		`dist/`,
		`build/`,
		`coverage/`,
		`\.coverage$`,
		`\.env$`,
		`\.DS_Store$`,
		`Thumbs\.db$`,
	}
	for _, p := range append(ignoreDefaults, ignorePatterns...) {
		fp.ignorePatterns = append(fp.ignorePatterns, regexp.MustCompile(p))
	}

	categoryDefaults := map[string][]string{
		"python":        {".py"},
		"javascript":    {".js", ".jsx"},
		"typescript":    {".ts", ".tsx"},
		"java":          {".java"},
		"csharp":        {".cs"},
		"markup":        {".html", ".htm", ".xml", ".xaml"},
		"stylesheet":    {".css", ".scss", ".sass", ".less"},
		"config":        {".json", ".yaml", ".yml", ".toml", ".ini"},
		"documentation": {".md", ".rst", ".txt"},
		"database":      {".sql", ".sqlite", ".db"},
		"dotnet":        {".csproj", ".fsproj", ".vbproj", ".sln"},
	}
	for cat, exts := range categoryDefaults {
		for _, ext := range exts {
			fp.categories[ext] = cat
		}
	}
	for cat, exts := range categories {
		for _, ext := range exts {
			fp.categories[strings.ToLower(ext)] = cat
		}
	}

	return fp
}

// IsTest reports whether path matches any test file pattern.
func (fp *FilePatterns) IsTest(path string) bool {
	for _, p := range fp.testPatterns {
		if p.MatchString(path) {
			return true
		}
	}
	return false
}

// Ignored reports whether path matches any ignore pattern. Paths are
// normalized to forward slashes before matching.
func (fp *FilePatterns) Ignored(path string) bool {
	norm := filepath.ToSlash(path)
	for _, p := range fp.ignorePatterns {
		if p.MatchString(norm) {
			return true
		}
	}
	return false
}

// Category returns the category name for the path's extension, or "other".
func (fp *FilePatterns) Category(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if cat, ok := fp.categories[ext]; ok {
		return cat
	}
	return "other"
}
