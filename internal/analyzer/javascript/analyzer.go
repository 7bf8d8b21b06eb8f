// Package javascript implements the unified heuristic analyzer for
// JavaScript and TypeScript sources, including JSX/React extraction when
// React signal patterns are present.
package javascript

import (
	"regexp"
	"sort"
	"strings"

	"github.com/codectx/codectx/internal/analyzer"
	"github.com/codectx/codectx/internal/metrics"
)

var markers = metrics.CommentMarkers{Line: "//", BlockStart: "/*", BlockEnd: "*/"}

var (
	lineCommentRe  = regexp.MustCompile(`(?m)//.*$`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)

	importPatterns = []*regexp.Regexp{
		regexp.MustCompile(`import\s+(?:\{[^}]+\}|[\w$]+)\s+from\s+['"]([@\w\-/.]+)['"]`),
		regexp.MustCompile(`import\s+['"]([@\w\-/.]+)['"]`),
		regexp.MustCompile(`require\s*\(\s*['"]([@\w\-/.]+)['"]\s*\)`),
		regexp.MustCompile(`import\s*\(\s*['"]([@\w\-/.]+)['"]\s*\)`),
	}

	exportPatterns = []*regexp.Regexp{
		regexp.MustCompile(`export\s+(?:default\s+)?(?:function|class|const|let|var)\s+([\w$]+)`),
		regexp.MustCompile(`export\s+default\s+([\w$]+)`),
		regexp.MustCompile(`export\s+\{\s*([^}]+)\s*\}`),
		regexp.MustCompile(`module\.exports\s*=\s*([\w$]+)`),
		regexp.MustCompile(`exports\.([\w$]+)\s*=`),
	}

	funcDeclRe  = regexp.MustCompile(`(async\s+)?function\s+([\w$]+)\s*\(([^)]*)\)`)
	arrowFuncRe = regexp.MustCompile(`(?:const|let|var)\s+([\w$]+)\s*=\s*(async\s*)?(?:\(([^)]*)\)|[\w$]+)\s*=>`)
	shorthandRe = regexp.MustCompile(`(async\s+)?([\w$]+)\s*\(([^)]*)\)\s*\{`)
	classRe     = regexp.MustCompile(`class\s+([\w$]+)(?:\s+extends\s+([\w$.]+))?\s*\{`)

	exportAliasRe = regexp.MustCompile(`\s+as\s+[\w$]+`)

	complexityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bif\s*\(`),
		regexp.MustCompile(`\belse\s+if\b`),
		regexp.MustCompile(`\bfor\s*\(`),
		regexp.MustCompile(`\bwhile\s*\(`),
		regexp.MustCompile(`\bswitch\s*\(`),
		regexp.MustCompile(`\bcatch\s*\(`),
		regexp.MustCompile(`\?\s*[^:]+\s*:`),
		regexp.MustCompile(`&&`),
		regexp.MustCompile(`\|\|`),
		regexp.MustCompile(`\.map\(`),
		regexp.MustCompile(`\.filter\(`),
		regexp.MustCompile(`\.reduce\(`),
		regexp.MustCompile(`\buseEffect\(`),
		regexp.MustCompile(`\buseCallback\(`),
		regexp.MustCompile(`\buseMemo\(`),
		regexp.MustCompile(`\basync\b`),
		regexp.MustCompile(`\bawait\b`),
	}

	jsxOpenRe  = regexp.MustCompile(`<[A-Z]\w*`)
	jsxCloseRe = regexp.MustCompile(`</[A-Z]\w*`)
)

// controlKeywords are names a naive signature pattern can match that are
// never functions.
var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"function": true, "return": true, "else": true, "do": true, "try": true,
}

// Analyzer extracts structural metadata from JavaScript and TypeScript
// sources. The same implementation serves both languages; lang only affects
// dispatch identity.
type Analyzer struct {
	lang analyzer.Language
}

// NewAnalyzer creates the JavaScript variant (.js/.jsx/.mjs/.cjs).
func NewAnalyzer() *Analyzer {
	return &Analyzer{lang: analyzer.LangJavaScript}
}

// NewTypeScript creates the TypeScript variant (.ts/.tsx).
func NewTypeScript() *Analyzer {
	return &Analyzer{lang: analyzer.LangTypeScript}
}

func (a *Analyzer) Language() analyzer.Language {
	return a.lang
}

func (a *Analyzer) Extensions() []string {
	return analyzer.FileExtensions[a.lang]
}

// Clean strips // and /* */ comments, trims every line, and drops blanks.
// A // inside a string literal is stripped too; that imprecision is an
// accepted limitation of the lexical approach.
func (a *Analyzer) Clean(content string) string {
	s := blockCommentRe.ReplaceAllString(content, "")
	s = lineCommentRe.ReplaceAllString(s, "")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}

func (a *Analyzer) Analyze(content string) (res analyzer.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = analyzer.Failuref("javascript analysis error: %v", r)
		}
	}()

	cleaned := a.Clean(content)

	counts := metrics.CountLines(content, markers)
	m := analyzer.NewCodeMetrics()
	m.LinesOfCode = counts.Total
	m.BlankLines = counts.Blank
	m.CommentLines = counts.Comment
	m.Complexity = metrics.Complexity(cleaned, complexityPatterns)
	m.MaxDepth = combinedDepth(cleaned)

	res = analyzer.Result{
		Success:   true,
		Metrics:   &m,
		Imports:   collectMatches(cleaned, importPatterns),
		Exports:   collectExports(cleaned),
		Functions: collectFunctions(cleaned),
		Classes:   collectClasses(cleaned),
	}

	if isReactCode(cleaned) {
		res.Components = collectComponents(cleaned)
		res.Hooks = collectHooks(cleaned)
	}
	return res
}

// combinedDepth tracks brace depth and JSX tag depth as two running
// counters, reporting the maximum either reaches. Both are clamped at zero.
func combinedDepth(content string) int {
	maxDepth, braceDepth, jsxDepth := 0, 0, 0
	for _, line := range strings.Split(content, "\n") {
		open := len(jsxOpenRe.FindAllString(line, -1))
		closed := len(jsxCloseRe.FindAllString(line, -1)) + strings.Count(line, "/>")
		jsxDepth += open - closed
		if jsxDepth < 0 {
			jsxDepth = 0
		}

		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		if braceDepth < 0 {
			braceDepth = 0
		}

		if braceDepth > maxDepth {
			maxDepth = braceDepth
		}
		if jsxDepth > maxDepth {
			maxDepth = jsxDepth
		}
	}
	return maxDepth
}

// collectMatches gathers the first capture group of every pattern into a
// sorted unique list.
func collectMatches(content string, patterns []*regexp.Regexp) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range patterns {
		for _, m := range p.FindAllStringSubmatch(content, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				out = append(out, m[1])
			}
		}
	}
	sort.Strings(out)
	return out
}

func collectExports(content string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range exportPatterns {
		for _, m := range p.FindAllStringSubmatch(content, -1) {
			for _, item := range strings.Split(m[1], ",") {
				name := strings.TrimSpace(exportAliasRe.ReplaceAllString(item, ""))
				if name != "" && !seen[name] {
					seen[name] = true
					out = append(out, name)
				}
			}
		}
	}
	sort.Strings(out)
	return out
}

func collectFunctions(content string) []analyzer.FunctionInfo {
	seen := make(map[string]bool)
	var out []analyzer.FunctionInfo

	add := func(name, params string, isAsync bool) {
		if name == "" || controlKeywords[name] || seen[name] {
			return
		}
		seen[name] = true
		out = append(out, analyzer.FunctionInfo{
			Name:       name,
			Args:       parseParams(params),
			Decorators: []string{},
			IsAsync:    isAsync,
		})
	}

	for _, m := range funcDeclRe.FindAllStringSubmatch(content, -1) {
		add(m[2], m[3], m[1] != "")
	}
	for _, m := range arrowFuncRe.FindAllStringSubmatch(content, -1) {
		add(m[1], m[3], strings.TrimSpace(m[2]) != "")
	}
	for _, m := range shorthandRe.FindAllStringSubmatch(content, -1) {
		add(m[2], m[3], m[1] != "")
	}
	return out
}

func collectClasses(content string) []analyzer.ClassInfo {
	var out []analyzer.ClassInfo
	for _, loc := range classRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2]:loc[3]]
		bases := []string{}
		if loc[4] >= 0 {
			bases = append(bases, content[loc[4]:loc[5]])
		}
		body := matchBracedBlock(content[loc[0]:])
		out = append(out, analyzer.ClassInfo{
			Name:    name,
			Methods: collectMethods(body),
			Bases:   bases,
		})
	}
	return out
}

func collectMethods(classBody string) []analyzer.FunctionInfo {
	methods := []analyzer.FunctionInfo{}
	for _, m := range shorthandRe.FindAllStringSubmatch(classBody, -1) {
		name := m[2]
		if controlKeywords[name] {
			continue
		}
		methods = append(methods, analyzer.FunctionInfo{
			Name:       name,
			Args:       parseParams(m[3]),
			Decorators: []string{},
			IsAsync:    m[1] != "",
		})
	}
	return methods
}

// parseParams reduces a raw parameter list to bare names: type annotations
// and default values are cut, destructured groups survive as-is.
func parseParams(params string) []string {
	out := []string{}
	for _, p := range analyzer.SplitArgs(params, "{([", "})]") {
		base := p
		if i := strings.IndexAny(base, ":="); i >= 0 {
			base = base[:i]
		}
		if base = strings.TrimSpace(base); base != "" {
			out = append(out, base)
		}
	}
	return out
}
