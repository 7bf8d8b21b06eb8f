// Package java implements the heuristic Java analyzer.
package java

import (
	"regexp"
	"strings"

	"github.com/codectx/codectx/internal/analyzer"
	"github.com/codectx/codectx/internal/metrics"
)

var markers = metrics.CommentMarkers{Line: "//", BlockStart: "/*", BlockEnd: "*/"}

var (
	lineCommentRe  = regexp.MustCompile(`(?m)//.*$`)
	blockCommentRe = regexp.MustCompile(`(?s)/\*.*?\*/`)

	importRe  = regexp.MustCompile(`import\s+(?:static\s+)?([^;]+);`)
	packageRe = regexp.MustCompile(`package\s+([^;]+);`)

	// Annotation- and modifier-tolerant method signature.
	methodRe = regexp.MustCompile(
		`((?:@\w+\s*(?:\([^)]*\))?\s*)*)` + // annotations
			`(?:public|private|protected|static|final|abstract|synchronized|native)\s+` + // leading modifier
			`(?:(?:public|private|protected|static|final|abstract|synchronized|native)\s+)*` + // more modifiers
			`(?:[\w<>\[\],\s]+?)\s+` + // return type
			`(\w+)\s*\(([^)]*)\)`) // name and parameters

	classRe = regexp.MustCompile(
		`((?:@\w+\s*(?:\([^)]*\))?\s*)*)` +
			`(?:(?:public|private|protected|static|final|abstract)\s+)*` +
			`class\s+(\w+)` +
			`(?:\s+extends\s+(\w+))?` +
			`(?:\s+implements\s+([^{]+))?` +
			`\s*\{`)

	annotationRe = regexp.MustCompile(`@(\w+)(?:\([^)]*\))?`)

	complexityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bif\s*\(`),
		regexp.MustCompile(`\belse\s+if\s*\(`),
		regexp.MustCompile(`\bfor\s*\(`),
		regexp.MustCompile(`\bwhile\s*\(`),
		regexp.MustCompile(`\bcase\s+[^:]+:`),
		regexp.MustCompile(`\bcatch\s*\(`),
		regexp.MustCompile(`\|\|`),
		regexp.MustCompile(`&&`),
		regexp.MustCompile(`\?`),
		regexp.MustCompile(`@Override\b`),
	}
)

var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "new": true,
}

// Analyzer extracts structural metadata from Java source files.
type Analyzer struct{}

// NewAnalyzer creates a new Java analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Language() analyzer.Language {
	return analyzer.LangJava
}

func (a *Analyzer) Extensions() []string {
	return analyzer.FileExtensions[analyzer.LangJava]
}

// Clean strips // and /* */ comments and blank lines.
func (a *Analyzer) Clean(content string) string {
	s := blockCommentRe.ReplaceAllString(content, "")
	s = lineCommentRe.ReplaceAllString(s, "")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func (a *Analyzer) Analyze(content string) (res analyzer.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = analyzer.Failuref("java analysis error: %v", r)
		}
	}()

	cleaned := a.Clean(content)

	counts := metrics.CountLines(content, markers)
	m := analyzer.NewCodeMetrics()
	m.LinesOfCode = counts.Total
	m.BlankLines = counts.Blank
	m.CommentLines = counts.Comment
	m.Complexity = metrics.Complexity(cleaned, complexityPatterns)
	m.MaxDepth = metrics.BraceDepth(cleaned)

	return analyzer.Result{
		Success:   true,
		Metrics:   &m,
		Imports:   collectImports(cleaned),
		Packages:  collectPackages(cleaned),
		Functions: collectMethods(cleaned),
		Classes:   collectClasses(cleaned),
	}
}

func collectImports(content string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range importRe.FindAllStringSubmatch(content, -1) {
		imp := strings.TrimSpace(m[1])
		if imp != "" && !seen[imp] {
			seen[imp] = true
			out = append(out, imp)
		}
	}
	return out
}

func collectPackages(content string) []string {
	var out []string
	for _, m := range packageRe.FindAllStringSubmatch(content, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

func collectMethods(content string) []analyzer.FunctionInfo {
	var out []analyzer.FunctionInfo
	for _, m := range methodRe.FindAllStringSubmatch(content, -1) {
		name := m[2]
		if controlKeywords[name] {
			continue
		}
		out = append(out, analyzer.FunctionInfo{
			Name:       name,
			Args:       parseParams(m[3]),
			Decorators: annotations(m[1]),
			IsAsync:    false,
		})
	}
	return out
}

func collectClasses(content string) []analyzer.ClassInfo {
	var out []analyzer.ClassInfo
	for _, loc := range classRe.FindAllStringSubmatchIndex(content, -1) {
		name := group(content, loc, 2)
		bases := []string{}
		if ext := group(content, loc, 3); ext != "" {
			bases = append(bases, ext)
		}
		if impl := group(content, loc, 4); impl != "" {
			for _, intf := range strings.Split(impl, ",") {
				if intf = strings.TrimSpace(intf); intf != "" {
					bases = append(bases, intf)
				}
			}
		}

		body := bracedBlock(content[loc[1]-1:])
		out = append(out, analyzer.ClassInfo{
			Name:    name,
			Methods: collectMethods(body),
			Bases:   bases,
		})
	}
	return out
}

// parseParams splits a Java parameter list on top-level commas (generics
// kept whole) and keeps only the parameter names.
func parseParams(params string) []string {
	out := []string{}
	for _, p := range analyzer.SplitArgs(params, "<", ">") {
		fields := strings.Fields(p)
		if len(fields) > 0 {
			out = append(out, fields[len(fields)-1])
		}
	}
	return out
}

func annotations(decl string) []string {
	out := []string{}
	for _, m := range annotationRe.FindAllStringSubmatch(decl, -1) {
		out = append(out, m[1])
	}
	return out
}

// group returns capture group n of a FindAllStringSubmatchIndex location,
// trimmed, or "" when the group did not participate in the match.
func group(s string, loc []int, n int) string {
	if loc[2*n] < 0 {
		return ""
	}
	return strings.TrimSpace(s[loc[2*n]:loc[2*n+1]])
}

// bracedBlock returns the content of the balanced block starting at the
// opening brace at s[0]. Unterminated blocks return the remainder.
func bracedBlock(s string) string {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i]
			}
		}
	}
	if len(s) > 1 {
		return s[1:]
	}
	return ""
}
