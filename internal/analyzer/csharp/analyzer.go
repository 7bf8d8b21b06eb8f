// Package csharp implements the heuristic analyzer for .NET source files.
package csharp

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

	// Matches using directives but not using statements ("using (var x ...)").
	usingRe     = regexp.MustCompile(`(?m)^\s*using\s+(?:static\s+)?([\w.]+)\s*;`)
	namespaceRe = regexp.MustCompile(`namespace\s+([\w.]+)`)

	classRe = regexp.MustCompile(
		`(?:(?:public|private|protected|internal|static|sealed|abstract|partial)\s+)*` +
			`class\s+(\w+)` +
			`(?:\s*:\s*([^{]+))?` +
			`\s*\{`)

	methodRe = regexp.MustCompile(
		`(?:(?:public|private|protected|internal|static|virtual|override|async|sealed|abstract)\s+)+` +
			`(?:[\w<>\[\],\s?]+?)\s+` +
			`(\w+)\s*\(([^)]*)\)`)

	// A line consisting only of [Attribute(...)] markers.
	attributeLineRe = regexp.MustCompile(`^\s*\[([\w.]+)[^\]]*\]\s*$`)
	attributeArgRe  = regexp.MustCompile(`\[[^\]]+\]`)

	targetFrameworkRe  = regexp.MustCompile(`<TargetFrameworks?>([^<]+)</TargetFrameworks?>`)
	packageReferenceRe = regexp.MustCompile(`<PackageReference\s+Include="([^"]+)"(?:\s+Version="([^"]+)")?`)

	complexityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bif\s*\(`),
		regexp.MustCompile(`\belse\s+if\s*\(`),
		regexp.MustCompile(`\bfor\s*\(`),
		regexp.MustCompile(`\bforeach\s*\(`),
		regexp.MustCompile(`\bwhile\s*\(`),
		regexp.MustCompile(`\bcase\s+[^:]+:`),
		regexp.MustCompile(`\bcatch\s*(?:\(|\{)`),
		regexp.MustCompile(`\|\|`),
		regexp.MustCompile(`&&`),
		regexp.MustCompile(`\?`),
		regexp.MustCompile(`\byield\s+return\b`),
		regexp.MustCompile(`\bawait\b`),
		regexp.MustCompile(`\block\s*\(`),
		regexp.MustCompile(`\bswitch\s*\(`),
	}
)

var controlKeywords = map[string]bool{
	"if": true, "for": true, "foreach": true, "while": true, "switch": true,
	"catch": true, "using": true, "lock": true, "return": true, "new": true,
}

// Analyzer extracts structural metadata from C#, VB, F#, and the markup
// dialects that accompany them (.cshtml, .razor, .xaml and friends).
type Analyzer struct{}

// NewAnalyzer creates a new .NET analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Language() analyzer.Language {
	return analyzer.LangCSharp
}

func (a *Analyzer) Extensions() []string {
	return analyzer.FileExtensions[analyzer.LangCSharp]
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
			res = analyzer.Failuref("csharp analysis error: %v", r)
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

	res = analyzer.Result{
		Success:   true,
		Metrics:   &m,
		Imports:   collectUsings(cleaned),
		Functions: collectMethods(cleaned),
		Classes:   collectClasses(cleaned),
	}
	if ns := namespaceRe.FindStringSubmatch(cleaned); ns != nil {
		res.Namespace = ns[1]
	}
	if deps := collectDependencies(content); deps != nil {
		res.Dependencies = deps
	}
	return res
}

func collectUsings(content string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range usingRe.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}

func collectMethods(content string) []analyzer.FunctionInfo {
	lines := strings.Split(content, "\n")
	var out []analyzer.FunctionInfo

	// Attributes are gathered from the [Attr]-only lines immediately above
	// each declaration.
	pending := []string{}
	for _, line := range lines {
		if m := attributeLineRe.FindStringSubmatch(line); m != nil {
			pending = append(pending, m[1])
			continue
		}

		if m := methodRe.FindStringSubmatch(line); m != nil && !controlKeywords[m[1]] {
			out = append(out, analyzer.FunctionInfo{
				Name:       m[1],
				Args:       parseParams(m[2]),
				Decorators: pending,
				IsAsync:    strings.Contains(line, "async "),
			})
		}
		pending = []string{}
	}
	return out
}

func collectClasses(content string) []analyzer.ClassInfo {
	var out []analyzer.ClassInfo
	for _, loc := range classRe.FindAllStringSubmatchIndex(content, -1) {
		name := content[loc[2]:loc[3]]
		bases := []string{}
		if loc[4] >= 0 {
			for _, b := range strings.Split(content[loc[4]:loc[5]], ",") {
				if b = strings.TrimSpace(b); b != "" {
					bases = append(bases, b)
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

// collectDependencies reads project-file markup (csproj fragments embedded in
// the input) for target frameworks and package references.
func collectDependencies(content string) *analyzer.DotnetDependencies {
	deps := &analyzer.DotnetDependencies{}
	for _, m := range targetFrameworkRe.FindAllStringSubmatch(content, -1) {
		for _, fw := range strings.Split(m[1], ";") {
			if fw = strings.TrimSpace(fw); fw != "" {
				deps.Frameworks = append(deps.Frameworks, fw)
			}
		}
	}
	for _, m := range packageReferenceRe.FindAllStringSubmatch(content, -1) {
		pkg := m[1]
		if m[2] != "" {
			pkg += "@" + m[2]
		}
		deps.Packages = append(deps.Packages, pkg)
	}
	if len(deps.Frameworks) == 0 && len(deps.Packages) == 0 {
		return nil
	}
	return deps
}

// parseParams strips attributes, type names, and defaults from a parameter
// list, keeping the parameter names.
func parseParams(params string) []string {
	out := []string{}
	for _, p := range analyzer.SplitArgs(params, "<", ">") {
		p = attributeArgRe.ReplaceAllString(p, "")
		if i := strings.Index(p, "="); i >= 0 {
			p = p[:i]
		}
		fields := strings.Fields(p)
		if len(fields) > 0 {
			out = append(out, fields[len(fields)-1])
		}
	}
	return out
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
