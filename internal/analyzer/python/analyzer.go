// Package python implements the heuristic Python analyzer: line-oriented
// extraction of imports, functions, and classes without building an AST.
package python

import (
	"regexp"
	"strings"

	"github.com/codectx/codectx/internal/analyzer"
	"github.com/codectx/codectx/internal/metrics"
)

var markers = metrics.CommentMarkers{Line: "#", BlockStart: `"""`, BlockEnd: `"""`}

var (
	tripleDoubleRe = regexp.MustCompile(`(?s)""".*?"""`)
	tripleSingleRe = regexp.MustCompile(`(?s)'''.*?'''`)
	lineCommentRe  = regexp.MustCompile(`(?m)#.*$`)

	defRe       = regexp.MustCompile(`^(\s*)(async\s+)?def\s+([A-Za-z_]\w*)\s*\(([^)]*)`)
	classRe     = regexp.MustCompile(`^(\s*)class\s+([A-Za-z_]\w*)\s*(?:\(([^)]*)\))?\s*:`)
	decoratorRe = regexp.MustCompile(`^\s*@([\w.]+)`)
	fromRe      = regexp.MustCompile(`^from\s+([.\w]+)\s+import\b`)

	complexityPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\bif\b`),
		regexp.MustCompile(`\belif\b`),
		regexp.MustCompile(`\bfor\b`),
		regexp.MustCompile(`\bwhile\b`),
		regexp.MustCompile(`\bexcept\b`),
		regexp.MustCompile(`\bwith\b`),
		regexp.MustCompile(`\basync\s+def\b`),
	}
)

// Analyzer extracts structural metadata from Python source files.
type Analyzer struct{}

// NewAnalyzer creates a new Python analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Language() analyzer.Language {
	return analyzer.LangPython
}

func (a *Analyzer) Extensions() []string {
	return analyzer.FileExtensions[analyzer.LangPython]
}

// Clean strips docstrings and # comments, dropping blank lines. Indentation
// of the surviving lines is preserved since Python scoping depends on it.
func (a *Analyzer) Clean(content string) string {
	s := tripleDoubleRe.ReplaceAllString(content, "")
	s = tripleSingleRe.ReplaceAllString(s, "")
	s = lineCommentRe.ReplaceAllString(s, "")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimRight(line, " \t"))
		}
	}
	return strings.Join(lines, "\n")
}

// Analyze works on a cleaned copy internally; metrics are measured on the
// content as given.
func (a *Analyzer) Analyze(content string) (res analyzer.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = analyzer.Failuref("python analysis error: %v", r)
		}
	}()

	cleaned := a.Clean(content)

	counts := metrics.CountLines(content, markers)
	m := analyzer.NewCodeMetrics()
	m.LinesOfCode = counts.Total
	m.BlankLines = counts.Blank
	m.CommentLines = counts.Comment
	m.Complexity = metrics.Complexity(cleaned, complexityPatterns)
	m.MaxDepth = metrics.IndentDepth(cleaned, 4)

	s := newScanner()
	s.run(cleaned)

	return analyzer.Result{
		Success:   true,
		Metrics:   &m,
		Imports:   s.imports,
		Functions: s.functions,
		Classes:   s.classes,
	}
}

// scanner walks cleaned source line by line, tracking at most one open class
// at a time. A def indented deeper than the open class line is a method; a
// def at or above the class indent closes the class.
type scanner struct {
	imports   []string
	seen      map[string]bool
	functions []analyzer.FunctionInfo
	classes   []analyzer.ClassInfo

	current       *analyzer.ClassInfo
	currentIndent int
	decorators    []string
}

func newScanner() *scanner {
	return &scanner{seen: make(map[string]bool)}
}

func (s *scanner) run(cleaned string) {
	for _, line := range strings.Split(cleaned, "\n") {
		switch {
		case decoratorRe.MatchString(line):
			s.decorators = append(s.decorators, decoratorRe.FindStringSubmatch(line)[1])
		case classRe.MatchString(line):
			s.openClass(classRe.FindStringSubmatch(line))
		case defRe.MatchString(line):
			s.addFunction(defRe.FindStringSubmatch(line))
		default:
			s.collectImport(strings.TrimSpace(line))
			s.decorators = nil
		}
	}
	s.closeClass()
}

func (s *scanner) openClass(m []string) {
	s.closeClass()
	cls := analyzer.ClassInfo{
		Name:    m[2],
		Methods: []analyzer.FunctionInfo{},
		Bases:   parseBases(m[3]),
	}
	s.current = &cls
	s.currentIndent = indentWidth(m[1])
	s.decorators = nil
}

func (s *scanner) closeClass() {
	if s.current != nil {
		s.classes = append(s.classes, *s.current)
		s.current = nil
	}
}

func (s *scanner) addFunction(m []string) {
	indent := indentWidth(m[1])
	fn := analyzer.FunctionInfo{
		Name:       m[3],
		Args:       parseArgs(m[4]),
		Decorators: s.decorators,
		IsAsync:    strings.TrimSpace(m[2]) != "",
	}
	if fn.Args == nil {
		fn.Args = []string{}
	}
	if fn.Decorators == nil {
		fn.Decorators = []string{}
	}
	s.decorators = nil

	if s.current != nil {
		if indent > s.currentIndent {
			s.current.Methods = append(s.current.Methods, fn)
			return
		}
		s.closeClass()
	}
	s.functions = append(s.functions, fn)
}

func (s *scanner) collectImport(trimmed string) {
	if rest, ok := strings.CutPrefix(trimmed, "import "); ok {
		for _, part := range strings.Split(rest, ",") {
			s.addImport(part)
		}
		return
	}
	if m := fromRe.FindStringSubmatch(trimmed); m != nil {
		s.addImport(m[1])
	}
}

// addImport records the first dotted segment of a module reference,
// dropping aliases and relative-import dots.
func (s *scanner) addImport(raw string) {
	name := strings.TrimSpace(raw)
	if i := strings.Index(name, " as "); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimLeft(name, ".")
	if i := strings.Index(name, "."); i >= 0 {
		name = name[:i]
	}
	name = strings.TrimSpace(name)
	if name == "" || s.seen[name] {
		return
	}
	s.seen[name] = true
	s.imports = append(s.imports, name)
}

func parseArgs(params string) []string {
	var out []string
	for _, p := range analyzer.SplitArgs(params, "([{", ")]}") {
		p = strings.TrimLeft(p, "*")
		if i := strings.IndexAny(p, ":="); i >= 0 {
			p = p[:i]
		}
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBases(bases string) []string {
	var out []string
	for _, b := range analyzer.SplitArgs(bases, "([{", ")]}") {
		if strings.Contains(b, "=") { // keyword argument such as metaclass=
			continue
		}
		out = append(out, b)
	}
	if out == nil {
		return []string{}
	}
	return out
}

func indentWidth(ws string) int {
	width := 0
	for _, r := range ws {
		if r == '\t' {
			width += 4
		} else {
			width++
		}
	}
	return width
}
