// Package text implements the analyzer for plain-text and documentation
// files. It computes readability-style statistics instead of code structure.
package text

import (
	"math"
	"regexp"
	"strings"

	"github.com/codectx/codectx/internal/analyzer"
	"github.com/codectx/codectx/internal/metrics"
)

var (
	wordRe        = regexp.MustCompile(`\b\w+\b`)
	sentenceRe    = regexp.MustCompile(`[.!?]+`)
	specialCharRe = regexp.MustCompile(`[^a-zA-Z0-9\s]`)
	digitRunRe    = regexp.MustCompile(`\d+`)
	punctRe       = regexp.MustCompile(`[.,!?;:]`)
)

// Analyzer handles .txt, .md, .rst, and .log files.
type Analyzer struct{}

// NewAnalyzer creates a new text analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) Language() analyzer.Language {
	return analyzer.LangText
}

func (a *Analyzer) Extensions() []string {
	return analyzer.FileExtensions[analyzer.LangText]
}

// Clean normalizes line endings, removes NUL bytes, trims trailing
// whitespace per line, and drops blank lines.
func (a *Analyzer) Clean(content string) string {
	s := strings.ReplaceAll(content, "\x00", "")
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, " \t")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func (a *Analyzer) Analyze(content string) (res analyzer.Result) {
	defer func() {
		if r := recover(); r != nil {
			res = analyzer.Failuref("text analysis error: %v", r)
		}
	}()

	cleaned := a.Clean(content)

	// Paragraph detection needs the blank lines Clean removes, so the
	// statistics run on normalized rather than cleaned text.
	normalized := strings.ReplaceAll(strings.ReplaceAll(content, "\x00", ""), "\r\n", "\n")

	// Text files have no comment syntax.
	counts := metrics.CountLines(content, metrics.CommentMarkers{})
	m := analyzer.NewCodeMetrics()
	m.LinesOfCode = counts.Total
	m.BlankLines = counts.Blank
	m.Complexity = textComplexity(cleaned)
	m.MaxDepth = metrics.IndentDepth(cleaned, 2)

	return analyzer.Result{
		Success: true,
		Metrics: &m,
		Text:    textStats(normalized),
	}
}

func textStats(content string) *analyzer.TextStats {
	stats := &analyzer.TextStats{}

	words := wordRe.FindAllString(content, -1)
	stats.WordCount = len(words)

	for _, s := range sentenceRe.Split(content, -1) {
		if strings.TrimSpace(s) != "" {
			stats.SentenceCount++
		}
	}

	for _, p := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(p) != "" {
			stats.ParagraphCount++
		}
	}

	if len(words) > 0 {
		total := 0
		for _, w := range words {
			total += len(w)
		}
		stats.AvgWordLength = round2(float64(total) / float64(len(words)))
	}
	if stats.SentenceCount > 0 {
		stats.AvgSentenceLength = round2(float64(stats.WordCount) / float64(stats.SentenceCount))
	}
	return stats
}

// textComplexity scores structural density: symbols, numbers, punctuation,
// and long words, scaled down to stay comparable with code complexity.
func textComplexity(content string) int {
	score := len(specialCharRe.FindAllString(content, -1))
	score += len(digitRunRe.FindAllString(content, -1))
	score += len(punctRe.FindAllString(content, -1))
	for _, w := range wordRe.FindAllString(content, -1) {
		if len(w) > 6 {
			score++
		}
	}

	c := score / 10
	if c < 1 {
		c = 1
	}
	return c
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
