package analyzer

import "fmt"

// CodeMetrics is the numeric summary of one file's text.
type CodeMetrics struct {
	LinesOfCode          int     `json:"lines_of_code"`
	CommentLines         int     `json:"comment_lines"`
	BlankLines           int     `json:"blank_lines"`
	Complexity           int     `json:"complexity"`
	MaintainabilityIndex float64 `json:"maintainability_index"`
	MaxDepth             int     `json:"max_depth"`
}

// NewCodeMetrics returns metrics with the informational maintainability
// index at its fixed default.
func NewCodeMetrics() CodeMetrics {
	return CodeMetrics{Complexity: 1, MaintainabilityIndex: 100.0}
}

// FunctionInfo describes one discovered function or method.
type FunctionInfo struct {
	Name       string   `json:"name"`
	Args       []string `json:"arguments"`
	Decorators []string `json:"decorators"`
	IsAsync    bool     `json:"is_async"`
}

// ClassInfo describes one discovered class or type.
type ClassInfo struct {
	Name    string         `json:"name"`
	Methods []FunctionInfo `json:"methods"`
	Bases   []string       `json:"base_classes"`
}

// ComponentInfo describes a React component (function, arrow, or class form).
type ComponentInfo struct {
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	Hooks []string `json:"hooks,omitempty"`
	Props []string `json:"props,omitempty"`
}

// HookInfo describes one React hook usage.
type HookInfo struct {
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
}

// DotnetDependencies holds project-file metadata found inside .NET content.
type DotnetDependencies struct {
	Frameworks []string `json:"frameworks"`
	Packages   []string `json:"packages"`
}

// TextStats holds the plain-text measurements produced by the text analyzer.
type TextStats struct {
	WordCount         int     `json:"word_count"`
	SentenceCount     int     `json:"sentence_count"`
	ParagraphCount    int     `json:"paragraph_count"`
	AvgWordLength     float64 `json:"avg_word_length"`
	AvgSentenceLength float64 `json:"avg_sentence_length"`
}

// Result is the per-file structural summary. Exactly one of
// success-with-metrics or failure-with-error holds.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	Metrics   *CodeMetrics   `json:"metrics,omitempty"`
	Imports   []string       `json:"imports,omitempty"`
	Exports   []string       `json:"exports,omitempty"`
	Functions []FunctionInfo `json:"functions,omitempty"`
	Classes   []ClassInfo    `json:"classes,omitempty"`

	// Language-specific extras.
	Packages     []string            `json:"packages,omitempty"`   // Java
	Namespace    string              `json:"namespace,omitempty"`  // C#
	Dependencies *DotnetDependencies `json:"dependencies,omitempty"`
	Components   []ComponentInfo     `json:"components,omitempty"` // React
	Hooks        []HookInfo          `json:"hooks,omitempty"`
	Text         *TextStats          `json:"text_stats,omitempty"`
}

// Failure builds the failure form of a Result.
func Failure(err error) Result {
	return Result{Success: false, Error: err.Error()}
}

// Failuref builds a failure Result from a format string.
func Failuref(format string, args ...any) Result {
	return Result{Success: false, Error: fmt.Sprintf(format, args...)}
}
