// Package metrics provides stateless text-measurement primitives shared by
// every language analyzer: line classification, regex-based cyclomatic
// complexity, and nesting-depth estimation.
package metrics

// CommentMarkers describes the comment syntax of a language. Empty fields
// disable the corresponding classification (plain text has no markers).
type CommentMarkers struct {
	Line       string
	BlockStart string
	BlockEnd   string
}

// LineCounts holds the result of classifying every line of a file.
type LineCounts struct {
	Total   int
	Blank   int
	Comment int
}
