package metrics

import "strings"

// BraceDepth reports the maximum brace-nesting depth of content. The running
// counter is clamped at zero so an excess closing brace cannot drive it
// negative.
func BraceDepth(content string) int {
	maxDepth, depth := 0, 0
	for _, r := range content {
		switch r {
		case '{':
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return maxDepth
}

// IndentDepth reports the maximum indentation level of content for
// indentation-scoped languages. Each indentUnit leading spaces (tabs count
// as one unit) is one level; the maximum is taken per line, not accumulated.
func IndentDepth(content string, indentUnit int) int {
	if indentUnit <= 0 {
		indentUnit = 4
	}
	maxDepth := 0
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		width := 0
		for _, r := range line {
			if r == ' ' {
				width++
			} else if r == '\t' {
				width += indentUnit
			} else {
				break
			}
		}
		if depth := width / indentUnit; depth > maxDepth {
			maxDepth = depth
		}
	}
	return maxDepth
}
