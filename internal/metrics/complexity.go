package metrics

import "regexp"

// Complexity estimates cyclomatic complexity by counting non-overlapping
// matches of each branch pattern. The baseline is 1 (the single linear path
// through the file) and the result never drops below it.
func Complexity(content string, patterns []*regexp.Regexp) int {
	complexity := 1
	for _, p := range patterns {
		complexity += len(p.FindAllStringIndex(content, -1))
	}
	if complexity < 1 {
		return 1
	}
	return complexity
}
