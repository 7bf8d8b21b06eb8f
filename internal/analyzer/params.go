package analyzer

import "strings"

// SplitArgs splits a parameter list on top-level commas, honoring the given
// opening/closing bracket characters so generics, destructuring, and nested
// calls do not split mid-parameter. Results are trimmed; empties are dropped.
func SplitArgs(params, openers, closers string) []string {
	if strings.TrimSpace(params) == "" {
		return nil
	}

	var out []string
	var current strings.Builder
	depth := 0

	for _, r := range params {
		switch {
		case strings.ContainsRune(openers, r):
			depth++
			current.WriteRune(r)
		case strings.ContainsRune(closers, r):
			depth--
			current.WriteRune(r)
		case r == ',' && depth <= 0:
			if p := strings.TrimSpace(current.String()); p != "" {
				out = append(out, p)
			}
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	if p := strings.TrimSpace(current.String()); p != "" {
		out = append(out, p)
	}
	return out
}
