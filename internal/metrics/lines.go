package metrics

import "strings"

// commentState is the block-comment state machine. Two states keep the
// same-line open+close case unambiguous: a balanced line counts as one
// comment line and leaves the state at normal.
type commentState int

const (
	stateNormal commentState = iota
	stateInBlock
)

// CountLines classifies every line of content as blank, comment, or code
// using the given comment markers. The trailing empty line produced by a
// final newline is not counted.
func CountLines(content string, m CommentMarkers) LineCounts {
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}

	counts := LineCounts{Total: len(lines)}
	state := stateNormal

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			counts.Blank++
			continue
		}

		if state == stateInBlock {
			counts.Comment++
			if m.BlockEnd != "" && strings.Contains(line, m.BlockEnd) {
				state = stateNormal
			}
			continue
		}

		if m.BlockStart != "" {
			if idx := strings.Index(line, m.BlockStart); idx >= 0 {
				counts.Comment++
				rest := line[idx+len(m.BlockStart):]
				if m.BlockEnd == "" || !strings.Contains(rest, m.BlockEnd) {
					state = stateInBlock
				}
				continue
			}
		}

		if m.Line != "" && strings.HasPrefix(trimmed, m.Line) {
			counts.Comment++
		}
	}

	return counts
}
