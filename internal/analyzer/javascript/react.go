package javascript

import (
	"regexp"
	"sort"
	"strings"

	"github.com/codectx/codectx/internal/analyzer"
)

// reactSignals are the patterns whose presence switches on React-specific
// extraction.
var reactSignals = []*regexp.Regexp{
	regexp.MustCompile(`import\s+.*?['"](react|react-dom)['"]`),
	regexp.MustCompile(`import\s+\{[^}]*Component[^}]*\}\s+from\s+['"]react['"]`),
	regexp.MustCompile(`extends\s+React\.Component`),
	regexp.MustCompile(`extends\s+Component`),
	regexp.MustCompile(`\buse[A-Z]\w*\(`),
	regexp.MustCompile(`<\w+\s+[^>]*/>`),
	regexp.MustCompile(`React\.`),
}

var (
	componentFuncRe  = regexp.MustCompile(`(?:export\s+)?(?:default\s+)?function\s+([A-Z]\w*)`)
	componentArrowRe = regexp.MustCompile(`(?:export\s+)?(?:default\s+)?const\s+([A-Z]\w*)\s*=\s*(?:\([^)]*\))?\s*=>`)
	componentClassRe = regexp.MustCompile(`class\s+([A-Z]\w*)\s+extends\s+(?:React\.)?Component`)

	hookCallRe   = regexp.MustCompile(`\b(use[A-Z]\w*)`)
	destructRe   = regexp.MustCompile(`\(\s*\{\s*([^}]+)\s*\}\s*\)`)
	propsUsageRe = regexp.MustCompile(`props\.(\w+)`)
)

// standardHooks is the set of built-in React hook names; everything else
// matching the hook pattern is tagged custom.
var standardHooks = map[string]bool{
	"useState": true, "useEffect": true, "useContext": true, "useReducer": true,
	"useCallback": true, "useMemo": true, "useRef": true, "useImperativeHandle": true,
	"useLayoutEffect": true, "useDebugValue": true,
}

func isReactCode(content string) bool {
	for _, p := range reactSignals {
		if p.MatchString(content) {
			return true
		}
	}
	return false
}

func collectComponents(content string) []analyzer.ComponentInfo {
	var out []analyzer.ComponentInfo

	collect := func(re *regexp.Regexp, compType string) {
		for _, loc := range re.FindAllStringSubmatchIndex(content, -1) {
			name := content[loc[2]:loc[3]]
			comp := analyzer.ComponentInfo{
				Name:  name,
				Type:  compType,
				Props: extractProps(content, loc[0]),
			}
			if compType != "class" {
				comp.Hooks = componentHooks(content, loc[0])
			}
			out = append(out, comp)
		}
	}

	collect(componentFuncRe, "function")
	collect(componentArrowRe, "arrow")
	collect(componentClassRe, "class")
	return out
}

func collectHooks(content string) []analyzer.HookInfo {
	var out []analyzer.HookInfo
	for _, m := range hookCallRe.FindAllStringSubmatch(content, -1) {
		name := m[1]
		out = append(out, analyzer.HookInfo{
			Name:   name,
			Custom: !standardHooks[name],
		})
	}
	return out
}

// componentHooks returns the hook names used inside the component whose
// declaration starts at start, by brace-matching the component body.
func componentHooks(content string, start int) []string {
	body := matchBracedBlock(content[start:])
	seen := make(map[string]bool)
	var hooks []string
	for _, h := range collectHooks(body) {
		if !seen[h.Name] {
			seen[h.Name] = true
			hooks = append(hooks, h.Name)
		}
	}
	return hooks
}

// extractProps finds destructured parameter names near the declaration and
// props.X usages after it.
func extractProps(content string, start int) []string {
	seen := make(map[string]bool)
	var props []string

	window := content[start:]
	if len(window) > 200 {
		window = window[:200]
	}
	if m := destructRe.FindStringSubmatch(window); m != nil {
		for _, p := range strings.Split(m[1], ",") {
			if p = strings.TrimSpace(p); p != "" && !seen[p] {
				seen[p] = true
				props = append(props, p)
			}
		}
	}

	for _, m := range propsUsageRe.FindAllStringSubmatch(content[start:], -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			props = append(props, m[1])
		}
	}

	sort.Strings(props)
	return props
}

// matchBracedBlock returns the text of the first balanced {...} block in s,
// without the outer braces. An unterminated block returns everything after
// the opening brace.
func matchBracedBlock(s string) string {
	open := strings.IndexByte(s, '{')
	if open < 0 {
		return ""
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[open+1 : i]
			}
		}
	}
	return s[open+1:]
}
