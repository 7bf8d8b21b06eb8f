package java

import (
	"strings"
	"testing"
)

const sample = `package com.example.app;

import java.util.List;
import java.util.Map;
import static java.util.Collections.emptyList;

@Service
public class OrderService extends BaseService implements Runnable, Closeable {
    @Override
    public List<String> findAll(Map<String, Integer> index, int limit) {
        if (limit > 0) {
            return emptyList();
        }
        return null;
    }

    private void refresh() {}
}
`

func TestAnalyzeSample(t *testing.T) {
	res := NewAnalyzer().Analyze(sample)
	if !res.Success {
		t.Fatalf("analysis failed: %s", res.Error)
	}

	if len(res.Packages) != 1 || res.Packages[0] != "com.example.app" {
		t.Errorf("packages = %v, want [com.example.app]", res.Packages)
	}

	wantImports := []string{"java.util.List", "java.util.Map", "java.util.Collections.emptyList"}
	if len(res.Imports) != len(wantImports) {
		t.Fatalf("imports = %v, want %v", res.Imports, wantImports)
	}
	for i, w := range wantImports {
		if res.Imports[i] != w {
			t.Errorf("imports[%d] = %q, want %q", i, res.Imports[i], w)
		}
	}

	if len(res.Classes) != 1 {
		t.Fatalf("classes = %v, want 1 entry", res.Classes)
	}
	cls := res.Classes[0]
	if cls.Name != "OrderService" {
		t.Errorf("class name = %q", cls.Name)
	}
	wantBases := []string{"BaseService", "Runnable", "Closeable"}
	if len(cls.Bases) != len(wantBases) {
		t.Fatalf("bases = %v, want %v", cls.Bases, wantBases)
	}
	for i, w := range wantBases {
		if cls.Bases[i] != w {
			t.Errorf("bases[%d] = %q, want %q", i, cls.Bases[i], w)
		}
	}

	methods := make(map[string]bool)
	for _, m := range cls.Methods {
		methods[m.Name] = true
	}
	if !methods["findAll"] || !methods["refresh"] {
		t.Errorf("methods = %v, want findAll and refresh", cls.Methods)
	}
}

func TestGenericParamsKeepNames(t *testing.T) {
	res := NewAnalyzer().Analyze(sample)
	for _, fn := range res.Functions {
		if fn.Name != "findAll" {
			continue
		}
		if len(fn.Args) != 2 || fn.Args[0] != "index" || fn.Args[1] != "limit" {
			t.Errorf("args = %v, want [index limit]", fn.Args)
		}
		return
	}
	t.Fatalf("findAll not found in %v", res.Functions)
}

func TestAnnotationsCollected(t *testing.T) {
	res := NewAnalyzer().Analyze(sample)
	for _, fn := range res.Functions {
		if fn.Name == "findAll" {
			if len(fn.Decorators) != 1 || fn.Decorators[0] != "Override" {
				t.Errorf("decorators = %v, want [Override]", fn.Decorators)
			}
			return
		}
	}
	t.Fatalf("findAll not found in %v", res.Functions)
}

func TestKeywordsNotMethods(t *testing.T) {
	src := `public class C {
    public void real() {
        if (x) { y(); }
        while (z) { w(); }
    }
}
`
	res := NewAnalyzer().Analyze(src)
	for _, fn := range res.Functions {
		if fn.Name == "if" || fn.Name == "while" {
			t.Errorf("control keyword leaked into functions: %v", res.Functions)
		}
	}
}

func TestComplexityAndDepth(t *testing.T) {
	res := NewAnalyzer().Analyze(sample)
	if res.Metrics.Complexity < 3 {
		t.Errorf("complexity = %d, want >= 3 (if, @Override, baseline)", res.Metrics.Complexity)
	}
	if res.Metrics.MaxDepth < 3 {
		t.Errorf("max depth = %d, want >= 3", res.Metrics.MaxDepth)
	}
}

func TestCleanStripsComments(t *testing.T) {
	src := "// header\n/* block\ncomment */\nint x = 1;\n"
	cleaned := NewAnalyzer().Clean(src)
	if strings.Contains(cleaned, "comment") || strings.Contains(cleaned, "header") {
		t.Errorf("clean left comments: %q", cleaned)
	}
	if !strings.Contains(cleaned, "int x = 1;") {
		t.Errorf("clean dropped code: %q", cleaned)
	}
}

func TestAnalyzeEmptyInput(t *testing.T) {
	res := NewAnalyzer().Analyze("")
	if !res.Success {
		t.Fatalf("empty input should degrade gracefully: %s", res.Error)
	}
	if res.Metrics.Complexity < 1 {
		t.Errorf("complexity = %d, want >= 1", res.Metrics.Complexity)
	}
}
