package walker

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/codectx/codectx/internal/analyzer"
	"github.com/codectx/codectx/internal/analyzer/javascript"
	"github.com/codectx/codectx/internal/analyzer/python"
)

func testRegistry(t *testing.T) *analyzer.Registry {
	t.Helper()
	r := analyzer.NewRegistry(func(string, ...any) {})
	r.Register(analyzer.LangPython, func() analyzer.Analyzer { return python.NewAnalyzer() }, ".py")
	r.Register(analyzer.LangJavaScript, func() analyzer.Analyzer { return javascript.NewAnalyzer() }, ".js")
	return r
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func collected(t *testing.T, root string, opts Options) []string {
	t.Helper()
	files, err := Collect(root, testRegistry(t), opts)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	var out []string
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

func TestCollectFiltersAndOrders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/app.py", "x = 1\n")
	writeFile(t, root, "src/ui.js", "const a = 1;\n")
	writeFile(t, root, "README.md", "docs\n")
	writeFile(t, root, "node_modules/dep/index.js", "ignored\n")
	writeFile(t, root, "image.png", "binary\n")

	got := collected(t, root, Options{IncludeTests: true})
	want := []string{"src/app.py", "src/ui.js"}
	if len(got) != len(want) {
		t.Fatalf("collected = %v, want %v", got, want)
	}
	for i, w := range want {
		if got[i] != w {
			t.Errorf("collected[%d] = %q, want %q", i, got[i], w)
		}
	}
}

func TestCollectRespectsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "generated/\nvendor.js\n")
	writeFile(t, root, "app.py", "x = 1\n")
	writeFile(t, root, "vendor.js", "const v = 1;\n")
	writeFile(t, root, "generated/out.py", "x = 2\n")

	got := collected(t, root, Options{IncludeTests: true})
	if len(got) != 1 || got[0] != "app.py" {
		t.Errorf("collected = %v, want [app.py]", got)
	}
}

func TestCollectExtraExcludes(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.py", "x = 1\n")
	writeFile(t, root, "scratch/tmp.py", "x = 2\n")

	got := collected(t, root, Options{IncludeTests: true, Exclude: []string{"scratch/"}})
	if len(got) != 1 || got[0] != "app.py" {
		t.Errorf("collected = %v, want [app.py]", got)
	}
}

func TestCollectTestFilePolicy(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.py", "x = 1\n")
	writeFile(t, root, "test_app.py", "x = 2\n")

	without := collected(t, root, Options{})
	if len(without) != 1 || without[0] != "app.py" {
		t.Errorf("without tests = %v, want [app.py]", without)
	}

	with := collected(t, root, Options{IncludeTests: true})
	if len(with) != 2 {
		t.Errorf("with tests = %v, want both files", with)
	}
}

func TestCollectMaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "small.py", "x = 1\n")
	writeFile(t, root, "big.py", strings.Repeat("y = 2\n", 1000))

	got := collected(t, root, Options{IncludeTests: true, MaxFileSize: 100})
	if len(got) != 1 || got[0] != "small.py" {
		t.Errorf("collected = %v, want [small.py]", got)
	}
}

func TestCollectLoadsContent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "app.py", "x = 42\n")

	files, err := Collect(root, testRegistry(t), Options{IncludeTests: true})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("files = %d, want 1", len(files))
	}
	content, err := files[0].Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if content != "x = 42\n" {
		t.Errorf("content = %q", content)
	}
	if files[0].RawSize != int64(len(content)) {
		t.Errorf("raw size = %d, want %d", files[0].RawSize, len(content))
	}
}

func TestCollectRootMustBeDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "file.py", "x = 1\n")

	if _, err := Collect(filepath.Join(root, "file.py"), testRegistry(t), Options{}); err == nil {
		t.Error("expected error for non-directory root")
	}
	if _, err := Collect(filepath.Join(root, "missing"), testRegistry(t), Options{}); err == nil {
		t.Error("expected error for missing root")
	}
}
