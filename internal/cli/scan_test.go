package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/codectx/codectx/internal/scan"
)

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

func TestScanCommandEndToEnd(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, repo, "src/app.py", "import os\ndef main():\n    pass\n")
	writeFile(t, repo, "src/ui.js", "const render = () => {};\n")
	writeFile(t, repo, "package.json", `{"name": "demo", "version": "1.0.0"}`)

	outPath := filepath.Join(t.TempDir(), "report.json")

	cmd := newScanCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{repo, "-o", outPath, "--include-tests"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("scan: %v (stderr: %s)", err, stderr.String())
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var rep scan.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("parse report: %v", err)
	}

	// package.json has no analyzer, so only the py and js files process.
	if rep.Metadata.Statistics.ProcessedFiles != 2 {
		t.Errorf("processed = %d, want 2", rep.Metadata.Statistics.ProcessedFiles)
	}
	if len(rep.Metadata.Projects) != 1 || rep.Metadata.Projects[0].Name != "demo" {
		t.Errorf("projects = %+v", rep.Metadata.Projects)
	}
	if !bytes.Contains(stdout.Bytes(), []byte("Scan Summary")) {
		t.Errorf("summary missing from output: %s", stdout.String())
	}
}

func TestScanCommandJSONLFormat(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, repo, "a.py", "x = 1\n")

	outPath := filepath.Join(t.TempDir(), "report.jsonl")
	cmd := newScanCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{repo, "-o", outPath, "-f", "jsonl"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("scan: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	lines := bytes.Count(data, []byte("\n"))
	if lines != 2 {
		t.Errorf("jsonl lines = %d, want metadata + 1 record", lines)
	}
}

func TestScanCommandRejectsBadFormat(t *testing.T) {
	cmd := newScanCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{t.TempDir(), "-f", "xml"})
	if err := cmd.Execute(); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestBuildRegistryCoversCoreExtensions(t *testing.T) {
	r := buildRegistry(func(string, ...any) {})
	for _, ext := range []string{".py", ".js", ".ts", ".tsx", ".java", ".cs", ".md"} {
		if !r.Supports(ext) {
			t.Errorf("extension %s unsupported", ext)
		}
	}
	if r.Supports(".png") {
		t.Error(".png should be unsupported")
	}
}
