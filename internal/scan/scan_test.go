package scan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/codectx/codectx/internal/analyzer"
	"github.com/codectx/codectx/internal/analyzer/python"
	"github.com/codectx/codectx/internal/record"
)

func testBuilder(t *testing.T) *record.Builder {
	t.Helper()
	r := analyzer.NewRegistry(func(string, ...any) {})
	r.Register(analyzer.LangPython, func() analyzer.Analyzer { return python.NewAnalyzer() }, ".py")
	return record.NewBuilder(r, nil)
}

func staticFile(path, content string) FileSource {
	return FileSource{
		Path:    path,
		RawSize: int64(len(content)),
		Load:    func() (string, error) { return content, nil },
	}
}

func quietRunner(t *testing.T, cfg RunnerConfig) *Runner {
	t.Helper()
	if cfg.Builder == nil {
		cfg.Builder = testBuilder(t)
	}
	if cfg.Logger == nil {
		cfg.Logger = func(string, ...any) {}
	}
	return NewRunner(cfg)
}

func TestRunAggregates(t *testing.T) {
	files := []FileSource{
		staticFile("b.py", "def b():\n    pass\n"),
		staticFile("a.py", "def a():\n    pass\n"),
		staticFile("logo.png", "binary"),
		staticFile("empty.py", "   \n"),
	}
	rep, err := quietRunner(t, RunnerConfig{Workers: 3}).Run(context.Background(), "/repo", files)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	s := rep.Metadata.Statistics
	if s.ProcessedFiles != 2 || s.SkippedFiles != 2 || s.FailedFiles != 0 {
		t.Errorf("stats = %+v", s)
	}
	if s.ProcessedFiles+s.SkippedFiles+s.FailedFiles != s.TotalFiles {
		t.Errorf("counters do not add up: %+v", s)
	}
	if s.FileTypes["py"] != 2 {
		t.Errorf("file types = %v", s.FileTypes)
	}
	if s.TotalCleanedSize <= 0 || s.TotalRawSize <= 0 {
		t.Errorf("sizes = raw %d cleaned %d", s.TotalRawSize, s.TotalCleanedSize)
	}
	if s.ProcessingTime < 0 {
		t.Errorf("processing time = %v", s.ProcessingTime)
	}

	if len(rep.Files) != 2 || rep.Files[0].Path != "a.py" || rep.Files[1].Path != "b.py" {
		t.Errorf("records not sorted by path: %v, %v", rep.Files[0].Path, rep.Files[1].Path)
	}
	if rep.Metadata.TotalFiles != 2 {
		t.Errorf("metadata total = %d, want processed count", rep.Metadata.TotalFiles)
	}
	if rep.Metadata.RepositoryRoot != "/repo" {
		t.Errorf("root = %q", rep.Metadata.RepositoryRoot)
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	files := []FileSource{
		staticFile("good.py", "x = 1\n"),
		{
			Path:    "bad.py",
			RawSize: 4,
			Load:    func() (string, error) { return "", errors.New("disk gone") },
		},
		{
			Path:    "panic.py",
			RawSize: 4,
			Load:    func() (string, error) { panic("boom") },
		},
	}
	rep, err := quietRunner(t, RunnerConfig{Workers: 1}).Run(context.Background(), "/repo", files)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	s := rep.Metadata.Statistics
	if s.ProcessedFiles != 1 || s.FailedFiles != 2 {
		t.Fatalf("stats = %+v", s)
	}
	if s.FailedFilesInfo[0].File != "bad.py" || s.FailedFilesInfo[1].File != "panic.py" {
		t.Fatalf("failures out of input order: %+v", s.FailedFilesInfo)
	}
	if !strings.Contains(s.FailedFilesInfo[0].Error, "disk gone") {
		t.Errorf("bad.py error = %q", s.FailedFilesInfo[0].Error)
	}
	if !strings.Contains(s.FailedFilesInfo[1].Error, "unexpected error") {
		t.Errorf("panic.py error = %q", s.FailedFilesInfo[1].Error)
	}
}

func brokenFile(path string) FileSource {
	return FileSource{
		Path:    path,
		RawSize: 1,
		Load:    func() (string, error) { return "", errors.New("read failed") },
	}
}

func TestRunFailureOrderMatchesInput(t *testing.T) {
	paths := []string{"z.py", "a.py", "m.py", "q.py", "b.py"}
	var files []FileSource
	for _, p := range paths {
		files = append(files, brokenFile(p))
	}

	for _, workers := range []int{1, 4} {
		rep, err := quietRunner(t, RunnerConfig{Workers: workers}).Run(context.Background(), "/repo", files)
		if err != nil {
			t.Fatalf("workers=%d: %v", workers, err)
		}
		info := rep.Metadata.Statistics.FailedFilesInfo
		if len(info) != len(paths) {
			t.Fatalf("workers=%d: %d failures, want %d", workers, len(info), len(paths))
		}
		for i, p := range paths {
			if info[i].File != p {
				t.Errorf("workers=%d: failed_files_info[%d] = %q, want %q", workers, i, info[i].File, p)
			}
		}
	}
}

func TestRunDeterministicOrder(t *testing.T) {
	var files []FileSource
	for i := 0; i < 40; i++ {
		files = append(files, staticFile(fmt.Sprintf("f%02d.py", i), "x = 1\n"))
	}
	rep, err := quietRunner(t, RunnerConfig{Workers: 8}).Run(context.Background(), "/repo", files)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for i := 1; i < len(rep.Files); i++ {
		if rep.Files[i-1].Path >= rep.Files[i].Path {
			t.Fatalf("records out of order at %d: %q >= %q", i, rep.Files[i-1].Path, rep.Files[i].Path)
		}
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []FileSource{staticFile("a.py", "x = 1\n")}
	rep, err := quietRunner(t, RunnerConfig{Workers: 1}).Run(ctx, "/repo", files)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if rep == nil {
		t.Fatal("cancelled run should still return the partial report")
	}
}

type memCache struct {
	entries map[string]*record.Record
	hits    int
	puts    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]*record.Record)}
}

func (c *memCache) Get(path, rawHash string) (*record.Record, bool) {
	rec, ok := c.entries[path+"|"+rawHash]
	if ok {
		c.hits++
	}
	return rec, ok
}

func (c *memCache) Put(path, rawHash string, rec *record.Record) error {
	c.puts++
	c.entries[path+"|"+rawHash] = rec
	return nil
}

func TestRunUsesCache(t *testing.T) {
	cache := newMemCache()
	runner := quietRunner(t, RunnerConfig{Workers: 1, Cache: cache})
	files := []FileSource{staticFile("a.py", "x = 1\n")}

	if _, err := runner.Run(context.Background(), "/repo", files); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if cache.puts != 1 || cache.hits != 0 {
		t.Fatalf("after first run: puts=%d hits=%d", cache.puts, cache.hits)
	}

	rep, err := runner.Run(context.Background(), "/repo", files)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if cache.hits != 1 {
		t.Errorf("second run should hit the cache: hits=%d", cache.hits)
	}
	if len(rep.Files) != 1 || rep.Files[0].Path != "a.py" {
		t.Errorf("cached record missing from report: %+v", rep.Files)
	}

	// Changed content misses the stale entry.
	changed := []FileSource{staticFile("a.py", "x = 2\n")}
	if _, err := runner.Run(context.Background(), "/repo", changed); err != nil {
		t.Fatalf("third run: %v", err)
	}
	if cache.hits != 1 || cache.puts != 2 {
		t.Errorf("changed content should re-analyze: hits=%d puts=%d", cache.hits, cache.puts)
	}
}
