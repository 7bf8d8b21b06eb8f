// Package scan orchestrates the per-file analysis over a set of repository
// files and aggregates the run into a report.
package scan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/codectx/codectx/internal/gitinfo"
	"github.com/codectx/codectx/internal/manifest"
	"github.com/codectx/codectx/internal/record"
)

// contentHash identifies raw file content for cache lookups.
func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// FileSource describes one file to analyze. Content is loaded lazily so the
// runner never holds the whole repository in memory.
type FileSource struct {
	Path    string
	RawSize int64
	Load    func() (string, error)
}

// FailedFile identifies one file whose analysis failed.
type FailedFile struct {
	File  string `json:"file"`
	Error string `json:"error"`
}

// Stats aggregates the outcome counters of a run.
type Stats struct {
	ProcessedFiles   int            `json:"processed_files"`
	SkippedFiles     int            `json:"skipped_files"`
	FailedFiles      int            `json:"failed_files"`
	TotalFiles       int            `json:"total_files"`
	TotalRawSize     int64          `json:"total_raw_size"`
	TotalCleanedSize int64          `json:"total_cleaned_size"`
	ProcessingTime   float64        `json:"processing_time"`
	FileTypes        map[string]int `json:"file_types"`
	FailedFilesInfo  []FailedFile   `json:"failed_files_info"`
}

// Metadata describes a finished run.
type Metadata struct {
	Timestamp      string             `json:"timestamp"`
	RepositoryRoot string             `json:"repository_root"`
	TotalFiles     int                `json:"total_files"`
	Statistics     Stats              `json:"statistics"`
	Projects       []manifest.Project `json:"projects,omitempty"`
	Git            *gitinfo.RepoInfo  `json:"git,omitempty"`
}

// Report is the full output of a run: metadata plus one record per
// successfully processed file, ordered by path.
type Report struct {
	Metadata Metadata        `json:"metadata"`
	Files    []record.Record `json:"files"`
}

// Cache lets a runner reuse records for unchanged file contents. Keys are
// the repository-relative path plus a hash of the raw content.
type Cache interface {
	Get(path, rawHash string) (*record.Record, bool)
	Put(path, rawHash string, rec *record.Record) error
}

// Runner executes the analysis with a bounded worker pool.
type Runner struct {
	builder *record.Builder
	workers int
	cache   Cache
	log     func(format string, args ...any)
}

// RunnerConfig configures a Runner. Zero workers means one per CPU.
type RunnerConfig struct {
	Builder *record.Builder
	Workers int
	Cache   Cache
	Logger  func(format string, args ...any)
}

// NewRunner creates a Runner from cfg.
func NewRunner(cfg RunnerConfig) *Runner {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logFn := cfg.Logger
	if logFn == nil {
		logFn = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}
	return &Runner{
		builder: cfg.Builder,
		workers: workers,
		cache:   cfg.Cache,
		log:     logFn,
	}
}

type outcome struct {
	index   int
	path    string
	fileExt string
	rawSize int64
	result  record.Outcome
}

// Run analyzes every file and folds the outcomes into a Report. A failure
// in one file never aborts the run. ctx cancellation stops scheduling new
// files; already running analyses finish.
func (r *Runner) Run(ctx context.Context, root string, files []FileSource) (*Report, error) {
	start := time.Now()

	jobs := make(chan int)
	outcomes := make([]outcome, len(files))
	var wg sync.WaitGroup

	for w := 0; w < r.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = r.analyzeOne(i, files[i])
			}
		}()
	}

	scheduled := 0
dispatch:
	for i := range files {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- i:
			scheduled++
		}
	}
	close(jobs)
	wg.Wait()

	report := r.fold(root, outcomes[:scheduled], len(files), start)
	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}

// analyzeOne builds the record for a single file, converting load errors
// and panics into failed outcomes.
func (r *Runner) analyzeOne(index int, src FileSource) (out outcome) {
	out = outcome{index: index, path: src.Path, rawSize: src.RawSize}
	defer func() {
		if p := recover(); p != nil {
			out.result = record.Outcome{
				Status: record.Failed,
				Reason: fmt.Sprintf("unexpected error: %v", p),
			}
		}
	}()

	content, err := src.Load()
	if err != nil {
		out.result = record.Outcome{
			Status: record.Failed,
			Reason: fmt.Sprintf("read error: %v", err),
		}
		return out
	}

	if r.cache != nil {
		rawHash := contentHash(content)
		if rec, ok := r.cache.Get(src.Path, rawHash); ok {
			out.result = record.Outcome{Status: record.Processed, Record: rec}
			return out
		}
		out.result = r.builder.Build(src.Path, content)
		if out.result.Status == record.Processed {
			if err := r.cache.Put(src.Path, rawHash, out.result.Record); err != nil {
				r.log("cache write failed for %s: %v", src.Path, err)
			}
		}
		return out
	}

	out.result = r.builder.Build(src.Path, content)
	return out
}

// fold aggregates outcomes in input order, then sorts the records by path
// so reports are deterministic regardless of worker interleaving. Failure
// entries keep the input order.
func (r *Runner) fold(root string, outcomes []outcome, total int, start time.Time) *Report {
	stats := Stats{
		TotalFiles:      total,
		FileTypes:       make(map[string]int),
		FailedFilesInfo: []FailedFile{},
	}
	var records []record.Record

	for _, out := range outcomes {
		switch out.result.Status {
		case record.Processed:
			rec := out.result.Record
			stats.ProcessedFiles++
			stats.TotalRawSize += out.rawSize
			stats.TotalCleanedSize += int64(rec.Size)
			stats.FileTypes[rec.Type]++
			records = append(records, *rec)
		case record.Skipped:
			stats.SkippedFiles++
		case record.Failed:
			stats.FailedFiles++
			stats.FailedFilesInfo = append(stats.FailedFilesInfo, FailedFile{
				File:  out.path,
				Error: out.result.Reason,
			})
		}
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	stats.ProcessingTime = time.Since(start).Seconds()

	if records == nil {
		records = []record.Record{}
	}
	return &Report{
		Metadata: Metadata{
			Timestamp:      time.Now().Format(time.RFC3339),
			RepositoryRoot: root,
			TotalFiles:     len(records),
			Statistics:     stats,
		},
		Files: records,
	}
}
