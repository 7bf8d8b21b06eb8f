// Package record turns file contents into analyzed report records.
package record

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/codectx/codectx/internal/analyzer"
)

// Status classifies the outcome of building a record for one file.
type Status int

const (
	// Processed means a record was produced.
	Processed Status = iota
	// Skipped means the file was intentionally not analyzed.
	Skipped
	// Failed means analysis was attempted and reported an error.
	Failed
)

// Record is the per-file entry of a scan report.
type Record struct {
	Path        string          `json:"path"`
	Type        string          `json:"type"`
	Analysis    analyzer.Result `json:"analysis"`
	Size        int             `json:"size"`
	Content     string          `json:"content"`
	ContentHash string          `json:"content_hash"`
	Category    string          `json:"category"`
	IsTest      bool            `json:"is_test"`
}

// Outcome is the result of one Build call.
type Outcome struct {
	Status Status
	Record *Record
	// Reason carries the skip reason or failure error text.
	Reason string
}

// Builder produces Records by dispatching file contents to the registered
// analyzers.
type Builder struct {
	registry *analyzer.Registry
	patterns *FilePatterns
}

// NewBuilder creates a Builder. A nil patterns uses the defaults.
func NewBuilder(registry *analyzer.Registry, patterns *FilePatterns) *Builder {
	if patterns == nil {
		patterns = DefaultFilePatterns()
	}
	return &Builder{registry: registry, patterns: patterns}
}

// Patterns returns the classification rules the builder applies.
func (b *Builder) Patterns() *FilePatterns {
	return b.patterns
}

// Build analyzes one file's content. relPath is the repository-relative
// path used for classification and reporting.
func (b *Builder) Build(relPath, content string) Outcome {
	ext := filepath.Ext(relPath)
	a, ok := b.registry.Resolve(ext)
	if !ok {
		return Outcome{Status: Skipped, Reason: "unsupported extension " + ext}
	}

	if strings.TrimSpace(content) == "" {
		return Outcome{Status: Skipped, Reason: "empty file"}
	}

	cleaned := a.Clean(content)
	if strings.TrimSpace(cleaned) == "" {
		return Outcome{Status: Skipped, Reason: "empty after cleaning"}
	}

	res := a.Analyze(content)
	if !res.Success {
		reason := res.Error
		if reason == "" {
			reason = "unknown analysis error"
		}
		return Outcome{Status: Failed, Reason: "analysis error: " + reason}
	}

	sum := sha256.Sum256([]byte(cleaned))
	return Outcome{
		Status: Processed,
		Record: &Record{
			Path:        relPath,
			Type:        strings.TrimPrefix(ext, "."),
			Analysis:    res,
			Size:        len(cleaned),
			Content:     cleaned,
			ContentHash: hex.EncodeToString(sum[:]),
			Category:    b.patterns.Category(relPath),
			IsTest:      b.patterns.IsTest(relPath),
		},
	}
}
