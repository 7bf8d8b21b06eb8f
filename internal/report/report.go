// Package report serializes scan reports to JSON and JSONL.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/codectx/codectx/internal/scan"
)

// Format selects the report serialization.
type Format string

const (
	// FormatJSON writes one indented document with metadata and files.
	FormatJSON Format = "json"
	// FormatJSONL writes the metadata line followed by one record per line.
	FormatJSONL Format = "jsonl"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatJSONL:
		return FormatJSONL, nil
	default:
		return "", fmt.Errorf("unknown report format %q (json or jsonl)", s)
	}
}

// Write serializes rep to w in the given format.
func Write(w io.Writer, rep *scan.Report, format Format) error {
	switch format {
	case FormatJSONL:
		return writeJSONL(w, rep)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeJSONL(w io.Writer, rep *scan.Report) error {
	enc := json.NewEncoder(w)
	if err := enc.Encode(rep.Metadata); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	for i := range rep.Files {
		if err := enc.Encode(&rep.Files[i]); err != nil {
			return fmt.Errorf("write record %s: %w", rep.Files[i].Path, err)
		}
	}
	return nil
}

// WriteFile writes rep to path, creating parent directories as needed.
func WriteFile(path string, rep *scan.Report, format Format) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := Write(f, rep, format); err != nil {
		return err
	}
	return f.Close()
}

// DefaultFileName derives the output file name from the repository root,
// matching the <repo>_code_context.<format> convention.
func DefaultFileName(root string, format Format) string {
	base := filepath.Base(filepath.Clean(root))
	if base == "." || base == string(filepath.Separator) {
		base = "repository"
	}
	return fmt.Sprintf("%s_code_context.%s", base, format)
}
