package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/codectx/codectx/internal/scan"
)

// Style definitions for the scan summary.
var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"})
	labelStyle = lipgloss.NewStyle().
			Faint(true).
			Width(18)
	valueStyle = lipgloss.NewStyle()
	failStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#C53030", Dark: "#F56565"})
)

func printSummary(out io.Writer, rep *scan.Report, outPath string) {
	s := rep.Metadata.Statistics

	fmt.Fprintln(out)
	fmt.Fprintln(out, headerStyle.Render("Scan Summary"))
	fmt.Fprintln(out, headerStyle.Render(strings.Repeat("=", 12)))
	fmt.Fprintln(out)

	printKV(out, "Repository", rep.Metadata.RepositoryRoot)
	printKV(out, "Processed", fmt.Sprintf("%d", s.ProcessedFiles))
	printKV(out, "Skipped", fmt.Sprintf("%d", s.SkippedFiles))
	printKV(out, "Failed", fmt.Sprintf("%d", s.FailedFiles))
	printKV(out, "Raw size", formatBytes(s.TotalRawSize))
	printKV(out, "Cleaned size", formatBytes(s.TotalCleanedSize))
	printKV(out, "Duration", fmt.Sprintf("%.2fs", s.ProcessingTime))
	fmt.Fprintln(out)

	if len(s.FileTypes) > 0 {
		fmt.Fprintln(out, headerStyle.Render("File Types"))
		for _, ft := range sortedTypes(s.FileTypes) {
			printKV(out, "."+ft, fmt.Sprintf("%d", s.FileTypes[ft]))
		}
		fmt.Fprintln(out)
	}

	if len(rep.Metadata.Projects) > 0 {
		fmt.Fprintln(out, headerStyle.Render("Projects"))
		for _, p := range rep.Metadata.Projects {
			fmt.Fprintf(out, "    %s  (%s, %s)\n", p.Name, p.Kind, p.Path)
		}
		fmt.Fprintln(out)
	}

	if len(s.FailedFilesInfo) > 0 {
		fmt.Fprintln(out, failStyle.Render("Failures"))
		for _, f := range s.FailedFilesInfo {
			fmt.Fprintf(out, "    %s: %s\n", f.File, f.Error)
		}
		fmt.Fprintln(out)
	}

	printKV(out, "Report", outPath)
}

func printKV(out io.Writer, label, value string) {
	fmt.Fprintf(out, "  %s%s\n", labelStyle.Render(label), valueStyle.Render(value))
}

func sortedTypes(types map[string]int) []string {
	out := make([]string, 0, len(types))
	for t := range types {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
