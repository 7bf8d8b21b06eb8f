package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codectx/codectx/internal/cache"
	"github.com/codectx/codectx/internal/config"
	"github.com/codectx/codectx/internal/gitinfo"
	"github.com/codectx/codectx/internal/manifest"
	"github.com/codectx/codectx/internal/record"
	"github.com/codectx/codectx/internal/report"
	"github.com/codectx/codectx/internal/scan"
	"github.com/codectx/codectx/internal/walker"
)

func newScanCmd() *cobra.Command {
	var (
		outputFile   string
		outputFormat string
		includeTests bool
		excludes     []string
		maxFileSize  int64
		workers      int
		useCache     bool
	)

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Analyze a repository and write the context report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			applyScanFlags(cmd, cfg, scanFlagValues{
				outputFile:   outputFile,
				outputFormat: outputFormat,
				includeTests: includeTests,
				excludes:     excludes,
				maxFileSize:  maxFileSize,
				workers:      workers,
				useCache:     useCache,
			})
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			root, err = filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("resolve root: %w", err)
			}

			rep, err := runScan(cmd, cfg, root)
			if err != nil {
				return err
			}

			outPath, format, err := outputTarget(cfg, root)
			if err != nil {
				return err
			}
			if err := report.WriteFile(outPath, rep, format); err != nil {
				return fmt.Errorf("write report: %w", err)
			}

			printSummary(cmd.OutOrStdout(), rep, outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file path")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "", "output format (json or jsonl)")
	cmd.Flags().BoolVar(&includeTests, "include-tests", false, "include test files in the scan")
	cmd.Flags().StringSliceVarP(&excludes, "exclude", "e", nil, "extra exclude patterns (gitignore style)")
	cmd.Flags().Int64Var(&maxFileSize, "max-file-size", 0, "per-file size limit in bytes")
	cmd.Flags().IntVar(&workers, "workers", 0, "analysis worker count (0 = one per CPU)")
	cmd.Flags().BoolVar(&useCache, "cache", false, "reuse cached records for unchanged files")
	return cmd
}

type scanFlagValues struct {
	outputFile   string
	outputFormat string
	includeTests bool
	excludes     []string
	maxFileSize  int64
	workers      int
	useCache     bool
}

// applyScanFlags overrides config values with explicitly set flags.
func applyScanFlags(cmd *cobra.Command, cfg *config.Config, v scanFlagValues) {
	if cmd.Flags().Changed("output") {
		cfg.Output.File = v.outputFile
	}
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = v.outputFormat
	}
	if cmd.Flags().Changed("include-tests") {
		cfg.Scan.IncludeTests = v.includeTests
	}
	if cmd.Flags().Changed("exclude") {
		cfg.Scan.Exclude = append(cfg.Scan.Exclude, v.excludes...)
	}
	if cmd.Flags().Changed("max-file-size") {
		cfg.Scan.MaxFileSize = v.maxFileSize
	}
	if cmd.Flags().Changed("workers") {
		cfg.Scan.Workers = v.workers
	}
	if cmd.Flags().Changed("cache") {
		cfg.Cache.Enabled = v.useCache
	}
}

// logger returns the verbose-gated diagnostic logger.
func logger(cmd *cobra.Command) func(format string, args ...any) {
	if !verbose {
		return func(string, ...any) {}
	}
	errOut := cmd.ErrOrStderr()
	return func(format string, args ...any) {
		fmt.Fprintf(errOut, format+"\n", args...)
	}
}

// runScan performs one full scan of root under cfg.
func runScan(cmd *cobra.Command, cfg *config.Config, root string) (*scan.Report, error) {
	logf := logger(cmd)
	registry := buildRegistry(logf)
	patterns := record.DefaultFilePatterns()

	files, err := walker.Collect(root, registry, walker.Options{
		MaxFileSize:  cfg.Scan.MaxFileSize,
		Exclude:      cfg.Scan.Exclude,
		IncludeTests: cfg.Scan.IncludeTests,
		Patterns:     patterns,
		Logger:       logf,
	})
	if err != nil {
		return nil, fmt.Errorf("collect files: %w", err)
	}
	logf("collected %d candidate files under %s", len(files), root)

	var store scan.Cache
	if cfg.Cache.Enabled {
		c, err := cache.Open(cfg.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("open cache: %w", err)
		}
		defer c.Close()
		store = c
	}

	runner := scan.NewRunner(scan.RunnerConfig{
		Builder: record.NewBuilder(registry, patterns),
		Workers: cfg.Scan.Workers,
		Cache:   store,
		Logger:  logf,
	})
	rep, err := runner.Run(cmd.Context(), root, files)
	if err != nil {
		return rep, fmt.Errorf("scan: %w", err)
	}

	projects, err := manifest.Discover(root)
	if err != nil {
		logf("manifest discovery failed: %v", err)
	} else {
		rep.Metadata.Projects = projects
	}

	if info, err := gitinfo.Describe(root); err == nil {
		rep.Metadata.Git = info
	} else {
		logf("git state unavailable: %v", err)
	}
	return rep, nil
}

// outputTarget resolves the report path and format from config.
func outputTarget(cfg *config.Config, root string) (string, report.Format, error) {
	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return "", "", err
	}

	path := cfg.Output.File
	if path == "" {
		path = filepath.Join(cfg.Output.Dir, report.DefaultFileName(root, format))
	}
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", "", fmt.Errorf("get working directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}
	return path, format, nil
}
