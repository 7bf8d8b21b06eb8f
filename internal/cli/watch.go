package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codectx/codectx/internal/config"
	"github.com/codectx/codectx/internal/report"
	"github.com/codectx/codectx/internal/watcher"
)

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [path]",
		Short: "Re-run the scan whenever files change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
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

			w, err := watcher.New(watcher.Config{
				Root:    root,
				Exclude: cfg.Scan.Exclude,
				Logger:  logger(cmd),
			})
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}
			defer w.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigCh)
			go func() {
				<-sigCh
				fmt.Fprintln(cmd.OutOrStdout(), "\nShutting down...")
				cancel()
			}()

			triggers, err := w.Start(ctx)
			if err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s...\n", root)

			// Initial scan before waiting for changes.
			if err := scanOnce(cmd, cfg, root); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "scan failed: %v\n", err)
			}

			for trig := range triggers {
				fmt.Fprintf(out, "\n%d change(s) detected, rescanning...\n", len(trig.Paths))
				if err := scanOnce(cmd, cfg, root); err != nil {
					if ctx.Err() != nil {
						break
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "scan failed: %v\n", err)
				}
			}
			return nil
		},
	}
	return cmd
}

// scanOnce runs a scan and writes the report, reporting progress on stdout.
func scanOnce(cmd *cobra.Command, cfg *config.Config, root string) error {
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
}
