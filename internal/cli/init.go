package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codectx/codectx/internal/config"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a .codectx.yaml config file",
		Long: `Write a .codectx.yaml file with the default configuration to the
current directory. Edit it to tune scan limits, excludes, output format,
and the record cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			path := filepath.Join(cwd, config.DefaultConfigFile+"."+config.DefaultConfigType)

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := &config.Config{
				Scan: config.ScanConfig{
					MaxFileSize: config.DefaultMaxFileSize,
					Exclude:     []string{},
				},
				Output: config.OutputConfig{
					Format: "json",
					Dir:    "output",
				},
				Cache: config.CacheConfig{
					Enabled: false,
					Dir:     ".codectx-cache",
				},
			}
			if err := config.WriteConfig(cfg, path); err != nil {
				return fmt.Errorf("write config file: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created %s\n", path)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  1. Edit .codectx.yaml to tune excludes and output")
			fmt.Fprintln(out, "  2. Run 'codectx scan' to analyze the repository")
			fmt.Fprintln(out, "  3. Add to .gitignore:")
			fmt.Fprintln(out, "       output/")
			fmt.Fprintln(out, "       .codectx-cache/")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
