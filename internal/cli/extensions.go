package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/codectx/codectx/internal/analyzer"
)

func newExtensionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extensions",
		Short: "List supported file extensions",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := buildRegistry(logger(cmd))
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, headerStyle.Render("Supported Extensions"))
			for _, lang := range registry.Languages() {
				exts := analyzer.FileExtensions[lang]
				fmt.Fprintf(out, "  %s%s\n",
					labelStyle.Render(string(lang)),
					valueStyle.Render(joinExts(exts)))
			}
			return nil
		},
	}
}

func joinExts(exts []string) string {
	s := ""
	for i, e := range exts {
		if i > 0 {
			s += ", "
		}
		s += e
	}
	return s
}
