package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"backupphotos/internal/extract"
)

func newCleanupCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Re-run the live photo wrapper cleanup over the message attachment output",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			result, err := extract.Cleanup(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			if jsonOutput {
				errs := make([]string, 0, len(result.Errors))
				for _, e := range result.Errors {
					errs = append(errs, fmt.Sprintf("%s: %v", e.Path, e.Error))
				}
				return writeJSON(cmd, map[string]any{
					"removed_files": result.RemovedFiles,
					"removed_dirs":  result.RemovedDirs,
					"errors":        errs,
				})
			}

			out := cmd.OutOrStdout()
			if !result.Changed() && len(result.Errors) == 0 {
				fmt.Fprintln(out, "Nothing to clean up")
				return nil
			}
			fmt.Fprintf(out, "Removed %d files and %d directories\n",
				len(result.RemovedFiles), len(result.RemovedDirs))
			for _, e := range result.Errors {
				fmt.Fprintf(out, "  error: %s: %v\n", e.Path, e.Error)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the cleanup result as JSON")
	return cmd
}
