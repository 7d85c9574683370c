package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"backupphotos/internal/extract"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var yes bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Classify the manifest and relocate photos into the output tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			opts := extract.Options{
				Logger:   logger,
				Progress: progressFor(cmd.ErrOrStderr(), jsonOutput),
			}
			if cfg.Prompts.Confirm && !yes {
				opts.Confirm = newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
			}

			summary, err := extract.Run(cmd.Context(), cfg, opts)
			if errors.Is(err, extract.ErrDeclined) {
				fmt.Fprintln(cmd.OutOrStdout(), "Run declined; no further changes were made.")
				return nil
			}
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, summary)
			}
			writeSummary(cmd.OutOrStdout(), summary, isTerminal(cmd.OutOrStdout()))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation prompts")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the run summary as JSON")
	return cmd
}

func newPlanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var details bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show where every photo would go without moving anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			summary, err := extract.Run(cmd.Context(), cfg, extract.Options{Logger: logger, DryRun: true})
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, summary)
			}
			out := cmd.OutOrStdout()
			writeSummary(out, summary, isTerminal(out))
			if details && len(summary.Report.Relocated) > 0 {
				fmt.Fprintln(out, outcomeTable(summary.Report.Relocated))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the plan as JSON")
	cmd.Flags().BoolVar(&details, "details", false, "List the planned target of every entry")
	return cmd
}
