package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/plancraft/tgimport/internal/app"
	"github.com/plancraft/tgimport/internal/telemetry"
	"github.com/plancraft/tgimport/internal/version"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Infer import IDs from the plan and run terragrunt import",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		shutdown, err := telemetry.Init(ctx, "tgimport", version.Current, opts.OTLPEndpoint)
		if err != nil {
			return fmt.Errorf("telemetry init: %w", err)
		}
		defer shutdown(ctx)

		stats, err := app.Run(ctx, opts, slog.Default())
		if err != nil {
			return err
		}
		if stats.HasFailures() {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print import commands without executing")
	runCmd.Flags().BoolVar(&opts.Pick, "pick", false, "Interactively choose which resources to import")
	runCmd.Flags().BoolVar(&opts.JSON, "json", false, "Machine-readable summary on stdout")
	runCmd.Flags().StringVar(&opts.Filter, "filter", "", `CEL resource filter, e.g. 'type.startsWith("google_")'`)
	runCmd.Flags().StringVar(&opts.Project, "project", "", "Project for import path composition")
	runCmd.Flags().StringVar(&opts.Location, "location", "", "Location for import path composition")
	runCmd.Flags().DurationVar(&opts.Timeout, "timeout", opts.Timeout, "Per-resource import timeout")
	runCmd.Flags().IntVar(&opts.Workers, "workers", opts.Workers, "Inference worker count")

	rootCmd.AddCommand(runCmd)
}
