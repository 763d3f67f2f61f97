package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/plancraft/tgimport/internal/terragrunt"
)

var schemaDir string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate the provider schema file via terragrunt",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := terragrunt.NewClient(slog.Default())
		if !client.IsInstalled() {
			return fmt.Errorf("terragrunt binary not found in PATH")
		}
		path, err := client.WriteProviderSchema(context.Background(), schemaDir)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote provider schema to %s\n", path)
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVar(&schemaDir, "dir", ".", "Directory with terragrunt configuration")
	rootCmd.AddCommand(schemaCmd)
}
