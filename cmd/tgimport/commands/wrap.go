package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/plancraft/tgimport/internal/terragrunt"
)

var (
	wrapDir  string
	wrapSafe bool
)

var wrapCmd = &cobra.Command{
	Use:   "wrap",
	Short: "Run terragrunt lifecycle commands across the module tree",
}

var wrapInitCmd = &cobra.Command{
	Use:   "init",
	Short: "terragrunt init --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wrapClient().Init(context.Background(), wrapDir)
	},
}

var wrapPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "terragrunt plan --all with a saved plan file",
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := wrapClient().Plan(context.Background(), wrapDir)
		if err != nil {
			return err
		}
		fmt.Printf("Plan: %d to add, %d to change, %d to destroy\n",
			summary.Add, summary.Change, summary.Destroy)
		return nil
	},
}

var wrapApplyCmd = &cobra.Command{
	Use:   "apply",
	Short: "terragrunt apply --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wrapClient().Apply(context.Background(), wrapDir, wrapSafe)
	},
}

var wrapDestroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "terragrunt destroy --all",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wrapClient().Destroy(context.Background(), wrapDir, wrapSafe)
	},
}

var wrapValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "terragrunt validate with a backend-less init",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wrapClient().Validate(context.Background(), wrapDir)
	},
}

var wrapFmtCheck bool

var wrapFmtCmd = &cobra.Command{
	Use:   "fmt",
	Short: "terragrunt fmt -recursive",
	RunE: func(cmd *cobra.Command, args []string) error {
		return wrapClient().Fmt(context.Background(), wrapDir, wrapFmtCheck)
	},
}

func wrapClient() *terragrunt.Client {
	return terragrunt.NewClient(slog.Default())
}

func init() {
	wrapCmd.PersistentFlags().StringVar(&wrapDir, "dir", ".", "Root of the terragrunt tree")
	wrapCmd.PersistentFlags().BoolVar(&wrapSafe, "safe", false, "Continue past per-module failures")
	wrapFmtCmd.Flags().BoolVar(&wrapFmtCheck, "check", false, "Report formatting drift without rewriting")
	wrapCmd.AddCommand(wrapInitCmd, wrapPlanCmd, wrapApplyCmd, wrapDestroyCmd, wrapValidateCmd, wrapFmtCmd)
	rootCmd.AddCommand(wrapCmd)
}
