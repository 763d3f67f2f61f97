package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plancraft/tgimport/internal/terragrunt"
)

var cleanDir string

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove terragrunt caches and generated artifacts",
	RunE: func(cmd *cobra.Command, args []string) error {
		removed, err := terragrunt.Clean(cleanDir)
		if err != nil {
			return err
		}
		for _, path := range removed {
			fmt.Printf("removed %s\n", path)
		}
		fmt.Printf("Cleaned %d artifacts\n", len(removed))
		return nil
	},
}

func init() {
	cleanCmd.Flags().StringVar(&cleanDir, "dir", ".", "Directory tree to clean")
	rootCmd.AddCommand(cleanCmd)
}
