package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plancraft/tgimport/internal/fixtures"
)

var (
	fixturesDir  string
	fixturesSpec string
)

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "Generate a sample plan and module tree for local testing",
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := fixtures.Default()
		if fixturesSpec != "" {
			var err error
			spec, err = fixtures.LoadSpec(fixturesSpec)
			if err != nil {
				return err
			}
		}
		if err := fixtures.Generate(fixturesDir, spec); err != nil {
			return err
		}
		fmt.Printf("Generated fixtures under %s\n", fixturesDir)
		return nil
	},
}

func init() {
	fixturesCmd.Flags().StringVar(&fixturesDir, "dir", "testdata/fixtures", "Output directory")
	fixturesCmd.Flags().StringVar(&fixturesSpec, "spec", "", "YAML fixture spec (defaults to a built-in sample)")
	rootCmd.AddCommand(fixturesCmd)
}
