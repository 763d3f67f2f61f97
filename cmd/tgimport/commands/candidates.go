package commands

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/plancraft/tgimport/internal/plan"
	"github.com/plancraft/tgimport/internal/schema"
	"github.com/plancraft/tgimport/internal/scoring"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Show ranked import ID candidates per planned resource",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := plan.Load(opts.PlanPath)
		if err != nil {
			return err
		}

		store := schema.NewStore(slog.Default())
		if opts.SchemaPath != "" {
			if err := store.LoadFile(opts.SchemaPath); err != nil {
				return err
			}
		} else if len(p.ProviderSchemas) > 0 {
			if err := store.LoadEmbedded(p.ProviderSchemas); err != nil {
				return err
			}
		}

		addrStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#874BFD"))
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("#64748B"))

		for _, res := range p.Collect() {
			fmt.Println(addrStyle.Render(res.Address))
			attrs, err := store.ResourceAttributes(res.Type)
			if err != nil {
				fmt.Println(dim.Render("  no schema, value-based candidates only"))
				names := make([]string, 0, len(res.Values))
				for name := range res.Values {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					if v, ok := res.StringValue(name); ok {
						fmt.Printf("  %-24s %s\n", name, dim.Render(v))
					}
				}
				continue
			}
			for _, cand := range scoring.Rank(res.Type, attrs) {
				marker := " "
				if v, ok := res.StringValue(cand.Name); ok {
					marker = "*"
					fmt.Printf("  %s %-24s %5.1f  %s\n", marker, cand.Name, cand.Score, dim.Render(v))
					continue
				}
				fmt.Printf("  %s %-24s %5.1f\n", marker, cand.Name, cand.Score)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(candidatesCmd)
}
