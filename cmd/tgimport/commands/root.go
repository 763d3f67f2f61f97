// Package commands defines the tgimport command tree.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/plancraft/tgimport/internal/config"
	"github.com/plancraft/tgimport/internal/version"
)

var (
	cfgFile string
	opts    = config.Defaults()
)

var rootCmd = &cobra.Command{
	Use:   "tgimport",
	Short: "Plan-driven Terragrunt resource importer",
	Long: `tgimport - Import existing resources from a Terraform plan

Infer. Map. Import.`,
	Version: version.Current,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent Flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.tgimport.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.PlanPath, "plan", opts.PlanPath, "Plan JSON file (terraform show -json)")
	rootCmd.PersistentFlags().StringVar(&opts.ModulesPath, "modules", opts.ModulesPath, "Modules manifest (modules.json)")
	rootCmd.PersistentFlags().StringVar(&opts.ModuleRoot, "module-root", opts.ModuleRoot, "Root directory of the terragrunt tree")
	rootCmd.PersistentFlags().StringVar(&opts.SchemaPath, "schema", "", "Provider schema JSON file")
	rootCmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().StringVar(&opts.OTLPEndpoint, "otlp-endpoint", "", "OTLP trace endpoint")
	rootCmd.PersistentFlags().MarkHidden("otlp-endpoint")

	// Accept underscore spellings for every flag.
	rootCmd.PersistentFlags().SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, ".tgimport.yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix("TGIMPORT")
	viper.AutomaticEnv()
	viper.BindPFlags(rootCmd.PersistentFlags())
	viper.ReadInConfig()

	applyConfig(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		applyConfig(c.Flags())
	}

	setupLogging()
}

// applyConfig copies config-file and environment values into the flag
// destinations. Flags set on the command line win.
func applyConfig(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || !viper.IsSet(f.Name) {
			return
		}
		if err := f.Value.Set(viper.GetString(f.Name)); err != nil {
			slog.Warn("ignoring config value", "key", f.Name, "error", err)
		}
	})
}

func setupLogging() {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func renderHelp(cmd *cobra.Command) {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	fmt.Println(titleStyle.Render(fmt.Sprintf("TGIMPORT %s", version.Current)))
	fmt.Println("Import existing resources from a Terraform plan.")

	fmt.Println(titleStyle.Render("USAGE"))
	fmt.Printf("  %s\n\n", cmd.UseLine())

	fmt.Println(titleStyle.Render("COMMANDS"))
	for _, c := range cmd.Commands() {
		if c.IsAvailableCommand() {
			fmt.Printf("  %-12s %s\n", c.Name(), c.Short)
		}
	}

	fmt.Println(titleStyle.Render("FLAGS"))
	fmt.Println(cmd.Flags().FlagUsages())
}
