// Package cli implements the athena command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/athenahq/athena/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "athena",
	Short: "Athena - misinformation detection and fact-checking service",
	Long: `Athena checks submitted content against a database of verified facts,
falling back to credibility-ranked web search when no match exists, and
watermarks text so its provenance can be checked later.

Athena flags content for human review; it does not render final verdicts
on what is true.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Athena.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("athena v0.1.0")
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./athena.yaml or $HOME/.athena/athena.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads configuration and installs the global logger.
func loadConfig() (*config.Config, func(), error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
		cfg.Log.Format = "console"
	}
	flush, err := config.InitLogger(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, flush, nil
}
