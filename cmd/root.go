package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/scoreplot-cli/internal/config"
	"github.com/KaramelBytes/scoreplot-cli/internal/logging"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile   string
	debug     bool
	logFormat string

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "scoreplot",
	Short: "scoreplot: compare neuron-matching score files",
	Long: `scoreplot reads whitespace-delimited score files (query target score),
computes means, standard deviations and Pearson/Spearman correlations, and
renders histogram or scatter comparisons to image files.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.scoreplot/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text|json (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to built-in defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Defaults()
	}
	cfg = c

	if rootCmd.PersistentFlags().Changed("log-format") && logFormat != "" {
		cfg.LogFormat = logFormat
	}
	logging.Init(logging.Level(debug), cfg.LogFormat, os.Stderr)
}
