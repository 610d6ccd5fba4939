package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/tablechat/tablechat-cli/internal/config"
	"github.com/tablechat/tablechat-cli/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration and process logger
	cfg    *cfgpkg.Global
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tablechat",
	Short: "TableChat CLI: profile tabular files and answer questions about them",
	Long:  `TableChat is a CLI tool that profiles CSV/TSV files (types, statistics, quality, sensitive data) and answers natural-language questions about them, using a local model only when the rule-based path cannot.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.tablechat/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = &cfgpkg.Global{}
	}
	cfg = c

	logger, err = logging.New(cfg.LogLevel, debug)
	if err != nil {
		logger = logging.Nop()
	}
}
