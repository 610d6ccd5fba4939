package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/tablechat/tablechat-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set TableChat configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("sample_rows: %d\n", cfg.SampleRows)
		fmt.Printf("sample_values: %d\n", cfg.SampleValues)
		fmt.Printf("retention_hours: %d\n", cfg.RetentionHours)
		fmt.Printf("profiles_dir: %s\n", cfg.ProfilesDir)
		fmt.Printf("route_confidence: %.2f\n", cfg.RouteConfidence)
		fmt.Printf("log_level: %s\n", cfg.LogLevel)
		fmt.Printf("ollama_host: %s\n", cfg.OllamaHost)
		fmt.Printf("ollama_model: %s\n", cfg.OllamaModel)
		fmt.Printf("ollama_timeout_sec: %d\n", cfg.OllamaTimeoutSec)
		fmt.Printf("max_tokens: %d\n", cfg.MaxTokens)
		fmt.Printf("temperature: %.3f\n", cfg.Temperature)
		if cfg.PatternsFile != "" {
			fmt.Printf("patterns_file: %s\n", cfg.PatternsFile)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "sample_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for sample_rows: %v", val)
			}
			cfg.SampleRows = i
		case "sample_values":
			i, err := strconv.Atoi(val)
			if err != nil || i < 0 {
				return fmt.Errorf("invalid int for sample_values: %v", val)
			}
			cfg.SampleValues = i
		case "retention_hours":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for retention_hours: %v", val)
			}
			cfg.RetentionHours = i
		case "profiles_dir":
			cfg.ProfilesDir = val
		case "route_confidence":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 || f > 1 {
				return fmt.Errorf("invalid float for route_confidence: %v (use 0..1)", val)
			}
			cfg.RouteConfidence = f
		case "log_level":
			switch val {
			case "debug", "info", "warn", "error":
				cfg.LogLevel = val
			default:
				return fmt.Errorf("invalid log_level: %s (use debug|info|warn|error)", val)
			}
		case "ollama_host":
			cfg.OllamaHost = val
		case "ollama_model":
			cfg.OllamaModel = val
		case "ollama_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for ollama_timeout_sec: %v", val)
			}
			cfg.OllamaTimeoutSec = i
		case "max_tokens":
			i, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("invalid int for max_tokens: %w", err)
			}
			cfg.MaxTokens = i
		case "temperature":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil {
				return fmt.Errorf("invalid float for temperature: %w", err)
			}
			cfg.Temperature = f
		case "patterns_file":
			cfg.PatternsFile = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
