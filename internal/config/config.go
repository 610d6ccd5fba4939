package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Profiling
	SampleRows      int     `mapstructure:"sample_rows" yaml:"sample_rows"`
	SampleValues    int     `mapstructure:"sample_values" yaml:"sample_values"`
	RetentionHours  int     `mapstructure:"retention_hours" yaml:"retention_hours"`
	ProfilesDir     string  `mapstructure:"profiles_dir" yaml:"profiles_dir"`
	RouteConfidence float64 `mapstructure:"route_confidence" yaml:"route_confidence"`

	// Logging
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// Fallback model runtime (Ollama)
	OllamaHost       string  `mapstructure:"ollama_host" yaml:"ollama_host"`
	OllamaModel      string  `mapstructure:"ollama_model" yaml:"ollama_model"`
	OllamaTimeoutSec int     `mapstructure:"ollama_timeout_sec" yaml:"ollama_timeout_sec"`
	MaxTokens        int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature      float64 `mapstructure:"temperature" yaml:"temperature"`

	// HTTP/Retry configuration
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// PII pattern overrides (optional YAML file)
	PatternsFile string `mapstructure:"patterns_file" yaml:"patterns_file"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.tablechat/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".tablechat")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("TABLECHAT")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sample_rows", 10)
	v.SetDefault("sample_values", 10)
	v.SetDefault("retention_hours", 24)
	v.SetDefault("route_confidence", 0.5)
	v.SetDefault("log_level", "info")
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("ollama_model", "llama3.1:8b")
	v.SetDefault("ollama_timeout_sec", 60)
	v.SetDefault("max_tokens", 2048)
	v.SetDefault("temperature", 0.2)
	v.SetDefault("retry_max_attempts", 2)
	v.SetDefault("retry_base_delay_ms", 200)
	v.SetDefault("retry_max_delay_ms", 1000)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".tablechat")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve profiles_dir default: ~/.tablechat/profiles
	if c.ProfilesDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.ProfilesDir = filepath.Join(home, ".tablechat", "profiles")
	}
	return &c, nil
}
