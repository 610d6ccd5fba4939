package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tablechat/tablechat-cli/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgFile, []byte("log_level: debug\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := config.Load(cfgFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.LogLevel != "debug" {
		t.Fatalf("file value not applied: %s", c.LogLevel)
	}
	if c.SampleRows != 10 || c.SampleValues != 10 {
		t.Fatalf("sampling defaults wrong: %d/%d", c.SampleRows, c.SampleValues)
	}
	if c.RetentionHours != 24 {
		t.Fatalf("retention default wrong: %d", c.RetentionHours)
	}
	if c.RouteConfidence != 0.5 {
		t.Fatalf("route confidence default wrong: %v", c.RouteConfidence)
	}
	if c.OllamaModel != "llama3.1:8b" || c.OllamaHost == "" {
		t.Fatalf("ollama defaults wrong: %s @ %s", c.OllamaModel, c.OllamaHost)
	}
	if c.RetryMaxAttempts != 2 || c.RetryBaseDelayMs != 200 || c.RetryMaxDelayMs != 1000 {
		t.Fatalf("retry defaults wrong: %+v", c)
	}
	if c.ProfilesDir == "" {
		t.Fatal("profiles dir must default to a concrete path")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	in := &config.Global{
		SampleRows:       25,
		SampleValues:     15,
		RetentionHours:   48,
		ProfilesDir:      "/tmp/tablechat-profiles",
		RouteConfidence:  0.7,
		LogLevel:         "warn",
		OllamaHost:       "http://localhost:11434",
		OllamaModel:      "mistral:7b",
		OllamaTimeoutSec: 30,
		MaxTokens:        1024,
		Temperature:      0.5,
		RetryMaxAttempts: 3,
		RetryBaseDelayMs: 100,
		RetryMaxDelayMs:  2000,
	}
	if err := config.Save(in, cfgFile); err != nil {
		t.Fatalf("save: %v", err)
	}

	out, err := config.Load(cfgFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *out != *in {
		t.Fatalf("round trip mismatch:\n in: %+v\nout: %+v", in, out)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgFile, []byte("log_level: info\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TABLECHAT_LOG_LEVEL", "error")

	c, err := config.Load(cfgFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.LogLevel != "error" {
		t.Fatalf("env must override the file, got %s", c.LogLevel)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "missing.yaml")
	c, err := config.Load(cfgFile)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.LogLevel != "info" || c.SampleRows != 10 {
		t.Fatalf("defaults not applied: %+v", c)
	}
}
