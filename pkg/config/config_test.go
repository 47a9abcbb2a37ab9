package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default configuration is invalid: %v", err)
	}
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Learning.SpamLabel != "spam" || cfg.Model.Backend != "file" {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "spampipe.yaml")

	cfg := DefaultConfig()
	cfg.Pipeline.Seed = 99
	cfg.Learning.Epochs = 7
	cfg.Model.Path = "custom-model.json"

	if err := cfg.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Pipeline.Seed != 99 {
		t.Errorf("Seed = %d, expected 99", loaded.Pipeline.Seed)
	}
	if loaded.Learning.Epochs != 7 {
		t.Errorf("Epochs = %d, expected 7", loaded.Learning.Epochs)
	}
	if loaded.Model.Path != "custom-model.json" {
		t.Errorf("Model path = %q", loaded.Model.Path)
	}
}

func TestLoadConfigPartialOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	content := "learning:\n  epochs: 5\n  learning_rate: 0.1\n  min_word_length: 3\n  max_word_length: 20\n  min_word_count: 1\n  threshold: 0.5\n  spam_label: spam\n  ham_label: ham\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Learning.Epochs != 5 {
		t.Errorf("Epochs = %d, expected 5", cfg.Learning.Epochs)
	}
	// Untouched sections keep their defaults
	if cfg.Model.Backend != "file" {
		t.Errorf("Model backend = %q, expected file", cfg.Model.Backend)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero epochs", func(c *Config) { c.Learning.Epochs = 0 }},
		{"negative learning rate", func(c *Config) { c.Learning.LearningRate = -0.1 }},
		{"threshold above one", func(c *Config) { c.Learning.Threshold = 1.5 }},
		{"same labels", func(c *Config) { c.Learning.HamLabel = "spam" }},
		{"word length inverted", func(c *Config) { c.Learning.MaxWordLength = 1 }},
		{"unknown backend", func(c *Config) { c.Model.Backend = "s3" }},
		{"file backend without path", func(c *Config) { c.Model.Path = "" }},
		{"zero sweep step", func(c *Config) { c.Sweep.Step = 0 }},
		{"bad milter network", func(c *Config) { c.Milter.Network = "udp" }},
	}

	for _, tc := range testCases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestToLearning(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Learning.Epochs = 11
	cfg.Learning.SpamLabel = "junk"

	lc := cfg.ToLearning()
	if lc.Epochs != 11 || lc.SpamLabel != "junk" {
		t.Errorf("Unexpected learning config: %+v", lc)
	}
}
