package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/spampipe/spampipe/pkg/learning"
)

// Package-level validator instance for configuration validation
var validate = validator.New()

// Config represents spampipe configuration
type Config struct {
	// Pipeline construction settings
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Featurization and trainer settings
	Learning LearningConfig `yaml:"learning"`

	// Trained model persistence settings
	Model ModelConfig `yaml:"model"`

	// Threshold sweep settings
	Sweep SweepConfig `yaml:"sweep"`

	// Milter server settings
	Milter MilterConfig `yaml:"milter"`
}

// PipelineConfig contains pipeline construction parameters
type PipelineConfig struct {
	// Seed for deterministic training; same seed, same model
	Seed int64 `yaml:"seed"`
}

// LearningConfig contains featurization and trainer parameters
type LearningConfig struct {
	// Word processing
	MinWordLength int  `yaml:"min_word_length" validate:"gte=1"`
	MaxWordLength int  `yaml:"max_word_length" validate:"gtefield=MinWordLength"`
	CaseSensitive bool `yaml:"case_sensitive"`

	// Vocabulary
	MinWordCount      int `yaml:"min_word_count" validate:"gte=1"`
	MaxVocabularySize int `yaml:"max_vocabulary_size" validate:"gte=0"`

	// Trainer
	LearningRate float64 `yaml:"learning_rate" validate:"gt=0"`
	Epochs       int     `yaml:"epochs" validate:"gte=1"`
	BatchSize    int     `yaml:"batch_size" validate:"gte=0"`

	// Decision threshold on the predicted probability
	Threshold float64 `yaml:"threshold" validate:"gte=0,lte=1"`

	// Label tokens in the corpus
	SpamLabel string `yaml:"spam_label" validate:"required"`
	HamLabel  string `yaml:"ham_label" validate:"required,nefield=SpamLabel"`
}

// ModelConfig contains trained model persistence settings
type ModelConfig struct {
	// Backend selection: "file" or "redis"
	Backend string `yaml:"backend" validate:"oneof=file redis"`

	// File backend: snapshot path
	Path string `yaml:"path"`

	// Redis backend settings
	Redis RedisConfig `yaml:"redis"`
}

// RedisConfig contains Redis model store settings
type RedisConfig struct {
	RedisURL    string `yaml:"redis_url"`
	Key         string `yaml:"key"`
	DatabaseNum int    `yaml:"database_num" validate:"gte=0"`

	// Snapshot expiration, duration string like "720h"; empty = no expiry
	TTL string `yaml:"ttl"`
}

// SweepConfig contains threshold sweep defaults
type SweepConfig struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to" validate:"gtefield=From"`
	Step float64 `yaml:"step" validate:"gt=0"`
}

// MilterConfig contains milter server settings
type MilterConfig struct {
	// Network and address for the milter socket
	Network string `yaml:"network" validate:"oneof=tcp unix"`
	Address string `yaml:"address" validate:"required"`

	// Connection settings
	ReadTimeoutMs  int `yaml:"read_timeout_ms" validate:"gte=0"`
	WriteTimeoutMs int `yaml:"write_timeout_ms" validate:"gte=0"`

	// Header modifications
	AddHeaders   bool   `yaml:"add_headers"`
	HeaderPrefix string `yaml:"header_prefix"`

	// Probability >= reject threshold gets a 550 rejection
	RejectThreshold float64 `yaml:"reject_threshold" validate:"gte=0,lte=1"`
	RejectMessage   string  `yaml:"reject_message"`

	GracefulShutdownTimeoutMs int `yaml:"graceful_shutdown_timeout_ms" validate:"gte=0"`
}

// DefaultConfig returns spampipe default configuration
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			Seed: 1,
		},
		Learning: LearningConfig{
			MinWordLength:     3,
			MaxWordLength:     20,
			CaseSensitive:     false,
			MinWordCount:      1,
			MaxVocabularySize: 10000,
			LearningRate:      0.1,
			Epochs:            50,
			BatchSize:         32,
			Threshold:         0.5,
			SpamLabel:         "spam",
			HamLabel:          "ham",
		},
		Model: ModelConfig{
			Backend: "file",
			Path:    "spampipe-model.json",
			Redis: RedisConfig{
				RedisURL:    "redis://localhost:6379",
				Key:         "spampipe:model",
				DatabaseNum: 0,
				TTL:         "",
			},
		},
		Sweep: SweepConfig{
			From: -0.05,
			To:   0.95,
			Step: 0.05,
		},
		Milter: MilterConfig{
			Network:                   "tcp",
			Address:                   "127.0.0.1:7357",
			ReadTimeoutMs:             10000,
			WriteTimeoutMs:            10000,
			AddHeaders:                true,
			HeaderPrefix:              "X-Spampipe-",
			RejectThreshold:           0.99,
			RejectMessage:             "",
			GracefulShutdownTimeoutMs: 10000,
		},
	}
}

// LoadConfig loads configuration from file, merged over defaults. An
// empty path returns the defaults.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %v", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}

	return config, nil
}

// SaveConfig writes the configuration to a YAML file
func (c *Config) SaveConfig(configPath string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	return nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if c.Model.Backend == "file" && c.Model.Path == "" {
		return fmt.Errorf("model backend is %q but no model path is set", c.Model.Backend)
	}
	if c.Model.Backend == "redis" && c.Model.Redis.RedisURL == "" {
		return fmt.Errorf("model backend is %q but no redis_url is set", c.Model.Backend)
	}

	return nil
}

// ToLearning converts the learning section to the step configuration
func (c *Config) ToLearning() *learning.Config {
	return &learning.Config{
		MinWordLength:     c.Learning.MinWordLength,
		MaxWordLength:     c.Learning.MaxWordLength,
		CaseSensitive:     c.Learning.CaseSensitive,
		MinWordCount:      c.Learning.MinWordCount,
		MaxVocabularySize: c.Learning.MaxVocabularySize,
		LearningRate:      c.Learning.LearningRate,
		Epochs:            c.Learning.Epochs,
		BatchSize:         c.Learning.BatchSize,
		Threshold:         c.Learning.Threshold,
		SpamLabel:         c.Learning.SpamLabel,
		HamLabel:          c.Learning.HamLabel,
	}
}
