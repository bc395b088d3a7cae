// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default config file name.
const DefaultConfigFile = "draftdeck.yaml"

// Config holds static infrastructure configuration (read-only after init).
// Values come from the yaml file, then environment variables override.
type Config struct {
	Server    ServerConfig    `yaml:"server,omitempty"`
	LLM       LLMConfig       `yaml:"llm,omitempty"`
	Image     ImageConfig     `yaml:"image,omitempty"`
	Embedder  EmbedderConfig  `yaml:"embedder,omitempty"`
	Qdrant    QdrantConfig    `yaml:"qdrant,omitempty"`
	SQLite    SQLiteConfig    `yaml:"sqlite,omitempty"`
	Telegram  TelegramConfig  `yaml:"telegram,omitempty"`
	Scheduler SchedulerConfig `yaml:"scheduler,omitempty"`
}

// ServerConfig holds the dashboard HTTP server configuration.
type ServerConfig struct {
	Address string `yaml:"address,omitempty" env:"DRAFTDECK_ADDRESS"`
}

// LLMConfig holds configuration for the text generation provider.
type LLMConfig struct {
	Model  string `yaml:"model,omitempty" env:"DRAFTDECK_LLM_MODEL"`
	APIKey string `yaml:"api_key,omitempty" env:"OPENAI_API_KEY"`
}

// ImageConfig holds configuration for the image generation provider.
type ImageConfig struct {
	Model  string `yaml:"model,omitempty" env:"DRAFTDECK_IMAGE_MODEL"`
	Size   string `yaml:"size,omitempty" env:"DRAFTDECK_IMAGE_SIZE"`
	APIKey string `yaml:"api_key,omitempty" env:"OPENAI_API_KEY"`
}

// EmbedderConfig holds configuration for the embedding provider.
type EmbedderConfig struct {
	Model  string `yaml:"model,omitempty" env:"DRAFTDECK_EMBEDDER_MODEL"`
	APIKey string `yaml:"api_key,omitempty" env:"OPENAI_API_KEY"`
}

// QdrantConfig holds configuration for the Qdrant vector database.
type QdrantConfig struct {
	Host       string `yaml:"host,omitempty" env:"QDRANT_HOST"`
	Port       int    `yaml:"port,omitempty" env:"QDRANT_PORT"`
	Collection string `yaml:"collection,omitempty" env:"QDRANT_COLLECTION"`
	APIKey     string `yaml:"api_key,omitempty" env:"QDRANT_API_KEY"`
}

// SQLiteConfig holds configuration for the SQLite draft store.
type SQLiteConfig struct {
	Path string `yaml:"path,omitempty" env:"DRAFTDECK_DB_PATH"`
}

// TelegramConfig holds configuration for the review chat notifier.
// Empty BotToken disables notifications.
type TelegramConfig struct {
	BotToken string `yaml:"bot_token,omitempty" env:"TELEGRAM_BOT_TOKEN"`
	ChatID   string `yaml:"chat_id,omitempty" env:"TELEGRAM_CHAT_ID"`
}

// SchedulerConfig holds configuration for the publish scheduler.
type SchedulerConfig struct {
	// IntervalSeconds is how often due drafts are checked for. 0 uses
	// the service default.
	IntervalSeconds int `yaml:"interval_seconds,omitempty" env:"DRAFTDECK_SCHEDULER_INTERVAL"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		LLM: LLMConfig{
			Model: "gpt-4o-mini",
		},
		Image: ImageConfig{
			Model: "dall-e-3",
			Size:  "1024x1024",
		},
		Embedder: EmbedderConfig{
			Model: "text-embedding-3-small",
		},
		Qdrant: QdrantConfig{
			Host:       "localhost",
			Port:       6334,
			Collection: "draftdeck_drafts",
		},
		SQLite: SQLiteConfig{
			Path: "draftdeck.db",
		},
	}
}

// Load reads the config file at path (missing file falls back to defaults),
// loads a .env file from the working directory if present, and applies
// environment variable overrides.
func Load(path string) (*Config, error) {
	// Best-effort: a missing .env file is fine.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults plus environment are enough to run.
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, fmt.Errorf("applying env overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides fills struct fields from environment variables.
// Set variables win over file values.
func (c *Config) applyEnvOverrides() error {
	for _, target := range []interface{}{
		&c.Server, &c.LLM, &c.Image, &c.Embedder,
		&c.Qdrant, &c.SQLite, &c.Telegram, &c.Scheduler,
	} {
		if err := env.Parse(target); err != nil {
			return err
		}
	}
	return nil
}
