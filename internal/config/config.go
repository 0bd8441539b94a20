// Package config loads settings from .env files, the environment and an optional YAML file
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned when API_KEY is empty
var ErrMissingAPIKey = errors.New("missing API_KEY")

// ErrInvalidConfig wraps validation failures
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	BaseURL      string `env:"API_BASE_URL" envDefault:"https://ki-chat.uni-mainz.de/api" yaml:"api_base_url" validate:"required,url"`
	APIKey       string `env:"API_KEY" yaml:"api_key"`
	TavilyAPIKey string `env:"TAVILY_API_KEY" yaml:"tavily_api_key"`
	SearxngURL   string `env:"SEARXNG_URL" yaml:"searxng_url" validate:"omitempty,url"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info" yaml:"log_level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Chat         Chat   `envPrefix:"CHAT_" yaml:"chat"`
	Ingest       Ingest `envPrefix:"INGEST_" yaml:"ingest"`
}

type Chat struct {
	// Model is preselected, the empty string asks on startup
	Model           string        `env:"MODEL" yaml:"model"`
	// SystemPrompt is sent with the current date before the history, empty sends none
	SystemPrompt    string        `env:"SYSTEM_PROMPT" yaml:"system_prompt"`
	ReasoningEffort string        `env:"REASONING_EFFORT" envDefault:"medium" yaml:"reasoning_effort" validate:"oneof=low medium high"`
	MaxMessages     int           `env:"MAX_MESSAGES" envDefault:"0" yaml:"max_messages" validate:"gte=0"`
	SearchResults   int           `env:"SEARCH_RESULTS" envDefault:"5" yaml:"search_results" validate:"gte=1,lte=20"`
	Timeout         time.Duration `env:"TIMEOUT" envDefault:"120s" yaml:"timeout"`
}

type Ingest struct {
	DBPath         string `env:"DB_PATH" envDefault:"./chroma_db" yaml:"db_path"`
	Collection     string `env:"COLLECTION" envDefault:"notenbuch_embeddings" yaml:"collection" validate:"required"`
	Engine         string `env:"ENGINE" envDefault:"chromem" yaml:"engine" validate:"oneof=chromem memory"`
	EmbeddingModel string `env:"EMBEDDING_MODEL" envDefault:"bge-m3" yaml:"embedding_model" validate:"required"`
	Encoding       string `env:"ENCODING" envDefault:"cl100k_base" yaml:"encoding" validate:"required"`
	MaxTokens      int    `env:"MAX_TOKENS" envDefault:"256" yaml:"max_tokens" validate:"gt=0"`
	Overlap        int    `env:"OVERLAP" envDefault:"64" yaml:"overlap" validate:"gte=0,ltfield=MaxTokens"`
	BatchSize      int    `env:"BATCH_SIZE" envDefault:"32" yaml:"batch_size" validate:"gt=0"`
	SearchResults  int    `env:"SEARCH_RESULTS" envDefault:"5" yaml:"search_results" validate:"gt=0"`
	Compress       bool   `env:"COMPRESS" envDefault:"false" yaml:"compress"`
}

// Load reads .env files, then the environment, then the YAML file at path if it is not empty.
// Later sources override earlier ones.
func Load(path string, dotenv ...string) (*Config, error) {
	if err := loadDotenv(dotenv...); err != nil {
		return nil, err
	}
	cfg := new(Config)
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if path != "" {
		if err := cfg.merge(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDotenv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

func (c *Config) merge(path string) error {
	bs, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(bs, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// RequireAPIKey returns ErrMissingAPIKey when no API key is configured
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	return nil
}
