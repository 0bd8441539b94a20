package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var keys = []string{
	"API_BASE_URL", "API_KEY", "TAVILY_API_KEY", "SEARXNG_URL", "LOG_LEVEL",
	"CHAT_MODEL", "CHAT_SYSTEM_PROMPT", "CHAT_REASONING_EFFORT", "CHAT_MAX_MESSAGES", "CHAT_SEARCH_RESULTS", "CHAT_TIMEOUT",
	"INGEST_DB_PATH", "INGEST_COLLECTION", "INGEST_ENGINE", "INGEST_EMBEDDING_MODEL", "INGEST_ENCODING",
	"INGEST_MAX_TOKENS", "INGEST_OVERLAP", "INGEST_BATCH_SIZE", "INGEST_SEARCH_RESULTS", "INGEST_COMPRESS",
}

// clearEnv unsets every key for the duration of the test
func clearEnv(t *testing.T) {
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func missingDotenv(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("", missingDotenv(t))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.BaseURL != "https://ki-chat.uni-mainz.de/api" {
		t.Errorf("Expect default base url, but got %s", cfg.BaseURL)
	}
	if cfg.Chat.ReasoningEffort != "medium" {
		t.Errorf("Expect medium, but got %s", cfg.Chat.ReasoningEffort)
	}
	if cfg.Chat.Timeout != 120*time.Second {
		t.Errorf("Expect 120s, but got %s", cfg.Chat.Timeout)
	}
	if cfg.Ingest.MaxTokens != 256 || cfg.Ingest.Overlap != 64 {
		t.Errorf("Expect 256/64, but got %d/%d", cfg.Ingest.MaxTokens, cfg.Ingest.Overlap)
	}
	if cfg.Ingest.Collection != "notenbuch_embeddings" || cfg.Ingest.Engine != "chromem" {
		t.Errorf("unexpected ingest defaults %+v", cfg.Ingest)
	}
	if !errors.Is(cfg.RequireAPIKey(), ErrMissingAPIKey) {
		t.Errorf("Expect ErrMissingAPIKey, but got %v", cfg.RequireAPIKey())
	}
}

func TestPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	dotenv := filepath.Join(dir, "test.env")
	if err := os.WriteFile(dotenv, []byte("API_KEY=from-dotenv\nCHAT_MODEL=Mistral Small\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	yamlPath := filepath.Join(dir, "kichat.yaml")
	yamlContent := "chat:\n  model: GPT OSS 120B\n  timeout: 30s\ningest:\n  engine: memory\n"
	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CHAT_SEARCH_RESULTS", "8")
	t.Setenv("INGEST_ENGINE", "chromem")

	cfg, err := Load(yamlPath, dotenv)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIKey != "from-dotenv" {
		t.Errorf("Expect api key from dotenv, but got %q", cfg.APIKey)
	}
	if cfg.Chat.Model != "GPT OSS 120B" {
		t.Errorf("Expect the file to override the environment, but got %s", cfg.Chat.Model)
	}
	if cfg.Chat.SearchResults != 8 {
		t.Errorf("Expect 8 search results from env, but got %d", cfg.Chat.SearchResults)
	}
	if cfg.Chat.Timeout != 30*time.Second {
		t.Errorf("Expect 30s, but got %s", cfg.Chat.Timeout)
	}
	if cfg.Ingest.Engine != "memory" {
		t.Errorf("Expect memory engine from file, but got %s", cfg.Ingest.Engine)
	}
	if err := cfg.RequireAPIKey(); err != nil {
		t.Error(err)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"reasoning", "CHAT_REASONING_EFFORT", "extreme"},
		{"engine", "INGEST_ENGINE", "milvus"},
		{"overlap", "INGEST_OVERLAP", "256"},
		{"searxng", "SEARXNG_URL", "not a url"},
		{"log level", "LOG_LEVEL", "loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load("", missingDotenv(t))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Expect ErrInvalidConfig, but got %v", err)
			}
		})
	}
}

func TestMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "none.yaml"), missingDotenv(t)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expect os.ErrNotExist, but got %v", err)
	}
}
