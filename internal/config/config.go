package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all configuration for the insight server
type Config struct {
	Model     ModelConfig     `json:"model"`
	Embedding EmbeddingConfig `json:"embedding"`
	Database  DatabaseConfig  `json:"database"`
	Warehouse WarehouseConfig `json:"warehouse"`
	Agent     AgentConfig     `json:"agent"`
	Server    ServerConfig    `json:"server"`
}

// ModelConfig holds reasoning model API configuration (any
// OpenAI-compatible endpoint: vLLM, LiteLLM, OpenRouter, ...)
type ModelConfig struct {
	URL         string  `json:"url"`
	APIKey      string  `json:"api_key"`
	Model       string  `json:"model"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

// EmbeddingConfig holds embedding API configuration for knowledge search
type EmbeddingConfig struct {
	URL        string `json:"url"`
	APIKey     string `json:"api_key"`
	Model      string `json:"model"`      // e.g., "text-embedding-3-small"
	Dimensions int    `json:"dimensions"` // e.g., 1536 for text-embedding-3-small
}

// DatabaseConfig holds application database configuration (sessions,
// messages, memory, knowledge base)
type DatabaseConfig struct {
	PostgresURL string `json:"postgres_url"`
}

// WarehouseConfig holds the analytics warehouse connection. It may point
// at the same PostgreSQL cluster as the application database or at a
// dedicated read replica.
type WarehouseConfig struct {
	PostgresURL  string `json:"postgres_url"`
	MaxRows      int    `json:"max_rows"`        // row cap applied to every query
	QueryTimeout int    `json:"query_timeout"`   // in seconds
	DatasetLabel string `json:"dataset_label"`   // human-readable name shown to the model
}

// AgentConfig holds the reasoning-loop tunables
type AgentConfig struct {
	MaxIterations  int     `json:"max_iterations"`  // reasoning-model calls per turn
	HistoryWindow  int     `json:"history_window"`  // persisted messages seeded per turn
	SearchTopK     int     `json:"search_top_k"`    // cap on knowledge search results
	MinRelevance   float64 `json:"min_relevance"`   // cosine similarity threshold
	MaxSuggestions int     `json:"max_suggestions"` // follow-up suggestions per turn
}

// ServerConfig holds API server configuration
type ServerConfig struct {
	Host        string   `json:"host"`
	Port        int      `json:"port"`
	APIKey      string   `json:"api_key"`      // bearer token for the HTTP API; empty disables auth
	CORSOrigins []string `json:"cors_origins"` // Allowed CORS origins
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			URL:         "http://localhost:8000/v1",
			APIKey:      "",
			Model:       "Qwen/Qwen3-8B-AWQ",
			MaxTokens:   4096,
			Temperature: 0.2,
		},
		Embedding: EmbeddingConfig{
			URL:        "http://localhost:11434/v1",
			APIKey:     "",
			Model:      "text-embedding-3-small",
			Dimensions: 1536,
		},
		Database: DatabaseConfig{
			PostgresURL: "postgres://localhost:5432/insight",
		},
		Warehouse: WarehouseConfig{
			PostgresURL:  "", // falls back to the application database
			MaxRows:      1000,
			QueryTimeout: 30,
			DatasetLabel: "commerce analytics warehouse",
		},
		Agent: AgentConfig{
			MaxIterations:  10,
			HistoryWindow:  20,
			SearchTopK:     5,
			MinRelevance:   0.7,
			MaxSuggestions: 3,
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			APIKey:      "",
			CORSOrigins: []string{"http://localhost:3000"}, // Default development origin
		},
	}
}

// envString loads a string environment variable into the target pointer if set
func envString(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

// envInt loads an integer environment variable into the target pointer if set and valid
func envInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			*target = i
		}
	}
}

// envFloat loads a float64 environment variable into the target pointer if set and valid
func envFloat(key string, target *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*target = f
		}
	}
}

// envStringSlice loads a comma-separated environment variable into a string slice
func envStringSlice(key string, target *[]string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			*target = result
		}
	}
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if data, err := os.ReadFile(configPath); err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse config file %s: %v\n", configPath, err)
		}
	}

	// Reasoning model
	envString("INSIGHT_MODEL_URL", &cfg.Model.URL)
	envString("INSIGHT_MODEL_API_KEY", &cfg.Model.APIKey)
	envString("INSIGHT_MODEL_NAME", &cfg.Model.Model)
	envInt("INSIGHT_MODEL_MAX_TOKENS", &cfg.Model.MaxTokens)
	envFloat("INSIGHT_MODEL_TEMPERATURE", &cfg.Model.Temperature)

	// Embedding
	envString("INSIGHT_EMBEDDING_URL", &cfg.Embedding.URL)
	envString("INSIGHT_EMBEDDING_API_KEY", &cfg.Embedding.APIKey)
	envString("INSIGHT_EMBEDDING_MODEL", &cfg.Embedding.Model)
	envInt("INSIGHT_EMBEDDING_DIMENSIONS", &cfg.Embedding.Dimensions)

	// Databases
	envString("INSIGHT_POSTGRES_URL", &cfg.Database.PostgresURL)
	envString("INSIGHT_WAREHOUSE_URL", &cfg.Warehouse.PostgresURL)
	envInt("INSIGHT_WAREHOUSE_MAX_ROWS", &cfg.Warehouse.MaxRows)
	envInt("INSIGHT_WAREHOUSE_QUERY_TIMEOUT", &cfg.Warehouse.QueryTimeout)
	envString("INSIGHT_WAREHOUSE_DATASET_LABEL", &cfg.Warehouse.DatasetLabel)

	// Agent
	envInt("INSIGHT_AGENT_MAX_ITERATIONS", &cfg.Agent.MaxIterations)
	envInt("INSIGHT_AGENT_HISTORY_WINDOW", &cfg.Agent.HistoryWindow)
	envInt("INSIGHT_AGENT_SEARCH_TOP_K", &cfg.Agent.SearchTopK)
	envFloat("INSIGHT_AGENT_MIN_RELEVANCE", &cfg.Agent.MinRelevance)
	envInt("INSIGHT_AGENT_MAX_SUGGESTIONS", &cfg.Agent.MaxSuggestions)

	// Server
	envString("INSIGHT_SERVER_HOST", &cfg.Server.Host)
	envInt("INSIGHT_SERVER_PORT", &cfg.Server.Port)
	envString("INSIGHT_SERVER_API_KEY", &cfg.Server.APIKey)
	envStringSlice("INSIGHT_CORS_ORIGINS", &cfg.Server.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// WarehouseURL returns the warehouse connection string, falling back to
// the application database when no dedicated warehouse is configured.
func (c *Config) WarehouseURL() string {
	if c.Warehouse.PostgresURL != "" {
		return c.Warehouse.PostgresURL
	}
	return c.Database.PostgresURL
}

// IsEmbeddingConfigured returns true if the embedding service is configured
func (c *Config) IsEmbeddingConfigured() bool {
	return c.Embedding.URL != ""
}

// isValidURL validates that a URL has proper format
func isValidURL(urlStr string) bool {
	u, err := url.Parse(urlStr)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Validate checks that the configuration has valid values
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server port must be between 1 and 65535")
	}

	// Model validation
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		errs = append(errs, "model temperature must be between 0 and 2")
	}
	if c.Model.MaxTokens < 1 {
		errs = append(errs, "model max_tokens must be positive")
	}
	if c.Model.URL == "" {
		errs = append(errs, "model URL is required")
	} else if !isValidURL(c.Model.URL) {
		errs = append(errs, "model URL must be a valid URL")
	}

	// Database validation
	if c.Database.PostgresURL == "" {
		errs = append(errs, "PostgreSQL URL is required")
	} else if !isValidURL(c.Database.PostgresURL) {
		errs = append(errs, "PostgreSQL URL must be a valid URL")
	}
	if c.Warehouse.PostgresURL != "" && !isValidURL(c.Warehouse.PostgresURL) {
		errs = append(errs, "warehouse URL must be a valid URL")
	}
	if c.Warehouse.MaxRows < 1 {
		errs = append(errs, "warehouse max_rows must be positive")
	}
	if c.Warehouse.QueryTimeout < 1 {
		errs = append(errs, "warehouse query_timeout must be positive")
	}

	// Agent validation
	if c.Agent.MaxIterations < 1 {
		errs = append(errs, "agent max_iterations must be at least 1")
	}
	if c.Agent.HistoryWindow < 0 {
		errs = append(errs, "agent history_window must not be negative")
	}
	if c.Agent.MinRelevance < 0 || c.Agent.MinRelevance > 1 {
		errs = append(errs, "agent min_relevance must be between 0 and 1")
	}

	// Embedding validation (optional but validate if set)
	if c.Embedding.URL != "" {
		if !isValidURL(c.Embedding.URL) {
			errs = append(errs, "embedding URL must be a valid URL")
		}
		if c.Embedding.Dimensions < 1 {
			errs = append(errs, "embedding dimensions must be positive when URL is set")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// getConfigPath returns the path to the config file
func getConfigPath() string {
	if path := os.Getenv("INSIGHT_CONFIG"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "config.json"
	}

	configDir := filepath.Join(homeDir, ".config", "insight")
	return filepath.Join(configDir, "config.json")
}
