package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Providers  map[string]ProviderConfig
	Clustering ClusteringConfig
	Sentiment  SentimentConfig
	Patterns   PatternsConfig
	Logging    LoggingConfig
	Breaker    BreakerConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ProviderConfig holds configuration for a single text-generation provider
type ProviderConfig struct {
	Type        string // openai, ollama
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Default     bool
	Timeout     time.Duration
}

// ClusteringConfig holds the historical-risk provider settings
type ClusteringConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

// SentimentConfig holds the sentiment sidecar settings
type SentimentConfig struct {
	URL           string
	Timeout       time.Duration
	MaxTextLength int
}

// PatternsConfig holds the classifier pattern-table settings
type PatternsConfig struct {
	// File is an optional YAML pattern table overriding the built-in
	// phrase lists.
	File string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level    string // debug, info, warn, error
	AuditLog string // Path for the audit log; empty logs to stdout
}

// BreakerConfig holds circuit breaker settings for the generation path
type BreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8002),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SEC", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SEC", 60)) * time.Second,
		},
		Providers: make(map[string]ProviderConfig),
		Clustering: ClusteringConfig{
			BaseURL:  getEnv("CLUSTERING_SERVICE_URL", "http://localhost:8001"),
			Timeout:  time.Duration(getEnvInt("CLUSTERING_TIMEOUT_SEC", 10)) * time.Second,
			CacheTTL: time.Duration(getEnvInt("CLUSTERING_CACHE_TTL_SEC", 300)) * time.Second,
		},
		Sentiment: SentimentConfig{
			URL:           getEnv("SENTIMENT_SIDECAR_URL", "http://localhost:8003"),
			Timeout:       time.Duration(getEnvInt("SENTIMENT_TIMEOUT_SEC", 10)) * time.Second,
			MaxTextLength: getEnvInt("SENTIMENT_MAX_TEXT_LENGTH", 512),
		},
		Patterns: PatternsConfig{
			File: getEnv("INTENT_PATTERN_FILE", ""),
		},
		Logging: LoggingConfig{
			Level:    getEnv("LOG_LEVEL", "info"),
			AuditLog: getEnv("AUDIT_LOG_FILE", ""),
		},
		Breaker: BreakerConfig{
			Enabled:          getEnvBool("BREAKER_ENABLED", true),
			FailureThreshold: getEnvInt("BREAKER_FAILURE_THRESHOLD", 5),
			SuccessThreshold: getEnvInt("BREAKER_SUCCESS_THRESHOLD", 2),
			Timeout:          time.Duration(getEnvInt("BREAKER_TIMEOUT_SEC", 30)) * time.Second,
		},
	}

	// Legacy single-provider config
	if url := os.Getenv("PROVIDER_URL"); url != "" {
		cfg.Providers["default"] = ProviderConfig{
			Type:        detectProviderType(url),
			BaseURL:     url,
			APIKey:      os.Getenv("PROVIDER_KEY"),
			Model:       getEnv("PROVIDER_MODEL", "llama-3.1-8b-instant"),
			Temperature: getEnvFloat32("PROVIDER_TEMPERATURE", 0.7),
			MaxTokens:   getEnvInt("PROVIDER_MAX_TOKENS", 500),
			Default:     true,
			Timeout:     time.Duration(getEnvInt("PROVIDER_TIMEOUT_SEC", 60)) * time.Second,
		}
	}

	cfg.loadProviderConfigs()

	return cfg
}

// loadProviderConfigs loads per-type provider configurations from environment
func (c *Config) loadProviderConfigs() {
	providerTypes := []string{"openai", "ollama"}

	for _, pType := range providerTypes {
		envPrefix := "PROVIDER_" + strings.ToUpper(pType) + "_"
		baseURL := os.Getenv(envPrefix + "URL")
		if baseURL == "" {
			continue
		}

		c.Providers[pType] = ProviderConfig{
			Type:        pType,
			BaseURL:     baseURL,
			APIKey:      os.Getenv(envPrefix + "KEY"),
			Model:       getEnv(envPrefix+"MODEL", "llama-3.1-8b-instant"),
			Temperature: getEnvFloat32(envPrefix+"TEMPERATURE", 0.7),
			MaxTokens:   getEnvInt(envPrefix+"MAX_TOKENS", 500),
			Default:     getEnvBool(envPrefix+"DEFAULT", false),
			Timeout:     time.Duration(getEnvInt(envPrefix+"TIMEOUT_SEC", 60)) * time.Second,
		}
	}
}

// detectProviderType attempts to identify the provider from URL
func detectProviderType(url string) string {
	switch {
	case strings.Contains(url, "localhost:11434") || strings.Contains(url, "ollama"):
		return "ollama"
	default:
		return "openai" // OpenAI-compatible covers Groq and most gateways
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}
