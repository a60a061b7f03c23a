package provider

import (
	"context"
	"net/http"
	"time"
)

// Provider is the interface that all text generators must implement.
// Generate may fail; the responder converts failures into the fixed
// degraded-service message, never propagates them raw.
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// Generate produces a response for the user prompt given the composed
	// system context.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// GenerationOptions holds the model parameters shared by all providers.
type GenerationOptions struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// BaseProvider provides common functionality for all providers
type BaseProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
	Options GenerationOptions
}

// NewBaseProvider creates a new base provider
func NewBaseProvider(baseURL, apiKey string, opts GenerationOptions, timeout time.Duration) *BaseProvider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &BaseProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: timeout},
		Options: opts,
	}
}
