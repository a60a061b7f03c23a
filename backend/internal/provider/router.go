package provider

import (
	"errors"
	"sync"

	"github.com/aura-plataforma/chatbot-service/backend/internal/config"
)

// Router manages the configured text generators and selects the one to use
// for a request. Generation is stateless per message, so selection is a
// simple default-with-fallback lookup.
type Router struct {
	providers map[string]Provider
	fallback  string
	mu        sync.RWMutex
}

// NewRouter creates an empty provider router
func NewRouter() *Router {
	return &Router{
		providers: make(map[string]Provider),
	}
}

// NewRouterFromConfig creates a router initialized with providers from config
func NewRouterFromConfig(cfg *config.Config) (*Router, error) {
	router := NewRouter()

	for name, provConfig := range cfg.Providers {
		opts := GenerationOptions{
			Model:       provConfig.Model,
			Temperature: provConfig.Temperature,
			MaxTokens:   provConfig.MaxTokens,
		}

		var p Provider
		switch provConfig.Type {
		case "ollama":
			p = NewOllamaProvider(provConfig.BaseURL, opts, provConfig.Timeout)
		case "openai":
			p = NewOpenAIProvider(provConfig.BaseURL, provConfig.APIKey, opts, provConfig.Timeout)
		default:
			// Default to OpenAI-compatible
			p = NewOpenAIProvider(provConfig.BaseURL, provConfig.APIKey, opts, provConfig.Timeout)
		}

		router.RegisterProvider(name, p)

		if provConfig.Default {
			router.SetFallback(name)
		}
	}

	// If no fallback set, use "default" or first available
	if router.fallback == "" {
		if _, ok := router.providers["default"]; ok {
			router.fallback = "default"
		} else {
			for name := range router.providers {
				router.fallback = name
				break
			}
		}
	}

	return router, nil
}

// RegisterProvider adds a provider to the router
func (r *Router) RegisterProvider(name string, provider Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = provider
}

// SetFallback sets the default provider to use
func (r *Router) SetFallback(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallback = name
}

// ErrNoProvider is returned when no generator is configured.
var ErrNoProvider = errors.New("no provider available")

// Route selects the provider to use for a request
func (r *Router) Route() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.fallback != "" {
		if p, ok := r.providers[r.fallback]; ok {
			return p, nil
		}
	}

	// Return first available provider
	for _, p := range r.providers {
		return p, nil
	}

	return nil, ErrNoProvider
}

// GetProvider returns a specific provider by name
func (r *Router) GetProvider(name string) (Provider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[name]
	return p, ok
}

// ListProviders returns all registered provider names
func (r *Router) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
