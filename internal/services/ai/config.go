// File: internal/services/ai/config.go
package ai

import (
	"fmt"
	"time"
)

type Config struct {
	// Provider used when a request does not name one
	DefaultProvider string

	// Hosted chat-completion API
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	// Workers inference gateway
	WorkersURL   string
	WorkersKey   string
	WorkersModel string

	Timeout     time.Duration
	Temperature float32
}

func (c *Config) Validate() error {
	switch c.DefaultProvider {
	case ProviderOpenAI:
		if c.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when DEFAULT_AI is %q", ProviderOpenAI)
		}
	case ProviderWorkersAI:
		if c.WorkersURL == "" {
			return fmt.Errorf("WORKERS_AI_URL is required when DEFAULT_AI is %q", ProviderWorkersAI)
		}
	default:
		return fmt.Errorf("unknown default AI provider %q", c.DefaultProvider)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	return nil
}

// OpenAIEnabled reports whether the hosted provider has credentials.
func (c *Config) OpenAIEnabled() bool { return c.OpenAIKey != "" }

// WorkersEnabled reports whether the workers gateway has an endpoint.
func (c *Config) WorkersEnabled() bool { return c.WorkersURL != "" }

func DefaultConfig() *Config {
	return &Config{
		DefaultProvider: ProviderWorkersAI,
		OpenAIModel:     "gpt-4o-mini",
		WorkersModel:    "@cf/meta/llama-3.1-8b-instruct",
		Timeout:         45 * time.Second,
		Temperature:     0.6,
	}
}
