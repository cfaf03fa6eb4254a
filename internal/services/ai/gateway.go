// File: internal/services/ai/gateway.go
package ai

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"
)

// Gateway routes completions to a registered provider by name and bounds
// every call with a timeout.
type Gateway struct {
	providers       map[string]Provider
	defaultProvider string
	timeout         time.Duration
	logger          Logger
}

func NewGateway(defaultProvider string, timeout time.Duration, logger Logger, providers ...Provider) *Gateway {
	registry := make(map[string]Provider, len(providers))
	for _, p := range providers {
		registry[p.Name()] = p
	}
	return &Gateway{
		providers:       registry,
		defaultProvider: defaultProvider,
		timeout:         timeout,
		logger:          logger,
	}
}

// NewGatewayFromConfig registers every provider the configuration enables.
func NewGatewayFromConfig(config *Config, httpClient *http.Client, logger Logger) (*Gateway, error) {
	if err := config.Validate(); err != nil {
		return nil, NewConfigError(err.Error())
	}

	var providers []Provider
	if config.OpenAIEnabled() {
		providers = append(providers, NewOpenAIProvider(config))
	}
	if config.WorkersEnabled() {
		providers = append(providers, NewWorkersProvider(config, httpClient))
	}

	logger.Info("AI gateway configured", "default", config.DefaultProvider, "providers", len(providers), "timeout", config.Timeout.String())
	return NewGateway(config.DefaultProvider, config.Timeout, logger, providers...), nil
}

func (g *Gateway) DefaultProvider() string { return g.defaultProvider }

// Providers lists registered provider names in sorted order.
func (g *Gateway) Providers() []string {
	names := make([]string, 0, len(g.providers))
	for name := range g.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Complete runs messages through the named provider, or the default one when
// provider is empty. Errors are always *AIError.
func (g *Gateway) Complete(ctx context.Context, provider string, messages []Message) (string, error) {
	name := provider
	if name == "" {
		name = g.defaultProvider
	}

	p, ok := g.providers[name]
	if !ok {
		g.logger.Warn("unsupported AI provider requested", "provider", name)
		return "", NewUnsupportedError(name)
	}
	if len(messages) == 0 {
		return "", NewProviderError(name, "no messages to complete", nil)
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	text, err := p.Complete(callCtx, messages)
	elapsed := time.Since(start)
	if err != nil {
		err = g.normalize(callCtx, name, err)
		g.logger.Error("provider call failed", "provider", name, "elapsed", elapsed.String(), "error", err)
		return "", err
	}

	g.logger.Debug("provider call completed", "provider", name, "messages", len(messages), "elapsed", elapsed.String())
	return text, nil
}

func (g *Gateway) normalize(ctx context.Context, name string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) && !IsType(err, ErrTypeRateLimit) && !IsType(err, ErrTypeTimeout) {
		return NewTimeoutError(name, err)
	}
	var aiErr *AIError
	if errors.As(err, &aiErr) {
		return err
	}
	return NewProviderError(name, "provider call failed", err)
}
