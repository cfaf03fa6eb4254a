// File: internal/services/ai/interface.go
package ai

import "context"

// Registered provider names. Callers select one per request.
const (
	ProviderOpenAI    = "openai"
	ProviderWorkersAI = "workersai"
)

// Chat roles understood by every provider.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry of a conversation sent to a model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider is a single language-model backend.
type Provider interface {
	Name() string
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Completer is what the drafting code depends on: a provider chosen by name.
type Completer interface {
	Complete(ctx context.Context, provider string, messages []Message) (string, error)
}

// Logger is the subset of services.Logger used by this package.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}
