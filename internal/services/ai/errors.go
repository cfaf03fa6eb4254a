// File: internal/services/ai/errors.go
package ai

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeConfig      ErrorType = "CONFIG"
	ErrTypeProvider    ErrorType = "PROVIDER"
	ErrTypeRateLimit   ErrorType = "RATE_LIMIT"
	ErrTypeUnsupported ErrorType = "UNSUPPORTED"
	ErrTypeTimeout     ErrorType = "TIMEOUT"
)

type AIError struct {
	Type      ErrorType
	Code      int
	Message   string
	Provider  string
	Operation string
	Cause     error
}

func (e *AIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("AI %s error in %s/%s: %s (caused by: %v)",
			e.Type, e.Provider, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("AI %s error in %s/%s: %s", e.Type, e.Provider, e.Operation, e.Message)
}

func (e *AIError) Unwrap() error {
	return e.Cause
}

// IsType reports whether err is an *AIError of the given type.
func IsType(err error, errType ErrorType) bool {
	var aiErr *AIError
	return errors.As(err, &aiErr) && aiErr.Type == errType
}

func NewConfigError(msg string) *AIError {
	return &AIError{Type: ErrTypeConfig, Message: msg, Operation: "config"}
}

func NewProviderError(provider, msg string, cause error) *AIError {
	return &AIError{Type: ErrTypeProvider, Provider: provider, Operation: "completion", Message: msg, Cause: cause}
}

func NewRateLimitError(provider, msg string) *AIError {
	return &AIError{Type: ErrTypeRateLimit, Code: 429, Provider: provider, Operation: "completion", Message: msg}
}

func NewUnsupportedError(provider string) *AIError {
	return &AIError{Type: ErrTypeUnsupported, Provider: provider, Operation: "select", Message: "unsupported AI service"}
}

func NewTimeoutError(provider string, cause error) *AIError {
	return &AIError{Type: ErrTypeTimeout, Provider: provider, Operation: "completion", Message: "model call timed out", Cause: cause}
}
