// File: internal/services/draft/errors.go
package draft

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	ErrTypeInvalidInput        ErrorType = "INVALID_INPUT"
	ErrTypeNotFound            ErrorType = "NOT_FOUND"
	ErrTypeAlreadySent         ErrorType = "ALREADY_SENT"
	ErrTypeNoDraft             ErrorType = "NO_DRAFT"
	ErrTypeRateLimited         ErrorType = "RATE_LIMITED"
	ErrTypeProvider            ErrorType = "PROVIDER"
	ErrTypeUnsupportedProvider ErrorType = "UNSUPPORTED_PROVIDER"
	ErrTypeMalformedOutput     ErrorType = "MALFORMED_OUTPUT"
	ErrTypeDataIntegrity       ErrorType = "DATA_INTEGRITY"
	ErrTypeSendFailed          ErrorType = "SEND_FAILED"
	ErrTypeInternal            ErrorType = "INTERNAL"
)

type DraftError struct {
	Type      ErrorType
	Operation string
	Message   string
	ChatID    uint
	UserID    uint
	Cause     error
}

func (e *DraftError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("Draft %s error in %s: %s (caused by: %v)",
			e.Type, e.Operation, e.Message, e.Cause)
	}
	return fmt.Sprintf("Draft %s error in %s: %s", e.Type, e.Operation, e.Message)
}

func (e *DraftError) Unwrap() error {
	return e.Cause
}

// IsType reports whether err is a *DraftError of the given type.
func IsType(err error, errType ErrorType) bool {
	var draftErr *DraftError
	return errors.As(err, &draftErr) && draftErr.Type == errType
}

// AsDraftError extracts the *DraftError from err, if any.
func AsDraftError(err error) (*DraftError, bool) {
	var draftErr *DraftError
	ok := errors.As(err, &draftErr)
	return draftErr, ok
}

func NewInvalidInputError(operation, msg string) *DraftError {
	return &DraftError{Type: ErrTypeInvalidInput, Operation: operation, Message: msg}
}

func NewNotFoundError(operation, msg string, cause error) *DraftError {
	return &DraftError{Type: ErrTypeNotFound, Operation: operation, Message: msg, Cause: cause}
}

func NewAlreadySentError(operation string, chatID uint) *DraftError {
	return &DraftError{Type: ErrTypeAlreadySent, Operation: operation, Message: "email already sent", ChatID: chatID}
}

func NewNoDraftError(chatID uint) *DraftError {
	return &DraftError{Type: ErrTypeNoDraft, Operation: "modify", Message: "no draft to modify", ChatID: chatID}
}

func NewMalformedOutputError(msg string) *DraftError {
	return &DraftError{Type: ErrTypeMalformedOutput, Operation: "parse", Message: msg}
}

func NewDataIntegrityError(operation, msg string, cause error) *DraftError {
	return &DraftError{Type: ErrTypeDataIntegrity, Operation: operation, Message: msg, Cause: cause}
}

func NewSendFailedError(msg string, cause error) *DraftError {
	return &DraftError{Type: ErrTypeSendFailed, Operation: "send", Message: msg, Cause: cause}
}

func NewInternalError(operation, msg string, cause error) *DraftError {
	return &DraftError{Type: ErrTypeInternal, Operation: operation, Message: msg, Cause: cause}
}
