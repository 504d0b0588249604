package domain

import "errors"

// Common domain errors
var (
	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidUserID   = errors.New("invalid user ID format")

	// Message errors
	ErrMessageNotFound = errors.New("message not found")
	ErrInvalidRole     = errors.New("invalid message role")
	ErrEmptyContent    = errors.New("content cannot be empty")

	// Capability errors
	ErrUnknownCapability = errors.New("unknown capability")
	ErrInvalidArguments  = errors.New("invalid capability arguments")

	// Warehouse errors
	ErrQueryNotReadOnly = errors.New("only read-only queries are allowed")
	ErrQueryTooLong     = errors.New("query exceeds maximum length")
	ErrQueryTimeout     = errors.New("query execution timed out")

	// Knowledge errors
	ErrEmbeddingsFailed = errors.New("failed to generate embeddings")
	ErrSearchFailed     = errors.New("knowledge search failed")

	// Memory errors
	ErrEmptyMemoryKey    = errors.New("memory key cannot be empty")
	ErrEmptyMemoryValue  = errors.New("memory value cannot be empty")
	ErrInvalidMemoryType = errors.New("invalid memory type")

	// Model errors
	ErrModelUnavailable   = errors.New("reasoning model unavailable")
	ErrModelRequestFailed = errors.New("reasoning model request failed")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
)

// DomainError wraps a domain error with additional context
type DomainError struct {
	Err     error
	Message string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

func NewDomainError(err error, message string) *DomainError {
	return &DomainError{Err: err, Message: message}
}
