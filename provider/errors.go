package provider

import (
	"errors"
	"fmt"
)

// Sentinel errors for provider operations.
var (
	// ErrUnknownProvider indicates the requested provider is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrAuth indicates the backend rejected the credentials.
	ErrAuth = errors.New("authentication rejected")

	// ErrUnavailable indicates the request could not be established.
	ErrUnavailable = errors.New("provider unavailable")

	// ErrStatus indicates the backend answered with a non-success status.
	ErrStatus = errors.New("unexpected provider status")

	// ErrStreamInterrupted indicates the stream broke mid-transfer.
	ErrStreamInterrupted = errors.New("stream interrupted")

	// ErrRateLimited indicates the request was rate limited.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates the request timed out.
	ErrTimeout = errors.New("request timed out")

	// ErrInvalidRequest indicates the request or config is malformed.
	ErrInvalidRequest = errors.New("invalid request")
)

// Error wraps provider errors with context.
type Error struct {
	Provider  string // Provider name ("gemini", "openai", etc.)
	Op        string // Operation that failed ("connect", "stream")
	Err       error  // Underlying error
	Retryable bool   // Whether the error is likely transient
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new provider error.
func NewError(provider, op string, err error, retryable bool) *Error {
	return &Error{
		Provider:  provider,
		Op:        op,
		Err:       err,
		Retryable: retryable,
	}
}

// Classify wraps cause with sentinel so that both errors.Is(err, sentinel)
// and errors.Is(err, cause) hold.
func Classify(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return fmt.Errorf("%w: %w", sentinel, cause)
}

// IsRetryable checks if an error is likely transient. Nothing in this module
// retries; callers may use it for their own policy.
func IsRetryable(err error) bool {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Retryable
	}

	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrUnavailable) ||
		errors.Is(err, ErrTimeout)
}

// IsAuthError checks if an error is authentication-related.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuth)
}
