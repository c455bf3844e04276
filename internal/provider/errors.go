package provider

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for common provider failures.
var (
	// Safety/Content errors
	ErrContentBlocked = errors.New("content blocked by safety filters")
	ErrEmptyResponse  = errors.New("empty response from model")

	// Rate limiting errors
	ErrRateLimit     = errors.New("rate limit exceeded")
	ErrQuotaExceeded = errors.New("quota exceeded")

	// Authentication errors
	ErrAuthentication = errors.New("authentication failed")

	// Network errors
	ErrNetwork            = errors.New("network error")
	ErrTimeout            = errors.New("request timeout")
	ErrServiceUnavailable = errors.New("service unavailable")

	// Request errors
	ErrInvalidRequest = errors.New("invalid request")
)

// ErrorCode represents a provider error code.
type ErrorCode string

const (
	ErrorCodeContentBlocked ErrorCode = "content_blocked"
	ErrorCodeEmptyResponse  ErrorCode = "empty_response"
	ErrorCodeRateLimit      ErrorCode = "rate_limit"
	ErrorCodeQuota          ErrorCode = "quota_exceeded"
	ErrorCodeAuth           ErrorCode = "authentication_failed"
	ErrorCodeNetwork        ErrorCode = "network_error"
	ErrorCodeTimeout        ErrorCode = "timeout"
	ErrorCodeUnavailable    ErrorCode = "service_unavailable"
	ErrorCodeInvalidRequest ErrorCode = "invalid_request"
)

// ProviderError wraps errors with additional context.
type ProviderError struct {
	Code       ErrorCode
	Message    string
	Underlying error
	Retryable  bool
	RetryAfter *time.Duration
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Underlying)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

// IsRetryable returns true if the error is retryable.
func IsRetryable(err error) bool {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.Retryable
	}
	return false
}

// GetRetryAfter returns the retry-after duration if present.
func GetRetryAfter(err error) *time.Duration {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr.RetryAfter
	}
	return nil
}

// Normalize converts err into a *ProviderError. Deadline expiry becomes a
// retryable timeout; other foreign errors become retryable network errors.
func Normalize(err error) *ProviderError {
	if err == nil {
		return nil
	}

	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &ProviderError{
			Code:       ErrorCodeTimeout,
			Message:    ErrTimeout.Error(),
			Underlying: err,
			Retryable:  true,
		}
	}

	return &ProviderError{
		Code:       ErrorCodeNetwork,
		Message:    ErrNetwork.Error(),
		Underlying: err,
		Retryable:  true,
	}
}
