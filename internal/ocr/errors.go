package ocr

import (
	"errors"
	"fmt"
)

// ErrProviderUnavailable indicates a provider could not be constructed at
// all: missing credentials, endpoint or runtime support.
var ErrProviderUnavailable = errors.New("ocr provider unavailable")

// ProviderError wraps a failure from one OCR provider. StatusCode is zero
// for network-level failures. Retryable marks transient failures
// (connectivity errors and 5xx responses); 4xx-class responses are not.
type ProviderError struct {
	Provider   string
	StatusCode int
	Retryable  bool
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewNetworkError wraps a connectivity failure (always retryable).
func NewNetworkError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Retryable: true, Err: err}
}

// NewResponseError wraps a non-2xx response; only 5xx-class responses are
// retryable.
func NewResponseError(provider string, status int, err error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		StatusCode: status,
		Retryable:  status >= 500,
		Err:        err,
	}
}

// NewParseError wraps a malformed provider response body (not retryable).
func NewParseError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Err: fmt.Errorf("malformed response: %w", err)}
}

// IsRetryable reports whether err is a transient provider failure.
func IsRetryable(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Retryable
}
