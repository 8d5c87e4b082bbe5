package translation

import "fmt"

// ErrorKind classifies provider failures for audit logging and HTTP mapping.
type ErrorKind string

const (
	ErrorKindNetwork      ErrorKind = "network"
	ErrorKindRateLimited  ErrorKind = "rate_limited"
	ErrorKindUnauthorized ErrorKind = "unauthorized"
	ErrorKindUnknown      ErrorKind = "unknown"
)

// ProviderError is a typed translation backend failure.
type ProviderError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("provider %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("provider %s: %s", e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newProviderError(kind ErrorKind, message string, err error) *ProviderError {
	return &ProviderError{Kind: kind, Message: message, Err: err}
}
