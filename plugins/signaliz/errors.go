package signaliz

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingAPIKey is returned before any request is sent when no key is configured.
var ErrMissingAPIKey = errors.New("signaliz: API key is not configured")

// CredentialError reports a key that is missing or was rejected by the
// credential probe.
type CredentialError struct {
	Err error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("signaliz credentials are not valid: %v", e.Err)
}

func (e *CredentialError) Unwrap() error {
	return e.Err
}

// ApiError is a failed call: a transport error or a non-2xx response.
// StatusCode is 0 when no response was received.
type ApiError struct {
	Resource   Resource
	StatusCode int
	Message    string
	Payload    any
	Err        error
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("signaliz %s: %s", e.Resource, e.Message)
}

func (e *ApiError) Unwrap() error {
	return e.Err
}

// Transient reports whether the same call could succeed later: no response,
// rate limiting, or a server-side failure.
func (e *ApiError) Transient() bool {
	return e.StatusCode == 0 ||
		e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode >= http.StatusInternalServerError
}
