package transport

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors. The root textgen package re-exports them.
var (
	ErrAuthFailed          = errors.New("textgen: authentication failed")
	ErrRateLimited         = errors.New("textgen: rate limited by provider")
	ErrInvalidRequest      = errors.New("textgen: invalid request")
	ErrModelNotFound       = errors.New("textgen: model not found")
	ErrProviderUnavailable = errors.New("textgen: provider unavailable")
	ErrTimeout             = errors.New("textgen: request timed out")
	ErrDecode              = errors.New("textgen: decode response")
)

// StatusError is returned for any non-2xx HTTP response.
type StatusError struct {
	Name       string
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("textgen: %s %s %s: status %d: %s", e.Name, e.Method, e.URL, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

// statusSentinel maps an HTTP status code to the sentinel it wraps.
func statusSentinel(code int) error {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthFailed
	case http.StatusNotFound:
		return ErrModelNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrInvalidRequest
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrTimeout
	default:
		return ErrProviderUnavailable
	}
}
