package textgen

import (
	"errors"
	"fmt"

	"github.com/ineyio/textgen/transport"
)

// Sentinel errors.
var (
	ErrMissingField      = errors.New("textgen: missing required field")
	ErrConfiguration     = errors.New("textgen: invalid client configuration")
	ErrUnsupportedClient = errors.New("textgen: unsupported client type")

	ErrInvalidRequest      = transport.ErrInvalidRequest
	ErrAuthFailed          = transport.ErrAuthFailed
	ErrRateLimited         = transport.ErrRateLimited
	ErrModelNotFound       = transport.ErrModelNotFound
	ErrProviderUnavailable = transport.ErrProviderUnavailable
	ErrTimeout             = transport.ErrTimeout
	ErrDecode              = transport.ErrDecode
)

// ValidationError reports a request or configuration field that failed a
// build-time check. No network call has been made when one is returned.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("textgen: %s", e.Field)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (got %v)", e.Value)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ClientError wraps an error with the client and operation that produced it.
type ClientError struct {
	Client ClientType
	Op     string
	Model  string
	Err    error
}

func (e *ClientError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("textgen: client=%s op=%s: %v", e.Client, e.Op, e.Err)
	}
	return fmt.Sprintf("textgen: client=%s op=%s model=%s: %v", e.Client, e.Op, e.Model, e.Err)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// Configurationf returns an error wrapping ErrConfiguration.
func Configurationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// IsConfiguration reports whether err is a build-time failure: a missing or
// invalid request field, or a missing vendor setting.
func IsConfiguration(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve) ||
		errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrUnsupportedClient)
}

// IsTransport reports whether err came from the HTTP exchange itself: a
// connection failure, a timeout or a non-2xx status.
func IsTransport(err error) bool {
	var se *transport.StatusError
	return errors.As(err, &se) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrProviderUnavailable)
}

// IsDecode reports whether err is a response body that did not match the
// expected shape.
func IsDecode(err error) bool {
	return errors.Is(err, ErrDecode)
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *transport.StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
