package gateway

import (
	"errors"
	"net/http"

	"github.com/ineyio/textgen"
)

// StatusFor maps a client error to the gateway's HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, textgen.ErrMissingField), errors.Is(err, textgen.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, textgen.ErrAuthFailed):
		return http.StatusUnauthorized
	case errors.Is(err, textgen.ErrModelNotFound):
		return http.StatusNotFound
	case errors.Is(err, textgen.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, textgen.ErrTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, textgen.ErrConfiguration):
		return http.StatusInternalServerError
	default:
		return http.StatusBadGateway
	}
}
