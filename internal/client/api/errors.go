package api

import (
	"errors"
	"fmt"

	"github.com/dbelyakov/noteleaf/internal/common"
)

// ErrUnavailable indicates the server could not be reached at all
// (connection refused, timeout, DNS failure).
var ErrUnavailable = errors.New("server unavailable")

// APIError is an error response returned by the server. The server replies
// with a JSON body of the form {"error": "..."} for all failures.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Is maps server responses onto the shared sentinel errors so callers can
// use errors.Is instead of inspecting status codes.
func (e *APIError) Is(target error) bool {
	switch target {
	case common.ErrorUnauthorized:
		return e.StatusCode == 401 || e.Message == "Invalid credentials"
	case common.ErrorNotFound:
		return e.StatusCode == 404
	case common.ErrorAlreadyExists:
		return e.Message == "User already exists"
	case common.ErrorValidation:
		return e.StatusCode == 400 && e.Message == "Validation failed"
	case common.ErrorInvalidOrExpiredCode:
		return e.Message == "Invalid or expired reset code"
	}
	return false
}
