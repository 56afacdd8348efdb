package httpclient

import (
	"fmt"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
)

// Error is a non-2xx response. It is marked ErrHTTPClient.
type Error struct {
	StatusCode int
	Response   []byte
	err        error
}

func (e *Error) Unwrap() error {
	return e.err
}

func (e *Error) Error() string {
	return e.err.Error()
}

// NewError creates a new HTTP client error
func NewError(statusCode int, response []byte) *Error {
	return &Error{
		StatusCode: statusCode,
		Response:   response,
		err: ierr.NewError(fmt.Sprintf("http status %d", statusCode)).
			WithHintf("The remote service answered with status %d", statusCode).
			WithReportableDetails(map[string]any{
				"status_code": statusCode,
				"response":    string(response),
			}).
			Mark(ierr.ErrHTTPClient),
	}
}

// IsHTTPError checks if an error is an HTTP client error
func IsHTTPError(err error) (*Error, bool) {
	var httpErr *Error
	if ierr.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
