package router

import (
	"net"
	"net/http"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/httpclient"
	"github.com/dojocycle/dojocycle/internal/logger"
)

// shouldRetry decides whether a failed handler run is worth another attempt.
// WhatsApp throttling and gateway errors are transient, as are database and
// network failures. Anything the caller got wrong stays wrong on retry.
func shouldRetry(logger *logger.Logger, err error) bool {
	if httpErr, ok := httpclient.IsHTTPError(err); ok {
		retry := httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= http.StatusInternalServerError
		logger.Debugw("handler failed on http call",
			"status_code", httpErr.StatusCode,
			"retry", retry,
			"error", httpErr,
		)
		return retry
	}

	var netErr net.Error
	if ierr.As(err, &netErr) && netErr.Timeout() {
		logger.Debugw("retrying due to network timeout", "error", netErr)
		return true
	}

	switch {
	case ierr.IsValidation(err),
		ierr.IsNotFound(err),
		ierr.IsInvalidOperation(err),
		ierr.IsAlreadyExists(err),
		ierr.IsPolicyViolation(err):
		return false
	}

	return true
}
