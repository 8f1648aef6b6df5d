package client

import (
	"errors"
	"net/http"
)

// UserMessage normalizes any error from the client into the single string
// shown to the user. Validation errors keep their own message since they name
// the offending field; everything transport-shaped collapses to its class.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		// Transport failures: connection refused, DNS, timeout.
		return "check connection / backend availability"
	}

	switch {
	case apiErr.Status == http.StatusUnauthorized:
		return "session expired, please log in again"
	case apiErr.Status == http.StatusForbidden:
		return "not permitted"
	case apiErr.Status == http.StatusNotFound:
		return "resource not found"
	case apiErr.Status == http.StatusTooManyRequests:
		return "too many requests, retry later"
	case apiErr.Status >= http.StatusInternalServerError:
		return "server error, try again"
	case apiErr.Detail != "":
		return apiErr.Detail
	default:
		return "request failed"
	}
}
