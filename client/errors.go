package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// APIError is the decoded error envelope of a failed board API call.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	RequestID  string `json:"request_id,omitempty"`

	// RetryAfter is set from the Retry-After header of a 429.
	RetryAfter time.Duration `json:"-"`
}

func (e *APIError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("graphboard: %d %s: %s (request_id=%s)", e.StatusCode, e.Code, e.Message, e.RequestID)
	}

	return fmt.Sprintf("graphboard: %d %s: %s", e.StatusCode, e.Code, e.Message)
}

// IsClientError reports whether the server rejected the request itself (4xx)
// rather than failing to process it. The editor treats these as rejected
// board operations and keeps going.
func (e *APIError) IsClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

func statusIs(err error, code int) bool {
	var e *APIError
	return errors.As(err, &e) && e.StatusCode == code
}

// IsNotFound reports a 404, e.g. an edge endpoint that no longer exists.
func IsNotFound(err error) bool { return statusIs(err, http.StatusNotFound) }

// IsInvalid reports a 400: malformed input or a failed validation.
func IsInvalid(err error) bool { return statusIs(err, http.StatusBadRequest) }

// IsUnauthorized reports a missing or wrong API key.
func IsUnauthorized(err error) bool { return statusIs(err, http.StatusUnauthorized) }

// IsRateLimited reports a 429 that survived the client's own retries.
func IsRateLimited(err error) bool { return statusIs(err, http.StatusTooManyRequests) }

// parseAPIError decodes the JSON error envelope, falling back to the raw body
// for errors that did not come from the board server (proxies, gateways).
func parseAPIError(resp *http.Response, body []byte) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = "unknown"
		apiErr.Message = string(body)
	}

	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		apiErr.RetryAfter = time.Duration(secs) * time.Second
	}

	if apiErr.RequestID == "" {
		apiErr.RequestID = resp.Header.Get(requestIDHeader)
	}

	return apiErr
}
