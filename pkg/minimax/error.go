package minimax

import (
	"errors"
	"fmt"
)

// Error is a MiniMax API error, built from the base_resp envelope or from a
// non-200 HTTP status.
type Error struct {
	StatusCode int    `json:"status_code"`
	StatusMsg  string `json:"status_msg"`
	TraceID    string `json:"trace_id"`

	// HTTPStatus is the HTTP status code of the response.
	HTTPStatus int `json:"-"`
}

func (e *Error) Error() string {
	if e.TraceID == "" {
		return fmt.Sprintf("minimax: %s (code=%d)", e.StatusMsg, e.StatusCode)
	}
	return fmt.Sprintf("minimax: %s (code=%d, trace=%s)", e.StatusMsg, e.StatusCode, e.TraceID)
}

// IsRateLimit reports a rate limit error.
func (e *Error) IsRateLimit() bool {
	return e.StatusCode == 1002 || e.HTTPStatus == 429
}

// IsInvalidAPIKey reports an authentication error.
func (e *Error) IsInvalidAPIKey() bool {
	return e.StatusCode == 1004 || e.StatusCode == 1001 || e.HTTPStatus == 401
}

// IsInsufficientQuota reports an exhausted balance.
func (e *Error) IsInsufficientQuota() bool {
	return e.StatusCode == 1008 || e.StatusCode == 1003
}

// IsSensitive reports that the input or output was rejected by content
// moderation.
func (e *Error) IsSensitive() bool {
	return e.StatusCode == 1026 || e.StatusCode == 1027
}

// IsServerError reports a server-side failure.
func (e *Error) IsServerError() bool {
	return e.StatusCode >= 5000 || e.HTTPStatus >= 500
}

// Retryable reports whether the request may succeed if repeated.
func (e *Error) Retryable() bool {
	return e.IsRateLimit() || e.IsServerError()
}

// AsError extracts *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
