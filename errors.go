package hub

import (
	"errors"
	"net/http"
	"strconv"
	"time"
)

// ErrorCategory tells a caller what to do with a failed model or feed call.
type ErrorCategory string

const (
	// ErrorTransient failures (rate limits, 5xx, resets) may succeed on retry.
	ErrorTransient ErrorCategory = "transient"
	// ErrorPermanent failures need an operator: bad key, unknown model, broken config.
	ErrorPermanent ErrorCategory = "permanent"
	// ErrorUserInput means the request itself was rejected and must change.
	ErrorUserInput ErrorCategory = "user_input"
)

// Error is returned by provider adapters and the news fetcher. Workflow steps
// only look at Category and RetryAfter; Status is kept for logs.
type Error struct {
	Msg        string
	Category   ErrorCategory
	Status     int
	RetryAfter time.Duration
	Err        error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// NewStatusError classifies an upstream failure by its HTTP status.
// A server-supplied retry hint always makes the error transient.
func NewStatusError(msg string, status int, retryAfter time.Duration, cause error) *Error {
	cat := CategorizeStatus(status)
	if retryAfter > 0 {
		cat = ErrorTransient
	}
	return &Error{Msg: msg, Category: cat, Status: status, RetryAfter: retryAfter, Err: cause}
}

// NewPermanentError reports a failure that retrying cannot fix.
func NewPermanentError(msg string, status int, cause error) *Error {
	return &Error{Msg: msg, Category: ErrorPermanent, Status: status, Err: cause}
}

// NewTransientError reports a failure worth retrying.
func NewTransientError(msg string, status int, cause error) *Error {
	return &Error{Msg: msg, Category: ErrorTransient, Status: status, Err: cause}
}

func asError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// CategoryOf returns the category carried anywhere in err's chain, or "".
func CategoryOf(err error) ErrorCategory {
	if e, ok := asError(err); ok {
		return e.Category
	}
	return ""
}

// IsTransient reports whether err is a retryable upstream failure.
func IsTransient(err error) bool { return CategoryOf(err) == ErrorTransient }

// RetryAfterOf returns the server's retry hint, if any.
func RetryAfterOf(err error) time.Duration {
	if e, ok := asError(err); ok {
		return e.RetryAfter
	}
	return 0
}

// CategorizeStatus maps an HTTP status to a category. Unknown codes are
// treated as permanent.
func CategorizeStatus(status int) ErrorCategory {
	switch {
	case status == http.StatusTooManyRequests, status >= 500 && status < 600:
		return ErrorTransient
	case status == http.StatusBadRequest, status == http.StatusNotFound,
		status == http.StatusUnprocessableEntity:
		return ErrorUserInput
	default:
		return ErrorPermanent
	}
}

// ParseRetryAfter reads a Retry-After header in either delta-seconds or
// HTTP-date form. Missing, malformed or past values yield 0.
func ParseRetryAfter(resp *http.Response) time.Duration {
	if resp == nil {
		return 0
	}
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0)
	}
	return 0
}

// String makes categories readable in log attributes.
func (c ErrorCategory) String() string {
	if c == "" {
		return "uncategorized"
	}
	return string(c)
}
