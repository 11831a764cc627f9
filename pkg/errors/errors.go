package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies failures observed while talking to the search service
type ErrorType string

const (
	// ErrorTypeThrottled covers 403/429 rate-limit responses; the only
	// retryable class (same page, fixed cooldown)
	ErrorTypeThrottled ErrorType = "throttled"
	// ErrorTypeTransport covers connectivity-level failures (DNS, reset,
	// timeout); the current window's paging is abandoned, never retried
	ErrorTypeTransport ErrorType = "transport"
	// ErrorTypeUpstream covers any other non-200 status; stops paging
	ErrorTypeUpstream ErrorType = "upstream"
	// ErrorTypeEmptyPage is the normal pagination terminator, not a failure
	ErrorTypeEmptyPage ErrorType = "empty_page"
	// ErrorTypeParsing covers payloads that fail schema validation;
	// treated like an upstream stop, never silently coerced
	ErrorTypeParsing  ErrorType = "parsing"
	ErrorTypeNotFound ErrorType = "not_found"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// Error carries the failure class alongside the HTTP status that produced it
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
}

// NewThrottled builds the error for a rate-limit response
func NewThrottled(code int, msg string) *Error {
	return &Error{Type: ErrorTypeThrottled, Message: msg, Code: code}
}

// NewTransport wraps a connectivity-level failure; code 0 means the request
// never produced a status
func NewTransport(msg string) *Error {
	return &Error{Type: ErrorTypeTransport, Message: msg, Code: 0}
}

// NewUpstream builds the error for a non-200, non-throttle status
func NewUpstream(code int, msg string) *Error {
	return &Error{Type: ErrorTypeUpstream, Message: msg, Code: code}
}

// NewParsing builds the error for a payload that failed schema validation
func NewParsing(msg string) *Error {
	return &Error{Type: ErrorTypeParsing, Message: msg, Code: 0}
}

// NewNotFound builds the error for a 404 response
func NewNotFound(msg string) *Error {
	return &Error{Type: ErrorTypeNotFound, Message: msg, Code: 404}
}

// TypeOf extracts the ErrorType from any error; non-typed errors report
// ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsThrottled reports whether err is a rate-limit failure
func IsThrottled(err error) bool {
	return TypeOf(err) == ErrorTypeThrottled
}

// IsRetryable checks if an error type should be retried. Only throttling is
// retried: the cooldown-and-same-page contract. Transport and upstream
// failures abandon the window instead.
func IsRetryable(errorType ErrorType) bool {
	return errorType == ErrorTypeThrottled
}

// IsThrottleStatus checks if an HTTP status code signals rate limiting.
// GitHub reports search throttling as 403 (secondary limits) or 429.
func IsThrottleStatus(statusCode int) bool {
	return statusCode == 403 || statusCode == 429
}
