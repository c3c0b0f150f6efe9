package core

import "fmt"

// Error is a structured error with a stable code and optional cause.
type Error struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is matching by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WrapError creates a new error with the same code but with a cause.
func WrapError(base *Error, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: base.Message,
		Cause:   cause,
	}
}

// Predefined errors
var (
	// Fetch errors
	ErrInvalidSymbol  = &Error{Code: "INVALID_SYMBOL", Message: "symbol invalid or delisted"}
	ErrRateLimited    = &Error{Code: "RATE_LIMITED", Message: "provider rate limit exceeded"}
	ErrTransientFetch = &Error{Code: "TRANSIENT_FETCH", Message: "transient fetch failure"}
	ErrFetchExhausted = &Error{Code: "FETCH_EXHAUSTED", Message: "fetch retries exhausted"}

	// Normalization errors (logged, never propagated past the normalizer)
	ErrNormalization = &Error{Code: "NORMALIZATION_FAILED", Message: "normalization failed"}

	// Data errors
	ErrNoData = &Error{Code: "NO_DATA", Message: "no data available"}

	// Config errors
	ErrConfigInvalid = &Error{Code: "CONFIG_INVALID", Message: "configuration invalid"}
	ErrConfigMissing = &Error{Code: "CONFIG_MISSING", Message: "required configuration missing"}

	// Summarizer errors
	ErrSummarizerFailed = &Error{Code: "SUMMARIZER_FAILED", Message: "summarizer request failed"}
)
