// Package apperr holds the error type crossing service/handler boundaries.
package apperr

import (
	"fmt"
	"net/http"
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

// Check if err is instance of T for custom error types
func Is[T error](err error) bool {
	if _, ok := err.(T); ok {
		return true
	}
	return false
}

func statusOf(err error) int {
	if e, ok := err.(*ErrorWithStatusCode); ok {
		return e.StatusCode
	}
	return http.StatusInternalServerError
}

func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

func IsConflict(err error) bool {
	return statusOf(err) == http.StatusConflict
}

// Constructors for the failure taxonomy. Workflows return these; the
// handler layer writes Message/StatusCode as-is.

func Validation(format string, a ...any) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: fmt.Sprintf(format, a...), StatusCode: http.StatusBadRequest}
}

func NotFound(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusNotFound}
}

func Conflict(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusConflict}
}

// InvalidCredentials deliberately covers both "no such account" and
// "wrong password" so callers cannot enumerate accounts.
func InvalidCredentials() *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}
}

func NotVerified() *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: "Account is not verified. Please verify your email first", StatusCode: http.StatusForbidden}
}

func CodeExpired() *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: "Verification code expired. Please sign up again to receive a new code", StatusCode: http.StatusBadRequest}
}

func CodeMismatch() *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: "Wrong verification code", StatusCode: http.StatusBadRequest}
}

// DependencyFailure marks an unreachable collaborator (store, SMTP).
func DependencyFailure(message string) *ErrorWithStatusCode {
	return &ErrorWithStatusCode{Message: message, StatusCode: http.StatusBadGateway}
}
