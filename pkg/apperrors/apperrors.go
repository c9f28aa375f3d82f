// Package apperrors defines the error taxonomy shared by all handlers:
// validation, authorization, not-found and conflict failures, each
// carrying the HTTP status it should surface as.
package apperrors

import (
	"errors"
	"net/http"
)

// Error is a request-level failure with a fixed HTTP status.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *Error) Error() string { return e.Message }

// Validation reports malformed, missing or conflicting input.
func Validation(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

// Authorization reports a role-mismatched or otherwise forbidden action.
func Authorization(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

// NotFound reports an absent entity. Ownership-scoped lookups also
// return this for rows owned by someone else, so existence is not
// leaked to non-owners.
func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}

// Conflict reports a uniqueness violation such as a duplicate email.
func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Message: msg}
}

// StatusOf maps any error to an HTTP status. Unknown errors are 500s.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return is(err, http.StatusBadRequest) }

// IsAuthorization reports whether err is an authorization failure.
func IsAuthorization(err error) bool { return is(err, http.StatusForbidden) }

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool { return is(err, http.StatusNotFound) }

func is(err error, status int) bool {
	var e *Error
	return errors.As(err, &e) && e.Status == status
}
