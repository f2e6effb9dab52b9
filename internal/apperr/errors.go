// Package apperr carries the error taxonomy shared by repositories,
// services and handlers. Repositories never let store errors cross
// their boundary raw; they wrap them here and the transport layer maps
// each kind to a status code.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	Validation Kind = iota + 1
	Authentication
	Authorization
	NotFound
	Conflict
	Persistence
	MethodNotAllowed
)

type Error struct {
	Kind    Kind
	Message string
	Details map[string]string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WithDetails(kind Kind, message string, details map[string]string) *Error {
	return &Error{Kind: kind, Message: message, Details: details}
}

// KindOf returns the kind of err, or Persistence for anything outside
// the taxonomy so unexpected failures surface as opaque 500s.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Persistence
}

func DetailsOf(err error) map[string]string {
	var e *Error
	if errors.As(err, &e) {
		return e.Details
	}
	return nil
}

func StatusCode(err error) int {
	switch KindOf(err) {
	case Validation:
		return http.StatusBadRequest
	case Authentication:
		return http.StatusUnauthorized
	case Authorization:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case MethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
