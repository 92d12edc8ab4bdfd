package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed call so callers can branch without parsing messages.
type Kind string

const (
	KindValidation       Kind = "validation"
	KindAuthRequired     Kind = "auth_required"
	KindPermissionDenied Kind = "permission_denied"
	KindNotFound         Kind = "not_found"
	KindServer           Kind = "server"
	KindNetwork          Kind = "network"
)

// PermissionDeniedMessage is shown for role violations, whether caught locally or by the server.
const PermissionDeniedMessage = "Insufficient permission to perform this action"

const (
	authRequiredMessage = "Please log in to continue"
	genericMessage      = "Something went wrong. Please try again."
)

// Error is returned by every Client method and by the client components built on it.
// Status is 0 when the failure happened locally or the request never completed.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage is the text to render. Validation, not-found and auth failures carry the
// server's wording verbatim; server and network failures get a retry hint.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindPermissionDenied:
		return PermissionDeniedMessage
	case KindAuthRequired:
		if e.Message != "" {
			return e.Message
		}
		return authRequiredMessage
	case KindServer, KindNetwork:
		return genericMessage
	default:
		if e.Message != "" {
			return e.Message
		}
		return genericMessage
	}
}

// Local builds an error detected before any I/O.
func Local(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// ErrAuthRequired is the local failure for calls made without a token.
func ErrAuthRequired() *Error {
	return Local(KindAuthRequired, authRequiredMessage)
}

// ErrPermissionDenied is the local failure for role-gated calls made by non-admins.
func ErrPermissionDenied() *Error {
	return Local(KindPermissionDenied, PermissionDeniedMessage)
}

// KindOf returns the kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// UserMessage renders any error for display.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.UserMessage()
	}
	return genericMessage
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthRequired
	case status == http.StatusForbidden:
		return KindPermissionDenied
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		// 400, 409 and 422 all mean the request made no sense in the current state.
		return KindValidation
	default:
		return KindServer
	}
}
